package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default DSN: foreign keys enforced, writers wait instead of failing, and
// write transactions take the lock up front so conflict checks and inserts
// commit atomically.
const defaultSQLiteDSN = "file:reservations.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// Config captures environment driven configuration values for the reservation service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	OccupancyCacheTTL time.Duration
	ShutdownTimeout   time.Duration
}

// Load parses configuration values from the current process environment. A
// .env file in the working directory is merged in first when present; real
// environment variables take precedence.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         defaultSQLiteDSN,
		OccupancyCacheTTL: 30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RESERVATIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVATIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RESERVATIONS_OCCUPANCY_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RESERVATIONS_OCCUPANCY_CACHE_TTL")
		} else {
			cfg.OccupancyCacheTTL = ttl
		}
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("RESERVATIONS_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "RESERVATIONS_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
