package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"RESERVATIONS_HTTP_PORT",
			"RESERVATIONS_SQLITE_DSN",
			"RESERVATIONS_OCCUPANCY_CACHE_TTL",
			"RESERVATIONS_SHUTDOWN_TIMEOUT",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != defaultSQLiteDSN {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.OccupancyCacheTTL != 30*time.Second {
			t.Fatalf("expected default cache TTL 30s, got %s", cfg.OccupancyCacheTTL)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("RESERVATIONS_HTTP_PORT", "9090")
		t.Setenv("RESERVATIONS_SQLITE_DSN", "file:/tmp/reservations.db")
		t.Setenv("RESERVATIONS_OCCUPANCY_CACHE_TTL", "2m")
		t.Setenv("RESERVATIONS_SHUTDOWN_TIMEOUT", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/reservations.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.OccupancyCacheTTL != 2*time.Minute {
			t.Fatalf("expected cache TTL 2m, got %s", cfg.OccupancyCacheTTL)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("expected shutdown timeout 30s, got %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("errors when values are invalid", func(t *testing.T) {
		t.Setenv("RESERVATIONS_HTTP_PORT", "not-a-port")
		t.Setenv("RESERVATIONS_OCCUPANCY_CACHE_TTL", "-5s")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
	})
}
