package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/reservation-service/internal/application"
	"github.com/example/reservation-service/internal/config"
	httptransport "github.com/example/reservation-service/internal/http"
	"github.com/example/reservation-service/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	now := time.Now

	bookingStore := sqlite.NewBookingRepository(pool)
	catalogStore := sqlite.NewCatalogRepository(pool)
	historyStore := sqlite.NewHistoryRepository(pool)

	bookings := newBookingRepositoryAdapter(bookingStore)
	occupancy := newOccupancyRepositoryAdapter(bookingStore)
	rooms := newRoomCatalogAdapter(catalogStore)
	items := newItemCatalogAdapter(catalogStore)
	catalog := newCatalogRepositoryAdapter(catalogStore)
	history := newHistoryRepositoryAdapter(historyStore)

	historyService := application.NewHistoryServiceWithLogger(history, staticUserDirectory{}, now, logger)
	bookingService := application.NewBookingServiceWithLogger(bookings, rooms, items, historyService, now, logger)
	occupancyService := application.NewOccupancyServiceWithLogger(occupancy, rooms, cfg.OccupancyCacheTTL, now, logger)
	catalogService := application.NewCatalogServiceWithLogger(catalog, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings:  httptransport.NewBookingHandler(bookingService, logger),
		Occupancy: httptransport.NewOccupancyHandler(occupancyService, logger),
		Catalog:   httptransport.NewCatalogHandler(catalogService, logger),
		History:   httptransport.NewHistoryHandler(historyService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequirePrincipal(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
