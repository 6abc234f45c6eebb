/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the tour pricing and availability server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, .env, environment, flags)
  2. Build the logger
  3. Initialize SQLite store
  4. Create booking service and API handler
  5. Start the availability monitor
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port              HTTP server port (default: 8080)
  -db                SQLite database path (default: tours.db)
                     Use ":memory:" for in-memory database
  -env               development | production
  -log-format        json | console
  -monitor-interval  Availability sweep interval (default: 1h)
  -monitor-horizon   Days ahead to sweep (default: 14)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the availability monitor
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/tours.db"

  # Run with in-memory database and readable logs
  ./server -db=":memory:" -log-format=console

ENVIRONMENT:
  See config/config.go for the full list of keys.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/tour-engine/api"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/config"
	"github.com/warp/tour-engine/logger"
	"github.com/warp/tour-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(2)
	}

	log := logger.New(cfg.AppEnv, logger.Format(cfg.LogFormat))

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	svc := booking.NewService(store, booking.Options{
		Features: cfg.Features,
		Logger:   log,
	})

	handler := api.NewHandler(svc, log)
	handler.Currency = cfg.BaseCurrency

	monitor := api.NewAvailabilityMonitor(svc, log)
	monitor.Interval = cfg.MonitorInterval
	monitor.HorizonDays = cfg.MonitorHorizonDays
	handler.Monitor = monitor
	monitor.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Int("port", cfg.Port).
			Str("db", cfg.DBPath).
			Bool("seasonal_pricing", cfg.Features.SeasonalPricing).
			Bool("resource_availability", cfg.Features.ResourceAvailability).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
