package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coupon-service/internal/config"
	"coupon-service/internal/database"
	"coupon-service/internal/handler"
	"coupon-service/internal/repository"
	"coupon-service/internal/router"
	"coupon-service/internal/seed"
	"coupon-service/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting coupon-service API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Ensure coupon tables exist
	if err := database.CreateSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize repository and service
	couponRepo := repository.NewCouponRepository(pool, logger)
	couponService := service.NewCouponService(couponRepo, logger)

	// Optionally import coupon definitions at startup
	if cfg.Seed.Enabled {
		var loader seed.Loader
		if cfg.Seed.S3 {
			loader, err = seed.NewS3Loader(ctx, cfg.Seed.Bucket, cfg.Seed.Region, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize S3 seed loader: %w", err)
			}
		} else {
			loader = seed.NewFileLoader(logger)
		}

		seeder := seed.NewSeeder(couponService, logger)
		result, err := seeder.Run(ctx, loader, cfg.Seed.Files)
		if err != nil {
			return fmt.Errorf("failed to seed coupons: %w", err)
		}
		logger.Info().
			Int("imported", result.Imported).
			Int("skipped", result.Skipped).
			Msg("coupon seeding finished")
	}

	// Initialize HTTP handler and router
	couponHandler := handler.NewCouponHandler(couponService, logger)
	mux := router.New(couponHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
