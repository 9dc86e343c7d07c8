package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jewelbook/internal/auth"
	"jewelbook/internal/cache"
	"jewelbook/internal/config"
	"jewelbook/internal/database"
	"jewelbook/internal/events"
	"jewelbook/internal/handler"
	"jewelbook/internal/loyalty"
	"jewelbook/internal/plan"
	"jewelbook/internal/quota"
	"jewelbook/internal/ratelimit"
	"jewelbook/internal/repository"
	"jewelbook/internal/router"
	"jewelbook/internal/service"
	"jewelbook/internal/validation"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting jewelbook API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	catalogue, err := loadPlans(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load plan catalogue: %w", err)
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	loyaltyRepo := repository.NewLoyaltyRepository(pool, logger)
	shopRepo := repository.NewShopRepository(pool, logger)
	usageRepo := repository.NewUsageRepository(pool, logger)
	auditRepo := repository.NewAuditRepository(pool, logger)

	// Redis backs both the view cache and the rate limiter
	invalidator := cache.NewNoopInvalidator()
	limiter := ratelimit.NewNoopLimiter()
	if cfg.Redis.Enabled {
		client, err := cache.Connect(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer client.Close()

		invalidator = cache.NewRedisInvalidator(client, logger)
		limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window(), logger)
	} else {
		logger.Info().Msg("redis disabled, cache invalidation and rate limiting are off")
	}

	publisher := events.NewNoopPublisher()
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, map[string]string{
			events.EventInvoiceCreated: cfg.Kafka.InvoiceTopic,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		publisher = kp
	} else {
		logger.Info().Msg("no kafka brokers configured, domain events are dropped")
	}
	defer publisher.Close()

	// Initialize services
	quotaChecker := quota.NewChecker(shopRepo, usageRepo, catalogue, logger)
	invoiceService := service.NewInvoiceService(service.InvoiceDeps{
		Invoices:  invoiceRepo,
		Shops:     shopRepo,
		Validator: validation.New(),
		Quota:     quotaChecker,
		Customers: service.NewCustomerResolver(customerRepo, quotaChecker, logger),
		Loyalty:   loyalty.NewAdjuster(loyaltyRepo, logger),
		Audit:     service.NewAuditLogger(auditRepo, logger),
		Cache:     invalidator,
		Events:    publisher,
	}, logger)
	loyaltyService := service.NewLoyaltyService(customerRepo, loyaltyRepo, shopRepo, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService, logger),
		Loyalty: handler.NewLoyaltyHandler(loyaltyService, logger),
	}, auth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer), limiter, logger)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadPlans reads the plan catalogue from S3 with a local fallback, or from
// the local file alone when S3 is disabled.
func loadPlans(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*plan.Catalogue, error) {
	fileLoader := plan.NewFileLoader(logger)
	loader := fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := plan.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = plan.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for plan catalogue (S3 disabled)")
	}

	catalogue, err := loader.Load(ctx, cfg.Plans.File)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("file", cfg.Plans.File).
		Int("plans", catalogue.Size()).
		Str("default", catalogue.Default).
		Msg("plan catalogue loaded")

	return catalogue, nil
}
