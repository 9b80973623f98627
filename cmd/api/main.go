package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/config"
	"cycle-kart/internal/database"
	"cycle-kart/internal/handler"
	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"
	"cycle-kart/internal/router"
	"cycle-kart/internal/service"
	"cycle-kart/internal/session"
	"cycle-kart/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
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
	logger := config.NewLogger(cfg.Logger, nil)
	logger.Info().Msg("starting cycle-kart storefront")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool when a component needs it
	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Load the product catalogue
	products, err := loadProducts(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	cat, err := catalog.New(products)
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	logger.Info().
		Str("source", cfg.Catalog.Source).
		Int("products", cat.Len()).
		Msg("catalog loaded")

	// Initialize session storage
	sessions, closeSessions, err := newSessionRepository(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer closeSessions()

	var sweeper *worker.Sweeper
	if cfg.Session.Store != config.StoreRedis {
		sweeper = worker.NewSweeper(sessions, cfg.Session.SweepInterval, logger)
		sweeper.Start(ctx)
	}

	// Initialize services
	catalogService := service.NewCatalogService(cat, logger)
	cartService := service.NewCartService(cat, sessions, logger)
	orderService := service.NewOrderService(cat, sessions, service.NoopConfirmer{}, logger)
	flashService := service.NewFlashService(sessions, logger)

	// Initialize HTTP handlers
	storeHandler := handler.NewStoreHandler(catalogService, cartService, flashService, logger)
	cartHandler := handler.NewCartHandler(cartService, flashService, logger)
	orderHandler := handler.NewOrderHandler(orderService, flashService, logger)

	sessionManager := session.NewManager(cfg.Session.Secret, session.Options{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		TTL:        cfg.Session.TTL,
	}, logger)

	// Initialize router
	mux := router.New(storeHandler, cartHandler, orderHandler, sessionManager, logger)

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
			Str("session_store", cfg.Session.Store).
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

		if sweeper != nil {
			sweeper.Stop()
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadProducts reads the catalogue from the configured source.
func loadProducts(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) ([]model.Product, error) {
	switch cfg.Catalog.Source {
	case config.SourcePostgres:
		return repository.NewProductRepository(pool, logger).GetAll(ctx)

	case config.SourceFile:
		return catalog.NewFileLoader(logger).Load(ctx, cfg.Catalog.File)

	case config.SourceS3:
		fileLoader := catalog.NewFileLoader(logger)
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			return fileLoader.Load(ctx, cfg.Catalog.File)
		}
		return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger).Load(ctx, cfg.Catalog.File)

	default:
		return catalog.NewStaticLoader().Load(ctx, "")
	}
}

// newSessionRepository builds the configured session store and returns a
// function that releases its resources.
func newSessionRepository(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewRedisSessionRepository(rdb, repository.DefaultRedisOptions(cfg.Session.TTL), logger)
		return repo, func() {
			if err := rdb.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close redis client")
			}
		}, nil

	case config.StorePostgres:
		return repository.NewPostgresSessionRepository(pool, cfg.Session.TTL, logger), func() {}, nil

	default:
		return repository.NewMemorySessionRepository(cfg.Session.TTL, logger), func() {}, nil
	}
}
