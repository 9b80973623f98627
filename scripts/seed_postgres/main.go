package main

import (
	"context"
	"fmt"
	"os"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/config"
	"cycle-kart/internal/database"
	"cycle-kart/internal/repository"
)

// Creates the schema and upserts the built-in catalogue, using the same DB_*
// environment as the server.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Seeding does not need a session secret, but Load validates one.
	if os.Getenv("SESSION_SECRET") == "" {
		os.Setenv("SESSION_SECRET", "seed")
	}
	os.Setenv("CATALOG_SOURCE", config.SourcePostgres)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger, nil)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("query current database: %w", err)
	}
	fmt.Printf("Connected to database: %s\n", dbName)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	products := catalog.DefaultProducts()
	if err := repository.NewProductRepository(pool, logger).Upsert(ctx, products); err != nil {
		return err
	}

	fmt.Printf("Seeded %d products\n", len(products))
	return nil
}
