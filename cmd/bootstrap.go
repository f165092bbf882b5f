package main

import (
	"context"
	"fmt"

	"condoparcel/internal/config"
	"condoparcel/internal/logging"
	"condoparcel/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// bootstrap loads configuration, sets up logging and opens the database pool.
func bootstrap(ctx context.Context, globals *Globals) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(globals.Debug || cfg.Debug)

	pool, err := database.NewPool(ctx, &database.PoolConfig{
		ConnString: cfg.DatabaseURL,
		MaxConns:   cfg.DBMaxConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, pool, nil
}
