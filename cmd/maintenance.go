package main

import (
	"context"

	"condoparcel/internal/caching"
	"condoparcel/internal/jobs/background"
	"condoparcel/internal/repositories"
	"condoparcel/pkg/database"

	"github.com/rs/zerolog/log"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	_, pool, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	return database.RunMigrations(ctx, pool)
}

type ReconcileUnitsCmd struct{}

func (r *ReconcileUnitsCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, pool, err := bootstrap(ctx, globals)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	cache := caching.NewRedisViewCache(redisClient, cfg.ViewCacheTTL)

	scheduler, err := background.NewJobScheduler(repositories.NewCondominiumRepo(pool), cache, cfg.ReconcileInterval)
	if err != nil {
		return err
	}
	defer func() { _ = scheduler.Stop() }()

	drifts, err := scheduler.ReconcileUnitCounts(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("corrected", len(drifts)).Msg("unit counters reconciled")
	return nil
}
