package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"condoparcel/internal/caching"
	"condoparcel/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const reconcileJobName = "unit-count-reconcile"

// JobScheduler runs the periodic maintenance jobs of a server instance.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	condominiumRepo repositories.CondominiumRepository
	cache           caching.ViewCache
	interval        time.Duration
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

func NewJobScheduler(condominiumRepo repositories.CondominiumRepository, cache caching.ViewCache, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		condominiumRepo: condominiumRepo,
		cache:           cache,
		interval:        interval,
		jobs:            make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Dur("reconcile_interval", js.interval).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.runReconcile),
		gocron.WithName(reconcileJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", reconcileJobName, err)
	}

	js.mu.Lock()
	js.jobs[reconcileJobName] = job
	js.mu.Unlock()

	log.Debug().Int("jobs", len(js.jobs)).Msg("registered background jobs")
	return nil
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := js.ReconcileUnitCounts(ctx); err != nil {
		log.Error().Err(err).Str("job", reconcileJobName).Msg("job failed")
	}
}

// ReconcileUnitCounts resets every drifted unit counter to the real number of units and
// marks the affected unit listings stale.
func (js *JobScheduler) ReconcileUnitCounts(ctx context.Context) ([]repositories.UnitCountDrift, error) {
	start := time.Now()

	drifts, err := js.condominiumRepo.ReconcileUnitCounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, d := range drifts {
		log.Warn().
			Str("condominium_id", d.CondominiumID.String()).
			Int("cached", d.Cached).
			Int("counted", d.Counted).
			Msg("unit counter drift corrected")

		if err := js.cache.Invalidate(ctx, caching.UnitsScope(d.CondominiumID)); err != nil {
			log.Warn().Err(err).Str("condominium_id", d.CondominiumID.String()).Msg("revalidation signal failed")
		}
	}

	log.Info().
		Int("corrected", len(drifts)).
		Dur("took", time.Since(start)).
		Msg("unit counter reconciliation finished")
	return drifts, nil
}
