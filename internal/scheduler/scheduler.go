package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/freee021022/onco/internal/storage"
)

// Scheduler runs background maintenance jobs on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	reconciler storage.Reconciler
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	lastRun storage.ReconcileResult
}

// NewScheduler registers the counter reconciliation job on schedule, which is any
// expression robfig/cron accepts (including descriptors such as @hourly).
func NewScheduler(reconciler storage.Reconciler, schedule string, timeout time.Duration) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reconciler: reconciler,
		timeout:    timeout,
		ctx:        ctx,
		cancel:     cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.reconcile); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule reconcile job %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Starting scheduler")
	s.cron.Start()
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.reconciler.ReconcileCounters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Counter reconciliation failed")
		return
	}

	s.mu.Lock()
	s.lastRun = result
	s.mu.Unlock()

	event := log.Debug()
	if result.Categories > 0 || result.Posts > 0 {
		event = log.Warn()
	}
	event.
		Int64("categories", result.Categories).
		Int64("posts", result.Posts).
		Dur("took", time.Since(start)).
		Msg("Counters reconciled")
}

// LastRun returns the corrections made by the most recent successful run.
func (s *Scheduler) LastRun() storage.ReconcileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
