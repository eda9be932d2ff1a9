// Package scheduler runs the periodic maintenance jobs that keep cached
// aggregates in line with their source tables.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Maintainer recomputes cached aggregates.
type Maintainer interface {
	RecountGroupWords(ctx context.Context) error
	RebuildWordReviews(ctx context.Context) error
}

type Config struct {
	RecountInterval time.Duration
	RollupInterval  time.Duration
	JobTimeout      time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler  *gocron.Scheduler
	maintainer Maintainer
	cfg        Config
	logger     zerolog.Logger
}

func New(maintainer Maintainer, cfg Config, logger zerolog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}

	return &Scheduler{
		scheduler:  s,
		maintainer: maintainer,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the jobs with a positive interval and begins running them
// in the background. Each job also runs once immediately.
func (s *Scheduler) Start() error {
	if s.cfg.RecountInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.RecountInterval).Tag("recount").Do(s.RunRecount); err != nil {
			return fmt.Errorf("failed to schedule group recount: %w", err)
		}
	}
	if s.cfg.RollupInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.RollupInterval).Tag("rollup").Do(s.RunRollup); err != nil {
			return fmt.Errorf("failed to schedule review rollup: %w", err)
		}
	}

	s.scheduler.StartAsync()

	s.logger.Info().
		Dur("recount_interval", s.cfg.RecountInterval).
		Dur("rollup_interval", s.cfg.RollupInterval).
		Int("jobs", len(s.scheduler.Jobs())).
		Msg("Scheduler started")

	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) RunRecount() {
	s.run("recount", s.maintainer.RecountGroupWords)
}

func (s *Scheduler) RunRollup() {
	s.run("rollup", s.maintainer.RebuildWordReviews)
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	if err := job(ctx); err != nil {
		s.logger.Error().Err(err).Str("job", name).Msg("Scheduled job failed")
	}
}
