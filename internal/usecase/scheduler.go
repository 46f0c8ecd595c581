package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"RoleMatcher/internal/ports"
)

// Scheduler wires the cron driver with the refresh use case.
type Scheduler struct {
	driver    ports.Scheduler
	refresher *Refresher
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring refresh cycles.
func NewScheduler(driver ports.Scheduler, refresher *Refresher, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, refresher: refresher, logger: logger}
}

// Start registers the refresh cycle with the provided scheduler. A cycle that
// fires while the previous one is still running is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.refresher == nil {
		return nil
	}

	job := func(trigger time.Time) {
		summary, err := s.refresher.RefreshAll(ctx)
		switch {
		case errors.Is(err, ErrRefreshInProgress):
			s.logger.Warn("scheduled refresh skipped, previous cycle still running", "trigger", trigger)
		case err != nil:
			s.logger.Error("scheduled refresh failed", "error", err)
		default:
			s.logger.Info("scheduled refresh done",
				"companies", len(summary.Companies),
				"touched", len(summary.TouchedJobIDs),
				"duration", summary.Duration)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
