package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// JobManager owns the scheduled jobs of the process.
type JobManager struct {
	staleOrders *StaleOrderCancellationJob
	logger      *slog.Logger
}

// StaleOrderSettings configures the stale order cancellation job. A zero TTL
// disables it.
type StaleOrderSettings struct {
	Schedule  string
	TTL       time.Duration
	BatchSize int
}

func NewJobManager(staleOrders StaleOrderCanceller, settings StaleOrderSettings, logger *slog.Logger) *JobManager {
	jm := &JobManager{logger: logger.With("component", "job_manager")}
	if settings.TTL > 0 {
		jm.staleOrders = NewStaleOrderCancellationJob(staleOrders, settings.Schedule, settings.TTL, settings.BatchSize, logger)
	}
	return jm
}

func (jm *JobManager) StartAll() error {
	if jm.staleOrders == nil {
		jm.logger.Info("Stale order cancellation is disabled")
		return nil
	}
	if err := jm.staleOrders.Start(); err != nil {
		return fmt.Errorf("failed to start stale order cancellation job: %w", err)
	}
	return nil
}

// StopAll stops every job, waiting for in-flight runs until ctx ends.
func (jm *JobManager) StopAll(ctx context.Context) {
	if jm.staleOrders != nil {
		jm.staleOrders.Stop(ctx)
	}
}
