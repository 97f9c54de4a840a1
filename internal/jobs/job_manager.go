package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// JobManager owns the lifecycle of the background machinery.
type JobManager struct {
	timer     *CronTimer
	processor *PendingOrderProcessor
	logger    *slog.Logger
}

// NewJobManager creates a manager for timer and the processor that arms
// tasks on it.
func NewJobManager(timer *CronTimer, processor *PendingOrderProcessor, logger *slog.Logger) *JobManager {
	return &JobManager{
		timer:     timer,
		processor: processor,
		logger:    logger.With("component", "job_manager"),
	}
}

// StartAll starts the deferred timer.
func (jm *JobManager) StartAll() error {
	if err := jm.timer.Start(); err != nil {
		return fmt.Errorf("failed to start deferred timer: %w", err)
	}

	return nil
}

// StopAll withdraws armed tasks and stops the timer.
func (jm *JobManager) StopAll() {
	pending := jm.processor.Pending()
	jm.processor.CancelAll()
	jm.timer.Stop()
	jm.logger.InfoContext(context.Background(), "Jobs stopped", "cancelled_tasks", pending)
}
