package jobs

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"fieldwork/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outstandingJobsBroadcastJob *OutstandingJobsBroadcastJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	db *gorm.DB,
	notifier ports.Notifier,
	broadcastSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outstandingJobsBroadcastJob: NewOutstandingJobsBroadcastJob(
			db, notifier, broadcastSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outstandingJobsBroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start outstanding jobs broadcast job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outstandingJobsBroadcastJob.Stop()
}
