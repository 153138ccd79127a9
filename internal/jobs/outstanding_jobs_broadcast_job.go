package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"fieldwork/internal/core/ports"
)

// DefaultBroadcastSchedule fires the end-of-shift broadcast at 18:00 daily.
const DefaultBroadcastSchedule = "0 0 18 * * *"

// OutstandingWorker is one worker with unfinished jobs in the broadcast.
type OutstandingWorker struct {
	WorkerID    string `json:"worker_id"`
	Outstanding int    `json:"outstanding"`
}

// OutstandingJobsPayload is the notification body listing every worker who
// still has pending or in-progress jobs for the day.
type OutstandingJobsPayload struct {
	Date    time.Time           `json:"date"`
	Workers []OutstandingWorker `json:"workers"`
}

// OutstandingJobsBroadcastJob publishes a daily broadcast listing workers
// with unfinished jobs, so dispatchers see at a glance whose routes did not
// close. The broadcast is advisory: query or delivery failures are logged
// and the next run tries again.
type OutstandingJobsBroadcastJob struct {
	db       *gorm.DB
	notifier ports.Notifier
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutstandingJobsBroadcastJob creates the broadcast job. An empty
// schedule selects DefaultBroadcastSchedule.
func NewOutstandingJobsBroadcastJob(
	db *gorm.DB,
	notifier ports.Notifier,
	schedule string,
	logger *slog.Logger,
) *OutstandingJobsBroadcastJob {
	if schedule == "" {
		schedule = DefaultBroadcastSchedule
	}

	return &OutstandingJobsBroadcastJob{
		db:       db,
		notifier: notifier,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "outstanding_jobs_broadcast_job"),
	}
}

// Start schedules the broadcast.
func (j *OutstandingJobsBroadcastJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.broadcast(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outstanding jobs broadcast failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(),
		"Outstanding jobs broadcast job started", "schedule", j.schedule)
	return nil
}

// Stop stops the broadcast job.
func (j *OutstandingJobsBroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outstanding jobs broadcast job stopped")
}

// broadcast queries today's unfinished jobs grouped by worker and publishes
// one notification. A day with nothing outstanding publishes nothing.
func (j *OutstandingJobsBroadcastJob) broadcast(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	rows, err := j.db.WithContext(ctx).Raw(`
		SELECT
			assigned_worker_id,
			COUNT(*) AS outstanding
		FROM jobs
		WHERE scheduled_date = ?
		  AND status IN ('pending', 'in_progress')
		GROUP BY assigned_worker_id
		ORDER BY outstanding DESC
	`, today).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	workers := make([]OutstandingWorker, 0)
	for rows.Next() {
		var workerID uuid.UUID
		var outstanding int

		if err = rows.Scan(&workerID, &outstanding); err != nil {
			return err
		}

		workers = append(workers, OutstandingWorker{
			WorkerID:    workerID.String(),
			Outstanding: outstanding,
		})
	}

	if err = rows.Err(); err != nil {
		return err
	}

	if len(workers) == 0 {
		return nil
	}

	j.notifier.Publish(ctx, ports.TopicOutstandingJobs, OutstandingJobsPayload{
		Date:    today,
		Workers: workers,
	})

	j.logger.InfoContext(ctx, "Outstanding jobs broadcast published",
		"workers", len(workers))
	return nil
}
