package commands

import (
	"context"
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/services"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

// DaySummaryPayload is the notification body published when a worker's last
// outstanding job of the day is completed.
type DaySummaryPayload struct {
	WorkerID         string    `json:"worker_id"`
	ScheduledDate    time.Time `json:"scheduled_date"`
	CompletedJobs    int       `json:"completed_jobs"`
	JobsWithEvidence int       `json:"jobs_with_evidence"`
	NoAccessJobs     int       `json:"no_access_jobs"`
	TotalPoints      float64   `json:"total_points"`
	TotalAwards      float64   `json:"total_awards"`
	TotalDistanceKm  float64   `json:"total_distance_km"`
}

// CompleteJobCommandHandler handles the business logic for job completion.
// Scores the submitted evidence, enforces strict route order, refreshes the
// worker's completion counters, and publishes the end-of-day summary when the
// worker's last outstanding job of the day closes.
type CompleteJobCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	scorer     services.Scorer
}

// NewCompleteJobCommandHandler creates a handler for job completion
// operations. Requires a UoWFactory spanning job and worker aggregates and a
// Notifier for the end-of-day summary.
func NewCompleteJobCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) CompleteJobCommandHandler {
	return CompleteJobCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		scorer:     services.NewScorer(),
	}
}

// Handle processes the completion command. A lower-sequence job still pending
// or in progress blocks completion unless the override is set. The summary
// notification fires only on the transition to zero outstanding jobs, which
// makes it naturally idempotent: completing an already-completed job fails
// the status transition and never reaches the publish.
func (h *CompleteJobCommandHandler) Handle(ctx context.Context, cmd CompleteJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	workerRepo := uow.WorkerRepository()

	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	// Guard order: authorization, then transition legality, then route
	// order. A caller who may not act on the job learns nothing about the
	// rest of the route.
	if err = aggregate.Authorize(cmd.ActorID(), cmd.AdminOverride()); err != nil {
		return err
	}
	if _, err = aggregate.Status().Complete(); err != nil {
		return err
	}

	if !cmd.AdminOverride() {
		blockingStatuses := []job.Status{job.Pending, job.InProgress}
		if err = checkRouteOrder(ctx, jobRepo, aggregate, blockingStatuses); err != nil {
			return err
		}
	}

	score := h.scorer.Score(cmd.Evidence())

	if err = aggregate.Complete(cmd.ActorID(), cmd.AdminOverride(), cmd.Evidence(), score, time.Now()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.refreshWorkerCounters(ctx, jobRepo, workerRepo, aggregate); err != nil {
		return err
	}

	outstanding, err := jobRepo.CountOutstanding(ctx, aggregate.AssignedWorker(), aggregate.ScheduledDate())
	if err != nil {
		return err
	}

	// The summary is read inside the transaction so it reflects exactly the
	// state being committed.
	var summary ports.DaySummary
	if outstanding == 0 {
		if summary, err = jobRepo.GetDaySummary(ctx, aggregate.AssignedWorker(), aggregate.ScheduledDate()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if outstanding == 0 && h.notifier != nil {
		h.notifier.Publish(ctx, ports.TopicDaySummary, DaySummaryPayload{
			WorkerID:         aggregate.AssignedWorker().String(),
			ScheduledDate:    aggregate.ScheduledDate(),
			CompletedJobs:    summary.CompletedJobs,
			JobsWithEvidence: summary.JobsWithEvidence,
			NoAccessJobs:     summary.NoAccessJobs,
			TotalPoints:      summary.TotalPoints,
			TotalAwards:      summary.TotalAwards,
			TotalDistanceKm:  summary.TotalDistanceKm,
		})
	}

	return nil
}

// refreshWorkerCounters recomputes the worker's rolling completion rate from
// the seven-day window ending on the job's scheduled date. A worker record
// missing from storage is tolerated: jobs can be imported ahead of the
// worker roster sync.
func (h *CompleteJobCommandHandler) refreshWorkerCounters(
	ctx context.Context,
	jobRepo ports.JobRepository,
	workerRepo ports.WorkerRepository,
	aggregate *job.Job,
) error {
	assignedWorker, err := workerRepo.Get(ctx, aggregate.AssignedWorker())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	completed, scheduled, err := jobRepo.CountCompletionWindow(ctx, aggregate.AssignedWorker(), aggregate.ScheduledDate())
	if err != nil {
		return err
	}

	assignedWorker.RecordCompletion(completed, scheduled)

	return workerRepo.Update(ctx, assignedWorker)
}
