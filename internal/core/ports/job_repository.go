// Package ports defines repository and gateway interfaces for the fieldwork
// domain. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

// DaySummary aggregates one worker's completed jobs for a single scheduled
// date. It is the payload source for the end-of-day summary notification.
type DaySummary struct {
	CompletedJobs    int
	JobsWithEvidence int
	NoAccessJobs     int
	TotalPoints      float64
	TotalAwards      float64
	TotalDistanceKm  float64
}

// JobRepository defines the persistence contract for job aggregates.
// Provides methods for storing, retrieving, and querying job entities
// with their assignment, sequence and completion state.
type JobRepository interface {
	// Add persists a new job aggregate to storage.
	// The job must be valid and not already exist in the repository.
	// A duplicate job number surfaces as a conflict error.
	Add(ctx context.Context, aggregate *job.Job) error

	// AddBatch persists a batch of new jobs in a single operation.
	// Either the whole batch is stored or none of it is.
	AddBatch(ctx context.Context, aggregates []*job.Job) error

	// Update persists changes to an existing job aggregate.
	// The job must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// Remove deletes a job from storage by its unique identifier.
	Remove(ctx context.Context, id kernel.UUID) error

	// GetFirstBlocking returns the lowest-sequence job assigned to the worker
	// on the given date that sits in one of the given statuses and has a
	// sequence number strictly below beforeSequence. Returns nil when nothing
	// blocks. Used by the sequencing guards.
	GetFirstBlocking(
		ctx context.Context,
		workerID kernel.UUID,
		date time.Time,
		beforeSequence int,
		statuses []job.Status,
	) (*job.Job, error)

	// GetMaxNumber returns the highest numeric job number currently stored,
	// or nil when no job carries a well-formed number. Stored numbers that do
	// not parse as pure digits are ignored.
	GetMaxNumber(ctx context.Context) (*job.Number, error)

	// CountOutstanding counts the worker's jobs on the given date that are
	// still pending or in progress.
	CountOutstanding(ctx context.Context, workerID kernel.UUID, date time.Time) (int, error)

	// GetDaySummary aggregates the worker's completed jobs on the given date:
	// counts, points, awards and distance. Zero jobs yields zero totals.
	GetDaySummary(ctx context.Context, workerID kernel.UUID, date time.Time) (DaySummary, error)

	// CountCompletionWindow returns how many of the worker's jobs scheduled
	// in the seven days ending at date were completed, and how many were
	// scheduled in total. Feeds the worker's completion rate.
	CountCompletionWindow(
		ctx context.Context,
		workerID kernel.UUID,
		date time.Time,
	) (completed int, scheduled int, err error)
}
