package jobrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

// GormJobRepository implements JobRepository using GORM.
// The gorm.Config used to open the connection must enable TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
// A duplicate job number is reported as a conflict error.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translateConflict(err, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AddBatch saves a batch of new jobs in one insert.
func (r *GormJobRepository) AddBatch(ctx context.Context, aggregates []*job.Job) error {
	if len(aggregates) == 0 {
		return nil
	}

	dtos := make([]JobDTO, 0, len(aggregates))
	for _, aggregate := range aggregates {
		if err := aggregate.Validate(); err != nil {
			return err
		}
		dto, err := fromDomain(aggregate)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return translateConflict(err, aggregates[0])
	}

	for _, aggregate := range aggregates {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
	return nil
}

// Update saves an existing job to the database.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// Select("*") so cleared nullable columns are written, not skipped.
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("job", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Remove deletes a job by ID.
func (r *GormJobRepository) Remove(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&JobDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("job", id.String())
	}

	return nil
}

// GetFirstBlocking retrieves the lowest-sequence job of the worker's day
// that sits in one of the given statuses below beforeSequence, or nil when
// nothing blocks.
func (r *GormJobRepository) GetFirstBlocking(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
	beforeSequence int,
	statuses []job.Status,
) (*job.Job, error) {
	if err := workerID.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, status.String())
	}

	var dto JobDTO
	err := r.db.WithContext(ctx).
		Where("assigned_worker_id = ?", workerID.Bytes()).
		Where("scheduled_date = ?", dateOnly(date)).
		Where("sequence_number IS NOT NULL AND sequence_number < ?", beforeSequence).
		Where("status IN ?", names).
		Order("sequence_number ASC").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetMaxNumber returns the highest stored job number, ignoring values that
// are not pure digits or do not fit the number range. The comparison is
// numeric: a varchar MAX would rank "99" above "000100".
// Returns nil when no well-formed number exists.
func (r *GormJobRepository) GetMaxNumber(ctx context.Context) (*job.Number, error) {
	// The width bound keeps the cast safe: only strings of at most
	// NumberWidth digits reach it, and those always fit a bigint.
	var raw *int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT MAX((job_number)::bigint)
		FROM jobs
		WHERE job_number ~ '^[0-9]+$'
		  AND length(job_number) <= ?
	`, job.NumberWidth).Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	number, err := job.NewNumber(int(*raw))
	if err != nil {
		return nil, nil
	}

	return &number, nil
}

// CountOutstanding counts the worker's jobs on the date that are still
// pending or in progress. The counted rows are locked for the rest of the
// surrounding transaction: two completions racing for the same day would
// otherwise both read a stale count and the day summary would never fire.
func (r *GormJobRepository) CountOutstanding(ctx context.Context, workerID kernel.UUID, date time.Time) (int, error) {
	if err := workerID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM (
			SELECT id
			FROM jobs
			WHERE assigned_worker_id = ?
			  AND scheduled_date = ?
			  AND status IN ?
			FOR UPDATE
		) AS outstanding
	`, workerID.Bytes(), dateOnly(date),
		[]string{job.Pending.String(), job.InProgress.String()}).Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// GetDaySummary aggregates the worker's completed jobs on the date. A job
// counts as evidence-backed when it earned full reading points.
func (r *GormJobRepository) GetDaySummary(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
) (ports.DaySummary, error) {
	if err := workerID.Validate(); err != nil {
		return ports.DaySummary{}, err
	}

	var summary ports.DaySummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS completed_jobs,
			COUNT(*) FILTER (WHERE points >= 1.0) AS jobs_with_evidence,
			COUNT(*) FILTER (WHERE valid_no_access) AS no_access_jobs,
			COALESCE(SUM(points), 0) AS total_points,
			COALESCE(SUM(award), 0) AS total_awards,
			COALESCE(SUM(distance_traveled), 0) AS total_distance_km
		FROM jobs
		WHERE assigned_worker_id = ?
		  AND scheduled_date = ?
		  AND status = ?
	`, workerID.Bytes(), dateOnly(date), job.Completed.String()).Row().Scan(
		&summary.CompletedJobs,
		&summary.JobsWithEvidence,
		&summary.NoAccessJobs,
		&summary.TotalPoints,
		&summary.TotalAwards,
		&summary.TotalDistanceKm,
	)
	if err != nil {
		return ports.DaySummary{}, err
	}

	return summary, nil
}

// CountCompletionWindow counts the worker's completed and scheduled jobs in
// the seven days ending at date. Cancelled jobs do not count as scheduled.
func (r *GormJobRepository) CountCompletionWindow(
	ctx context.Context,
	workerID kernel.UUID,
	date time.Time,
) (int, int, error) {
	if err := workerID.Validate(); err != nil {
		return 0, 0, err
	}

	to := dateOnly(date)
	from := to.AddDate(0, 0, -6)

	var counts struct {
		Completed int
		Scheduled int
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = ?) AS completed,
			COUNT(*) FILTER (WHERE status <> ?) AS scheduled
		FROM jobs
		WHERE assigned_worker_id = ?
		  AND scheduled_date BETWEEN ? AND ?
	`, job.Completed.String(), job.Cancelled.String(), workerID.Bytes(), from, to).
		Scan(&counts).Error
	if err != nil {
		return 0, 0, err
	}

	return counts.Completed, counts.Scheduled, nil
}

func translateConflict(err error, aggregate *job.Job) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		value := aggregate.ID().String()
		if number := aggregate.Number(); number != nil {
			value = number.String()
		}
		return errs.NewConflictErrorWithCause("job number", value, err)
	}

	return err
}

// dateOnly truncates a timestamp to its calendar day in UTC, matching the
// date column type.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
