package queries

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

// Default wage rates applied when the caller does not override them.
const (
	DefaultRatePerKm       = 0.50
	DefaultAllowancePerJob = 2.00
)

var ErrWageReportQueryIsNotConstructed = errors.New(
	"WageReportQuery must be created via NewWageReportQuery constructor",
)

// WageReportQuery computes a worker's wage over a date range from completed
// jobs: wage = totalDistanceKm * ratePerKm + completedCount * allowancePerJob.
// Rates default to DefaultRatePerKm and DefaultAllowancePerJob when zero.
type WageReportQuery struct { //nolint:recvcheck //using for validation
	workerID        kernel.UUID
	from            time.Time
	to              time.Time
	ratePerKm       float64
	allowancePerJob float64

	guard guard.ConstructorGuard
}

// NewWageReportQuery creates a wage report query for the inclusive date
// range [from, to]. Zero rates select the defaults; negative rates are
// rejected.
func NewWageReportQuery(
	workerID kernel.UUID,
	from time.Time,
	to time.Time,
	ratePerKm float64,
	allowancePerJob float64,
) (WageReportQuery, error) {
	wageQuery := WageReportQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		wageQuery.setWorkerID(workerID),
		wageQuery.setRange(from, to),
		wageQuery.setRates(ratePerKm, allowancePerJob),
	); err != nil {
		return WageReportQuery{}, err
	}

	return wageQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrWageReportQueryIsNotConstructed if validation fails.
func (q WageReportQuery) Validate() error {
	return q.guard.Validate(ErrWageReportQueryIsNotConstructed)
}

// WorkerID returns the worker the report is about.
func (q WageReportQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// From returns the first day of the range.
func (q WageReportQuery) From() time.Time {
	return q.from
}

// To returns the last day of the range.
func (q WageReportQuery) To() time.Time {
	return q.to
}

// RatePerKm returns the wage rate per traveled kilometer.
func (q WageReportQuery) RatePerKm() float64 {
	return q.ratePerKm
}

// AllowancePerJob returns the fixed allowance per completed job.
func (q WageReportQuery) AllowancePerJob() float64 {
	return q.allowancePerJob
}

func (q *WageReportQuery) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	q.workerID = workerID
	return nil
}

func (q *WageReportQuery) setRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return errs.NewValueIsRequiredError("date range")
	}

	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if from.After(to) {
		return errs.NewValueIsInvalidError("date range")
	}

	q.from = from
	q.to = to
	return nil
}

func (q *WageReportQuery) setRates(ratePerKm, allowancePerJob float64) error {
	if ratePerKm < 0 {
		return errs.NewValueIsInvalidError("ratePerKm")
	}
	if allowancePerJob < 0 {
		return errs.NewValueIsInvalidError("allowancePerJob")
	}

	if ratePerKm == 0 {
		ratePerKm = DefaultRatePerKm
	}
	if allowancePerJob == 0 {
		allowancePerJob = DefaultAllowancePerJob
	}

	q.ratePerKm = ratePerKm
	q.allowancePerJob = allowancePerJob
	return nil
}

// WageReportQueryResponse carries the wage totals for the range.
type WageReportQueryResponse struct {
	CompletedJobs     int
	ValidNoAccessJobs int
	TotalPoints       float64
	TotalAwards       float64
	TotalDistanceKm   float64
	Wage              float64
}
