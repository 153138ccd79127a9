package queries

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

// DefaultPayoutRatePerMile is the mileage payout rate applied when the
// caller does not override it.
const DefaultPayoutRatePerMile = 0.30

var ErrMileageReportQueryIsNotConstructed = errors.New(
	"MileageReportQuery must be created via NewMileageReportQuery constructor",
)

// MileageReportQuery computes a worker's mileage payout over a date range:
// per-day traveled distance plus a total converted to miles and multiplied
// by the payout rate.
type MileageReportQuery struct { //nolint:recvcheck //using for validation
	workerID          kernel.UUID
	from              time.Time
	to                time.Time
	payoutRatePerMile float64

	guard guard.ConstructorGuard
}

// NewMileageReportQuery creates a mileage report query for the inclusive
// date range [from, to]. A zero rate selects the default; a negative rate
// is rejected.
func NewMileageReportQuery(
	workerID kernel.UUID,
	from time.Time,
	to time.Time,
	payoutRatePerMile float64,
) (MileageReportQuery, error) {
	mileageQuery := MileageReportQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		mileageQuery.setWorkerID(workerID),
		mileageQuery.setRange(from, to),
		mileageQuery.setRate(payoutRatePerMile),
	); err != nil {
		return MileageReportQuery{}, err
	}

	return mileageQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrMileageReportQueryIsNotConstructed if validation fails.
func (q MileageReportQuery) Validate() error {
	return q.guard.Validate(ErrMileageReportQueryIsNotConstructed)
}

// WorkerID returns the worker the report is about.
func (q MileageReportQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// From returns the first day of the range.
func (q MileageReportQuery) From() time.Time {
	return q.from
}

// To returns the last day of the range.
func (q MileageReportQuery) To() time.Time {
	return q.to
}

// PayoutRatePerMile returns the payout rate per traveled mile.
func (q MileageReportQuery) PayoutRatePerMile() float64 {
	return q.payoutRatePerMile
}

func (q *MileageReportQuery) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	q.workerID = workerID
	return nil
}

func (q *MileageReportQuery) setRange(from, to time.Time) error {
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

func (q *MileageReportQuery) setRate(payoutRatePerMile float64) error {
	if payoutRatePerMile < 0 {
		return errs.NewValueIsInvalidError("payoutRatePerMile")
	}

	if payoutRatePerMile == 0 {
		payoutRatePerMile = DefaultPayoutRatePerMile
	}

	q.payoutRatePerMile = payoutRatePerMile
	return nil
}

// MileageReportQueryDay is one day's traveled distance within the report.
type MileageReportQueryDay struct {
	Date       time.Time
	DistanceKm float64
}

// MileageReportQueryResponse carries the mileage totals for the range.
type MileageReportQueryResponse struct {
	Days            []MileageReportQueryDay
	TotalDistanceKm float64
	TotalMiles      float64
	Payment         float64
}
