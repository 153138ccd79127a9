// Package queries implements the read side of the engine: worker routes and
// the wage and mileage reports. Handlers bypass the domain model and read
// the job store directly with raw SQL, returning flat read models.
package queries

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

var ErrGetWorkerRouteQueryIsNotConstructed = errors.New(
	"GetWorkerRouteQuery must be created via NewGetWorkerRouteQuery constructor",
)

// GetWorkerRouteQuery retrieves one worker's ordered route for a scheduled
// date: every job of the day sorted by sequence number, unsequenced jobs
// trailing in zip code order.
//
// Example:
//
//	query, err := NewGetWorkerRouteQuery(workerID, date)
//	if err != nil {
//	    return err
//	}
//	stops, err := handler.Handle(ctx, query)
type GetWorkerRouteQuery struct { //nolint:recvcheck //using for validation
	workerID kernel.UUID
	date     time.Time

	guard guard.ConstructorGuard
}

// NewGetWorkerRouteQuery creates a query for a worker's route on a date.
func NewGetWorkerRouteQuery(workerID kernel.UUID, date time.Time) (GetWorkerRouteQuery, error) {
	routeQuery := GetWorkerRouteQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		routeQuery.setWorkerID(workerID),
		routeQuery.setDate(date),
	); err != nil {
		return GetWorkerRouteQuery{}, err
	}

	return routeQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetWorkerRouteQueryIsNotConstructed if validation fails.
func (q GetWorkerRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerRouteQueryIsNotConstructed)
}

// WorkerID returns the worker whose route is requested.
func (q GetWorkerRouteQuery) WorkerID() kernel.UUID {
	return q.workerID
}

// Date returns the scheduled date of the route.
func (q GetWorkerRouteQuery) Date() time.Time {
	return q.date
}

func (q *GetWorkerRouteQuery) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	q.workerID = workerID
	return nil
}

func (q *GetWorkerRouteQuery) setDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("date")
	}

	q.date = date.UTC().Truncate(24 * time.Hour)
	return nil
}

// GetWorkerRouteQueryResponse is one stop of the worker's route.
type GetWorkerRouteQueryResponse struct {
	JobID     kernel.UUID
	Number    string
	Sequence  *int
	Status    string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Latitude  *float64
	Longitude *float64
	Notes     string
}
