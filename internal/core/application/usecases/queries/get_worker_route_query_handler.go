package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fieldwork/internal/core/domain/model/kernel"
)

// GetWorkerRouteQueryHandler reads a worker's route for a date directly from
// the job store.
//
// Example:
//
//	handler := NewGetWorkerRouteQueryHandler(db)
//	stops, err := handler.Handle(ctx, query)
//	for _, stop := range stops {
//	    fmt.Printf("%s %s, %s\n", stop.Number, stop.Street, stop.City)
//	}
type GetWorkerRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetWorkerRouteQueryHandler creates a handler for worker route queries.
// Requires a GORM database connection for query execution.
func NewGetWorkerRouteQueryHandler(db *gorm.DB) GetWorkerRouteQueryHandler {
	return GetWorkerRouteQueryHandler{db: db}
}

// Handle returns the worker's jobs for the date ordered by sequence number.
// Jobs without a sequence trail the route, sorted by zip code.
func (h GetWorkerRouteQueryHandler) Handle(
	ctx context.Context,
	query GetWorkerRouteQuery,
) ([]GetWorkerRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stops := make([]GetWorkerRouteQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			job_number,
			sequence_number,
			status,
			address_street,
			address_city,
			address_state,
			address_zip_code,
			address_country,
			latitude,
			longitude,
			notes
		FROM jobs
		WHERE assigned_worker_id = ?
		  AND scheduled_date = ?
		ORDER BY sequence_number ASC NULLS LAST, address_zip_code, job_number
	`, query.WorkerID().Bytes(), query.Date()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stop GetWorkerRouteQueryResponse
		var id uuid.UUID
		var number *string

		err = rows.Scan(
			&id,
			&number,
			&stop.Sequence,
			&stop.Status,
			&stop.Street,
			&stop.City,
			&stop.State,
			&stop.ZipCode,
			&stop.Country,
			&stop.Latitude,
			&stop.Longitude,
			&stop.Notes,
		)
		if err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		stop.JobID = jobID

		if number != nil {
			stop.Number = *number
		}

		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
