package queries

import (
	"context"

	"gorm.io/gorm"

	"fieldwork/internal/core/domain/model/kernel"
)

// MileageReportQueryHandler aggregates a worker's traveled distance per day
// and derives the mileage payout. Distances are stored in kilometers; the
// payout unit is miles.
type MileageReportQueryHandler struct {
	db *gorm.DB
}

// NewMileageReportQueryHandler creates a handler for mileage report queries.
// Requires a GORM database connection for query execution.
func NewMileageReportQueryHandler(db *gorm.DB) MileageReportQueryHandler {
	return MileageReportQueryHandler{db: db}
}

// Handle sums traveled distance over completed jobs scheduled in [from, to],
// grouped by day. A range with no completed jobs yields zero totals.
func (h MileageReportQueryHandler) Handle(
	ctx context.Context,
	query MileageReportQuery,
) (MileageReportQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return MileageReportQueryResponse{}, err
	}

	report := MileageReportQueryResponse{
		Days: make([]MileageReportQueryDay, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			scheduled_date,
			COALESCE(SUM(distance_traveled), 0) AS distance_km
		FROM jobs
		WHERE assigned_worker_id = ?
		  AND scheduled_date BETWEEN ? AND ?
		  AND status = 'completed'
		GROUP BY scheduled_date
		ORDER BY scheduled_date
	`, query.WorkerID().Bytes(), query.From(), query.To()).Rows()
	if err != nil {
		return MileageReportQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var day MileageReportQueryDay

		if err = rows.Scan(&day.Date, &day.DistanceKm); err != nil {
			return MileageReportQueryResponse{}, err
		}

		report.Days = append(report.Days, day)
		report.TotalDistanceKm += day.DistanceKm
	}

	if err = rows.Err(); err != nil {
		return MileageReportQueryResponse{}, err
	}

	report.TotalMiles = kernel.KilometersToMiles(report.TotalDistanceKm)
	report.Payment = report.TotalMiles * query.PayoutRatePerMile()

	return report, nil
}
