package queries

import (
	"context"

	"gorm.io/gorm"
)

// WageReportQueryHandler aggregates a worker's completed jobs into a wage
// report. The range filter is applied once, here at the query boundary, so
// overlapping report requests never double count a job.
type WageReportQueryHandler struct {
	db *gorm.DB
}

// NewWageReportQueryHandler creates a handler for wage report queries.
// Requires a GORM database connection for query execution.
func NewWageReportQueryHandler(db *gorm.DB) WageReportQueryHandler {
	return WageReportQueryHandler{db: db}
}

// Handle aggregates completed jobs scheduled in [from, to] and derives the
// wage. A range with no completed jobs yields zero totals, not an error.
func (h WageReportQueryHandler) Handle(
	ctx context.Context,
	query WageReportQuery,
) (WageReportQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return WageReportQueryResponse{}, err
	}

	var report WageReportQueryResponse

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS completed_jobs,
			COUNT(*) FILTER (WHERE valid_no_access) AS valid_no_access_jobs,
			COALESCE(SUM(points), 0) AS total_points,
			COALESCE(SUM(award), 0) AS total_awards,
			COALESCE(SUM(distance_traveled), 0) AS total_distance_km
		FROM jobs
		WHERE assigned_worker_id = ?
		  AND scheduled_date BETWEEN ? AND ?
		  AND status = 'completed'
	`, query.WorkerID().Bytes(), query.From(), query.To()).Row().Scan(
		&report.CompletedJobs,
		&report.ValidNoAccessJobs,
		&report.TotalPoints,
		&report.TotalAwards,
		&report.TotalDistanceKm,
	)
	if err != nil {
		return WageReportQueryResponse{}, err
	}

	report.Wage = report.TotalDistanceKm*query.RatePerKm() +
		float64(report.CompletedJobs)*query.AllowancePerJob()

	return report, nil
}
