package http

import (
	"time"

	"fieldwork/internal/core/application/usecases/queries"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

// ErrorResponse is the JSON body for every failed request. The blocking
// fields are filled only for route order violations.
type ErrorResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	BlockingJobNumber string `json:"blocking_job_number,omitempty"`
	BlockingSequence  *int   `json:"blocking_sequence,omitempty"`
}

// CreateWorkerRequest is the body for POST /api/v1/workers.
type CreateWorkerRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
}

// CreateJobRequest is the body for POST /api/v1/jobs.
type CreateJobRequest struct {
	Street        string   `json:"street"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zip_code"`
	Country       string   `json:"country"`
	JobType       string   `json:"job_type"`
	Priority      string   `json:"priority"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	WorkerID      string   `json:"worker_id"`
	ScheduledDate string   `json:"scheduled_date"`
	Sequence      *int     `json:"sequence,omitempty"`
	Notes         string   `json:"notes"`
}

// CreatedResponse returns the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// StartJobRequest is the body for POST /api/v1/jobs/:id/start.
type StartJobRequest struct {
	WorkerID      string   `json:"worker_id"`
	AdminOverride bool     `json:"admin_override"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// EvidenceRequest mirrors job.Evidence on the wire.
type EvidenceRequest struct {
	RegisterValues   []string   `json:"register_values,omitempty"`
	RegisterIDs      []string   `json:"register_ids,omitempty"`
	ElectricReading  string     `json:"electric_reading,omitempty"`
	GasReading       string     `json:"gas_reading,omitempty"`
	WaterReading     string     `json:"water_reading,omitempty"`
	Photos           []string   `json:"photos,omitempty"`
	NoAccessReason   string     `json:"no_access_reason,omitempty"`
	CustomerRead     bool       `json:"customer_read,omitempty"`
	StartLocation    *PointDTO  `json:"start_location,omitempty"`
	EndLocation      *PointDTO  `json:"end_location,omitempty"`
	LocationHistory  []PointDTO `json:"location_history,omitempty"`
	DistanceTraveled *float64   `json:"distance_traveled,omitempty"`
}

// PointDTO is a latitude/longitude pair on the wire.
type PointDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CompleteJobRequest is the body for POST /api/v1/jobs/:id/complete.
type CompleteJobRequest struct {
	WorkerID      string          `json:"worker_id"`
	AdminOverride bool            `json:"admin_override"`
	Evidence      EvidenceRequest `json:"evidence"`
}

// CancelJobRequest is the body for POST /api/v1/jobs/:id/cancel.
type CancelJobRequest struct {
	WorkerID      string `json:"worker_id"`
	AdminOverride bool   `json:"admin_override"`
	Reason        string `json:"reason"`
}

// ImportRowRequest is one sheet row in a JSON import body.
type ImportRowRequest struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Country   string   `json:"country"`
	JobType   string   `json:"job_type"`
	Priority  string   `json:"priority"`
	Notes     string   `json:"notes"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ImportJobsRequest is the JSON body for POST /api/v1/jobs/import.
type ImportJobsRequest struct {
	WorkerID      string             `json:"worker_id"`
	ScheduledDate string             `json:"scheduled_date"`
	Rows          []ImportRowRequest `json:"rows"`
}

// RouteStopResponse is one stop of GET /api/v1/workers/:id/route.
type RouteStopResponse struct {
	JobID     string   `json:"job_id"`
	Number    string   `json:"number"`
	Sequence  *int     `json:"sequence,omitempty"`
	Status    string   `json:"status"`
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// WageReportResponse is the body of GET /api/v1/workers/:id/reports/wage.
type WageReportResponse struct {
	CompletedJobs     int     `json:"completed_jobs"`
	ValidNoAccessJobs int     `json:"valid_no_access_jobs"`
	TotalPoints       float64 `json:"total_points"`
	TotalAwards       float64 `json:"total_awards"`
	TotalDistanceKm   float64 `json:"total_distance_km"`
	Wage              float64 `json:"wage"`
}

// MileageDayResponse is one day of the mileage report.
type MileageDayResponse struct {
	Date       string  `json:"date"`
	DistanceKm float64 `json:"distance_km"`
}

// MileageReportResponse is the body of GET /api/v1/workers/:id/reports/mileage.
type MileageReportResponse struct {
	Days            []MileageDayResponse `json:"days"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	TotalMiles      float64              `json:"total_miles"`
	Payment         float64              `json:"payment"`
}

// toEvidence converts the wire evidence into the domain form. Malformed
// coordinates are rejected so a bad submission fails validation instead of
// completing a job with garbage locations.
func (r EvidenceRequest) toEvidence() (job.Evidence, error) {
	evidence := job.Evidence{
		RegisterValues:   r.RegisterValues,
		RegisterIDs:      r.RegisterIDs,
		ElectricReading:  r.ElectricReading,
		GasReading:       r.GasReading,
		WaterReading:     r.WaterReading,
		Photos:           r.Photos,
		NoAccessReason:   r.NoAccessReason,
		CustomerRead:     r.CustomerRead,
		DistanceTraveled: r.DistanceTraveled,
	}

	if r.StartLocation != nil {
		point, err := kernel.NewGeoPoint(r.StartLocation.Latitude, r.StartLocation.Longitude)
		if err != nil {
			return job.Evidence{}, err
		}
		evidence.StartLocation = &point
	}
	if r.EndLocation != nil {
		point, err := kernel.NewGeoPoint(r.EndLocation.Latitude, r.EndLocation.Longitude)
		if err != nil {
			return job.Evidence{}, err
		}
		evidence.EndLocation = &point
	}
	for _, raw := range r.LocationHistory {
		point, err := kernel.NewGeoPoint(raw.Latitude, raw.Longitude)
		if err != nil {
			return job.Evidence{}, err
		}
		evidence.LocationHistory = append(evidence.LocationHistory, point)
	}

	return evidence, nil
}

func toRouteStopResponse(stop queries.GetWorkerRouteQueryResponse) RouteStopResponse {
	return RouteStopResponse{
		JobID:     stop.JobID.String(),
		Number:    stop.Number,
		Sequence:  stop.Sequence,
		Status:    stop.Status,
		Street:    stop.Street,
		City:      stop.City,
		State:     stop.State,
		ZipCode:   stop.ZipCode,
		Country:   stop.Country,
		Latitude:  stop.Latitude,
		Longitude: stop.Longitude,
		Notes:     stop.Notes,
	}
}

func toMileageReportResponse(report queries.MileageReportQueryResponse) MileageReportResponse {
	days := make([]MileageDayResponse, 0, len(report.Days))
	for _, day := range report.Days {
		days = append(days, MileageDayResponse{
			Date:       day.Date.UTC().Format(time.DateOnly),
			DistanceKm: day.DistanceKm,
		})
	}

	return MileageReportResponse{
		Days:            days,
		TotalDistanceKm: report.TotalDistanceKm,
		TotalMiles:      report.TotalMiles,
		Payment:         report.Payment,
	}
}
