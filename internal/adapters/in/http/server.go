// Package http exposes the engine over a REST surface. Handlers stay thin:
// bind, build a command or query, dispatch, map the error to a status code.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"fieldwork/internal/adapters/out/tabular"
	"fieldwork/internal/core/application/usecases/commands"
	"fieldwork/internal/core/application/usecases/queries"
	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
	"fieldwork/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createWorkerHandler commands.CreateWorkerCommandHandler
	createJobHandler    commands.CreateJobCommandHandler
	startJobHandler     commands.StartJobCommandHandler
	completeJobHandler  commands.CompleteJobCommandHandler
	cancelJobHandler    commands.CancelJobCommandHandler
	deleteJobHandler    commands.DeleteJobCommandHandler
	importJobsHandler   commands.ImportJobsCommandHandler

	// Query handlers
	workerRouteHandler   queries.GetWorkerRouteQueryHandler
	wageReportHandler    queries.WageReportQueryHandler
	mileageReportHandler queries.MileageReportQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createWorkerHandler commands.CreateWorkerCommandHandler,
	createJobHandler commands.CreateJobCommandHandler,
	startJobHandler commands.StartJobCommandHandler,
	completeJobHandler commands.CompleteJobCommandHandler,
	cancelJobHandler commands.CancelJobCommandHandler,
	deleteJobHandler commands.DeleteJobCommandHandler,
	importJobsHandler commands.ImportJobsCommandHandler,
	workerRouteHandler queries.GetWorkerRouteQueryHandler,
	wageReportHandler queries.WageReportQueryHandler,
	mileageReportHandler queries.MileageReportQueryHandler,
) *Server {
	return &Server{
		createWorkerHandler:  createWorkerHandler,
		createJobHandler:     createJobHandler,
		startJobHandler:      startJobHandler,
		completeJobHandler:   completeJobHandler,
		cancelJobHandler:     cancelJobHandler,
		deleteJobHandler:     deleteJobHandler,
		importJobsHandler:    importJobsHandler,
		workerRouteHandler:   workerRouteHandler,
		wageReportHandler:    wageReportHandler,
		mileageReportHandler: mileageReportHandler,
	}
}

// RegisterRoutes attaches the API surface to the Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/workers", s.CreateWorker)
	v1.POST("/jobs", s.CreateJob)
	v1.POST("/jobs/import", s.ImportJobs)
	v1.POST("/jobs/:id/start", s.StartJob)
	v1.POST("/jobs/:id/complete", s.CompleteJob)
	v1.POST("/jobs/:id/cancel", s.CancelJob)
	v1.DELETE("/jobs/:id", s.DeleteJob)
	v1.GET("/workers/:id/route", s.GetWorkerRoute)
	v1.GET("/workers/:id/reports/wage", s.GetWageReport)
	v1.GET("/workers/:id/reports/mileage", s.GetMileageReport)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateWorker handles POST /api/v1/workers - registers a worker.
func (s *Server) CreateWorker(ctx echo.Context) error {
	var request CreateWorkerRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	workerID := kernel.NewUUID()
	cmd, err := commands.NewCreateWorkerCommand(workerID, request.Name, request.Department)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createWorkerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: workerID.String()})
}

// CreateJob handles POST /api/v1/jobs - creates a single job.
func (s *Server) CreateJob(ctx echo.Context) error {
	var request CreateJobRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	workerID, err := kernel.UUIDFromString(request.WorkerID)
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	scheduledDate, err := parseDate(request.ScheduledDate)
	if err != nil {
		return badRequest(ctx, "Invalid scheduled date, expected YYYY-MM-DD")
	}

	address, err := job.NewAddress(
		request.Street, request.City, request.State, request.ZipCode, request.Country)
	if err != nil {
		return respondError(ctx, err)
	}

	coordinates, err := parsePoint(request.Latitude, request.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	jobID := kernel.NewUUID()
	cmd, err := commands.NewCreateJobCommand(
		jobID,
		request.JobType,
		request.Priority,
		address,
		coordinates,
		workerID,
		scheduledDate,
		request.Sequence,
		request.Notes,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: jobID.String()})
}

// StartJob handles POST /api/v1/jobs/:id/start.
func (s *Server) StartJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	var request StartJobRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := parseActor(request.WorkerID, request.AdminOverride)
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	startLocation, err := parsePoint(request.Latitude, request.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewStartJobCommand(jobID, actorID, request.AdminOverride, startLocation)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.startJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteJob handles POST /api/v1/jobs/:id/complete.
func (s *Server) CompleteJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	var request CompleteJobRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := parseActor(request.WorkerID, request.AdminOverride)
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	evidence, err := request.Evidence.toEvidence()
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewCompleteJobCommand(jobID, actorID, request.AdminOverride, evidence)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.completeJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelJob handles POST /api/v1/jobs/:id/cancel.
func (s *Server) CancelJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	var request CancelJobRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := parseActor(request.WorkerID, request.AdminOverride)
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	cmd, err := commands.NewCancelJobCommand(jobID, actorID, request.AdminOverride, request.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.cancelJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteJob handles DELETE /api/v1/jobs/:id - admin removal of a job.
func (s *Server) DeleteJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	cmd, err := commands.NewDeleteJobCommand(jobID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.deleteJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ImportJobs handles POST /api/v1/jobs/import - bulk route sheet import.
// Accepts a JSON body with inline rows, or a CSV sheet (text/csv) with the
// worker and date passed as query parameters.
func (s *Server) ImportJobs(ctx echo.Context) error {
	var workerIDRaw, dateRaw string
	var rows []commands.ImportRow

	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), "text/csv") {
		workerIDRaw = ctx.QueryParam("worker_id")
		dateRaw = ctx.QueryParam("scheduled_date")

		parsed, err := tabular.ParseJobsCSV(ctx.Request().Body)
		if err != nil {
			return badRequest(ctx, "Invalid CSV sheet: "+err.Error())
		}
		rows = parsed
	} else {
		var request ImportJobsRequest
		if err := ctx.Bind(&request); err != nil {
			return badRequest(ctx, "Invalid request body")
		}

		workerIDRaw = request.WorkerID
		dateRaw = request.ScheduledDate
		rows = make([]commands.ImportRow, 0, len(request.Rows))
		for _, row := range request.Rows {
			rows = append(rows, commands.ImportRow{
				Street:    row.Street,
				City:      row.City,
				State:     row.State,
				ZipCode:   row.ZipCode,
				Country:   row.Country,
				JobType:   row.JobType,
				Priority:  row.Priority,
				Notes:     row.Notes,
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			})
		}
	}

	workerID, err := kernel.UUIDFromString(workerIDRaw)
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	scheduledDate, err := parseDate(dateRaw)
	if err != nil {
		return badRequest(ctx, "Invalid scheduled date, expected YYYY-MM-DD")
	}

	cmd, err := commands.NewImportJobsCommand(workerID, scheduledDate, rows)
	if err != nil {
		return respondError(ctx, err)
	}

	report, err := s.importJobsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, report)
}

// GetWorkerRoute handles GET /api/v1/workers/:id/route?date=YYYY-MM-DD.
func (s *Server) GetWorkerRoute(ctx echo.Context) error {
	workerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	date, err := parseDate(ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, "Invalid date, expected YYYY-MM-DD")
	}

	query, err := queries.NewGetWorkerRouteQuery(workerID, date)
	if err != nil {
		return respondError(ctx, err)
	}

	stops, err := s.workerRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]RouteStopResponse, 0, len(stops))
	for _, stop := range stops {
		response = append(response, toRouteStopResponse(stop))
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetWageReport handles GET /api/v1/workers/:id/reports/wage.
// Query parameters: from, to (YYYY-MM-DD), optional rate_per_km and
// allowance_per_job overrides.
func (s *Server) GetWageReport(ctx echo.Context) error {
	workerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	from, to, err := parseRange(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid date range, expected from/to as YYYY-MM-DD")
	}

	ratePerKm, err := parseRate(ctx.QueryParam("rate_per_km"))
	if err != nil {
		return badRequest(ctx, "Invalid rate_per_km")
	}
	allowancePerJob, err := parseRate(ctx.QueryParam("allowance_per_job"))
	if err != nil {
		return badRequest(ctx, "Invalid allowance_per_job")
	}

	query, err := queries.NewWageReportQuery(workerID, from, to, ratePerKm, allowancePerJob)
	if err != nil {
		return respondError(ctx, err)
	}

	report, err := s.wageReportHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, WageReportResponse{
		CompletedJobs:     report.CompletedJobs,
		ValidNoAccessJobs: report.ValidNoAccessJobs,
		TotalPoints:       report.TotalPoints,
		TotalAwards:       report.TotalAwards,
		TotalDistanceKm:   report.TotalDistanceKm,
		Wage:              report.Wage,
	})
}

// GetMileageReport handles GET /api/v1/workers/:id/reports/mileage.
// Query parameters: from, to (YYYY-MM-DD), optional payout_rate_per_mile.
func (s *Server) GetMileageReport(ctx echo.Context) error {
	workerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid worker id")
	}

	from, to, err := parseRange(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid date range, expected from/to as YYYY-MM-DD")
	}

	rate, err := parseRate(ctx.QueryParam("payout_rate_per_mile"))
	if err != nil {
		return badRequest(ctx, "Invalid payout_rate_per_mile")
	}

	query, err := queries.NewMileageReportQuery(workerID, from, to, rate)
	if err != nil {
		return respondError(ctx, err)
	}

	report, err := s.mileageReportHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toMileageReportResponse(report))
}

// respondError maps domain and application errors to HTTP statuses:
// validation failures to 400, forbidden transitions to 403, missing objects
// to 404, sequencing violations and number conflicts to 409, upstream
// trouble to 502, everything else to 500.
func respondError(ctx echo.Context, err error) error {
	var violation *errs.SequencingViolationError
	if errors.As(err, &violation) {
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:              http.StatusConflict,
			Message:           err.Error(),
			BlockingJobNumber: violation.BlockingNumber,
			BlockingSequence:  &violation.BlockingSequence,
		})
	}

	switch {
	case errors.Is(err, errs.ErrConflict):
		return respondStatus(ctx, http.StatusConflict, err)
	case errors.Is(err, errs.ErrObjectNotFound):
		return respondStatus(ctx, http.StatusNotFound, err)
	case errors.Is(err, job.ErrActorNotAllowed):
		return respondStatus(ctx, http.StatusForbidden, err)
	case errors.Is(err, worker.ErrWorkerNotAssignable),
		errors.Is(err, commands.ErrJobAlreadyCompleted),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return respondStatus(ctx, http.StatusBadRequest, err)
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		return respondStatus(ctx, http.StatusBadGateway, err)
	default:
		return respondStatus(ctx, http.StatusInternalServerError, err)
	}
}

func respondStatus(ctx echo.Context, status int, err error) error {
	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// parseActor resolves the acting worker. An admin override may arrive
// without a worker identity.
func parseActor(raw string, adminOverride bool) (kernel.UUID, error) {
	if raw == "" && adminOverride {
		return kernel.UUID{}, nil
	}
	return kernel.UUIDFromString(raw)
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, raw)
}

func parseRange(ctx echo.Context) (time.Time, time.Time, error) {
	from, err := parseDate(ctx.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(ctx.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// parseRate parses an optional rate override; empty selects the default.
func parseRate(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parsePoint(latitude, longitude *float64) (*kernel.GeoPoint, error) {
	if latitude == nil || longitude == nil {
		return nil, nil
	}

	point, err := kernel.NewGeoPoint(*latitude, *longitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
