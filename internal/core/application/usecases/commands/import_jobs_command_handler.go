package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
	"fieldwork/internal/core/domain/services"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

// geocodeAttempts bounds how often a single address is retried against the
// geocoding provider before the row degrades to a no-coordinates job.
const geocodeAttempts = 3

// RouteAssignedPayload is the notification body published after a route
// sheet import lands.
type RouteAssignedPayload struct {
	WorkerID      string    `json:"worker_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	JobCount      int       `json:"job_count"`
}

// ImportJobsCommandHandler handles the business logic for route sheet
// imports. Geocoding runs outside the transaction behind a rate gate; the
// ordered, numbered batch is then persisted atomically.
type ImportJobsCommandHandler struct {
	uowFactory   UoWFactory
	geocoder     ports.Geocoder
	notifier     ports.Notifier
	geocodeGate  *rate.Limiter
	allocator    services.JobNumberAllocator
	routeOrderer services.RouteOrderer
}

// NewImportJobsCommandHandler creates a handler for route sheet imports.
// The rate gate keeps geocoding at one request per second, which is what
// public providers tolerate from a single client.
func NewImportJobsCommandHandler(
	uowFactory UoWFactory,
	geocoder ports.Geocoder,
	notifier ports.Notifier,
) ImportJobsCommandHandler {
	return ImportJobsCommandHandler{
		uowFactory:   uowFactory,
		geocoder:     geocoder,
		notifier:     notifier,
		geocodeGate:  rate.NewLimiter(rate.Every(time.Second), 1),
		allocator:    services.NewJobNumberAllocator(),
		routeOrderer: services.NewRouteOrderer(),
	}
}

// Handle processes the import command.
// Rows missing street, city or state are skipped, as are rows with an
// unknown job type. Geocoding failures degrade the row to a no-coordinates
// job that lands at the end of the route, sorted by zip code. The whole
// batch is stored in one transaction; either every created job lands or
// none does.
func (h *ImportJobsCommandHandler) Handle(ctx context.Context, cmd ImportJobsCommand) (ImportReport, error) {
	if err := cmd.Validate(); err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{}

	jobs, err := h.buildJobs(ctx, cmd, &report)
	if err != nil {
		return ImportReport{}, err
	}
	if len(jobs) == 0 {
		return report, nil
	}

	ordered, err := h.routeOrderer.Order(jobs)
	if err != nil {
		return ImportReport{}, err
	}

	if err = h.persist(ctx, cmd, ordered); err != nil {
		return ImportReport{}, err
	}

	report.Created = len(ordered)

	if h.notifier != nil {
		h.notifier.Publish(ctx, ports.TopicRouteAssigned, RouteAssignedPayload{
			WorkerID:      cmd.WorkerID().String(),
			ScheduledDate: cmd.ScheduledDate(),
			JobCount:      len(ordered),
		})
	}

	return report, nil
}

// buildJobs turns raw rows into unordered, unnumbered job aggregates.
func (h *ImportJobsCommandHandler) buildJobs(
	ctx context.Context,
	cmd ImportJobsCommand,
	report *ImportReport,
) ([]*job.Job, error) {
	jobs := make([]*job.Job, 0, len(cmd.Rows()))

	for _, row := range cmd.Rows() {
		address, ok := rowAddress(row)
		if !ok {
			report.Skipped++
			continue
		}

		jobType, err := job.TypeFromString(row.JobType)
		if err != nil {
			report.Skipped++
			continue
		}

		priority, err := job.PriorityFromString(row.Priority)
		if err != nil {
			report.Skipped++
			continue
		}

		coordinates, err := h.rowCoordinates(ctx, row, address, report)
		if err != nil {
			return nil, err
		}

		aggregate, err := job.NewJob(
			kernel.NewUUID(),
			nil,
			jobType,
			priority,
			address,
			coordinates,
			cmd.WorkerID(),
			cmd.ScheduledDate(),
			nil,
			row.Notes,
		)
		if err != nil {
			return nil, err
		}

		jobs = append(jobs, aggregate)
	}

	return jobs, nil
}

// rowAddress validates the row's required address fields.
func rowAddress(row ImportRow) (job.Address, bool) {
	if strings.TrimSpace(row.Street) == "" ||
		strings.TrimSpace(row.City) == "" ||
		strings.TrimSpace(row.State) == "" {
		return job.Address{}, false
	}

	address, err := job.NewAddress(row.Street, row.City, row.State, row.ZipCode, row.Country)
	if err != nil {
		return job.Address{}, false
	}

	return address, true
}

// rowCoordinates resolves a row's location: sheet-supplied coordinates win,
// otherwise the geocoder is consulted behind the rate gate. Only a cancelled
// context aborts the import; provider failures degrade the row.
func (h *ImportJobsCommandHandler) rowCoordinates(
	ctx context.Context,
	row ImportRow,
	address job.Address,
	report *ImportReport,
) (*kernel.GeoPoint, error) {
	if row.Latitude != nil && row.Longitude != nil {
		point, err := kernel.NewGeoPoint(*row.Latitude, *row.Longitude)
		if err == nil {
			return &point, nil
		}
		// Out-of-range sheet coordinates fall through to the geocoder.
	}

	if h.geocoder == nil {
		return nil, nil
	}

	for attempt := 0; attempt < geocodeAttempts; attempt++ {
		if err := h.geocodeGate.Wait(ctx); err != nil {
			return nil, err
		}

		located, err := h.geocoder.Geocode(ctx, address)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			continue
		}
		if located == nil {
			// The provider answered: the address is unknown. No retry.
			break
		}

		report.Geocoded++
		return &located.Point, nil
	}

	report.GeocodeFailed++
	return nil, nil
}

// persist numbers and sequences the ordered batch and stores it atomically.
func (h *ImportJobsCommandHandler) persist(ctx context.Context, cmd ImportJobsCommand, ordered []*job.Job) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	if err := checkWorkerAssignable(ctx, uow.WorkerRepository(), cmd.WorkerID()); err != nil {
		return err
	}

	numbers, err := h.allocateBatch(ctx, jobRepo, len(ordered))
	if err != nil {
		return err
	}

	for i, aggregate := range ordered {
		if err = aggregate.AssignNumber(numbers[i]); err != nil {
			return err
		}
		if err = aggregate.AssignSequence(i + 1); err != nil {
			return err
		}
	}

	if err = jobRepo.AddBatch(ctx, ordered); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// checkWorkerAssignable rejects job assignment to workers outside the field
// department. A worker missing from storage is tolerated: jobs can be
// created ahead of the worker roster sync.
func checkWorkerAssignable(
	ctx context.Context,
	workerRepo ports.WorkerRepository,
	workerID kernel.UUID,
) error {
	assignedWorker, err := workerRepo.Get(ctx, workerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !assignedWorker.CanBeAssigned() {
		return worker.ErrWorkerNotAssignable
	}

	return nil
}

func (h *ImportJobsCommandHandler) allocateBatch(
	ctx context.Context,
	jobRepo ports.JobRepository,
	count int,
) ([]job.Number, error) {
	maximum, err := jobRepo.GetMaxNumber(ctx)
	if err != nil {
		// Degraded mode: derive the block's base from the clock and let the
		// unique constraint on stored numbers catch collisions.
		base, fallbackErr := h.allocator.Fallback(time.Now())
		if fallbackErr != nil {
			return nil, fallbackErr
		}
		maximum = &base
	}

	return h.allocator.Batch(maximum, count)
}
