package commands

import (
	"context"
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/services"
	"fieldwork/internal/core/ports"
)

// CreateJobCommandHandler handles the business logic for job creation.
// Verifies the worker may be assigned field work, allocates the next
// sequential job number, geocodes the address when no coordinates were
// supplied, and persists the job in "pending" status.
type CreateJobCommandHandler struct {
	uowFactory UoWFactory
	geocoder   ports.Geocoder
	allocator  services.JobNumberAllocator
}

// NewCreateJobCommandHandler creates a handler for job creation operations.
// Requires a UoWFactory spanning job and worker aggregates and a Geocoder
// for address resolution.
func NewCreateJobCommandHandler(uowFactory UoWFactory, geocoder ports.Geocoder) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		allocator:  services.NewJobNumberAllocator(),
	}
}

// Handle processes the job creation command.
// The job number comes from the stored maximum plus one; when the maximum
// cannot be read a clock-derived fallback number is used and the unique
// constraint on the number catches collisions. A geocoder miss is not an
// error: the job is stored without coordinates.
func (h *CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	coordinates := cmd.Coordinates()
	if coordinates == nil {
		coordinates = h.resolveCoordinates(ctx, cmd.Address())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := checkWorkerAssignable(ctx, uow.WorkerRepository(), cmd.WorkerID()); err != nil {
		return err
	}

	jobRepo := uow.JobRepository()

	number, err := h.allocateNumber(ctx, jobRepo)
	if err != nil {
		return err
	}

	aggregate, err := job.NewJob(
		cmd.JobID(),
		&number,
		cmd.JobType(),
		cmd.Priority(),
		cmd.Address(),
		coordinates,
		cmd.WorkerID(),
		cmd.ScheduledDate(),
		cmd.Sequence(),
		cmd.Notes(),
	)
	if err != nil {
		return err
	}

	if err = jobRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

func (h *CreateJobCommandHandler) allocateNumber(ctx context.Context, jobRepo ports.JobRepository) (job.Number, error) {
	maximum, err := jobRepo.GetMaxNumber(ctx)
	if err != nil {
		// Degraded mode: the unique constraint on the stored number
		// catches any collision the clock-derived value may produce.
		return h.allocator.Fallback(time.Now())
	}

	return h.allocator.Next(maximum)
}

func (h *CreateJobCommandHandler) resolveCoordinates(ctx context.Context, address job.Address) *kernel.GeoPoint {
	if h.geocoder == nil {
		return nil
	}

	located, err := h.geocoder.Geocode(ctx, address)
	if err != nil || located == nil {
		return nil
	}

	return &located.Point
}
