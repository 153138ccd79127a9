package commands

import (
	"context"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/ports"
	"fieldwork/internal/pkg/errs"
)

// StartJobCommandHandler handles the business logic for starting a job.
// Enforces strict route order: a job may only start when every lower-sequence
// job of the same worker and day has left the "pending" status.
type StartJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewStartJobCommandHandler creates a handler for job start operations.
// Requires a JobUoWFactory for transactional persistence.
func NewStartJobCommandHandler(uowFactory JobUoWFactory) StartJobCommandHandler {
	return StartJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command. Returns a sequencing violation error
// naming the lowest blocking job when an earlier stop is still pending, or
// the domain's transition error when the job is not in a startable status.
func (h *StartJobCommandHandler) Handle(ctx context.Context, cmd StartJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	aggregate, err := jobRepo.Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	// Guard order: authorization, then transition legality, then route
	// order. A caller who may not act on the job learns nothing about the
	// rest of the route.
	if err = aggregate.Authorize(cmd.ActorID(), cmd.AdminOverride()); err != nil {
		return err
	}
	if _, err = aggregate.Status().Start(); err != nil {
		return err
	}

	if !cmd.AdminOverride() {
		if err = checkRouteOrder(ctx, jobRepo, aggregate, []job.Status{job.Pending}); err != nil {
			return err
		}
	}

	if err = aggregate.Start(cmd.ActorID(), cmd.AdminOverride(), cmd.StartLocation()); err != nil {
		return err
	}

	if err = jobRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// checkRouteOrder looks up the lowest-sequence job of the same worker and day
// that sits in one of the blocking statuses below the aggregate's sequence.
// Jobs without a sequence number are exempt from ordering.
func checkRouteOrder(
	ctx context.Context,
	jobRepo ports.JobRepository,
	aggregate *job.Job,
	blockingStatuses []job.Status,
) error {
	sequence := aggregate.SequenceNumber()
	if sequence == nil {
		return nil
	}

	blocking, err := jobRepo.GetFirstBlocking(
		ctx,
		aggregate.AssignedWorker(),
		aggregate.ScheduledDate(),
		*sequence,
		blockingStatuses,
	)
	if err != nil {
		return err
	}
	if blocking == nil {
		return nil
	}

	return errs.NewSequencingViolationError(blockingReference(blocking), *blocking.SequenceNumber())
}

// blockingReference names a blocking job for the violation message: the
// display number when it has one, the internal id otherwise.
func blockingReference(blocking *job.Job) string {
	if number := blocking.Number(); number != nil {
		return number.String()
	}

	return blocking.ID().String()
}
