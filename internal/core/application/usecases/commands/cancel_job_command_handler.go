package commands

import (
	"context"
)

// CancelJobCommandHandler handles the business logic for job cancellation.
// Only pending jobs can be cancelled; starting or completing cancelled work
// is rejected by the status machine.
type CancelJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewCancelJobCommandHandler creates a handler for job cancellation
// operations. Requires a JobUoWFactory for transactional persistence.
func NewCancelJobCommandHandler(uowFactory JobUoWFactory) CancelJobCommandHandler {
	return CancelJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancel command.
func (h *CancelJobCommandHandler) Handle(ctx context.Context, cmd CancelJobCommand) error {
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

	if err = aggregate.Cancel(cmd.ActorID(), cmd.AdminOverride()); err != nil {
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
