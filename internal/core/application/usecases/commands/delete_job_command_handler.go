package commands

import (
	"context"
	"errors"

	"fieldwork/internal/core/domain/model/job"
)

// ErrJobAlreadyCompleted is returned when attempting to delete a job whose
// completion is already on record.
var ErrJobAlreadyCompleted = errors.New("completed jobs cannot be deleted")

// DeleteJobCommandHandler handles the business logic for job deletion.
// Deletion is an administrative correction for jobs created by mistake;
// completed work is kept for wage and mileage reporting.
type DeleteJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewDeleteJobCommandHandler creates a handler for job deletion operations.
// Requires a JobUoWFactory for transactional persistence.
func NewDeleteJobCommandHandler(uowFactory JobUoWFactory) DeleteJobCommandHandler {
	return DeleteJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the delete command.
// Returns ErrJobAlreadyCompleted when the job has already been completed.
func (h *DeleteJobCommandHandler) Handle(ctx context.Context, cmd DeleteJobCommand) error {
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

	if aggregate.Status() == job.Completed {
		return ErrJobAlreadyCompleted
	}

	if err = jobRepo.Remove(ctx, aggregate.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
