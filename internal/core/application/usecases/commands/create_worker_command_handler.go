package commands

import (
	"context"

	"fieldwork/internal/core/domain/model/worker"
)

// CreateWorkerCommandHandler handles the business logic for worker
// registration.
type CreateWorkerCommandHandler struct {
	uowFactory WorkerUoWFactory
}

// NewCreateWorkerCommandHandler creates a handler for worker registration
// operations. Requires a WorkerUoWFactory for transactional persistence.
func NewCreateWorkerCommandHandler(uowFactory WorkerUoWFactory) CreateWorkerCommandHandler {
	return CreateWorkerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the worker registration command.
func (h *CreateWorkerCommandHandler) Handle(ctx context.Context, cmd CreateWorkerCommand) error {
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

	workerRepo := uow.WorkerRepository()

	aggregate, err := worker.NewWorker(cmd.WorkerID(), cmd.Name(), cmd.Department())
	if err != nil {
		return err
	}

	if err = workerRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
