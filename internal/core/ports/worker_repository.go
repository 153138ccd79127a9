package ports

import (
	"context"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
)

// WorkerRepository defines the persistence contract for worker aggregates.
type WorkerRepository interface {
	// Add persists a new worker aggregate to storage.
	Add(ctx context.Context, aggregate *worker.Worker) error

	// Update persists changes to an existing worker aggregate.
	Update(ctx context.Context, aggregate *worker.Worker) error

	// Get retrieves a worker aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*worker.Worker, error)

	// GetAllAssignable retrieves all workers eligible to receive field jobs.
	GetAllAssignable(ctx context.Context) ([]*worker.Worker, error)
}
