// Package workerrepo provides data transfer objects and mapping functions for worker persistence.
package workerrepo

import (
	"github.com/google/uuid"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/core/domain/model/worker"
)

// WorkerDTO represents the database structure for persisting worker aggregates.
type WorkerDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(128)"`
	Department     string    `gorm:"type:varchar(64);index"`
	JobsCompleted  int
	CompletionRate int
}

// TableName specifies the database table name for worker entities.
func (WorkerDTO) TableName() string {
	return "workers"
}

// fromDomain converts a worker domain aggregate to its database representation.
func fromDomain(aggregate *worker.Worker) WorkerDTO {
	return WorkerDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Department:     aggregate.Department(),
		JobsCompleted:  aggregate.JobsCompleted(),
		CompletionRate: aggregate.CompletionRate(),
	}
}

// toDomain converts a database DTO to a worker domain aggregate.
func toDomain(dto WorkerDTO) (*worker.Worker, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return worker.RestoreWorker(id, dto.Name, dto.Department, dto.JobsCompleted, dto.CompletionRate)
}
