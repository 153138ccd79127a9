package commands

import (
	"errors"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var ErrDeleteJobCommandIsNotConstructed = errors.New(
	"DeleteJobCommand must be created via NewDeleteJobCommand constructor",
)

// DeleteJobCommand represents an administrative request to remove a job
// entirely. Completed jobs are immutable history and cannot be deleted.
type DeleteJobCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteJobCommand creates a command to delete a job.
func NewDeleteJobCommand(jobID kernel.UUID) (DeleteJobCommand, error) {
	deleteCommand := DeleteJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := deleteCommand.setJobID(jobID); err != nil {
		return DeleteJobCommand{}, err
	}

	return deleteCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeleteJobCommandIsNotConstructed if validation fails.
func (c DeleteJobCommand) Validate() error {
	return c.guard.Validate(ErrDeleteJobCommandIsNotConstructed)
}

// JobID returns the job to delete.
func (c DeleteJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c *DeleteJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}
