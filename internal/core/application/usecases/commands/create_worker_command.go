package commands

import (
	"errors"
	"strings"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var (
	ErrCreateWorkerCommandIsNotConstructed = errors.New(
		"CreateWorkerCommand must be created via NewCreateWorkerCommand constructor",
	)
	ErrWorkerNameIsRequired = errors.New("worker name is required")
)

// CreateWorkerCommand represents a request to register a worker on the
// roster. Only workers in the field department can receive jobs; other
// departments are kept for reporting.
type CreateWorkerCommand struct { //nolint:recvcheck //using for validation
	workerID   kernel.UUID
	name       string
	department string

	guard guard.ConstructorGuard
}

// NewCreateWorkerCommand creates a command to register a new worker.
func NewCreateWorkerCommand(workerID kernel.UUID, name string, department string) (CreateWorkerCommand, error) {
	workerCommand := CreateWorkerCommand{
		department: department,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		workerCommand.setWorkerID(workerID),
		workerCommand.setName(name),
	); err != nil {
		return CreateWorkerCommand{}, err
	}

	return workerCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateWorkerCommandIsNotConstructed if validation fails.
func (c CreateWorkerCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkerCommandIsNotConstructed)
}

// WorkerID returns the unique identifier for the worker.
func (c CreateWorkerCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Name returns the worker's display name.
func (c CreateWorkerCommand) Name() string {
	return c.name
}

// Department returns the worker's department.
func (c CreateWorkerCommand) Department() string {
	return c.department
}

func (c *CreateWorkerCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}

func (c *CreateWorkerCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrWorkerNameIsRequired
	}

	c.name = name
	return nil
}
