package commands

import (
	"errors"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var ErrCancelJobCommandIsNotConstructed = errors.New(
	"CancelJobCommand must be created via NewCancelJobCommand constructor",
)

// CancelJobCommand represents a request to withdraw a pending job from a
// worker's day. Cancelled jobs keep their sequence slot; the ordering guards
// only consider pending and in-progress work.
type CancelJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	actorID       kernel.UUID
	adminOverride bool
	reason        string

	guard guard.ConstructorGuard
}

// NewCancelJobCommand creates a command to cancel a job.
func NewCancelJobCommand(
	jobID kernel.UUID,
	actorID kernel.UUID,
	adminOverride bool,
	reason string,
) (CancelJobCommand, error) {
	cancelCommand := CancelJobCommand{
		adminOverride: adminOverride,
		reason:        reason,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setJobID(jobID),
		cancelCommand.setActorID(actorID, adminOverride),
	); err != nil {
		return CancelJobCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelJobCommandIsNotConstructed if validation fails.
func (c CancelJobCommand) Validate() error {
	return c.guard.Validate(ErrCancelJobCommandIsNotConstructed)
}

// JobID returns the job to cancel.
func (c CancelJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// ActorID returns who is cancelling the job.
func (c CancelJobCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AdminOverride reports whether the ownership guard is bypassed.
func (c CancelJobCommand) AdminOverride() bool {
	return c.adminOverride
}

// Reason returns the free-form cancellation reason, possibly empty.
func (c CancelJobCommand) Reason() string {
	return c.reason
}

func (c *CancelJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *CancelJobCommand) setActorID(actorID kernel.UUID, adminOverride bool) error {
	// An override request may arrive without a worker identity.
	if adminOverride && actorID == (kernel.UUID{}) {
		return nil
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
