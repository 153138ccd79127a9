package commands

import (
	"errors"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var ErrCompleteJobCommandIsNotConstructed = errors.New(
	"CompleteJobCommand must be created via NewCompleteJobCommand constructor",
)

// CompleteJobCommand represents a worker's submission of a finished job:
// the evidence gathered at the meter plus the identity of whoever submits it.
// Jobs complete even with empty evidence; the scorer just awards nothing.
type CompleteJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	actorID       kernel.UUID
	adminOverride bool
	evidence      job.Evidence

	guard guard.ConstructorGuard
}

// NewCompleteJobCommand creates a command to complete a job with the given
// evidence. Location fields inside the evidence must be valid points when set.
func NewCompleteJobCommand(
	jobID kernel.UUID,
	actorID kernel.UUID,
	adminOverride bool,
	evidence job.Evidence,
) (CompleteJobCommand, error) {
	completeCommand := CompleteJobCommand{
		adminOverride: adminOverride,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		completeCommand.setJobID(jobID),
		completeCommand.setActorID(actorID, adminOverride),
		completeCommand.setEvidence(evidence),
	); err != nil {
		return CompleteJobCommand{}, err
	}

	return completeCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteJobCommandIsNotConstructed if validation fails.
func (c CompleteJobCommand) Validate() error {
	return c.guard.Validate(ErrCompleteJobCommandIsNotConstructed)
}

// JobID returns the job being completed.
func (c CompleteJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// ActorID returns who is completing the job.
func (c CompleteJobCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AdminOverride reports whether sequencing and ownership guards are bypassed.
func (c CompleteJobCommand) AdminOverride() bool {
	return c.adminOverride
}

// Evidence returns the completion evidence as submitted.
func (c CompleteJobCommand) Evidence() job.Evidence {
	return c.evidence
}

func (c *CompleteJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *CompleteJobCommand) setActorID(actorID kernel.UUID, adminOverride bool) error {
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

func (c *CompleteJobCommand) setEvidence(evidence job.Evidence) error {
	if evidence.StartLocation != nil {
		if err := evidence.StartLocation.Validate(); err != nil {
			return err
		}
	}
	if evidence.EndLocation != nil {
		if err := evidence.EndLocation.Validate(); err != nil {
			return err
		}
	}

	c.evidence = evidence
	return nil
}
