package commands

import (
	"errors"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var ErrStartJobCommandIsNotConstructed = errors.New(
	"StartJobCommand must be created via NewStartJobCommand constructor",
)

// StartJobCommand represents a worker's request to begin working a job.
// The actor must be the assigned worker unless the administrative override
// is set; the override also bypasses the route-order guard.
type StartJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	actorID       kernel.UUID
	adminOverride bool
	startLocation *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewStartJobCommand creates a command to start a job. The start location is
// optional; when present it seeds the mileage derivation at completion.
func NewStartJobCommand(
	jobID kernel.UUID,
	actorID kernel.UUID,
	adminOverride bool,
	startLocation *kernel.GeoPoint,
) (StartJobCommand, error) {
	startCommand := StartJobCommand{
		adminOverride: adminOverride,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		startCommand.setJobID(jobID),
		startCommand.setActorID(actorID, adminOverride),
		startCommand.setStartLocation(startLocation),
	); err != nil {
		return StartJobCommand{}, err
	}

	return startCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartJobCommandIsNotConstructed if validation fails.
func (c StartJobCommand) Validate() error {
	return c.guard.Validate(ErrStartJobCommandIsNotConstructed)
}

// JobID returns the job to start.
func (c StartJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// ActorID returns who is starting the job.
func (c StartJobCommand) ActorID() kernel.UUID {
	return c.actorID
}

// AdminOverride reports whether sequencing and ownership guards are bypassed.
func (c StartJobCommand) AdminOverride() bool {
	return c.adminOverride
}

// StartLocation returns where the worker was when starting, or nil.
func (c StartJobCommand) StartLocation() *kernel.GeoPoint {
	return c.startLocation
}

func (c *StartJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *StartJobCommand) setActorID(actorID kernel.UUID, adminOverride bool) error {
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

func (c *StartJobCommand) setStartLocation(startLocation *kernel.GeoPoint) error {
	if startLocation == nil {
		return nil
	}
	if err := startLocation.Validate(); err != nil {
		return err
	}

	c.startLocation = startLocation
	return nil
}
