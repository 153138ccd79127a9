package commands

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var (
	ErrCreateJobCommandIsNotConstructed = errors.New(
		"CreateJobCommand must be created via NewCreateJobCommand constructor",
	)
	ErrScheduledDateIsRequired = errors.New("scheduled date is required")
	ErrSequenceIsInvalid       = errors.New("sequence number must be greater than 0")
)

// CreateJobCommand represents a request to register a single meter-reading
// job for a worker's day. Coordinates are optional; when absent the handler
// asks the geocoder and degrades gracefully on a miss.
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID         kernel.UUID
	jobType       job.Type
	priority      job.Priority
	address       job.Address
	coordinates   *kernel.GeoPoint
	workerID      kernel.UUID
	scheduledDate time.Time
	sequence      *int
	notes         string

	guard guard.ConstructorGuard
}

// NewCreateJobCommand creates a command to register a new job.
// Type and priority arrive as strings from the transport layer; an empty
// priority defaults to medium. Returns an error if any validation fails.
func NewCreateJobCommand(
	jobID kernel.UUID,
	jobType string,
	priority string,
	address job.Address,
	coordinates *kernel.GeoPoint,
	workerID kernel.UUID,
	scheduledDate time.Time,
	sequence *int,
	notes string,
) (CreateJobCommand, error) {
	jobCommand := CreateJobCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		jobCommand.setJobID(jobID),
		jobCommand.setJobType(jobType),
		jobCommand.setPriority(priority),
		jobCommand.setAddress(address),
		jobCommand.setCoordinates(coordinates),
		jobCommand.setWorkerID(workerID),
		jobCommand.setScheduledDate(scheduledDate),
		jobCommand.setSequence(sequence),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return jobCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateJobCommandIsNotConstructed if validation fails.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

// JobID returns the unique identifier for the job.
func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// JobType returns the utility type of the meter to read.
func (c CreateJobCommand) JobType() job.Type {
	return c.jobType
}

// Priority returns the job's scheduling priority.
func (c CreateJobCommand) Priority() job.Priority {
	return c.priority
}

// Address returns the postal address of the meter.
func (c CreateJobCommand) Address() job.Address {
	return c.address
}

// Coordinates returns the caller-supplied location, or nil when the handler
// must geocode.
func (c CreateJobCommand) Coordinates() *kernel.GeoPoint {
	return c.coordinates
}

// WorkerID returns the worker the job is assigned to.
func (c CreateJobCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// ScheduledDate returns the day the job is to be worked.
func (c CreateJobCommand) ScheduledDate() time.Time {
	return c.scheduledDate
}

// Sequence returns the explicit route position, or nil when the job joins
// the day without one.
func (c CreateJobCommand) Sequence() *int {
	return c.sequence
}

// Notes returns free-form instructions for the worker.
func (c CreateJobCommand) Notes() string {
	return c.notes
}

func (c *CreateJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *CreateJobCommand) setJobType(jobType string) error {
	parsed, err := job.TypeFromString(jobType)
	if err != nil {
		return err
	}

	c.jobType = parsed
	return nil
}

func (c *CreateJobCommand) setPriority(priority string) error {
	parsed, err := job.PriorityFromString(priority)
	if err != nil {
		return err
	}

	c.priority = parsed
	return nil
}

func (c *CreateJobCommand) setAddress(address job.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateJobCommand) setCoordinates(coordinates *kernel.GeoPoint) error {
	if coordinates == nil {
		return nil
	}
	if err := coordinates.Validate(); err != nil {
		return err
	}

	c.coordinates = coordinates
	return nil
}

func (c *CreateJobCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}

func (c *CreateJobCommand) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return ErrScheduledDateIsRequired
	}

	c.scheduledDate = scheduledDate
	return nil
}

func (c *CreateJobCommand) setSequence(sequence *int) error {
	if sequence == nil {
		return nil
	}
	if *sequence < 1 {
		return ErrSequenceIsInvalid
	}

	c.sequence = sequence
	return nil
}
