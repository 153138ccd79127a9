package job

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job instance was not created
	// through the NewJob or RestoreJob factory methods.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

	// ErrActorNotAllowed is returned when someone other than the assigned
	// worker (or an administrative override) tries to act on a job.
	ErrActorNotAllowed = errors.New("job may only be acted on by its assigned worker or an administrator")
)

// Score is the outcome the Scoring Engine derives from completion evidence.
type Score struct {
	Points        float64
	Award         float64
	ValidNoAccess bool
}

// Job represents one field-work assignment: a meter visit at an address,
// scheduled for a worker on a date. It is the aggregate root that manages the
// job lifecycle from creation through start and completion.
//
// Job maintains these invariants:
//   - must have a valid internal id, assigned worker and scheduled date
//   - the display number, when present, is a valid fixed-width Number
//   - the sequence number, when present, is positive; uniqueness within
//     {worker, date} is enforced at the persistence boundary
//   - status transitions follow the Status state machine
//   - only the assigned worker or an administrative actor may mutate it
//
// The per-worker per-day ordering guard ("no skipping ahead") needs sibling
// state and therefore lives in the command handlers, which consult the
// repository's blocking-job query inside the same transaction.
type Job struct {
	id       kernel.UUID
	number   *Number
	jobType  Type
	priority Priority

	address     Address
	coordinates *kernel.GeoPoint

	assignedWorkerID kernel.UUID
	scheduledDate    time.Time
	sequenceNumber   *int

	status Status
	notes  string

	evidence         *Evidence
	startLocation    *kernel.GeoPoint
	endLocation      *kernel.GeoPoint
	distanceTraveled *float64
	points           float64
	award            float64
	validNoAccess    bool
	completedDate    *time.Time

	isConstructed bool
}

// NewJob creates a pending Job with validation. This and RestoreJob are the
// only ways to obtain a valid Job.
//
// The scheduled date is normalized to midnight UTC: only the day matters for
// sequencing. Coordinates and display number are optional at creation; the
// sequence number, when supplied, must be positive.
func NewJob(
	id kernel.UUID,
	number *Number,
	jobType Type,
	priority Priority,
	address Address,
	coordinates *kernel.GeoPoint,
	assignedWorkerID kernel.UUID,
	scheduledDate time.Time,
	sequenceNumber *int,
	notes string,
) (*Job, error) {
	j := &Job{
		status:        Pending,
		notes:         notes,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setNumber(number),
		j.setJobType(jobType),
		j.setPriority(priority),
		j.setAddress(address),
		j.setCoordinates(coordinates),
		j.setAssignedWorker(assignedWorkerID),
		j.setScheduledDate(scheduledDate),
		j.setSequenceNumber(sequenceNumber),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob reconstructs a Job from persistent storage, including its
// status and completion outcome. The restored job behaves identically to one
// mutated through normal domain operations.
func RestoreJob(
	id kernel.UUID,
	number *Number,
	jobType Type,
	priority Priority,
	address Address,
	coordinates *kernel.GeoPoint,
	assignedWorkerID kernel.UUID,
	scheduledDate time.Time,
	sequenceNumber *int,
	status Status,
	notes string,
	evidence *Evidence,
	startLocation *kernel.GeoPoint,
	endLocation *kernel.GeoPoint,
	distanceTraveled *float64,
	score Score,
	completedDate *time.Time,
) (*Job, error) {
	j := &Job{
		notes:            notes,
		evidence:         evidence,
		startLocation:    startLocation,
		endLocation:      endLocation,
		distanceTraveled: distanceTraveled,
		points:           score.Points,
		award:            score.Award,
		validNoAccess:    score.ValidNoAccess,
		completedDate:    completedDate,
		isConstructed:    true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setNumber(number),
		j.setJobType(jobType),
		j.setPriority(priority),
		j.setAddress(address),
		j.setCoordinates(coordinates),
		j.setAssignedWorker(assignedWorkerID),
		j.setScheduledDate(scheduledDate),
		j.setSequenceNumber(sequenceNumber),
		j.setStatus(status),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// Validate ensures the Job was created through a factory method.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}

	return nil
}

// IsEqual compares two jobs by internal id.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the internal identity of the job.
func (j *Job) ID() kernel.UUID { return j.id }

// Number returns the external display number, or nil when none was assigned.
func (j *Job) Number() *Number { return j.number }

// JobType returns the utility classification.
func (j *Job) JobType() Type { return j.jobType }

// Priority returns the visiting urgency.
func (j *Job) Priority() Priority { return j.priority }

// Address returns the postal location.
func (j *Job) Address() Address { return j.address }

// Coordinates returns the geocoded position, or nil when geocoding failed
// or was never attempted.
func (j *Job) Coordinates() *kernel.GeoPoint { return j.coordinates }

// AssignedWorker returns the id of the worker the job is assigned to.
func (j *Job) AssignedWorker() kernel.UUID { return j.assignedWorkerID }

// ScheduledDate returns the visit date, normalized to midnight UTC.
func (j *Job) ScheduledDate() time.Time { return j.scheduledDate }

// SequenceNumber returns the worker's per-day visiting order, or nil when
// the job has not been route-ordered.
func (j *Job) SequenceNumber() *int { return j.sequenceNumber }

// Status returns the current lifecycle state.
func (j *Job) Status() Status { return j.status }

// Notes returns free-form dispatcher notes.
func (j *Job) Notes() string { return j.notes }

// Evidence returns the completion submission, or nil before completion.
func (j *Job) Evidence() *Evidence { return j.evidence }

// StartLocation returns where the worker started the visit, if recorded.
func (j *Job) StartLocation() *kernel.GeoPoint { return j.startLocation }

// EndLocation returns where the worker finished the visit, if recorded.
func (j *Job) EndLocation() *kernel.GeoPoint { return j.endLocation }

// DistanceTraveled returns the distance in kilometers attributed to this
// job, submitted or derived. Nil before completion or when underivable.
func (j *Job) DistanceTraveled() *float64 { return j.distanceTraveled }

// Points returns the points scored at completion.
func (j *Job) Points() float64 { return j.points }

// Award returns the monetary award granted at completion.
func (j *Job) Award() float64 { return j.award }

// ValidNoAccess reports whether the completion was a recognized no-access.
func (j *Job) ValidNoAccess() bool { return j.validNoAccess }

// CompletedDate returns when the job completed, or nil.
func (j *Job) CompletedDate() *time.Time { return j.completedDate }

// AssignNumber attaches the display number allocated for this job.
func (j *Job) AssignNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}

	j.number = &number
	return nil
}

// AssignSequence sets the worker's per-day visiting position.
// Uniqueness within {worker, date} is the persistence layer's concern.
func (j *Job) AssignSequence(sequence int) error {
	return j.setSequenceNumber(&sequence)
}

// AssignCoordinates attaches a geocoded position to the job.
func (j *Job) AssignCoordinates(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	j.coordinates = &point
	return nil
}

// Start transitions the job to InProgress on behalf of the actor.
//
// Guards, in order: the actor must be the assigned worker or an
// administrative override; the transition must be legal. The route-ordering
// guard against earlier pending jobs is enforced by the start command
// handler against current persisted state.
func (j *Job) Start(actorID kernel.UUID, adminOverride bool, startLocation *kernel.GeoPoint) error {
	if err := j.Authorize(actorID, adminOverride); err != nil {
		return err
	}

	newStatus, err := j.status.Start()
	if err != nil {
		return err
	}

	if startLocation != nil {
		if err = startLocation.Validate(); err != nil {
			return err
		}
		j.startLocation = startLocation
	}

	j.status = newStatus
	return nil
}

// Complete transitions the job to Completed, records the evidence and the
// derived score, stamps the completion time, and resolves the distance
// traveled: an explicitly submitted distance wins; otherwise it is derived
// from the start and end locations when both are known.
func (j *Job) Complete(
	actorID kernel.UUID,
	adminOverride bool,
	evidence Evidence,
	score Score,
	completedAt time.Time,
) error {
	if err := j.Authorize(actorID, adminOverride); err != nil {
		return err
	}

	newStatus, err := j.status.Complete()
	if err != nil {
		return err
	}

	if evidence.StartLocation != nil {
		j.startLocation = evidence.StartLocation
	}
	if evidence.EndLocation != nil {
		j.endLocation = evidence.EndLocation
	}

	distance, err := j.resolveDistance(evidence)
	if err != nil {
		return err
	}

	j.status = newStatus
	j.evidence = &evidence
	j.distanceTraveled = distance
	j.points = score.Points
	j.award = score.Award
	j.validNoAccess = score.ValidNoAccess
	completed := completedAt.UTC()
	j.completedDate = &completed
	return nil
}

// Cancel withdraws a pending job.
func (j *Job) Cancel(actorID kernel.UUID, adminOverride bool) error {
	if err := j.Authorize(actorID, adminOverride); err != nil {
		return err
	}

	newStatus, err := j.status.Cancel()
	if err != nil {
		return err
	}

	j.status = newStatus
	return nil
}

func (j *Job) resolveDistance(evidence Evidence) (*float64, error) {
	if evidence.DistanceTraveled != nil {
		if *evidence.DistanceTraveled < 0 {
			return nil, errs.NewValueIsInvalidError("distance traveled")
		}
		d := *evidence.DistanceTraveled
		return &d, nil
	}

	if j.startLocation == nil || j.endLocation == nil {
		return nil, nil
	}

	d, err := j.startLocation.DistanceTo(*j.endLocation)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// Authorize checks that the actor may act on this job: it must be the
// assigned worker, unless the administrative override is set.
func (j *Job) Authorize(actorID kernel.UUID, adminOverride bool) error {
	if adminOverride {
		return nil
	}
	if err := actorID.Validate(); err != nil {
		return err
	}
	if !actorID.IsEqual(j.assignedWorkerID) {
		return ErrActorNotAllowed
	}
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setNumber(number *Number) error {
	if number == nil {
		return nil
	}
	if err := number.Validate(); err != nil {
		return err
	}
	j.number = number
	return nil
}

func (j *Job) setJobType(jobType Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}
	j.jobType = jobType
	return nil
}

func (j *Job) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	j.priority = priority
	return nil
}

func (j *Job) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	j.address = address
	return nil
}

func (j *Job) setCoordinates(coordinates *kernel.GeoPoint) error {
	if coordinates == nil {
		return nil
	}
	if err := coordinates.Validate(); err != nil {
		return err
	}
	j.coordinates = coordinates
	return nil
}

func (j *Job) setAssignedWorker(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assigned worker", err)
	}
	j.assignedWorkerID = workerID
	return nil
}

func (j *Job) setScheduledDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}
	utc := date.UTC()
	j.scheduledDate = time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (j *Job) setSequenceNumber(sequence *int) error {
	if sequence == nil {
		return nil
	}
	if *sequence < 1 {
		return errs.NewValueIsInvalidError("sequence number")
	}
	value := *sequence
	j.sequenceNumber = &value
	return nil
}

func (j *Job) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	j.status = status
	return nil
}
