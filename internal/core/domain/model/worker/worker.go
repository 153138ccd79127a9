// Package worker contains the Worker aggregate: the field personnel jobs are
// assigned to. The core consults workers (department gate) and updates their
// derived completion counters; identity and credentials live elsewhere.
package worker

import (
	"errors"
	"math"
	"strings"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

// FieldDepartment is the only department whose workers may be assigned jobs.
const FieldDepartment = "field"

var (
	// ErrWorkerIsNotConstructed is returned when using an improperly
	// initialized Worker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker constructor")

	// ErrWorkerNotAssignable is returned when assigning work to a worker
	// outside the field department.
	ErrWorkerNotAssignable = errors.New("only field department workers can be assigned jobs")
)

// Worker represents one field worker with their derived performance counters.
//
// Completion counters are side effects of job completion: jobsCompleted is a
// lifetime count, completionRate a rolling percentage of jobs completed over
// jobs scheduled in the trailing seven days.
type Worker struct {
	id             kernel.UUID
	name           string
	department     string
	jobsCompleted  int
	completionRate int

	guard guard.ConstructorGuard
}

// NewWorker creates a Worker with zeroed counters.
func NewWorker(id kernel.UUID, name string, department string) (*Worker, error) {
	w := &Worker{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
		w.setDepartment(department),
	); err != nil {
		return nil, err
	}

	return w, nil
}

// RestoreWorker reconstructs a Worker from persistent storage.
func RestoreWorker(
	id kernel.UUID,
	name string,
	department string,
	jobsCompleted int,
	completionRate int,
) (*Worker, error) {
	w, err := NewWorker(id, name, department)
	if err != nil {
		return nil, err
	}

	if jobsCompleted < 0 {
		return nil, errs.NewValueIsInvalidError("jobs completed")
	}
	if completionRate < 0 || completionRate > 100 {
		return nil, errs.NewValueIsOutOfRangeError("completion rate", completionRate, 0, 100)
	}

	w.jobsCompleted = jobsCompleted
	w.completionRate = completionRate
	return w, nil
}

// Validate checks the Worker was produced by a constructor.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

// IsEqual compares two workers by id.
func (w *Worker) IsEqual(other *Worker) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// ID returns the worker's identity.
func (w *Worker) ID() kernel.UUID { return w.id }

// Name returns the worker's display name.
func (w *Worker) Name() string { return w.name }

// Department returns the worker's department.
func (w *Worker) Department() string { return w.department }

// JobsCompleted returns the lifetime completed-job count.
func (w *Worker) JobsCompleted() int { return w.jobsCompleted }

// CompletionRate returns the rolling 7-day completion percentage.
func (w *Worker) CompletionRate() int { return w.completionRate }

// CanBeAssigned reports whether jobs may be assigned to this worker.
func (w *Worker) CanBeAssigned() bool {
	return w.department == FieldDepartment
}

// RecordCompletion updates the counters after one of the worker's jobs
// completes. completedLast7Days and scheduledLast7Days are the trailing
// window counts read from the store; the rate is rounded to the nearest
// whole percent and clamped to 0..100.
func (w *Worker) RecordCompletion(completedLast7Days int, scheduledLast7Days int) {
	w.jobsCompleted++

	if scheduledLast7Days <= 0 {
		w.completionRate = 0
		return
	}

	rate := int(math.Round(float64(completedLast7Days) / float64(scheduledLast7Days) * 100))
	if rate > 100 {
		rate = 100
	}
	if rate < 0 {
		rate = 0
	}
	w.completionRate = rate
}

func (w *Worker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Worker) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	w.name = name
	return nil
}

func (w *Worker) setDepartment(department string) error {
	department = strings.ToLower(strings.TrimSpace(department))
	if department == "" {
		return errs.NewValueIsRequiredError("department")
	}
	w.department = department
	return nil
}
