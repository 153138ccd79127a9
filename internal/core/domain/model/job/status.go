package job

import (
	"fmt"

	"fieldwork/internal/pkg/errs"
)

// Status represents the lifecycle state of a job.
// It implements a state machine with defined transitions so field work
// follows the correct workflow.
//
// State transitions:
//
//	pending ──┬──> in_progress ──> completed
//	          │         │
//	          │         └────────> completed
//	          └──> cancelled
//
// A pending job may be completed directly (a worker may submit a reading
// without an explicit start). completed and cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every job. Pending jobs are waiting
	// for the assigned worker to reach them on the daily route.
	Pending

	// InProgress indicates the worker has started the visit.
	InProgress

	// Completed indicates the visit finished and evidence was submitted.
	// This is a terminal state.
	Completed

	// Cancelled indicates the job was withdrawn before work started.
	// This is a terminal state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "pending",
		InProgress: "in_progress",
		Completed:  "completed",
		Cancelled:  "cancelled",
	}
}

// StatusFromString parses a status from its wire name.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are pending, in_progress, completed and cancelled.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "in_progress", ...).
// Safe to call on any value; invalid values yield "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Start transitions the status to InProgress.
//
// Valid transitions:
//   - Pending -> InProgress
//
// Returns (0, error) for any other source state.
func (s Status) Start() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start", s.String()),
		)
	}

	return InProgress, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Pending -> Completed (reading submitted without an explicit start)
//   - InProgress -> Completed
//
// Returns (0, error) for terminal or invalid source states.
func (s Status) Complete() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled
//
// Started or finished work cannot be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}
