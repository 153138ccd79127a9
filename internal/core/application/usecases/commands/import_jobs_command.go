package commands

import (
	"errors"
	"time"

	"fieldwork/internal/core/domain/model/kernel"
	"fieldwork/internal/pkg/guard"
)

var (
	ErrImportJobsCommandIsNotConstructed = errors.New(
		"ImportJobsCommand must be created via NewImportJobsCommand constructor",
	)
	ErrImportRowsAreRequired = errors.New("at least one import row is required")
)

// ImportRow is one raw address row from an uploaded route sheet. Rows arrive
// untrusted: required fields may be blank and classifications may be
// misspelled. The import handler skips bad rows instead of failing the batch.
type ImportRow struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string

	JobType  string
	Priority string
	Notes    string

	// Pre-resolved coordinates, when the sheet carries them. Both must be
	// present to count; otherwise the geocoder is consulted.
	Latitude  *float64
	Longitude *float64
}

// ImportReport summarizes the outcome of a route sheet import.
type ImportReport struct {
	Created       int `json:"created"`
	Skipped       int `json:"skipped"`
	Geocoded      int `json:"geocoded"`
	GeocodeFailed int `json:"geocode_failed"`
}

// ImportJobsCommand represents a request to load a full day of jobs for one
// worker from a route sheet. The handler geocodes, orders the route, assigns
// a consecutive block of job numbers and persists everything in one
// transaction.
type ImportJobsCommand struct { //nolint:recvcheck //using for validation
	workerID      kernel.UUID
	scheduledDate time.Time
	rows          []ImportRow

	guard guard.ConstructorGuard
}

// NewImportJobsCommand creates a command to import a batch of jobs.
func NewImportJobsCommand(
	workerID kernel.UUID,
	scheduledDate time.Time,
	rows []ImportRow,
) (ImportJobsCommand, error) {
	importCommand := ImportJobsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		importCommand.setWorkerID(workerID),
		importCommand.setScheduledDate(scheduledDate),
		importCommand.setRows(rows),
	); err != nil {
		return ImportJobsCommand{}, err
	}

	return importCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrImportJobsCommandIsNotConstructed if validation fails.
func (c ImportJobsCommand) Validate() error {
	return c.guard.Validate(ErrImportJobsCommandIsNotConstructed)
}

// WorkerID returns the worker receiving the imported route.
func (c ImportJobsCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// ScheduledDate returns the day the route is planned for.
func (c ImportJobsCommand) ScheduledDate() time.Time {
	return c.scheduledDate
}

// Rows returns the raw route sheet rows.
func (c ImportJobsCommand) Rows() []ImportRow {
	return c.rows
}

func (c *ImportJobsCommand) setWorkerID(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}

	c.workerID = workerID
	return nil
}

func (c *ImportJobsCommand) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return ErrScheduledDateIsRequired
	}

	c.scheduledDate = scheduledDate
	return nil
}

func (c *ImportJobsCommand) setRows(rows []ImportRow) error {
	if len(rows) == 0 {
		return ErrImportRowsAreRequired
	}

	c.rows = rows
	return nil
}
