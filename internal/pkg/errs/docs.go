// Package errs provides standardized error types for the fieldwork application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError / ValueIsInvalidError: validation failures
//   - ObjectNotFoundError: an object cannot be resolved by its identifier
//   - ConflictError: unique-constraint violations (e.g. duplicate job numbers)
//   - SequencingViolationError: a worker tried to act out of route order;
//     carries the blocking job's number and sequence
//   - UpstreamError: an external collaborator (geocoder, webhook) failed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is classifies against the sentinel
package errs
