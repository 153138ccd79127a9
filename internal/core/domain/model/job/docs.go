// Package job contains the Job aggregate and its value objects: the Status
// state machine, the fixed-width display Number, the postal Address, and the
// completion Evidence. A job is one field-work assignment (a meter visit)
// scheduled for a worker on a date, visited in sequence order.
package job
