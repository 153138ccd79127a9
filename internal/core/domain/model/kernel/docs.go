// Package kernel provides core domain primitives used throughout the
// fieldwork domain model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - GeoPoint: a geocoded position with great-circle distance and the
//     canonical-to-payout unit conversion
//
// These primitives enforce domain invariants through constructor validation
// and are immutable and safe for concurrent use.
package kernel
