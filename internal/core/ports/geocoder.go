package ports

import (
	"context"

	"fieldwork/internal/core/domain/model/job"
	"fieldwork/internal/core/domain/model/kernel"
)

// GeocodedLocation is a geocoder hit: the resolved point plus the provider's
// accuracy label (for example "rooftop" or "street").
type GeocodedLocation struct {
	Point    kernel.GeoPoint
	Accuracy string
}

// Geocoder resolves a postal address to coordinates through an external
// provider. Geocode returns nil (with a nil error) when the provider has no
// match; a non-nil error means the provider could not be reached or answered
// with a failure. Callers degrade gracefully on both outcomes.
type Geocoder interface {
	Geocode(ctx context.Context, address job.Address) (*GeocodedLocation, error)
}
