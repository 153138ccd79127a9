package kernel

import (
	"errors"
	"fmt"
	"math"

	"fieldwork/internal/pkg/errs"
	"fieldwork/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in decimal degrees.
	MinLatitude float64 = -90
	// MaxLatitude is the northernmost valid latitude in decimal degrees.
	MaxLatitude float64 = 90
	// MinLongitude is the westernmost valid longitude in decimal degrees.
	MinLongitude float64 = -180
	// MaxLongitude is the easternmost valid longitude in decimal degrees.
	MaxLongitude float64 = 180

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// milesPerKilometer converts the canonical distance unit (kilometers)
	// into the payout/reporting unit (miles).
	milesPerKilometer = 0.621371
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. Points must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object holding a geocoded position in decimal
// degrees. The zero value is invalid and fails validation; use NewGeoPoint.
//
// Distances between points are great-circle (haversine) distances in
// kilometers, which is the canonical unit across the domain. The payout unit
// (miles) is derived with KilometersToMiles.
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from decimal-degree coordinates.
// Latitude must lie in [MinLatitude..MaxLatitude] and longitude in
// [MinLongitude..MaxLongitude]; both violations are reported together.
func NewGeoPoint(lat float64, lon float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLatitude(lat), p.setLongitude(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the point was created via NewGeoPoint.
// Returns ErrGeoPointIsNotConstructed for zero values.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.lat
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.lon
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%g,%g)", p.lat, p.lon)
}

// IsEqual compares two points for exact coordinate equality.
// Both points must be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lon == other.lon, nil
}

// DistanceTo returns the great-circle distance to other in kilometers using
// the haversine formula. The formula is well-behaved at the poles and across
// the antimeridian. NaN inputs propagate; validating them is the caller's
// responsibility.
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := p.lat * math.Pi / 180
	lon1 := p.lon * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	lon2 := other.lon * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// KilometersToMiles converts a distance from the canonical unit into the
// payout/reporting unit. Pure; the ratio is a fixed constant.
func KilometersToMiles(km float64) float64 {
	return km * milesPerKilometer
}

func (p *GeoPoint) setLatitude(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}

	p.lat = lat
	return nil
}

func (p *GeoPoint) setLongitude(lon float64) error {
	if lon < MinLongitude || lon > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lon, MinLongitude, MaxLongitude)
	}

	p.lon = lon
	return nil
}
