package job

import (
	"strings"

	"fieldwork/internal/core/domain/model/kernel"
)

// Evidence carries everything a worker submits when completing a job:
// register readings, photos, a no-access reason, and the movement trace the
// mileage derivation uses. All fields are optional; the Scorer decides what
// the submission is worth.
type Evidence struct {
	// RegisterValues are the readings taken from the meter's registers,
	// in register order.
	RegisterValues []string

	// RegisterIDs are the register identifiers matching RegisterValues.
	RegisterIDs []string

	// Legacy per-utility readings kept for older hand-held devices.
	ElectricReading string
	GasReading      string
	WaterReading    string

	// Photos are blob-store references to the uploaded photos.
	Photos []string

	// NoAccessReason, when set, explains why no reading could be taken.
	// Only reasons from the recognized vocabulary score.
	NoAccessReason string

	// CustomerRead marks a reading supplied by the customer rather than
	// observed at the meter.
	CustomerRead bool

	StartLocation   *kernel.GeoPoint
	EndLocation     *kernel.GeoPoint
	LocationHistory []kernel.GeoPoint

	// DistanceTraveled is the submitted distance in kilometers. When nil it
	// is derived from StartLocation and EndLocation at completion.
	DistanceTraveled *float64
}

// HasRegisterEvidence reports whether the submission carries primary register
// evidence: a filled first register value, a first register id, or any legacy
// per-utility reading. A value of "0" (in any formatting) does not count as
// filled because some devices record empty registers as zero.
func (e Evidence) HasRegisterEvidence() bool {
	if len(e.RegisterValues) > 0 && isFilledReading(e.RegisterValues[0]) {
		return true
	}
	if len(e.RegisterIDs) > 0 && strings.TrimSpace(e.RegisterIDs[0]) != "" {
		return true
	}
	return strings.TrimSpace(e.ElectricReading) != "" ||
		strings.TrimSpace(e.GasReading) != "" ||
		strings.TrimSpace(e.WaterReading) != ""
}

// isFilledReading reports whether a register value is non-empty and not a
// pure zero ("0", "000", "0.00").
func isFilledReading(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, r := range v {
		switch r {
		case '0', '.', ',':
			continue
		default:
			return true
		}
	}
	return false
}
