package services

import (
	"strings"

	"fieldwork/internal/core/domain/model/job"
)

// Point and award values produced on job completion. Register evidence pays
// the full rate; a recognized no-access reason pays half. Anything else
// scores zero but does not block completion.
const (
	PointsFullReading   = 1.0
	PointsValidNoAccess = 0.5

	AwardFullReading   = 5.00
	AwardValidNoAccess = 2.50
)

// recognizedNoAccessReasons is the closed vocabulary of no-access reasons
// that still earn half credit. Free-text reasons outside this set score zero.
var recognizedNoAccessReasons = map[string]struct{}{
	"no_access":        {},
	"locked_gate":      {},
	"dog_on_premises":  {},
	"blocked_meter":    {},
	"customer_refused": {},
	"unsafe_location":  {},
	"meter_not_found":  {},
}

// Scorer is a domain service that grades completion evidence into points,
// a monetary award and a valid-no-access flag. Register evidence always
// wins over a no-access reason when both are present.
type Scorer struct{}

// NewScorer creates a new Scorer instance.
func NewScorer() Scorer {
	return Scorer{}
}

// Score grades the given evidence.
func (s Scorer) Score(evidence job.Evidence) job.Score {
	if evidence.HasRegisterEvidence() {
		return job.Score{
			Points: PointsFullReading,
			Award:  AwardFullReading,
		}
	}

	if s.IsRecognizedNoAccess(evidence.NoAccessReason) {
		return job.Score{
			Points:        PointsValidNoAccess,
			Award:         AwardValidNoAccess,
			ValidNoAccess: true,
		}
	}

	return job.Score{}
}

// IsRecognizedNoAccess reports whether the reason belongs to the recognized
// no-access vocabulary. Matching is case-insensitive and ignores surrounding
// whitespace.
func (s Scorer) IsRecognizedNoAccess(reason string) bool {
	normalized := strings.ToLower(strings.TrimSpace(reason))
	if normalized == "" {
		return false
	}

	_, ok := recognizedNoAccessReasons[normalized]

	return ok
}
