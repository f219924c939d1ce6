package aggregator

import (
	"math"

	"github.com/aleister1102/canonicald/internal/models"
)

// defaultConfidence is the neutral prior used when no numeric confidence was
// contributed. Unknown confidence is treated as moderate, not as absent:
// defaulting to zero would bury findings that simply lack upstream scoring.
const defaultConfidence = 0.5

// AggregateSeverity reduces contributed severities to the highest-ranked one,
// comparing case-insensitively. Unrecognized values rank lowest. Returns info
// when nothing contributed outranks it.
func AggregateSeverity(severities []string) string {
	highest := models.SeverityInfo
	for _, severity := range severities {
		if models.CompareSeverity(severity, highest) > 0 {
			highest = severity
		}
	}
	return normalizeSeverity(highest)
}

func normalizeSeverity(severity string) string {
	switch models.SeverityRank(severity) {
	case 5:
		return models.SeverityCritical
	case 4:
		return models.SeverityHigh
	case 3:
		return models.SeverityMedium
	case 2:
		return models.SeverityLow
	default:
		return models.SeverityInfo
	}
}

// AggregateConfidence reduces contributed confidences to their maximum,
// ignoring NaN entries. Empty input yields the neutral prior 0.5.
func AggregateConfidence(confidences []float64) float64 {
	best := math.NaN()
	for _, confidence := range confidences {
		if math.IsNaN(confidence) {
			continue
		}
		if math.IsNaN(best) || confidence > best {
			best = confidence
		}
	}
	if math.IsNaN(best) {
		return defaultConfidence
	}
	return best
}
