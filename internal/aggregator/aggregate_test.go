package aggregator

import (
	"math"
	"testing"

	"github.com/aleister1102/canonicald/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAggregateSeverity(t *testing.T) {
	tests := []struct {
		name       string
		severities []string
		expected   string
	}{
		{"empty defaults to info", nil, models.SeverityInfo},
		{"single value", []string{"high"}, models.SeverityHigh},
		{"highest wins", []string{"low", "critical", "medium"}, models.SeverityCritical},
		{"case insensitive", []string{"HIGH", "Low"}, models.SeverityHigh},
		{"unrecognized ranks lowest", []string{"bogus", "medium"}, models.SeverityMedium},
		{"only unrecognized defaults to info", []string{"bogus", "whatever"}, models.SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AggregateSeverity(tt.severities))
		})
	}
}

func TestAggregateSeverity_NormalizesCasing(t *testing.T) {
	assert.Equal(t, models.SeverityCritical, AggregateSeverity([]string{"CRITICAL"}))
}

func TestAggregateConfidence(t *testing.T) {
	assert.Equal(t, 0.5, AggregateConfidence(nil))
	assert.Equal(t, 0.9, AggregateConfidence([]float64{0.2, 0.9, 0.4}))
	assert.Equal(t, 0.0, AggregateConfidence([]float64{0}))
}

func TestAggregateConfidence_IgnoresNaN(t *testing.T) {
	assert.Equal(t, 0.7, AggregateConfidence([]float64{math.NaN(), 0.7}))
	assert.Equal(t, 0.5, AggregateConfidence([]float64{math.NaN()}))
}
