package models

import "strings"

// Severity constants for canonical results.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// severityRank maps severity strings to numeric rank for comparison.
// Higher rank = more severe. Unrecognized values rank 0.
var severityRank = map[string]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// SeverityRank returns the numeric rank of a severity string,
// case-insensitively. Unrecognized or empty values rank 0.
func SeverityRank(severity string) int {
	return severityRank[strings.ToLower(strings.TrimSpace(severity))]
}

// CompareSeverity returns >0 if a is more severe than b, <0 if less, 0 if equal.
func CompareSeverity(a, b string) int {
	return SeverityRank(a) - SeverityRank(b)
}
