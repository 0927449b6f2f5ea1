package domain

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a finding
type Severity string

const (
	// SeverityCritical findings block merges in error mode
	SeverityCritical Severity = "critical"

	// SeverityHigh findings block merges in error mode
	SeverityHigh Severity = "high"

	// SeverityMedium findings are reported but never block
	SeverityMedium Severity = "medium"

	// SeverityLow findings are advisory
	SeverityLow Severity = "low"
)

// AllSeverities lists the severity levels from most to least severe
var AllSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity converts a string into a Severity. Input is matched
// case-insensitively; everything internal to the engine compares the
// canonical lowercase values exactly.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical, nil
	case SeverityHigh:
		return SeverityHigh, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityLow:
		return SeverityLow, nil
	default:
		return "", NewInputError(fmt.Sprintf("unknown severity: %q", s), nil)
	}
}

// Valid reports whether the severity is one of the canonical values
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank returns the ordering rank of the severity (0 = critical)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Confidence tags how a fact or finding was derived
type Confidence string

const (
	// ConfidenceStructural means facts came from a successful structural parse
	ConfidenceStructural Confidence = "structural"

	// ConfidenceHeuristic means facts came from the line-scanning fallback
	ConfidenceHeuristic Confidence = "heuristic"
)
