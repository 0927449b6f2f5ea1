package domain

import "strings"

// GateMode is the gating policy applied to a validation run
type GateMode string

const (
	// ModeWarning reports findings but always passes
	ModeWarning GateMode = "warning"

	// ModeError blocks on critical or high severity findings
	ModeError GateMode = "error"
)

// ParseGateMode converts a string into a GateMode
func ParseGateMode(s string) (GateMode, error) {
	switch GateMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWarning:
		return ModeWarning, nil
	case ModeError:
		return ModeError, nil
	default:
		return "", NewInputError("mode must be \"warning\" or \"error\"", nil)
	}
}

// SeverityCounts is the severity histogram across all finding lists
type SeverityCounts struct {
	Critical int `json:"critical" yaml:"critical"`
	High     int `json:"high" yaml:"high"`
	Medium   int `json:"medium" yaml:"medium"`
	Low      int `json:"low" yaml:"low"`
}

// Total returns the sum of all severity buckets
func (s SeverityCounts) Total() int {
	return s.Critical + s.High + s.Medium + s.Low
}

// Add increments the bucket for the given severity
func (s *SeverityCounts) Add(sev Severity) {
	switch sev {
	case SeverityCritical:
		s.Critical++
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	case SeverityLow:
		s.Low++
	}
}

// QualityCheckResult is the aggregate result of one validation run.
// TotalIssues always equals the sum of the five finding list lengths and
// SeverityCounts always equals the per-severity counts across them.
type QualityCheckResult struct {
	Passed         bool           `json:"passed" yaml:"passed"`
	TotalIssues    int            `json:"total_issues" yaml:"total_issues"`
	SeverityCounts SeverityCounts `json:"severity_counts" yaml:"severity_counts"`
	Mode           GateMode       `json:"mode" yaml:"mode"`

	OverrideUsed          bool   `json:"override_used" yaml:"override_used"`
	OverrideApprovedBy    string `json:"override_approved_by,omitempty" yaml:"override_approved_by,omitempty"`
	OverrideJustification string `json:"override_justification,omitempty" yaml:"override_justification,omitempty"`

	Security        []SecurityFinding       `json:"security" yaml:"security"`
	Architecture    []ArchitectureFinding   `json:"architecture" yaml:"architecture"`
	TestCoverage    []TestCoverageFinding   `json:"test_coverage" yaml:"test_coverage"`
	Performance     []PerformanceFinding    `json:"performance" yaml:"performance"`
	BreakingChanges []BreakingChangeFinding `json:"breaking_changes" yaml:"breaking_changes"`
}

// FindingCount returns the sum of all finding list lengths
func (r *QualityCheckResult) FindingCount() int {
	return len(r.Security) + len(r.Architecture) + len(r.TestCoverage) +
		len(r.Performance) + len(r.BreakingChanges)
}

// Blocking reports whether the histogram contains merge-blocking findings
func (r *QualityCheckResult) Blocking() bool {
	return r.SeverityCounts.Critical > 0 || r.SeverityCounts.High > 0
}
