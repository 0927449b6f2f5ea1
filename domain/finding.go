package domain

// SecurityFinding represents a detected security vulnerability
type SecurityFinding struct {
	// CheckName identifies the check that produced the finding
	CheckName string `json:"check_name" yaml:"check_name"`

	// Severity is the canonical severity level
	Severity Severity `json:"severity" yaml:"severity"`

	// FilePath is the changeset path the finding refers to
	FilePath string `json:"file_path" yaml:"file_path"`

	// LineNumber is 1-based; 1 for file-level findings
	LineNumber int `json:"line_number" yaml:"line_number"`

	// LineContent is the trimmed source line that matched
	LineContent string `json:"line_content,omitempty" yaml:"line_content,omitempty"`

	// Message is the human-readable description
	Message string `json:"message" yaml:"message"`

	// PatternMatched is the identifier of the pattern that fired
	PatternMatched string `json:"pattern_matched" yaml:"pattern_matched"`

	// SuggestedFix is the remediation text
	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// ArchitectureFinding represents an architecture rule violation
type ArchitectureFinding struct {
	CheckName   string   `json:"check_name" yaml:"check_name"`
	Severity    Severity `json:"severity" yaml:"severity"`
	FilePath    string   `json:"file_path" yaml:"file_path"`
	LineNumber  int      `json:"line_number" yaml:"line_number"`
	LineContent string   `json:"line_content,omitempty" yaml:"line_content,omitempty"`
	Message     string   `json:"message" yaml:"message"`

	// ViolatedRule names the rule that was broken, e.g. "controller → repository (prohibited)"
	ViolatedRule string `json:"violated_rule" yaml:"violated_rule"`

	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// PerformanceFinding represents a detected performance issue
type PerformanceFinding struct {
	CheckName   string   `json:"check_name" yaml:"check_name"`
	Severity    Severity `json:"severity" yaml:"severity"`
	FilePath    string   `json:"file_path" yaml:"file_path"`
	LineNumber  int      `json:"line_number" yaml:"line_number"`
	LineContent string   `json:"line_content,omitempty" yaml:"line_content,omitempty"`
	Message     string   `json:"message" yaml:"message"`

	// Impact describes the expected performance effect
	Impact string `json:"impact" yaml:"impact"`

	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// BreakingChangeFinding represents a backwards-incompatible change
type BreakingChangeFinding struct {
	CheckName   string   `json:"check_name" yaml:"check_name"`
	Severity    Severity `json:"severity" yaml:"severity"`
	FilePath    string   `json:"file_path" yaml:"file_path"`
	LineNumber  int      `json:"line_number" yaml:"line_number"`
	LineContent string   `json:"line_content,omitempty" yaml:"line_content,omitempty"`

	// ChangeType classifies the change (modified, deleted, deleted_file, ...)
	ChangeType string `json:"change_type" yaml:"change_type"`

	// ElementName is the affected function, class, or file
	ElementName string `json:"element_name" yaml:"element_name"`

	Message string `json:"message" yaml:"message"`

	// RequiresChangelog marks findings that must be documented
	RequiresChangelog bool `json:"requires_changelog" yaml:"requires_changelog"`

	// SuggestedChangelogEntry is a ready-to-paste changelog line
	SuggestedChangelogEntry string `json:"suggested_changelog_entry,omitempty" yaml:"suggested_changelog_entry,omitempty"`

	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}

// TestCoverageFinding represents a test coverage gap
type TestCoverageFinding struct {
	CheckName string   `json:"check_name" yaml:"check_name"`
	Severity  Severity `json:"severity" yaml:"severity"`
	FilePath  string   `json:"file_path" yaml:"file_path"`

	// FunctionName is the uncovered function, or "(all functions)" for
	// file-level findings
	FunctionName string `json:"function_name" yaml:"function_name"`

	LineNumber   int    `json:"line_number" yaml:"line_number"`
	Message      string `json:"message" yaml:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty" yaml:"suggested_fix,omitempty"`
}
