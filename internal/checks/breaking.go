package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
	"github.com/mergegate/mergegate/internal/extractor"
)

// isAPIFile reports whether the path belongs to the public API surface
func isAPIFile(filePath string) bool {
	for _, seg := range strings.Split(filePath, "/") {
		if seg == "api" || seg == "controllers" || seg == "routes" {
			return true
		}
	}
	return false
}

// APISignatureChangeCheck compares public function signatures between
// the old and new version of API surface files
type APISignatureChangeCheck struct {
	extractor *extractor.Extractor
}

// Check diffs one file's public functions. Adding parameters with
// defaults is not breaking, so comparison omits defaulted parameters.
func (c APISignatureChangeCheck) Check(filePath, oldContent, newContent string) []domain.BreakingChangeFinding {
	if !isAPIFile(filePath) {
		return nil
	}

	oldFacts := c.extractor.Extract(filePath, []byte(oldContent))
	newFacts := c.extractor.Extract(filePath, []byte(newContent))

	var findings []domain.BreakingChangeFinding
	for i := range oldFacts.Functions {
		oldFn := &oldFacts.Functions[i]
		if !oldFn.Public() {
			continue
		}

		newFn := newFacts.FunctionByName(oldFn.Name)
		if newFn == nil {
			findings = append(findings, domain.BreakingChangeFinding{
				CheckName:               constants.CheckAPISignatureChanges,
				Severity:                domain.SeverityCritical,
				FilePath:                filePath,
				LineNumber:              1,
				Message:                 fmt.Sprintf("Public API function '%s' was removed", oldFn.Name),
				ChangeType:              "removed",
				ElementName:             oldFn.Name,
				RequiresChangelog:       true,
				SuggestedChangelogEntry: fmt.Sprintf("### Removed\n- `%s` endpoint removed", oldFn.Name),
				SuggestedFix:            "Deprecate the endpoint first and remove it in the next major version",
			})
			continue
		}

		if oldFn.RequiredSignature() == newFn.RequiredSignature() {
			continue
		}
		findings = append(findings, domain.BreakingChangeFinding{
			CheckName:  constants.CheckAPISignatureChanges,
			Severity:   domain.SeverityHigh,
			FilePath:   filePath,
			LineNumber: newFn.Line,
			Message:    fmt.Sprintf("Public API signature changed: '%s' was '%s', now '%s'",
				oldFn.Name, oldFn.Signature(), newFn.Signature()),
			ChangeType:              "signature_changed",
			ElementName:             oldFn.Name,
			RequiresChangelog:       true,
			SuggestedChangelogEntry: fmt.Sprintf("### Changed\n- `%s` signature changed from `%s` to `%s`",
				oldFn.Name, oldFn.Signature(), newFn.Signature()),
			SuggestedFix: "Keep the old signature accepting optional parameters, or version the endpoint",
		})
	}

	return findings
}

// RemovedPublicMethodsCheck detects public functions and classes that
// existed in the old version but are gone from the new one
type RemovedPublicMethodsCheck struct {
	extractor *extractor.Extractor
}

// Check diffs one modified file
func (c RemovedPublicMethodsCheck) Check(filePath, oldContent, newContent string) []domain.BreakingChangeFinding {
	oldFacts := c.extractor.Extract(filePath, []byte(oldContent))
	newFacts := c.extractor.Extract(filePath, []byte(newContent))
	return c.diff(filePath, oldFacts, newFacts)
}

// CheckDeleted reports one file-level finding when a deleted file still
// had public surface. Per-element findings are reserved for partial
// removals; deleting the whole file is one breaking change.
func (c RemovedPublicMethodsCheck) CheckDeleted(filePath, oldContent string) []domain.BreakingChangeFinding {
	oldFacts := c.extractor.Extract(filePath, []byte(oldContent))

	classes := 0
	for _, cls := range oldFacts.Classes {
		if cls.Public() {
			classes++
		}
	}
	functions := 0
	for i := range oldFacts.Functions {
		if oldFacts.Functions[i].Public() {
			functions++
		}
	}
	if classes == 0 && functions == 0 {
		return nil
	}

	return []domain.BreakingChangeFinding{{
		CheckName:               constants.CheckRemovedPublicAPI,
		Severity:                domain.SeverityCritical,
		FilePath:                filePath,
		LineNumber:              1,
		Message:                 fmt.Sprintf("File with %d public classes and %d public functions was deleted", classes, functions),
		ChangeType:              "deleted_file",
		ElementName:             filePath,
		RequiresChangelog:       true,
		SuggestedChangelogEntry: fmt.Sprintf("### Removed\n- `%s` and its public API", filePath),
		SuggestedFix:            "Restore the file or provide a migration path for its public API",
	}}
}

func (c RemovedPublicMethodsCheck) diff(filePath string, oldFacts, newFacts *extractor.FileFacts) []domain.BreakingChangeFinding {
	var findings []domain.BreakingChangeFinding

	newClasses := make(map[string]bool, len(newFacts.Classes))
	for _, cls := range newFacts.Classes {
		newClasses[cls.Name] = true
	}

	for i := range oldFacts.Functions {
		fn := &oldFacts.Functions[i]
		if !fn.Public() || newFacts.FunctionByName(fn.Name) != nil {
			continue
		}
		findings = append(findings, domain.BreakingChangeFinding{
			CheckName:               constants.CheckRemovedPublicAPI,
			Severity:                domain.SeverityCritical,
			FilePath:                filePath,
			LineNumber:              1,
			Message:                 fmt.Sprintf("Public function '%s' was removed", fn.Name),
			ChangeType:              "removed",
			ElementName:             fn.Name,
			RequiresChangelog:       true,
			SuggestedChangelogEntry: fmt.Sprintf("### Removed\n- `%s`", fn.Name),
			SuggestedFix:            "Deprecate before removing, or restore the function",
		})
	}

	for _, cls := range oldFacts.Classes {
		if !cls.Public() || newClasses[cls.Name] {
			continue
		}
		findings = append(findings, domain.BreakingChangeFinding{
			CheckName:               constants.CheckRemovedPublicAPI,
			Severity:                domain.SeverityCritical,
			FilePath:                filePath,
			LineNumber:              1,
			Message:                 fmt.Sprintf("Public class '%s' was removed", cls.Name),
			ChangeType:              "removed",
			ElementName:             cls.Name,
			RequiresChangelog:       true,
			SuggestedChangelogEntry: fmt.Sprintf("### Removed\n- `%s` class", cls.Name),
			SuggestedFix:            "Deprecate before removing, or restore the class",
		})
	}

	return findings
}

// schemaPattern pairs a migration operation regex with its finding shape
type schemaPattern struct {
	re         *regexp.Regexp
	message    string
	changeType string
	severity   domain.Severity
	fix        string
}

var schemaPatterns = []schemaPattern{
	{
		re:         regexp.MustCompile(`op\.drop_table\s*\(`),
		message:    "Migration drops a table",
		changeType: "drop_table",
		severity:   domain.SeverityCritical,
		fix:        "Archive the data first and stage the drop across releases",
	},
	{
		re:         regexp.MustCompile(`op\.drop_column\s*\(`),
		message:    "Migration drops a column",
		changeType: "drop_column",
		severity:   domain.SeverityCritical,
		fix:        "Stop writing the column in one release, drop it in the next",
	},
	{
		re:         regexp.MustCompile(`op\.alter_column\s*\([^)]*type_\s*=`),
		message:    "Migration changes a column type",
		changeType: "type_change",
		severity:   domain.SeverityHigh,
		fix:        "Add a new column, backfill, then swap",
	},
}

// addColumnRe matches column additions; combined with nullable=False and
// no default this breaks inserts on existing rows
var addColumnRe = regexp.MustCompile(`op\.add_column\s*\(`)

// isSchemaFile reports whether the path sits under a migrations or
// models directory
func isSchemaFile(filePath string) bool {
	for _, seg := range strings.Split(filePath, "/") {
		if seg == "migrations" || seg == "models" {
			return true
		}
	}
	return false
}

// DatabaseSchemaChangeCheck flags destructive or backward-incompatible
// schema migrations
type DatabaseSchemaChangeCheck struct{}

// Check scans migration and model files line by line
func (DatabaseSchemaChangeCheck) Check(filePath, content string) []domain.BreakingChangeFinding {
	if !isSchemaFile(filePath) {
		return nil
	}

	var findings []domain.BreakingChangeFinding

	for i, line := range splitLines(content) {
		for _, pattern := range schemaPatterns {
			if !pattern.re.MatchString(line) {
				continue
			}
			findings = append(findings, domain.BreakingChangeFinding{
				CheckName:               constants.CheckSchemaChanges,
				Severity:                pattern.severity,
				FilePath:                filePath,
				LineNumber:              i + 1,
				LineContent:             strings.TrimSpace(line),
				Message:                 pattern.message,
				ChangeType:              pattern.changeType,
				RequiresChangelog:       true,
				SuggestedChangelogEntry: "### Changed\n- Database schema: " + pattern.message,
				SuggestedFix:            pattern.fix,
			})
		}

		if addColumnRe.MatchString(line) && strings.Contains(line, "nullable=False") &&
			!strings.Contains(line, "default=") && !strings.Contains(line, "server_default=") {
			findings = append(findings, domain.BreakingChangeFinding{
				CheckName:               constants.CheckSchemaChanges,
				Severity:                domain.SeverityHigh,
				FilePath:                filePath,
				LineNumber:              i + 1,
				LineContent:             strings.TrimSpace(line),
				Message:                 "Non-nullable column added without a default",
				ChangeType:              "add_non_nullable",
				RequiresChangelog:       true,
				SuggestedChangelogEntry: "### Changed\n- Database schema: non-nullable column added",
				SuggestedFix:            "Provide server_default, or add as nullable and tighten later",
			})
		}
	}

	return findings
}

// changelogHeadingRe matches a Keep a Changelog version heading
var changelogHeadingRe = regexp.MustCompile(`## \[(Unreleased|\d+\.\d+\.\d+)\]`)

// changelogFileNames lists the paths accepted as a changelog
var changelogFileNames = []string{"CHANGELOG.md", "CHANGELOG", "docs/CHANGELOG.md"}

// ChangelogRequirementCheck verifies that breaking changes come with a
// changelog entry. It runs after the other breaking-change checks and
// consumes their findings.
type ChangelogRequirementCheck struct{}

// Check inspects the changeset for a changelog when prior findings
// require one, and validates the changelog's heading format when present
func (ChangelogRequirementCheck) Check(cs *domain.Changeset, prior []domain.BreakingChangeFinding) []domain.BreakingChangeFinding {
	required := false
	for i := range prior {
		if prior[i].RequiresChangelog {
			required = true
			break
		}
	}

	changelogPath := ""
	for _, name := range changelogFileNames {
		if _, ok := cs.Files[name]; ok {
			changelogPath = name
			break
		}
	}

	var findings []domain.BreakingChangeFinding

	if required && changelogPath == "" {
		findings = append(findings, domain.BreakingChangeFinding{
			CheckName:               constants.CheckChangelogRequired,
			Severity:                domain.SeverityCritical,
			FilePath:                "CHANGELOG.md",
			LineNumber:              1,
			Message:                 "Breaking changes detected but no changelog update in this changeset",
			ChangeType:              "missing_changelog",
			RequiresChangelog:       true,
			SuggestedChangelogEntry: GenerateChangelogTemplate(prior),
			SuggestedFix:            "Add a CHANGELOG.md entry describing the breaking changes",
		})
	}

	if changelogPath != "" && !changelogHeadingRe.MatchString(cs.Files[changelogPath]) {
		findings = append(findings, domain.BreakingChangeFinding{
			CheckName:    constants.CheckChangelogFormat,
			Severity:     domain.SeverityMedium,
			FilePath:     changelogPath,
			LineNumber:   1,
			Message:      "Changelog has no version heading (expected '## [Unreleased]' or '## [x.y.z]')",
			ChangeType:   "changelog_format",
			SuggestedFix: "Follow the Keep a Changelog format: https://keepachangelog.com",
		})
	}

	return findings
}

// GenerateChangelogTemplate assembles a ready-to-paste changelog section
// from the suggested entries of prior findings, deduplicated in order
func GenerateChangelogTemplate(findings []domain.BreakingChangeFinding) string {
	var b strings.Builder
	b.WriteString("## [Unreleased]\n")

	seen := make(map[string]bool)
	for i := range findings {
		entry := findings[i].SuggestedChangelogEntry
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		b.WriteString("\n")
		b.WriteString(entry)
		b.WriteString("\n")
	}

	return b.String()
}

// BreakingChangeValidator runs all breaking-change checks. The changelog
// requirement check runs last because it consumes the other findings.
type BreakingChangeValidator struct {
	sigCheck     APISignatureChangeCheck
	removedCheck RemovedPublicMethodsCheck
	schemaCheck  DatabaseSchemaChangeCheck
	logCheck     ChangelogRequirementCheck
}

// NewBreakingChangeValidator creates a validator with the standard check
// set
func NewBreakingChangeValidator(ext *extractor.Extractor) *BreakingChangeValidator {
	return &BreakingChangeValidator{
		sigCheck:     APISignatureChangeCheck{extractor: ext},
		removedCheck: RemovedPublicMethodsCheck{extractor: ext},
	}
}

// ValidateChangeset diffs every modified and deleted Python file against
// its old version, then applies the changelog requirement
func (v *BreakingChangeValidator) ValidateChangeset(cs *domain.Changeset) []domain.BreakingChangeFinding {
	var all []domain.BreakingChangeFinding

	for _, path := range cs.Paths() {
		if !strings.HasSuffix(path, ".py") {
			continue
		}
		newContent := cs.Files[path]
		all = append(all, v.schemaCheck.Check(path, newContent)...)

		oldContent, existed := cs.OldContent(path)
		if !existed {
			continue
		}
		all = append(all, v.sigCheck.Check(path, oldContent, newContent)...)
		all = append(all, v.removedCheck.Check(path, oldContent, newContent)...)
	}

	for _, path := range cs.DeletedPaths() {
		if !strings.HasSuffix(path, ".py") {
			continue
		}
		all = append(all, v.removedCheck.CheckDeleted(path, cs.OldFiles[path])...)
	}

	all = append(all, v.logCheck.Check(cs, all)...)
	return all
}
