package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mergegate/mergegate/domain"
)

// ReportFormatterImpl renders a QualityCheckResult as a layered markdown
// report. Category sections appear only when they carry findings.
type ReportFormatterImpl struct{}

// NewReportFormatter creates a new report formatter
func NewReportFormatter() *ReportFormatterImpl {
	return &ReportFormatterImpl{}
}

// severityEmoji maps a severity to its report marker
func severityEmoji(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical, domain.SeverityHigh:
		return "🔴"
	case domain.SeverityMedium:
		return "🟡"
	default:
		return "ℹ️"
	}
}

// FormatReport renders the full markdown report
func (f *ReportFormatterImpl) FormatReport(result *domain.QualityCheckResult) string {
	var report []string
	report = append(report, "# 🔍 Quality Check Results\n")

	if result.Passed {
		report = append(report, "✅ **Status**: PASSED")
	} else {
		report = append(report, "❌ **Status**: FAILED")
	}
	report = append(report, fmt.Sprintf("**Mode**: %s\n", strings.ToUpper(string(result.Mode))))

	report = append(report, "## 📊 Summary\n")
	report = append(report, fmt.Sprintf("- **Total Issues**: %d", result.TotalIssues))
	report = append(report, fmt.Sprintf("- **Critical**: %d", result.SeverityCounts.Critical))
	report = append(report, fmt.Sprintf("- **High**: %d", result.SeverityCounts.High))
	report = append(report, fmt.Sprintf("- **Medium**: %d", result.SeverityCounts.Medium))
	report = append(report, fmt.Sprintf("- **Low**: %d\n", result.SeverityCounts.Low))

	if result.Mode == domain.ModeWarning {
		report = append(report, "ℹ️  **Warning Mode**: Issues reported but the changeset can be merged.\n")
	} else {
		report = append(report, "🚫 **Error Mode**: Critical and high severity issues block merge.\n")
	}

	if len(result.Security) > 0 {
		report = append(report, "\n---\n", f.formatSecurity(result.Security))
	}
	if len(result.Architecture) > 0 {
		report = append(report, "\n---\n", f.formatArchitecture(result.Architecture))
	}
	if len(result.TestCoverage) > 0 {
		report = append(report, "\n---\n", f.formatTestCoverage(result.TestCoverage))
	}
	if len(result.Performance) > 0 {
		report = append(report, "\n---\n", f.formatPerformance(result.Performance))
	}
	if len(result.BreakingChanges) > 0 {
		report = append(report, "\n---\n", f.formatBreakingChanges(result.BreakingChanges))
	}

	if result.OverrideUsed {
		report = append(report, "\n---\n")
		report = append(report, "## ⚠️  Override Applied\n")
		if result.OverrideApprovedBy != "" {
			report = append(report, fmt.Sprintf("**Approved by**: %s", result.OverrideApprovedBy))
		}
		report = append(report, fmt.Sprintf("**Justification**: %s\n", result.OverrideJustification))
	}

	report = append(report, "\n---\n")
	report = append(report, "## 📝 Next Steps\n")
	if !result.Passed {
		report = append(report,
			"1. Review and fix critical and high severity issues above",
			"2. Update the code and resubmit the changeset",
			"3. Quality checks will re-run automatically",
			"\n**OR**\n",
			"Apply an override if the issues are false positives (requires a justification of at least 50 characters).")
	} else {
		if result.TotalIssues > 0 {
			report = append(report, "- Address warnings before merging (optional but recommended)")
		}
		report = append(report, "- All quality gates passed ✅", "- The changeset is ready for review and merge")
	}

	return strings.Join(report, "\n")
}

func (f *ReportFormatterImpl) formatSecurity(findings []domain.SecurityFinding) string {
	report := []string{"## 🔒 Security Check Results\n", f.securityCountsLine(findings)}

	byFile := make(map[string][]domain.SecurityFinding)
	for _, finding := range findings {
		byFile[finding.FilePath] = append(byFile[finding.FilePath], finding)
	}

	for _, path := range sortedFileKeys(byFile) {
		report = append(report, fmt.Sprintf("\n### 📄 %s\n", path))
		for _, finding := range byFile[path] {
			report = append(report, fmt.Sprintf("%s **Line %d**: %s", severityEmoji(finding.Severity), finding.LineNumber, finding.Message))
			if finding.LineContent != "" {
				report = append(report, fmt.Sprintf("   `%s`", finding.LineContent))
			}
			if finding.SuggestedFix != "" {
				report = append(report, fmt.Sprintf("   💡 **Fix**: %s", finding.SuggestedFix))
			}
			report = append(report, "")
		}
	}

	return strings.Join(report, "\n")
}

func (f *ReportFormatterImpl) securityCountsLine(findings []domain.SecurityFinding) string {
	var counts domain.SeverityCounts
	for _, finding := range findings {
		counts.Add(finding.Severity)
	}
	return countsLine(counts)
}

func (f *ReportFormatterImpl) formatArchitecture(findings []domain.ArchitectureFinding) string {
	var counts domain.SeverityCounts
	byFile := make(map[string][]domain.ArchitectureFinding)
	for _, finding := range findings {
		counts.Add(finding.Severity)
		byFile[finding.FilePath] = append(byFile[finding.FilePath], finding)
	}

	report := []string{"## 🏗️  Architecture Check Results\n", countsLine(counts)}
	for _, path := range sortedFileKeys(byFile) {
		report = append(report, fmt.Sprintf("\n### 📄 %s\n", path))
		for _, finding := range byFile[path] {
			report = append(report, fmt.Sprintf("%s **Line %d**: %s", severityEmoji(finding.Severity), finding.LineNumber, finding.Message))
			report = append(report, fmt.Sprintf("   **Rule**: %s", finding.ViolatedRule))
			if finding.SuggestedFix != "" {
				report = append(report, fmt.Sprintf("   💡 **Fix**: %s", finding.SuggestedFix))
			}
			report = append(report, "")
		}
	}

	return strings.Join(report, "\n")
}

func (f *ReportFormatterImpl) formatTestCoverage(findings []domain.TestCoverageFinding) string {
	var counts domain.SeverityCounts
	for _, finding := range findings {
		counts.Add(finding.Severity)
	}

	report := []string{"## 🧪 Test Coverage Check Results\n", countsLine(counts)}
	for _, finding := range findings {
		report = append(report, fmt.Sprintf("%s **%s**", severityEmoji(finding.Severity), finding.FilePath))
		if finding.FunctionName != "N/A" && finding.FunctionName != "" {
			report = append(report, fmt.Sprintf("   Function: `%s` (line %d)", finding.FunctionName, finding.LineNumber))
		}
		report = append(report, "   "+finding.Message)
		if finding.SuggestedFix != "" {
			report = append(report, fmt.Sprintf("   💡 **Fix**: %s", finding.SuggestedFix))
		}
		report = append(report, "")
	}

	return strings.Join(report, "\n")
}

func (f *ReportFormatterImpl) formatPerformance(findings []domain.PerformanceFinding) string {
	var counts domain.SeverityCounts
	byFile := make(map[string][]domain.PerformanceFinding)
	for _, finding := range findings {
		counts.Add(finding.Severity)
		byFile[finding.FilePath] = append(byFile[finding.FilePath], finding)
	}

	report := []string{"## ⚡ Performance Check Results\n", countsLine(counts)}
	for _, path := range sortedFileKeys(byFile) {
		report = append(report, fmt.Sprintf("\n### 📄 %s\n", path))
		for _, finding := range byFile[path] {
			report = append(report, fmt.Sprintf("%s **Line %d**: %s", severityEmoji(finding.Severity), finding.LineNumber, finding.Message))
			if finding.Impact != "" {
				report = append(report, fmt.Sprintf("   **Impact**: %s", finding.Impact))
			}
			if finding.SuggestedFix != "" {
				report = append(report, fmt.Sprintf("   💡 **Fix**: %s", finding.SuggestedFix))
			}
			report = append(report, "")
		}
	}

	return strings.Join(report, "\n")
}

func (f *ReportFormatterImpl) formatBreakingChanges(findings []domain.BreakingChangeFinding) string {
	var counts domain.SeverityCounts
	for _, finding := range findings {
		counts.Add(finding.Severity)
	}

	report := []string{"## ⚠️  Breaking Changes Check Results\n", countsLine(counts)}
	for _, finding := range findings {
		report = append(report, fmt.Sprintf("%s **%s** (line %d): %s",
			severityEmoji(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message))
		if finding.SuggestedFix != "" {
			report = append(report, fmt.Sprintf("   💡 **Fix**: %s", finding.SuggestedFix))
		}
		if finding.SuggestedChangelogEntry != "" {
			report = append(report, "   **Suggested changelog entry**:")
			report = append(report, "   ```markdown")
			for _, line := range strings.Split(finding.SuggestedChangelogEntry, "\n") {
				report = append(report, "   "+line)
			}
			report = append(report, "   ```")
		}
		report = append(report, "")
	}

	return strings.Join(report, "\n")
}

// countsLine renders the per-section severity banner
func countsLine(counts domain.SeverityCounts) string {
	return fmt.Sprintf("**%d CRITICAL** | **%d HIGH** | **%d MEDIUM** | **%d LOW** severity issues\n",
		counts.Critical, counts.High, counts.Medium, counts.Low)
}

// sortedFileKeys returns map keys in sorted order
func sortedFileKeys[V any](m map[string][]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
