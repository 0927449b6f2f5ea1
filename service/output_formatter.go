package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/version"
)

// OutputFormatterImpl writes a QualityCheckResult in the requested format
type OutputFormatterImpl struct {
	report *ReportFormatterImpl
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{report: NewReportFormatter()}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ResultJSON wraps QualityCheckResult with export metadata
type ResultJSON struct {
	Version     string `json:"version" yaml:"version"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`

	domain.QualityCheckResult `yaml:",inline"`
}

// newResultJSON stamps the result with tool version and timestamp
func newResultJSON(result *domain.QualityCheckResult) *ResultJSON {
	return &ResultJSON{
		Version:            version.Version,
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
		QualityCheckResult: *result,
	}
}

// Write renders the result in the specified format
func (f *OutputFormatterImpl) Write(result *domain.QualityCheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, newResultJSON(result))
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(writer).Encode(newResultJSON(result))
	case domain.OutputFormatMarkdown:
		_, err := io.WriteString(writer, f.report.FormatReport(result)+"\n")
		return err
	case domain.OutputFormatText:
		return f.writeText(result, writer)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

// writeText renders a compact plain-text summary for terminals
func (f *OutputFormatterImpl) writeText(result *domain.QualityCheckResult, writer io.Writer) error {
	status := "PASSED"
	if !result.Passed {
		status = "FAILED"
	}

	if _, err := fmt.Fprintf(writer, "Quality check %s (mode: %s)\n", status, result.Mode); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Issues: %d total (critical: %d, high: %d, medium: %d, low: %d)\n",
		result.TotalIssues,
		result.SeverityCounts.Critical,
		result.SeverityCounts.High,
		result.SeverityCounts.Medium,
		result.SeverityCounts.Low,
	); err != nil {
		return err
	}

	for _, finding := range result.Security {
		if err := writeTextLine(writer, string(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message); err != nil {
			return err
		}
	}
	for _, finding := range result.Architecture {
		if err := writeTextLine(writer, string(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message); err != nil {
			return err
		}
	}
	for _, finding := range result.TestCoverage {
		if err := writeTextLine(writer, string(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message); err != nil {
			return err
		}
	}
	for _, finding := range result.Performance {
		if err := writeTextLine(writer, string(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message); err != nil {
			return err
		}
	}
	for _, finding := range result.BreakingChanges {
		if err := writeTextLine(writer, string(finding.Severity), finding.FilePath, finding.LineNumber, finding.Message); err != nil {
			return err
		}
	}

	if result.OverrideUsed {
		if _, err := fmt.Fprintf(writer, "Override applied: %s\n", result.OverrideJustification); err != nil {
			return err
		}
	}
	return nil
}

func writeTextLine(writer io.Writer, severity, path string, line int, message string) error {
	_, err := fmt.Fprintf(writer, "  [%s] %s:%d %s\n", severity, path, line, message)
	return err
}
