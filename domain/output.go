package domain

import "strings"

// OutputFormat specifies how results are rendered
type OutputFormat string

const (
	// OutputFormatText is a short human-readable summary
	OutputFormatText OutputFormat = "text"

	// OutputFormatMarkdown is the full layered report
	OutputFormatMarkdown OutputFormat = "markdown"

	// OutputFormatJSON is the machine-readable export
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML is the machine-readable export as YAML
	OutputFormatYAML OutputFormat = "yaml"
)

// ParseOutputFormat converts a string into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputFormatText:
		return OutputFormatText, nil
	case OutputFormatMarkdown, "md":
		return OutputFormatMarkdown, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatYAML, "yml":
		return OutputFormatYAML, nil
	default:
		return "", NewInputError("format must be one of: text, markdown, json, yaml", nil)
	}
}
