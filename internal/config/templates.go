package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLTemplate is the documented configuration template written by
// `mergegate init` for YAML targets
const YAMLTemplate = `# mergegate configuration
# Gating policy: "warning" reports findings but always passes,
# "error" blocks on critical/high severity findings.
mode: warning

# Run the five check categories concurrently.
parallel: true
# 0 means one goroutine per category.
max_goroutines: 0

architecture:
  # Layer hierarchy used by the layer separation check. A file is
  # classified into the first layer whose path fragment matches.
  layers:
    - name: controller
      paths: ["api/", "controllers/"]
      allowed: ["service", "model"]
      prohibited: ["repository"]
    - name: service
      paths: ["services/", "business/"]
      allowed: ["repository", "model"]
      prohibited: ["controller", "api"]
    - name: repository
      paths: ["repositories/", "data/"]
      allowed: ["model"]
      prohibited: ["controller", "api", "service"]
    - name: model
      paths: ["models/", "entities/"]
      allowed: []
      prohibited: ["controller", "api", "service", "repository"]

coverage:
  # Files matching these gitignore-style patterns are exempt from the
  # new-functions-have-tests check.
  skip_patterns:
    - "test_*"
    - "**/test_*"
    - "__init__.py"
    - "**/__init__.py"
    - "migrations/**"
    - "scripts/**"
    - "config/**"
    - "*.example"

output:
  # Default output format: text, markdown, json, yaml
  format: text
`

// GenerateTemplate renders a config template for the given file name.
// YAML targets get the documented template; JSON targets get the default
// configuration marshaled with indentation.
func GenerateTemplate(filename string) (string, error) {
	return GenerateTemplateForMode(filename, "warning")
}

// GenerateTemplateForMode renders a config template with the given gate
// mode baked in
func GenerateTemplateForMode(filename, mode string) (string, error) {
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return strings.Replace(YAMLTemplate, "mode: warning", "mode: "+mode, 1), nil
	}

	cfg := DefaultConfig()
	cfg.Mode = mode
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	return string(data) + "\n", nil
}

// ParseYAMLTemplate is used by tests to verify the documented template
// stays loadable
func ParseYAMLTemplate() (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(YAMLTemplate), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
