// Package checks implements the five quality check categories that run
// over a changeset: security, architecture, performance, breaking
// changes, and test coverage. Checks are pattern- and structure-
// heuristic: they trade false positives and negatives for coverage
// breadth, and they degrade rather than fail on malformed input.
package checks

import (
	"regexp"
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
)

// credentialPattern pairs a credential regex with the credential type it
// detects
type credentialPattern struct {
	re       *regexp.Regexp
	credType string
}

// credentialPatterns is the hardcoded-credential signature table
var credentialPatterns = []credentialPattern{
	// API keys
	{regexp.MustCompile(`(?i)api[_-]?key\s*[=:]\s*["'][^"']+["']`), "API key"},
	{regexp.MustCompile(`(?i)apikey\s*[=:]\s*["'][^"']+["']`), "API key"},

	// AWS credentials
	{regexp.MustCompile(`(?i)aws[_-]?access[_-]?key[_-]?id\s*[=:]\s*["'][^"']+["']`), "AWS access key"},
	{regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key\s*[=:]\s*["'][^"']+["']`), "AWS secret key"},

	// Passwords
	{regexp.MustCompile(`(?i)password\s*[=:]\s*["'][^"']+["']`), "Password"},
	{regexp.MustCompile(`(?i)passwd\s*[=:]\s*["'][^"']+["']`), "Password"},
	{regexp.MustCompile(`(?i)pwd\s*[=:]\s*["'][^"']+["']`), "Password"},

	// Tokens
	{regexp.MustCompile(`(?i)token\s*[=:]\s*["'][^"']+["']`), "Token"},
	{regexp.MustCompile(`(?i)auth[_-]?token\s*[=:]\s*["'][^"']+["']`), "Auth token"},
	{regexp.MustCompile(`(?i)bearer\s*[=:]\s*["'][^"']+["']`), "Bearer token"},

	// Private keys
	{regexp.MustCompile(`-----BEGIN (RSA|DSA|EC|OPENSSH) PRIVATE KEY-----`), "Private key"},

	// Database credentials
	{regexp.MustCompile(`(?i)db[_-]?password\s*[=:]\s*["'][^"']+["']`), "Database password"},
	{regexp.MustCompile(`(?i)database[_-]?url\s*[=:]\s*["'].*:[^@]+@.*["']`), "Database connection string"},

	// OAuth/JWT secrets
	{regexp.MustCompile(`(?i)client[_-]?secret\s*[=:]\s*["'][^"']+["']`), "Client secret"},
	{regexp.MustCompile(`(?i)jwt[_-]?secret\s*[=:]\s*["'][^"']+["']`), "JWT secret"},
}

// excludePatterns suppress matches that are test data or placeholders.
// This is a false-positive filter, not a security control.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)test[_-]?`),
	regexp.MustCompile(`(?i)example`),
	regexp.MustCompile(`(?i)sample`),
	regexp.MustCompile(`(?i)demo`),
	regexp.MustCompile(`(?i)fake`),
	regexp.MustCompile(`(?i)mock`),
	regexp.MustCompile(`(?i)placeholder`),
	regexp.MustCompile(`(?i)xxx+`),
	regexp.MustCompile(`<[^>]+>`),
}

// HardcodedCredentialsCheck detects hardcoded credentials in code
type HardcodedCredentialsCheck struct{}

// Check scans file content for credential assignments
func (HardcodedCredentialsCheck) Check(filePath, content string) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for i, line := range splitLines(content) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		for _, pattern := range credentialPatterns {
			for _, match := range pattern.re.FindAllString(line, -1) {
				if isExcludedMatch(match) {
					continue
				}
				findings = append(findings, domain.SecurityFinding{
					CheckName:      constants.CheckHardcodedCredentials,
					Severity:       domain.SeverityCritical,
					FilePath:       filePath,
					LineNumber:     lineNum,
					LineContent:    trimmed,
					Message:        "Hardcoded " + pattern.credType + " detected. Use environment variables or a secrets manager.",
					PatternMatched: pattern.re.String(),
					SuggestedFix:   "Use: value = os.getenv('VARIABLE_NAME')",
				})
			}
		}
	}

	return findings
}

// isExcludedMatch reports whether a matched span overlaps an exclusion
// keyword
func isExcludedMatch(match string) bool {
	for _, re := range excludePatterns {
		if re.MatchString(match) {
			return true
		}
	}
	return false
}

// sqlInjectionPattern pairs an injection regex with the vulnerability it
// indicates
type sqlInjectionPattern struct {
	re       *regexp.Regexp
	vulnType string
}

// sqlInjectionPatterns flags string interpolation or concatenation
// feeding query execution. Parameterized placeholders with a separate
// argument tuple do not match.
var sqlInjectionPatterns = []sqlInjectionPattern{
	{regexp.MustCompile(`(?i)execute\s*\(\s*["'].*\{\}.*["'].*\.format`), "String formatting in SQL query"},
	{regexp.MustCompile(`(?i)execute\s*\(\s*f["'].*\{.*\}.*["']`), "F-string in SQL query"},
	{regexp.MustCompile(`(?i)execute\s*\(\s*["'].*%s.*["'].*%\s*[^(]`), "Old-style string formatting in SQL"},
	{regexp.MustCompile(`(?i)raw\s*\(\s*f["']`), "F-string in raw SQL"},
	{regexp.MustCompile(`(?i)cursor\.execute\s*\(\s*f["']`), "F-string in cursor.execute"},
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE).*\+\s*\w+`), "String concatenation in SQL"},
}

// SQLInjectionCheck detects SQL injection vulnerabilities
type SQLInjectionCheck struct{}

// Check scans file content for injection-prone query construction
func (SQLInjectionCheck) Check(filePath, content string) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for i, line := range splitLines(content) {
		lineNum := i + 1
		for _, pattern := range sqlInjectionPatterns {
			if pattern.re.MatchString(line) {
				findings = append(findings, domain.SecurityFinding{
					CheckName:      constants.CheckSQLInjection,
					Severity:       domain.SeverityCritical,
					FilePath:       filePath,
					LineNumber:     lineNum,
					LineContent:    strings.TrimSpace(line),
					Message:        "Potential SQL injection: " + pattern.vulnType + ". Use parameterized queries.",
					PatternMatched: pattern.re.String(),
					SuggestedFix:   "Use: cursor.execute('SELECT * FROM users WHERE id = %s', (user_id,))",
				})
			}
		}
	}

	return findings
}

// sensitivePattern pairs a logging regex with the data class it exposes
type sensitivePattern struct {
	re       *regexp.Regexp
	dataType string
	severity domain.Severity
}

// sensitivePatterns covers credentials, PII, and session data appearing
// in logging calls. Severity follows the data class.
var sensitivePatterns = []sensitivePattern{
	// Credentials
	{regexp.MustCompile(`(?i)log.*password`), "password", domain.SeverityHigh},
	{regexp.MustCompile(`(?i)log.*token`), "authentication token", domain.SeverityHigh},
	{regexp.MustCompile(`(?i)log.*secret`), "secret", domain.SeverityHigh},
	{regexp.MustCompile(`(?i)log.*api[_-]?key`), "API key", domain.SeverityHigh},

	// PII
	{regexp.MustCompile(`(?i)log.*ssn`), "SSN", domain.SeverityCritical},
	{regexp.MustCompile(`(?i)log.*social[_-]?security`), "social security number", domain.SeverityCritical},
	{regexp.MustCompile(`(?i)log.*credit[_-]?card`), "credit card", domain.SeverityCritical},
	{regexp.MustCompile(`(?i)log.*cvv`), "CVV", domain.SeverityCritical},
	{regexp.MustCompile(`(?i)log.*driver[_-]?license`), "driver's license", domain.SeverityHigh},

	// Session/auth data
	{regexp.MustCompile(`(?i)log.*auth`), "authentication data", domain.SeverityMedium},
	{regexp.MustCompile(`(?i)log.*session`), "session data", domain.SeverityMedium},
}

// SensitiveDataLoggingCheck detects logging of sensitive data
type SensitiveDataLoggingCheck struct{}

// Check scans file content for logging calls referencing sensitive fields
func (SensitiveDataLoggingCheck) Check(filePath, content string) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for i, line := range splitLines(content) {
		lineNum := i + 1
		for _, pattern := range sensitivePatterns {
			if pattern.re.MatchString(line) {
				findings = append(findings, domain.SecurityFinding{
					CheckName:      constants.CheckSensitiveDataLogging,
					Severity:       pattern.severity,
					FilePath:       filePath,
					LineNumber:     lineNum,
					LineContent:    strings.TrimSpace(line),
					Message:        "Potential logging of " + pattern.dataType + ". Redact sensitive fields before logging.",
					PatternMatched: pattern.re.String(),
					SuggestedFix:   "Redact " + pattern.dataType + " or use structured logging with field exclusion",
				})
			}
		}
	}

	return findings
}

// unsafePattern pairs a dangerous call regex with its name and fix
type unsafePattern struct {
	re         *regexp.Regexp
	unsafeFunc string
	fix        string
}

// unsafePatterns covers deserialization and dynamic execution primitives
// that allow arbitrary code execution
var unsafePatterns = []unsafePattern{
	{regexp.MustCompile(`pickle\.loads?\s*\(`), "pickle.load", "Use json.loads or safe serialization"},
	{regexp.MustCompile(`yaml\.load\s*\([^,)]*\)`), "yaml.load without Loader", "Use yaml.safe_load"},
	{regexp.MustCompile(`\beval\s*\(`), "eval()", "Avoid eval; use ast.literal_eval for literals"},
	{regexp.MustCompile(`\bexec\s*\(`), "exec()", "Redesign to avoid dynamic code execution"},
	{regexp.MustCompile(`__import__\s*\(`), "__import__()", "Use importlib.import_module with validation"},
}

// UnsafeDeserializationCheck detects unsafe deserialization patterns
type UnsafeDeserializationCheck struct{}

// Check scans file content for dangerous deserialization calls
func (UnsafeDeserializationCheck) Check(filePath, content string) []domain.SecurityFinding {
	var findings []domain.SecurityFinding

	for i, line := range splitLines(content) {
		lineNum := i + 1
		for _, pattern := range unsafePatterns {
			if pattern.re.MatchString(line) {
				findings = append(findings, domain.SecurityFinding{
					CheckName:      constants.CheckUnsafeDeserialization,
					Severity:       domain.SeverityCritical,
					FilePath:       filePath,
					LineNumber:     lineNum,
					LineContent:    strings.TrimSpace(line),
					Message:        "Unsafe deserialization: " + pattern.unsafeFunc + ". This allows arbitrary code execution.",
					PatternMatched: pattern.re.String(),
					SuggestedFix:   pattern.fix,
				})
			}
		}
	}

	return findings
}

// securityCheck is the shared contract of the line-scoped security checks
type securityCheck interface {
	Check(filePath, content string) []domain.SecurityFinding
}

// SecurityValidator runs all security checks in fixed registration order
type SecurityValidator struct {
	checks []securityCheck
}

// NewSecurityValidator creates a validator with the standard check set
func NewSecurityValidator() *SecurityValidator {
	return &SecurityValidator{
		checks: []securityCheck{
			HardcodedCredentialsCheck{},
			SQLInjectionCheck{},
			SensitiveDataLoggingCheck{},
			UnsafeDeserializationCheck{},
		},
	}
}

// ValidateFile runs all security checks on one file
func (v *SecurityValidator) ValidateFile(filePath, content string) []domain.SecurityFinding {
	var all []domain.SecurityFinding
	for _, check := range v.checks {
		all = append(all, check.Check(filePath, content)...)
	}
	return all
}

// ValidateChangeset runs all security checks over the changeset in
// deterministic path order
func (v *SecurityValidator) ValidateChangeset(cs *domain.Changeset) []domain.SecurityFinding {
	var all []domain.SecurityFinding
	for _, path := range cs.Paths() {
		all = append(all, v.ValidateFile(path, cs.Files[path])...)
	}
	return all
}
