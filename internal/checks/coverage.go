package checks

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/config"
	"github.com/mergegate/mergegate/internal/constants"
	"github.com/mergegate/mergegate/internal/extractor"
)

// isTestFile reports whether the path follows a test-file naming
// convention
func isTestFile(filePath string) bool {
	return strings.Contains(filePath, "test_") ||
		strings.Contains(filePath, "/tests/") ||
		strings.HasSuffix(filePath, "_test.py")
}

// NewFunctionsHaveTestsCheck verifies that public functions in changed
// source files have corresponding tests
type NewFunctionsHaveTestsCheck struct {
	extractor *extractor.Extractor
	skip      *ignore.GitIgnore
}

// NewNewFunctionsHaveTestsCheck creates a check with a skip matcher
// compiled from gitignore-style patterns
func NewNewFunctionsHaveTestsCheck(cov config.CoverageConfig, ext *extractor.Extractor) *NewFunctionsHaveTestsCheck {
	return &NewFunctionsHaveTestsCheck{
		extractor: ext,
		skip:      ignore.CompileIgnoreLines(cov.SkipPatterns...),
	}
}

// Check inspects each source file. A source file with public functions
// but no matching test file yields one file-level finding; when a test
// file exists, each public function without a test_<name> function
// yields its own finding.
func (c *NewFunctionsHaveTestsCheck) Check(sourceFiles, testFiles map[string]string) []domain.TestCoverageFinding {
	var findings []domain.TestCoverageFinding

	for _, path := range sortedKeys(sourceFiles) {
		if c.skip.MatchesPath(path) {
			continue
		}

		facts := c.extractor.Extract(path, []byte(sourceFiles[path]))
		var public []*extractor.Function
		for i := range facts.Functions {
			if facts.Functions[i].Public() {
				public = append(public, &facts.Functions[i])
			}
		}
		if len(public) == 0 {
			continue
		}

		testPath := findTestFile(path, testFiles)
		if testPath == "" {
			findings = append(findings, domain.TestCoverageFinding{
				CheckName:    constants.CheckNewFunctionsHaveTests,
				Severity:     domain.SeverityMedium,
				FilePath:     path,
				FunctionName: "(all functions)",
				LineNumber:   1,
				Message:      fmt.Sprintf("No test file found for %s. Create tests for new functions.", path),
				SuggestedFix: "Create " + suggestTestFilePath(path),
			})
			continue
		}

		testContent := testFiles[testPath]
		for _, fn := range public {
			if hasTestForFunction(fn.Name, testContent) {
				continue
			}
			findings = append(findings, domain.TestCoverageFinding{
				CheckName:    constants.CheckNewFunctionsHaveTests,
				Severity:     domain.SeverityMedium,
				FilePath:     path,
				FunctionName: fn.Name,
				LineNumber:   fn.Line,
				Message:      fmt.Sprintf("Function '%s' has no corresponding test", fn.Name),
				SuggestedFix: fmt.Sprintf("Add test_%s in %s", fn.Name, testPath),
			})
		}
	}

	return findings
}

// findTestFile locates the test file conventionally paired with a
// source file
func findTestFile(sourcePath string, testFiles map[string]string) string {
	base := sourcePath
	dir := ""
	if idx := strings.LastIndex(sourcePath, "/"); idx >= 0 {
		base = sourcePath[idx+1:]
		dir = sourcePath[:idx]
	}
	parent := dir
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		parent = dir[idx+1:]
	}

	candidates := []string{
		"tests/test_" + base,
		"tests/" + parent + "/test_" + base,
		"test_" + base,
		dir + "/test_" + base,
	}

	for _, candidate := range candidates {
		for _, testPath := range sortedKeys(testFiles) {
			if strings.Contains(testPath, candidate) {
				return testPath
			}
		}
	}
	return ""
}

// suggestTestFilePath proposes where the missing test file should live
func suggestTestFilePath(sourcePath string) string {
	base := sourcePath
	dir := ""
	if idx := strings.LastIndex(sourcePath, "/"); idx >= 0 {
		base = sourcePath[idx+1:]
		dir = sourcePath[:idx]
	}
	parent := dir
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		parent = dir[idx+1:]
	}
	if parent == "" {
		return "tests/test_" + base
	}
	return "tests/" + parent + "/test_" + base
}

// hasTestForFunction reports whether the test content defines
// test_<name>
func hasTestForFunction(funcName, testContent string) bool {
	re := regexp.MustCompile(`def\s+test_` + regexp.QuoteMeta(funcName) + `\s*\(`)
	return re.MatchString(testContent)
}

// bugFixPatterns classify a changeset as a bug fix from its title and
// description
var bugFixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^fix`),
	regexp.MustCompile(`^bug`),
	regexp.MustCompile(`\bfix\b`),
	regexp.MustCompile(`\bbug\b`),
	regexp.MustCompile(`\bregression\b`),
}

// BugFixRegressionTestCheck requires bug-fix changesets to touch at
// least one test file
type BugFixRegressionTestCheck struct{}

// Check emits at most one changeset-level finding
func (BugFixRegressionTestCheck) Check(cs *domain.Changeset) []domain.TestCoverageFinding {
	combined := strings.ToLower(cs.Title + " " + cs.Description)

	isBugFix := false
	for _, re := range bugFixPatterns {
		if re.MatchString(combined) {
			isBugFix = true
			break
		}
	}
	if !isBugFix {
		return nil
	}

	for path := range cs.Files {
		if isTestFile(path) {
			return nil
		}
	}

	return []domain.TestCoverageFinding{{
		CheckName:    constants.CheckBugFixRegressionTests,
		Severity:     domain.SeverityHigh,
		FilePath:     "(changeset)",
		FunctionName: "N/A",
		LineNumber:   1,
		Message:      "Bug fix should include regression tests to prevent reoccurrence",
		SuggestedFix: "Add test cases that reproduce the bug and verify the fix",
	}}
}

// assertionRe matches assertion constructs across pytest and unittest
var assertionRe = regexp.MustCompile(`\bassert\s+|\.assert|self\.assertEqual|self\.assertTrue`)

// fixtureRe matches shared setup declarations
var fixtureRe = regexp.MustCompile(`@pytest\.fixture|def\s+setUp\s*\(|def\s+tearDown\s*\(|@conftest`)

// testFuncRe counts test functions in a file
var testFuncRe = regexp.MustCompile(`def\s+test_`)

// TestQualityCheck validates that test files assert something and that
// large test files share setup through fixtures
type TestQualityCheck struct{}

// Check inspects each test file
func (TestQualityCheck) Check(testFiles map[string]string) []domain.TestCoverageFinding {
	var findings []domain.TestCoverageFinding

	for _, path := range sortedKeys(testFiles) {
		content := testFiles[path]

		if !assertionRe.MatchString(content) {
			findings = append(findings, domain.TestCoverageFinding{
				CheckName:    constants.CheckTestQuality,
				Severity:     domain.SeverityHigh,
				FilePath:     path,
				FunctionName: "N/A",
				LineNumber:   1,
				Message:      "Test file has no assertions. Tests should include assert statements.",
				SuggestedFix: "Add assert statements to verify expected behavior",
			})
		}

		if !fixtureRe.MatchString(content) {
			testCount := len(testFuncRe.FindAllString(content, -1))
			if testCount > constants.FixtureRecommendationThreshold {
				findings = append(findings, domain.TestCoverageFinding{
					CheckName:    constants.CheckTestQuality,
					Severity:     domain.SeverityLow,
					FilePath:     path,
					FunctionName: "N/A",
					LineNumber:   1,
					Message:      fmt.Sprintf("Test file with %d tests should use fixtures/setup for shared test data", testCount),
					SuggestedFix: "Use pytest fixtures or setUp/tearDown methods for test initialization",
				})
			}
		}
	}

	return findings
}

// TestCoverageValidator runs the three coverage checks over a changeset
type TestCoverageValidator struct {
	newFuncsCheck *NewFunctionsHaveTestsCheck
	bugFixCheck   BugFixRegressionTestCheck
	qualityCheck  TestQualityCheck
}

// NewTestCoverageValidator creates a validator bound to coverage
// configuration
func NewTestCoverageValidator(cov config.CoverageConfig, ext *extractor.Extractor) *TestCoverageValidator {
	return &TestCoverageValidator{
		newFuncsCheck: NewNewFunctionsHaveTestsCheck(cov, ext),
	}
}

// ValidateChangeset partitions the changeset into source and test files
// and runs all checks
func (v *TestCoverageValidator) ValidateChangeset(cs *domain.Changeset) []domain.TestCoverageFinding {
	sourceFiles := make(map[string]string)
	testFiles := make(map[string]string)

	for path, content := range cs.Files {
		switch {
		case isTestFile(path):
			testFiles[path] = content
		case strings.HasSuffix(path, ".py"):
			sourceFiles[path] = content
		}
	}

	var all []domain.TestCoverageFinding
	all = append(all, v.newFuncsCheck.Check(sourceFiles, testFiles)...)
	all = append(all, v.bugFixCheck.Check(cs)...)
	all = append(all, v.qualityCheck.Check(testFiles)...)
	return all
}

// sortedKeys returns map keys in sorted order for deterministic output
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
