package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
)

// ormMarkers identify files that talk to a database through an ORM
var ormMarkers = []string{
	"sqlalchemy",
	"django.db",
	"peewee",
	"tortoise",
}

// loopRe matches for and while statement lines
var loopRe = regexp.MustCompile(`^\s*(for\s+.+\s+in\s+.+:|while\s+.+:)`)

// queryCallRe matches ORM query executions
var queryCallRe = regexp.MustCompile(`\.(query|get|filter|filter_by|all|first|one|execute|fetchone|fetchall)\s*\(|objects\.`)

// NPlusOneQueriesCheck flags database queries issued inside loop bodies
type NPlusOneQueriesCheck struct{}

// Check reports at most one finding per loop: the first query call in
// the lines following the loop header
func (NPlusOneQueriesCheck) Check(filePath, content string) []domain.PerformanceFinding {
	if !usesORM(content) {
		return nil
	}

	var findings []domain.PerformanceFinding
	lines := splitLines(content)

	for i, line := range lines {
		if !loopRe.MatchString(line) {
			continue
		}
		loopIndent := indentOf(line)
		end := i + 1 + constants.QueryLookAheadLines
		if end > len(lines) {
			end = len(lines)
		}
		for j := i + 1; j < end; j++ {
			body := lines[j]
			if isBlankOrComment(body) {
				continue
			}
			if indentOf(body) <= loopIndent {
				break
			}
			if queryCallRe.MatchString(body) {
				findings = append(findings, domain.PerformanceFinding{
					CheckName:    constants.CheckNPlusOneQueries,
					Severity:     domain.SeverityHigh,
					FilePath:     filePath,
					LineNumber:   j + 1,
					LineContent:  strings.TrimSpace(body),
					Message:      "Potential N+1 query: database call inside a loop",
					Impact:       "Issues one query per iteration instead of a single batched query",
					SuggestedFix: "Fetch the records in one query before the loop (use joinedload, select_related, or an IN clause)",
				})
				break
			}
		}
	}

	return findings
}

// usesORM reports whether the file imports a known ORM
func usesORM(content string) bool {
	for _, marker := range ormMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// foreignKeyRe matches column and relationship definitions that
// reference another table
var foreignKeyRe = regexp.MustCompile(`(ForeignKey|relationship)\s*\(`)

// indexedRe matches an index declaration on a column
var indexedRe = regexp.MustCompile(`\b(index|db_index)\s*=\s*True`)

// MissingIndexesCheck flags foreign key columns declared without an
// index in model files
type MissingIndexesCheck struct{}

// isModelFile reports whether the path belongs to the model layer
func isModelFile(filePath string) bool {
	base := filePath
	if idx := strings.LastIndex(filePath, "/"); idx >= 0 {
		base = filePath[idx+1:]
	}
	return strings.Contains(filePath, "models/") ||
		strings.Contains(filePath, "entities/") ||
		base == "models.py" || base == "model.py"
}

// Check scans model files for unindexed foreign keys, looking a couple
// of lines around each declaration since column arguments wrap
func (MissingIndexesCheck) Check(filePath, content string) []domain.PerformanceFinding {
	if !isModelFile(filePath) {
		return nil
	}

	var findings []domain.PerformanceFinding
	lines := splitLines(content)

	for i, line := range lines {
		if !foreignKeyRe.MatchString(line) {
			continue
		}
		indexed := false
		start := i - constants.IndexContextLines
		if start < 0 {
			start = 0
		}
		end := i + constants.IndexContextLines
		if end >= len(lines) {
			end = len(lines) - 1
		}
		for j := start; j <= end; j++ {
			if indexedRe.MatchString(lines[j]) {
				indexed = true
				break
			}
		}
		if indexed {
			continue
		}
		findings = append(findings, domain.PerformanceFinding{
			CheckName:    constants.CheckMissingIndexes,
			Severity:     domain.SeverityMedium,
			FilePath:     filePath,
			LineNumber:   i + 1,
			LineContent:  strings.TrimSpace(line),
			Message:      "Foreign key column without an index",
			Impact:       "Joins and lookups on this column scan the full table",
			SuggestedFix: "Add index=True to the column definition",
		})
	}

	return findings
}

// rangeLenRe matches index-based iteration over a sequence
var rangeLenRe = regexp.MustCompile(`for\s+\w+\s+in\s+range\s*\(\s*len\s*\(`)

// lenInLoopRe matches a length recomputation in a loop condition
var lenInLoopRe = regexp.MustCompile(`while\s+.*\blen\s*\(`)

// lenCallRe matches a len() call on a name, used for body lines inside
// an open loop
var lenCallRe = regexp.MustCompile(`\blen\s*\(\s*\w`)

// AlgorithmComplexityCheck flags nested loops and common quadratic or
// wasteful iteration patterns
type AlgorithmComplexityCheck struct{}

// Check walks the file once keeping a stack of open loop indents. A
// loop line closes every stacked loop at greater or equal indent before
// pushing itself, so sibling loops do not count as nesting.
func (AlgorithmComplexityCheck) Check(filePath, content string) []domain.PerformanceFinding {
	var findings []domain.PerformanceFinding
	var loopStack []int

	for i, line := range splitLines(content) {
		if isBlankOrComment(line) {
			continue
		}
		indent := indentOf(line)
		for len(loopStack) > 0 && loopStack[len(loopStack)-1] >= indent {
			loopStack = loopStack[:len(loopStack)-1]
		}
		if !loopRe.MatchString(line) {
			if len(loopStack) > 0 && lenCallRe.MatchString(line) {
				findings = append(findings, domain.PerformanceFinding{
					CheckName:    constants.CheckComplexity,
					Severity:     domain.SeverityLow,
					FilePath:     filePath,
					LineNumber:   i + 1,
					LineContent:  strings.TrimSpace(line),
					Message:      "len() called inside a loop body",
					Impact:       "Recomputes the length on every iteration",
					SuggestedFix: "Store the length in a variable before the loop if the collection does not change",
				})
			}
			continue
		}

		depth := len(loopStack) + 1
		if depth >= 3 {
			findings = append(findings, domain.PerformanceFinding{
				CheckName:    constants.CheckComplexity,
				Severity:     domain.SeverityMedium,
				FilePath:     filePath,
				LineNumber:   i + 1,
				LineContent:  strings.TrimSpace(line),
				Message:      fmt.Sprintf("Deeply nested loop (depth %d) suggests O(n^%d) complexity", depth, depth),
				Impact:       "Runtime grows polynomially with input size",
				SuggestedFix: "Restructure with a lookup table or precomputed index",
			})
		} else if depth == 2 {
			findings = append(findings, domain.PerformanceFinding{
				CheckName:    constants.CheckComplexity,
				Severity:     domain.SeverityMedium,
				FilePath:     filePath,
				LineNumber:   i + 1,
				LineContent:  strings.TrimSpace(line),
				Message:      "Nested loop suggests O(n^2) complexity",
				Impact:       "Runtime grows quadratically with input size",
				SuggestedFix: "Consider a set or dict lookup to flatten the inner loop",
			})
		}

		if rangeLenRe.MatchString(line) {
			findings = append(findings, domain.PerformanceFinding{
				CheckName:    constants.CheckComplexity,
				Severity:     domain.SeverityLow,
				FilePath:     filePath,
				LineNumber:   i + 1,
				LineContent:  strings.TrimSpace(line),
				Message:      "Index-based iteration over a sequence",
				Impact:       "Harder to read and easy to off-by-one",
				SuggestedFix: "Use enumerate() or iterate the sequence directly",
			})
		}
		if lenInLoopRe.MatchString(line) {
			findings = append(findings, domain.PerformanceFinding{
				CheckName:    constants.CheckComplexity,
				Severity:     domain.SeverityLow,
				FilePath:     filePath,
				LineNumber:   i + 1,
				LineContent:  strings.TrimSpace(line),
				Message:      "len() evaluated in a loop condition",
				Impact:       "Recomputes the length on every iteration",
				SuggestedFix: "Hoist the length into a variable before the loop if the sequence does not change",
			})
		}

		loopStack = append(loopStack, indent)
	}

	return findings
}

// leakPattern pairs a leak regex with its description
type leakPattern struct {
	re       *regexp.Regexp
	message  string
	impact   string
	fix      string
	severity domain.Severity
}

// leakPatterns covers resource handles and unbounded growth
var leakPatterns = []leakPattern{
	{
		re:       regexp.MustCompile(`(?i)global\s+\w+\s*=\s*\[\]`),
		message:  "Global mutable collection can grow unbounded",
		impact:   "Memory usage grows over time, causing OOM errors",
		fix:      "Implement a size limit or periodic cleanup",
		severity: domain.SeverityMedium,
	},
	{
		re:       regexp.MustCompile(`(?i)cache\s*=\s*\{\}`),
		message:  "Unbounded cache can cause memory issues",
		impact:   "Memory usage grows over time, causing OOM errors",
		fix:      "Use an LRU cache or implement a size limit",
		severity: domain.SeverityMedium,
	},
	{
		re:       regexp.MustCompile(`(?m)^\s*\w+\s*=\s*open\s*\(`),
		message:  "File opened without a context manager",
		impact:   "Handle leaks if an exception occurs before close()",
		fix:      "Use: with open(path) as f:",
		severity: domain.SeverityMedium,
	},
	{
		re:       regexp.MustCompile(`@(functools\.)?lru_cache\s*(\(\s*\)|$)`),
		message:  "Unbounded lru_cache",
		impact:   "Cache grows without limit for the process lifetime",
		fix:      "Set an explicit maxsize: @lru_cache(maxsize=1024)",
		severity: domain.SeverityMedium,
	},
	{
		re:       regexp.MustCompile(`threading\.Thread\s*\([^)]*daemon\s*=\s*False`),
		message:  "Non-daemon thread created",
		impact:   "Thread keeps the process alive after main exits",
		fix:      "Use daemon=True or join the thread explicitly",
		severity: domain.SeverityLow,
	},
}

// MemoryLeakCheck flags resource and memory leak patterns
type MemoryLeakCheck struct{}

// Check scans file content for leak-prone constructs. Lines that
// already use a context manager are skipped.
func (MemoryLeakCheck) Check(filePath, content string) []domain.PerformanceFinding {
	var findings []domain.PerformanceFinding

	for i, line := range splitLines(content) {
		if strings.Contains(line, "with ") {
			continue
		}
		for _, pattern := range leakPatterns {
			if !pattern.re.MatchString(line) {
				continue
			}
			findings = append(findings, domain.PerformanceFinding{
				CheckName:    constants.CheckMemoryLeak,
				Severity:     pattern.severity,
				FilePath:     filePath,
				LineNumber:   i + 1,
				LineContent:  strings.TrimSpace(line),
				Message:      pattern.message,
				Impact:       pattern.impact,
				SuggestedFix: pattern.fix,
			})
		}
	}

	return findings
}

// PerformanceValidator runs all performance checks in fixed order
type PerformanceValidator struct{}

// NewPerformanceValidator creates a validator with the standard check set
func NewPerformanceValidator() *PerformanceValidator {
	return &PerformanceValidator{}
}

// ValidateFile runs all performance checks on one file
func (v *PerformanceValidator) ValidateFile(filePath, content string) []domain.PerformanceFinding {
	var all []domain.PerformanceFinding
	all = append(all, NPlusOneQueriesCheck{}.Check(filePath, content)...)
	all = append(all, MissingIndexesCheck{}.Check(filePath, content)...)
	all = append(all, AlgorithmComplexityCheck{}.Check(filePath, content)...)
	all = append(all, MemoryLeakCheck{}.Check(filePath, content)...)
	return all
}

// ValidateChangeset runs all performance checks over the changeset in
// deterministic path order
func (v *PerformanceValidator) ValidateChangeset(cs *domain.Changeset) []domain.PerformanceFinding {
	var all []domain.PerformanceFinding
	for _, path := range cs.Paths() {
		if !strings.HasSuffix(path, ".py") {
			continue
		}
		all = append(all, v.ValidateFile(path, cs.Files[path])...)
	}
	return all
}
