package extractor

import (
	"regexp"
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
)

// Line-scanning patterns used when the structural parse fails
var (
	fallbackFuncRe   = regexp.MustCompile(`^\s*(async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)\s*(?:->\s*([^:]+?)\s*)?:`)
	fallbackClassRe  = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	fallbackImportRe = regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)
)

// extractFallback recovers approximate facts with line-oriented regexes.
// Function end boundaries are unknown here; they are estimated as a fixed
// span past the definition line.
func extractFallback(path, content string) *FileFacts {
	facts := &FileFacts{Path: path, Confidence: domain.ConfidenceHeuristic}
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		lineNum := i + 1

		if m := fallbackFuncRe.FindStringSubmatch(line); m != nil {
			facts.Functions = append(facts.Functions, Function{
				Name:    m[2],
				Line:    lineNum,
				EndLine: lineNum + constants.FallbackFunctionSpan,
				Params:  parseParamList(m[3]),
				Returns: strings.TrimSpace(m[4]),
				IsAsync: m[1] != "",
			})
			continue
		}

		if m := fallbackClassRe.FindStringSubmatch(line); m != nil {
			facts.Classes = append(facts.Classes, Class{Name: m[1], Line: lineNum})
			continue
		}

		if m := fallbackImportRe.FindStringSubmatch(line); m != nil {
			module := m[1]
			if module == "" {
				module = m[2]
			}
			facts.Imports = append(facts.Imports, Import{Module: module, Line: lineNum})
		}
	}

	return facts
}

// parseParamList splits a raw parameter list into Param facts. Nested
// brackets inside annotations or defaults are respected when splitting.
func parseParamList(raw string) []Param {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var params []Param
	depth := 0
	start := 0
	flush := func(end int) {
		part := strings.TrimSpace(raw[start:end])
		if part == "" {
			return
		}
		if p, ok := parseParam(part); ok {
			params = append(params, p)
		}
	}

	for i, r := range raw {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(raw))

	return params
}

// parseParam parses a single "name[: annotation][=default]" fragment
func parseParam(part string) (Param, bool) {
	if part == "*" || part == "/" {
		return Param{}, false
	}

	p := Param{}
	if eq := splitTopLevel(part, '='); eq >= 0 {
		p.Default = strings.TrimSpace(part[eq+1:])
		part = strings.TrimSpace(part[:eq])
	}
	if colon := splitTopLevel(part, ':'); colon >= 0 {
		p.Annotation = strings.TrimSpace(part[colon+1:])
		part = strings.TrimSpace(part[:colon])
	}
	p.Name = part
	return p, p.Name != ""
}

// splitTopLevel returns the index of the first sep outside any brackets,
// or -1
func splitTopLevel(s string, sep rune) int {
	depth := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if r == sep && depth == 0 {
				return i
			}
		}
	}
	return -1
}
