package checks

import "strings"

// splitLines splits file content into lines without trailing newline
// artifacts. An empty file yields a single empty line, matching how
// editors number content.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// indentOf returns the count of leading spaces, with tabs expanded to
// four spaces
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// isBlankOrComment reports whether a line carries no code
func isBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
