package domain

import "sort"

// Changeset is an immutable in-memory snapshot of a proposed change.
// Files maps path to new content; paths present only in OldFiles were
// deleted, paths present only in Files are new.
type Changeset struct {
	// Title is the change title, used for bug fix classification
	Title string `json:"title"`

	// Description is the change description
	Description string `json:"description"`

	// Files maps file path to new content
	Files map[string]string `json:"files"`

	// OldFiles maps file path to prior content
	OldFiles map[string]string `json:"old_files,omitempty"`
}

// Paths returns the changed file paths in deterministic (sorted) order
func (c *Changeset) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for p := range c.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// DeletedPaths returns paths present in OldFiles but absent from Files,
// in sorted order
func (c *Changeset) DeletedPaths() []string {
	var paths []string
	for p := range c.OldFiles {
		if _, ok := c.Files[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// OldContent returns the prior content of a path and whether it existed
func (c *Changeset) OldContent(path string) (string, bool) {
	content, ok := c.OldFiles[path]
	return content, ok
}

// FileCount returns the number of new/modified files
func (c *Changeset) FileCount() int {
	return len(c.Files)
}
