package checks

import (
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/extractor"
)

// moduleID converts a file path into its dotted module identifier
func moduleID(filePath string) string {
	id := filePath
	if idx := strings.LastIndex(id, "."); idx > 0 {
		id = id[:idx]
	}
	return strings.ReplaceAll(id, "/", ".")
}

// BuildGraph constructs the import graph of the changeset's Python
// files. Imports of modules outside the changeset resolve to their
// top-level package name so that sibling files sharing a package still
// connect.
func BuildGraph(cs *domain.Changeset, ext *extractor.Extractor) *domain.DependencyGraph {
	graph := domain.NewDependencyGraph()

	paths := make([]string, 0, cs.FileCount())
	for _, path := range cs.Paths() {
		if !strings.HasSuffix(path, ".py") {
			continue
		}
		paths = append(paths, path)
		graph.AddNode(&domain.ModuleNode{ID: moduleID(path), FilePath: path})
	}

	for _, path := range paths {
		source := moduleID(path)
		facts := ext.Extract(path, []byte(cs.Files[path]))
		for _, imp := range facts.Imports {
			target := imp.Module
			if graph.GetNode(target) == nil {
				if idx := strings.Index(target, "."); idx > 0 {
					target = target[:idx]
				}
			}
			if target == source {
				continue
			}
			graph.AddEdge(source, target)
		}
	}

	return graph
}
