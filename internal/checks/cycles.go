package checks

import (
	"strings"

	"github.com/mergegate/mergegate/domain"
	"github.com/mergegate/mergegate/internal/constants"
)

// cycleWalker carries the traversal state of one cycle detection pass
type cycleWalker struct {
	graph   *domain.DependencyGraph
	visited map[string]bool
	onPath  map[string]bool
	path    []string
	cycles  [][]string
}

// DetectCycles finds import cycles with a depth-first search that keeps
// an explicit active path. Each back edge to a node on the active path
// reports one cycle. Roots and neighbors are walked in sorted order so
// output is deterministic.
func DetectCycles(graph *domain.DependencyGraph) []domain.ArchitectureFinding {
	w := &cycleWalker{
		graph:   graph,
		visited: make(map[string]bool, graph.NodeCount()),
		onPath:  make(map[string]bool),
	}

	for _, id := range graph.SortedNodeIDs() {
		if !w.visited[id] {
			w.walk(id)
		}
	}

	findings := make([]domain.ArchitectureFinding, 0, len(w.cycles))
	for _, cycle := range w.cycles {
		entry := cycle[0]
		filePath := entry
		if node := graph.GetNode(entry); node != nil {
			filePath = node.FilePath
		}
		findings = append(findings, domain.ArchitectureFinding{
			CheckName:    constants.CheckCircularDependency,
			Severity:     domain.SeverityHigh,
			FilePath:     filePath,
			LineNumber:   1,
			Message:      "Circular dependency: " + strings.Join(cycle, " → "),
			ViolatedRule: "no_circular_dependencies",
			SuggestedFix: "Break the cycle by extracting the shared code into a separate module",
		})
	}
	return findings
}

func (w *cycleWalker) walk(id string) {
	w.visited[id] = true
	w.onPath[id] = true
	w.path = append(w.path, id)

	for _, next := range w.graph.Neighbors(id) {
		if w.graph.GetNode(next) == nil {
			continue
		}
		if w.onPath[next] {
			w.recordCycle(next)
			continue
		}
		if !w.visited[next] {
			w.walk(next)
		}
	}

	w.path = w.path[:len(w.path)-1]
	delete(w.onPath, id)
}

// recordCycle captures the active path from the back edge's target to
// the current node, closed with the target again
func (w *cycleWalker) recordCycle(target string) {
	start := 0
	for i, id := range w.path {
		if id == target {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(w.path)-start+1)
	cycle = append(cycle, w.path[start:]...)
	cycle = append(cycle, target)
	w.cycles = append(w.cycles, cycle)
}
