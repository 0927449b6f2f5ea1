package domain

import "sort"

// ModuleNode represents a node in the dependency graph
type ModuleNode struct {
	// ID is the module identifier derived from the file path
	ID string `json:"id"`

	// FilePath is the changeset path the module came from
	FilePath string `json:"file_path"`
}

// DependencyGraph is the import graph built over a changeset. It is built
// once per project-wide architecture check and discarded after use.
type DependencyGraph struct {
	// Nodes maps module ID to ModuleNode
	Nodes map[string]*ModuleNode `json:"nodes"`

	// Edges maps source module ID to imported module IDs
	Edges map[string][]string `json:"edges"`
}

// NewDependencyGraph creates a new empty DependencyGraph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes: make(map[string]*ModuleNode),
		Edges: make(map[string][]string),
	}
}

// AddNode adds a node to the graph
func (g *DependencyGraph) AddNode(node *ModuleNode) {
	if node == nil {
		return
	}
	g.Nodes[node.ID] = node
}

// AddEdge adds a directed edge. Duplicate edges are dropped so the cycle
// detector does not report the same back edge twice.
func (g *DependencyGraph) AddEdge(from, to string) {
	for _, existing := range g.Edges[from] {
		if existing == to {
			return
		}
	}
	g.Edges[from] = append(g.Edges[from], to)
}

// GetNode returns a node by ID, or nil
func (g *DependencyGraph) GetNode(id string) *ModuleNode {
	return g.Nodes[id]
}

// Neighbors returns the outgoing edge targets of a node in sorted order
func (g *DependencyGraph) Neighbors(id string) []string {
	targets := make([]string, len(g.Edges[id]))
	copy(targets, g.Edges[id])
	sort.Strings(targets)
	return targets
}

// NodeCount returns the number of nodes in the graph
func (g *DependencyGraph) NodeCount() int {
	return len(g.Nodes)
}

// SortedNodeIDs returns all node IDs in sorted order for deterministic
// traversal
func (g *DependencyGraph) SortedNodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
