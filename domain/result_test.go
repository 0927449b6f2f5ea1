package domain

import (
	"strings"
	"testing"
)

func TestSeverityCountsAddAndTotal(t *testing.T) {
	var counts SeverityCounts
	counts.Add(SeverityCritical)
	counts.Add(SeverityHigh)
	counts.Add(SeverityHigh)
	counts.Add(SeverityMedium)
	counts.Add(SeverityLow)

	if counts.Critical != 1 || counts.High != 2 || counts.Medium != 1 || counts.Low != 1 {
		t.Errorf("unexpected histogram: %+v", counts)
	}
	if counts.Total() != 5 {
		t.Errorf("expected total 5, got %d", counts.Total())
	}
}

func TestQualityCheckResultFindingCount(t *testing.T) {
	result := &QualityCheckResult{
		Security:        []SecurityFinding{{CheckName: "hardcoded_credentials"}},
		Architecture:    []ArchitectureFinding{{CheckName: "layer_separation"}, {CheckName: "circular_dependency"}},
		TestCoverage:    []TestCoverageFinding{},
		Performance:     []PerformanceFinding{{CheckName: "memory_leak"}},
		BreakingChanges: []BreakingChangeFinding{},
	}

	if result.FindingCount() != 4 {
		t.Errorf("expected 4 findings, got %d", result.FindingCount())
	}
}

func TestQualityCheckResultBlocking(t *testing.T) {
	result := &QualityCheckResult{SeverityCounts: SeverityCounts{Medium: 3, Low: 1}}
	if result.Blocking() {
		t.Error("medium/low findings should not block")
	}

	result.SeverityCounts.High = 1
	if !result.Blocking() {
		t.Error("high findings should block")
	}
}

func TestOverrideDecisionApply(t *testing.T) {
	result := &QualityCheckResult{Passed: false, Mode: ModeError}

	short := OverrideDecision{ApprovedBy: "lead", Justification: "false positive"}
	if err := short.Apply(result); err == nil {
		t.Fatal("expected rejection of short justification")
	}
	if result.OverrideUsed {
		t.Error("failed override should not mark the result")
	}

	ok := OverrideDecision{
		ApprovedBy:    "lead",
		Justification: strings.Repeat("credential pattern matched test fixture data ", 2),
	}
	if err := ok.Apply(result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OverrideUsed || !result.Passed {
		t.Error("override should mark the result as passed")
	}
	if result.OverrideJustification != ok.Justification {
		t.Error("justification should be recorded on the result")
	}
	if result.OverrideApprovedBy != "lead" {
		t.Error("approver should be recorded on the result")
	}
}

func TestOverrideDecisionApplyNilResult(t *testing.T) {
	o := OverrideDecision{Justification: strings.Repeat("x", MinOverrideJustificationLen)}
	if err := o.Apply(nil); err == nil {
		t.Error("expected error for nil result")
	}
}

func TestChangesetPathsSorted(t *testing.T) {
	cs := &Changeset{
		Files: map[string]string{
			"services/user.py": "",
			"api/routes.py":    "",
			"models/user.py":   "",
		},
	}

	paths := cs.Paths()
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(paths))
	}
	if paths[0] != "api/routes.py" || paths[2] != "services/user.py" {
		t.Errorf("paths not sorted: %v", paths)
	}
}

func TestChangesetDeletedPaths(t *testing.T) {
	cs := &Changeset{
		Files: map[string]string{"kept.py": "x = 1"},
		OldFiles: map[string]string{
			"kept.py":    "x = 0",
			"removed.py": "def gone(): pass",
		},
	}

	deleted := cs.DeletedPaths()
	if len(deleted) != 1 || deleted[0] != "removed.py" {
		t.Errorf("unexpected deleted paths: %v", deleted)
	}
}

func TestDependencyGraphDedupesEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode(&ModuleNode{ID: "a", FilePath: "a.py"})
	g.AddNode(&ModuleNode{ID: "b", FilePath: "b.py"})
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if len(g.Edges["a"]) != 1 {
		t.Errorf("expected deduped edge, got %v", g.Edges["a"])
	}
	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.NodeCount())
	}
}

func TestDependencyGraphSortedNodeIDs(t *testing.T) {
	g := NewDependencyGraph()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(&ModuleNode{ID: id})
	}

	ids := g.SortedNodeIDs()
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("node IDs not sorted: %v", ids)
	}
}
