package layout

import (
	"fmt"
	"testing"

	"github.com/dmorval/linkscope/pkg/graph"
)

func testEngine(t *testing.T, nodeCount int) *Engine {
	t.Helper()
	cfg := DefaultConfig(1200, 800)
	cfg.Seed = 7
	e := NewEngine(cfg, nil)
	e.SetGraph(chainGraph(nodeCount))
	return e
}

// chainGraph builds n nodes connected in a line
func chainGraph(n int) graph.Graph {
	g := graph.Graph{}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graph.Node{
			ID:             fmt.Sprintf("n%03d", i),
			WeightedDegree: float64(2 + i%10),
		})
	}
	for i := 0; i+1 < n; i++ {
		g.Edges = append(g.Edges, graph.Edge{
			Source: fmt.Sprintf("n%03d", i),
			Target: fmt.Sprintf("n%03d", i+1),
			Weight: 2,
		})
	}
	return g
}

func TestEngine_SetGraphStartsRunning(t *testing.T) {
	e := testEngine(t, 5)

	if e.State() != Running {
		t.Errorf("Expected Running after SetGraph, got %s", e.State())
	}
	if e.Alpha() != 1.0 {
		t.Errorf("Expected alpha 1.0 after SetGraph, got %f", e.Alpha())
	}
	for i := 0; i < 5; i++ {
		if _, ok := e.Position(fmt.Sprintf("n%03d", i)); !ok {
			t.Errorf("Node n%03d has no position", i)
		}
	}
}

func TestEngine_PauseResume(t *testing.T) {
	e := testEngine(t, 5)

	e.Pause()
	if e.State() != Paused {
		t.Fatalf("Expected Paused, got %s", e.State())
	}
	if e.ShouldTick() {
		t.Error("Paused engine must not request ticks")
	}
	if e.Tick() {
		t.Error("Tick on a paused engine must refuse")
	}

	e.Resume()
	if e.State() != Running {
		t.Errorf("Expected Running after Resume, got %s", e.State())
	}
}

func TestEngine_StabilizationTerminates(t *testing.T) {
	e := testEngine(t, 10)
	completed := 0
	e.OnStabilizationComplete(func() { completed++ })

	e.Stabilize()
	if e.State() != Stabilizing {
		t.Fatalf("Expected Stabilizing, got %s", e.State())
	}

	budget := TickBudget(10)
	ticks := 0
	for e.ShouldTick() {
		e.Tick()
		ticks++
		if ticks > budget+1 {
			t.Fatalf("Stabilization exceeded its budget of %d ticks", budget)
		}
	}

	if ticks != budget {
		t.Errorf("Expected exactly %d ticks, got %d", budget, ticks)
	}
	if e.State() != Stabilized {
		t.Errorf("Expected Stabilized, got %s", e.State())
	}
	if completed != 1 {
		t.Errorf("Completion callback fired %d times, want 1", completed)
	}
	if e.ShouldTick() {
		t.Error("Stabilized engine must not request further ticks")
	}
}

func TestEngine_ResumeFromStabilized(t *testing.T) {
	e := testEngine(t, 5)
	e.Stabilize()
	for e.ShouldTick() {
		e.Tick()
	}

	e.Resume()
	if e.State() != Running {
		t.Errorf("Expected Running after resume from Stabilized, got %s", e.State())
	}
}

func TestEngine_StabilizeIsIdempotentWhileRunning(t *testing.T) {
	e := testEngine(t, 5)
	e.Stabilize()
	e.Tick()
	used := 1

	// A second Stabilize mid-run must not restart the budget
	e.Stabilize()
	budget := TickBudget(5)
	for e.ShouldTick() {
		e.Tick()
		used++
	}
	if used != budget {
		t.Errorf("Budget restarted: used %d ticks, want %d", used, budget)
	}
}

func TestEngine_AlphaDecaysToFloor(t *testing.T) {
	e := testEngine(t, 5)

	for i := 0; i < 2*TickBudget(5); i++ {
		e.Tick()
	}

	if e.Alpha() != DefaultConfig(1200, 800).AlphaMin {
		t.Errorf("Alpha should rest at the floor, got %f", e.Alpha())
	}
}

func TestEngine_PositionsStayInBounds(t *testing.T) {
	e := testEngine(t, 30)

	for i := 0; i < 200; i++ {
		e.Tick()
	}

	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("n%03d", i)
		p, ok := e.Position(id)
		if !ok {
			t.Fatalf("Missing position for %s", id)
		}
		if p.X < 0 || p.X > 1200 || p.Y < 0 || p.Y > 800 {
			t.Errorf("Node %s escaped bounds: (%f, %f)", id, p.X, p.Y)
		}
	}
}

func TestEngine_LargeGraphRepulsionRunsEveryTick(t *testing.T) {
	// No edges: any movement comes from the strided repulsion pass
	g := graph.Graph{}
	n := 700
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, graph.Node{ID: fmt.Sprintf("n%03d", i)})
	}

	cfg := DefaultConfig(1200, 800)
	cfg.Seed = 7
	e := NewEngine(cfg, nil)
	e.SetGraph(g)

	snapshot := func() map[string]Position {
		out := make(map[string]Position, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("n%03d", i)
			p, _ := e.Position(id)
			out[id] = p
		}
		return out
	}

	// Both tick parities must push nodes apart
	for tick := 0; tick < 2; tick++ {
		before := snapshot()
		e.Tick()
		moved := 0
		for id, prev := range before {
			if now, _ := e.Position(id); now != prev {
				moved++
			}
		}
		if moved < n/2 {
			t.Fatalf("Tick %d moved %d of %d nodes; repulsion pass mostly skipped", tick, moved, n)
		}
	}
}

func TestEngine_DeterministicWithSeed(t *testing.T) {
	a := testEngine(t, 10)
	b := testEngine(t, 10)

	for i := 0; i < 50; i++ {
		a.Tick()
		b.Tick()
	}

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("n%03d", i)
		pa, _ := a.Position(id)
		pb, _ := b.Position(id)
		if pa != pb {
			t.Fatalf("Seeded engines diverged at %s: %+v vs %+v", id, pa, pb)
		}
	}
}

func TestEngine_ResetLayoutRestartsFromAnyState(t *testing.T) {
	e := testEngine(t, 5)
	e.Stabilize()
	for e.ShouldTick() {
		e.Tick()
	}

	e.ResetLayout()
	if e.State() != Running {
		t.Errorf("Expected Running after ResetLayout, got %s", e.State())
	}
	if e.Alpha() != 1.0 {
		t.Errorf("Expected alpha reset to 1.0, got %f", e.Alpha())
	}
}

func TestNodeRadius_Clamped(t *testing.T) {
	tests := []struct {
		wd   float64
		want float64
	}{
		{0, 8},    // floor
		{16, 8},   // sqrt(16)*2 = 8
		{100, 20}, // sqrt(100)*2 = 20
		{1000, 25}, // ceiling
	}
	for _, tt := range tests {
		if got := NodeRadius(tt.wd); got != tt.want {
			t.Errorf("NodeRadius(%f) = %f, want %f", tt.wd, got, tt.want)
		}
	}
}

func TestTickBudget_Tiers(t *testing.T) {
	tests := []struct {
		nodes int
		want  int
	}{
		{0, 500},
		{500, 500},
		{501, 400},
		{800, 400},
		{801, 300},
		{5000, 300},
	}
	for _, tt := range tests {
		if got := TickBudget(tt.nodes); got != tt.want {
			t.Errorf("TickBudget(%d) = %d, want %d", tt.nodes, got, tt.want)
		}
	}
}
