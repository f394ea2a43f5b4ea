package layout

import (
	"testing"

	"github.com/dmorval/linkscope/pkg/graph"
)

// recordingCanvas captures draw calls for assertions
type recordingCanvas struct {
	clears  int
	lines   []string
	fills   []string
	strokes []string
	texts   []string
}

func (c *recordingCanvas) Clear() { c.clears++ }
func (c *recordingCanvas) DrawLine(x1, y1, x2, y2 float64, color string) {
	c.lines = append(c.lines, color)
}
func (c *recordingCanvas) FillCircle(x, y, r float64, color string) {
	c.fills = append(c.fills, color)
}
func (c *recordingCanvas) StrokeCircle(x, y, r float64, color string) {
	c.strokes = append(c.strokes, color)
}
func (c *recordingCanvas) DrawText(x, y float64, text, color string) {
	c.texts = append(c.texts, text)
}

func renderGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "111", Community: "c0", WeightedDegree: 50}, // above NotableWeight
			{ID: "222", Community: "c0", WeightedDegree: 5},
			{ID: "333", Community: "isolate"},
		},
		Edges: []graph.Edge{
			{ID: "111->222", Source: "111", Target: "222", Weight: 5},
		},
	}
}

func renderEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig(1200, 800)
	cfg.Seed = 11
	e := NewEngine(cfg, nil)
	e.SetGraph(renderGraph())
	e.Pause()
	return e
}

func TestRender_DrawsEverything(t *testing.T) {
	e := renderEngine(t)
	c := &recordingCanvas{}

	e.Render(c, ViewState{})

	if c.clears != 1 {
		t.Errorf("Expected 1 clear, got %d", c.clears)
	}
	if len(c.lines) != 1 {
		t.Errorf("Expected 1 edge line, got %d", len(c.lines))
	}
	if len(c.fills) != 3 {
		t.Errorf("Expected 3 node fills, got %d", len(c.fills))
	}
	if len(c.strokes) != 0 {
		t.Errorf("Expected no selection outlines, got %d", len(c.strokes))
	}
	// Only the notable node gets a label when nothing is selected
	if len(c.texts) != 1 || c.texts[0] != "111" {
		t.Errorf("Expected only the notable label, got %v", c.texts)
	}
}

func TestRender_PausedEngineStillDrawsFullFrame(t *testing.T) {
	e := renderEngine(t)
	c := &recordingCanvas{}

	e.Render(c, ViewState{})
	before := len(c.fills)

	// No ticks between frames; render again
	c2 := &recordingCanvas{}
	e.Render(c2, ViewState{})
	if len(c2.fills) != before {
		t.Error("Second paused frame drew a different node count")
	}
}

func TestRender_SelectedNodeOutlinedAndLabelled(t *testing.T) {
	e := renderEngine(t)
	c := &recordingCanvas{}

	e.Render(c, ViewState{SelectedNodeID: "222"})

	if len(c.strokes) != 1 {
		t.Fatalf("Expected 1 selection outline, got %d", len(c.strokes))
	}
	if c.strokes[0] != HighlightColor {
		t.Errorf("Outline color %s, want %s", c.strokes[0], HighlightColor)
	}
	// Notable node 111 plus selected 222
	if len(c.texts) != 2 {
		t.Errorf("Expected 2 labels, got %v", c.texts)
	}
}

func TestRender_SelectedEdgeHighlighted(t *testing.T) {
	e := renderEngine(t)
	c := &recordingCanvas{}

	e.Render(c, ViewState{SelectedEdgeKey: "111->222"})

	if len(c.lines) != 1 || c.lines[0] != HighlightColor {
		t.Errorf("Expected highlighted edge, got %v", c.lines)
	}
}

func TestRender_CommunityHighlightOutlinesMembers(t *testing.T) {
	e := renderEngine(t)
	c := &recordingCanvas{}

	e.Render(c, ViewState{HighlightedCommunity: "c0"})

	// Both c0 members outlined; the isolate is not
	if len(c.strokes) != 2 {
		t.Errorf("Expected 2 outlines for c0 members, got %d", len(c.strokes))
	}
}

func TestCommunityColor_Deterministic(t *testing.T) {
	if CommunityColor("c3") != CommunityColor("c3") {
		t.Error("Same community must map to the same color")
	}
	if CommunityColor("isolate") != IsolateColor {
		t.Error("Isolate sentinel must map to the fixed gray")
	}
	if CommunityColor("") != IsolateColor {
		t.Error("Empty community must fall back to gray")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("+15551234567890"); len([]rune(got)) != labelMaxLen {
		t.Errorf("Truncated label has %d runes, want %d", len([]rune(got)), labelMaxLen)
	}
	if got := truncateLabel("111"); got != "111" {
		t.Errorf("Short label altered: %s", got)
	}
}
