package layout

import (
	"github.com/dmorval/linkscope/pkg/registry"
)

const labelMaxLen = 12

// Render draws the current frame: every edge as a line between live
// positions, every node as a filled circle sized by weighted degree and
// colored by community. Rendering reads positions but never moves them,
// so a paused engine still draws a complete frame.
func (e *Engine) Render(c Canvas, view ViewState) {
	c.Clear()

	selectedNode := registry.Normalize(view.SelectedNodeID)

	for i := range e.edges {
		edge := &e.edges[i]
		a, okA := e.positions[registry.Normalize(edge.Source)]
		b, okB := e.positions[registry.Normalize(edge.Target)]
		if !okA || !okB {
			continue
		}

		color := EdgeColor
		if view.SelectedEdgeKey != "" && edgeMatchesKey(edge.Key(), edge.Source, edge.Target, view.SelectedEdgeKey) {
			color = HighlightColor
		}
		c.DrawLine(a.X, a.Y, b.X, b.Y, color)
	}

	for i := range e.nodes {
		node := &e.nodes[i]
		id := registry.Normalize(node.ID)
		p, ok := e.positions[id]
		if !ok {
			continue
		}

		r := e.radius[id]
		selected := id == selectedNode
		inCommunity := view.HighlightedCommunity != "" && node.Community == view.HighlightedCommunity
		if selected || inCommunity {
			r += 3
		}

		c.FillCircle(p.X, p.Y, r, CommunityColor(node.Community))
		if selected || inCommunity {
			c.StrokeCircle(p.X, p.Y, r+2, HighlightColor)
		}

		if selected || node.WeightedDegree > e.cfg.NotableWeight {
			c.DrawText(p.X+r+2, p.Y, truncateLabel(node.ID), LabelColor)
		}
	}
}

func edgeMatchesKey(key, source, target, selected string) bool {
	if key == selected {
		return true
	}
	// Selection may carry the pair key even when the edge has its own id
	return registry.PairKey(source, target) == selected
}

func truncateLabel(id string) string {
	if len(id) <= labelMaxLen {
		return id
	}
	return id[:labelMaxLen-1] + "…"
}
