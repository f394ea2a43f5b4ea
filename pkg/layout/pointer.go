package layout

import (
	"math"

	"github.com/dmorval/linkscope/pkg/registry"
)

// HitTest returns the node under the cursor, or "". All nodes are tested
// against position and radius; when several overlap the cursor the nearest
// center wins.
func (e *Engine) HitTest(x, y float64) string {
	best := ""
	bestDist := math.MaxFloat64

	for i := range e.nodes {
		id := registry.Normalize(e.nodes[i].ID)
		p, ok := e.positions[id]
		if !ok {
			continue
		}

		dx := p.X - x
		dy := p.Y - y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist <= e.radius[id] && dist < bestDist {
			best = id
			bestDist = dist
		}
	}
	return best
}

// BeginDrag hit-tests the press position and starts dragging the node it
// lands on. Returns the hit node id ("" on miss) so the caller can also
// fire selection.
func (e *Engine) BeginDrag(x, y float64) string {
	id := e.HitTest(x, y)
	if id != "" {
		e.draggedID = id
		e.DragTo(x, y)
	}
	return id
}

// DragTo drives the dragged node from the pointer: position follows the
// cursor clamped to canvas bounds, velocity is zeroed so the node does not
// fly off on release.
func (e *Engine) DragTo(x, y float64) {
	if e.draggedID == "" {
		return
	}
	p, ok := e.positions[e.draggedID]
	if !ok {
		return
	}
	p.X = x
	p.Y = y
	p.VX = 0
	p.VY = 0
	e.clamp(e.draggedID, p)
}

// EndDrag releases the dragged node in place; positions are not
// re-randomized
func (e *Engine) EndDrag() {
	e.draggedID = ""
}

// Dragging returns the id of the node currently being dragged, or ""
func (e *Engine) Dragging() string {
	return e.draggedID
}
