package layout

import (
	"math"

	"github.com/dmorval/linkscope/pkg/registry"
)

const (
	repulsionStrength  = 900.0
	attractionStrength = 0.01
	// Above this node count the repulsion pass is strided across ticks so
	// one tick stays inside a frame budget
	repulsionStrideFrom = 600
)

// step runs one simulation tick: pairwise repulsion, per-edge attraction,
// damped integration, boundary clamping. The dragged node, if any, is
// driven by the pointer and skipped entirely.
func (e *Engine) step() {
	ids := make([]string, 0, len(e.nodes))
	for i := range e.nodes {
		ids = append(ids, registry.Normalize(e.nodes[i].ID))
	}

	fx := make(map[string]float64, len(ids))
	fy := make(map[string]float64, len(ids))

	// Inverse-square repulsion between every pair, alpha-scaled and
	// clamped so near-coincident nodes push apart without jitter.
	// Large graphs process alternating pair parities per tick, so every
	// pair is visited every second tick.
	strided := len(ids) > repulsionStrideFrom
	for i := 0; i < len(ids); i++ {
		a := e.positions[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			if strided && (i+j+e.tickCount)%2 != 0 {
				continue
			}
			b := e.positions[ids[j]]

			dx := a.X - b.X
			dy := a.Y - b.Y
			distSq := dx*dx + dy*dy
			if distSq < 0.01 {
				distSq = 0.01
			}
			dist := math.Sqrt(distSq)

			force := e.alpha * repulsionStrength / distSq
			if force > e.cfg.MaxPairForce {
				force = e.cfg.MaxPairForce
			}
			ux, uy := dx/dist, dy/dist

			fx[ids[i]] += ux * force
			fy[ids[i]] += uy * force
			fx[ids[j]] -= ux * force
			fy[ids[j]] -= uy * force
		}
	}

	// Linear spring attraction along every edge: force grows with current
	// distance rather than restoring to a rest length
	for i := range e.edges {
		src := registry.Normalize(e.edges[i].Source)
		dst := registry.Normalize(e.edges[i].Target)
		a, okA := e.positions[src]
		b, okB := e.positions[dst]
		if !okA || !okB {
			continue
		}

		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 0.01 {
			continue
		}

		force := e.alpha * attractionStrength * dist
		if force > e.cfg.MaxPairForce {
			force = e.cfg.MaxPairForce
		}
		ux, uy := dx/dist, dy/dist

		fx[src] += ux * force
		fy[src] += uy * force
		fx[dst] -= ux * force
		fy[dst] -= uy * force
	}

	// Damping rises as alpha falls during stabilization, to converge faster
	damping := 0.85
	if e.state == Stabilizing {
		damping = math.Max(0.92, 0.85+0.1*e.alpha)
	}

	for _, id := range ids {
		if id == e.draggedID {
			continue
		}
		p := e.positions[id]

		p.VX = (p.VX + fx[id]) * damping
		p.VY = (p.VY + fy[id]) * damping

		speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
		if speed > e.cfg.MaxSpeed {
			p.VX = p.VX / speed * e.cfg.MaxSpeed
			p.VY = p.VY / speed * e.cfg.MaxSpeed
		}

		p.X += p.VX
		p.Y += p.VY
		e.clamp(id, p)
	}
}
