package layout

import (
	"math"
	"math/rand"
	"time"

	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/registry"
)

// Engine runs the interactive force-directed simulation for one graph.
// It owns all node positions; nothing outside reads or writes them except
// through Render, hit testing and the drag calls.
type Engine struct {
	cfg    Config
	logger logging.Logger
	rng    *rand.Rand

	nodes     []graph.Node
	edges     []graph.Edge
	nodeIndex map[string]*graph.Node
	radius    map[string]float64
	positions map[string]*Position

	state       State
	alpha       float64
	budget      int
	budgetUsed  int
	draggedID   string
	tickCount   int
	onStabilize func()
}

// NewEngine creates an engine with no graph loaded
func NewEngine(cfg Config, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger.With(logging.Component("layout")),
		rng:       rand.New(rand.NewSource(seed)),
		positions: make(map[string]*Position),
		state:     Paused,
		alpha:     1.0,
	}
}

// OnStabilizationComplete registers the callback fired once when a
// stabilization budget is exhausted
func (e *Engine) OnStabilizationComplete(fn func()) {
	e.onStabilize = fn
}

// State returns the current run state
func (e *Engine) State() State {
	return e.state
}

// Alpha returns the current cooling factor
func (e *Engine) Alpha() float64 {
	return e.alpha
}

// SetGraph loads a new payload's graph: all positions are re-randomized
// and the engine returns to Running regardless of prior state.
func (e *Engine) SetGraph(g graph.Graph) {
	e.nodes = g.Nodes
	e.edges = g.Edges
	e.nodeIndex = make(map[string]*graph.Node, len(g.Nodes))
	e.radius = make(map[string]float64, len(g.Nodes))
	for i := range e.nodes {
		id := registry.Normalize(e.nodes[i].ID)
		e.nodeIndex[id] = &e.nodes[i]
		e.radius[id] = NodeRadius(e.nodes[i].WeightedDegree)
	}
	e.randomizePositions()
	e.state = Running
	e.alpha = 1.0
	e.draggedID = ""
	e.logger.Debug("graph loaded", logging.Count(len(g.Nodes)))
}

// ResetLayout re-randomizes positions and forces Running, from any state
func (e *Engine) ResetLayout() {
	e.randomizePositions()
	e.state = Running
	e.alpha = 1.0
}

// Pause stops ticking; the current frame still renders
func (e *Engine) Pause() {
	if e.state == Running {
		e.state = Paused
	}
}

// Resume restarts ticking from Paused or Stabilized
func (e *Engine) Resume() {
	if e.state == Paused || e.state == Stabilized {
		e.state = Running
	}
}

// Stabilize begins a bounded cooling run. Ticking resumes if the engine
// was paused; stabilization needs active ticks to converge.
func (e *Engine) Stabilize() {
	if e.state == Stabilizing {
		return
	}
	e.state = Stabilizing
	e.alpha = 1.0
	e.budget = TickBudget(len(e.nodes))
	e.budgetUsed = 0
	e.logger.Debug("stabilizing", logging.Ticks(e.budget))
}

// Resize updates the canvas bounds; positions are clamped on next tick
func (e *Engine) Resize(width, height float64) {
	e.cfg.Width = width
	e.cfg.Height = height
}

// ShouldTick reports whether the host should schedule another tick
func (e *Engine) ShouldTick() bool {
	return e.state == Running || e.state == Stabilizing
}

// Tick advances the simulation one step and returns whether further ticks
// should be scheduled. On budget exhaustion during stabilization it fires
// StabilizationComplete once and settles into Stabilized.
func (e *Engine) Tick() bool {
	if !e.ShouldTick() {
		return false
	}

	e.step()
	e.tickCount++

	// Linear cooling toward the floor
	decay := (1.0 - e.cfg.AlphaMin) / float64(TickBudget(len(e.nodes)))
	e.alpha = math.Max(e.cfg.AlphaMin, e.alpha-decay)

	if e.state == Stabilizing {
		e.budgetUsed++
		if e.budgetUsed >= e.budget {
			e.state = Stabilized
			e.logger.Debug("stabilization complete", logging.Ticks(e.budgetUsed))
			if e.onStabilize != nil {
				e.onStabilize()
			}
			return false
		}
	}
	return true
}

// Position returns a copy of a node's current position
func (e *Engine) Position(id string) (Position, bool) {
	p, ok := e.positions[registry.Normalize(id)]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

func (e *Engine) randomizePositions() {
	e.positions = make(map[string]*Position, len(e.nodes))
	for i := range e.nodes {
		id := registry.Normalize(e.nodes[i].ID)
		r := NodeRadius(e.nodes[i].WeightedDegree)
		e.positions[id] = &Position{
			X: r + e.rng.Float64()*(e.cfg.Width-2*r),
			Y: r + e.rng.Float64()*(e.cfg.Height-2*r),
		}
	}
}

// NodeRadius sizes a node by its weighted degree, clamped to keep labels
// readable and small talkers visible
func NodeRadius(weightedDegree float64) float64 {
	return math.Max(8, math.Min(25, math.Sqrt(weightedDegree)*2))
}

func (e *Engine) clamp(id string, p *Position) {
	r, ok := e.radius[id]
	if !ok {
		r = 8
	}
	p.X = math.Max(r, math.Min(e.cfg.Width-r, p.X))
	p.Y = math.Max(r, math.Min(e.cfg.Height-r, p.Y))
}
