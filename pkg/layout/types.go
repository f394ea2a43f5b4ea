package layout

// State is the engine's run state
type State int

const (
	// Running ticks the simulation every frame
	Running State = iota
	// Paused renders the current frame but schedules no ticks
	Paused
	// Stabilizing ticks against a bounded budget with extra damping
	Stabilizing
	// Stabilized is reached when the budget is exhausted; treated as
	// Paused for ticking purposes
	Stabilized
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stabilizing:
		return "stabilizing"
	case Stabilized:
		return "stabilized"
	default:
		return "unknown"
	}
}

// Position is one node's live position and velocity. Owned exclusively by
// the engine; the only outside writer is an in-progress drag.
type Position struct {
	X, Y   float64
	VX, VY float64
}

// Canvas is the 2D drawable region the engine renders into. Implementations
// translate these primitives to their surface (terminal cells, image, ...).
type Canvas interface {
	Clear()
	DrawLine(x1, y1, x2, y2 float64, color string)
	FillCircle(x, y, r float64, color string)
	StrokeCircle(x, y, r float64, color string)
	DrawText(x, y float64, text, color string)
}

// ViewState carries the selection-dependent inputs for one rendered frame
type ViewState struct {
	SelectedNodeID       string
	SelectedEdgeKey      string
	HighlightedCommunity string
}

// Config tunes the simulation and rendering
type Config struct {
	Width  float64
	Height float64

	// AlphaMin is the cooling floor; alpha decays linearly toward it
	AlphaMin float64
	// MaxPairForce clamps each pairwise repulsion so near-coincident
	// nodes do not jitter
	MaxPairForce float64
	// MaxSpeed clamps velocity magnitude per tick
	MaxSpeed float64
	// NotableWeight is the weighted degree above which a node is labelled
	// even when unselected
	NotableWeight float64
	// Seed fixes the position randomizer; 0 uses wall-clock seeding
	Seed int64
}

// DefaultConfig returns the tuning used by the explorer
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:         width,
		Height:        height,
		AlphaMin:      0.05,
		MaxPairForce:  40,
		MaxSpeed:      12,
		NotableWeight: 30,
	}
}

// TickBudget returns the stabilization tick budget for a graph of n nodes.
// Larger graphs get fewer ticks to bound wall-clock cost.
func TickBudget(n int) int {
	switch {
	case n <= 500:
		return 500
	case n <= 800:
		return 400
	default:
		return 300
	}
}
