package session

import (
	"context"
	"time"

	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/graph"
)

// FilterState is the pure filter value owned by the controller. Any change
// is cause for a graph re-fetch.
type FilterState struct {
	From          *time.Time
	To            *time.Time
	EventType     events.EventType
	MinEdgeWeight int
	LimitNodes    int
}

// DefaultFilters returns the initial filter state
func DefaultFilters() FilterState {
	return FilterState{
		EventType:     events.TypeAll,
		MinEdgeWeight: graph.DefaultMinEdgeWeight,
		LimitNodes:    graph.DefaultLimitNodes,
	}
}

// Equal reports whether two filter states select the same events
func (f FilterState) Equal(other FilterState) bool {
	return timeEqual(f.From, other.From) &&
		timeEqual(f.To, other.To) &&
		f.EventType == other.EventType &&
		f.MinEdgeWeight == other.MinEdgeWeight &&
		f.LimitNodes == other.LimitNodes
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// GraphSource is the external graph builder boundary
type GraphSource interface {
	Build(ctx context.Context, q graph.Query) (*graph.Payload, error)
}

// FocusRequest is a one-shot deep-link from another view: pre-filter and
// pre-select a phone number. Delivered at most once per ID regardless of
// duplicate delivery.
type FocusRequest struct {
	ID            string           `json:"id"`
	FocusPhone    string           `json:"focusPhone"`
	FilterFrom    *time.Time       `json:"filterFrom,omitempty"`
	FilterTo      *time.Time       `json:"filterTo,omitempty"`
	EventType     events.EventType `json:"eventType,omitempty"`
	MinEdgeWeight int              `json:"minEdgeWeight,omitempty"`
	LimitNodes    int              `json:"limitNodes,omitempty"`
}

// Outcome classifies what Resolve did with a fetch result
type Outcome int

const (
	// OutcomeApplied means the payload became the active graph
	OutcomeApplied Outcome = iota
	// OutcomeSuperseded means a newer fetch had replaced this one
	OutcomeSuperseded
	// OutcomeCancelled means the fetch was cancelled; not user-visible
	OutcomeCancelled
	// OutcomeEmpty means no events matched; rendered as an empty state
	OutcomeEmpty
	// OutcomeFailed means the upstream builder failed; retryable
	OutcomeFailed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSuperseded:
		return "superseded"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Contact is one entry in a selected node's top contacts list
type Contact struct {
	Number        string  `json:"number"`
	Weight        float64 `json:"weight"`
	EventCount    int     `json:"eventCount"`
	TotalDuration float64 `json:"totalDuration"`
}

// FocusNotFoundNotice is the advisory shown when a deep-link phone is
// absent from the graph under the merged filters
const FocusNotFoundNotice = "number not present under these filters"
