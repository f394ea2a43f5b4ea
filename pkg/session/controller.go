package session

import (
	"context"
	"errors"

	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/layout"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/registry"
)

// Controller owns the filter state, the active payload, selection, and the
// one-shot focus queue. It runs on the event-loop thread: all methods are
// synchronous and only Fetch.Run happens elsewhere.
type Controller struct {
	reg    *registry.Registry
	engine *layout.Engine
	logger logging.Logger

	dataset string
	filters FilterState
	payload *graph.Payload

	current *Fetch

	selectedNodeID       string
	selectedEdgeKey      string
	highlightedCommunity string

	pendingFocus *FocusRequest
	appliedFocus map[string]bool
	focusNotice  string

	errMsg string
}

// NewController wires a controller to its registry and layout engine
func NewController(eng *layout.Engine, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Controller{
		reg:          registry.New(),
		engine:       eng,
		logger:       logger.With(logging.Component("session")),
		filters:      DefaultFilters(),
		appliedFocus: make(map[string]bool),
	}
}

// Registry exposes the current payload's index for derived views
func (c *Controller) Registry() *registry.Registry {
	return c.reg
}

// Filters returns the current filter state
func (c *Controller) Filters() FilterState {
	return c.filters
}

// Dataset returns the active dataset scope
func (c *Controller) Dataset() string {
	return c.dataset
}

// Payload returns the active payload, nil before the first successful fetch
func (c *Controller) Payload() *graph.Payload {
	return c.payload
}

// ErrorMessage returns the current fetch error, "" when none
func (c *Controller) ErrorMessage() string {
	return c.errMsg
}

// FocusNotice returns the pending advisory banner text, "" when none
func (c *Controller) FocusNotice() string {
	return c.focusNotice
}

// DismissFocusNotice clears the advisory banner
func (c *Controller) DismissFocusNotice() {
	c.focusNotice = ""
}

// query assembles the builder query from dataset + filters
func (c *Controller) query() graph.Query {
	return graph.Query{
		DatasetScope:  c.dataset,
		From:          c.filters.From,
		To:            c.filters.To,
		EventType:     c.filters.EventType,
		MinEdgeWeight: c.filters.MinEdgeWeight,
		LimitNodes:    c.filters.LimitNodes,
	}
}

// startFetch supersedes any in-flight fetch and issues a new token.
// Latest request wins: the old fetch is cancelled before the new one exists.
func (c *Controller) startFetch() *Fetch {
	if c.current != nil {
		c.current.Cancel()
	}
	c.current = newFetch(context.Background(), c.query())
	c.logger.Debug("fetch issued", logging.FetchID(c.current.ID), logging.Dataset(c.dataset))
	return c.current
}

// SetDataset switches the dataset scope and issues a new fetch
func (c *Controller) SetDataset(scope string) *Fetch {
	c.dataset = scope
	return c.startFetch()
}

// SetFilters applies a new filter state. Returns the new fetch, or nil when
// the filters did not actually change.
func (c *Controller) SetFilters(f FilterState) *Fetch {
	if c.filters.Equal(f) {
		return nil
	}
	c.filters = f
	return c.startFetch()
}

// ResetFilters restores defaults, clears all selection, and sends the
// layout engine back to Running with fresh positions
func (c *Controller) ResetFilters() *Fetch {
	c.filters = DefaultFilters()
	c.ClearSelection()
	if c.engine != nil {
		c.engine.ResetLayout()
	}
	return c.startFetch()
}

// Refresh re-issues the current query (the retry action)
func (c *Controller) Refresh() *Fetch {
	return c.startFetch()
}

// Resolve feeds a completed fetch back into the controller. A superseded
// response never overwrites state; cancellation never surfaces.
func (c *Controller) Resolve(f *Fetch, payload *graph.Payload, err error) Outcome {
	if f != c.current {
		c.logger.Debug("fetch superseded", logging.FetchID(f.ID))
		return OutcomeSuperseded
	}
	c.current = nil

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		c.logger.Debug("fetch cancelled", logging.FetchID(f.ID))
		return OutcomeCancelled

	case errors.Is(err, graph.ErrDataUnavailable):
		// Empty state, not an error
		c.setPayload(nil)
		c.errMsg = ""
		c.finishFocus(nil)
		return OutcomeEmpty

	case err != nil:
		// Default to clearing: stale data must not masquerade as current
		c.logger.Error("fetch failed", logging.FetchID(f.ID), logging.Error(err))
		c.setPayload(nil)
		c.errMsg = err.Error()
		return OutcomeFailed
	}

	c.setPayload(payload)
	c.errMsg = ""
	c.finishFocus(payload)
	return OutcomeApplied
}

// setPayload swaps the active payload: registry and positions are rebuilt
// wholesale, selection is dropped, the engine restarts Running
func (c *Controller) setPayload(payload *graph.Payload) {
	c.payload = payload
	c.ClearSelection()
	if payload == nil {
		c.reg.Rebuild(graph.Graph{})
		if c.engine != nil {
			c.engine.SetGraph(graph.Graph{})
		}
		return
	}
	c.reg.Rebuild(payload.Graph)
	if c.engine != nil {
		c.engine.SetGraph(payload.Graph)
	}
}

// Close cancels any in-flight fetch on teardown
func (c *Controller) Close() {
	if c.current != nil {
		c.current.Cancel()
		c.current = nil
	}
}
