package session

import (
	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/registry"
)

// SubmitFocus accepts a deep-link focus request from another view. The
// supplied filter values are merged into FilterState and a fetch is issued;
// once a payload arrives the focus phone is selected or an advisory raised.
// A request id already applied is a no-op, so duplicate delivery of the
// same request never re-fetches or re-selects. Returns the fetch to run,
// or nil for duplicates.
func (c *Controller) SubmitFocus(req FocusRequest) *Fetch {
	if req.ID != "" && c.appliedFocus[req.ID] {
		c.logger.Debug("focus request already applied", logging.FocusID(req.ID))
		return nil
	}
	if req.ID != "" && c.pendingFocus != nil && c.pendingFocus.ID == req.ID {
		c.logger.Debug("focus request already pending", logging.FocusID(req.ID))
		return nil
	}

	merged := c.filters
	if req.FilterFrom != nil {
		merged.From = req.FilterFrom
	}
	if req.FilterTo != nil {
		merged.To = req.FilterTo
	}
	if req.EventType != "" {
		merged.EventType = req.EventType
	}
	if req.MinEdgeWeight > 0 {
		merged.MinEdgeWeight = req.MinEdgeWeight
	}
	if req.LimitNodes > 0 {
		merged.LimitNodes = req.LimitNodes
	}

	pending := req
	c.pendingFocus = &pending
	c.filters = merged
	return c.startFetch()
}

// PendingFocus reports whether a focus request is waiting for a payload
func (c *Controller) PendingFocus() bool {
	return c.pendingFocus != nil
}

// finishFocus applies the pending focus request against the payload that
// just arrived, then marks it applied and clears it atomically so neither
// a duplicate delivery nor a reload can reapply it.
func (c *Controller) finishFocus(payload *graph.Payload) {
	if c.pendingFocus == nil {
		return
	}
	req := *c.pendingFocus
	c.pendingFocus = nil
	if req.ID != "" {
		c.appliedFocus[req.ID] = true
	}

	phone := registry.Normalize(req.FocusPhone)
	if payload == nil || c.reg.Node(phone) == nil {
		c.focusNotice = FocusNotFoundNotice
		c.logger.Debug("focus phone absent", logging.FocusID(req.ID), logging.NodeID(phone))
		return
	}

	c.SelectNode(phone)
	c.logger.Debug("focus applied", logging.FocusID(req.ID), logging.NodeID(phone))
}
