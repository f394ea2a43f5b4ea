package session

import (
	"sort"

	"github.com/dmorval/linkscope/pkg/graph"
)

// SelectNode makes the node the current selection. Node and edge selection
// are mutually exclusive: any edge selection is cleared. Selecting an
// unknown id clears node selection instead.
func (c *Controller) SelectNode(id string) {
	c.selectedEdgeKey = ""
	if c.reg.Node(id) == nil {
		c.selectedNodeID = ""
		return
	}
	c.selectedNodeID = c.reg.Node(id).ID
}

// SelectEdge makes the edge the current selection and clears node selection
func (c *Controller) SelectEdge(key string) {
	c.selectedNodeID = ""
	if c.reg.Edge(key) == nil {
		c.selectedEdgeKey = ""
		return
	}
	c.selectedEdgeKey = key
}

// HighlightCommunity sets the highlighted community id ("" to clear)
func (c *Controller) HighlightCommunity(id string) {
	c.highlightedCommunity = id
}

// ClearSelection drops node, edge and community selection
func (c *Controller) ClearSelection() {
	c.selectedNodeID = ""
	c.selectedEdgeKey = ""
	c.highlightedCommunity = ""
}

// SelectedNode returns the selected node's record, nil when none
func (c *Controller) SelectedNode() *graph.Node {
	if c.selectedNodeID == "" {
		return nil
	}
	return c.reg.Node(c.selectedNodeID)
}

// SelectedEdge returns the selected edge's record, nil when none
func (c *Controller) SelectedEdge() *graph.Edge {
	if c.selectedEdgeKey == "" {
		return nil
	}
	return c.reg.Edge(c.selectedEdgeKey)
}

// HighlightedCommunity returns the highlighted community id, "" when none
func (c *Controller) HighlightedCommunity() string {
	return c.highlightedCommunity
}

// CommunityMembers returns the highlighted community's member ids
func (c *Controller) CommunityMembers(id string) []string {
	members := c.reg.CommunityMembers(id)
	out := make([]string, 0, len(members))
	for _, n := range members {
		out = append(out, n.ID)
	}
	return out
}

// TopContacts ranks a node's incident contacts by edge weight descending.
// Ties keep the builder's stable payload order.
func (c *Controller) TopContacts(id string, n int) []Contact {
	incident := c.reg.Incident(id)
	contacts := make([]Contact, 0, len(incident))
	for _, e := range incident {
		other := e.Other(id)
		if other == "" {
			continue
		}
		contacts = append(contacts, Contact{
			Number:        other,
			Weight:        e.Weight,
			EventCount:    e.EventCount,
			TotalDuration: e.TotalDuration,
		})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].Weight > contacts[j].Weight
	})

	if n > 0 && len(contacts) > n {
		contacts = contacts[:n]
	}
	return contacts
}

// ViewState assembles the selection inputs for the next rendered frame
func (c *Controller) ViewState() (selectedNode, selectedEdge, highlightedCommunity string) {
	return c.selectedNodeID, c.selectedEdgeKey, c.highlightedCommunity
}
