package graph

import (
	"time"

	"github.com/dmorval/linkscope/pkg/events"
)

// Node is one phone number participating in at least one in-window event
type Node struct {
	ID             string     `json:"id"`
	Degree         int        `json:"degree"`
	WeightedDegree float64    `json:"weightedDegree"`
	Community      string     `json:"community"`
	TotalEvents    int        `json:"totalEvents"`
	TotalDuration  float64    `json:"totalDuration"` // seconds
	FirstSeen      *time.Time `json:"firstSeen,omitempty"`
	LastSeen       *time.Time `json:"lastSeen,omitempty"`
}

// Edge is an aggregated undirected relationship between two nodes.
// Source is always the lexicographically smaller normalized id, so the
// pair key Source->Target identifies the edge regardless of call direction.
type Edge struct {
	ID            string     `json:"id,omitempty"`
	Source        string     `json:"source"`
	Target        string     `json:"target"`
	Weight        float64    `json:"weight"`
	EventCount    int        `json:"eventCount"`
	TotalDuration float64    `json:"totalDuration"` // seconds
	FirstSeen     *time.Time `json:"firstSeen,omitempty"`
	LastSeen      *time.Time `json:"lastSeen,omitempty"`
}

// Key returns the edge's identity: its own id when present, else the
// synthesized ordered pair key
func (e Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return EdgeKey(e.Source, e.Target)
}

// Touches reports whether the edge is incident to the node id
func (e Edge) Touches(id string) bool {
	n := NormalizeID(id)
	return e.Source == n || e.Target == n
}

// Other returns the opposite endpoint of the edge, or "" when the edge is
// not incident to the given node
func (e Edge) Other(id string) string {
	n := NormalizeID(id)
	switch n {
	case e.Source:
		return e.Target
	case e.Target:
		return e.Source
	}
	return ""
}

// Graph is the node and edge set of one payload
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// CommunityInfo summarizes one detected community for the sidebar
type CommunityInfo struct {
	ID       string `json:"id"`
	Size     int    `json:"size"`
	TopNodes []Node `json:"topNodes"`
}

// Stats are graph-level summary numbers
type Stats struct {
	NodeCount  int     `json:"nodeCount"`
	EdgeCount  int     `json:"edgeCount"`
	Density    float64 `json:"density"`
	Components int     `json:"components"`
	Isolates   int     `json:"isolates"`
	AvgDegree  float64 `json:"avgDegree"`
}

// Payload is one immutable build result. Created fresh on every successful
// build; consumers rebuild their indices from it rather than patching.
type Payload struct {
	Graph            Graph           `json:"graph"`
	Communities      []CommunityInfo `json:"communities"`
	Stats            Stats           `json:"stats"`
	Truncated        bool            `json:"truncated"`
	TruncationReason string          `json:"truncationReason,omitempty"`
}

// Query selects and bounds one graph build
type Query struct {
	DatasetScope  string           `json:"datasetScope" validate:"required"`
	From          *time.Time       `json:"from,omitempty"`
	To            *time.Time       `json:"to,omitempty"`
	EventType     events.EventType `json:"eventType" validate:"omitempty,oneof=all call sms"`
	MinEdgeWeight int              `json:"minEdgeWeight" validate:"omitempty,min=1"`
	LimitNodes    int              `json:"limitNodes" validate:"omitempty,min=1,max=5000"`
}

// Defaults for unset query fields
const (
	DefaultMinEdgeWeight = 1
	DefaultLimitNodes    = 500
)

// WithDefaults fills unset fields with their defaults
func (q Query) WithDefaults() Query {
	if q.EventType == "" {
		q.EventType = events.TypeAll
	}
	if q.MinEdgeWeight < 1 {
		q.MinEdgeWeight = DefaultMinEdgeWeight
	}
	if q.LimitNodes < 1 {
		q.LimitNodes = DefaultLimitNodes
	}
	return q
}

// Filter converts the query into an event store filter
func (q Query) Filter() events.Filter {
	return events.Filter{
		Dataset: q.DatasetScope,
		From:    q.From,
		To:      q.To,
		Type:    q.EventType,
	}
}
