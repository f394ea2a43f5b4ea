// Package registry gives every component a stable, order-independent way
// to resolve node and edge ids against the current payload. Payload objects
// are recreated on every fetch and array order is not guaranteed, so all
// lookups go through here instead of comparing raw values.
package registry

import (
	"github.com/dmorval/linkscope/pkg/graph"
)

// Normalize canonicalizes a raw id. Empty and whitespace-only input maps
// to "", which never resolves.
func Normalize(raw string) string {
	return graph.NormalizeID(raw)
}

// PairKey returns the synthesized lookup key for an undirected edge
func PairKey(a, b string) string {
	return graph.EdgeKey(a, b)
}

// Registry indexes one payload's nodes and edges. Rebuilt wholesale on
// every new payload; never patched, so stale entries cannot survive a
// shrinking node set. It never mutates the payload it indexes.
type Registry struct {
	nodes     map[string]*graph.Node
	edges     map[string]*graph.Edge
	incident  map[string][]*graph.Edge
	community map[string][]*graph.Node
}

// New creates an empty registry
func New() *Registry {
	r := &Registry{}
	r.Rebuild(graph.Graph{})
	return r
}

// Rebuild replaces all indices from the given graph in O(N+E).
// Edges are indexed under both their own id (when present) and the
// synthesized pair key.
func (r *Registry) Rebuild(g graph.Graph) {
	r.nodes = make(map[string]*graph.Node, len(g.Nodes))
	r.edges = make(map[string]*graph.Edge, 2*len(g.Edges))
	r.incident = make(map[string][]*graph.Edge, len(g.Nodes))
	r.community = make(map[string][]*graph.Node)

	for i := range g.Nodes {
		n := &g.Nodes[i]
		r.nodes[Normalize(n.ID)] = n
		r.community[n.Community] = append(r.community[n.Community], n)
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		if e.ID != "" {
			r.edges[e.ID] = e
		}
		r.edges[PairKey(e.Source, e.Target)] = e
		r.incident[Normalize(e.Source)] = append(r.incident[Normalize(e.Source)], e)
		r.incident[Normalize(e.Target)] = append(r.incident[Normalize(e.Target)], e)
	}
}

// Node resolves a node id, nil when absent. Missing ids are the caller's
// decision to handle; the registry never raises.
func (r *Registry) Node(id string) *graph.Node {
	return r.nodes[Normalize(id)]
}

// Edge resolves an edge by its id or pair key, nil when absent
func (r *Registry) Edge(key string) *graph.Edge {
	return r.edges[key]
}

// EdgeBetween resolves the undirected edge between two node ids in either
// endpoint order
func (r *Registry) EdgeBetween(a, b string) *graph.Edge {
	return r.edges[PairKey(a, b)]
}

// Incident returns the edges touching a node, in payload order
func (r *Registry) Incident(id string) []*graph.Edge {
	return r.incident[Normalize(id)]
}

// CommunityMembers returns the nodes labelled with the community id, in
// payload order
func (r *Registry) CommunityMembers(communityID string) []*graph.Node {
	return r.community[communityID]
}

// Len returns the number of indexed nodes
func (r *Registry) Len() int {
	return len(r.nodes)
}
