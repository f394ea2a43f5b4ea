// Package community implements modularity-based clustering over the
// weighted undirected contact graph. Detection is deterministic: the same
// adjacency always yields the same partition and the same community ids.
package community

import (
	"fmt"
	"sort"
)

// Isolate is the sentinel community assigned to degree-0 nodes
const Isolate = "isolate"

// Group is one detected community
type Group struct {
	ID    string
	Size  int
	Nodes []string
}

// Result contains a full partition of the input nodes.
// Every node maps to exactly one community id or the Isolate sentinel.
// Attempted distinguishes "one big community" from "no clustering run".
type Result struct {
	Communities   []Group
	NodeCommunity map[string]string
	Modularity    float64
	Attempted     bool
}

// Adjacency is a weighted undirected neighbor map. An edge A-B with
// weight w appears as adj[A][B] == adj[B][A] == w.
type Adjacency map[string]map[string]float64

// Detect runs Louvain modularity optimization over the adjacency.
// Isolated nodes are assigned the Isolate sentinel and excluded from
// the optimization. A single resulting community is a valid outcome.
func Detect(adj Adjacency) *Result {
	ids := sortedIDs(adj)

	// Split out isolates first; they never contribute to modularity
	connected := make([]string, 0, len(ids))
	nodeCommunity := make(map[string]string, len(ids))
	for _, id := range ids {
		if len(adj[id]) == 0 {
			nodeCommunity[id] = Isolate
		} else {
			connected = append(connected, id)
		}
	}

	result := &Result{
		NodeCommunity: nodeCommunity,
		Attempted:     true,
	}

	if len(connected) == 0 {
		return result
	}

	state := newLouvainState(connected, adj)
	for {
		moved := state.localMovePass()
		if !moved {
			break
		}
		state.aggregate()
	}

	// Stable community ids: order groups by size descending, then by the
	// smallest member id, so repeated runs label identically
	groups := state.groups()
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Size != groups[j].Size {
			return groups[i].Size > groups[j].Size
		}
		return groups[i].Nodes[0] < groups[j].Nodes[0]
	})

	for i := range groups {
		groups[i].ID = fmt.Sprintf("c%d", i)
		for _, id := range groups[i].Nodes {
			nodeCommunity[id] = groups[i].ID
		}
	}

	result.Communities = groups
	result.Modularity = Modularity(adj, nodeCommunity)
	return result
}

// Modularity computes Q for a partition over the weighted adjacency.
// Isolate-labelled nodes contribute nothing.
func Modularity(adj Adjacency, partition map[string]string) float64 {
	var m float64 // total edge weight, each edge counted once
	strength := make(map[string]float64, len(adj))
	for id, neighbors := range adj {
		for _, w := range neighbors {
			strength[id] += w
			m += w
		}
	}
	m /= 2
	if m == 0 {
		return 0
	}

	// Per-community internal weight and total strength
	internal := make(map[string]float64)
	total := make(map[string]float64)
	for id, neighbors := range adj {
		c := partition[id]
		if c == Isolate {
			continue
		}
		total[c] += strength[id]
		for other, w := range neighbors {
			if partition[other] == c && id < other {
				internal[c] += w
			}
		}
	}

	var q float64
	for c := range total {
		q += internal[c]/m - (total[c]/(2*m))*(total[c]/(2*m))
	}
	return q
}

func sortedIDs(adj Adjacency) []string {
	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
