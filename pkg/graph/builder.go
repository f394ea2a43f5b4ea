package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dmorval/linkscope/pkg/community"
	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/logging"
)

// WeightFunc turns a pair's aggregate event count and total duration
// (seconds) into an edge weight
type WeightFunc func(eventCount int, totalDuration float64) float64

// CountWeight is the default weight: number of in-window events for the pair
func CountWeight(eventCount int, _ float64) float64 {
	return float64(eventCount)
}

// DurationBlendWeight mixes count with talk time, for datasets where long
// calls matter more than many short ones
func DurationBlendWeight(eventCount int, totalDuration float64) float64 {
	return float64(eventCount) + totalDuration/600
}

// Builder aggregates filtered events into a bounded weighted graph with
// community labels and summary stats. Identical input always produces an
// identical payload.
type Builder struct {
	store    events.Store
	weight   WeightFunc
	topNodes int
	logger   logging.Logger
}

// BuilderOption customizes a Builder
type BuilderOption func(*Builder)

// WithWeightFunc replaces the default count-based edge weight
func WithWeightFunc(fn WeightFunc) BuilderOption {
	return func(b *Builder) { b.weight = fn }
}

// WithTopNodes sets how many top members each community summary carries
func WithTopNodes(n int) BuilderOption {
	return func(b *Builder) { b.topNodes = n }
}

// WithLogger sets the builder's logger
func WithLogger(logger logging.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a Builder over the given event store
func NewBuilder(store events.Store, opts ...BuilderOption) *Builder {
	b := &Builder{
		store:    store,
		weight:   CountWeight,
		topNodes: 5,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(logging.Component("builder"))
	return b
}

// pairStat accumulates one undirected contact pair during aggregation
type pairStat struct {
	source    string
	target    string
	count     int
	duration  float64
	firstSeen time.Time
	lastSeen  time.Time
}

// Build runs the full construction: aggregate, cut, trim, cluster, summarize.
// Returns ErrDataUnavailable when nothing matches, UpstreamError when the
// store fails, or the context error when the build was cancelled.
func (b *Builder) Build(ctx context.Context, q Query) (*Payload, error) {
	q = q.WithDefaults()

	timer := logging.StartTimer(b.logger, "graph built", logging.Dataset(q.DatasetScope))

	evts, err := b.store.Events(ctx, q.Filter())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		timer.EndError(err)
		return nil, &UpstreamError{Err: err}
	}
	if len(evts) == 0 {
		return nil, ErrDataUnavailable
	}

	// Aggregate events into undirected pairs. (A,B) and (B,A) land on the
	// same key; self-calls and blank endpoints are discarded.
	pairs := make(map[string]*pairStat)
	for _, e := range evts {
		src, dst := NormalizeID(e.Source), NormalizeID(e.Target)
		if src == "" || dst == "" || src == dst {
			continue
		}
		if dst < src {
			src, dst = dst, src
		}
		key := src + "->" + dst

		p, ok := pairs[key]
		if !ok {
			p = &pairStat{source: src, target: dst, firstSeen: e.Timestamp, lastSeen: e.Timestamp}
			pairs[key] = p
		}
		p.count++
		p.duration += e.Duration.Seconds()
		if e.Timestamp.Before(p.firstSeen) {
			p.firstSeen = e.Timestamp
		}
		if e.Timestamp.After(p.lastSeen) {
			p.lastSeen = e.Timestamp
		}
	}

	// Weight and cut
	edges := make([]Edge, 0, len(pairs))
	for _, p := range pairs {
		w := b.weight(p.count, p.duration)
		if w < float64(q.MinEdgeWeight) {
			continue
		}
		first, last := p.firstSeen, p.lastSeen
		edges = append(edges, Edge{
			ID:            p.source + "->" + p.target,
			Source:        p.source,
			Target:        p.target,
			Weight:        w,
			EventCount:    p.count,
			TotalDuration: p.duration,
			FirstSeen:     &first,
			LastSeen:      &last,
		})
	}
	if len(edges) == 0 {
		return nil, ErrDataUnavailable
	}

	nodes, adj := nodesFromEdges(edges)

	// Deterministic trim to the node ceiling
	truncated := false
	reason := ""
	if len(nodes) > q.LimitNodes {
		total := len(nodes)
		sortNodes(nodes)
		keep := make(map[string]bool, q.LimitNodes)
		for _, n := range nodes[:q.LimitNodes] {
			keep[n.ID] = true
		}

		kept := edges[:0]
		for _, e := range edges {
			if keep[e.Source] && keep[e.Target] {
				kept = append(kept, e)
			}
		}
		edges = kept

		// Degrees and stats shift once edges are gone, so recompute from
		// the trimmed edge set while retaining edge-less survivors
		nodes, adj = nodesFromEdges(edges)
		for id := range keep {
			if _, ok := adj[id]; !ok {
				nodes = append(nodes, Node{ID: id})
				adj[id] = map[string]float64{}
			}
		}

		truncated = true
		reason = fmt.Sprintf("node limit exceeded: kept top %d of %d by weighted degree", q.LimitNodes, total)
	}

	// Community labels over the trimmed weighted graph
	detection := community.Detect(adj)
	for i := range nodes {
		nodes[i].Community = detection.NodeCommunity[nodes[i].ID]
	}

	sortNodes(nodes)
	sortEdges(edges)

	// Contract guard: an orphan edge must never leave the builder
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	valid := edges[:0]
	for _, e := range edges {
		if present[e.Source] && present[e.Target] {
			valid = append(valid, e)
		} else {
			b.logger.Warn("dropping orphan edge", logging.EdgeKey(e.Key()))
		}
	}
	edges = valid

	payload := &Payload{
		Graph:            Graph{Nodes: nodes, Edges: edges},
		Communities:      b.summarizeCommunities(detection, nodes),
		Stats:            computeStats(nodes, edges, adj),
		Truncated:        truncated,
		TruncationReason: reason,
	}

	timer.End()
	return payload, nil
}

// nodesFromEdges derives the node list and weighted adjacency from an edge
// set. Degree, weighted degree and per-node event stats all come from the
// surviving edges so they stay consistent after trimming.
func nodesFromEdges(edges []Edge) ([]Node, community.Adjacency) {
	adj := make(community.Adjacency)
	byID := make(map[string]*Node)

	touch := func(id string, e Edge) {
		n, ok := byID[id]
		if !ok {
			n = &Node{ID: id}
			byID[id] = n
			adj[id] = make(map[string]float64)
		}
		n.Degree++
		n.WeightedDegree += e.Weight
		n.TotalEvents += e.EventCount
		n.TotalDuration += e.TotalDuration
		if e.FirstSeen != nil && (n.FirstSeen == nil || e.FirstSeen.Before(*n.FirstSeen)) {
			n.FirstSeen = e.FirstSeen
		}
		if e.LastSeen != nil && (n.LastSeen == nil || e.LastSeen.After(*n.LastSeen)) {
			n.LastSeen = e.LastSeen
		}
	}

	for _, e := range edges {
		touch(e.Source, e)
		touch(e.Target, e)
		adj[e.Source][e.Target] = e.Weight
		adj[e.Target][e.Source] = e.Weight
	}

	nodes := make([]Node, 0, len(byID))
	for _, n := range byID {
		nodes = append(nodes, *n)
	}
	return nodes, adj
}

// sortNodes orders by weighted degree descending, id ascending. This is
// both the trim ranking and the payload's stable output order.
func sortNodes(nodes []Node) {
	slices.SortFunc(nodes, func(a, b Node) int {
		if a.WeightedDegree != b.WeightedDegree {
			if a.WeightedDegree > b.WeightedDegree {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

func sortEdges(edges []Edge) {
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.Weight != b.Weight {
			if a.Weight > b.Weight {
				return -1
			}
			return 1
		}
		if k, l := a.Key(), b.Key(); k != l {
			if k < l {
				return -1
			}
			return 1
		}
		return 0
	})
}

func (b *Builder) summarizeCommunities(detection *community.Result, nodes []Node) []CommunityInfo {
	members := make(map[string][]Node)
	for _, n := range nodes {
		if n.Community == community.Isolate {
			continue
		}
		members[n.Community] = append(members[n.Community], n)
	}

	out := make([]CommunityInfo, 0, len(detection.Communities))
	for _, g := range detection.Communities {
		nodeList := members[g.ID]
		sortNodes(nodeList)
		top := nodeList
		if len(top) > b.topNodes {
			top = top[:b.topNodes]
		}
		out = append(out, CommunityInfo{ID: g.ID, Size: g.Size, TopNodes: top})
	}
	return out
}

func computeStats(nodes []Node, edges []Edge, adj community.Adjacency) Stats {
	n := len(nodes)
	stats := Stats{
		NodeCount:  n,
		EdgeCount:  len(edges),
		Components: len(community.Components(adj)),
	}

	if n > 1 {
		stats.Density = 2 * float64(len(edges)) / (float64(n) * float64(n-1))
	}

	degreeSum := 0
	for _, node := range nodes {
		degreeSum += node.Degree
		if node.Degree == 0 {
			stats.Isolates++
		}
	}
	if n > 0 {
		stats.AvgDegree = float64(degreeSum) / float64(n)
	}
	return stats
}
