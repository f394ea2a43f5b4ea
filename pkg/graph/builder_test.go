package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/dmorval/linkscope/pkg/community"
	"github.com/dmorval/linkscope/pkg/events"
)

var testBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// seedPair adds n call events between a and b, one minute apart
func seedPair(store *events.MemoryStore, a, b string, n int) {
	for i := 0; i < n; i++ {
		store.Add(events.Event{
			ID:        fmt.Sprintf("%s-%s-%d", a, b, i),
			Dataset:   "case1",
			Source:    a,
			Target:    b,
			Type:      events.TypeCall,
			Timestamp: testBase.Add(time.Duration(i) * time.Minute),
			Duration:  30 * time.Second,
		})
	}
}

func buildQuery() Query {
	return Query{DatasetScope: "case1"}
}

func TestBuild_WeightCut(t *testing.T) {
	// 12 events on one pair, 3 on another; a weight floor of 10 keeps only
	// the strong pair and drops 333 entirely
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 12)
	seedPair(store, "222", "333", 3)

	q := buildQuery()
	q.MinEdgeWeight = 10

	payload, err := NewBuilder(store).Build(context.Background(), q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(payload.Graph.Nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(payload.Graph.Nodes))
	}
	if len(payload.Graph.Edges) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(payload.Graph.Edges))
	}

	e := payload.Graph.Edges[0]
	if e.Source != "111" || e.Target != "222" {
		t.Errorf("Expected edge 111->222, got %s->%s", e.Source, e.Target)
	}
	if e.Weight != 12 {
		t.Errorf("Expected weight 12, got %f", e.Weight)
	}
	for _, n := range payload.Graph.Nodes {
		if n.ID == "333" {
			t.Error("Node 333 survived the weight cut with no remaining edge")
		}
	}
}

func TestBuild_DirectionsMerge(t *testing.T) {
	// (A,B) and (B,A) are the same undirected pair
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 3)
	seedPair(store, "222", "111", 2)

	payload, err := NewBuilder(store).Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(payload.Graph.Edges) != 1 {
		t.Fatalf("Expected 1 merged edge, got %d", len(payload.Graph.Edges))
	}
	e := payload.Graph.Edges[0]
	if e.EventCount != 5 {
		t.Errorf("Expected 5 merged events, got %d", e.EventCount)
	}
	if e.Source != "111" || e.Target != "222" {
		t.Errorf("Expected ordered pair 111->222, got %s->%s", e.Source, e.Target)
	}
}

func TestBuild_SkipsSelfAndBlankEndpoints(t *testing.T) {
	store := events.NewMemoryStore()
	seedPair(store, "111", "111", 4) // self-calls
	seedPair(store, "111", "  ", 4)  // blank after normalization
	seedPair(store, "111", "222", 2) // the only real pair

	payload, err := NewBuilder(store).Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(payload.Graph.Edges) != 1 {
		t.Errorf("Expected 1 edge, got %d", len(payload.Graph.Edges))
	}
	if len(payload.Graph.Nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(payload.Graph.Nodes))
	}
}

func TestBuild_NoEventsIsUnavailable(t *testing.T) {
	store := events.NewMemoryStore()

	_, err := NewBuilder(store).Build(context.Background(), buildQuery())

	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestBuild_AllEdgesCutIsUnavailable(t *testing.T) {
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 2)

	q := buildQuery()
	q.MinEdgeWeight = 100

	_, err := NewBuilder(store).Build(context.Background(), q)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable when the cut removes everything, got %v", err)
	}
}

// failStore always fails with the configured error
type failStore struct{ err error }

func (f failStore) Events(ctx context.Context, filter events.Filter) ([]events.Event, error) {
	return nil, f.err
}

func (f failStore) Datasets(ctx context.Context) ([]string, error) {
	return nil, f.err
}

func TestBuild_StoreErrorWrapsUpstream(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewBuilder(failStore{err: boom}).Build(context.Background(), buildQuery())

	if !IsUpstream(err) {
		t.Fatalf("Expected upstream error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("Upstream wrapper lost the original error")
	}
}

func TestBuild_CancellationPassesThrough(t *testing.T) {
	_, err := NewBuilder(failStore{err: context.Canceled}).Build(context.Background(), buildQuery())

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if IsUpstream(err) {
		t.Error("Cancellation must not be reported as an upstream failure")
	}
}

func TestBuild_TrimKeepsTopByWeightedDegree(t *testing.T) {
	// Strong pair 111-222 plus a weak pair 301-302: limit 3 keeps
	// 111, 222 and (by id tie-break) 301, whose edge partner is gone
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 10)
	seedPair(store, "301", "302", 2)

	q := buildQuery()
	q.LimitNodes = 3

	payload, err := NewBuilder(store).Build(context.Background(), q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !payload.Truncated {
		t.Fatal("Expected truncated payload")
	}
	want := "node limit exceeded: kept top 3 of 4 by weighted degree"
	if payload.TruncationReason != want {
		t.Errorf("Truncation reason %q, want %q", payload.TruncationReason, want)
	}

	ids := map[string]Node{}
	for _, n := range payload.Graph.Nodes {
		ids[n.ID] = n
	}
	if _, ok := ids["302"]; ok {
		t.Error("Node 302 should have been trimmed")
	}

	// 301 survives as an edge-less isolate with recomputed stats
	survivor, ok := ids["301"]
	if !ok {
		t.Fatal("Node 301 should survive the trim")
	}
	if survivor.Degree != 0 || survivor.WeightedDegree != 0 {
		t.Errorf("Survivor stats not recomputed: degree=%d wdeg=%f",
			survivor.Degree, survivor.WeightedDegree)
	}
	if survivor.Community != community.Isolate {
		t.Errorf("Expected isolate label, got %q", survivor.Community)
	}
	if payload.Stats.Isolates != 1 {
		t.Errorf("Expected 1 isolate in stats, got %d", payload.Stats.Isolates)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	store := events.NewMemoryStore()
	for i := 0; i < 20; i++ {
		seedPair(store, fmt.Sprintf("5%02d", i), fmt.Sprintf("5%02d", (i+7)%20), 1+i%5)
	}

	q := buildQuery()
	q.LimitNodes = 10

	first, err := NewBuilder(store).Build(context.Background(), q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := NewBuilder(store).Build(context.Background(), q)
		if err != nil {
			t.Fatalf("Build %d failed: %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Build %d produced a different payload", run)
		}
	}
}

func TestBuild_NoOrphanEdges(t *testing.T) {
	store := events.NewMemoryStore()
	for i := 0; i < 30; i++ {
		seedPair(store, fmt.Sprintf("7%02d", i), fmt.Sprintf("7%02d", (i*3+1)%30), 1+i%7)
	}

	q := buildQuery()
	q.LimitNodes = 8

	payload, err := NewBuilder(store).Build(context.Background(), q)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	present := map[string]bool{}
	for _, n := range payload.Graph.Nodes {
		present[n.ID] = true
	}
	for _, e := range payload.Graph.Edges {
		if !present[e.Source] || !present[e.Target] {
			t.Errorf("Orphan edge %s->%s in payload", e.Source, e.Target)
		}
	}
}

func TestBuild_NodeOrderStable(t *testing.T) {
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 5)
	seedPair(store, "333", "444", 5)
	seedPair(store, "111", "333", 2)

	payload, err := NewBuilder(store).Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Weighted degree descending, id ascending on ties
	nodes := payload.Graph.Nodes
	for i := 1; i < len(nodes); i++ {
		prev, cur := nodes[i-1], nodes[i]
		if prev.WeightedDegree < cur.WeightedDegree {
			t.Fatalf("Nodes out of order at %d: %f before %f", i, prev.WeightedDegree, cur.WeightedDegree)
		}
		if prev.WeightedDegree == cur.WeightedDegree && prev.ID > cur.ID {
			t.Fatalf("Tie not broken by id at %d: %s before %s", i, prev.ID, cur.ID)
		}
	}
}

func TestBuild_StatsDensity(t *testing.T) {
	// Triangle: density 2*3/(3*2) = 1.0
	store := events.NewMemoryStore()
	seedPair(store, "111", "222", 1)
	seedPair(store, "222", "333", 1)
	seedPair(store, "111", "333", 1)

	payload, err := NewBuilder(store).Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	s := payload.Stats
	if s.NodeCount != 3 || s.EdgeCount != 3 {
		t.Fatalf("Expected 3 nodes / 3 edges, got %d / %d", s.NodeCount, s.EdgeCount)
	}
	if s.Density != 1.0 {
		t.Errorf("Expected density 1.0, got %f", s.Density)
	}
	if s.Components != 1 {
		t.Errorf("Expected 1 component, got %d", s.Components)
	}
	if s.AvgDegree != 2.0 {
		t.Errorf("Expected average degree 2.0, got %f", s.AvgDegree)
	}
}

func TestBuild_DurationBlendWeight(t *testing.T) {
	store := events.NewMemoryStore()
	store.Add(events.Event{
		ID: "long", Dataset: "case1", Source: "111", Target: "222",
		Type: events.TypeCall, Timestamp: testBase, Duration: 10 * time.Minute,
	})

	b := NewBuilder(store, WithWeightFunc(DurationBlendWeight))
	payload, err := b.Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 1 event + 600s/600 = 2.0
	if w := payload.Graph.Edges[0].Weight; w != 2.0 {
		t.Errorf("Expected blended weight 2.0, got %f", w)
	}
}

func TestBuild_CommunitySummaryRespectsTopNodes(t *testing.T) {
	store := events.NewMemoryStore()
	hub := "900"
	for i := 0; i < 8; i++ {
		seedPair(store, hub, fmt.Sprintf("90%d", i+1), 2)
	}

	b := NewBuilder(store, WithTopNodes(3))
	payload, err := b.Build(context.Background(), buildQuery())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(payload.Communities) == 0 {
		t.Fatal("Expected at least one community summary")
	}
	for _, c := range payload.Communities {
		if len(c.TopNodes) > 3 {
			t.Errorf("Community %s carries %d top nodes, cap is 3", c.ID, len(c.TopNodes))
		}
	}
}
