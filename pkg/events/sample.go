package events

import (
	"fmt"
	"math/rand"
	"time"
)

// NewDemoStore returns a memory store seeded with a deterministic synthetic
// dataset: three calling circles plus background noise, enough to exercise
// community detection and trimming without a database.
func NewDemoStore() *MemoryStore {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	circles := [][]string{
		demoNumbers(rng, 6),
		demoNumbers(rng, 5),
		demoNumbers(rng, 4),
	}
	noise := demoNumbers(rng, 10)

	store := NewMemoryStore()
	id := 0
	add := func(a, b string, kind EventType, at time.Time, seconds float64) {
		id++
		store.Add(Event{
			ID:        fmt.Sprintf("demo-%04d", id),
			Dataset:   "demo",
			Source:    a,
			Target:    b,
			Type:      kind,
			Timestamp: at,
			Duration:  time.Duration(seconds * float64(time.Second)),
		})
	}

	// Dense traffic inside each circle
	for _, circle := range circles {
		for i := 0; i < len(circle); i++ {
			for j := i + 1; j < len(circle); j++ {
				n := 3 + rng.Intn(10)
				for k := 0; k < n; k++ {
					at := base.Add(time.Duration(rng.Intn(14*24)) * time.Hour)
					if rng.Intn(3) == 0 {
						add(circle[i], circle[j], TypeSMS, at, 0)
					} else {
						add(circle[i], circle[j], TypeCall, at, float64(20+rng.Intn(600)))
					}
				}
			}
		}
	}

	// A single bridge number linking the first two circles
	bridge := circles[0][0]
	for k := 0; k < 4; k++ {
		at := base.Add(time.Duration(rng.Intn(14*24)) * time.Hour)
		add(bridge, circles[1][0], TypeCall, at, float64(30+rng.Intn(120)))
	}

	// Sparse background chatter
	for k := 0; k < 25; k++ {
		a := noise[rng.Intn(len(noise))]
		b := noise[rng.Intn(len(noise))]
		if a == b {
			continue
		}
		at := base.Add(time.Duration(rng.Intn(14*24)) * time.Hour)
		add(a, b, TypeSMS, at, 0)
	}

	return store
}

func demoNumbers(rng *rand.Rand, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("+1555%07d", rng.Intn(10000000))
	}
	return out
}
