package community

import (
	"sort"
)

// louvainState holds the working graph for one Louvain level. Nodes are
// contracted into super-nodes after each aggregation pass; members keeps
// the original ids behind each super-node.
type louvainState struct {
	neighbors []map[int]float64 // super-node adjacency, no self loops
	selfLoop  []float64         // contracted internal weight per super-node
	strength  []float64         // weighted degree incl. self loops
	members   [][]string
	community []int
	m2        float64 // sum of all strengths (2m)
}

func newLouvainState(ids []string, adj Adjacency) *louvainState {
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	s := &louvainState{
		neighbors: make([]map[int]float64, len(ids)),
		selfLoop:  make([]float64, len(ids)),
		strength:  make([]float64, len(ids)),
		members:   make([][]string, len(ids)),
		community: make([]int, len(ids)),
	}

	for i, id := range ids {
		s.members[i] = []string{id}
		s.community[i] = i
		s.neighbors[i] = make(map[int]float64)
		for other, w := range adj[id] {
			j, ok := index[other]
			if !ok || j == i {
				continue
			}
			s.neighbors[i][j] = w
			s.strength[i] += w
			s.m2 += w
		}
	}
	return s
}

// localMovePass sweeps nodes in index order, greedily moving each into the
// neighboring community with the best modularity gain. Sweeps repeat until
// a full sweep makes no move. Returns whether anything moved at all.
func (s *louvainState) localMovePass() bool {
	if s.m2 == 0 {
		return false
	}

	commTotal := make([]float64, len(s.community))
	for i, c := range s.community {
		commTotal[c] += s.strength[i] + 2*s.selfLoop[i]
	}

	anyMove := false
	for {
		movedThisSweep := false
		for i := range s.neighbors {
			old := s.community[i]
			ki := s.strength[i] + 2*s.selfLoop[i]

			// Weight from i into each neighboring community
			commWeight := make(map[int]float64)
			for j, w := range s.neighbors[i] {
				commWeight[s.community[j]] += w
			}

			// Remove i from its community before evaluating
			commTotal[old] -= ki

			best := old
			bestGain := commWeight[old] - commTotal[old]*ki/s.m2
			candidates := make([]int, 0, len(commWeight))
			for c := range commWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)
			for _, c := range candidates {
				if c == old {
					continue
				}
				gain := commWeight[c] - commTotal[c]*ki/s.m2
				if gain > bestGain {
					bestGain = gain
					best = c
				}
			}

			s.community[i] = best
			commTotal[best] += ki
			if best != old {
				movedThisSweep = true
				anyMove = true
			}
		}
		if !movedThisSweep {
			break
		}
	}
	return anyMove
}

// aggregate contracts each community into a single super-node.
// Community numbering follows the smallest original member id so the
// contracted graph is identical across runs.
func (s *louvainState) aggregate() {
	// Order communities by their smallest member id
	commMin := make(map[int]string)
	for i, c := range s.community {
		if min, ok := commMin[c]; !ok || s.members[i][0] < min {
			commMin[c] = s.members[i][0]
		}
	}
	comms := make([]int, 0, len(commMin))
	for c := range commMin {
		comms = append(comms, c)
	}
	sort.Slice(comms, func(a, b int) bool { return commMin[comms[a]] < commMin[comms[b]] })

	renumber := make(map[int]int, len(comms))
	for newIdx, c := range comms {
		renumber[c] = newIdx
	}

	n := len(comms)
	next := &louvainState{
		neighbors: make([]map[int]float64, n),
		selfLoop:  make([]float64, n),
		strength:  make([]float64, n),
		members:   make([][]string, n),
		community: make([]int, n),
		m2:        s.m2,
	}
	for i := 0; i < n; i++ {
		next.neighbors[i] = make(map[int]float64)
		next.community[i] = i
	}

	for i, c := range s.community {
		ni := renumber[c]
		next.members[ni] = append(next.members[ni], s.members[i]...)
		next.selfLoop[ni] += s.selfLoop[i]
		for j, w := range s.neighbors[i] {
			nj := renumber[s.community[j]]
			if nj == ni {
				// Each internal edge is seen from both ends
				next.selfLoop[ni] += w / 2
				continue
			}
			next.neighbors[ni][nj] += w
			next.strength[ni] += w
		}
	}

	for i := range next.members {
		sort.Strings(next.members[i])
	}

	*s = *next
}

// groups expands the current super-node communities back to original ids
func (s *louvainState) groups() []Group {
	byComm := make(map[int][]string)
	for i, c := range s.community {
		byComm[c] = append(byComm[c], s.members[i]...)
	}

	out := make([]Group, 0, len(byComm))
	for _, nodes := range byComm {
		sort.Strings(nodes)
		out = append(out, Group{Nodes: nodes, Size: len(nodes)})
	}
	return out
}
