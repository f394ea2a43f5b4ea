package community

import (
	"sort"
)

// Components returns the connected components of the adjacency, including
// singleton isolates. Components are ordered by their smallest node id and
// each component's members are sorted, so output is stable across runs.
func Components(adj Adjacency) [][]string {
	ids := sortedIDs(adj)

	visited := make(map[string]bool, len(ids))
	out := make([][]string, 0)

	for _, start := range ids {
		if visited[start] {
			continue
		}

		component := make([]string, 0)
		queue := []string{start}
		visited[start] = true

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			component = append(component, id)

			for neighbor := range adj[id] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}

		sort.Strings(component)
		out = append(out, component)
	}

	return out
}
