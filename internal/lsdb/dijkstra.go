package lsdb

import "math"

const unreachable = math.MaxInt

// dijkstra computes shortest-path distances and predecessors from self over
// the graph described by entries (spec.md §4.7's Dijkstra description: nodes
// are LSDB keys, edges are each node's declared links with cost, a
// placeholder contributes no outbound edges).
//
// This is the plain O(V^2) selection-based algorithm the spec calls for
// ("critical sections are short and dominated by an O(V^2) Dijkstra over
// tens of nodes", spec.md §5) rather than a heap-based variant — there is no
// meaningful gain from a priority queue at this scale, and the simple form
// keeps the tie-breaking behavior (spec.md §4.7: "the implementation chooses
// any") easy to reason about.
//
// Ties are broken by map iteration order, which Go leaves unspecified; per
// spec.md this is fine; distances are invariant to the choice, and the
// next-hop walk in nextHops still produces a valid first hop whichever
// predecessor is recorded.
func dijkstra(entries map[string]Entry, self string) (distances map[string]int, predecessors map[string]string) {
	distances = make(map[string]int, len(entries))
	predecessors = make(map[string]string, len(entries))
	marked := make(map[string]bool, len(entries))

	for id := range entries {
		distances[id] = unreachable
	}
	distances[self] = 0

	for len(marked) < len(entries) {
		current, ok := pickUnmarkedMinimum(distances, marked)
		if !ok {
			// No unmarked node has a finite distance: the remainder is
			// unreachable from self (spec.md §4.7 termination condition).
			break
		}
		marked[current] = true

		for neighborID, cost := range entries[current].Links {
			if marked[neighborID] {
				continue
			}
			if _, known := distances[neighborID]; !known {
				// Edge to a node absent from the graph: permitted by
				// spec.md §4.7, simply has no outbound edges of its own.
				continue
			}

			candidate := distances[current] + cost
			if candidate < distances[neighborID] {
				distances[neighborID] = candidate
				predecessors[neighborID] = current
			}
		}
	}

	return distances, predecessors
}

func pickUnmarkedMinimum(distances map[string]int, marked map[string]bool) (string, bool) {
	best := unreachable
	chosen := ""
	found := false

	for id, dist := range distances {
		if marked[id] {
			continue
		}
		if dist < best {
			best = dist
			chosen = id
			found = true
		}
	}

	if !found || best == unreachable {
		return "", false
	}
	return chosen, true
}
