package lsdb

// nextHops implements spec.md §4.7's next-hop derivation: for each
// destination with a finite distance, walk backwards along the predecessor
// chain until the predecessor is self — the node just before that step is
// the first hop. A chain that terminates (no recorded predecessor) before
// reaching self means the destination is unreachable this round and is
// skipped, per the "next-hop walk termination" design note in spec.md §9.
func nextHops(self string, distances map[string]int, predecessors map[string]string) map[string]string {
	routing := make(map[string]string)

	for dest, dist := range distances {
		if dest == self || dist == unreachable {
			continue
		}

		hop, ok := firstHop(self, dest, predecessors)
		if !ok {
			continue
		}
		routing[dest] = hop
	}

	return routing
}

func firstHop(self, dest string, predecessors map[string]string) (string, bool) {
	hop := dest
	for {
		pred, hasPred := predecessors[hop]
		if !hasPred {
			return "", false
		}
		if pred == self {
			return hop, true
		}
		hop = pred
	}
}
