// Incremental transitive closure over node keys, the cycle-safety backbone
// of the merge step. The table is maintained, never recomputed: after every
// edge insertion it is exactly the closure of the edges inserted so far.

package lattice

// reachability is a sparse reflexive relation over node keys:
// reach[u][v] present iff v is reachable from u via inserted edges.
type reachability struct {
	reach map[string]map[string]struct{}
}

func newReachability() *reachability {
	return &reachability{reach: make(map[string]map[string]struct{})}
}

// initNode ensures key is present and self-reachable before any query.
func (r *reachability) initNode(key string) {
	if _, ok := r.reach[key]; ok {
		return
	}
	r.reach[key] = map[string]struct{}{key: {}}
}

// addEdge records u→v and restores closure: every x that reaches u now
// reaches v and everything v reaches. u itself is reflexive, so v's
// reachable set lands on u directly as part of the same sweep.
// Complexity: O(known nodes × |reach(v)|) worst case.
func (r *reachability) addEdge(u, v string) {
	r.initNode(u)
	r.initNode(v)

	from := r.reach[v]
	for _, rx := range r.reach {
		if _, ok := rx[u]; !ok {
			continue
		}
		rx[v] = struct{}{}
		for w := range from {
			rx[w] = struct{}{}
		}
	}
}

// wouldCreateCycle reports whether predecessor is already reachable from
// candidateTarget, i.e. an edge predecessor→candidateTarget would close a
// directed cycle.
func (r *reachability) wouldCreateCycle(candidateTarget, predecessor string) bool {
	_, ok := r.reach[candidateTarget][predecessor]
	return ok
}
