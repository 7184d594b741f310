package v8heap

import "sync"

// RetentionFinder answers shortest-retention-path queries against a
// CompactGraph (spec.md §4.5). It lazily builds, on first use, a single
// multi-source BFS tree from the root-reachable starting set and a
// predecessor index, both read-only afterward — the whole cost is paid
// once no matter how many targets are queried in a batch.
type RetentionFinder struct {
	g *CompactGraph

	once       sync.Once
	dist       []int32 // -1 = unreached
	parentNode []int32 // -1 = starting node (no parent)
	parentEdge []int32 // -1 = starting node

	pred predecessorIndex
}

// NewRetentionFinder creates a finder over g. The BFS itself is not run
// until the first Find call.
func NewRetentionFinder(g *CompactGraph) *RetentionFinder {
	return &RetentionFinder{g: g}
}

// ensureBFS runs the O(N+E) multi-source BFS exactly once, treating the
// root-reachable starting set as a super-source at distance 0 (spec.md
// §4.5 step 2). Weak edges are not traversed (they do not retain).
func (f *RetentionFinder) ensureBFS() {
	f.once.Do(func() {
		g := f.g
		n := g.NodeCount()
		dist := make([]int32, n)
		parentNode := make([]int32, n)
		parentEdge := make([]int32, n)
		for i := range dist {
			dist[i] = -1
			parentNode[i] = -1
			parentEdge[i] = -1
		}

		queue := make([]int32, 0, n)
		for _, r := range g.RootReachable() {
			if dist[r] == -1 {
				dist[r] = 0
				queue = append(queue, r)
			}
		}

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			start, end := g.OutEdgeRange(v)
			for e := start; e < end; e++ {
				if g.edgeKind[e] == EdgeWeak {
					continue
				}
				d := g.edgeDst[e]
				if dist[d] == -1 {
					dist[d] = dist[v] + 1
					parentNode[d] = v
					parentEdge[d] = e
					queue = append(queue, d)
				}
			}
		}

		f.dist = dist
		f.parentNode = parentNode
		f.parentEdge = parentEdge
		f.pred.ensure(g)
	})
}

// Reachable reports whether node v was reached by the BFS from the
// root-reachable starting set.
func (f *RetentionFinder) Reachable(v int32) bool {
	f.ensureBFS()
	return f.dist[v] != -1
}

// Distance returns the BFS distance to v, or -1 if unreached.
func (f *RetentionFinder) Distance(v int32) int32 {
	f.ensureBFS()
	return f.dist[v]
}
