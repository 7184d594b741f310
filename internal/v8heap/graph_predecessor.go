package v8heap

import "sync"

// predecessorIndex is the reverse-adjacency structure spec.md §4.2
// describes: "a predecessor index (pred_start[], pred_dst_src[]) ... built
// lazily on first BFS demand by a single O(E) sweep." Weak edges are
// excluded here because they never participate in retention (spec.md
// §4.5, "weak edges are not traversed").
//
// predStart[v]..predStart[v+1] indexes into predSrc/predEdge: the nodes
// (and the edge used) that point at v.
type predecessorIndex struct {
	once      sync.Once
	predStart []int32
	predSrc   []int32
	predEdge  []int32
}

// ensure builds the index exactly once, even under concurrent first-use
// from parallel batch retention queries.
func (p *predecessorIndex) ensure(g *CompactGraph) {
	p.once.Do(func() {
		n := g.NodeCount()
		counts := make([]int32, n+1)
		for e := 0; e < g.EdgeCount(); e++ {
			if g.edgeKind[e] == EdgeWeak {
				continue
			}
			counts[g.edgeDst[e]+1]++
		}
		for i := 0; i < n; i++ {
			counts[i+1] += counts[i]
		}
		predStart := counts
		predSrc := make([]int32, predStart[n])
		predEdge := make([]int32, predStart[n])
		cursor := make([]int32, n)
		copy(cursor, predStart[:n])

		for src := int32(0); src < int32(n); src++ {
			start, end := g.OutEdgeRange(src)
			for e := start; e < end; e++ {
				if g.edgeKind[e] == EdgeWeak {
					continue
				}
				dst := g.edgeDst[e]
				pos := cursor[dst]
				predSrc[pos] = src
				predEdge[pos] = e
				cursor[dst] = pos + 1
			}
		}

		p.predStart = predStart
		p.predSrc = predSrc
		p.predEdge = predEdge
	})
}

// predecessorsOf calls fn for each (srcNode, edge) pair whose edge targets
// v, in the order the forward sweep encountered them (i.e. by increasing
// source node index, which is also increasing edge index).
func (p *predecessorIndex) predecessorsOf(v int32, fn func(src, edge int32) bool) {
	start, end := p.predStart[v], p.predStart[v+1]
	for i := start; i < end; i++ {
		if !fn(p.predSrc[i], p.predEdge[i]) {
			return
		}
	}
}
