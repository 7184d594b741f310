package v8heap

// GraphBuilder accumulates nodes and edges in snapshot order and produces
// a finalized, read-only CompactGraph. It mirrors the snapshot's own
// layout: node i owns the next edge_count[i] edges starting at the
// running offset (spec.md §4.1, "Edge-to-source mapping") — callers append
// edges strictly in that order, so no post-hoc sort is required (unlike a
// general CSR builder that accepts edges in arbitrary order).
type GraphBuilder struct {
	kind      []NodeKind
	nameIdx   []int32
	id        []int64
	selfSize  []int32
	edgeStart []int32 // prefix sum, filled incrementally as nodes are added

	edgeKind        []EdgeKind
	edgeNameOrIndex []int32
	edgeDst         []int32

	strings *StringTable
}

// NewGraphBuilder creates a builder pre-sized for the declared node/edge
// counts (spec.md §4.1 step 2: counts come from snapshot.meta).
func NewGraphBuilder(expectedNodes, expectedEdges int, strings *StringTable) *GraphBuilder {
	if expectedNodes < 0 {
		expectedNodes = 0
	}
	if expectedEdges < 0 {
		expectedEdges = 0
	}
	b := &GraphBuilder{
		kind:      make([]NodeKind, 0, expectedNodes),
		nameIdx:   make([]int32, 0, expectedNodes),
		id:        make([]int64, 0, expectedNodes),
		selfSize:  make([]int32, 0, expectedNodes),
		edgeStart: make([]int32, 1, expectedNodes+1),
		edgeKind:        make([]EdgeKind, 0, expectedEdges),
		edgeNameOrIndex: make([]int32, 0, expectedEdges),
		edgeDst:         make([]int32, 0, expectedEdges),
		strings:         strings,
	}
	b.edgeStart[0] = 0
	return b
}

// AddNode appends a node, recording edgeCount as the running prefix sum
// that will become edge_start. Returns the new node's index.
func (b *GraphBuilder) AddNode(kind NodeKind, nameIdx int32, id int64, selfSize int32, edgeCount int32) int32 {
	idx := int32(len(b.kind))
	b.kind = append(b.kind, kind)
	b.nameIdx = append(b.nameIdx, nameIdx)
	b.id = append(b.id, id)
	b.selfSize = append(b.selfSize, selfSize)
	b.edgeStart = append(b.edgeStart, b.edgeStart[len(b.edgeStart)-1]+edgeCount)
	return idx
}

// AddEdge appends an outgoing edge, to be consumed by the node currently
// being filled. Returns the new edge's index.
func (b *GraphBuilder) AddEdge(kind EdgeKind, nameOrIndex int32, dst int32) int32 {
	idx := int32(len(b.edgeKind))
	b.edgeKind = append(b.edgeKind, kind)
	b.edgeNameOrIndex = append(b.edgeNameOrIndex, nameOrIndex)
	b.edgeDst = append(b.edgeDst, dst)
	return idx
}

// NodeCount returns the number of nodes added so far.
func (b *GraphBuilder) NodeCount() int { return len(b.kind) }

// EdgeCount returns the number of edges added so far.
func (b *GraphBuilder) EdgeCount() int { return len(b.edgeKind) }

// Finalize validates the accumulated arrays and produces the read-only
// CompactGraph, including the GC-root-reachable starting set (spec.md §3).
func (b *GraphBuilder) Finalize() (*CompactGraph, error) {
	n := len(b.kind)
	if len(b.edgeStart) != n+1 {
		return nil, newSchemaMismatch("edge_start length mismatch during finalize")
	}
	b.edgeStart[n] = int32(len(b.edgeKind))

	g := &CompactGraph{
		kind:            b.kind,
		nameIdx:         b.nameIdx,
		id:              b.id,
		selfSize:        b.selfSize,
		edgeStart:       b.edgeStart,
		edgeKind:        b.edgeKind,
		edgeNameOrIndex: b.edgeNameOrIndex,
		edgeDst:         b.edgeDst,
		strings:         b.strings,
	}

	if err := g.checkInvariants(); err != nil {
		return nil, err
	}

	g.gcRootReachable = computeRootReachable(g)
	return g, nil
}

// computeRootReachable builds {0} ∪ destinations(out(0)), the synthetic
// root (always node index 0) plus its immediate named-root-set children
// (spec.md §3). Weak out-edges of the root are skipped: they do not retain.
func computeRootReachable(g *CompactGraph) []int32 {
	if g.NodeCount() == 0 {
		return nil
	}
	start, end := g.OutEdgeRange(0)
	roots := make([]int32, 0, 1+int(end-start))
	roots = append(roots, 0)
	for e := start; e < end; e++ {
		if g.edgeKind[e] == EdgeWeak {
			continue
		}
		roots = append(roots, g.edgeDst[e])
	}
	return roots
}
