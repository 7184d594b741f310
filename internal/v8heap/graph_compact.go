package v8heap

// CompactGraph is the entire heap graph laid out as structure-of-arrays
// (spec.md §3), read-only once built. All node/edge references are 32-bit
// indices; snapshots exceeding ~4 billion nodes are out of scope.
//
// Node columns (indexed by node index, dense, in snapshot node-array
// order):
//
//	kind[i], nameIdx[i], id[i], selfSize[i], edgeStart[i]
//
// Edge columns (indexed by edge index, grouped by owning node via
// edgeStart):
//
//	edgeKind[e], edgeNameOrIndex[e], edgeDst[e]
type CompactGraph struct {
	kind      []NodeKind
	nameIdx   []int32
	id        []int64
	selfSize  []int32
	edgeStart []int32 // length N+1; edgeStart[N] == total edge count

	edgeKind        []EdgeKind
	edgeNameOrIndex []int32
	edgeDst         []int32

	strings *StringTable

	// gcRootReachable is the starting set for retention search: {0} union
	// destinations(out(0)) (spec.md §3, GC roots), weak edges excluded.
	gcRootReachable []int32

	pred predecessorIndex
}

// NodeCount returns the number of nodes in the graph.
func (g *CompactGraph) NodeCount() int {
	return len(g.kind)
}

// EdgeCount returns the number of edges in the graph.
func (g *CompactGraph) EdgeCount() int {
	return len(g.edgeKind)
}

// Kind returns the kind of node i.
func (g *CompactGraph) Kind(i int32) NodeKind { return g.kind[i] }

// NameIdx returns the string-table index naming node i (constructor/shape
// name for objects, the string value index for strings).
func (g *CompactGraph) NameIdx(i int32) int32 { return g.nameIdx[i] }

// ID returns the snapshot's stable node id for node i (cross-reference
// only, never used for array addressing).
func (g *CompactGraph) ID(i int32) int64 { return g.id[i] }

// SelfSize returns the self-size in bytes of node i.
func (g *CompactGraph) SelfSize(i int32) int32 { return g.selfSize[i] }

// Name resolves node i's display name via the string table.
func (g *CompactGraph) Name(i int32) string {
	return g.strings.Get(int(g.nameIdx[i]))
}

// Strings returns the graph's string table.
func (g *CompactGraph) Strings() *StringTable { return g.strings }

// OutEdgeRange returns the half-open edge-index range [start, end) of
// node i's outgoing edges — a single contiguous slice, per spec.md §4.2.
func (g *CompactGraph) OutEdgeRange(i int32) (start, end int32) {
	return g.edgeStart[i], g.edgeStart[i+1]
}

// EdgeKind returns the kind of edge e.
func (g *CompactGraph) EdgeKind(e int32) EdgeKind { return g.edgeKind[e] }

// EdgeNameOrIndex returns edge e's name-or-index field: a string-table
// index for property/shortcut/internal edges, or a literal integer index
// for element edges.
func (g *CompactGraph) EdgeNameOrIndex(e int32) int32 { return g.edgeNameOrIndex[e] }

// EdgeDst returns the destination node index of edge e.
func (g *CompactGraph) EdgeDst(e int32) int32 { return g.edgeDst[e] }

// RootReachable returns the root-reachable starting set for retention
// search: {0} ∪ destinations(out(0)) (spec.md §3), weak edges excluded.
func (g *CompactGraph) RootReachable() []int32 { return g.gcRootReachable }

// ForEachOutEdge calls fn for each outgoing edge of node i.
func (g *CompactGraph) ForEachOutEdge(i int32, fn func(e int32, kind EdgeKind, nameOrIndex int32, dst int32) bool) {
	start, end := g.OutEdgeRange(i)
	for e := start; e < end; e++ {
		if !fn(e, g.edgeKind[e], g.edgeNameOrIndex[e], g.edgeDst[e]) {
			return
		}
	}
}

// checkInvariants validates the core structural invariants spec.md §8
// requires (used by tests and by the builder after construction).
func (g *CompactGraph) checkInvariants() error {
	n := int32(g.NodeCount())
	if len(g.edgeStart) != int(n)+1 {
		return newSchemaMismatch("edge_start length must be node count + 1")
	}
	for i := int32(0); i < n; i++ {
		if g.edgeStart[i] > g.edgeStart[i+1] {
			return newSchemaMismatch("edge_start is not monotonically non-decreasing")
		}
	}
	if g.edgeStart[n] != int32(g.EdgeCount()) {
		return newSchemaMismatch("edge_start[N] must equal total edge count")
	}
	for e, dst := range g.edgeDst {
		if dst < 0 || dst >= n {
			return newDanglingEdge(-1, e, int64(dst))
		}
	}
	return nil
}
