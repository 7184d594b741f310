package v8heap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGraph is a small test helper: nodes are added first (establishing
// edge_start via their edgeCount), then edges are added in node order,
// mirroring the two-pass nodes-then-edges layout of a real snapshot.
type testNode struct {
	kind      NodeKind
	name      string
	selfSize  int32
	edgeCount int32
}

type testEdge struct {
	kind EdgeKind
	name string // used for property/shortcut/internal; ignored for element
	elem int32  // used for element
	dst  int32
}

func buildGraph(t *testing.T, nodes []testNode, edgesByNode [][]testEdge) *CompactGraph {
	t.Helper()
	strings := NewStringTable(0)
	totalEdges := 0
	for _, es := range edgesByNode {
		totalEdges += len(es)
	}
	b := NewGraphBuilder(len(nodes), totalEdges, strings)

	for _, n := range nodes {
		b.AddNode(n.kind, int32(strings.Add(n.name)), int64(len(strings.offset)), n.selfSize, n.edgeCount)
	}
	for _, es := range edgesByNode {
		for _, e := range es {
			nameOrIndex := e.elem
			if e.kind != EdgeElement {
				nameOrIndex = int32(strings.Add(e.name))
			}
			b.AddEdge(e.kind, nameOrIndex, e.dst)
		}
	}
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestColorRefine_DuplicateStrings(t *testing.T) {
	nodes := []testNode{
		{kind: NodeHidden, name: "root", edgeCount: 2},
		{kind: NodeString, name: "xxxxxxxxxx", selfSize: 24},
		{kind: NodeString, name: "xxxxxxxxxx", selfSize: 24},
	}
	edges := [][]testEdge{
		{{kind: EdgeProperty, name: "a", dst: 1}, {kind: EdgeProperty, name: "b", dst: 2}},
		{},
		{},
	}
	g := buildGraph(t, nodes, edges)

	hashes, exhausted := colorRefine(context.Background(), g, 6)
	assert.False(t, exhausted)
	assert.Equal(t, hashes[1], hashes[2])
	assert.NotEqual(t, hashes[0], hashes[1])

	groups := BuildDuplicateGroups(g, hashes, DefaultAnalysisOptions())
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
	assert.EqualValues(t, 24, groups[0].SizePerObject)
	assert.EqualValues(t, 24, groups[0].TotalWasted)
	assert.Equal(t, int32(1), groups[0].Representative)
}

func TestColorRefine_SymbolsCompareByNameIdxNotContent(t *testing.T) {
	// Two Symbol('dup') nodes sharing one string-table slot are the same
	// symbol stored twice; a third Symbol('dup') node whose description
	// landed at a distinct string-table offset (the normal case for V8's
	// strings array) is a different symbol and must not be merged in with
	// them (spec.md §4.3: primitives are equivalent iff same kind and
	// name_idx, not by string content).
	nodes := []testNode{
		{kind: NodeHidden, name: "root", edgeCount: 3},
		{kind: NodeSymbol, name: "dup", selfSize: 16},
		{kind: NodeSymbol, name: "dup", selfSize: 16},
		{kind: NodeSymbol, name: "dup", selfSize: 16},
	}
	edges := [][]testEdge{
		{
			{kind: EdgeProperty, name: "a", dst: 1},
			{kind: EdgeProperty, name: "b", dst: 2},
			{kind: EdgeProperty, name: "c", dst: 3},
		},
		{}, {}, {},
	}
	g := buildGraph(t, nodes, edges)

	// Force node 1 and node 2 to share a name_idx (the same symbol stored
	// twice); node 3 keeps the distinct name_idx buildGraph gave it.
	g.nameIdx[2] = g.nameIdx[1]

	hashes, _ := colorRefine(context.Background(), g, 6)
	assert.Equal(t, hashes[1], hashes[2], "same name_idx must be equivalent")
	assert.NotEqual(t, hashes[1], hashes[3], "distinct name_idx must not be merged by content alone")

	groups := BuildDuplicateGroups(g, hashes, DefaultAnalysisOptions())
	require.Len(t, groups, 1)
	assert.Equal(t, 2, groups[0].Count)
}

func TestColorRefine_CyclicObjectsNoInfiniteLoop(t *testing.T) {
	// A.child = B; B.parent = A. A'.child = B'; B'.parent = A'.
	// Expect: A ~ A', B ~ B', and refinement terminates.
	nodes := []testNode{
		{kind: NodeHidden, name: "root", edgeCount: 4},
		{kind: NodeObject, name: "A", selfSize: 16, edgeCount: 1},
		{kind: NodeObject, name: "B", selfSize: 16, edgeCount: 1},
		{kind: NodeObject, name: "A", selfSize: 16, edgeCount: 1},
		{kind: NodeObject, name: "B", selfSize: 16, edgeCount: 1},
	}
	edges := [][]testEdge{
		{
			{kind: EdgeProperty, name: "g1", dst: 1},
			{kind: EdgeProperty, name: "g2", dst: 2},
			{kind: EdgeProperty, name: "g3", dst: 3},
			{kind: EdgeProperty, name: "g4", dst: 4},
		},
		{{kind: EdgeProperty, name: "child", dst: 2}},
		{{kind: EdgeProperty, name: "parent", dst: 1}},
		{{kind: EdgeProperty, name: "child", dst: 4}},
		{{kind: EdgeProperty, name: "parent", dst: 3}},
	}
	g := buildGraph(t, nodes, edges)

	// buildGraph gives every node its own name_idx; make A/A' and B/B'
	// share one constructor-name slot, as one constructor name does in a
	// real snapshot's strings array.
	g.nameIdx[3] = g.nameIdx[1]
	g.nameIdx[4] = g.nameIdx[2]

	hashes, _ := colorRefine(context.Background(), g, 6)
	assert.Equal(t, hashes[1], hashes[3], "A and A' should be equivalent")
	assert.Equal(t, hashes[2], hashes[4], "B and B' should be equivalent")
	assert.NotEqual(t, hashes[1], hashes[2])

	groups := BuildDuplicateGroups(g, hashes, DefaultAnalysisOptions())
	require.Len(t, groups, 2)
}

func TestColorRefine_HiddenClassFiltering(t *testing.T) {
	nodes := []testNode{
		{kind: NodeHidden, name: "root", edgeCount: 2},
		{kind: NodeHidden, name: "shape1", selfSize: 8},
		{kind: NodeHidden, name: "shape1", selfSize: 8},
	}
	edges := [][]testEdge{
		{{kind: EdgeProperty, name: "a", dst: 1}, {kind: EdgeProperty, name: "b", dst: 2}},
		{}, {},
	}
	g := buildGraph(t, nodes, edges)
	// Both hidden nodes name the same shape: give them one name_idx.
	g.nameIdx[2] = g.nameIdx[1]
	hashes, _ := colorRefine(context.Background(), g, 6)

	excluded := BuildDuplicateGroups(g, hashes, DefaultAnalysisOptions())
	assert.Empty(t, excluded)

	opts := DefaultAnalysisOptions()
	opts.IncludeHiddenClasses = true
	included := BuildDuplicateGroups(g, hashes, opts)
	require.Len(t, included, 1)
}
