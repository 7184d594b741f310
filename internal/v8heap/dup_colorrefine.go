package v8heap

import (
	"context"
	"hash/fnv"
	"sort"

	"github.com/v8waste/pkg/collections"
	"github.com/v8waste/pkg/parallel"
)

// colorRefine computes, for every node, a hash under the equivalence
// spec.md §4.3 defines, via bounded-round 1-WL color refinement. It
// returns the final per-node hashes and whether the bound was reached
// before the partition stabilized (spec.md §7, AnalysisLimit).
//
// Round 0 assigns every node hash(kind, name_idx[, string bytes]). Each
// later round folds in the multiset of (edge_kind, edge_name_or_index,
// previous_hash(dst)) over property and element edges only — internal,
// hidden, and weak edges never participate (spec.md §4.3b/c/d). Every
// node's round-r hash depends only on round r-1 hashes, so one round's
// per-node computation is independent across nodes and is parallelized
// with parallel.ForEach; rounds themselves still run in sequence.
func colorRefine(ctx context.Context, g *CompactGraph, maxRounds int) (hashes []uint64, exhausted bool) {
	n := g.NodeCount()
	cur := make([]uint64, n)
	cfg := parallel.DefaultPoolConfig()

	nodeIdx := make([]int32, n)
	for i := range nodeIdx {
		nodeIdx[i] = int32(i)
	}

	parallel.ForEach(ctx, nodeIdx, cfg, func(_ context.Context, i int32) error {
		cur[i] = nodeHash(g, i, nil)
		return nil
	})

	if maxRounds < 0 {
		maxRounds = 0
	}

	prevDistinct := distinctCount(cur)
	for round := 1; round <= maxRounds; round++ {
		nextPtr := collections.GetUint64Slice()
		next := growUint64Slice(nextPtr, n)
		snapshot := cur // read-only view for this round's workers
		parallel.ForEach(ctx, nodeIdx, cfg, func(_ context.Context, i int32) error {
			next[i] = nodeHash(g, i, snapshot)
			return nil
		})

		distinct := distinctCount(next)
		prev := cur
		cur = next
		collections.PutUint64Slice(&prev)
		if distinct == prevDistinct {
			// Partition stopped refining: fixed point reached.
			return cur, false
		}
		prevDistinct = distinct
	}

	// Bound reached: stable only if one more round wouldn't have changed
	// anything, which we can't know without running it — report exhausted
	// whenever maxRounds was the limiting factor (maxRounds == 0 runs no
	// refinement round and is always reported as not exhausted).
	return cur, maxRounds > 0
}

// nodeHash computes one node's round hash. prevHash == nil means round 0
// (no neighborhood folded in yet).
func nodeHash(g *CompactGraph, node int32, prevHash []uint64) uint64 {
	kind := g.Kind(node)
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(kind)})

	switch kind {
	case NodeString, NodeConcatenatedString, NodeSlicedString:
		_, _ = h.Write(g.strings.Bytes(g.NameIdx(node)))
		return h.Sum64()
	}

	writeUint32(h, uint32(g.NameIdx(node)))

	if kind.IsPrimitive() {
		return h.Sum64()
	}

	if prevHash == nil {
		return h.Sum64()
	}

	start, end := g.OutEdgeRange(node)
	var elementEdges, propertyEdges []int32
	for e := start; e < end; e++ {
		switch g.EdgeKind(e) {
		case EdgeElement:
			elementEdges = append(elementEdges, e)
		case EdgeProperty:
			propertyEdges = append(propertyEdges, e)
		}
	}

	sort.Slice(elementEdges, func(i, j int) bool {
		return g.EdgeNameOrIndex(elementEdges[i]) < g.EdgeNameOrIndex(elementEdges[j])
	})
	sort.Slice(propertyEdges, func(i, j int) bool {
		a, b := g.strings.Bytes(g.EdgeNameOrIndex(propertyEdges[i])), g.strings.Bytes(g.EdgeNameOrIndex(propertyEdges[j]))
		return lessBytes(a, b)
	})

	for _, e := range elementEdges {
		writeUint32(h, uint32(g.EdgeNameOrIndex(e)))
		writeUint64(h, prevHash[g.EdgeDst(e)])
	}
	for _, e := range propertyEdges {
		_, _ = h.Write(g.strings.Bytes(g.EdgeNameOrIndex(e)))
		writeUint64(h, prevHash[g.EdgeDst(e)])
	}
	return h.Sum64()
}

func lessBytes(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func writeUint32(h interface{ Write([]byte) (int, error) }, v uint32) {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	_, _ = h.Write(b[:])
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(b[:])
}

// growUint64Slice resizes a pooled scratch buffer to exactly n zeroed
// elements, reusing its backing array when capacity already covers n.
func growUint64Slice(s *[]uint64, n int) []uint64 {
	if cap(*s) < n {
		*s = make([]uint64, n)
		return *s
	}
	*s = (*s)[:n]
	for i := range *s {
		(*s)[i] = 0
	}
	return *s
}

func distinctCount(hashes []uint64) int {
	seen := make(map[uint64]struct{}, len(hashes))
	for _, h := range hashes {
		seen[h] = struct{}{}
	}
	return len(seen)
}
