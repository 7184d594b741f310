package v8heap

import (
	"sort"
	"strings"
)

// HiddenClassGroup aggregates object nodes sharing a constructor name,
// tracking how many distinct property-edge shapes were observed under
// that name (spec.md §3/§4.4).
type HiddenClassGroup struct {
	ConstructorName string
	TotalSize       int64
	InstanceCount   int
	DistinctShapes  int
	// ShapeThrash flags constructor names with more distinct shapes than
	// AnalysisOptions.ShapeThrashThreshold — a candidate for inline-cache
	// thrash (spec.md §4.4).
	ShapeThrash bool

	nameIdx int32 // internal: used only for deterministic tiebreak sorting
}

// BuildHiddenClassGroups aggregates every object-kind node by constructor
// name (name_idx), counting the distinct (constructor, ordered
// property-edge-name sequence) shape keys observed per constructor.
// Property-edge names participate in shape-key order as they appear in
// the snapshot — unlike the duplicate analyzer's sorted comparison, a
// hidden class is order-sensitive by definition (spec.md GLOSSARY).
func BuildHiddenClassGroups(g *CompactGraph, opts AnalysisOptions) []HiddenClassGroup {
	type accum struct {
		totalSize     int64
		instanceCount int
		shapes        map[string]struct{}
		name          string
	}

	byConstructor := make(map[int32]*accum)

	n := g.NodeCount()
	for i := 0; i < n; i++ {
		node := int32(i)
		if g.Kind(node) != NodeObject {
			continue
		}
		nameIdx := g.NameIdx(node)
		a, ok := byConstructor[nameIdx]
		if !ok {
			a = &accum{shapes: make(map[string]struct{}), name: g.Name(node)}
			byConstructor[nameIdx] = a
		}
		a.totalSize += int64(g.SelfSize(node))
		a.instanceCount++
		a.shapes[shapeKey(g, node)] = struct{}{}
	}

	groups := make([]HiddenClassGroup, 0, len(byConstructor))
	for nameIdx, a := range byConstructor {
		groups = append(groups, HiddenClassGroup{
			ConstructorName: a.name,
			TotalSize:       a.totalSize,
			InstanceCount:   a.instanceCount,
			DistinctShapes:  len(a.shapes),
			ShapeThrash:     len(a.shapes) > opts.ShapeThrashThreshold,
			nameIdx:         nameIdx,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalSize != groups[j].TotalSize {
			return groups[i].TotalSize > groups[j].TotalSize
		}
		return groups[i].nameIdx < groups[j].nameIdx
	})

	return groups
}

// shapeKey derives the (constructor, ordered property-edge name sequence)
// key for one object node's hidden class (spec.md §4.4).
func shapeKey(g *CompactGraph, node int32) string {
	var sb strings.Builder
	sb.WriteString(g.Name(node))
	sb.WriteByte(0)
	start, end := g.OutEdgeRange(node)
	for e := start; e < end; e++ {
		if g.EdgeKind(e) != EdgeProperty {
			continue
		}
		sb.WriteString(g.strings.Get(int(g.EdgeNameOrIndex(e))))
		sb.WriteByte(0)
	}
	return sb.String()
}
