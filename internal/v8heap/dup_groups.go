package v8heap

import "sort"

// DuplicateGroup is a bucket of structurally-equivalent nodes (spec.md
// §3). Representative is always the smallest node index in the group —
// the deterministic tiebreak spec.md §9 requires.
type DuplicateGroup struct {
	Hash           uint64
	Representative int32
	Members        []int32
	Count          int
	SizePerObject  int32
	TotalWasted    int64
	Kind           NodeKind
	Name           string
}

// BuildDuplicateGroups buckets nodes by their final color-refinement hash
// and applies the filtering spec.md §4.3 describes: singleton buckets are
// not groups, zero-size groups are dropped, and hidden_class/object_shape
// groups are excluded unless IncludeHiddenClasses is set.
func BuildDuplicateGroups(g *CompactGraph, hashes []uint64, opts AnalysisOptions) []DuplicateGroup {
	buckets := make(map[uint64][]int32)
	for i := 0; i < g.NodeCount(); i++ {
		h := hashes[i]
		buckets[h] = append(buckets[h], int32(i))
	}

	groups := make([]DuplicateGroup, 0, len(buckets))
	for hash, members := range buckets {
		if len(members) < 2 {
			continue
		}
		// members were appended in ascending node-index order, so the
		// first is already the smallest-index representative.
		rep := members[0]
		kind := g.Kind(rep)
		if !opts.IncludeHiddenClasses && (kind == NodeHidden || kind == NodeObjectShape) {
			continue
		}
		size := g.SelfSize(rep)
		if size == 0 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Hash:           hash,
			Representative: rep,
			Members:        members,
			Count:          len(members),
			SizePerObject:  size,
			TotalWasted:    int64(len(members)-1) * int64(size),
			Kind:           kind,
			Name:           g.Name(rep),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalWasted != groups[j].TotalWasted {
			return groups[i].TotalWasted > groups[j].TotalWasted
		}
		return g.ID(groups[i].Representative) < g.ID(groups[j].Representative)
	})

	return groups
}
