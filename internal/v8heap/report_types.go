package v8heap

// Summary is the report's top-level totals (spec.md §6).
type Summary struct {
	TotalObjects    int
	DuplicateGroups int
	TotalWasted     int64
}

// DuplicateGroupReport is one top-K duplicate-group entry, enriched with
// retention paths (spec.md §6).
type DuplicateGroupReport struct {
	ObjectType         string
	RepresentativeName string
	Count              int
	SizePerObject      int32
	TotalWasted        int64
	RepresentativeID   int64
	NodeIDs            []int64
	RetentionPaths     []RetentionPathResult
}

// HiddenClassGroupReport is one top-K hidden-class-group entry (spec.md §6).
type HiddenClassGroupReport struct {
	ConstructorName string
	TotalSize       int64
	InstanceCount   int
	DistinctShapes  int
	ShapeThrash     bool
}

// Report is the final logical report record (spec.md §3, "the report is a
// single final value"; rendering to text/structured output is external).
type Report struct {
	Summary           Summary
	DuplicateGroups   []DuplicateGroupReport
	HiddenClassGroups []HiddenClassGroupReport

	// ColorRefinementExhausted is set when the color-refinement bound was
	// reached before the partition stabilized (spec.md §7, AnalysisLimit
	// — non-fatal, the report notes it rather than aborting).
	ColorRefinementExhausted bool
}
