package v8heap

// NodeKind identifies the kind of a heap snapshot node, resolved from the
// snapshot's node-type enumeration in its metadata (spec.md §3).
type NodeKind uint8

const (
	NodeHidden NodeKind = iota
	NodeArray
	NodeString
	NodeObject
	NodeCode
	NodeClosure
	NodeRegExp
	NodeNumber
	NodeNative
	NodeSynthetic
	NodeConcatenatedString
	NodeSlicedString
	NodeSymbol
	NodeBigInt
	NodeObjectShape
	NodeUnknownKind
)

var nodeKindNames = [...]string{
	NodeHidden:             "hidden",
	NodeArray:              "array",
	NodeString:             "string",
	NodeObject:             "object",
	NodeCode:                "code",
	NodeClosure:            "closure",
	NodeRegExp:             "regexp",
	NodeNumber:             "number",
	NodeNative:             "native",
	NodeSynthetic:          "synthetic",
	NodeConcatenatedString: "concatenated string",
	NodeSlicedString:       "sliced string",
	NodeSymbol:             "symbol",
	NodeBigInt:             "bigint",
	NodeObjectShape:        "object shape",
	NodeUnknownKind:        "unknown",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

var nodeKindByName = map[string]NodeKind{
	"hidden":             NodeHidden,
	"array":              NodeArray,
	"string":             NodeString,
	"object":             NodeObject,
	"code":               NodeCode,
	"closure":            NodeClosure,
	"regexp":             NodeRegExp,
	"number":             NodeNumber,
	"native":             NodeNative,
	"synthetic":          NodeSynthetic,
	"concatenated string": NodeConcatenatedString,
	"sliced string":        NodeSlicedString,
	"symbol":             NodeSymbol,
	"bigint":             NodeBigInt,
	"object_shape":        NodeObjectShape,
	"object shape":        NodeObjectShape,
}

// ParseNodeKind resolves a snapshot node-type string (from
// snapshot.meta.node_types) to a NodeKind. Unknown names resolve to
// NodeUnknownKind rather than erroring, per spec.md §9.
func ParseNodeKind(name string) NodeKind {
	if k, ok := nodeKindByName[name]; ok {
		return k
	}
	return NodeUnknownKind
}

// IsPrimitive reports whether a kind is a non-container, non-string leaf
// kind for duplicate-analyzer purposes (spec.md §4.3).
func (k NodeKind) IsPrimitive() bool {
	switch k {
	case NodeNumber, NodeBigInt, NodeCode, NodeNative, NodeRegExp, NodeSymbol:
		return true
	default:
		return false
	}
}

// EdgeKind identifies the kind of a heap snapshot edge (spec.md §3).
type EdgeKind uint8

const (
	EdgeContext EdgeKind = iota
	EdgeElement
	EdgeProperty
	EdgeInternal
	EdgeHidden
	EdgeShortcut
	EdgeWeak
	EdgeUnknownKind
)

var edgeKindNames = [...]string{
	EdgeContext:     "context",
	EdgeElement:     "element",
	EdgeProperty:    "property",
	EdgeInternal:    "internal",
	EdgeHidden:      "hidden",
	EdgeShortcut:    "shortcut",
	EdgeWeak:        "weak",
	EdgeUnknownKind: "unknown",
}

func (k EdgeKind) String() string {
	if int(k) < len(edgeKindNames) {
		return edgeKindNames[k]
	}
	return "unknown"
}

var edgeKindByName = map[string]EdgeKind{
	"context":  EdgeContext,
	"element":  EdgeElement,
	"property": EdgeProperty,
	"internal": EdgeInternal,
	"hidden":   EdgeHidden,
	"shortcut": EdgeShortcut,
	"weak":     EdgeWeak,
}

// ParseEdgeKind resolves a snapshot edge-type string (from
// snapshot.meta.edge_types) to an EdgeKind. Unknown names resolve to
// EdgeUnknownKind.
func ParseEdgeKind(name string) EdgeKind {
	if k, ok := edgeKindByName[name]; ok {
		return k
	}
	return EdgeUnknownKind
}

// IsStructural reports whether an edge participates in duplicate-analyzer
// equivalence and hidden-class shape keys (spec.md §4.3/§4.4): only
// property and element edges do.
func (k EdgeKind) IsStructural() bool {
	return k == EdgeProperty || k == EdgeElement
}

// AnalysisOptions configures the analysis phases. This is the core's own
// configuration surface (spec.md §6); the CLI builds one of these from
// pkg/config, but the core never imports pkg/config.
type AnalysisOptions struct {
	// TopK bounds how many duplicate groups and hidden-class groups are
	// kept in the final report (default 10).
	TopK int
	// IncludeHiddenClasses, when false, drops hidden_class/object_shape
	// kind groups from the duplicate-analyzer output (spec.md §4.3).
	IncludeHiddenClasses bool
	// MaxRefinementRounds bounds color-refinement iterations (default 6).
	MaxRefinementRounds int
	// MaxRetentionPaths is the maximum number of node-disjoint shortest
	// paths requested per target (default 1).
	MaxRetentionPaths int
	// ShapeThrashThreshold flags a constructor with more distinct shapes
	// than this as inline-cache thrash (default 10).
	ShapeThrashThreshold int
}

// DefaultAnalysisOptions returns the spec's documented defaults.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		TopK:                 10,
		IncludeHiddenClasses: false,
		MaxRefinementRounds:  6,
		MaxRetentionPaths:    1,
		ShapeThrashThreshold: 10,
	}
}

// ProgressFunc receives periodic byte/node/edge counters while parsing
// (spec.md §5: "progress reporting ... is the only in-flight feedback").
type ProgressFunc func(bytesRead, nodesRead, edgesRead int64)
