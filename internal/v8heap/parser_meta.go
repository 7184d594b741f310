package v8heap

import "encoding/json"

// snapshotMeta is the resolved form of the snapshot's `snapshot.meta` block:
// field-name-to-column-index maps and kind enumerations, ready to decode the
// `nodes`/`edges` integer windows that follow (spec.md §4.1 step 2).
type snapshotMeta struct {
	nodeFieldIndex map[string]int
	nodeFieldCount int
	edgeFieldIndex map[string]int
	edgeFieldCount int

	nodeKindEnum []NodeKind
	edgeKindEnum []EdgeKind

	declaredNodeCount int
	declaredEdgeCount int
}

// rawSnapshotMeta mirrors the JSON shape of the top-level `snapshot` value.
// node_types/edge_types entries are left as json.RawMessage because only the
// first entry (the kind-name enumeration) is meaningful here; the remaining
// entries describe other fields' value types ("string", "number") and are
// not needed to build the compact graph.
type rawSnapshotMeta struct {
	Meta struct {
		NodeFields []string          `json:"node_fields"`
		NodeTypes  []json.RawMessage `json:"node_types"`
		EdgeFields []string          `json:"edge_fields"`
		EdgeTypes  []json.RawMessage `json:"edge_types"`
		NodeCount  int               `json:"node_count"`
		EdgeCount  int               `json:"edge_count"`
	} `json:"meta"`
}

// knownNodeFields/knownEdgeFields name the columns the core actually reads.
// Any other field present in node_fields/edge_fields is recognized as a
// column (so the window width stays correct) but simply has no index
// entry consulted when decoding — the spec.md §9 "unknown fields are
// skipped, not errors" rule applies at the per-field level, not just to
// wholly unrecognized top-level keys.
var knownNodeFields = map[string]bool{
	"type": true, "name": true, "id": true, "self_size": true, "edge_count": true,
}

var knownEdgeFields = map[string]bool{
	"type": true, "name_or_index": true, "to_node": true,
}

// parseSnapshotMeta decodes one `snapshot` value into a resolved snapshotMeta.
func parseSnapshotMeta(raw json.RawMessage) (*snapshotMeta, error) {
	var rsm rawSnapshotMeta
	if err := json.Unmarshal(raw, &rsm); err != nil {
		return nil, newInputMalformed(0, err)
	}
	if len(rsm.Meta.NodeFields) == 0 || len(rsm.Meta.EdgeFields) == 0 {
		return nil, newSchemaMismatch("snapshot.meta is missing node_fields or edge_fields")
	}

	m := &snapshotMeta{
		nodeFieldIndex:    fieldIndexMap(rsm.Meta.NodeFields, knownNodeFields),
		nodeFieldCount:    len(rsm.Meta.NodeFields),
		edgeFieldIndex:    fieldIndexMap(rsm.Meta.EdgeFields, knownEdgeFields),
		edgeFieldCount:    len(rsm.Meta.EdgeFields),
		declaredNodeCount: rsm.Meta.NodeCount,
		declaredEdgeCount: rsm.Meta.EdgeCount,
	}

	if _, ok := m.nodeFieldIndex["type"]; !ok {
		return nil, newSchemaMismatch("node_fields has no type column")
	}
	if _, ok := m.edgeFieldIndex["to_node"]; !ok {
		return nil, newSchemaMismatch("edge_fields has no to_node column")
	}

	nodeEnumNames, err := firstStringArray(rsm.Meta.NodeTypes)
	if err != nil {
		return nil, newInputMalformed(0, err)
	}
	m.nodeKindEnum = make([]NodeKind, len(nodeEnumNames))
	for i, name := range nodeEnumNames {
		m.nodeKindEnum[i] = ParseNodeKind(name)
	}

	edgeEnumNames, err := firstStringArray(rsm.Meta.EdgeTypes)
	if err != nil {
		return nil, newInputMalformed(0, err)
	}
	m.edgeKindEnum = make([]EdgeKind, len(edgeEnumNames))
	for i, name := range edgeEnumNames {
		m.edgeKindEnum[i] = ParseEdgeKind(name)
	}

	return m, nil
}

// fieldIndexMap resolves the positions of the fields this core reads,
// ignoring any field name not in `known`.
func fieldIndexMap(fields []string, known map[string]bool) map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if known[f] {
			idx[f] = i
		}
	}
	return idx
}

// firstStringArray extracts node_types[0]/edge_types[0] — the kind-name
// enumeration — from the raw meta array. Other entries in the array
// describe non-enum field value types and are ignored.
func firstStringArray(entries []json.RawMessage) ([]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(entries[0], &names); err != nil {
		return nil, err
	}
	return names, nil
}

// kindOf resolves a raw node-type integer to a NodeKind, defaulting to
// NodeUnknownKind for an out-of-range value rather than failing the parse
// (spec.md only lists to_node-range and field-width mismatches as fatal).
func (m *snapshotMeta) kindOf(raw int64) NodeKind {
	if raw < 0 || int(raw) >= len(m.nodeKindEnum) {
		return NodeUnknownKind
	}
	return m.nodeKindEnum[raw]
}

func (m *snapshotMeta) edgeKindOf(raw int64) EdgeKind {
	if raw < 0 || int(raw) >= len(m.edgeKindEnum) {
		return EdgeUnknownKind
	}
	return m.edgeKindEnum[raw]
}
