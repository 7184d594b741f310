package v8heap

import (
	"io"

	"github.com/v8waste/pkg/utils"
)

// ParserOptions configures snapshot ingestion.
type ParserOptions struct {
	// Progress, if non-nil, is invoked periodically while streaming nodes
	// and edges (spec.md §5, the only in-flight feedback during a run).
	Progress ProgressFunc
	// ProgressEvery bounds how many nodes/edges are read between progress
	// callbacks, to keep the callback cheap at 10GB+ scale. Defaults to
	// 100000 when zero.
	ProgressEvery int64
}

// Parse streams a V8 heap snapshot JSON document from r and produces a
// finalized CompactGraph. It never holds the full `nodes`/`edges`/`strings`
// arrays in memory at once — each is decoded one fixed-width window (or one
// string) at a time (spec.md §4.1).
func Parse(r io.Reader, opts ParserOptions, log utils.Logger) (*CompactGraph, error) {
	if log == nil {
		log = &utils.NullLogger{}
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 100000
	}

	tr := newTokenReader(r)
	if err := tr.expectDelim('{'); err != nil {
		return nil, err
	}

	var meta *snapshotMeta
	var builder *GraphBuilder
	var strTable *StringTable
	var nodesSeen, edgesSeen, stringsSeen bool
	var nodesRead, edgesRead int64

	for {
		key, ok, err := tr.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		switch key {
		case "snapshot":
			raw, err := tr.rawValue()
			if err != nil {
				return nil, err
			}
			meta, err = parseSnapshotMeta(raw)
			if err != nil {
				return nil, err
			}
			strTable = NewStringTable(0)
			builder = NewGraphBuilder(meta.declaredNodeCount, meta.declaredEdgeCount, strTable)

		case "nodes":
			if meta == nil || builder == nil {
				return nil, newInputMalformed(tr.inputOffset(), nil)
			}
			n, err := readNodes(tr, meta, builder, opts, log)
			if err != nil {
				return nil, err
			}
			nodesRead = n
			nodesSeen = true
			if int(nodesRead) != meta.declaredNodeCount {
				log.Warn("declared node_count %d does not match %d nodes actually read", meta.declaredNodeCount, nodesRead)
			}

		case "edges":
			if meta == nil || builder == nil || !nodesSeen {
				return nil, newInputMalformed(tr.inputOffset(), nil)
			}
			n, err := readEdges(tr, meta, builder, opts, log)
			if err != nil {
				return nil, err
			}
			edgesRead = n
			edgesSeen = true
			if int(edgesRead) != meta.declaredEdgeCount {
				log.Warn("declared edge_count %d does not match %d edges actually read", meta.declaredEdgeCount, edgesRead)
			}

		case "strings":
			if strTable == nil {
				// strings may legally precede "snapshot" is not expected,
				// but guard against it defensively rather than panicking.
				return nil, newInputMalformed(tr.inputOffset(), nil)
			}
			if err := readStrings(tr, strTable); err != nil {
				return nil, err
			}
			stringsSeen = true

		default:
			if err := tr.skipValue(); err != nil {
				return nil, err
			}
		}
	}

	if meta == nil || builder == nil {
		return nil, newInputMalformed(tr.inputOffset(), nil)
	}
	if !nodesSeen || !edgesSeen {
		return nil, newSchemaMismatch("snapshot is missing nodes or edges array")
	}
	_ = stringsSeen // an empty strings array is legal (all names empty)

	g, err := builder.Finalize()
	if err != nil {
		return nil, err
	}
	if opts.Progress != nil {
		opts.Progress(tr.inputOffset(), nodesRead, edgesRead)
	}
	return g, nil
}

// readNodes streams the `nodes` array, decoding each window of
// meta.nodeFieldCount integers into one GraphBuilder.AddNode call. The
// edge_count field's running prefix sum becomes edge_start (spec.md §4.1
// step 3).
func readNodes(tr *tokenReader, meta *snapshotMeta, b *GraphBuilder, opts ParserOptions, log utils.Logger) (int64, error) {
	if err := tr.expectDelim('['); err != nil {
		return 0, err
	}

	typeIdx, hasType := meta.nodeFieldIndex["type"]
	nameIdx, hasName := meta.nodeFieldIndex["name"]
	idIdx, hasID := meta.nodeFieldIndex["id"]
	sizeIdx, hasSize := meta.nodeFieldIndex["self_size"]
	edgeCountIdx, hasEdgeCount := meta.nodeFieldIndex["edge_count"]
	if !hasType {
		return 0, newSchemaMismatch("node_fields has no type column")
	}

	window := make([]int64, meta.nodeFieldCount)
	var count int64

	for tr.more() {
		for f := 0; f < meta.nodeFieldCount; f++ {
			v, err := tr.nextInt()
			if err != nil {
				return 0, err
			}
			window[f] = v
		}

		kind := meta.kindOf(window[typeIdx])
		var name int32
		if hasName {
			name = int32(window[nameIdx])
		}
		var id int64
		if hasID {
			id = window[idIdx]
		}
		var selfSize int32
		if hasSize {
			selfSize = int32(window[sizeIdx])
		}
		var edgeCount int32
		if hasEdgeCount {
			edgeCount = int32(window[edgeCountIdx])
		}

		b.AddNode(kind, name, id, selfSize, edgeCount)
		count++
		if opts.Progress != nil && count%opts.ProgressEvery == 0 {
			opts.Progress(tr.inputOffset(), count, 0)
		}
	}

	if err := tr.expectDelim(']'); err != nil {
		return 0, err
	}
	return count, nil
}

// readEdges streams the `edges` array. The to_node field is a BYTE OFFSET
// into the nodes array; it must be divided by node_fields' width to recover
// a node index (spec.md §4.1 step 4 — the documented pitfall). Each
// resulting index is checked against the number of nodes actually built;
// out of range is a fatal dangling edge.
func readEdges(tr *tokenReader, meta *snapshotMeta, b *GraphBuilder, opts ParserOptions, log utils.Logger) (int64, error) {
	if err := tr.expectDelim('['); err != nil {
		return 0, err
	}

	typeIdx, hasType := meta.edgeFieldIndex["type"]
	nameIdx, hasNameOrIndex := meta.edgeFieldIndex["name_or_index"]
	toNodeIdx, hasToNode := meta.edgeFieldIndex["to_node"]
	if !hasType || !hasToNode {
		return 0, newSchemaMismatch("edge_fields has no type or to_node column")
	}

	window := make([]int64, meta.edgeFieldCount)
	var count int64
	nodeCount := int32(b.NodeCount())
	ownerIdx := 0

	for tr.more() {
		for f := 0; f < meta.edgeFieldCount; f++ {
			v, err := tr.nextInt()
			if err != nil {
				return 0, err
			}
			window[f] = v
		}

		kind := meta.edgeKindOf(window[typeIdx])
		var nameOrIndex int32
		if hasNameOrIndex {
			nameOrIndex = int32(window[nameIdx])
		}

		dst := window[toNodeIdx] / int64(meta.nodeFieldCount)
		if dst < 0 || dst >= int64(nodeCount) {
			for ownerIdx < len(b.edgeStart)-1 && int64(b.edgeStart[ownerIdx+1]) <= count {
				ownerIdx++
			}
			return 0, newDanglingEdge(ownerIdx, int(count), dst)
		}

		for ownerIdx < len(b.edgeStart)-1 && int64(b.edgeStart[ownerIdx+1]) <= count {
			ownerIdx++
		}

		b.AddEdge(kind, nameOrIndex, int32(dst))
		count++
		if opts.Progress != nil && count%opts.ProgressEvery == 0 {
			opts.Progress(tr.inputOffset(), 0, count)
		}
	}

	if err := tr.expectDelim(']'); err != nil {
		return 0, err
	}
	return count, nil
}

// readStrings streams the `strings` array into the string table, recording
// each string's byte offset (spec.md §4.1 step 5).
func readStrings(tr *tokenReader, st *StringTable) error {
	if err := tr.expectDelim('['); err != nil {
		return err
	}
	for tr.more() {
		s, err := tr.nextString()
		if err != nil {
			return err
		}
		st.Add(s)
	}
	return tr.expectDelim(']')
}
