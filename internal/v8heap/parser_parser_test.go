package v8heap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v8waste/pkg/utils"
)

// buildSnapshotJSON assembles a minimal literal V8 heap snapshot document.
// node_fields/edge_fields match the typical real-world layout named in
// spec.md §4.1. to_node values are given as NODE INDEX * nodeFieldWidth
// (i.e. already byte offsets), exercising the division-by-width conversion
// the parser must perform.
func buildSnapshotJSON(nodeCount, edgeCount int, nodes, edges string, strs []string) string {
	var sb strings.Builder
	sb.WriteString(`{"snapshot":{"meta":{`)
	sb.WriteString(`"node_fields":["type","name","id","self_size","edge_count"],`)
	sb.WriteString(`"node_types":[["hidden","array","string","object"],"string","number","number","number"],`)
	sb.WriteString(`"edge_fields":["type","name_or_index","to_node"],`)
	sb.WriteString(`"edge_types":[["context","element","property","internal","hidden","shortcut","weak"],"string_or_number","node"],`)
	sb.WriteString(`"node_count":`)
	sb.WriteString(itoa(nodeCount))
	sb.WriteString(`,"edge_count":`)
	sb.WriteString(itoa(edgeCount))
	sb.WriteString(`}},`)
	sb.WriteString(`"nodes":[`)
	sb.WriteString(nodes)
	sb.WriteString(`],"edges":[`)
	sb.WriteString(edges)
	sb.WriteString(`],"strings":[`)
	for i, s := range strs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"` + s + `"`)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

const nodeFieldWidth = 5 // type,name,id,self_size,edge_count

func TestParse_SimpleGraph(t *testing.T) {
	// node 0: hidden root, 1 edge -> node 1
	// node 1: object "Foo", 0 edges
	nodes := "0,0,1,0,1, 3,1,2,16,0"
	edges := `2,2,` + itoa(1*nodeFieldWidth) // property "child" -> node index 1
	doc := buildSnapshotJSON(2, 1, nodes, edges, []string{"root", "Foo", "child"})

	g, err := Parse(strings.NewReader(doc), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, NodeObject, g.Kind(1))
	assert.Equal(t, "Foo", g.Name(1))

	start, end := g.OutEdgeRange(0)
	require.Equal(t, int32(1), end-start)
	assert.Equal(t, int32(1), g.EdgeDst(start))
	assert.Equal(t, EdgeProperty, g.EdgeKind(start))
}

func TestParse_DanglingEdgeIsFatal(t *testing.T) {
	nodes := "3,0,1,0,1"
	// to_node points past the single node (byte offset 5 / width 5 == index 1, out of range)
	edges := `2,2,5`
	doc := buildSnapshotJSON(1, 1, nodes, edges, []string{"root"})

	_, err := Parse(strings.NewReader(doc), ParserOptions{}, &utils.NullLogger{})
	require.Error(t, err)
}

func TestParse_DeclaredCountMismatchWarnsAndProceeds(t *testing.T) {
	nodes := "3,0,1,0,0"
	doc := buildSnapshotJSON(5, 0, nodes, "", []string{"root"})

	g, err := Parse(strings.NewReader(doc), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err, "a declared/actual count mismatch must warn, not fail")
	assert.Equal(t, 1, g.NodeCount())
}

func TestParse_UnknownTopLevelKeyIsSkipped(t *testing.T) {
	nodes := "3,0,1,0,0"
	raw := `{"trace_function_infos":[1,2,3],` + buildSnapshotJSON(1, 0, nodes, "", []string{"root"})[1:]
	g, err := Parse(strings.NewReader(raw), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err)
	assert.Equal(t, 1, g.NodeCount())
}
