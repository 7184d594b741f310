package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v8waste/internal/v8heap"
)

func sampleReport() *v8heap.Report {
	return &v8heap.Report{
		Summary: v8heap.Summary{TotalObjects: 10, DuplicateGroups: 1, TotalWasted: 2048},
		DuplicateGroups: []v8heap.DuplicateGroupReport{
			{
				ObjectType:         "object",
				RepresentativeName: "Point",
				Count:              4,
				SizePerObject:      32,
				TotalWasted:        96,
				RepresentativeID:   7,
				RetentionPaths: []v8heap.RetentionPathResult{
					{Steps: []v8heap.RetentionStep{
						{NodeName: "cache", NodeType: "object"},
						{NodeName: "Point", NodeType: "object", EdgeKind: "property", EdgeLabel: "entries"},
					}},
				},
			},
		},
		HiddenClassGroups: []v8heap.HiddenClassGroupReport{
			{ConstructorName: "Widget", TotalSize: 512, InstanceCount: 8, DistinctShapes: 3, ShapeThrash: true},
		},
	}
}

func TestByName(t *testing.T) {
	assert.IsType(t, &StructuredFormatter{}, ByName("structured"))
	assert.IsType(t, &TextFormatter{}, ByName("text"))
	assert.IsType(t, &TextFormatter{}, ByName("unknown"))
}

func TestTextFormatter_Format(t *testing.T) {
	out, err := (&TextFormatter{}).Format(sampleReport())
	require.NoError(t, err)
	assert.Contains(t, out, "Heap Waste Summary")
	assert.Contains(t, out, "Point")
	assert.Contains(t, out, "shape thrash")
	assert.Contains(t, out, "retained by: root -> cache -[property:entries]-> Point")
}

func TestTextFormatter_UnreachablePath(t *testing.T) {
	rep := sampleReport()
	rep.DuplicateGroups[0].RetentionPaths = []v8heap.RetentionPathResult{{Unreachable: true}}

	out, err := (&TextFormatter{}).Format(rep)
	require.NoError(t, err)
	assert.Contains(t, out, "(unreachable from root)")
}

func TestTextFormatter_EmptyReport(t *testing.T) {
	out, err := (&TextFormatter{}).Format(&v8heap.Report{})
	require.NoError(t, err)
	assert.Contains(t, out, "(none found)")
}

func TestStructuredFormatter_Format(t *testing.T) {
	out, err := (&StructuredFormatter{}).Format(sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"ConstructorName": "Widget"`))
	assert.True(t, strings.Contains(out, `"TotalWasted": 2048`))
}
