package v8heap

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v8waste/pkg/utils"
)

// buildDuplicateFixture assembles a tiny snapshot with a root holding two
// structurally-identical "Foo" objects, reachable via distinct property
// edges, to exercise the full Parse -> Analyze pipeline end to end.
func buildDuplicateFixture() string {
	nodes := "0,0,1,0,2, 3,1,2,16,0, 3,1,3,16,0"
	edges := "2,2,5, 2,3,10"
	return buildSnapshotJSON(3, 2, nodes, edges, []string{"root", "Foo", "a", "b"})
}

func TestAnalyze_DuplicateAndHiddenClassGroups(t *testing.T) {
	g, err := Parse(strings.NewReader(buildDuplicateFixture()), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err)

	opts := DefaultAnalysisOptions()
	rep, err := Analyze(context.Background(), g, opts, &utils.NullLogger{})
	require.NoError(t, err)

	require.Len(t, rep.DuplicateGroups, 1)
	dup := rep.DuplicateGroups[0]
	assert.Equal(t, "Foo", dup.RepresentativeName)
	assert.Equal(t, 2, dup.Count)
	assert.Equal(t, int32(16), dup.SizePerObject)
	assert.Equal(t, int64(16), dup.TotalWasted)
	require.Len(t, dup.RetentionPaths, 1)
	assert.False(t, dup.RetentionPaths[0].Unreachable)

	require.Len(t, rep.HiddenClassGroups, 1)
	hc := rep.HiddenClassGroups[0]
	assert.Equal(t, "Foo", hc.ConstructorName)
	assert.Equal(t, 2, hc.InstanceCount)
	assert.Equal(t, 1, hc.DistinctShapes)
	assert.False(t, hc.ShapeThrash)

	assert.Equal(t, 3, rep.Summary.TotalObjects)
	assert.Equal(t, 1, rep.Summary.DuplicateGroups)
	assert.Equal(t, int64(16), rep.Summary.TotalWasted)
	assert.False(t, rep.ColorRefinementExhausted)
}

func TestAnalyze_NoDuplicates(t *testing.T) {
	nodes := "0,0,1,0,1, 3,1,2,16,0"
	edges := "2,2,5"
	doc := buildSnapshotJSON(2, 1, nodes, edges, []string{"root", "Solo", "x"})

	g, err := Parse(strings.NewReader(doc), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err)

	rep, err := Analyze(context.Background(), g, DefaultAnalysisOptions(), &utils.NullLogger{})
	require.NoError(t, err)
	assert.Empty(t, rep.DuplicateGroups)
	require.Len(t, rep.HiddenClassGroups, 1)
	assert.Equal(t, 1, rep.HiddenClassGroups[0].InstanceCount)
}

// TestAnalyze_CyclicPairTerminates exercises a two-object reference cycle
// (A <-> B, both reachable from root) to confirm color refinement and the
// retention-path BFS both terminate rather than looping on the cycle.
func TestAnalyze_CyclicPairTerminates(t *testing.T) {
	// node0: root, 1 edge -> node1 (A)
	// node1: object "A", 1 edge -> node2 (B)
	// node2: object "B", 1 edge -> node1 (A), closing the cycle
	nodes := "0,0,1,0,1, 3,1,2,16,1, 3,2,3,16,1"
	edges := "2,3,5, 2,4,10, 2,3,5"
	doc := buildSnapshotJSON(3, 3, nodes, edges, []string{"root", "A", "B", "next", "prev"})

	g, err := Parse(strings.NewReader(doc), ParserOptions{}, &utils.NullLogger{})
	require.NoError(t, err)

	rep, err := Analyze(context.Background(), g, DefaultAnalysisOptions(), &utils.NullLogger{})
	require.NoError(t, err)
	assert.False(t, rep.ColorRefinementExhausted)
	assert.Equal(t, 3, rep.Summary.TotalObjects)
}
