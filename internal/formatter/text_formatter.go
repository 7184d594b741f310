package formatter

import (
	"fmt"
	"strings"

	"github.com/v8waste/internal/v8heap"
)

// TextFormatter renders a Report as a human-readable table, grounded on the
// teacher's "=== Section ===" banner style.
type TextFormatter struct{}

// Format renders the report as plain text.
func (f *TextFormatter) Format(rep *v8heap.Report) (string, error) {
	var b strings.Builder

	fmt.Fprintln(&b, "=== Heap Waste Summary ===")
	fmt.Fprintf(&b, "  Total Objects:    %d\n", rep.Summary.TotalObjects)
	fmt.Fprintf(&b, "  Duplicate Groups: %d\n", rep.Summary.DuplicateGroups)
	fmt.Fprintf(&b, "  Total Wasted:     %s (%d bytes)\n", formatBytes(rep.Summary.TotalWasted), rep.Summary.TotalWasted)
	if rep.ColorRefinementExhausted {
		fmt.Fprintln(&b, "  Note: color-refinement bound reached before the partition stabilized; duplicate groups may under-merge.")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "=== Top Duplicate Groups ===")
	if len(rep.DuplicateGroups) == 0 {
		fmt.Fprintln(&b, "  (none found)")
	}
	for i, g := range rep.DuplicateGroups {
		fmt.Fprintf(&b, "  %2d. %-20s  count=%-6d size=%-8s wasted=%s\n",
			i+1, truncateString(g.ObjectType, 20), g.Count, formatBytes(int64(g.SizePerObject)), formatBytes(g.TotalWasted))
		fmt.Fprintf(&b, "      representative: %s (node %d)\n", truncateString(g.RepresentativeName, 60), g.RepresentativeID)
		for _, p := range g.RetentionPaths {
			fmt.Fprintf(&b, "      %s\n", formatPath(p))
		}
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "=== Hidden Class / Shape Groups ===")
	if len(rep.HiddenClassGroups) == 0 {
		fmt.Fprintln(&b, "  (none found)")
	}
	for i, h := range rep.HiddenClassGroups {
		thrash := ""
		if h.ShapeThrash {
			thrash = "  [shape thrash]"
		}
		fmt.Fprintf(&b, "  %2d. %-20s  instances=%-6d shapes=%-4d size=%s%s\n",
			i+1, truncateString(h.ConstructorName, 20), h.InstanceCount, h.DistinctShapes, formatBytes(h.TotalSize), thrash)
	}

	return b.String(), nil
}

func formatPath(p v8heap.RetentionPathResult) string {
	if p.Unreachable {
		return "retained by: (unreachable from root)"
	}
	var b strings.Builder
	b.WriteString("retained by: root")
	for _, s := range p.Steps {
		if s.EdgeLabel == "" {
			fmt.Fprintf(&b, " -> %s", s.NodeName)
		} else {
			fmt.Fprintf(&b, " -[%s:%s]-> %s", s.EdgeKind, s.EdgeLabel, s.NodeName)
		}
	}
	return b.String()
}
