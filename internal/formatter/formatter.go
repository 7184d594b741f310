// Package formatter renders an analyzed heap report for the v8waste CLI.
package formatter

import (
	"fmt"

	"github.com/v8waste/internal/v8heap"
)

// ReportFormatter renders a finished Report in a particular output shape.
type ReportFormatter interface {
	// Format renders the report in the formatter's shape and returns it as
	// a string.
	Format(rep *v8heap.Report) (string, error)
}

// ByName returns the formatter for a --format flag value ("text" or
// "structured"); unrecognized names fall back to text.
func ByName(name string) ReportFormatter {
	switch name {
	case "structured":
		return &StructuredFormatter{}
	default:
		return &TextFormatter{}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
