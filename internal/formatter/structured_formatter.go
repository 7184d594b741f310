package formatter

import (
	"encoding/json"

	"github.com/v8waste/internal/v8heap"
)

// StructuredFormatter renders a Report as indented JSON.
type StructuredFormatter struct{}

// Format renders the report as JSON.
func (f *StructuredFormatter) Format(rep *v8heap.Report) (string, error) {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
