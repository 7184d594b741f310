package v8heap

import (
	"fmt"

	apperrors "github.com/v8waste/pkg/errors"
)

// Error codes for the six error kinds spec.md §7 defines, aliased from
// pkg/errors so the core and the repository/CLI layers agree on one set of
// strings. The first four are fatal and abort the run; the last two are
// non-fatal and annotate the affected report entry.
const (
	CodeInputMalformed = apperrors.CodeInputMalformed
	CodeSchemaMismatch = apperrors.CodeSchemaMismatch
	CodeDanglingEdge   = apperrors.CodeDanglingEdge
	CodeIoFailure      = apperrors.CodeIOFailure
	CodeAnalysisLimit  = apperrors.CodeAnalysisLimit
	CodeUnreachable    = apperrors.CodeUnreachable
)

// newInputMalformed reports malformed JSON or absent metadata, with the
// byte offset at which the failure was detected.
func newInputMalformed(offset int64, cause error) *apperrors.AppError {
	return apperrors.Wrap(CodeInputMalformed, fmt.Sprintf("malformed snapshot at byte offset %d", offset), cause)
}

// newSchemaMismatch reports a declared field width inconsistent with the
// actual node/edge array lengths.
func newSchemaMismatch(msg string) *apperrors.AppError {
	return apperrors.New(CodeSchemaMismatch, msg)
}

// newDanglingEdge reports a to_node that resolves outside the node range
// after the byte-offset-to-index conversion, naming the owning node and
// edge position.
func newDanglingEdge(node, edgePos int, target int64) *apperrors.AppError {
	return apperrors.New(CodeDanglingEdge, fmt.Sprintf("edge %d of node %d resolves to out-of-range node index %d", edgePos, node, target))
}

// IsFatal reports whether the given error represents one of the four fatal
// kinds that must abort the run (spec.md §7 propagation policy).
func IsFatal(err error) bool {
	switch apperrors.GetErrorCode(err) {
	case CodeInputMalformed, CodeSchemaMismatch, CodeDanglingEdge, CodeIoFailure:
		return true
	default:
		return false
	}
}
