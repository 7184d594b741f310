// Package repository provides run-history bookkeeping for the v8waste CLI.
package repository

import (
	"context"

	"github.com/v8waste/internal/v8heap"
)

// AnalysisRunRepository defines the interface for run-history operations
// against the single analysis_runs table. This is the CLI's bookkeeping,
// not a core dependency: internal/v8heap never imports gorm or this
// package.
type AnalysisRunRepository interface {
	// CreateRunning records a new run in the "running" state before analysis
	// starts, so a crash mid-run still leaves a trace.
	CreateRunning(ctx context.Context, inputPath string, snapshotBytes int64) (*AnalysisRun, error)

	// CompleteSuccess records a successful run's report against an
	// already-created AnalysisRun row.
	CompleteSuccess(ctx context.Context, id int64, rep *v8heap.Report, nodeCount, edgeCount int64) error

	// CompleteFailure records a failed run, with the error message that
	// caused it to abort.
	CompleteFailure(ctx context.Context, id int64, statusInfo string) error

	// GetByID retrieves a single run by its ID.
	GetByID(ctx context.Context, id int64) (*AnalysisRun, error)

	// ListRecent retrieves the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*AnalysisRun, error)
}
