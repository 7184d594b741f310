package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/v8waste/internal/v8heap"
	"gorm.io/gorm"
)

// GormAnalysisRunRepository implements AnalysisRunRepository using GORM.
type GormAnalysisRunRepository struct {
	db *gorm.DB
}

// NewGormAnalysisRunRepository creates a new GormAnalysisRunRepository.
func NewGormAnalysisRunRepository(db *gorm.DB) *GormAnalysisRunRepository {
	return &GormAnalysisRunRepository{db: db}
}

// CreateRunning records a new run in the "running" state.
func (r *GormAnalysisRunRepository) CreateRunning(ctx context.Context, inputPath string, snapshotBytes int64) (*AnalysisRun, error) {
	run := &AnalysisRun{
		InputPath:     inputPath,
		SnapshotBytes: snapshotBytes,
		Status:        RunStatusRunning,
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}

	return run, nil
}

// CompleteSuccess records a successful run's report.
func (r *GormAnalysisRunRepository) CompleteSuccess(ctx context.Context, id int64, rep *v8heap.Report, nodeCount, edgeCount int64) error {
	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	now := time.Now()
	result := r.db.WithContext(ctx).Model(&AnalysisRun{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           RunStatusSuccess,
		"node_count":       nodeCount,
		"edge_count":       edgeCount,
		"total_objects":    rep.Summary.TotalObjects,
		"duplicate_groups": rep.Summary.DuplicateGroups,
		"total_wasted":     rep.Summary.TotalWasted,
		"report_json":      JSONField(reportJSON),
		"completed_at":     &now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to complete analysis run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis run not found: %d", id)
	}

	return nil
}

// CompleteFailure records a failed run.
func (r *GormAnalysisRunRepository) CompleteFailure(ctx context.Context, id int64, statusInfo string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&AnalysisRun{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       RunStatusFailed,
		"status_info":  statusInfo,
		"completed_at": &now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to record analysis run failure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis run not found: %d", id)
	}

	return nil
}

// GetByID retrieves a single run by its ID.
func (r *GormAnalysisRunRepository) GetByID(ctx context.Context, id int64) (*AnalysisRun, error) {
	var run AnalysisRun

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis run not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return &run, nil
}

// ListRecent retrieves the most recent runs, newest first.
func (r *GormAnalysisRunRepository) ListRecent(ctx context.Context, limit int) ([]*AnalysisRun, error) {
	var runs []*AnalysisRun

	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}

	return runs, nil
}
