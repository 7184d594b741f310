// Package repository provides run-history bookkeeping for the v8waste CLI.
// It is not a core dependency: internal/v8heap never imports gorm or this
// package, it only produces the Report that callers persist here.
package repository

import (
	"database/sql/driver"
	"errors"
	"time"
)

// AnalysisRun represents one completed (or in-progress) analyze invocation,
// stored in the analysis_runs table.
type AnalysisRun struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	InputPath       string     `gorm:"column:input_path;type:varchar(1024)"`
	SnapshotBytes   int64      `gorm:"column:snapshot_bytes"`
	NodeCount       int64      `gorm:"column:node_count"`
	EdgeCount       int64      `gorm:"column:edge_count"`
	TotalObjects    int64      `gorm:"column:total_objects"`
	DuplicateGroups int64      `gorm:"column:duplicate_groups"`
	TotalWasted     int64      `gorm:"column:total_wasted"`
	Status          RunStatus  `gorm:"column:status;type:varchar(32)"`
	StatusInfo      string     `gorm:"column:status_info;type:text"`
	ReportJSON      JSONField  `gorm:"column:report_json;type:json"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	CompletedAt     *time.Time `gorm:"column:completed_at"`
}

// TableName returns the table name for AnalysisRun.
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// RunStatus is the lifecycle state of an AnalysisRun.
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// JSONField is a custom type for handling JSON columns in GORM, carried over
// unchanged from the task-centric schema since it is storage-agnostic.
type JSONField []byte

// Value implements driver.Valuer.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
