package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/v8waste/internal/v8heap"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&AnalysisRun{}))

	return db
}

func TestGormAnalysisRunRepository_CreateRunning(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)
	ctx := context.Background()

	run, err := repo.CreateRunning(ctx, "/tmp/heap.json", 4096)
	require.NoError(t, err)
	assert.NotZero(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, int64(4096), run.SnapshotBytes)
}

func TestGormAnalysisRunRepository_CompleteSuccess(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)
	ctx := context.Background()

	run, err := repo.CreateRunning(ctx, "/tmp/heap.json", 4096)
	require.NoError(t, err)

	rep := &v8heap.Report{
		Summary: v8heap.Summary{
			TotalObjects:    100,
			DuplicateGroups: 3,
			TotalWasted:     2048,
		},
	}
	require.NoError(t, repo.CompleteSuccess(ctx, run.ID, rep, 100, 200))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusSuccess, got.Status)
	assert.Equal(t, int64(100), got.NodeCount)
	assert.Equal(t, int64(200), got.EdgeCount)
	assert.Equal(t, int64(3), got.DuplicateGroups)
	assert.Equal(t, int64(2048), got.TotalWasted)
	assert.NotNil(t, got.CompletedAt)
}

func TestGormAnalysisRunRepository_CompleteFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)
	ctx := context.Background()

	run, err := repo.CreateRunning(ctx, "/tmp/bad.json", 10)
	require.NoError(t, err)

	require.NoError(t, repo.CompleteFailure(ctx, run.ID, "malformed snapshot at byte offset 4"))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Contains(t, got.StatusInfo, "malformed snapshot")
}

func TestGormAnalysisRunRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.Error(t, err)
}

func TestGormAnalysisRunRepository_CompleteSuccess_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)

	err := repo.CompleteSuccess(context.Background(), 999, &v8heap.Report{}, 0, 0)
	assert.Error(t, err)
}

func TestGormAnalysisRunRepository_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnalysisRunRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.CreateRunning(ctx, "/tmp/heap.json", int64(i))
		require.NoError(t, err)
	}

	runs, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// newest first
	assert.Greater(t, runs[0].ID, runs[1].ID)
	assert.Greater(t, runs[1].ID, runs[2].ID)
}
