package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGormDB_SQLite(t *testing.T) {
	cfg := &DBConfig{Type: "sqlite", Database: ":memory:"}

	db, err := NewGormDB(cfg)
	require.NoError(t, err)
	defer db.DB()

	assert.True(t, db.Migrator().HasTable(&AnalysisRun{}))
}

func TestNewGormDB_UnsupportedType(t *testing.T) {
	cfg := &DBConfig{Type: "oracle"}

	_, err := NewGormDB(cfg)
	assert.Error(t, err)
}

func TestNewRepositories(t *testing.T) {
	db, err := NewGormDB(&DBConfig{Type: "sqlite", Database: ":memory:"})
	require.NoError(t, err)

	repos := NewRepositories(db)
	require.NotNil(t, repos.Runs)

	assert.NoError(t, repos.HealthCheck(context.Background()))
}
