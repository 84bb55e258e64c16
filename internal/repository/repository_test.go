package repository

import (
	"context"
	"path/filepath"
	"testing"

	"sentry/internal/config"
	"sentry/internal/db"
	"sentry/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// setupFileDB opens a sqlite database file under the test's temp dir.
func setupFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "bookmarks.db"))
}

func openTestDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(&config.Config{DBDriver: "sqlite", DatabaseURL: dsn, DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// seed creates project 1, groups 10 and 11 in it, and users 5 and 6.
func seed(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Project{ID: 1, Slug: "backend", Name: "Backend"}).Error)
	require.NoError(t, gdb.Create(&models.Project{ID: 2, Slug: "frontend", Name: "Frontend"}).Error)
	groups := NewGroupRepository(gdb)
	require.NoError(t, groups.Create(context.Background(), &models.Group{ID: 10, ProjectID: 1, Message: "TypeError: x is undefined"}))
	require.NoError(t, groups.Create(context.Background(), &models.Group{ID: 11, ProjectID: 1, Message: "KeyError: 'id'"}))
	require.NoError(t, groups.Create(context.Background(), &models.Group{ID: 20, ProjectID: 2, Message: "ReferenceError"}))
	require.NoError(t, gdb.Create(&models.User{ID: 5, Username: "alice", Email: "alice@example.com", Password: "x"}).Error)
	require.NoError(t, gdb.Create(&models.User{ID: 6, Username: "bob", Email: "bob@example.com", Password: "x"}).Error)
}
