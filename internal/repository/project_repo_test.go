package repository

import (
	"context"
	"testing"

	"sentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateDuplicateSlug(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewProjectRepository(gdb)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Project{Slug: "web", Name: "Web"}))
	err := repo.Create(ctx, &models.Project{Slug: "web", Name: "Web again"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	p, err := repo.GetBySlug(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, "Web", p.Name)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectDeleteCascades(t *testing.T) {
	gdb := setupTestDB(t)
	seed(t, gdb)
	bookmarks := NewBookmarkRepository(gdb)
	ctx := context.Background()

	_, err := bookmarks.Create(ctx, 1, 10, 5)
	require.NoError(t, err)
	_, err = bookmarks.Create(ctx, 2, 20, 5)
	require.NoError(t, err)

	require.NoError(t, NewProjectRepository(gdb).Delete(ctx, 1))

	list, err := bookmarks.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint(20), list[0].GroupID)

	var groups int64
	gdb.Model(&models.Group{}).Where("project_id = ?", 1).Count(&groups)
	assert.Zero(t, groups)

	assert.ErrorIs(t, NewProjectRepository(gdb).Delete(ctx, 1), ErrNotFound)
}

func TestGroupDeleteCascades(t *testing.T) {
	gdb := setupTestDB(t)
	seed(t, gdb)
	bookmarks := NewBookmarkRepository(gdb)
	groups := NewGroupRepository(gdb)
	ctx := context.Background()

	_, err := bookmarks.Create(ctx, 1, 10, 5)
	require.NoError(t, err)
	_, err = bookmarks.Create(ctx, 1, 11, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, groups.Delete(ctx, 2, 10), ErrNotFound)
	require.NoError(t, groups.Delete(ctx, 1, 10))

	list, err := bookmarks.ListByGroup(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	ok, err := bookmarks.Exists(ctx, 1, 11, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = groups.GetByID(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupCreateRequiresProject(t *testing.T) {
	gdb := setupTestDB(t)
	groups := NewGroupRepository(gdb)

	err := groups.Create(context.Background(), &models.Group{ProjectID: 7, Message: "boom"})
	assert.ErrorIs(t, err, ErrReference)
}

func TestGroupListOrderAndDefaults(t *testing.T) {
	gdb := setupTestDB(t)
	seed(t, gdb)
	groups := NewGroupRepository(gdb)
	ctx := context.Background()

	list, err := groups.ListByProject(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(11), list[0].ID)
	assert.Equal(t, models.LevelError, list[0].Level)

	list, err = groups.ListByProject(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserRepository(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb)
	ctx := context.Background()

	u := &models.User{Username: "carol", Email: "carol@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := users.Create(ctx, &models.User{Username: "carol2", Email: "carol@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	got, err := users.GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
