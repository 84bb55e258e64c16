package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"sentry/internal/models"
	"sentry/internal/repository"
	"sentry/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock BookmarkRepository ---

type mockBookmarkRepo struct {
	mock.Mock
}

func (m *mockBookmarkRepo) Create(ctx context.Context, projectID, groupID, userID uint) (*models.GroupBookmark, error) {
	args := m.Called(projectID, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupBookmark), args.Error(1)
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	args := m.Called(projectID, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	args := m.Called(projectID, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepo) ListByUser(ctx context.Context, userID uint) ([]*models.GroupBookmark, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GroupBookmark), args.Error(1)
}

func (m *mockBookmarkRepo) ListByGroup(ctx context.Context, projectID, groupID uint) ([]*models.GroupBookmark, error) {
	args := m.Called(projectID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GroupBookmark), args.Error(1)
}

func (m *mockBookmarkRepo) CountByGroups(ctx context.Context, groupIDs []uint) (map[uint]int64, error) {
	args := m.Called(groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *mockBookmarkRepo) GroupIDsForUser(ctx context.Context, userID uint, groupIDs []uint) (map[uint]bool, error) {
	args := m.Called(userID, groupIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func newTestCache(t *testing.T) *utils.Cache {
	t.Helper()
	c, err := utils.NewCache(100, time.Minute)
	require.NoError(t, err)
	return c
}

// --- Tests ---

func TestBookmark_Created(t *testing.T) {
	repo := new(mockBookmarkRepo)
	cache := newTestCache(t)
	svc := NewBookmarkService(repo, cache)
	cache.Set(countKey(10), int64(4))

	repo.On("Create", uint(1), uint(10), uint(5)).Return(&models.GroupBookmark{ID: 1, ProjectID: 1, GroupID: 10, UserID: 5}, nil)

	created, err := svc.Bookmark(context.Background(), 1, 10, 5)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Nil(t, cache.Get(countKey(10)), "count cache must be invalidated")
	repo.AssertExpectations(t)
}

func TestBookmark_AlreadyBookmarkedIsNoop(t *testing.T) {
	repo := new(mockBookmarkRepo)
	svc := NewBookmarkService(repo, nil)

	dup := fmt.Errorf("%w: duplicate", repository.ErrConstraintViolation)
	repo.On("Create", uint(1), uint(10), uint(5)).Return(nil, dup)

	created, err := svc.Bookmark(context.Background(), 1, 10, 5)
	assert.NoError(t, err)
	assert.False(t, created)
}

func TestBookmark_ReferenceErrorSurfaces(t *testing.T) {
	repo := new(mockBookmarkRepo)
	svc := NewBookmarkService(repo, nil)

	repo.On("Create", uint(1), uint(99), uint(5)).Return(nil, fmt.Errorf("%w: group 99", repository.ErrReference))

	_, err := svc.Bookmark(context.Background(), 1, 99, 5)
	assert.ErrorIs(t, err, repository.ErrReference)
}

func TestUnbookmark(t *testing.T) {
	repo := new(mockBookmarkRepo)
	svc := NewBookmarkService(repo, nil)

	repo.On("Delete", uint(1), uint(10), uint(5)).Return(true, nil).Once()
	repo.On("Delete", uint(1), uint(10), uint(5)).Return(false, nil).Once()

	removed, err := svc.Unbookmark(context.Background(), 1, 10, 5)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Unbookmark(context.Background(), 1, 10, 5)
	assert.NoError(t, err)
	assert.False(t, removed)
	repo.AssertExpectations(t)
}

func TestToggle(t *testing.T) {
	t.Run("adds when absent", func(t *testing.T) {
		repo := new(mockBookmarkRepo)
		svc := NewBookmarkService(repo, nil)
		repo.On("Exists", uint(1), uint(10), uint(5)).Return(false, nil)
		repo.On("Create", uint(1), uint(10), uint(5)).Return(&models.GroupBookmark{ProjectID: 1, GroupID: 10, UserID: 5}, nil)

		state, err := svc.Toggle(context.Background(), 1, 10, 5)
		assert.NoError(t, err)
		assert.True(t, state)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes when present", func(t *testing.T) {
		repo := new(mockBookmarkRepo)
		svc := NewBookmarkService(repo, nil)
		repo.On("Exists", uint(1), uint(10), uint(5)).Return(true, nil)
		repo.On("Delete", uint(1), uint(10), uint(5)).Return(true, nil)

		state, err := svc.Toggle(context.Background(), 1, 10, 5)
		assert.NoError(t, err)
		assert.False(t, state)
	})

	t.Run("storage error", func(t *testing.T) {
		repo := new(mockBookmarkRepo)
		svc := NewBookmarkService(repo, nil)
		repo.On("Exists", uint(1), uint(10), uint(5)).Return(false, errors.New("db down"))

		_, err := svc.Toggle(context.Background(), 1, 10, 5)
		assert.Error(t, err)
	})
}

func TestBookmarkCounts_UsesCache(t *testing.T) {
	repo := new(mockBookmarkRepo)
	cache := newTestCache(t)
	svc := NewBookmarkService(repo, cache)

	repo.On("CountByGroups", []uint{10, 11}).Return(map[uint]int64{10: 2, 11: 0}, nil).Once()

	counts, err := svc.BookmarkCounts(context.Background(), []uint{10, 11})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{10: 2, 11: 0}, counts)

	counts, err = svc.BookmarkCounts(context.Background(), []uint{10, 11})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{10: 2, 11: 0}, counts)
	repo.AssertNumberOfCalls(t, "CountByGroups", 1)
}

func TestBookmarkCounts_StaleReadNotCached(t *testing.T) {
	repo := new(mockBookmarkRepo)
	cache := newTestCache(t)
	svc := NewBookmarkService(repo, cache)
	ctx := context.Background()

	reading := make(chan struct{})
	release := make(chan struct{})
	repo.On("CountByGroups", []uint{10}).Return(map[uint]int64{10: 0}, nil).Run(func(mock.Arguments) {
		close(reading)
		<-release
	}).Once()
	repo.On("CountByGroups", []uint{10}).Return(map[uint]int64{10: 1}, nil).Once()
	repo.On("Create", uint(1), uint(10), uint(5)).Return(&models.GroupBookmark{ProjectID: 1, GroupID: 10, UserID: 5}, nil)

	done := make(chan map[uint]int64)
	go func() {
		counts, err := svc.BookmarkCounts(ctx, []uint{10})
		assert.NoError(t, err)
		done <- counts
	}()

	<-reading
	created, err := svc.Bookmark(ctx, 1, 10, 5)
	require.NoError(t, err)
	require.True(t, created)
	close(release)

	assert.Equal(t, map[uint]int64{10: 0}, <-done)
	assert.Nil(t, cache.Get(countKey(10)), "count read before the bookmark must not be cached")

	counts, err := svc.BookmarkCounts(ctx, []uint{10})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{10: 1}, counts)
	assert.Equal(t, int64(1), cache.Get(countKey(10)))
	repo.AssertExpectations(t)
}

func TestInvalidateGroups(t *testing.T) {
	cache := newTestCache(t)
	svc := NewBookmarkService(new(mockBookmarkRepo), cache)
	cache.Set(countKey(10), int64(3))
	cache.Set(countKey(11), int64(1))
	cache.Set(countKey(12), int64(7))

	svc.InvalidateGroups(10, 11)

	assert.Nil(t, cache.Get(countKey(10)))
	assert.Nil(t, cache.Get(countKey(11)))
	assert.Equal(t, int64(7), cache.Get(countKey(12)))
	assert.NotPanics(t, func() { NewBookmarkService(nil, nil).InvalidateGroups(10) })
}

func TestAnnotateGroups_Anonymous(t *testing.T) {
	repo := new(mockBookmarkRepo)
	svc := NewBookmarkService(repo, nil)
	groups := []*models.Group{{ID: 10}, {ID: 11}}

	repo.On("CountByGroups", []uint{10, 11}).Return(map[uint]int64{10: 1, 11: 0}, nil)

	views, err := svc.AnnotateGroups(context.Background(), 0, groups)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.False(t, views[0].IsBookmarked)
	assert.Equal(t, int64(1), views[0].BookmarkCount)
	repo.AssertNotCalled(t, "GroupIDsForUser", mock.Anything, mock.Anything)
}
