package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sentry/internal/logger"
	"sentry/internal/metrics"
	"sentry/internal/models"
	"sentry/internal/repository"
	"sentry/internal/utils"
)

// GroupView 带收藏标注的错误组 - a group as rendered in listings
type GroupView struct {
	*models.Group
	IsBookmarked  bool  `json:"is_bookmarked"`
	BookmarkCount int64 `json:"bookmark_count"`
}

// BookmarkService 收藏服务
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	cache     *utils.Cache

	// generations counts invalidations per group. A count read from the
	// store is cached only if its group's generation did not move meanwhile.
	mu          sync.Mutex
	generations map[uint]uint64
}

// NewBookmarkService creates a BookmarkService. cache may be nil.
func NewBookmarkService(bookmarks repository.BookmarkRepository, cache *utils.Cache) *BookmarkService {
	return &BookmarkService{
		bookmarks:   bookmarks,
		cache:       cache,
		generations: make(map[uint]uint64),
	}
}

func countKey(groupID uint) string {
	return fmt.Sprintf("group:bookmarks:count:%d", groupID)
}

// InvalidateGroups drops the cached bookmark counts of the given groups.
// Callers that remove bookmarks outside this service (group or project
// deletion) call it after the rows are gone.
func (s *BookmarkService) InvalidateGroups(groupIDs ...uint) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range groupIDs {
		s.generations[id]++
		s.cache.Delete(countKey(id))
	}
}

func (s *BookmarkService) invalidate(groupID uint) {
	s.InvalidateGroups(groupID)
}

func (s *BookmarkService) snapshot(groupIDs []uint) map[uint]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	gens := make(map[uint]uint64, len(groupIDs))
	for _, id := range groupIDs {
		gens[id] = s.generations[id]
	}
	return gens
}

// storeCounts caches the counts whose group was not invalidated since gens
// was taken.
func (s *BookmarkService) storeCounts(counts map[uint]int64, gens map[uint]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range counts {
		if s.generations[id] != gens[id] {
			metrics.BookmarkCountCacheTotal.WithLabelValues("stale").Inc()
			continue
		}
		s.cache.Set(countKey(id), n)
	}
}

// Bookmark 添加收藏. Bookmarking twice is a no-op: created is false and
// err is nil.
func (s *BookmarkService) Bookmark(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	b, err := s.bookmarks.Create(ctx, projectID, groupID, userID)
	switch {
	case err == nil:
		metrics.BookmarkOpsTotal.WithLabelValues("create", "created").Inc()
		s.invalidate(groupID)
		logger.Get().Debug().Stringer("bookmark", b).Msg("bookmark created")
		return true, nil
	case errors.Is(err, repository.ErrConstraintViolation):
		metrics.BookmarkOpsTotal.WithLabelValues("create", "exists").Inc()
		return false, nil
	default:
		metrics.BookmarkOpsTotal.WithLabelValues("create", "error").Inc()
		return false, err
	}
}

// Unbookmark 取消收藏. removed reports whether a row was deleted.
func (s *BookmarkService) Unbookmark(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	removed, err := s.bookmarks.Delete(ctx, projectID, groupID, userID)
	if err != nil {
		metrics.BookmarkOpsTotal.WithLabelValues("delete", "error").Inc()
		return false, err
	}
	if removed {
		metrics.BookmarkOpsTotal.WithLabelValues("delete", "removed").Inc()
		s.invalidate(groupID)
	} else {
		metrics.BookmarkOpsTotal.WithLabelValues("delete", "absent").Inc()
	}
	return removed, nil
}

// Toggle 切换收藏状态 - 收藏/取消收藏. Returns the state after the call.
func (s *BookmarkService) Toggle(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	exists, err := s.bookmarks.Exists(ctx, projectID, groupID, userID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.Unbookmark(ctx, projectID, groupID, userID); err != nil {
			return false, err
		}
		return false, nil
	}
	// A concurrent toggle may win the insert; either way the group ends up bookmarked.
	if _, err := s.Bookmark(ctx, projectID, groupID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// IsBookmarked 检查用户是否已收藏某错误组
func (s *BookmarkService) IsBookmarked(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	return s.bookmarks.Exists(ctx, projectID, groupID, userID)
}

// BookmarksForUser 用户的全部收藏
func (s *BookmarkService) BookmarksForUser(ctx context.Context, userID uint) ([]*models.GroupBookmark, error) {
	return s.bookmarks.ListByUser(ctx, userID)
}

// BookmarkersOfGroup 收藏了该错误组的全部记录
func (s *BookmarkService) BookmarkersOfGroup(ctx context.Context, projectID, groupID uint) ([]*models.GroupBookmark, error) {
	return s.bookmarks.ListByGroup(ctx, projectID, groupID)
}

// BookmarkCounts returns bookmark counts per group, served from the cache
// where possible.
func (s *BookmarkService) BookmarkCounts(ctx context.Context, groupIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(groupIDs))
	var misses []uint
	for _, id := range groupIDs {
		if s.cache != nil {
			if v, ok := s.cache.Get(countKey(id)).(int64); ok {
				metrics.BookmarkCountCacheTotal.WithLabelValues("hit").Inc()
				counts[id] = v
				continue
			}
		}
		metrics.BookmarkCountCacheTotal.WithLabelValues("miss").Inc()
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return counts, nil
	}

	var gens map[uint]uint64
	if s.cache != nil {
		gens = s.snapshot(misses)
	}
	fresh, err := s.bookmarks.CountByGroups(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, n := range fresh {
		counts[id] = n
	}
	if s.cache != nil {
		s.storeCounts(fresh, gens)
	}
	return counts, nil
}

// AnnotateGroups attaches the current user's bookmark state and the total
// bookmark count to each group. userID 0 means anonymous.
func (s *BookmarkService) AnnotateGroups(ctx context.Context, userID uint, groups []*models.Group) ([]GroupView, error) {
	ids := make([]uint, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}

	counts, err := s.BookmarkCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	marked := map[uint]bool{}
	if userID != 0 {
		marked, err = s.bookmarks.GroupIDsForUser(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
	}

	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, GroupView{
			Group:         g,
			IsBookmarked:  marked[g.ID],
			BookmarkCount: counts[g.ID],
		})
	}
	return views, nil
}
