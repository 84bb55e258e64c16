package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sentry/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository group bookmark data access interface
type BookmarkRepository interface {
	Create(ctx context.Context, projectID, groupID, userID uint) (*models.GroupBookmark, error)
	Exists(ctx context.Context, projectID, groupID, userID uint) (bool, error)
	Delete(ctx context.Context, projectID, groupID, userID uint) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.GroupBookmark, error)
	ListByGroup(ctx context.Context, projectID, groupID uint) ([]*models.GroupBookmark, error)
	CountByGroups(ctx context.Context, groupIDs []uint) (map[uint]int64, error)
	GroupIDsForUser(ctx context.Context, userID uint, groupIDs []uint) (map[uint]bool, error)
}

// BookmarkOption configures a bookmark repository.
type BookmarkOption func(*bookmarkRepository)

// WithClock overrides the clock used for date_added.
func WithClock(now func() time.Time) BookmarkOption {
	return func(r *bookmarkRepository) {
		r.now = now
	}
}

type bookmarkRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *gorm.DB, opts ...BookmarkOption) BookmarkRepository {
	r := &bookmarkRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts a bookmark. The unique index decides between concurrent
// writers of the same tuple; the loser gets ErrConstraintViolation.
func (r *bookmarkRepository) Create(ctx context.Context, projectID, groupID, userID uint) (*models.GroupBookmark, error) {
	now := r.now()
	bookmark := &models.GroupBookmark{
		ProjectID: projectID,
		GroupID:   groupID,
		UserID:    userID,
		DateAdded: &now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, projectID, groupID, userID); err != nil {
			return err
		}
		return tx.Create(bookmark).Error
	})
	switch {
	case err == nil:
		return bookmark, nil
	case errors.Is(err, ErrReference):
		return nil, err
	case isUniqueViolation(err):
		return nil, fmt.Errorf("%w: %s already exists", ErrConstraintViolation, bookmark)
	case isForeignKeyViolation(err):
		return nil, fmt.Errorf("%w: %v", ErrReference, err)
	default:
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}
}

// checkReferences verifies the project, the group (inside that project) and the user exist.
func checkReferences(tx *gorm.DB, projectID, groupID, userID uint) error {
	var count int64
	if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: project %d", ErrReference, projectID)
	}

	if err := tx.Model(&models.Group{}).Where("id = ? AND project_id = ?", groupID, projectID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: group %d in project %d", ErrReference, groupID, projectID)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d", ErrReference, userID)
	}
	return nil
}

// Exists checks if the bookmark is present
func (r *bookmarkRepository) Exists(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupBookmark{}).
		Where("project_id = ? AND group_id = ? AND user_id = ?", projectID, groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return count > 0, nil
}

// Delete removes the bookmark. Deleting a missing bookmark is not an error.
func (r *bookmarkRepository) Delete(ctx context.Context, projectID, groupID, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND group_id = ? AND user_id = ?", projectID, groupID, userID).
		Delete(&models.GroupBookmark{})
	if result.Error != nil {
		return false, fmt.Errorf("delete bookmark: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListByUser returns every bookmark of a user, newest first
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]*models.GroupBookmark, error) {
	var bookmarks []*models.GroupBookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_added DESC").Order("id DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("list bookmarks by user: %w", err)
	}
	return bookmarks, nil
}

// ListByGroup returns every bookmark on a group, newest first
func (r *bookmarkRepository) ListByGroup(ctx context.Context, projectID, groupID uint) ([]*models.GroupBookmark, error) {
	var bookmarks []*models.GroupBookmark
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND group_id = ?", projectID, groupID).
		Order("date_added DESC").Order("id DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, fmt.Errorf("list bookmarks by group: %w", err)
	}
	return bookmarks, nil
}

// CountByGroups returns the number of bookmarks per group. Groups without
// bookmarks are reported as zero.
func (r *bookmarkRepository) CountByGroups(ctx context.Context, groupIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return counts, nil
	}
	for _, id := range groupIDs {
		counts[id] = 0
	}

	var rows []struct {
		GroupID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.GroupBookmark{}).
		Select("group_id, COUNT(*) AS total").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}
	for _, row := range rows {
		counts[row.GroupID] = row.Total
	}
	return counts, nil
}

// GroupIDsForUser reports which of the given groups the user has bookmarked.
func (r *bookmarkRepository) GroupIDsForUser(ctx context.Context, userID uint, groupIDs []uint) (map[uint]bool, error) {
	marked := make(map[uint]bool)
	if len(groupIDs) == 0 {
		return marked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupBookmark{}).
		Where("user_id = ? AND group_id IN ?", userID, groupIDs).
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("bookmarked groups: %w", err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
