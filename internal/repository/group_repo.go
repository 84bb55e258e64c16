package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sentry/internal/models"

	"gorm.io/gorm"
)

// GroupRepository group data access interface
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, projectID, id uint) (*models.Group, error)
	ListByProject(ctx context.Context, projectID uint, limit int) ([]*models.Group, error)
	Delete(ctx context.Context, projectID, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("id = ?", group.ProjectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: project %d", ErrReference, group.ProjectID)
		}

		now := time.Now()
		if group.FirstSeen.IsZero() {
			group.FirstSeen = now
		}
		if group.LastSeen.IsZero() {
			group.LastSeen = group.FirstSeen
		}
		if group.Level == "" {
			group.Level = models.LevelError
		}
		if err := tx.Create(group).Error; err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		return nil
	})
}

func (r *groupRepository) GetByID(ctx context.Context, projectID, id uint) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get group by id: %w", err)
	}
	return &group, nil
}

// ListByProject returns the project's groups, most recently seen first.
func (r *groupRepository) ListByProject(ctx context.Context, projectID uint, limit int) ([]*models.Group, error) {
	var groups []*models.Group
	q := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("last_seen DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Delete removes a group and its bookmarks.
func (r *groupRepository) Delete(ctx context.Context, projectID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND group_id = ?", projectID, id).Delete(&models.GroupBookmark{}).Error; err != nil {
			return fmt.Errorf("delete group bookmarks: %w", err)
		}
		result := tx.Where("project_id = ?", projectID).Delete(&models.Group{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete group: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
