package models

import (
	"fmt"
	"time"
)

// GroupBookmark 收藏关系 - a user's bookmark on a group within a project.
// A (project, user, group) tuple exists at most once.
type GroupBookmark struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProjectID uint     `gorm:"not null;index;uniqueIndex:sentry_groupbookmark_project_id_user_id_group_id_uniq,priority:1" json:"project_id"`
	Project   *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint     `gorm:"not null;index;uniqueIndex:sentry_groupbookmark_project_id_user_id_group_id_uniq,priority:2" json:"user_id"`
	User      *User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	GroupID   uint     `gorm:"not null;index;uniqueIndex:sentry_groupbookmark_project_id_user_id_group_id_uniq,priority:3" json:"group_id"`
	Group     *Group   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Nullable for rows written before the column existed.
	DateAdded *time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_added"`
}

func (GroupBookmark) TableName() string {
	return "sentry_groupbookmark"
}

func (b *GroupBookmark) String() string {
	return fmt.Sprintf("<GroupBookmark at %p: project_id=%d, group_id=%d, user_id=%d>", b, b.ProjectID, b.GroupID, b.UserID)
}
