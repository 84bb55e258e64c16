package models

import (
	"time"
)

// Project 项目 - groups and bookmarks are scoped to a project
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	DateAdded time.Time `gorm:"autoCreateTime" json:"date_added"`
}

func (Project) TableName() string {
	return "sentry_project"
}
