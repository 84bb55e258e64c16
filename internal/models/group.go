package models

import (
	"time"
)

// Level values a group can carry.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
	LevelFatal   = "fatal"
)

// Group 聚合错误组 - similar events collapsed into one issue
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Project   *Project  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Culprit   string    `gorm:"size:200" json:"culprit"`
	Level     string    `gorm:"size:20;default:'error';not null" json:"level"`
	TimesSeen int       `gorm:"default:1" json:"times_seen"`
	FirstSeen time.Time `gorm:"index" json:"first_seen"`
	LastSeen  time.Time `gorm:"index" json:"last_seen"`
}

func (Group) TableName() string {
	return "sentry_groupedmessage"
}
