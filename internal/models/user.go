package models

import (
	"time"
)

// User is owned by the auth subsystem; this service only references it.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:128;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;size:200;not null" json:"email"`
	Password   string    `gorm:"size:128;not null" json:"-"` // bcrypt hash
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`
}

func (User) TableName() string {
	return "auth_user"
}
