package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("resource not found")

	// ErrConstraintViolation is returned when a unique constraint rejects a write,
	// e.g. bookmarking the same group twice.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrReference is returned when a referenced project, group or user does not exist.
	ErrReference = errors.New("referenced entity does not exist")
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint")
}
