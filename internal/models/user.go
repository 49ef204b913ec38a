// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Chronicle platform.
// Email is stored lowercase and is the unique identity key besides ID.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	DisplayName string         `gorm:"size:120;not null" json:"display_name"`
	Avatar      string         `json:"avatar"`
	IsModerator bool           `gorm:"not null;default:false" json:"is_moderator"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}
