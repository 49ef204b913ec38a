// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment is a reader's free-text reply attached to a post. Comments
// are immutable once created; they are removed only when their post is
// deleted.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Post      Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
