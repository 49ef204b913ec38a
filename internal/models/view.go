package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// View records that one viewer observed one post. The (PostID,
// ViewerKey) pair is unique so repeat views never accumulate.
//
// ViewerKey is "u:<id>" for authenticated users and "v:<uuid>" for
// anonymous visitors, so the two populations are deduplicated
// independently without a nullable column in the unique index.
type View struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_post_viewer" json:"post_id"`
	ViewerKey string `gorm:"size:48;not null;uniqueIndex:idx_post_viewer" json:"viewer_key"`
	// UserID is set only for authenticated views.
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Post Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// UserViewerKey builds the dedup key for an authenticated viewer.
func UserViewerKey(userID uint) string {
	return fmt.Sprintf("u:%d", userID)
}

// VisitorViewerKey builds the dedup key for an anonymous visitor token.
func VisitorViewerKey(visitorID uuid.UUID) string {
	return fmt.Sprintf("v:%s", visitorID)
}
