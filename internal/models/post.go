// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostState is the lifecycle state derived from the status/approved flags.
type PostState string

const (
	// PostStateDraft means the author has not made the post visible yet.
	PostStateDraft PostState = "draft"
	// PostStatePendingReview means the post is visible to its author and awaiting moderation.
	PostStatePendingReview PostState = "pending_review"
	// PostStateApproved means the post passed moderation and is publicly visible.
	PostStateApproved PostState = "approved"
)

// Post is a unit of content owned by its author. Public visibility
// requires both the author-controlled Status flag and the
// moderation-controlled Approved flag.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:300;not null" json:"title"`
	Slug     string `gorm:"size:320;not null;uniqueIndex" json:"slug"`
	Body     string `gorm:"type:text" json:"body"`
	Image    string `json:"image"`
	Category string `gorm:"size:80;index" json:"category"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`

	// Status is the author's published/unpublished toggle.
	Status bool `gorm:"not null;default:true" json:"status"`
	// Approved, ApprovedByID and ApprovedAt are written only by the
	// moderation workflow. ApprovedByID and ApprovedAt are both set or
	// both unset, never one without the other.
	Approved     bool       `gorm:"not null;default:false" json:"approved"`
	ApprovedByID *uint      `json:"approved_by_id,omitempty"`
	ApprovedBy   *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	// ViewsCount is not persisted; computed at query time
	ViewsCount int `gorm:"->" json:"views_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// State derives the lifecycle state from the visibility flags.
func (p *Post) State() PostState {
	switch {
	case p.Approved:
		return PostStateApproved
	case p.Status:
		return PostStatePendingReview
	default:
		return PostStateDraft
	}
}

// PubliclyVisible reports whether the post passes the approval gate.
func (p *Post) PubliclyVisible() bool {
	return p.Status && p.Approved
}
