package models

import "time"

// ModerationAction is the kind of decision a moderator recorded.
type ModerationAction string

const (
	// ModerationActionApprove marks a post as publicly visible.
	ModerationActionApprove ModerationAction = "approve"
	// ModerationActionRevoke returns an approved post to review.
	ModerationActionRevoke ModerationAction = "revoke"
)

// ModerationDecision is the audit trail of approve/revoke actions on a
// post. The post's flags carry only the current state; history lives
// here.
type ModerationDecision struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	PostID      uint             `gorm:"not null;index" json:"post_id"`
	ModeratorID uint             `gorm:"not null;index" json:"moderator_id"`
	Action      ModerationAction `gorm:"type:varchar(20);not null" json:"action"`
	Note        string           `gorm:"type:text" json:"note"`
	CreatedAt   time.Time        `json:"created_at"`

	Post      Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Moderator User `gorm:"foreignKey:ModeratorID" json:"moderator,omitempty"`
}
