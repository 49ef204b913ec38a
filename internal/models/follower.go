package models

import "time"

// Follower is a directed edge: FollowerID receives updates about
// WriterID's content. The ordered pair is unique and self-edges are
// rejected at the service layer.
type Follower struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_writer" json:"follower_id"`
	WriterID   uint      `gorm:"not null;uniqueIndex:idx_follower_writer;index" json:"writer_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Writer   User `gorm:"foreignKey:WriterID" json:"writer,omitempty"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}
