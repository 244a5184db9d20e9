package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. A comment may be a reply to a
// top-level comment; replies cannot themselves have replies.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"size:1000;not null" json:"content"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Post     Post   `gorm:"foreignKey:PostID" json:"post,omitempty"`
	IsActive bool   `gorm:"not null;default:true;index" json:"is_active"`

	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	Replies         []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this comment (computed).
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
