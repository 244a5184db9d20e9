// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies the privilege level of a user account.
type Role string

const (
	// RoleUser is a regular author/reader account.
	RoleUser Role = "user"
	// RoleAdmin is a moderation account with full access.
	RoleAdmin Role = "admin"
)

// User represents a registered account on the platform.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:30;unique;not null" json:"username"`
	Email        string `gorm:"size:254;unique;not null" json:"email,omitempty"`
	Password     string `gorm:"not null" json:"-"`
	FirstName    string `gorm:"size:50" json:"first_name"`
	LastName     string `gorm:"size:50" json:"last_name"`
	Bio          string `gorm:"size:500" json:"bio"`
	ProfileImage string `json:"profile_image"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// FollowersCount is not persisted; computed at query time.
	FollowersCount int `gorm:"->" json:"followers_count"`
	// FollowingCount is not persisted; computed at query time.
	FollowingCount int `gorm:"->" json:"following_count"`
	// IsFollowing indicates whether the current requesting user follows this user (computed).
	IsFollowing bool `gorm:"->" json:"is_following"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Sanitized returns a copy safe for embedding in responses visible to other
// users: the email is blanked (the password column is never serialized).
func (u User) Sanitized() User {
	u.Email = ""
	return u
}
