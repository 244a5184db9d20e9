package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is the fixed set of post categories.
type Category string

// Post categories. "All" is a filter value only and is never persisted.
const (
	CategoryTechnology    Category = "Technology"
	CategoryLifestyle     Category = "Lifestyle"
	CategoryTravel        Category = "Travel"
	CategoryFood          Category = "Food"
	CategoryHealth        Category = "Health"
	CategoryBusiness      Category = "Business"
	CategoryEducation     Category = "Education"
	CategoryEntertainment Category = "Entertainment"
	CategorySports        Category = "Sports"
	CategoryOther         Category = "Other"
)

// Categories lists every valid post category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryLifestyle,
	CategoryTravel,
	CategoryFood,
	CategoryHealth,
	CategoryBusiness,
	CategoryEducation,
	CategoryEntertainment,
	CategorySports,
	CategoryOther,
}

// ValidCategory reports whether s names a persistable category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Post represents an authored article with its derived fields.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Excerpt string `gorm:"size:300" json:"excerpt"`
	// ExcerptDerived marks the excerpt as synthesized from the content.
	// Derived excerpts follow content edits; authored ones never do.
	ExcerptDerived bool       `gorm:"not null;default:false" json:"-"`
	Slug           string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Category       Category   `gorm:"type:varchar(20);not null" json:"category"`
	Tags           []string   `gorm:"serializer:json" json:"tags"`
	FeaturedImage  string     `json:"featured_image"`
	ReadTime       int        `gorm:"not null;default:1" json:"read_time"`
	IsPublished    bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Views          int64      `gorm:"not null;default:0" json:"views"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed).
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
