// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a text post in the Inkwell application. A post always
// belongs to an author and may optionally carry a group tag and an
// uploaded image. PublishedAt is set once at creation and never updated.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	PublishedAt time.Time      `gorm:"not null;autoCreateTime;<-:create;index" json:"published_at"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	GroupID     *uint          `gorm:"index" json:"group_id,omitempty"`
	Group       *Group         `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	ImagePath   string         `json:"image_path,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
