package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog represents an authored post with its derived text fields.
// Slug is set once at creation and never changes afterwards; update flows
// must restore it after any field merge.
type Blog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"not null" json:"title"`
	Body            string         `gorm:"type:text;not null" json:"body,omitempty"`
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt         string         `gorm:"type:text" json:"excerpt"`
	MetaTitle       string         `json:"mtitle"`
	MetaDescription string         `json:"mdesc"`
	PhotoURL        string         `json:"photo,omitempty"`
	Categories      []Category     `gorm:"many2many:blog_categories;" json:"categories"`
	Tags            []Tag          `gorm:"many2many:blog_tags;" json:"tags"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"posted_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicView strips the raw body for list projections. Read endpoints return
// the model as-is.
func (b *Blog) PublicView() *Blog {
	view := *b
	view.Body = ""
	return &view
}
