// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization level of a user.
type Role int

const (
	RoleStandard Role = 0
	RoleAdmin    Role = 1
)

// IsAdmin reports whether the role grants admin access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents a registered author or reader.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Username   string         `gorm:"unique;not null" json:"username"`
	ProfileURL string         `json:"profile"`
	Role       Role           `gorm:"default:0" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Blogs      []Blog         `gorm:"foreignKey:UserID" json:"blogs,omitempty"`
}

// UserSummary is the public-safe projection returned on signin and embedded
// in blog responses. The credential never leaves the model anyway (json:"-"),
// but the summary also drops timestamps and profile internals.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Summary returns the public-safe projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}
