// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in the Ripple application.
// Password is never serialized; every API shape that embeds a User
// therefore ships with credentials stripped.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"unique;not null" json:"username"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	FullName   string         `json:"full_name"`
	Bio        string         `json:"bio"`
	Link       string         `json:"link"`
	ProfileImg string         `json:"profile_img"`
	CoverImg   string         `json:"cover_img"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
