package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Ripple application. A post must carry
// non-empty text or a media URL; both are optional individually.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Text   string `gorm:"type:text" json:"text"`

	// MediaURL is the stable content URL returned by the media store.
	// MediaDeleteID is the opaque handle used for best-effort cleanup on
	// post deletion; it is never exposed to clients.
	MediaURL      string `json:"media_url,omitempty"`
	MediaDeleteID string `json:"-"`

	// Comments are append-only; insertion order is display order.
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments"`

	// LikerIDs is not persisted; populated at query time from the likes table.
	LikerIDs []uint `gorm:"-" json:"likes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Comment represents a comment on a post. Comments have no independent
// lifecycle; they live and die with their post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
