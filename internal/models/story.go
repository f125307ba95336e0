package models

import "time"

// StoryKind is the media type of a story.
type StoryKind string

const (
	// StoryKindImage is an image story.
	StoryKindImage StoryKind = "image"
	// StoryKindVideo is a video story.
	StoryKindVideo StoryKind = "video"
)

// StoryTTL is the fixed lifetime of a story. Not configurable per story.
const StoryTTL = 24 * time.Hour

// Story is a time-bounded media record. A story is visible while
// now < ExpiresAt; after that it is excluded from every query and
// eventually purged by the reaper.
type Story struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	MediaURL      string    `gorm:"not null" json:"media_url"`
	MediaDeleteID string    `json:"-"`
	Kind          StoryKind `gorm:"type:varchar(10);default:'image'" json:"type"`
	Caption       string    `json:"caption"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Views is the deduplicated viewer set.
	Views []StoryView `gorm:"foreignKey:StoryID" json:"views,omitempty"`
}

// StoryView records that a viewer has seen a story.
// The (story_id, viewer_id) pair is unique, keeping the viewer set deduplicated.
type StoryView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_story_viewer" json:"story_id"`
	ViewerID  uint      `gorm:"not null;uniqueIndex:idx_story_viewer" json:"viewer_id"`
	CreatedAt time.Time `json:"created_at"`
}
