package models

import "time"

// NotificationType identifies the engagement transition that produced a notification.
type NotificationType string

const (
	// NotificationTypeFollow is emitted when a user starts following another user.
	NotificationTypeFollow NotificationType = "follow"
	// NotificationTypeLike is emitted when a user likes a post.
	NotificationTypeLike NotificationType = "like"
)

// Notification records a single qualifying engagement event for its target
// user. The sink is append-only: unlike-then-relike produces a second record,
// and nothing in this core deduplicates or merges them.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	FromID    uint             `gorm:"not null;index" json:"from_id"`
	ToID      uint             `gorm:"not null;index" json:"to_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Read      bool             `gorm:"default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`

	// Relationships
	From User `gorm:"foreignKey:FromID" json:"from,omitempty"`
	To   User `gorm:"foreignKey:ToID" json:"to,omitempty"`
}
