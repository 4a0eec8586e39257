package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a message delivered to a user as a side effect of
// grading, re-evaluation or badge events.
type Notification struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user_id"`
	Title     string            `gorm:"size:255;not null" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Type      string            `gorm:"size:32;not null" json:"type"`
	RelatedID *uint             `json:"related_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Read      bool              `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

// Notification types emitted by the grading and badge flows.
const (
	NotificationTypeGrade        = "grade"
	NotificationTypeReevaluation = "reevaluation"
	NotificationTypeBadge        = "badge"
)
