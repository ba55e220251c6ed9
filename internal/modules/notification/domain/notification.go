package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeNewFollow  NotificationType = "NEW_FOLLOW"
	NotificationTypeNewComment NotificationType = "NEW_COMMENT"
	NotificationTypeNewLike    NotificationType = "NEW_LIKE"
)

// Notification is the persisted fact behind every realtime push. Title and
// Message are pre-rendered text, not templates. ActorID is the user who
// triggered the event and may be nil for system notifications.
type Notification struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Type          NotificationType `json:"type" db:"type"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	RecipientID   uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	ActorID       *uuid.UUID       `json:"actor_id,omitempty" db:"actor_id"`
	RelatedPostID *uuid.UUID       `json:"related_post_id,omitempty" db:"related_post_id"`
	IsRead        bool             `json:"is_read" db:"is_read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

var (
	ErrNotificationNotFound = errors.New("notification not found")
)
