package domain

import (
	"context"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error

	// ListByRecipient returns all notifications for the user, newest first.
	ListByRecipient(ctx context.Context, userID uuid.UUID) ([]Notification, error)

	// ListUnread returns the unread subset, newest first.
	ListUnread(ctx context.Context, userID uuid.UUID) ([]Notification, error)

	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkAsRead flips is_read on the (id, userID) pair and returns the
	// updated row, or ErrNotificationNotFound when the pair does not match.
	MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) (*Notification, error)

	// MarkAllAsRead flips every unread row for the user and returns the
	// number of rows affected. A second call returns 0.
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
