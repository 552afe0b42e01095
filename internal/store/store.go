package store

import (
	"context"

	"github.com/nhle/notifybell/internal/model"
)

// NotificationFilter controls filtering and pagination for notification
// queries. Results are always ordered newest first.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Counts summarizes the notification table.
type Counts struct {
	Total  int `db:"total"`
	Unread int `db:"unread"`
}

// Store defines the persistence interface for locally held notifications.
type Store interface {
	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	CountNotifications(ctx context.Context) (Counts, error)
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
}
