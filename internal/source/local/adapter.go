// Package local serves notifications from the on-disk store using the same
// response envelope as the hosted service, so the dashboard runs offline.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nhle/notifybell/internal/jsonval"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/source"
	"github.com/nhle/notifybell/internal/store"
)

// FilterUnread restricts ListNotifications to unread notifications.
const FilterUnread = "unread"

// Adapter implements source.Source and source.Creator on top of a Store.
type Adapter struct {
	store store.Store
}

// NewAdapter creates a store-backed source.
func NewAdapter(s store.Store) *Adapter {
	return &Adapter{store: s}
}

// Name identifies the local source.
func (a *Adapter) Name() string {
	return "local"
}

type envelope struct {
	Data envelopeData `json:"data"`
}

type envelopeData struct {
	Notifications []wireNotification `json:"notifications"`
	Pagination    wirePagination     `json:"pagination"`
}

type wireNotification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type wirePagination struct {
	Page               int `json:"page"`
	Limit              int `json:"limit"`
	TotalNotifications int `json:"totalNotifications"`
	TotalUnread        int `json:"totalUnread"`
}

// ListNotifications answers with a {data: {notifications, pagination}}
// envelope built from the store.
func (a *Adapter) ListNotifications(
	ctx context.Context,
	opts source.ListOptions,
) (*source.ListResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	notifications, err := a.store.GetNotifications(ctx, store.NotificationFilter{
		UnreadOnly: opts.Filter == FilterUnread,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("listing local notifications: %w", err)
	}

	counts, err := a.store.CountNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting local notifications: %w", err)
	}

	env := envelope{Data: envelopeData{
		Notifications: make([]wireNotification, 0, len(notifications)),
		Pagination: wirePagination{
			Page:               page,
			Limit:              pageSize,
			TotalNotifications: counts.Total,
			TotalUnread:        counts.Unread,
		},
	}}
	for _, n := range notifications {
		env.Data.Notifications = append(env.Data.Notifications, toWire(n))
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding local notifications: %w", err)
	}
	body, err := jsonval.Decode(data)
	if err != nil {
		return nil, err
	}

	return &source.ListResult{Body: body}, nil
}

// MarkAllRead marks every stored notification as read.
func (a *Adapter) MarkAllRead(ctx context.Context) error {
	if _, err := a.store.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	return nil
}

// CreateNotification stores a new unread notification.
func (a *Adapter) CreateNotification(
	ctx context.Context,
	title, message, notificationType string,
) error {
	_, err := a.store.CreateNotification(ctx, model.Notification{
		Title:   title,
		Message: message,
		Type:    model.ParseNotificationType(notificationType),
	})
	return err
}

func toWire(n model.Notification) wireNotification {
	return wireNotification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read != nil && *n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
