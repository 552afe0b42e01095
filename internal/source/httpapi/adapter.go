package httpapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/notifybell/internal/source"
)

const (
	listPath        = "/api/notifications"
	markAllReadPath = "/api/notifications/mark-all-read"
)

// Adapter implements source.Source against the notification REST API.
type Adapter struct {
	client  *Client
	baseURL string
}

// NewAdapter creates a new REST source adapter.
func NewAdapter(baseURL, token string, opts ClientOptions) *Adapter {
	c := NewClient(baseURL, token, opts)
	return &Adapter{
		client:  c,
		baseURL: c.baseURL,
	}
}

// Name returns the base URL the adapter talks to.
func (a *Adapter) Name() string {
	return a.baseURL
}

// ListNotifications calls GET /api/notifications with page, limit and
// filter query parameters and returns the body untouched.
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
	filter := opts.Filter
	if filter == "" {
		filter = source.FilterAll
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("filter", filter)

	body, err := a.client.Get(ctx, listPath+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	return &source.ListResult{Body: body}, nil
}

// MarkAllRead calls PATCH /api/notifications/mark-all-read.
func (a *Adapter) MarkAllRead(ctx context.Context) error {
	if _, err := a.client.Patch(ctx, markAllReadPath, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}
