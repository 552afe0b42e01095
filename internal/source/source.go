package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/notifybell/internal/jsonval"
)

// FilterAll asks the service for every notification regardless of state.
const FilterAll = "all"

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by source clients when a 401 response is received.
type AuthError struct {
	Source  string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Source, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ListOptions controls pagination and filtering for list requests.
type ListOptions struct {
	Page     int
	PageSize int
	Filter   string
}

// ListResult holds the raw response of a list request. Its shape is not
// fixed; callers normalize it.
type ListResult struct {
	Body jsonval.Value
}

// Source defines the contract of the notification service.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// ListNotifications retrieves a page of notifications.
	ListNotifications(ctx context.Context, opts ListOptions) (*ListResult, error)

	// MarkAllRead marks every notification of the current user as read.
	MarkAllRead(ctx context.Context) error
}

// Creator is implemented by sources that accept locally composed
// notifications.
type Creator interface {
	CreateNotification(ctx context.Context, title, message, notificationType string) error
}
