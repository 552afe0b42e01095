package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedNotifications inserts count notifications, one minute apart, with the
// newest first in index order. The first unread of them are unread.
func SeedNotifications(t *testing.T, s store.Store, count, unread int) []model.Notification {
	t.Helper()

	base := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	out := make([]model.Notification, 0, count)
	for i := 0; i < count; i++ {
		read := i >= unread
		n, err := s.CreateNotification(context.Background(), model.Notification{
			Title:     "Notification",
			Message:   "Something happened on the dashboard",
			Type:      model.NotificationTypeLead,
			Read:      &read,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("seeding notification %d: %v", i, err)
		}
		out = append(out, n)
	}
	return out
}
