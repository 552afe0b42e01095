package local_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notifybell/internal/notify"
	"github.com/nhle/notifybell/internal/source"
	"github.com/nhle/notifybell/internal/source/local"
	"github.com/nhle/notifybell/tests/testutil"
)

func TestAdapter_ListNotificationsEnvelope(t *testing.T) {
	s := testutil.NewTestStore(t)
	seeded := testutil.SeedNotifications(t, s, 6, 4)
	a := local.NewAdapter(s)

	res, err := a.ListNotifications(context.Background(), source.ListOptions{
		Page:     1,
		PageSize: 1000,
		Filter:   source.FilterAll,
	})
	require.NoError(t, err)

	records := notify.NormalizeRecords(res.Body)
	require.Len(t, records, 6)
	assert.Equal(t, seeded[0].ID, records[0].ID)
	assert.Equal(t, seeded[0].CreatedAt.Unix(), records[0].CreatedAt.Unix())

	p := notify.ExtractPagination(res.Body)
	require.NotNil(t, p)
	assert.Equal(t, 4, *p.TotalUnread)
	assert.Equal(t, 6, *p.TotalNotifications)
	assert.Equal(t, 4, notify.Reconcile(records, p))
}

func TestAdapter_ListUnreadFilterAndPaging(t *testing.T) {
	s := testutil.NewTestStore(t)
	testutil.SeedNotifications(t, s, 6, 4)
	a := local.NewAdapter(s)

	res, err := a.ListNotifications(context.Background(), source.ListOptions{
		Page:     2,
		PageSize: 3,
		Filter:   local.FilterUnread,
	})
	require.NoError(t, err)
	assert.Len(t, notify.Normalize(res.Body), 1)
}

func TestAdapter_CreateAndMarkAllRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	a := local.NewAdapter(s)
	ctx := context.Background()

	require.NoError(t, a.CreateNotification(ctx, "New property", "Listing 12 went live", "property"))
	require.NoError(t, a.CreateNotification(ctx, "Note", "Quarterly report ready", ""))

	c, err := s.CountNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Unread)

	require.NoError(t, a.MarkAllRead(ctx))

	res, err := a.ListNotifications(ctx, source.ListOptions{PageSize: 10})
	require.NoError(t, err)
	records := notify.NormalizeRecords(res.Body)
	assert.Equal(t, 0, notify.CountUnread(records))
	assert.Equal(t, 0, notify.Reconcile(records, notify.ExtractPagination(res.Body)))
}
