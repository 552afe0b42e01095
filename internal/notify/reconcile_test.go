package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notifybell/internal/model"
)

func intPtr(n int) *int { return &n }

func TestIsUnread(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"no read fields", `{"id":"1"}`, true},
		{"read true", `{"id":"1","read":true}`, false},
		{"read false", `{"id":"1","read":false}`, true},
		{"isRead true", `{"id":"1","isRead":true}`, false},
		{"isRead false", `{"id":"1","isRead":false}`, true},
		{"readStatus read", `{"id":"1","readStatus":"read"}`, false},
		{"readStatus unread", `{"id":"1","readStatus":"unread"}`, true},
		{"read as string is not true", `{"id":"1","read":"true"}`, true},
		{"read false but isRead true", `{"id":"1","read":false,"isRead":true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := model.NotificationFromValue(decode(t, tt.body))
			assert.Equal(t, tt.want, IsUnread(n))
		})
	}
}

func TestIsUnread_TypedRecordWithoutRaw(t *testing.T) {
	read := true
	assert.False(t, IsUnread(model.Notification{ID: "x", Read: &read}))
	assert.True(t, IsUnread(model.Notification{ID: "y"}))
}

func TestExtractPagination(t *testing.T) {
	p := ExtractPagination(decode(t, `{"data":[],"pagination":{"totalUnread":4,"totalNotifications":10}}`))
	require.NotNil(t, p)
	assert.Equal(t, 4, *p.TotalUnread)
	assert.Equal(t, 10, *p.TotalNotifications)

	p = ExtractPagination(decode(t, `{"data":{"notifications":[],"pagination":{"totalNotifications":7}}}`))
	require.NotNil(t, p)
	assert.Nil(t, p.TotalUnread)
	assert.Equal(t, 7, *p.TotalNotifications)

	assert.Nil(t, ExtractPagination(decode(t, `{"data":[]}`)))
	assert.Nil(t, ExtractPagination(decode(t, `[{"id":"1"}]`)))
	assert.Nil(t, ExtractPagination(decode(t, `{"pagination":"none"}`)))
}

func TestExtractPagination_TopLevelWins(t *testing.T) {
	p := ExtractPagination(decode(t, `{"pagination":{"totalUnread":1},"data":{"pagination":{"totalUnread":9}}}`))
	require.NotNil(t, p)
	assert.Equal(t, 1, *p.TotalUnread)
}

func TestReconcile(t *testing.T) {
	list := NormalizeRecords(decode(t, `[
		{"id":"1"},
		{"id":"2","read":true},
		{"id":"3","isRead":true},
		{"id":"4","readStatus":"read"},
		{"id":"5","read":false}
	]`))
	require.Len(t, list, 5)

	t.Run("no pagination counts locally", func(t *testing.T) {
		assert.Equal(t, 2, Reconcile(list, nil))
	})

	t.Run("totalUnread is authoritative", func(t *testing.T) {
		assert.Equal(t, 17, Reconcile(list, &Pagination{TotalUnread: intPtr(17)}))
	})

	t.Run("totalUnread zero is authoritative", func(t *testing.T) {
		assert.Equal(t, 0, Reconcile(list, &Pagination{
			TotalUnread:        intPtr(0),
			TotalNotifications: intPtr(5),
		}))
	})

	t.Run("totalNotifications only uses local count", func(t *testing.T) {
		assert.Equal(t, 2, Reconcile(list, &Pagination{TotalNotifications: intPtr(40)}))
	})

	t.Run("empty pagination object uses local count", func(t *testing.T) {
		assert.Equal(t, 2, Reconcile(list, &Pagination{}))
	})

	t.Run("negative totalUnread clamps to zero", func(t *testing.T) {
		assert.Equal(t, 0, Reconcile(list, &Pagination{TotalUnread: intPtr(-3)}))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.Equal(t, 0, Reconcile(nil, nil))
	})
}
