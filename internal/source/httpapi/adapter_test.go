package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notifybell/internal/notify"
	"github.com/nhle/notifybell/internal/source"
)

func testOptions() ClientOptions {
	return ClientOptions{Timeout: 5 * time.Second, RatePerSec: 1000, MaxRetries: 2}
}

func TestAdapter_ListNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/notifications", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		assert.Equal(t, "all", r.URL.Query().Get("filter"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"notifications":[{"id":"1"},{"id":"2","read":true}],"pagination":{"totalUnread":1}}}`))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL+"/", "secret", testOptions())
	res, err := a.ListNotifications(context.Background(), source.ListOptions{
		Page:     1,
		PageSize: 1000,
	})
	require.NoError(t, err)

	records := notify.NormalizeRecords(res.Body)
	require.Len(t, records, 2)
	assert.Equal(t, 1, notify.Reconcile(records, notify.ExtractPagination(res.Body)))
	assert.Equal(t, srv.URL, a.Name())
}

func TestAdapter_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "expired", testOptions())
	_, err := a.ListNotifications(context.Background(), source.ListOptions{})
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))
}

func TestAdapter_RetriesOnTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", testOptions())
	res, err := a.ListNotifications(context.Background(), source.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, notify.Normalize(res.Body), 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAdapter_InvalidJSONIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", testOptions())
	_, err := a.ListNotifications(context.Background(), source.ListOptions{})
	assert.Error(t, err)
}

func TestAdapter_MarkAllRead(t *testing.T) {
	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/notifications/mark-all-read", r.URL.Path)
		hit.Store(true)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", testOptions())
	require.NoError(t, a.MarkAllRead(context.Background()))
	assert.True(t, hit.Load())
}

func TestAdapter_MarkAllReadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAdapter(srv.URL, "", testOptions())
	err := a.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
