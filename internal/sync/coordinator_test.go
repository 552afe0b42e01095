package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notifybell/internal/eventbus"
	"github.com/nhle/notifybell/internal/jsonval"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/source"
)

// fakeSource answers every list call with body, or err when set.
type fakeSource struct {
	mu       gosync.Mutex
	body     string
	err      error
	markErr  error
	lastOpts source.ListOptions
	calls    int
	marked   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) ListNotifications(_ context.Context, opts source.ListOptions) (*source.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	v, err := jsonval.Decode([]byte(f.body))
	if err != nil {
		return nil, err
	}
	return &source.ListResult{Body: v}, nil
}

func (f *fakeSource) MarkAllRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked++
	return f.markErr
}

// fortyWithFiveUnread builds a bare array of 40 notifications whose first
// five are unread.
func fortyWithFiveUnread() string {
	body := "["
	for i := 0; i < 40; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"id":"n%d","title":"t%d","read":%t}`, i, i, i >= 5)
	}
	return body + "]"
}

func TestCoordinator_RefreshRequestsFirstPageOfAll(t *testing.T) {
	src := &fakeSource{body: `[]`}
	c := New(src, nil, Options{}, logx.Nop())

	c.Refresh(context.Background())

	assert.Equal(t, source.ListOptions{Page: 1, PageSize: 1000, Filter: "all"}, src.lastOpts)
}

func TestCoordinator_RefreshPreviewAndLocalCount(t *testing.T) {
	src := &fakeSource{body: fortyWithFiveUnread()}
	c := New(src, nil, Options{}, logx.Nop())

	res := c.Refresh(context.Background())

	require.NoError(t, res.Err)
	assert.Equal(t, 5, res.UnreadCount)
	require.Len(t, res.Notifications, 40)
	require.Len(t, res.Preview, 3)
	for i, n := range res.Preview {
		assert.Equal(t, res.Notifications[i].ID, n.ID)
	}
	assert.Equal(t, "n0", res.Preview[0].ID)
}

func TestCoordinator_RefreshUsesServerUnread(t *testing.T) {
	src := &fakeSource{body: `{"data":{"notifications":[{"id":"1"},{"id":"2"}],"pagination":{"totalUnread":150}}}`}
	c := New(src, nil, Options{}, logx.Nop())

	res := c.Refresh(context.Background())
	assert.Equal(t, 150, res.UnreadCount)
	assert.Len(t, res.Preview, 2)
}

func TestCoordinator_RefreshFailureYieldsEmptyResult(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	c := New(src, nil, Options{}, logx.Nop())

	res := c.Refresh(context.Background())

	require.Error(t, res.Err)
	assert.Empty(t, res.Notifications)
	assert.Empty(t, res.Preview)
	assert.Equal(t, 0, res.UnreadCount)
}

func TestCoordinator_UnexpectedShapeIsNotAnError(t *testing.T) {
	src := &fakeSource{body: `{"status":"ok"}`}
	c := New(src, nil, Options{}, logx.Nop())

	res := c.Refresh(context.Background())
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Notifications)
	assert.Equal(t, 0, res.UnreadCount)
}

func TestCoordinator_TriggerSequencesIncrease(t *testing.T) {
	src := &fakeSource{body: `[{"id":"a"}]`}
	c := New(src, nil, Options{PreviewSize: 1}, logx.Nop())

	seq1, cmd1 := c.Trigger(TriggerMount)
	seq2, cmd2 := c.Trigger(TriggerFocus)
	assert.Greater(t, seq2, seq1)

	// Completion order does not change the sequence each result carries.
	msg2 := cmd2().(RefreshedMsg)
	msg1 := cmd1().(RefreshedMsg)
	assert.Equal(t, seq1, msg1.Seq)
	assert.Equal(t, seq2, msg2.Seq)
	assert.Equal(t, TriggerMount, msg1.Trigger)
	assert.Equal(t, TriggerFocus, msg2.Trigger)
	assert.Equal(t, 2, src.calls)
}

func TestCoordinator_WaitForSignal(t *testing.T) {
	bus := eventbus.New()
	c := New(&fakeSource{body: `[]`}, bus, Options{}, logx.Nop())
	defer c.Close()

	cmd := c.WaitForSignal()
	require.NotNil(t, cmd)

	bus.Publish(eventbus.Event{Type: "unrelated"})
	bus.Publish(eventbus.Event{Type: eventbus.TopicNotificationsRefresh})

	done := make(chan any, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		assert.Equal(t, SignalMsg{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("signal not delivered")
	}
}

func TestCoordinator_CloseStopsSignalWait(t *testing.T) {
	bus := eventbus.New()
	c := New(&fakeSource{body: `[]`}, bus, Options{}, logx.Nop())

	cmd := c.WaitForSignal()
	require.NotNil(t, cmd)

	c.Close()
	c.Close()

	assert.Nil(t, cmd())
	assert.Nil(t, c.WaitForSignal())
}

func TestCoordinator_WithoutBusHasNoSignal(t *testing.T) {
	c := New(&fakeSource{body: `[]`}, nil, Options{}, logx.Nop())
	assert.Nil(t, c.WaitForSignal())
	assert.NotPanics(t, c.Close)
}

func TestCoordinator_MarkAllReadReportsError(t *testing.T) {
	src := &fakeSource{markErr: errors.New("503")}
	c := New(src, nil, Options{}, logx.Nop())

	msg := c.MarkAllRead()().(MarkedAllReadMsg)
	assert.Error(t, msg.Err)
	assert.Equal(t, 1, src.marked)
}

func TestCoordinator_MarkAllReadCarriesLastReservedSeq(t *testing.T) {
	c := New(&fakeSource{body: "[]"}, nil, Options{}, logx.Nop())

	c.Trigger(TriggerOpen)
	c.Trigger(TriggerFocus)
	msg := c.MarkAllRead()().(MarkedAllReadMsg)
	assert.NoError(t, msg.Err)
	assert.Equal(t, uint64(2), msg.Seq)

	next, _ := c.Trigger(TriggerNavigate)
	assert.Greater(t, next, msg.Seq)
}

func TestTick(t *testing.T) {
	assert.Nil(t, Tick(0))
	assert.NotNil(t, Tick(time.Minute))
}
