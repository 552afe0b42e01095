package sync

import (
	"context"
	gosync "sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifybell/internal/eventbus"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/notify"
	"github.com/nhle/notifybell/internal/source"
)

// Trigger identifies what asked for a refresh.
type Trigger string

const (
	TriggerMount      Trigger = "mount"
	TriggerVisibility Trigger = "visibility"
	TriggerSignal     Trigger = "signal"
	TriggerFocus      Trigger = "focus"
	TriggerOpen       Trigger = "open"
	TriggerManual     Trigger = "manual"
	TriggerInterval   Trigger = "interval"
	TriggerNavigate   Trigger = "navigate"
)

// Result is the outcome of one refresh.
type Result struct {
	// Seq orders refreshes by start time. Later refreshes have larger Seq.
	Seq uint64

	// Notifications is the full normalized list in server order.
	Notifications []model.Notification

	// Preview is the leading slice of Notifications shown in the dropdown.
	Preview []model.Notification

	UnreadCount int

	// Err is set when the fetch failed; the other fields are then empty.
	Err error
}

// RefreshedMsg is a tea.Msg carrying a refresh Result.
type RefreshedMsg struct {
	Result
	Trigger Trigger
}

// SignalMsg is a tea.Msg delivered when the application-wide refresh
// signal fires.
type SignalMsg struct{}

// MarkedAllReadMsg is a tea.Msg sent once a mark-all-read call finished.
// Err is informational only.
type MarkedAllReadMsg struct {
	// Seq is the last sequence number reserved when the call finished.
	// Results with Seq at or below it may predate the mark and are stale.
	Seq uint64
	Err error
}

// Options tunes a Coordinator. Zero values select defaults.
type Options struct {
	PageSize    int
	Filter      string
	PreviewSize int
	Timeout     time.Duration
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// Coordinator owns the single refresh operation shared by every trigger
// source, and the subscription to the application refresh signal.
type Coordinator struct {
	src  source.Source
	opts Options
	log  logx.Logger

	seq atomic.Uint64

	mu     gosync.Mutex
	signal <-chan eventbus.Event
	unsub  func()
}

// New creates a Coordinator reading from src. When bus is non-nil the
// coordinator subscribes to eventbus.TopicNotificationsRefresh; call Close
// to release the subscription.
func New(src source.Source, bus eventbus.Bus, opts Options, log logx.Logger) *Coordinator {
	if opts.PageSize <= 0 {
		opts.PageSize = 1000
	}
	if opts.Filter == "" {
		opts.Filter = source.FilterAll
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fetchTimeout
	}

	c := &Coordinator{
		src:  src,
		opts: opts,
		log:  log.With(logx.String("component", "notifications"), logx.String("source", src.Name())),
	}
	if bus != nil {
		c.signal, c.unsub = bus.Subscribe(16)
	}
	return c
}

// Refresh fetches, normalizes and reconciles notifications. It never
// returns an error: failures are logged and produce an empty Result with
// Err set. Refresh is safe to call concurrently.
func (c *Coordinator) Refresh(ctx context.Context) Result {
	return c.refresh(ctx, c.seq.Add(1))
}

func (c *Coordinator) refresh(ctx context.Context, seq uint64) Result {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	res, err := c.src.ListNotifications(ctx, source.ListOptions{
		Page:     1,
		PageSize: c.opts.PageSize,
		Filter:   c.opts.Filter,
	})
	if err != nil {
		c.log.Error("refreshing notifications",
			logx.Uint64("seq", seq),
			logx.Bool("auth", source.IsAuthError(err)),
			logx.Err(err),
		)
		return Result{
			Seq:           seq,
			Notifications: []model.Notification{},
			Preview:       []model.Notification{},
			Err:           err,
		}
	}

	list := notify.NormalizeRecords(res.Body)
	unread := notify.Reconcile(list, notify.ExtractPagination(res.Body))

	preview := list
	if len(preview) > c.opts.PreviewSize {
		preview = preview[:c.opts.PreviewSize]
	}

	c.log.Debug("notifications refreshed",
		logx.Uint64("seq", seq),
		logx.Int("total", len(list)),
		logx.Int("unread", unread),
	)

	return Result{
		Seq:           seq,
		Notifications: list,
		Preview:       preview,
		UnreadCount:   unread,
	}
}

// Trigger reserves a sequence number for a refresh on behalf of t and
// returns it with a tea.Cmd that performs the refresh and yields a
// RefreshedMsg. Triggers are not debounced.
func (c *Coordinator) Trigger(t Trigger) (uint64, tea.Cmd) {
	seq := c.seq.Add(1)
	c.log.Debug("refresh triggered", logx.String("trigger", string(t)), logx.Uint64("seq", seq))

	return seq, func() tea.Msg {
		return RefreshedMsg{Result: c.refresh(context.Background(), seq), Trigger: t}
	}
}

// WaitForSignal returns a tea.Cmd that waits for the next application
// refresh signal. Re-issue it after each SignalMsg to keep listening. It
// returns nil when the coordinator has no bus or has been closed.
func (c *Coordinator) WaitForSignal() tea.Cmd {
	c.mu.Lock()
	ch := c.signal
	c.mu.Unlock()
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		for e := range ch {
			if e.Type == eventbus.TopicNotificationsRefresh {
				return SignalMsg{}
			}
		}
		return nil
	}
}

// MarkAllRead returns a tea.Cmd that asks the source to mark everything
// read. Failures are logged and reported in MarkedAllReadMsg.Err.
func (c *Coordinator) MarkAllRead() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
		defer cancel()

		err := c.src.MarkAllRead(ctx)
		if err != nil {
			c.log.Error("marking all notifications read", logx.Err(err))
		}
		return MarkedAllReadMsg{Seq: c.seq.Load(), Err: err}
	}
}

// Close releases the signal subscription. It is safe to call more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.signal = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// TickMsg is a tea.Msg for periodic refreshes.
type TickMsg time.Time

// Tick schedules the next periodic refresh. A non-positive interval
// disables periodic refreshes and returns nil.
func Tick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}
