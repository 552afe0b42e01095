package bell

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/nhle/notifybell/internal/keys"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/notify"
	appsync "github.com/nhle/notifybell/internal/sync"
	"github.com/nhle/notifybell/internal/theme"
)

// Zone IDs marking the clickable regions of the widget.
const (
	ZoneBell     = "notifybell-bell"
	ZoneDropdown = "notifybell-dropdown"
)

const dropdownWidth = 46

// NavigateMsg asks the application to switch to Route.
type NavigateMsg struct {
	Route string
}

// MountMsg starts the widget. Send it once after the program starts.
type MountMsg struct{}

// Refresher is the subset of *sync.Coordinator the widget drives.
type Refresher interface {
	Trigger(t appsync.Trigger) (uint64, tea.Cmd)
	WaitForSignal() tea.Cmd
	MarkAllRead() tea.Cmd
}

// HitFunc reports whether a mouse event landed inside the zone id.
type HitFunc func(id string, msg tea.MouseMsg) bool

// Options tunes presentation. Zero values select defaults.
type Options struct {
	WordLimit       int
	BadgeCap        int
	Route           string
	RefreshInterval time.Duration
}

// Model is the notification bell: a badge with the unread count and a
// dropdown previewing the newest notifications.
type Model struct {
	refresher Refresher
	keys      *keys.KeyMap
	opts      Options
	zones     *zone.Manager
	hit       HitFunc
	now       func() time.Time

	open          bool
	markingRead   bool
	pending       int
	reservedSeq   uint64
	appliedSeq    uint64
	notifications []model.Notification
	unreadCount   int
	lastErr       error

	spinner spinner.Model
}

// New creates a closed bell with no notifications. zones may be nil, in
// which case regions are not marked and outside-click detection relies on
// SetHitFunc.
func New(r Refresher, km *keys.KeyMap, zones *zone.Manager, opts Options) Model {
	if opts.WordLimit <= 0 {
		opts.WordLimit = notify.DefaultWordLimit
	}
	if opts.BadgeCap <= 0 {
		opts.BadgeCap = notify.DefaultBadgeCap
	}
	if opts.Route == "" {
		opts.Route = "/notifications"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	m := Model{
		refresher: r,
		keys:      km,
		opts:      opts,
		zones:     zones,
		now:       time.Now,
		spinner:   s,
	}
	m.hit = m.zoneHit
	return m
}

func (m Model) zoneHit(id string, msg tea.MouseMsg) bool {
	if m.zones == nil {
		return false
	}
	info := m.zones.Get(id)
	return info != nil && info.InBounds(msg)
}

// SetHitFunc replaces the zone hit test.
func (m *Model) SetHitFunc(f HitFunc) {
	m.hit = f
}

// SetClock replaces the clock used for relative timestamps.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

// Init returns the command that mounts the widget.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return MountMsg{} }
}

// IsOpen reports whether the dropdown is showing.
func (m Model) IsOpen() bool { return m.open }

// Loading reports whether any refresh is in flight.
func (m Model) Loading() bool { return m.pending > 0 }

// UnreadCount returns the unread count currently displayed.
func (m Model) UnreadCount() int { return m.unreadCount }

// Notifications returns the preview currently displayed.
func (m Model) Notifications() []model.Notification { return m.notifications }

// Refresh starts a refresh on behalf of t.
func (m *Model) Refresh(t appsync.Trigger) tea.Cmd {
	seq, cmd := m.refresher.Trigger(t)
	if seq > m.reservedSeq {
		m.reservedSeq = seq
	}
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// Update handles messages for the bell.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MountMsg:
		return m, tea.Batch(
			m.Refresh(appsync.TriggerMount),
			m.refresher.WaitForSignal(),
			appsync.Tick(m.opts.RefreshInterval),
		)

	case appsync.RefreshedMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.Seq <= m.appliedSeq {
			return m, nil
		}
		m.appliedSeq = msg.Seq
		m.notifications = msg.Preview
		m.unreadCount = msg.UnreadCount
		m.lastErr = msg.Err
		return m, nil

	case appsync.SignalMsg:
		return m, tea.Batch(m.Refresh(appsync.TriggerSignal), m.refresher.WaitForSignal())

	case appsync.TickMsg:
		return m, tea.Batch(m.Refresh(appsync.TriggerInterval), appsync.Tick(m.opts.RefreshInterval))

	case tea.FocusMsg:
		return m, m.Refresh(appsync.TriggerFocus)

	case tea.ResumeMsg:
		return m, m.Refresh(appsync.TriggerVisibility)

	case appsync.MarkedAllReadMsg:
		m.markingRead = false
		m.unreadCount = 0
		// Refreshes started before the mark finished may carry the old count.
		m.appliedSeq = max(m.appliedSeq, m.reservedSeq, msg.Seq)
		route := m.opts.Route
		return m, tea.Batch(m.close(), func() tea.Msg { return NavigateMsg{Route: route} })

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if !m.open || msg.Action != tea.MouseActionPress || !isClick(msg.Button) {
			return m, nil
		}
		if m.hit(ZoneBell, msg) {
			return m, m.close()
		}
		if !m.hit(ZoneDropdown, msg) {
			return m, m.close()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Bell):
			if m.open {
				return m, m.close()
			}
			return m, m.openDropdown()
		case key.Matches(msg, m.keys.Back):
			if m.open {
				return m, m.close()
			}
		case key.Matches(msg, m.keys.ViewAll):
			if m.open && !m.markingRead {
				m.markingRead = true
				return m, m.refresher.MarkAllRead()
			}
		}
	}

	return m, nil
}

// isClick filters out wheel events, which bubbletea also reports as presses.
func isClick(b tea.MouseButton) bool {
	switch b {
	case tea.MouseButtonLeft, tea.MouseButtonMiddle, tea.MouseButtonRight:
		return true
	}
	return false
}

// openDropdown shows the dropdown, starts listening for outside clicks and
// refreshes.
func (m *Model) openDropdown() tea.Cmd {
	m.open = true
	return tea.Batch(tea.EnableMouseCellMotion, m.Refresh(appsync.TriggerOpen))
}

// close hides the dropdown and stops listening for clicks.
func (m *Model) close() tea.Cmd {
	if !m.open {
		return nil
	}
	m.open = false
	return tea.DisableMouse
}

func (m Model) mark(id, v string) string {
	if m.zones == nil {
		return v
	}
	return m.zones.Mark(id, v)
}

// View renders the bell button with its badge.
func (m Model) View() string {
	button := theme.BellStyle.Render("🔔")
	if label := notify.BadgeLabel(m.unreadCount, m.opts.BadgeCap); label != "" {
		button = lipgloss.JoinHorizontal(lipgloss.Top, button, theme.BadgeStyle.Render(label))
	}
	return m.mark(ZoneBell, button)
}

// DropdownView renders the open dropdown, or "" when closed.
func (m Model) DropdownView() string {
	if !m.open {
		return ""
	}

	header := theme.TitleStyle.Render("Notifications")
	if m.unreadCount > 0 {
		header += theme.DimmedStyle.Render(fmt.Sprintf("  %d unread", m.unreadCount))
	}

	var body string
	switch {
	case m.Loading():
		body = m.spinner.View() + " Loading notifications..."
	case len(m.notifications) == 0:
		body = theme.DimmedStyle.Render("No notifications")
		if m.lastErr != nil {
			body += "\n" + theme.ErrorStyle.Render("Could not reach the notification service")
		}
	default:
		entries := make([]string, 0, len(m.notifications))
		for _, n := range m.notifications {
			entries = append(entries, m.renderEntry(n))
		}
		body = strings.Join(entries, "\n\n")
	}

	footer := theme.HelpStyle.Render(m.keys.ViewAll.Help().Key + " view all | esc close")

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
	return m.mark(ZoneDropdown, theme.DropdownStyle.Width(dropdownWidth).Render(content))
}

func (m Model) renderEntry(n model.Notification) string {
	marker := "  "
	if notify.IsUnread(n) {
		marker = theme.UnreadMarkerStyle.Render("● ")
	}

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}

	line1 := marker + theme.TitleStyle.Render(title)
	meta := theme.TypeStyle(string(n.Type)).Render(string(n.Type))
	if ago := notify.TimeAgo(n.CreatedAt, m.now()); ago != "" {
		meta += theme.DimmedStyle.Render(" · " + ago)
	}
	line2 := "  " + notify.TruncateMessage(n.Message, m.opts.WordLimit)

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2, "  "+meta)
}
