package notiflist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifybell/internal/keys"
	"github.com/nhle/notifybell/internal/model"
	appsync "github.com/nhle/notifybell/internal/sync"
	"github.com/nhle/notifybell/internal/theme"
)

// BackMsg is sent when the user leaves the notifications view.
type BackMsg struct{}

// Model is the full notifications listing.
type Model struct {
	list       list.Model
	keys       *keys.KeyMap
	delegate   *ItemDelegate
	appliedSeq uint64
	loaded     bool
	unread     int
	lastErr    error
	width      int
	height     int
}

// New creates a new notifications list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := &ItemDelegate{now: time.Now}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("notification", "notifications")

	return Model{
		list:     l,
		keys:     k,
		delegate: delegate,
		width:    width,
		height:   height,
	}
}

// SetClock replaces the clock used for relative timestamps.
func (m *Model) SetClock(now func() time.Time) {
	m.delegate.now = now
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the notifications view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appsync.RefreshedMsg:
		if msg.Seq <= m.appliedSeq {
			return m, nil
		}
		m.appliedSeq = msg.Seq
		m.loaded = true
		m.unread = msg.UnreadCount
		m.lastErr = msg.Err
		return m, m.SetNotifications(msg.Notifications)

	case appsync.MarkedAllReadMsg:
		m.unread = 0
		m.appliedSeq = max(m.appliedSeq, msg.Seq)
		return m, m.markAllRead()

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Back) && m.list.FilterState() == list.Unfiltered {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetNotifications replaces the listed notifications, keeping server order.
func (m *Model) SetNotifications(ns []model.Notification) tea.Cmd {
	items := make([]list.Item, len(ns))
	for i, n := range ns {
		items[i] = NotificationItem{Notification: n}
	}
	return m.list.SetItems(items)
}

// markAllRead flags every listed notification read until the next refresh
// reports the server state.
func (m *Model) markAllRead() tea.Cmd {
	items := m.list.Items()
	if len(items) == 0 {
		return nil
	}
	read := true
	updated := make([]list.Item, len(items))
	for i, it := range items {
		if ni, ok := it.(NotificationItem); ok {
			ni.Notification.Read = &read
			it = ni
		}
		updated[i] = it
	}
	return m.list.SetItems(updated)
}

// Len returns the number of listed notifications.
func (m Model) Len() int {
	return len(m.list.Items())
}

// IsFiltering reports whether the filter input has focus, so global keys
// should pass through to the list.
func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

// Summary describes the unread state for the status bar.
func (m Model) Summary() string {
	if !m.loaded {
		return "loading"
	}
	return fmt.Sprintf("%d unread of %d", m.unread, m.Len())
}

// View renders the notifications view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case !m.loaded:
		return style.Render("Loading notifications...")
	case m.lastErr != nil:
		return style.Render("No notifications.\n\n" +
			theme.ErrorStyle.Render("The notification service could not be reached."))
	default:
		return style.Render("No notifications.\n\nPress " +
			m.keys.Compose.Help().Key + " to compose one.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
