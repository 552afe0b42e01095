package notiflist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/notify"
	"github.com/nhle/notifybell/internal/theme"
)

// NotificationItem wraps a model.Notification so it can be used in a
// bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string {
	return i.Notification.Title + " " + i.Notification.Message
}

// Title returns the notification title for the list.
func (i NotificationItem) Title() string { return i.Notification.Title }

// Description returns the message body for the list.
func (i NotificationItem) Description() string { return i.Notification.Message }

// ItemDelegate implements list.ItemDelegate for rendering notifications.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a notification as a title line and a message line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(NotificationItem)
	if !ok {
		return
	}
	n := it.Notification
	isSelected := index == m.Index()

	marker := "  "
	if notify.IsUnread(n) {
		marker = theme.UnreadMarkerStyle.Render("● ")
	}

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	titleStyle := theme.TitleStyle
	if !notify.IsUnread(n) {
		titleStyle = theme.DimmedStyle
	}
	if isSelected {
		titleStyle = titleStyle.Foreground(theme.ColorBlue)
	}

	meta := []string{theme.TypeStyle(string(n.Type)).Render(string(n.Type))}
	if ago := notify.TimeAgo(n.CreatedAt, d.now()); ago != "" {
		meta = append(meta, theme.DimmedStyle.Render(ago))
	}

	line1 := marker + titleStyle.Render(title) + "  " + strings.Join(meta, theme.DimmedStyle.Render(" · "))

	width := m.Width() - 4
	if width < 10 {
		width = 10
	}
	message := strings.Join(strings.Fields(n.Message), " ")
	line2 := "  " + lipgloss.NewStyle().MaxWidth(width).Render(message)

	cursor := " "
	if isSelected {
		cursor = theme.UnreadMarkerStyle.Render("│")
	}
	fmt.Fprint(w, cursor+line1+"\n"+cursor+line2)
}
