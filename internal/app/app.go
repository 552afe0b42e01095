package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/nhle/notifybell/internal/eventbus"
	"github.com/nhle/notifybell/internal/keys"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/source"
	appsync "github.com/nhle/notifybell/internal/sync"
	"github.com/nhle/notifybell/internal/theme"
	"github.com/nhle/notifybell/internal/ui"
	"github.com/nhle/notifybell/internal/ui/bell"
	"github.com/nhle/notifybell/internal/ui/command"
	"github.com/nhle/notifybell/internal/ui/compose"
	helpview "github.com/nhle/notifybell/internal/ui/help"
	"github.com/nhle/notifybell/internal/ui/notiflist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewNotifications
	ViewHelp
	ViewCommand
	ViewCompose
)

// Deps are the collaborators the root model is composed from.
type Deps struct {
	Config *model.AppConfig
	Source source.Source
	Bus    eventbus.Bus
	// Zones marks clickable regions. Nil disables mouse hit testing.
	Zones *zone.Manager
	Log   logx.Logger
}

// Model is the root Bubble Tea model that manages view routing, layout
// and the notification bell shared by every view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	cfg          *model.AppConfig
	coord        *appsync.Coordinator
	bus          eventbus.Bus
	creator      source.Creator
	zones        *zone.Manager
	log          logx.Logger
	sourceName   string

	bell        bell.Model
	listView    notiflist.Model
	helpView    helpview.Model
	commandView command.Model
	composeView compose.Model

	ready       bool
	lastRefresh time.Time
	lastTrigger appsync.Trigger
	lastErr     error
	flash       string
	now         func() time.Time
}

// New creates the root application model. The caller owns d.Bus; the
// model owns the coordinator and releases it on quit or Close.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	cfg := d.Config

	coord := appsync.New(d.Source, d.Bus, appsync.Options{
		PageSize:    cfg.API.PageSize,
		Filter:      cfg.API.Filter,
		PreviewSize: cfg.Widget.PreviewSize,
		Timeout:     time.Duration(cfg.API.TimeoutSec) * time.Second,
	}, d.Log)

	b := bell.New(coord, k, d.Zones, bell.Options{
		WordLimit:       cfg.Widget.WordLimit,
		BadgeCap:        cfg.Widget.BadgeCap,
		Route:           cfg.Widget.NotificationsRoute,
		RefreshInterval: time.Duration(cfg.Widget.RefreshIntervalSec) * time.Second,
	})

	creator, _ := d.Source.(source.Creator)

	return Model{
		currentView: ViewDashboard,
		keys:        k,
		cfg:         cfg,
		coord:       coord,
		bus:         d.Bus,
		creator:     creator,
		zones:       d.Zones,
		log:         d.Log.With(logx.String("component", "app")),
		sourceName:  d.Source.Name(),
		bell:        b,
		listView:    notiflist.New(k, 80, 24),
		helpView:    helpview.New(k, d.Source.Name(), 80, 24),
		commandView: command.New(80, 24),
		composeView: compose.New(80, 24),
		now:         time.Now,
	}
}

// Init starts the bell.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("notifybell"),
		m.bell.Init(),
	)
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.listView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.composeView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.RefreshedMsg:
		m.lastRefresh = m.now()
		m.lastTrigger = msg.Trigger
		m.lastErr = msg.Err
		var bellCmd, listCmd tea.Cmd
		m.bell, bellCmd = m.bell.Update(msg)
		m.listView, listCmd = m.listView.Update(msg)
		return m, tea.Batch(bellCmd, listCmd)

	case appsync.MarkedAllReadMsg:
		var bellCmd, listCmd tea.Cmd
		m.bell, bellCmd = m.bell.Update(msg)
		m.listView, listCmd = m.listView.Update(msg)
		if msg.Err != nil {
			m.flash = "could not mark notifications read"
		}
		return m, tea.Batch(bellCmd, listCmd)

	case bell.MountMsg, appsync.SignalMsg, appsync.TickMsg,
		tea.FocusMsg, tea.ResumeMsg, spinner.TickMsg, tea.MouseMsg:
		var cmd tea.Cmd
		m.bell, cmd = m.bell.Update(msg)
		return m, cmd

	case bell.NavigateMsg:
		return m, m.navigate(msg.Route)

	case notiflist.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case compose.ComposedMsg:
		m.currentView = m.previousView
		if m.creator == nil {
			m.flash = "this source does not accept new notifications"
			return m, nil
		}
		return m, compose.Create(m.creator, m.bus, m.log, msg)

	case compose.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case compose.CreatedMsg:
		if msg.Err != nil {
			m.flash = msg.Err.Error()
		} else {
			m.flash = "notification created"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		m.flash = ""
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleKey processes global keys. It reports false when the key belongs
// to the active view.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// Text entry views own every key.
	if m.currentView == ViewCompose || m.currentView == ViewCommand {
		return nil, false
	}
	if m.currentView == ViewNotifications && m.listView.IsFiltering() {
		return nil, false
	}

	if m.bell.IsOpen() || key.Matches(msg, m.keys.Bell) {
		if key.Matches(msg, m.keys.Bell, m.keys.Back, m.keys.ViewAll) {
			var cmd tea.Cmd
			m.bell, cmd = m.bell.Update(msg)
			return cmd, true
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit(), true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Refresh):
		return m.bell.Refresh(appsync.TriggerManual), true

	case key.Matches(msg, m.keys.Compose):
		return m.startCompose(), true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
	}

	return nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewNotifications:
		m.listView, cmd = m.listView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	}

	return m, cmd
}

// navigate switches to the view serving route. The listing is refreshed
// on arrival so it reflects any mark-all-read that led there.
func (m *Model) navigate(route string) tea.Cmd {
	switch route {
	case m.cfg.Widget.NotificationsRoute, "/notifications":
		m.currentView = ViewNotifications
		return m.bell.Refresh(appsync.TriggerNavigate)
	case "/", "/dashboard":
		m.currentView = ViewDashboard
	default:
		m.log.Warn("unknown route", logx.String("route", route))
	}
	return nil
}

func (m *Model) startCompose() tea.Cmd {
	if m.creator == nil {
		m.flash = "this source does not accept new notifications"
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewCompose
	return m.composeView.Start()
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// Close releases the refresh signal subscription. It is safe to call more
// than once, so callers can defer it around the program run.
func (m Model) Close() {
	m.coord.Close()
}

// executeCommand handles a command from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case command.Refresh:
		return m.bell.Refresh(appsync.TriggerManual)
	case command.Compose:
		return m.startCompose()
	case command.Notifications:
		return m.navigate(m.cfg.Widget.NotificationsRoute)
	case command.Dashboard:
		return m.navigate("/dashboard")
	case command.Quit:
		return m.quit()
	default:
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Admin Dashboard", m.syncStatus(), m.bell.View())
	content := m.layout.RenderContent(m.renderContent(), m.bell.DropdownView())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	view := m.layout.RenderWithFrame(header, content, statusBar)
	if m.zones != nil {
		return m.zones.Scan(view)
	}
	return view
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.renderDashboard()
	case ViewNotifications:
		return m.listView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCompose:
		return m.composeView.View()
	default:
		return ""
	}
}

// renderDashboard shows a summary of the notification state.
func (m Model) renderDashboard() string {
	label := theme.DimmedStyle.Width(16)

	rows := []string{
		theme.TitleStyle.Render("Notifications"),
		"",
		label.Render("Unread") + fmt.Sprintf("%d", m.bell.UnreadCount()),
		label.Render("Source") + m.sourceName,
	}
	if !m.lastRefresh.IsZero() {
		rows = append(rows, label.Render("Last refresh")+
			fmt.Sprintf("%s (%s)", m.lastRefresh.Format("15:04:05"), m.lastTrigger))
	}
	if m.lastErr != nil {
		rows = append(rows, "", theme.ErrorStyle.Render("Last refresh failed; see the log for details."))
	}
	rows = append(rows, "", theme.HelpStyle.Render(
		fmt.Sprintf("Press %s to open the bell, %s to compose a notification.",
			m.keys.Bell.Help().Key, m.keys.Compose.Help().Key)))

	return theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// syncStatus returns a short string describing the refresh state.
func (m Model) syncStatus() string {
	if m.bell.Loading() {
		return "syncing"
	}
	if m.lastErr != nil {
		if source.IsAuthError(m.lastErr) {
			return "⚠ auth failed"
		}
		return "⚠ unreachable"
	}
	return "idle"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.flash != "" && (m.currentView == ViewDashboard || m.currentView == ViewNotifications) {
		return m.flash
	}

	if m.bell.IsOpen() {
		return "v view all | esc close | b toggle"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewCompose:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return m.listView.Summary() + " | j/k move | / filter | esc back | b bell | r refresh"
	default:
		return strings.Join([]string{"q quit", "? help", "b bell", "n new", "r refresh", ": command"}, " | ")
	}
}
