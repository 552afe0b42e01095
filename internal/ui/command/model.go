package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifybell/internal/theme"
)

// Known palette commands.
const (
	Refresh       = "refresh"
	Compose       = "compose"
	Notifications = "notifications"
	Dashboard     = "dashboard"
	Quit          = "quit"
)

// Commands lists the palette commands in suggestion order.
var Commands = []string{Refresh, Compose, Notifications, Dashboard, Quit}

// aliases maps shorthand to canonical commands.
var aliases = map[string]string{
	"r":     Refresh,
	"sync":  Refresh,
	"new":   Compose,
	"n":     Compose,
	"inbox": Notifications,
	"home":  Dashboard,
	"q":     Quit,
}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the user dismisses the palette.
type CancelMsg struct{}

// Resolve returns the canonical command for input, or "" when unknown.
func Resolve(input string) string {
	cmd := strings.ToLower(strings.TrimSpace(input))
	if alias, ok := aliases[cmd]; ok {
		return alias
	}
	for _, c := range Commands {
		if c == cmd {
			return c
		}
	}
	return ""
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    string
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.input.Reset()
			m.err = ""
			return m, func() tea.Msg { return CancelMsg{} }

		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			if raw == "" {
				return m, nil
			}
			cmd := Resolve(raw)
			if cmd == "" {
				m.err = "unknown command: " + raw
				return m, nil
			}
			m.input.Reset()
			m.err = ""
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()
	hint := theme.HelpStyle.Render(strings.Join(Commands, " · "))

	parts := []string{title, input, hint}
	if m.err != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.err))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
