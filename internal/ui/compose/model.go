package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifybell/internal/eventbus"
	"github.com/nhle/notifybell/internal/logx"
	"github.com/nhle/notifybell/internal/model"
	"github.com/nhle/notifybell/internal/source"
	"github.com/nhle/notifybell/internal/theme"
)

// ComposedMsg is dispatched when the user submits the form.
type ComposedMsg struct {
	Title   string
	Message string
	Type    model.NotificationType
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// CreatedMsg reports the outcome of storing a composed notification.
type CreatedMsg struct {
	Err error
}

// createTimeout bounds a single create call.
const createTimeout = 10 * time.Second

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title            string
	message          string
	notificationType string
}

// Model is the Bubble Tea model for the compose form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new compose form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{notificationType: string(model.NotificationTypeGeneral)},
		width:  width,
		height: height,
	}
}

// Start resets the fields and builds a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.title = ""
	m.fb.message = ""
	m.fb.notificationType = string(model.NotificationTypeGeneral)
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the compose form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the compose form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("New Notification") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Short headline").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Message").
				Placeholder("What happened?").
				Value(&m.fb.message).
				Validate(validateRequired("Message")),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("General", string(model.NotificationTypeGeneral)),
					huh.NewOption("Property", string(model.NotificationTypeProperty)),
					huh.NewOption("Lead", string(model.NotificationTypeLead)),
					huh.NewOption("Broker", string(model.NotificationTypeBroker)),
				).
				Value(&m.fb.notificationType),
		),
	).WithKeyMap(formKeyMap()).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// formKeyMap lets esc abort the form; ctrl+c is reserved for quitting.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return km
}

func (m Model) handleSubmit() tea.Cmd {
	msg := ComposedMsg{
		Title:   strings.TrimSpace(m.fb.title),
		Message: strings.TrimSpace(m.fb.message),
		Type:    model.ParseNotificationType(m.fb.notificationType),
	}
	return func() tea.Msg { return msg }
}

// Create stores a composed notification through c and, on success,
// publishes the application refresh signal on bus so every listener
// refreshes. bus may be nil.
func Create(c source.Creator, bus eventbus.Bus, log logx.Logger, msg ComposedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
		defer cancel()

		if err := c.CreateNotification(ctx, msg.Title, msg.Message, string(msg.Type)); err != nil {
			log.Error("creating notification", logx.String("title", msg.Title), logx.Err(err))
			return CreatedMsg{Err: fmt.Errorf("creating notification: %w", err)}
		}

		if bus != nil {
			bus.Publish(eventbus.Event{Type: eventbus.TopicNotificationsRefresh})
		}
		log.Info("notification created", logx.String("type", string(msg.Type)))
		return CreatedMsg{}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
