package settings

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/ghnotify/internal/model"
	"github.com/nhle/ghnotify/internal/theme"
)

// SavedMsg carries the submitted settings back to the app.
type SavedMsg struct {
	Token           string
	PollIntervalSec int
	PageSize        int
}

// CancelledMsg signals the settings form was dismissed unchanged.
type CancelledMsg struct{}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	form *huh.Form

	// huh binds to these
	formToken    string
	formInterval string
	formPageSize string

	width  int
	height int
}

// New creates a settings form prefilled from the current settings.
func New(current model.Settings, width, height int) Model {
	m := Model{
		formToken:    current.Token,
		formInterval: strconv.Itoa(current.PollIntervalSec),
		formPageSize: strconv.Itoa(current.PageSize),
		width:        width,
		height:       height,
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("token").
				Title("GitHub token").
				Description("Personal access token with the notifications scope. Stored in the system keyring.").
				EchoMode(huh.EchoModePassword).
				Value(&m.formToken),
			huh.NewInput().
				Key("interval").
				Title("Poll interval (seconds)").
				Description(fmt.Sprintf("Clamped into [%d, %d].", model.MinPollIntervalSec, model.MaxPollIntervalSec)).
				Validate(validateInt).
				Value(&m.formInterval),
			huh.NewInput().
				Key("page_size").
				Title("Page size").
				Description(fmt.Sprintf("Threads per feed page, clamped into [%d, %d].", model.MinPageSize, model.MaxPageSize)).
				Validate(validateInt).
				Value(&m.formPageSize),
		),
	).WithShowHelp(true)

	return m
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize resizes the form area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		interval, _ := strconv.Atoi(m.form.GetString("interval"))
		pageSize, _ := strconv.Atoi(m.form.GetString("page_size"))
		token := m.form.GetString("token")
		return m, func() tea.Msg {
			return SavedMsg{
				Token:           token,
				PollIntervalSec: model.ClampPollInterval(interval),
				PageSize:        model.ClampPageSize(pageSize),
			}
		}
	}

	return m, cmd
}

// View renders the settings form.
func (m Model) View() string {
	header := theme.HeaderStyle.Render("Settings")
	return header + "\n\n" + m.form.View()
}
