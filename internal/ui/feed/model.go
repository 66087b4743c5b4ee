package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/ghnotify/internal/engine"
	"github.com/nhle/ghnotify/internal/keys"
	"github.com/nhle/ghnotify/internal/theme"
)

// OpenThreadMsg asks the app to open a thread in the browser.
type OpenThreadMsg struct {
	ThreadID string
}

// MarkReadMsg asks the app to mark a thread as read.
type MarkReadMsg struct {
	ThreadID string
}

// LoadMoreMsg asks the app to fetch the next feed page.
type LoadMoreMsg struct{}

// Model is the notification list view component.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	message string
	hasMore bool
	width   int
	height  int
}

// New creates a new feed list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetSize resizes the list to the given content dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Apply replaces the view's contents from an engine snapshot,
// preserving the current selection where possible.
func (m *Model) Apply(snap engine.Snapshot) {
	selected := m.SelectedID()

	items := make([]list.Item, len(snap.Threads))
	index := 0
	for i, t := range snap.Threads {
		items[i] = ThreadItem{
			Thread:       t,
			Participants: snap.Details[t.ID].Participants,
		}
		if t.ID == selected {
			index = i
		}
	}
	m.list.SetItems(items)
	m.list.Select(index)

	m.message = snap.Message
	m.hasMore = snap.HasMore
}

// SelectedID returns the id of the currently focused thread, or "".
func (m Model) SelectedID() string {
	item, ok := m.list.SelectedItem().(ThreadItem)
	if !ok {
		return ""
	}
	return item.Thread.ID
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Open):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return OpenThreadMsg{ThreadID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.MarkRead):
			if id := m.SelectedID(); id != "" {
				return m, func() tea.Msg { return MarkReadMsg{ThreadID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.LoadMore):
			if m.hasMore {
				return m, func() tea.Msg { return LoadMoreMsg{} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the feed. Exactly one of {error banner, empty state,
// list} is shown, in that precedence.
func (m Model) View() string {
	if m.message != "" {
		return theme.ErrorStyle.Render(m.message)
	}
	if len(m.list.Items()) == 0 {
		return theme.EmptyStyle.Render("All caught up!")
	}
	return m.list.View()
}
