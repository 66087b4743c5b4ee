package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/ghnotify/internal/engine"
	"github.com/nhle/ghnotify/internal/keys"
	"github.com/nhle/ghnotify/internal/ui"
	"github.com/nhle/ghnotify/internal/ui/feed"
	"github.com/nhle/ghnotify/internal/ui/settings"
)

// snapshotMsg carries a fresh engine snapshot into the UI loop.
type snapshotMsg struct {
	snap engine.Snapshot
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewFeed ViewState = iota
	ViewSettings
)

// Model is the root Bubble Tea model. It bridges the engine's update
// channel into the message loop, routes keys, and composes the layout.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	store       *engine.Store
	keys        *keys.KeyMap

	feedView     feed.Model
	settingsView settings.Model
	helpView     help.Model
	showHelp     bool

	snap  engine.Snapshot
	ready bool
}

// New creates the root application model around an engine store.
func New(store *engine.Store) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewFeed,
		store:       store,
		keys:        k,
		feedView:    feed.New(k, 80, 24),
		helpView:    help.New(),
		snap:        store.Snapshot(),
	}
}

// Init starts the poll loop and subscribes to engine updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			m.store.Start()
			return nil
		},
		m.waitForSnapshot(),
	)
}

// waitForSnapshot blocks on the engine's update channel and feeds the
// next snapshot into the message loop. The handler re-issues it, so
// exactly one reader is waiting at any time.
func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.store.Updates()
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg{snap: snap}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.feedView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.helpView.Width = contentWidth
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case snapshotMsg:
		m.snap = msg.snap
		m.feedView.Apply(msg.snap)
		// New threads may need subject details; the engine skips the
		// ones it already has.
		m.store.PrefetchDetails()
		return m, m.waitForSnapshot()

	case feed.OpenThreadMsg:
		if url := m.store.OpenTarget(msg.ThreadID); url != "" {
			return m, openURL(url)
		}
		return m, nil

	case feed.MarkReadMsg:
		m.store.MarkThreadRead(msg.ThreadID)
		return m, nil

	case feed.LoadMoreMsg:
		m.store.LoadMore()
		return m, nil

	case settings.SavedMsg:
		m.store.SetToken(msg.Token)
		m.store.SetPollInterval(msg.PollIntervalSec)
		m.store.SetPageSize(msg.PageSize)
		m.currentView = ViewFeed
		return m, nil

	case settings.CancelledMsg:
		m.currentView = ViewFeed
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.store.Stop()
			return m, tea.Quit

		case "q":
			if m.currentView == ViewFeed {
				m.store.Stop()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewFeed {
				m.showHelp = !m.showHelp
				m.helpView.ShowAll = m.showHelp
				return m, nil
			}

		case "r":
			if m.currentView == ViewFeed {
				m.store.ForceRetry()
				return m, nil
			}

		case "s":
			if m.currentView == ViewFeed {
				m.currentView = ViewSettings
				m.settingsView = settings.New(
					m.store.Settings(),
					m.layout.ContentWidth(),
					m.layout.ContentHeight(),
				)
				return m, m.settingsView.Init()
			}
		}
	}

	// Delegate to the active sub-view.
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewFeed:
		m.feedView, cmd = m.feedView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("GitHub Notifications", m.pollStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSettings:
		return m.settingsView.View()
	default:
		body := m.feedView.View()
		if m.showHelp {
			body += "\n" + m.helpView.View(m.keys)
		}
		return body
	}
}

// pollStatus returns a short string describing the poll loop state for
// the header.
func (m Model) pollStatus() string {
	if m.snap.LoadingMore {
		return "loading more..."
	}
	if !m.snap.Polling {
		return "polling stopped"
	}
	if m.snap.LastPoll.IsZero() {
		return "polling..."
	}
	return fmt.Sprintf("polled %s", m.snap.LastPoll.Format("15:04:05"))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewSettings:
		return "enter submit | esc cancel"
	default:
		if m.snap.LoadMoreMsg != "" {
			return m.snap.LoadMoreMsg
		}
		hints := "q quit | ? help | enter open | r refresh | d mark read | s settings"
		if m.snap.HasMore {
			hints += " | m load more"
		}
		return hints
	}
}
