package app

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
	"github.com/nhle/listly/internal/ui/command"
	"github.com/nhle/listly/internal/ui/editor"
	helpview "github.com/nhle/listly/internal/ui/help"
	"github.com/nhle/listly/internal/ui/home"
	"github.com/nhle/listly/internal/ui/listview"
	"github.com/nhle/listly/internal/ui/settings"
	"github.com/nhle/listly/internal/ui/swipeview"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewEditor
	ViewSwipe
	ViewList
	ViewSettings
	ViewHelp
	ViewCommand
)

var viewNames = [...]string{
	ViewHome:     "home",
	ViewEditor:   "template",
	ViewSwipe:    "build a list",
	ViewList:     "list",
	ViewSettings: "settings",
	ViewHelp:     "help",
	ViewCommand:  "command",
}

func (v ViewState) String() string { return viewNames[v] }

// Deps are the services the UI works against.
type Deps struct {
	Lists      *lists.Service
	Templates  *templates.Service
	Config     model.AppConfig
	ConfigPath string
	Logger     *slog.Logger
}

// Model is the root Bubble Tea model that manages view routing and layout.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	styles       theme.Styles
	keys         *keys.KeyMap
	logger       *slog.Logger
	cfg          model.AppConfig

	home        home.Model
	editor      editor.Model
	swipe       swipeview.Model
	list        listview.Model
	settings    settings.Model
	helpView    helpview.Model
	commandView command.Model

	ready   bool
	lastErr string
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	styles := theme.New(d.Config.Display.Theme)
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		currentView: ViewHome,
		layout:      ui.NewLayout(80, 24, styles),
		styles:      styles,
		keys:        k,
		logger:      logger,
		cfg:         d.Config,
		home:        home.New(d.Lists, d.Templates, k, styles, 80, 24),
		editor:      editor.New(d.Templates, k, styles, 80, 24),
		swipe:       swipeview.New(d.Lists, d.Templates, k, styles, d.Config.Display.DateFormat, 80, 24),
		list:        listview.New(d.Lists, k, styles, 80, 24),
		settings:    settings.New(d.Config, d.ConfigPath, styles, 80, 24),
		helpView:    helpview.New(k, styles, 80, 24),
		commandView: command.New(styles, 80, 24),
	}
}

// CurrentView returns the visible view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Init loads the home screen.
func (m Model) Init() tea.Cmd {
	return m.home.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, m.styles)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.home.SetSize(w, h)
		m.editor.SetSize(w, h)
		m.swipe.SetSize(w, h)
		m.list.SetSize(w, h)
		m.settings.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case ui.ErrorMsg:
		attrs := append([]any{"error", msg.Err}, msg.Attrs...)
		m.logger.Error(msg.Op+" failed", attrs...)
		m.lastErr = ui.Describe(msg.Err)
		return m.updateActiveView(msg)

	case home.LoadedMsg:
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		return m, cmd

	case ui.OpenTemplateMsg:
		m.currentView = ViewEditor
		cmd := m.editor.Open(msg.TemplateID)
		return m, cmd

	case ui.StartSwipeMsg:
		m.currentView = ViewSwipe
		m.logger.Debug("swipe started", "template_id", msg.TemplateID)
		cmd := m.swipe.Start(msg.TemplateID)
		return m, cmd

	case ui.OpenListMsg:
		if m.currentView == ViewSwipe {
			m.logger.Info("list created from template", "list_id", msg.ListID)
		}
		m.currentView = ViewList
		cmd := m.list.Open(msg.ListID)
		return m, cmd

	case ui.BackMsg:
		if m.currentView == ViewSettings {
			m.currentView = m.previousView
			return m, nil
		}
		m.currentView = ViewHome
		return m, m.home.Load()

	case settings.SavedMsg:
		m.applyConfig(msg.Config)
		m.logger.Info("settings saved", "theme", msg.Config.Display.Theme)
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		m.lastErr = ""
		if next, cmd, ok := m.handleGlobalKey(msg); ok {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work from any view that is not
// capturing text input.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.currentView {
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
		}
		return m, nil, true
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	if m.activeBusy() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewHome {
			return m, tea.Quit, true
		}
	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true
	case key.Matches(msg, m.keys.Settings):
		cmd := m.openSettings()
		return m, cmd, true
	}
	return m, nil, false
}

// activeBusy reports whether the active view is capturing keystrokes.
func (m Model) activeBusy() bool {
	switch m.currentView {
	case ViewHome:
		return m.home.Busy()
	case ViewEditor:
		return m.editor.Busy()
	case ViewSwipe:
		return m.swipe.Busy()
	case ViewList:
		return m.list.Busy()
	case ViewSettings:
		return m.settings.Busy()
	}
	return false
}

func (m *Model) openSettings() tea.Cmd {
	if m.currentView != ViewSettings {
		m.previousView = m.currentView
	}
	m.currentView = ViewSettings
	return m.settings.Open()
}

// applyConfig pushes display preferences to every view.
func (m *Model) applyConfig(cfg model.AppConfig) {
	m.cfg = cfg
	m.styles = theme.New(cfg.Display.Theme)
	m.layout.Styles = m.styles
	m.home.SetStyles(m.styles)
	m.editor.SetStyles(m.styles)
	m.swipe.SetStyles(m.styles)
	m.swipe.SetDateFormat(cfg.Display.DateFormat)
	m.list.SetStyles(m.styles)
	m.settings.SetStyles(m.styles)
	m.helpView.SetStyles(m.styles)
	m.commandView.SetStyles(m.styles)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewEditor:
		m.editor, cmd = m.editor.Update(msg)
	case ViewSwipe:
		m.swipe, cmd = m.swipe.Update(msg)
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Listly", m.currentView.String())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.home.View()
	case ViewEditor:
		return m.editor.View()
	case ViewSwipe:
		return m.swipe.View()
	case ViewList:
		return m.list.View()
	case ViewSettings:
		return m.settings.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.lastErr != "" {
		return m.styles.ErrorText.Render(m.lastErr)
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewEditor:
		return "n new item | e edit | d delete | K/J move | r rename | s build list | esc back"
	case ViewSwipe:
		return "h/l lean | enter confirm | y keep | n skip | esc cancel"
	case ViewList:
		return "x toggle | a add | d delete | K/J move | r rename | C complete | D delete list | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	default:
		if m.home.Section() == home.SectionTemplates {
			return "q quit | ? help | tab section | enter edit | s build list | n new template | d delete"
		}
		return "q quit | ? help | tab section | enter open | c new list | n new template | d delete"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "home":
		m.currentView = ViewHome
		return m.home.Load()
	case "new template", "template":
		m.currentView = ViewHome
		return m.home.StartNewTemplate()
	case "new list", "list":
		m.currentView = ViewHome
		return m.home.StartNewList()
	case "settings", "config":
		return m.openSettings()
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		m.lastErr = "unknown command: " + cmd
		return nil
	}
}
