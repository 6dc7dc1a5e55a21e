// Package settings edits the display and logging preferences stored in the
// config file.
package settings

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

// SavedMsg reports that the config file was written. The root model
// applies the new theme and date format to every screen.
type SavedMsg struct {
	Config model.AppConfig
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	theme      string
	dateFormat string
	logLevel   string
}

// Model is the settings screen.
type Model struct {
	cfg     model.AppConfig
	cfgPath string
	styles  theme.Styles

	form   *huh.Form
	fb     *formBindings
	saving bool
	width  int
	height int
}

// New creates the settings screen for the config at cfgPath.
func New(cfg model.AppConfig, cfgPath string, styles theme.Styles, width, height int) Model {
	return Model{
		cfg:     cfg,
		cfgPath: cfgPath,
		styles:  styles,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Open resets the form from the current config.
func (m *Model) Open() tea.Cmd {
	m.fb.theme = m.cfg.Display.Theme
	m.fb.dateFormat = m.cfg.Display.DateFormat
	m.fb.logLevel = m.cfg.Log.Level
	m.saving = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Busy reports whether the form has focus. The settings form owns every key
// while it is open.
func (m Model) Busy() bool { return m.form != nil }

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow terminal", model.ThemeAuto),
					huh.NewOption("Light", model.ThemeLight),
					huh.NewOption("Dark", model.ThemeDark),
				).
				Value(&m.fb.theme),
			huh.NewInput().
				Title("Date format").
				Description("Go time layout used in suggested list names").
				Value(&m.fb.dateFormat).
				Validate(validateLayout),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&m.fb.logLevel),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

// validateLayout rejects layouts that would not render any date component.
func validateLayout(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("date format is required")
	}
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if ref.Format(s) == s {
		return fmt.Errorf("layout has no date fields, try 2006-01-02")
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		m.cfg = msg.Config
		m.saving = false
		return m, nil
	case ui.ErrorMsg:
		m.saving = false
		return m, nil
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateAborted:
		m.form = nil
		return m, ui.Back
	case huh.StateCompleted:
		m.form = nil
		m.saving = true
		return m, tea.Batch(m.save(), ui.Back)
	}
	return m, cmd
}

func (m Model) save() tea.Cmd {
	cfg := m.cfg
	cfg.Display.Theme = m.fb.theme
	cfg.Display.DateFormat = strings.TrimSpace(m.fb.dateFormat)
	cfg.Log.Level = m.fb.logLevel
	path := m.cfgPath

	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return ui.ErrorMsg{Op: "validating settings", Err: err}
		}
		if err := model.SaveConfig(path, &cfg); err != nil {
			return ui.ErrorMsg{Op: "saving settings", Err: err, Attrs: []any{"path", path}}
		}
		return SavedMsg{Config: cfg}
	}
}

// View renders the settings screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(m.styles.Dimmed.Render(m.cfgPath))
	b.WriteString("\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.form.View())
	case m.saving:
		b.WriteString(m.styles.Dimmed.Render("Saving..."))
	default:
		b.WriteString(m.styles.Dimmed.Render("Database: " + m.cfg.Database.Path))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }
