package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Known lists the commands the palette suggests.
var Known = []string{"home", "new template", "new list", "settings", "help", "quit"}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	styles theme.Styles
	width  int
	height int
}

// New creates a new command palette model.
func New(styles theme.Styles, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Known)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		styles: styles,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		cmd := strings.ToLower(strings.TrimSpace(m.input.Value()))
		m.input.Reset()
		if cmd != "" {
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := m.styles.Title.Render("Command Palette")
	hint := m.styles.Help.Render(strings.Join(Known, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), "", hint)

	return m.styles.Panel.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
