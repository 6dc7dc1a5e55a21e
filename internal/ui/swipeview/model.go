// Package swipeview presents a template's items one card at a time and
// builds a list from the cards the user keeps.
package swipeview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/swipe"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

// lean is the direction the card is tilted before the decision is committed.
type lean int

const (
	leanNone lean = iota
	leanReject
	leanAccept
)

type loadedMsg struct {
	template *model.Template
	items    []model.TemplateItem
}

// Model is the swipe screen.
type Model struct {
	lists      *lists.Service
	templates  *templates.Service
	keys       *keys.KeyMap
	styles     theme.Styles
	dateFormat string
	now        func() time.Time

	template *model.Template
	seq      *swipe.Sequencer
	lean     lean
	title    textinput.Model
	loadErr  error
	errMsg   string
	width    int
	height   int
}

// New creates the swipe screen. dateFormat is the layout used in the
// suggested list title.
func New(
	l *lists.Service,
	t *templates.Service,
	k *keys.KeyMap,
	styles theme.Styles,
	dateFormat string,
	width, height int,
) Model {
	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.CharLimit = 120
	ti.Width = width - 12

	return Model{
		lists:      l,
		templates:  t,
		keys:       k,
		styles:     styles,
		dateFormat: dateFormat,
		now:        time.Now,
		title:      ti,
		width:      width,
		height:     height,
	}
}

// Start loads a template and begins a new walk.
func (m *Model) Start(templateID string) tea.Cmd {
	m.template = nil
	m.seq = nil
	m.lean = leanNone
	m.loadErr = nil
	m.errMsg = ""
	m.title.Reset()
	m.title.Blur()

	ts := m.templates
	return func() tea.Msg {
		ctx := context.Background()
		t, err := ts.GetTemplateByID(ctx, templateID)
		if err != nil {
			return ui.ErrorMsg{Op: "loading template", Err: err, Attrs: []any{"template_id", templateID}}
		}
		items, err := ts.GetTemplateItems(ctx, templateID)
		if err != nil {
			return ui.ErrorMsg{Op: "loading template items", Err: err, Attrs: []any{"template_id", templateID}}
		}
		return loadedMsg{template: t, items: items}
	}
}

// Busy reports whether the title input has focus.
func (m Model) Busy() bool {
	return m.seq != nil && m.seq.State() == swipe.StateCompleting
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.template = msg.template
		m.seq = swipe.New(msg.template.ID, msg.items)
		return m, nil

	case ui.ErrorMsg:
		if m.seq == nil {
			m.loadErr = msg.Err
		}
		m.errMsg = ui.Describe(msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.Busy() {
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.loadErr != nil {
		return m, ui.Back
	}
	if m.seq == nil {
		return m, nil
	}

	switch m.seq.State() {
	case swipe.StatePresenting:
		return m.handlePresenting(msg)
	case swipe.StateCompleting:
		return m.handleCompleting(msg)
	default:
		// Empty and NoSelection are dismissed with any key.
		return m, ui.Back
	}
}

func (m Model) handlePresenting(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		_ = m.seq.Cancel()
		return m, ui.Back

	case key.Matches(msg, m.keys.LeanLeft):
		m.lean = leanReject
		return m, nil

	case key.Matches(msg, m.keys.LeanRight):
		m.lean = leanAccept
		return m, nil

	case key.Matches(msg, m.keys.Select):
		switch m.lean {
		case leanAccept:
			return m.decide(swipe.Accept)
		case leanReject:
			return m.decide(swipe.Reject)
		}
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		return m.decide(swipe.Accept)

	case key.Matches(msg, m.keys.Reject):
		return m.decide(swipe.Reject)
	}
	return m, nil
}

func (m Model) decide(d swipe.Decision) (Model, tea.Cmd) {
	if err := m.seq.Decide(d); err != nil {
		return m, ui.Fail("recording decision", err, "template_id", m.seq.TemplateID())
	}
	m.lean = leanNone
	if m.seq.State() == swipe.StateCompleting {
		if len(m.seq.Selected()) == 0 {
			// Moves to StateNoSelection without a title prompt.
			_, _ = m.seq.Complete(context.Background(), m.lists, "")
			return m, nil
		}
		m.title.SetValue(lists.DefaultTitle(m.template.Title, m.now(), m.dateFormat))
		m.title.CursorEnd()
		cmd := m.title.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleCompleting(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		_ = m.seq.Cancel()
		return m, ui.Back

	case "enter":
		title := strings.TrimSpace(m.title.Value())
		if title == "" {
			m.errMsg = "A list needs a title."
			return m, nil
		}
		// The write is a single local transaction, so it runs inline.
		list, err := m.seq.Complete(context.Background(), m.lists, title)
		if errors.Is(err, model.ErrInvalidSelection) {
			m.title.Blur()
			return m, nil
		}
		if err != nil {
			m.errMsg = ui.Describe(err)
			return m, ui.Fail("creating list from template", err, "template_id", m.seq.TemplateID())
		}
		id := list.ID
		return m, func() tea.Msg { return ui.OpenListMsg{ListID: id} }
	}

	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	return m, cmd
}

// View renders the swipe screen.
func (m Model) View() string {
	var body string
	switch {
	case m.loadErr != nil:
		body = m.alert("Template unavailable", m.errMsg)
	case m.seq == nil:
		body = m.styles.Dimmed.Render("Loading...")
	default:
		body = m.viewState()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) viewState() string {
	switch m.seq.State() {
	case swipe.StateEmpty:
		return m.alert("No Items", "This template has no items. Add some in the editor first.")
	case swipe.StateNoSelection:
		return m.alert("No Items", "You skipped every item, so no list was created.")
	case swipe.StateCompleting:
		return m.viewCompleting()
	case swipe.StatePresenting:
		return m.viewCard()
	default:
		return ""
	}
}

func (m Model) viewCard() string {
	item, _ := m.seq.Current()
	pos, total := m.seq.Progress()

	header := m.styles.Title.Render(m.template.Title)
	counter := m.styles.Dimmed.Render(fmt.Sprintf("%d / %d", pos, total))

	lines := []string{lipgloss.NewStyle().Bold(true).Render(item.Text)}
	if d := m.details(item); d != "" {
		lines = append(lines, d)
	}

	card := m.styles.Card
	hint := "h/← skip · l/→ keep · y/n decide · esc cancel"
	switch m.lean {
	case leanAccept:
		card = m.styles.CardAccept
		lines = append(lines, "", lipgloss.NewStyle().Foreground(m.styles.Good).Render("KEEP · enter to confirm"))
	case leanReject:
		card = m.styles.CardReject
		lines = append(lines, "", lipgloss.NewStyle().Foreground(m.styles.Error).Render("SKIP · enter to confirm"))
	}

	width := m.width / 2
	if width < 30 {
		width = 30
	}
	rendered := card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

	return lipgloss.JoinVertical(lipgloss.Center,
		header,
		rendered,
		counter,
		m.styles.Help.Render(hint),
	)
}

func (m Model) viewCompleting() string {
	kept := len(m.seq.Selected())
	_, total := m.seq.Progress()

	parts := []string{
		m.styles.Title.Render("Name your list"),
		m.styles.Dimmed.Render(fmt.Sprintf("Keeping %d of %d items", kept, total)),
		"",
		m.title.View(),
	}
	if m.errMsg != "" {
		parts = append(parts, "", m.styles.ErrorText.Render(m.errMsg))
	}
	parts = append(parts, "", m.styles.Help.Render("enter create · esc cancel"))
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) alert(title, body string) string {
	return m.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ErrorText.Render(title),
		"",
		body,
		"",
		m.styles.Help.Render("press any key to go back"),
	))
}

func (m Model) details(it model.TemplateItem) string {
	var parts []string
	if it.Category != nil {
		parts = append(parts, "#"+*it.Category)
	}
	if it.Priority != nil {
		parts = append(parts, m.styles.PriorityStyle(*it.Priority).Render(*it.Priority))
	}
	if it.Assignee != nil {
		parts = append(parts, "@"+*it.Assignee)
	}
	if it.DueDate != nil {
		parts = append(parts, "due "+it.DueDate.Format("2006-01-02"))
	}
	if len(parts) == 0 {
		return ""
	}
	return m.styles.Dimmed.Render(strings.Join(parts, "  "))
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.Width = width - 12
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }

// SetDateFormat changes the layout used for suggested titles.
func (m *Model) SetDateFormat(layout string) { m.dateFormat = layout }
