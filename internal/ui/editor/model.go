// Package editor edits one template: its title and its ordered items.
package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

const dueLayout = "2006-01-02"

type mode int

const (
	modeBrowse mode = iota
	modeItemForm
	modeRename
)

type loadedMsg struct {
	template *model.Template
	items    []model.TemplateItem
}

type changedMsg struct{ status string }

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	text     string
	category string
	priority string
	assignee string
	due      string
}

// Model is the template editor.
type Model struct {
	templates *templates.Service
	keys      *keys.KeyMap
	styles    theme.Styles

	templateID string
	template   *model.Template
	items      []model.TemplateItem
	cursor     int

	mode      mode
	editingID string
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	width     int
	height    int
}

// New creates the editor.
func New(t *templates.Service, k *keys.KeyMap, styles theme.Styles, width, height int) Model {
	return Model{
		templates: t,
		keys:      k,
		styles:    styles,
		fb:        &formBindings{},
		width:     width,
		height:    height,
	}
}

// Open switches the editor to a template and loads it.
func (m *Model) Open(templateID string) tea.Cmd {
	m.templateID = templateID
	m.template = nil
	m.items = nil
	m.cursor = 0
	m.mode = modeBrowse
	m.statusMsg = ""
	return m.load()
}

// Busy reports whether a form has focus.
func (m Model) Busy() bool { return m.mode != modeBrowse }

func (m Model) load() tea.Cmd {
	ts, id := m.templates, m.templateID
	return func() tea.Msg {
		ctx := context.Background()
		t, err := ts.GetTemplateByID(ctx, id)
		if err != nil {
			return ui.ErrorMsg{Op: "loading template", Err: err, Attrs: []any{"template_id", id}}
		}
		items, err := ts.GetTemplateItems(ctx, id)
		if err != nil {
			return ui.ErrorMsg{Op: "loading template items", Err: err, Attrs: []any{"template_id", id}}
		}
		return loadedMsg{template: t, items: items}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.template = msg.template
		m.items = msg.items
		m.cursor = ui.Clamp(m.cursor, len(m.items))
		return m, nil

	case changedMsg:
		m.statusMsg = msg.status
		return m, m.load()

	case ui.ErrorMsg:
		m.mode = modeBrowse
		m.statusMsg = ui.Describe(msg.Err)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m.handleKey(msg)
		}
	}
	return m.updateForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.items)
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, ui.Back

	case key.Matches(msg, m.keys.Down):
		m.cursor = ui.Step(m.cursor, 1, n)

	case key.Matches(msg, m.keys.Up):
		m.cursor = ui.Step(m.cursor, -1, n)

	case key.Matches(msg, m.keys.New), key.Matches(msg, m.keys.Add):
		m.editingID = ""
		*m.fb = formBindings{}
		m.form = m.buildItemForm("New item")
		m.mode = modeItemForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if n == 0 {
			return m, nil
		}
		it := m.items[m.cursor]
		m.editingID = it.ID
		*m.fb = bindingsFor(it)
		m.form = m.buildItemForm("Edit item")
		m.mode = modeItemForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Rename):
		if m.template == nil {
			return m, nil
		}
		m.fb.title = m.template.Title
		m.form = m.buildRenameForm()
		m.mode = modeRename
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if n == 0 {
			return m, nil
		}
		return m, m.deleteItem(m.items[m.cursor])

	case key.Matches(msg, m.keys.MoveUp):
		if m.cursor == 0 || n == 0 {
			return m, nil
		}
		m.cursor--
		return m, m.move(m.cursor+1, m.cursor)

	case key.Matches(msg, m.keys.MoveDown):
		if m.cursor >= n-1 {
			return m, nil
		}
		m.cursor++
		return m, m.move(m.cursor-1, m.cursor)

	case key.Matches(msg, m.keys.StartSwipe):
		id := m.templateID
		return m, func() tea.Msg { return ui.StartSwipeMsg{TemplateID: id} }
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.mode == modeBrowse {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateAborted:
		m.mode = modeBrowse
		return m, nil
	case huh.StateCompleted:
		done := m.mode
		m.mode = modeBrowse
		if done == modeRename {
			return m, m.rename()
		}
		return m, m.saveItem()
	}
	return m, cmd
}

func (m Model) buildItemForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Text").
				Value(&m.fb.text).
				Validate(ui.Required("text")),
			huh.NewInput().
				Title("Category").
				Placeholder("optional").
				Value(&m.fb.category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
			huh.NewInput().
				Title("Assignee").
				Placeholder("optional").
				Value(&m.fb.assignee),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.due).
				Validate(validDue),
		).Title(title),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) buildRenameForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template name").
				Value(&m.fb.title).
				Validate(ui.Required("name")),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) saveItem() tea.Cmd {
	ts := m.templates
	templateID, editID := m.templateID, m.editingID
	fb := *m.fb
	return func() tea.Msg {
		ctx := context.Background()
		due, _ := parseDue(fb.due)

		if editID == "" {
			_, err := ts.AddItemToTemplate(ctx, templateID, templates.NewItem{
				Text:     fb.text,
				Category: &fb.category,
				Priority: &fb.priority,
				Assignee: &fb.assignee,
				DueDate:  due,
			})
			if err != nil {
				return ui.ErrorMsg{Op: "adding template item", Err: err, Attrs: []any{"template_id", templateID}}
			}
			return changedMsg{status: "Item added"}
		}

		if due == nil {
			due = &time.Time{}
		}
		_, err := ts.UpdateTemplateItem(ctx, editID, model.TemplateItemUpdate{
			Text:     &fb.text,
			Category: &fb.category,
			Priority: &fb.priority,
			Assignee: &fb.assignee,
			DueDate:  due,
		})
		if err != nil {
			return ui.ErrorMsg{Op: "updating template item", Err: err, Attrs: []any{"item_id", editID}}
		}
		return changedMsg{status: "Item saved"}
	}
}

func (m Model) rename() tea.Cmd {
	ts, id, title := m.templates, m.templateID, m.fb.title
	return func() tea.Msg {
		if err := ts.UpdateTemplate(context.Background(), id, title); err != nil {
			return ui.ErrorMsg{Op: "renaming template", Err: err, Attrs: []any{"template_id", id}}
		}
		return changedMsg{status: "Template renamed"}
	}
}

func (m Model) deleteItem(it model.TemplateItem) tea.Cmd {
	ts := m.templates
	return func() tea.Msg {
		if err := ts.DeleteTemplateItem(context.Background(), it.ID); err != nil {
			return ui.ErrorMsg{Op: "deleting template item", Err: err, Attrs: []any{"item_id", it.ID}}
		}
		return changedMsg{status: fmt.Sprintf("Deleted %q", it.Text)}
	}
}

// move swaps two neighbouring items and persists the new order.
func (m Model) move(from, to int) tea.Cmd {
	ids := make([]string, len(m.items))
	for i, it := range m.items {
		ids[i] = it.ID
	}
	ids[from], ids[to] = ids[to], ids[from]

	ts, templateID := m.templates, m.templateID
	return func() tea.Msg {
		if err := ts.ReorderTemplateItems(context.Background(), templateID, ids); err != nil {
			return ui.ErrorMsg{Op: "reordering template items", Err: err, Attrs: []any{"template_id", templateID}}
		}
		return changedMsg{}
	}
}

// View renders the editor.
func (m Model) View() string {
	if m.mode != modeBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder
	if m.template == nil {
		b.WriteString(m.styles.Dimmed.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	b.WriteString(m.styles.Title.Render(m.template.Title))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(m.styles.Dimmed.Italic(true).Render("No items yet. Press 'n' to add one."))
	}
	for i, it := range m.items {
		label := it.Text + m.details(it)
		if i == m.cursor {
			b.WriteString(m.styles.SelectedItem.Render(label))
		} else {
			b.WriteString(m.styles.ListItem.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) details(it model.TemplateItem) string {
	var parts []string
	if it.Priority != nil {
		parts = append(parts, m.styles.PriorityStyle(*it.Priority).Render(*it.Priority))
	}
	if it.Category != nil {
		parts = append(parts, m.styles.Dimmed.Render("#"+*it.Category))
	}
	if it.Assignee != nil {
		parts = append(parts, m.styles.Dimmed.Render("@"+*it.Assignee))
	}
	if it.DueDate != nil {
		parts = append(parts, m.styles.Dimmed.Render("due "+it.DueDate.Format(dueLayout)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }

func bindingsFor(it model.TemplateItem) formBindings {
	fb := formBindings{text: it.Text}
	if it.Category != nil {
		fb.category = *it.Category
	}
	if it.Priority != nil {
		fb.priority = *it.Priority
	}
	if it.Assignee != nil {
		fb.assignee = *it.Assignee
	}
	if it.DueDate != nil {
		fb.due = it.DueDate.Format(dueLayout)
	}
	return fb
}

func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dueLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func validDue(s string) error {
	if _, err := parseDue(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}
