// Package home is the landing screen: active lists, templates and
// completed lists, one section at a time.
package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

// Section is one of the home screen tabs.
type Section int

const (
	SectionActive Section = iota
	SectionTemplates
	SectionCompleted
)

var sectionNames = []string{"Active", "Templates", "Completed"}

func (s Section) String() string { return sectionNames[s] }

type mode int

const (
	modeBrowse mode = iota
	modeNewTemplate
	modeNewList
	modeConfirmDelete
)

// ListRow is a list with its completion counts.
type ListRow struct {
	List     model.UserList
	Progress model.Progress
}

// TemplateRow is a template with its item count.
type TemplateRow struct {
	Template model.Template
	Items    int
}

// LoadedMsg carries everything the home screen shows.
type LoadedMsg struct {
	Active    []ListRow
	Completed []ListRow
	Templates []TemplateRow
}

type changedMsg struct{ status string }

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title   string
	items   string
	confirm bool
}

// Model is the home screen.
type Model struct {
	lists     *lists.Service
	templates *templates.Service
	keys      *keys.KeyMap
	styles    theme.Styles

	section   Section
	cursor    [3]int
	active    []ListRow
	completed []ListRow
	tmpls     []TemplateRow
	loaded    bool

	mode      mode
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	width     int
	height    int
}

// New creates the home screen.
func New(l *lists.Service, t *templates.Service, k *keys.KeyMap, styles theme.Styles, width, height int) Model {
	return Model{
		lists:     l,
		templates: t,
		keys:      k,
		styles:    styles,
		fb:        &formBindings{},
		width:     width,
		height:    height,
	}
}

// Init loads the screen.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load reads lists and templates from storage.
func (m Model) Load() tea.Cmd {
	ls, ts := m.lists, m.templates
	return func() tea.Msg {
		ctx := context.Background()
		var msg LoadedMsg

		all, err := ls.GetAllLists(ctx)
		if err != nil {
			return ui.ErrorMsg{Op: "loading lists", Err: err}
		}
		for _, l := range all {
			items, err := ls.GetListItems(ctx, l.ID)
			if err != nil {
				return ui.ErrorMsg{Op: "loading list items", Err: err, Attrs: []any{"list_id", l.ID}}
			}
			row := ListRow{List: l, Progress: model.ListProgress(items)}
			if l.IsCompleted() {
				msg.Completed = append(msg.Completed, row)
			} else {
				msg.Active = append(msg.Active, row)
			}
		}

		tmpls, err := ts.GetAllTemplates(ctx)
		if err != nil {
			return ui.ErrorMsg{Op: "loading templates", Err: err}
		}
		for _, t := range tmpls {
			items, err := ts.GetTemplateItems(ctx, t.ID)
			if err != nil {
				return ui.ErrorMsg{Op: "loading template items", Err: err, Attrs: []any{"template_id", t.ID}}
			}
			msg.Templates = append(msg.Templates, TemplateRow{Template: t, Items: len(items)})
		}
		return msg
	}
}

// Section returns the visible section.
func (m Model) Section() Section { return m.section }

// Busy reports whether a form has focus, so global keys should not fire.
func (m Model) Busy() bool { return m.mode != modeBrowse }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.active, m.completed, m.tmpls = msg.Active, msg.Completed, msg.Templates
		m.loaded = true
		for s := range m.cursor {
			m.cursor[s] = ui.Clamp(m.cursor[s], m.count(Section(s)))
		}
		return m, nil

	case changedMsg:
		m.statusMsg = msg.status
		m.mode = modeBrowse
		return m, m.Load()

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
	n := m.count(m.section)
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.section = (m.section + 1) % 3
		m.statusMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor[m.section] = ui.Step(m.cursor[m.section], 1, n)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.cursor[m.section] = ui.Step(m.cursor[m.section], -1, n)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if n == 0 {
			return m, nil
		}
		if m.section == SectionTemplates {
			id := m.tmpls[m.cursor[m.section]].Template.ID
			return m, func() tea.Msg { return ui.OpenTemplateMsg{TemplateID: id} }
		}
		id := m.selectedList().List.ID
		return m, func() tea.Msg { return ui.OpenListMsg{ListID: id} }

	case key.Matches(msg, m.keys.StartSwipe):
		if m.section != SectionTemplates || n == 0 {
			return m, nil
		}
		id := m.tmpls[m.cursor[m.section]].Template.ID
		return m, func() tea.Msg { return ui.StartSwipeMsg{TemplateID: id} }

	case key.Matches(msg, m.keys.New):
		cmd := m.StartNewTemplate()
		return m, cmd

	case key.Matches(msg, m.keys.Custom):
		cmd := m.StartNewList()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if n == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.form = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

// StartNewTemplate opens the new template form.
func (m *Model) StartNewTemplate() tea.Cmd {
	m.fb.title, m.fb.items = "", ""
	m.form = m.buildTemplateForm()
	m.mode = modeNewTemplate
	return m.form.Init()
}

// StartNewList opens the custom list form.
func (m *Model) StartNewList() tea.Cmd {
	m.fb.title = ""
	m.form = m.buildListForm()
	m.mode = modeNewList
	return m.form.Init()
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
		switch done {
		case modeNewTemplate:
			return m, m.createTemplate()
		case modeNewList:
			return m, m.createList()
		case modeConfirmDelete:
			if m.fb.confirm {
				return m, m.deleteSelected()
			}
		}
		return m, nil
	}
	return m, cmd
}

func (m Model) buildTemplateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template name").
				Placeholder("Groceries").
				Value(&m.fb.title).
				Validate(ui.Required("name")),
			huh.NewText().
				Title("Items").
				Description("One per line. You can add details later.").
				Value(&m.fb.items),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) buildListForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("List name").
				Placeholder("Weekend errands").
				Value(&m.fb.title).
				Validate(ui.Required("name")),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) buildConfirmForm() *huh.Form {
	title, desc := "", ""
	if m.section == SectionTemplates {
		t := m.tmpls[m.cursor[m.section]].Template
		title = fmt.Sprintf("Delete template %q?", t.Title)
		desc = "Its items are deleted too. Lists made from it are kept."
	} else {
		l := m.selectedList().List
		title = fmt.Sprintf("Delete list %q?", l.Title)
		desc = "All of its items are deleted."
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) createTemplate() tea.Cmd {
	ts := m.templates
	title := m.fb.title
	var items []templates.NewItem
	for _, line := range strings.Split(m.fb.items, "\n") {
		if text := strings.TrimSpace(line); text != "" {
			items = append(items, templates.NewItem{Text: text})
		}
	}
	return func() tea.Msg {
		t, _, err := ts.CreateTemplateWithItems(context.Background(), title, items)
		if err != nil {
			return ui.ErrorMsg{Op: "creating template", Err: err}
		}
		return changedMsg{status: fmt.Sprintf("Template %q created", t.Title)}
	}
}

func (m Model) createList() tea.Cmd {
	ls := m.lists
	title := m.fb.title
	return func() tea.Msg {
		l, err := ls.CreateCustomList(context.Background(), title)
		if err != nil {
			return ui.ErrorMsg{Op: "creating list", Err: err}
		}
		return ui.OpenListMsg{ListID: l.ID}
	}
}

func (m Model) deleteSelected() tea.Cmd {
	if m.section == SectionTemplates {
		ts := m.templates
		t := m.tmpls[m.cursor[m.section]].Template
		return func() tea.Msg {
			if err := ts.DeleteTemplate(context.Background(), t.ID); err != nil {
				return ui.ErrorMsg{Op: "deleting template", Err: err, Attrs: []any{"template_id", t.ID}}
			}
			return changedMsg{status: fmt.Sprintf("Template %q deleted", t.Title)}
		}
	}
	ls := m.lists
	l := m.selectedList().List
	return func() tea.Msg {
		if err := ls.DeleteList(context.Background(), l.ID); err != nil {
			return ui.ErrorMsg{Op: "deleting list", Err: err, Attrs: []any{"list_id", l.ID}}
		}
		return changedMsg{status: fmt.Sprintf("List %q deleted", l.Title)}
	}
}

func (m Model) selectedList() ListRow {
	if m.section == SectionCompleted {
		return m.completed[m.cursor[m.section]]
	}
	return m.active[m.cursor[m.section]]
}

func (m Model) count(s Section) int {
	switch s {
	case SectionActive:
		return len(m.active)
	case SectionTemplates:
		return len(m.tmpls)
	default:
		return len(m.completed)
	}
}

// View renders the home screen.
func (m Model) View() string {
	if m.mode != modeBrowse && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(m.styles.Dimmed.Render("Loading..."))
	} else if m.count(m.section) == 0 {
		b.WriteString(m.styles.Dimmed.Italic(true).Render(m.emptyText()))
	} else {
		b.WriteString(m.renderRows())
	}

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Status.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(sectionNames))
	for i, name := range sectionNames {
		label := fmt.Sprintf(" %s (%d) ", name, m.count(Section(i)))
		if Section(i) == m.section {
			tabs[i] = m.styles.Header.Render(label)
		} else {
			tabs[i] = m.styles.Dimmed.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderRows() string {
	var rows []string
	cursor := m.cursor[m.section]
	switch m.section {
	case SectionTemplates:
		for i, t := range m.tmpls {
			label := fmt.Sprintf("%s  %s", t.Template.Title,
				m.styles.Dimmed.Render(fmt.Sprintf("%d items", t.Items)))
			rows = append(rows, m.row(label, i == cursor))
		}
	default:
		src := m.active
		if m.section == SectionCompleted {
			src = m.completed
		}
		for i, r := range src {
			counter := m.styles.ProgressStyle(r.Progress).
				Render(fmt.Sprintf("%d/%d", r.Progress.Completed, r.Progress.Total))
			label := fmt.Sprintf("%s  %s", r.List.Title, counter)
			rows = append(rows, m.row(label, i == cursor))
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) row(label string, selected bool) string {
	if selected {
		return m.styles.SelectedItem.Render(label)
	}
	return m.styles.ListItem.Render(label)
}

func (m Model) emptyText() string {
	switch m.section {
	case SectionActive:
		return "No active lists. Pick a template and press 's', or 'c' for a custom list."
	case SectionTemplates:
		return "No templates yet. Press 'n' to create one."
	default:
		return "Nothing completed yet."
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }
