// Package listview shows one checklist and lets the user tick, add,
// reorder and delete its items. Every change is written through the list
// engine and the screen reloads from storage afterwards.
package listview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRename
	modeConfirmComplete
	modeConfirmDelete
)

type loadedMsg struct {
	list  *model.UserList
	items []model.UserListItem
}

type changedMsg struct{ status string }

type deletedMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title   string
	confirm bool
}

// Model is the active list screen.
type Model struct {
	lists  *lists.Service
	keys   *keys.KeyMap
	styles theme.Styles

	listID string
	list   *model.UserList
	items  []model.UserListItem
	cursor int

	mode      mode
	input     textinput.Model
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	width     int
	height    int
}

// New creates the list screen.
func New(l *lists.Service, k *keys.KeyMap, styles theme.Styles, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "new item"
	ti.Prompt = "+ "
	ti.CharLimit = 200
	ti.Width = width - 8

	return Model{
		lists:  l,
		keys:   k,
		styles: styles,
		input:  ti,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Open switches to a list and loads it.
func (m *Model) Open(listID string) tea.Cmd {
	m.listID = listID
	m.list = nil
	m.items = nil
	m.cursor = 0
	m.mode = modeBrowse
	m.statusMsg = ""
	m.input.Reset()
	m.input.Blur()
	return m.load()
}

// Busy reports whether an input or form has focus.
func (m Model) Busy() bool { return m.mode != modeBrowse }

func (m Model) load() tea.Cmd {
	ls, id := m.lists, m.listID
	return func() tea.Msg {
		ctx := context.Background()
		l, err := ls.GetListByID(ctx, id)
		if err != nil {
			return ui.ErrorMsg{Op: "loading list", Err: err, Attrs: []any{"list_id", id}}
		}
		items, err := ls.GetListItems(ctx, id)
		if err != nil {
			return ui.ErrorMsg{Op: "loading list items", Err: err, Attrs: []any{"list_id", id}}
		}
		return loadedMsg{list: l, items: items}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.list = msg.list
		m.items = msg.items
		m.cursor = ui.Clamp(m.cursor, len(m.items))
		return m, nil

	case changedMsg:
		if msg.status != "" {
			m.statusMsg = msg.status
		}
		return m, m.load()

	case deletedMsg:
		return m, ui.Back

	case ui.ErrorMsg:
		m.mode = modeBrowse
		m.statusMsg = ui.Describe(msg.Err)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeBrowse:
			return m.handleKey(msg)
		case modeAdd:
			return m.handleAddKey(msg)
		}
	}

	if m.mode == modeAdd {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
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

	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Select):
		if n == 0 {
			return m, nil
		}
		return m, m.toggle(m.items[m.cursor].ID)

	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.New):
		m.mode = modeAdd
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

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

	case key.Matches(msg, m.keys.Rename):
		if m.list == nil {
			return m, nil
		}
		m.fb.title = m.list.Title
		m.form = m.buildRenameForm()
		m.mode = modeRename
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Complete):
		if m.list == nil {
			return m, nil
		}
		m.fb.confirm = false
		m.form = m.buildConfirmForm(
			fmt.Sprintf("Complete %q?", m.list.Title),
			"Every remaining item is ticked and the list moves to Completed.",
			"Complete",
		)
		m.mode = modeConfirmComplete
		return m, m.form.Init()

	case msg.String() == "D":
		if m.list == nil {
			return m, nil
		}
		m.fb.confirm = false
		m.form = m.buildConfirmForm(
			fmt.Sprintf("Delete %q?", m.list.Title),
			"The list and all of its items are removed.",
			"Yes, delete",
		)
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if text == "" {
			m.mode = modeBrowse
			m.input.Blur()
			return m, nil
		}
		// Stay in add mode so several items can be entered in a row.
		m.cursor = len(m.items)
		return m, m.addItem(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
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
		case modeRename:
			return m, m.rename(m.fb.title)
		case modeConfirmComplete:
			if m.fb.confirm {
				return m, m.complete()
			}
		case modeConfirmDelete:
			if m.fb.confirm {
				return m, m.deleteList()
			}
		}
		return m, nil
	}
	return m, cmd
}

func (m Model) buildRenameForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("List name").
				Value(&m.fb.title).
				Validate(ui.Required("name")),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) buildConfirmForm(title, desc, yes string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Affirmative(yes).
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height))
}

func (m Model) toggle(itemID string) tea.Cmd {
	ls := m.lists
	return func() tea.Msg {
		if err := ls.ToggleListItem(context.Background(), itemID); err != nil {
			return ui.ErrorMsg{Op: "toggling list item", Err: err, Attrs: []any{"item_id", itemID}}
		}
		return changedMsg{}
	}
}

func (m Model) addItem(text string) tea.Cmd {
	ls, id := m.lists, m.listID
	return func() tea.Msg {
		if _, err := ls.AddItemToList(context.Background(), id, text, nil); err != nil {
			return ui.ErrorMsg{Op: "adding list item", Err: err, Attrs: []any{"list_id", id}}
		}
		return changedMsg{}
	}
}

func (m Model) deleteItem(it model.UserListItem) tea.Cmd {
	ls := m.lists
	return func() tea.Msg {
		if err := ls.DeleteListItem(context.Background(), it.ID); err != nil {
			return ui.ErrorMsg{Op: "deleting list item", Err: err, Attrs: []any{"item_id", it.ID}}
		}
		return changedMsg{status: fmt.Sprintf("Deleted %q", it.Text)}
	}
}

func (m Model) move(from, to int) tea.Cmd {
	ids := make([]string, len(m.items))
	for i, it := range m.items {
		ids[i] = it.ID
	}
	ids[from], ids[to] = ids[to], ids[from]

	ls, listID := m.lists, m.listID
	return func() tea.Msg {
		if err := ls.ReorderListItems(context.Background(), listID, ids); err != nil {
			return ui.ErrorMsg{Op: "reordering list items", Err: err, Attrs: []any{"list_id", listID}}
		}
		return changedMsg{}
	}
}

func (m Model) rename(title string) tea.Cmd {
	ls, id := m.lists, m.listID
	return func() tea.Msg {
		if err := ls.RenameList(context.Background(), id, title); err != nil {
			return ui.ErrorMsg{Op: "renaming list", Err: err, Attrs: []any{"list_id", id}}
		}
		return changedMsg{status: "List renamed"}
	}
}

func (m Model) complete() tea.Cmd {
	ls, id := m.lists, m.listID
	return func() tea.Msg {
		if err := ls.CompleteList(context.Background(), id); err != nil {
			return ui.ErrorMsg{Op: "completing list", Err: err, Attrs: []any{"list_id", id}}
		}
		return changedMsg{status: "List completed"}
	}
}

func (m Model) deleteList() tea.Cmd {
	ls, id := m.lists, m.listID
	return func() tea.Msg {
		if err := ls.DeleteList(context.Background(), id); err != nil {
			return ui.ErrorMsg{Op: "deleting list", Err: err, Attrs: []any{"list_id", id}}
		}
		return deletedMsg{}
	}
}

// View renders the list screen.
func (m Model) View() string {
	if (m.mode == modeRename || m.mode == modeConfirmComplete || m.mode == modeConfirmDelete) && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder
	if m.list == nil {
		b.WriteString(m.styles.Dimmed.Render("Loading..."))
		if m.statusMsg != "" {
			b.WriteString("\n\n" + m.styles.Status.Render(m.statusMsg))
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	p := model.ListProgress(m.items)
	title := m.list.Title
	if m.list.IsCompleted() {
		title += "  ✓"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.ProgressStyle(p).Render(progressBar(p, 20)))
	b.WriteString("\n\n")

	if len(m.items) == 0 && m.mode != modeAdd {
		b.WriteString(m.styles.Dimmed.Italic(true).Render("This list is empty. Press 'a' to add an item."))
	}
	for i, it := range m.items {
		box := "[ ]"
		text := it.Text
		if it.IsCompleted {
			box = "[x]"
			text = m.styles.Done.Render(text)
		}
		label := box + " " + text
		if i == m.cursor && m.mode == modeBrowse {
			b.WriteString(m.styles.SelectedItem.Render(label))
		} else {
			b.WriteString(m.styles.ListItem.Render(label))
		}
		b.WriteString("\n")
	}

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Status.Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
}

// progressBar renders "████░░░░ 3/8".
func progressBar(p model.Progress, width int) string {
	filled := 0
	if p.Total > 0 {
		filled = p.Completed * width / p.Total
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		fmt.Sprintf(" %d/%d", p.Completed, p.Total)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 8
}

// SetStyles swaps the theme.
func (m *Model) SetStyles(s theme.Styles) { m.styles = s }
