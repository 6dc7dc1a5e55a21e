package home

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/testutil"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

type fixture struct {
	lists     *lists.Service
	templates *templates.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := testutil.NewTestClock()
	return fixture{
		lists:     lists.NewService(st, lists.WithClock(clock)),
		templates: templates.NewService(st, templates.WithClock(clock)),
	}
}

func (f fixture) model(t *testing.T) Model {
	t.Helper()
	m := New(f.lists, f.templates, keys.DefaultKeyMap(), theme.New("light"), 100, 30)
	msg := m.Load()()
	_, isErr := msg.(ui.ErrorMsg)
	require.False(t, isErr, "load failed: %v", msg)
	m, _ = m.Update(msg)
	return m
}

func press(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadSplitsListsBySection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	open, err := f.lists.CreateCustomList(ctx, "Errands")
	require.NoError(t, err)
	_, err = f.lists.AddItemToList(ctx, open.ID, "Bank", nil)
	require.NoError(t, err)
	done, err := f.lists.CreateCustomList(ctx, "Laundry")
	require.NoError(t, err)
	require.NoError(t, f.lists.CompleteList(ctx, done.ID))
	_, _, err = f.templates.CreateTemplateWithItems(ctx, "Groceries", []templates.NewItem{{Text: "Milk"}})
	require.NoError(t, err)

	m := f.model(t)
	require.Len(t, m.active, 1)
	require.Len(t, m.completed, 1)
	require.Len(t, m.tmpls, 1)
	assert.Equal(t, "Errands", m.active[0].List.Title)
	assert.Equal(t, 1, m.active[0].Progress.Total)
	assert.Equal(t, 1, m.tmpls[0].Items)

	view := m.View()
	assert.Contains(t, view, "Active (1)")
	assert.Contains(t, view, "Templates (1)")
	assert.Contains(t, view, "Completed (1)")
	assert.Contains(t, view, "Errands")
}

func TestSelectEmitsNavigation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l, err := f.lists.CreateCustomList(ctx, "Errands")
	require.NoError(t, err)
	tpl, err := f.templates.CreateTemplate(ctx, "Packing")
	require.NoError(t, err)

	m := f.model(t)

	_, cmd := m.Update(press("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.OpenListMsg{ListID: l.ID}, cmd())

	_, cmd = m.Update(press("s"))
	assert.Nil(t, cmd, "swipe only starts from the templates section")

	m, _ = m.Update(press("tab"))
	assert.Equal(t, SectionTemplates, m.Section())

	_, cmd = m.Update(press("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.OpenTemplateMsg{TemplateID: tpl.ID}, cmd())

	_, cmd = m.Update(press("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.StartSwipeMsg{TemplateID: tpl.ID}, cmd())
}

func TestTabCyclesSections(t *testing.T) {
	m := newFixture(t).model(t)
	for _, want := range []Section{SectionTemplates, SectionCompleted, SectionActive} {
		m, _ = m.Update(press("tab"))
		assert.Equal(t, want, m.Section())
	}
}

func TestFormsMakeScreenBusy(t *testing.T) {
	m := newFixture(t).model(t)
	require.False(t, m.Busy())

	m, _ = m.Update(press("n"))
	assert.True(t, m.Busy())

	m.mode = modeBrowse
	m, _ = m.Update(press("c"))
	assert.True(t, m.Busy())
}

func TestErrorShowsStatus(t *testing.T) {
	m := newFixture(t).model(t)
	m, _ = m.Update(ui.ErrorMsg{Op: "loading lists", Err: assert.AnError})
	assert.Contains(t, m.View(), assert.AnError.Error())
}
