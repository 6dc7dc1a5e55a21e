package app_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/app"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/testutil"
	"github.com/nhle/listly/internal/ui"
	"github.com/nhle/listly/internal/ui/command"
)

type harness struct {
	lists     *lists.Service
	templates *templates.Service
	logs      *bytes.Buffer
	model     app.Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := testutil.NewTestClock()
	h := &harness{
		lists:     lists.NewService(st, lists.WithClock(clock)),
		templates: templates.NewService(st, templates.WithClock(clock)),
		logs:      &bytes.Buffer{},
	}
	h.model = app.New(app.Deps{
		Lists:      h.lists,
		Templates:  h.templates,
		Config:     *model.DefaultAppConfig(),
		ConfigPath: t.TempDir() + "/config.yaml",
		Logger:     slog.New(slog.NewTextHandler(h.logs, nil)),
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(app.Model)
	return cmd
}

func (h *harness) runes(s string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestErrorMsgIsLogged(t *testing.T) {
	h := newHarness(t)

	h.send(ui.ErrorMsg{
		Op:    "toggling list item",
		Err:   model.NotFoundf("list item %s", "abc"),
		Attrs: []any{"item_id", "abc"},
	})

	out := h.logs.String()
	assert.Contains(t, out, "toggling list item failed")
	assert.Contains(t, out, "item_id=abc")
	assert.Contains(t, out, "level=ERROR")
}

func TestNavigationMessages(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, app.ViewHome, h.model.CurrentView())

	h.send(ui.OpenListMsg{ListID: "missing"})
	assert.Equal(t, app.ViewList, h.model.CurrentView())

	h.send(ui.BackMsg{})
	assert.Equal(t, app.ViewHome, h.model.CurrentView())

	h.send(ui.OpenTemplateMsg{TemplateID: "missing"})
	assert.Equal(t, app.ViewEditor, h.model.CurrentView())
}

func TestGlobalKeys(t *testing.T) {
	h := newHarness(t)

	h.runes("?")
	assert.Equal(t, app.ViewHelp, h.model.CurrentView())
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.ViewHome, h.model.CurrentView())

	h.runes(":")
	assert.Equal(t, app.ViewCommand, h.model.CurrentView())
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.ViewHome, h.model.CurrentView())

	cmd := h.runes("q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestQuitKeyOnlyFromHome(t *testing.T) {
	h := newHarness(t)
	h.send(ui.OpenListMsg{ListID: "missing"})

	cmd := h.runes("q")
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.Equal(t, app.ViewList, h.model.CurrentView())
}

func TestCommandPalette(t *testing.T) {
	h := newHarness(t)

	h.runes(":")
	h.send(command.CommandMsg("settings"))
	assert.Equal(t, app.ViewSettings, h.model.CurrentView())
}

func TestSwipeBuildsList(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tpl, _, err := h.templates.CreateTemplateWithItems(ctx, "Groceries", []templates.NewItem{
		{Text: "Milk"}, {Text: "Eggs"}, {Text: "Bread"},
	})
	require.NoError(t, err)

	load := h.send(ui.StartSwipeMsg{TemplateID: tpl.ID})
	require.Equal(t, app.ViewSwipe, h.model.CurrentView())
	require.NotNil(t, load)
	h.send(load())

	h.runes("y")
	h.runes("n")
	h.runes("y")

	done := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, done)
	opened, ok := done().(ui.OpenListMsg)
	require.True(t, ok)

	h.send(opened)
	assert.Equal(t, app.ViewList, h.model.CurrentView())

	items, err := h.lists.GetListItems(ctx, opened.ListID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Text)
	assert.Equal(t, "Bread", items[1].Text)
	assert.Contains(t, h.logs.String(), "list created from template")
}

func TestSwipeCancelWritesNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	tpl, _, err := h.templates.CreateTemplateWithItems(ctx, "Packing", []templates.NewItem{{Text: "Socks"}})
	require.NoError(t, err)

	load := h.send(ui.StartSwipeMsg{TemplateID: tpl.ID})
	h.send(load())

	back := h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, back)
	h.send(back())
	assert.Equal(t, app.ViewHome, h.model.CurrentView())

	all, err := h.lists.GetAllLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
