package editor

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/keys"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/testutil"
	"github.com/nhle/listly/internal/theme"
	"github.com/nhle/listly/internal/ui"
)

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if _, ok := msg.(ui.ErrorMsg); ok {
			t.Fatalf("unexpected error: %v", msg)
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func setup(t *testing.T, texts ...string) (Model, *templates.Service, string) {
	t.Helper()
	svc := templates.NewService(testutil.NewTestStore(t), templates.WithClock(testutil.NewTestClock()))
	items := make([]templates.NewItem, len(texts))
	for i, text := range texts {
		items[i] = templates.NewItem{Text: text}
	}
	tpl, _, err := svc.CreateTemplateWithItems(context.Background(), "Packing", items)
	require.NoError(t, err)

	m := New(svc, keys.DefaultKeyMap(), theme.New("dark"), 100, 30)
	cmd := m.Open(tpl.ID)
	return drain(t, m, cmd), svc, tpl.ID
}

func press(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func itemTexts(t *testing.T, svc *templates.Service, id string) []string {
	t.Helper()
	items, err := svc.GetTemplateItems(context.Background(), id)
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestOpenShowsItems(t *testing.T) {
	m, _, _ := setup(t, "Socks", "Charger")
	view := m.View()
	assert.Contains(t, view, "Packing")
	assert.Contains(t, view, "Socks")
	assert.Contains(t, view, "Charger")
}

func TestMoveItems(t *testing.T) {
	m, svc, id := setup(t, "a", "b", "c")

	m, cmd := m.Update(press("J"))
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"b", "a", "c"}, itemTexts(t, svc, id))

	m, cmd = m.Update(press("K"))
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"a", "b", "c"}, itemTexts(t, svc, id))
	assert.Equal(t, 0, m.cursor)

	_, cmd = m.Update(press("K"))
	assert.Nil(t, cmd)
}

func TestDeleteItem(t *testing.T) {
	m, svc, id := setup(t, "a", "b")

	m, cmd := m.Update(press("d"))
	m = drain(t, m, cmd)
	assert.Equal(t, []string{"b"}, itemTexts(t, svc, id))
	assert.Contains(t, m.View(), "b")
}

func TestSwipeAndBack(t *testing.T) {
	m, _, id := setup(t, "a")

	_, cmd := m.Update(press("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.StartSwipeMsg{TemplateID: id}, cmd())

	_, cmd = m.Update(press("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, ui.BackMsg{}, cmd())
}

func TestMissingTemplateReportsNotFound(t *testing.T) {
	svc := templates.NewService(testutil.NewTestStore(t))
	m := New(svc, keys.DefaultKeyMap(), theme.New("dark"), 100, 30)

	msg := m.Open("missing")()
	errMsg, ok := msg.(ui.ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, model.ErrNotFound)
}

func TestParseDue(t *testing.T) {
	d, err := parseDue("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDue("2025-07-04")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 4, d.Day())

	assert.Error(t, validDue("July 4"))
	assert.NoError(t, validDue(""))
}
