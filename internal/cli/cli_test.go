package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/cli"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/store"
)

type workspace struct {
	dir    string
	db     string
	config string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LISTLY_LOG_PATH", filepath.Join(dir, "listly.log"))
	return workspace{
		dir:    dir,
		db:     filepath.Join(dir, "listly.db"),
		config: filepath.Join(dir, "config.yaml"),
	}
}

func (w workspace) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", w.config, "--db", w.db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (w workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := w.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// lastField returns the final whitespace-separated token, which is where
// commands print the id they created.
func lastField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func TestTemplateLifecycle(t *testing.T) {
	w := newWorkspace(t)

	id := lastField(w.mustRun(t, "template", "new", "Groceries", "--item", "Milk", "--item", "Eggs"))
	require.NotEmpty(t, id)

	itemID := lastField(w.mustRun(t, "template", "add-item", id, "Bread", "--category", "bakery"))
	w.mustRun(t, "template", "edit-item", itemID, "--priority", "high", "--due", "2025-07-01")

	out := w.mustRun(t, "template", "items", id)
	assert.Contains(t, out, "Groceries (3 items)")
	assert.Contains(t, out, "bakery")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "2025-07-01")
	assert.Less(t, strings.Index(out, "Milk"), strings.Index(out, "Bread"))

	out = w.mustRun(t, "template", "ls")
	assert.Contains(t, out, "Groceries")

	w.mustRun(t, "template", "rename", id, "Weekly shop")
	assert.Contains(t, w.mustRun(t, "template", "ls"), "Weekly shop")

	w.mustRun(t, "template", "rm", id)
	assert.Contains(t, w.mustRun(t, "template", "ls"), "No templates found.")
}

func TestTemplateEditItemRejectsBadDate(t *testing.T) {
	w := newWorkspace(t)
	id := lastField(w.mustRun(t, "template", "new", "Trip", "--item", "Tickets"))
	out := w.mustRun(t, "template", "items", id)
	require.Contains(t, out, "Tickets")

	itemID := lastField(w.mustRun(t, "template", "add-item", id, "Hotel"))
	_, err := w.run(t, "", "template", "edit-item", itemID, "--due", "tomorrow")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestListFromTemplateWalk(t *testing.T) {
	w := newWorkspace(t)
	tplID := lastField(w.mustRun(t, "template", "new", "Groceries",
		"--item", "Milk", "--item", "Eggs", "--item", "Bread"))

	out, err := w.run(t, "y\nn\nmaybe\ny\n\n", "list", "from", tplID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "[1/3] Milk")
	assert.Contains(t, out, "Title [Groceries - ")
	listID := lastField(out)

	show := w.mustRun(t, "list", "show", listID)
	assert.Contains(t, show, "0/2")
	assert.Contains(t, show, "[ ] Milk")
	assert.Contains(t, show, "[ ] Bread")
	assert.NotContains(t, show, "Eggs")
	assert.Less(t, strings.Index(show, "Milk"), strings.Index(show, "Bread"))
}

func TestListFromTemplateWithTitleFlag(t *testing.T) {
	w := newWorkspace(t)
	tplID := lastField(w.mustRun(t, "template", "new", "Packing", "--item", "Socks"))

	out, err := w.run(t, "y\n", "list", "from", tplID, "--title", "Beach weekend")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "Title [")

	assert.Contains(t, w.mustRun(t, "list", "show", lastField(out)), "Beach weekend")
}

func TestListFromTemplateWithoutList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		stdin string
		want  string
	}{
		{"quit", []string{"--item", "a", "--item", "b"}, "y\nq\n", "Cancelled"},
		{"input ends", []string{"--item", "a"}, "", "Cancelled"},
		{"nothing kept", []string{"--item", "a", "--item", "b"}, "n\nn\n", "No Items"},
		{"empty template", nil, "", "No Items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			tplID := lastField(w.mustRun(t, append([]string{"template", "new", "T"}, tt.items...)...))

			out, err := w.run(t, tt.stdin, "list", "from", tplID)
			require.NoError(t, err, out)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, w.mustRun(t, "list", "ls"), "No lists found.")
		})
	}
}

func TestListFromTemplateRejectAllSkipsTitle(t *testing.T) {
	w := newWorkspace(t)
	tplID := lastField(w.mustRun(t, "template", "new", "T", "--item", "a", "--item", "b"))

	out, err := w.run(t, "n\nn\n", "list", "from", tplID)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No Items: nothing was kept")
	assert.NotContains(t, out, "Title [")
	assert.Contains(t, w.mustRun(t, "list", "ls"), "No lists found.")
}

func TestListItemCommands(t *testing.T) {
	w := newWorkspace(t)

	listID := lastField(w.mustRun(t, "list", "new", "Errands"))
	post := lastField(w.mustRun(t, "list", "add", listID, "Post office"))
	bank := lastField(w.mustRun(t, "list", "add", listID, "Bank"))

	w.mustRun(t, "list", "toggle", post)
	out := w.mustRun(t, "list", "show", listID)
	assert.Contains(t, out, "[x] Post office")
	assert.Contains(t, out, "[ ] Bank")
	assert.Contains(t, out, "1/2")

	w.mustRun(t, "list", "reorder", listID, bank)
	out = w.mustRun(t, "list", "show", listID)
	assert.Less(t, strings.Index(out, "Bank"), strings.Index(out, "Post office"))

	w.mustRun(t, "list", "rm-item", post)
	w.mustRun(t, "list", "rename", listID, "Saturday errands")
	w.mustRun(t, "list", "complete", listID)

	out = w.mustRun(t, "list", "ls", "--completed")
	assert.Contains(t, out, "Saturday errands")
	assert.Contains(t, out, "1/1")
	assert.Contains(t, w.mustRun(t, "list", "ls", "--active"), "No lists found.")

	w.mustRun(t, "list", "rm", listID)
	_, err := w.run(t, "", "list", "show", listID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListLsFilters(t *testing.T) {
	w := newWorkspace(t)
	tplID := lastField(w.mustRun(t, "template", "new", "Packing", "--item", "Socks"))

	fromTpl := lastField(w.mustRun(t, "list", "from", tplID, "--title", "Beach"))
	w.mustRun(t, "list", "new", "Errands")
	w.mustRun(t, "list", "new", "Chores")

	out := w.mustRun(t, "list", "ls", "--template", tplID)
	assert.Contains(t, out, fromTpl)
	assert.Contains(t, out, "Beach")
	assert.NotContains(t, out, "Errands")

	out = w.mustRun(t, "list", "ls", "--limit", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2, out)
}

func TestFailuresAreLogged(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "", "list", "show", "nope")
	require.ErrorIs(t, err, model.ErrNotFound)

	data, err := os.ReadFile(filepath.Join(w.dir, "listly.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "loading list failed")
	assert.Contains(t, string(data), "list_id=nope")
}

func TestToggleMissingItemIsNoop(t *testing.T) {
	w := newWorkspace(t)
	w.mustRun(t, "list", "toggle", "does-not-exist")
	w.mustRun(t, "list", "rm-item", "does-not-exist")
}

func TestExportImport(t *testing.T) {
	src := newWorkspace(t)
	id := lastField(src.mustRun(t, "template", "new", "Groceries", "--item", "Milk"))
	src.mustRun(t, "template", "add-item", id, "Eggs", "--assignee", "sam")

	file := filepath.Join(src.dir, "templates.yaml")
	src.mustRun(t, "template", "export", "-o", file)

	dst := newWorkspace(t)
	out := dst.mustRun(t, "template", "import", file)
	assert.Contains(t, out, "Groceries")

	newID := strings.Fields(out)[0]
	items := dst.mustRun(t, "template", "items", newID)
	assert.Contains(t, items, "Milk")
	assert.Contains(t, items, "sam")
}

func TestDatabaseLocked(t *testing.T) {
	w := newWorkspace(t)
	st, err := store.NewSQLiteStore(w.db)
	require.NoError(t, err)
	defer st.Close()

	_, err = w.run(t, "", "list", "ls")
	assert.ErrorIs(t, err, store.ErrLocked)
}
