package templatefile_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templatefile"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/testutil"
)

const sample = `templates:
  - title: Groceries
    items:
      - text: Milk
        category: dairy
      - text: Eggs
        priority: high
        due: 2025-07-01
  - title: Packing
`

func TestDecode(t *testing.T) {
	f, err := templatefile.Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Templates, 2)
	assert.Equal(t, "Groceries", f.Templates[0].Title)
	assert.Equal(t, "dairy", f.Templates[0].Items[0].Category)
	assert.Empty(t, f.Templates[1].Items)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := templatefile.Decode(strings.NewReader("templates:\n  - title: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	f, err := templatefile.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Templates)
}

func TestImportExport(t *testing.T) {
	ctx := context.Background()
	svc := templates.NewService(testutil.NewTestStore(t), templates.WithClock(testutil.NewTestClock()))

	f, err := templatefile.Decode(strings.NewReader(sample))
	require.NoError(t, err)

	created, err := templatefile.Import(ctx, svc, f)
	require.NoError(t, err)
	require.Len(t, created, 2)

	items, err := svc.GetTemplateItems(ctx, created[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Eggs", items[1].Text)
	require.NotNil(t, items[1].Priority)
	assert.Equal(t, model.PriorityHigh, *items[1].Priority)
	require.NotNil(t, items[1].DueDate)
	assert.True(t, items[1].DueDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	out, err := templatefile.Export(ctx, svc, created[0].ID)
	require.NoError(t, err)
	require.Len(t, out.Templates, 1)
	assert.Equal(t, f.Templates[0], out.Templates[0])

	var buf bytes.Buffer
	require.NoError(t, templatefile.Encode(&buf, out))
	again, err := templatefile.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	all, err := templatefile.Export(ctx, svc)
	require.NoError(t, err)
	assert.Len(t, all.Templates, 2)
}

func TestImport_BadDueDate(t *testing.T) {
	ctx := context.Background()
	svc := templates.NewService(testutil.NewTestStore(t))

	f := &templatefile.File{Templates: []templatefile.Template{
		{Title: "ok"},
		{Title: "bad", Items: []templatefile.Item{{Text: "x", Due: "tomorrow"}}},
	}}
	created, err := templatefile.Import(ctx, svc, f)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Len(t, created, 1)
}
