package templates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
	"github.com/nhle/listly/internal/testutil"
)

func newService(t *testing.T) *templates.Service {
	t.Helper()
	return templates.NewService(testutil.NewTestStore(t), templates.WithClock(testutil.NewTestClock()))
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func itemTexts(items []model.TemplateItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestCreateTemplateWithItems(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, items, err := svc.CreateTemplateWithItems(ctx, " Groceries ", []templates.NewItem{
		{Text: "Milk", Category: strPtr("dairy")},
		{Text: "Eggs", Priority: strPtr(model.PriorityHigh)},
		{Text: "Bread", Category: strPtr("  ")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", tpl.Title)
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, i, it.SortOrder)
		assert.Equal(t, tpl.ID, it.TemplateID)
	}
	assert.Nil(t, items[2].Category, "blank optional fields are stored as null")

	got, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Milk", "Eggs", "Bread"}, itemTexts(got))
	require.NotNil(t, got[0].Category)
	assert.Equal(t, "dairy", *got[0].Category)
}

func TestCreateTemplateWithItems_ExplicitOrders(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, _, err := svc.CreateTemplateWithItems(ctx, "T", []templates.NewItem{
		{Text: "c", Order: intPtr(5)},
		{Text: "a", Order: intPtr(0)},
		{Text: "d"},
	})
	require.NoError(t, err)

	got, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, itemTexts(got))
	assert.Equal(t, 6, got[2].SortOrder)
}

func TestCreateTemplate_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tests := []struct {
		name  string
		title string
		items []templates.NewItem
	}{
		{name: "blank title", title: " "},
		{name: "blank item", title: "T", items: []templates.NewItem{{Text: ""}}},
		{name: "bad priority", title: "T", items: []templates.NewItem{{Text: "x", Priority: strPtr("urgent")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateTemplateWithItems(ctx, tt.title, tt.items)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	all, err := svc.GetAllTemplates(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddItemToTemplate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, err := svc.CreateTemplate(ctx, "T")
	require.NoError(t, err)

	first, err := svc.AddItemToTemplate(ctx, tpl.ID, templates.NewItem{Text: "one"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)

	pinned, err := svc.AddItemToTemplate(ctx, tpl.ID, templates.NewItem{Text: "pinned", Order: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, pinned.SortOrder)

	next, err := svc.AddItemToTemplate(ctx, tpl.ID, templates.NewItem{Text: "next"})
	require.NoError(t, err)
	assert.Equal(t, 8, next.SortOrder)

	_, err = svc.AddItemToTemplate(ctx, "missing", templates.NewItem{Text: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateTemplate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, err := svc.CreateTemplate(ctx, "Old")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateTemplate(ctx, tpl.ID, "New"))

	got, err := svc.GetTemplateByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.UpdatedAt.After(tpl.UpdatedAt))

	assert.ErrorIs(t, svc.UpdateTemplate(ctx, "missing", "x"), model.ErrNotFound)
}

func TestUpdateTemplateItem(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, items, err := svc.CreateTemplateWithItems(ctx, "T", []templates.NewItem{
		{Text: "x", Category: strPtr("home"), Assignee: strPtr("sam")},
	})
	require.NoError(t, err)
	id := items[0].ID

	due := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateTemplateItem(ctx, id, model.TemplateItemUpdate{
		Text:     strPtr("y"),
		Category: strPtr(""),
		Priority: strPtr(model.PriorityLow),
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "y", updated.Text)
	assert.Nil(t, updated.Category)
	require.NotNil(t, updated.Assignee, "untouched fields are kept")
	assert.Equal(t, "sam", *updated.Assignee)

	got, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "y", got[0].Text)
	require.NotNil(t, got[0].Priority)
	assert.Equal(t, model.PriorityLow, *got[0].Priority)
	require.NotNil(t, got[0].DueDate)
	assert.True(t, got[0].DueDate.Equal(due))

	cleared, err := svc.UpdateTemplateItem(ctx, id, model.TemplateItemUpdate{DueDate: &time.Time{}})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	_, err = svc.UpdateTemplateItem(ctx, id, model.TemplateItemUpdate{Text: strPtr(" ")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateTemplateItem(ctx, "missing", model.TemplateItemUpdate{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteTemplateItem(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, items, err := svc.CreateTemplateWithItems(ctx, "T", []templates.NewItem{{Text: "a"}, {Text: "b"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplateItem(ctx, items[0].ID))
	require.NoError(t, svc.DeleteTemplateItem(ctx, items[0].ID), "deleting twice is a no-op")

	got, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, itemTexts(got))
}

func TestDeleteTemplate_KeepsInstantiatedLists(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	clock := testutil.NewTestClock()
	svc := templates.NewService(st, templates.WithClock(clock))
	engine := lists.NewService(st, lists.WithClock(clock))

	tpl, items, err := svc.CreateTemplateWithItems(ctx, "T", []templates.NewItem{{Text: "a"}, {Text: "b"}})
	require.NoError(t, err)
	list, err := engine.CreateListFromTemplate(ctx, tpl.ID, "L", []string{items[0].ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTemplate(ctx, tpl.ID))

	_, err = svc.GetTemplateByID(ctx, tpl.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	remaining, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	listItems, err := engine.GetListItems(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, listItems, 1)
	assert.Equal(t, "a", listItems[0].Text)

	assert.ErrorIs(t, svc.DeleteTemplate(ctx, tpl.ID), model.ErrNotFound)
}

func TestReorderTemplateItems(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tpl, items, err := svc.CreateTemplateWithItems(ctx, "T", []templates.NewItem{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.ReorderTemplateItems(ctx, tpl.ID, []string{items[2].ID, items[1].ID, items[0].ID}))
	got, err := svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, itemTexts(got))
	for i, it := range got {
		assert.Equal(t, i, it.SortOrder)
	}

	err = svc.ReorderTemplateItems(ctx, tpl.ID, []string{"foreign"})
	assert.ErrorIs(t, err, model.ErrNotFound)

	got, err = svc.GetTemplateItems(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, itemTexts(got), "failed reorder changes nothing")
}

func TestGetAllTemplates_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.CreateTemplate(ctx, "A")
	require.NoError(t, err)
	b, err := svc.CreateTemplate(ctx, "B")
	require.NoError(t, err)

	all, err := svc.GetAllTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)

	require.NoError(t, svc.UpdateTemplate(ctx, a.ID, "A2"))
	all, err = svc.GetAllTemplates(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, all[0].ID)
}
