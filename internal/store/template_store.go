package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/listly/internal/model"
)

const templateColumns = "id, title, created_at, updated_at"

const templateItemColumns = `id, template_id, text, sort_order,
	category, priority, assignee, due_date, created_at`

// GetTemplate retrieves a single template by ID.
func (q queries) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	var t model.Template
	err := q.get(ctx, &t, "getting template "+id, notFoundWhat("template", id),
		"SELECT "+templateColumns+" FROM templates WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	normalizeTemplate(&t)
	return &t, nil
}

// ListTemplates returns all templates, most recently updated first.
func (q queries) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var templates []model.Template
	err := sqlx.SelectContext(ctx, q.ext, &templates,
		"SELECT "+templateColumns+" FROM templates ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, storageErr("querying templates", err)
	}
	for i := range templates {
		normalizeTemplate(&templates[i])
	}
	return templates, nil
}

// InsertTemplate inserts a new template row.
func (q queries) InsertTemplate(ctx context.Context, t model.Template) error {
	_, err := q.ext.ExecContext(ctx, `
		INSERT INTO templates (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.Title, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return storageErr("creating template", err)
	}
	return nil
}

// UpdateTemplateTitle renames a template and bumps updated_at.
func (q queries) UpdateTemplateTitle(ctx context.Context, id, title string, updatedAt time.Time) error {
	return q.execOne(ctx, "updating template "+id, notFoundWhat("template", id),
		"UPDATE templates SET title = ?, updated_at = ? WHERE id = ?",
		title, updatedAt.UTC(), id)
}

// DeleteTemplate removes a template row. Its items must be removed first
// (or are removed by the ON DELETE CASCADE backstop).
func (q queries) DeleteTemplate(ctx context.Context, id string) error {
	return q.execOne(ctx, "deleting template "+id, notFoundWhat("template", id),
		"DELETE FROM templates WHERE id = ?", id)
}

// GetTemplateItem retrieves a single template item by ID.
func (q queries) GetTemplateItem(ctx context.Context, id string) (*model.TemplateItem, error) {
	var item model.TemplateItem
	err := q.get(ctx, &item, "getting template item "+id, notFoundWhat("template item", id),
		"SELECT "+templateItemColumns+" FROM template_items WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	normalizeTemplateItem(&item)
	return &item, nil
}

// ListTemplateItems returns a template's items ordered by sort_order.
func (q queries) ListTemplateItems(ctx context.Context, templateID string) ([]model.TemplateItem, error) {
	var items []model.TemplateItem
	err := sqlx.SelectContext(ctx, q.ext, &items,
		"SELECT "+templateItemColumns+` FROM template_items
		WHERE template_id = ?
		ORDER BY sort_order, created_at, id`,
		templateID)
	if err != nil {
		return nil, storageErr("querying template items", err)
	}
	for i := range items {
		normalizeTemplateItem(&items[i])
	}
	return items, nil
}

// ListTemplateItemsByIDs returns the items of templateID whose id is in ids.
// Result order is by sort_order; unknown ids are skipped.
func (q queries) ListTemplateItemsByIDs(
	ctx context.Context,
	templateID string,
	ids []string,
) ([]model.TemplateItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT "+templateItemColumns+` FROM template_items
		WHERE template_id = ? AND id IN (?)
		ORDER BY sort_order, created_at, id`,
		templateID, ids)
	if err != nil {
		return nil, storageErr("building template item query", err)
	}

	var items []model.TemplateItem
	if err := sqlx.SelectContext(ctx, q.ext, &items, q.ext.Rebind(query), args...); err != nil {
		return nil, storageErr("querying template items", err)
	}
	for i := range items {
		normalizeTemplateItem(&items[i])
	}
	return items, nil
}

// MaxTemplateItemOrder returns the largest sort_order within a template.
func (q queries) MaxTemplateItemOrder(ctx context.Context, templateID string) (int, bool, error) {
	return q.maxOrder(ctx, "getting max template item sort_order",
		"SELECT MAX(sort_order) FROM template_items WHERE template_id = ?", templateID)
}

// InsertTemplateItems inserts a batch of template items.
func (q queries) InsertTemplateItems(ctx context.Context, items []model.TemplateItem) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := q.ext.PreparexContext(ctx, `
		INSERT INTO template_items (
			id, template_id, text, sort_order,
			category, priority, assignee, due_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storageErr("preparing template item insert", err)
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx,
			it.ID, it.TemplateID, it.Text, it.SortOrder,
			it.Category, it.Priority, it.Assignee, utcOrNil(it.DueDate), it.CreatedAt.UTC(),
		)
		if err != nil {
			return storageErr("adding template item "+it.ID, err)
		}
	}
	return nil
}

// UpdateTemplateItem overwrites the mutable fields of a template item.
func (q queries) UpdateTemplateItem(ctx context.Context, item model.TemplateItem) error {
	return q.execOne(ctx, "updating template item "+item.ID, notFoundWhat("template item", item.ID), `
		UPDATE template_items SET
			text = ?, sort_order = ?, category = ?, priority = ?,
			assignee = ?, due_date = ?
		WHERE id = ?`,
		item.Text, item.SortOrder, item.Category, item.Priority,
		item.Assignee, utcOrNil(item.DueDate),
		item.ID)
}

// SetTemplateItemOrder updates the sort_order of a template item.
func (q queries) SetTemplateItemOrder(ctx context.Context, id string, order int) error {
	return q.execOne(ctx, "reordering template item "+id, notFoundWhat("template item", id),
		"UPDATE template_items SET sort_order = ? WHERE id = ?", order, id)
}

// DeleteTemplateItem removes a template item by ID.
func (q queries) DeleteTemplateItem(ctx context.Context, id string) error {
	return q.execOne(ctx, "deleting template item "+id, notFoundWhat("template item", id),
		"DELETE FROM template_items WHERE id = ?", id)
}

// DeleteTemplateItemsByTemplate removes every item of a template.
func (q queries) DeleteTemplateItemsByTemplate(ctx context.Context, templateID string) (int64, error) {
	return q.execMany(ctx, "deleting items of template "+templateID,
		"DELETE FROM template_items WHERE template_id = ?", templateID)
}

func normalizeTemplate(t *model.Template) {
	utc(&t.CreatedAt)
	utc(&t.UpdatedAt)
}

func normalizeTemplateItem(it *model.TemplateItem) {
	utc(&it.CreatedAt)
	utcPtr(it.DueDate)
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
