package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/listly/internal/model"
)

const userListColumns = "id, template_id, title, created_at, updated_at, completed_at"

const userListItemColumns = `id, user_list_id, list_item_id, text,
	is_completed, sort_order, created_at`

// GetUserList retrieves a single user list by ID.
func (q queries) GetUserList(ctx context.Context, id string) (*model.UserList, error) {
	var l model.UserList
	err := q.get(ctx, &l, "getting user list "+id, notFoundWhat("user list", id),
		"SELECT "+userListColumns+" FROM user_lists WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	normalizeUserList(&l)
	return &l, nil
}

// ListUserLists returns lists matching the filter, most recently updated first.
func (q queries) ListUserLists(ctx context.Context, filter UserListFilter) ([]model.UserList, error) {
	var conditions []string
	var args []interface{}

	if filter.Completed != nil {
		if *filter.Completed {
			conditions = append(conditions, "completed_at IS NOT NULL")
		} else {
			conditions = append(conditions, "completed_at IS NULL")
		}
	}
	if filter.TemplateID != nil {
		conditions = append(conditions, "template_id = ?")
		args = append(args, *filter.TemplateID)
	}

	query := "SELECT " + userListColumns + " FROM user_lists"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var lists []model.UserList
	if err := sqlx.SelectContext(ctx, q.ext, &lists, query, args...); err != nil {
		return nil, storageErr("querying user lists", err)
	}
	for i := range lists {
		normalizeUserList(&lists[i])
	}
	return lists, nil
}

// InsertUserList inserts a new user list row.
func (q queries) InsertUserList(ctx context.Context, l model.UserList) error {
	_, err := q.ext.ExecContext(ctx, `
		INSERT INTO user_lists (id, template_id, title, created_at, updated_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.TemplateID, l.Title,
		l.CreatedAt.UTC(), l.UpdatedAt.UTC(), utcOrNil(l.CompletedAt),
	)
	if err != nil {
		return storageErr("creating user list", err)
	}
	return nil
}

// UpdateUserListTitle renames a list and bumps updated_at.
func (q queries) UpdateUserListTitle(ctx context.Context, id, title string, updatedAt time.Time) error {
	return q.execOne(ctx, "renaming user list "+id, notFoundWhat("user list", id),
		"UPDATE user_lists SET title = ?, updated_at = ? WHERE id = ?",
		title, updatedAt.UTC(), id)
}

// TouchUserList sets updated_at on a list.
func (q queries) TouchUserList(ctx context.Context, id string, updatedAt time.Time) error {
	return q.execOne(ctx, "touching user list "+id, notFoundWhat("user list", id),
		"UPDATE user_lists SET updated_at = ? WHERE id = ?", updatedAt.UTC(), id)
}

// MarkUserListCompleted stamps completed_at (first completion only) and
// updated_at (always).
func (q queries) MarkUserListCompleted(ctx context.Context, id string, at time.Time) error {
	return q.execOne(ctx, "completing user list "+id, notFoundWhat("user list", id), `
		UPDATE user_lists SET
			completed_at = COALESCE(completed_at, ?),
			updated_at = ?
		WHERE id = ?`,
		at.UTC(), at.UTC(), id)
}

// DeleteUserList removes a user list row.
func (q queries) DeleteUserList(ctx context.Context, id string) error {
	return q.execOne(ctx, "deleting user list "+id, notFoundWhat("user list", id),
		"DELETE FROM user_lists WHERE id = ?", id)
}

// GetUserListItem retrieves a single list item by ID.
func (q queries) GetUserListItem(ctx context.Context, id string) (*model.UserListItem, error) {
	var item model.UserListItem
	err := q.get(ctx, &item, "getting list item "+id, notFoundWhat("list item", id),
		"SELECT "+userListItemColumns+" FROM user_list_items WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	utc(&item.CreatedAt)
	return &item, nil
}

// ListUserListItems returns a list's items ordered by sort_order.
func (q queries) ListUserListItems(ctx context.Context, userListID string) ([]model.UserListItem, error) {
	var items []model.UserListItem
	err := sqlx.SelectContext(ctx, q.ext, &items,
		"SELECT "+userListItemColumns+` FROM user_list_items
		WHERE user_list_id = ?
		ORDER BY sort_order, created_at, id`,
		userListID)
	if err != nil {
		return nil, storageErr("querying list items", err)
	}
	for i := range items {
		utc(&items[i].CreatedAt)
	}
	return items, nil
}

// MaxUserListItemOrder returns the largest sort_order within a list.
func (q queries) MaxUserListItemOrder(ctx context.Context, userListID string) (int, bool, error) {
	return q.maxOrder(ctx, "getting max list item sort_order",
		"SELECT MAX(sort_order) FROM user_list_items WHERE user_list_id = ?", userListID)
}

// InsertUserListItems inserts a batch of list items.
func (q queries) InsertUserListItems(ctx context.Context, items []model.UserListItem) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := q.ext.PreparexContext(ctx, `
		INSERT INTO user_list_items (
			id, user_list_id, list_item_id, text,
			is_completed, sort_order, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return storageErr("preparing list item insert", err)
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx,
			it.ID, it.UserListID, it.ListItemID, it.Text,
			boolToInt(it.IsCompleted), it.SortOrder, it.CreatedAt.UTC(),
		)
		if err != nil {
			return storageErr("adding list item "+it.ID, err)
		}
	}
	return nil
}

// SetUserListItemCompleted sets the completion flag of a list item.
func (q queries) SetUserListItemCompleted(ctx context.Context, id string, completed bool) error {
	return q.execOne(ctx, "updating list item "+id, notFoundWhat("list item", id),
		"UPDATE user_list_items SET is_completed = ? WHERE id = ?",
		boolToInt(completed), id)
}

// SetUserListItemOrder updates the sort_order of a list item.
func (q queries) SetUserListItemOrder(ctx context.Context, id string, order int) error {
	return q.execOne(ctx, "reordering list item "+id, notFoundWhat("list item", id),
		"UPDATE user_list_items SET sort_order = ? WHERE id = ?", order, id)
}

// DeleteUserListItem removes a list item by ID.
func (q queries) DeleteUserListItem(ctx context.Context, id string) error {
	return q.execOne(ctx, "deleting list item "+id, notFoundWhat("list item", id),
		"DELETE FROM user_list_items WHERE id = ?", id)
}

// DeleteUserListItemsByList removes every item of a list.
func (q queries) DeleteUserListItemsByList(ctx context.Context, userListID string) (int64, error) {
	return q.execMany(ctx, "deleting items of user list "+userListID,
		"DELETE FROM user_list_items WHERE user_list_id = ?", userListID)
}

func normalizeUserList(l *model.UserList) {
	utc(&l.CreatedAt)
	utc(&l.UpdatedAt)
	utcPtr(l.CompletedAt)
}
