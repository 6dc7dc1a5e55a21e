package store

import (
	"context"
	"time"

	"github.com/nhle/listly/internal/model"
)

// UserListFilter controls filtering for user list queries.
type UserListFilter struct {
	Completed  *bool   // true = completed only, false = active only, nil = all
	TemplateID *string // lists instantiated from this template
	Limit      int
}

// Queries is the single-statement persistence contract. Every method maps to
// one table operation; methods that target a single id return an error
// wrapping model.ErrNotFound when no row matches. Driver failures are
// returned as *model.StorageError.
type Queries interface {
	// === Templates ===

	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	ListTemplates(ctx context.Context) ([]model.Template, error)
	InsertTemplate(ctx context.Context, t model.Template) error
	UpdateTemplateTitle(ctx context.Context, id, title string, updatedAt time.Time) error
	DeleteTemplate(ctx context.Context, id string) error

	// === Template items ===

	GetTemplateItem(ctx context.Context, id string) (*model.TemplateItem, error)
	ListTemplateItems(ctx context.Context, templateID string) ([]model.TemplateItem, error)
	ListTemplateItemsByIDs(ctx context.Context, templateID string, ids []string) ([]model.TemplateItem, error)
	MaxTemplateItemOrder(ctx context.Context, templateID string) (int, bool, error)
	InsertTemplateItems(ctx context.Context, items []model.TemplateItem) error
	UpdateTemplateItem(ctx context.Context, item model.TemplateItem) error
	SetTemplateItemOrder(ctx context.Context, id string, order int) error
	DeleteTemplateItem(ctx context.Context, id string) error
	DeleteTemplateItemsByTemplate(ctx context.Context, templateID string) (int64, error)

	// === User lists ===

	GetUserList(ctx context.Context, id string) (*model.UserList, error)
	ListUserLists(ctx context.Context, filter UserListFilter) ([]model.UserList, error)
	InsertUserList(ctx context.Context, l model.UserList) error
	UpdateUserListTitle(ctx context.Context, id, title string, updatedAt time.Time) error
	TouchUserList(ctx context.Context, id string, updatedAt time.Time) error
	MarkUserListCompleted(ctx context.Context, id string, at time.Time) error
	DeleteUserList(ctx context.Context, id string) error

	// === User list items ===

	GetUserListItem(ctx context.Context, id string) (*model.UserListItem, error)
	ListUserListItems(ctx context.Context, userListID string) ([]model.UserListItem, error)
	MaxUserListItemOrder(ctx context.Context, userListID string) (int, bool, error)
	InsertUserListItems(ctx context.Context, items []model.UserListItem) error
	SetUserListItemCompleted(ctx context.Context, id string, completed bool) error
	SetUserListItemOrder(ctx context.Context, id string, order int) error
	DeleteUserListItem(ctx context.Context, id string) error
	DeleteUserListItemsByList(ctx context.Context, userListID string) (int64, error)
}

// Store is the entity store: Queries run unscoped, plus scoped
// transactions for operations that touch several records.
type Store interface {
	Queries

	// InTx runs fn inside a single transaction. Any error returned by fn
	// (or a failed commit) rolls back every write issued through q.
	InTx(ctx context.Context, fn func(q Queries) error) error

	Close() error
}
