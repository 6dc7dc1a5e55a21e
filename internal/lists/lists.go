// Package lists turns templates into standalone checklists and manages the
// lifecycle of those checklists and their items.
//
// Every item-level mutation refreshes the owning list's UpdatedAt inside the
// same transaction. Operations that touch several rows (instantiation,
// completion, deletion, reordering) run in a single transaction so a
// failure leaves the store unchanged.
package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/listly/internal/ids"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/store"
)

// Service is the list lifecycle engine.
type Service struct {
	store store.Store
	clock ids.Clock
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(c ids.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a list engine backed by st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, clock: ids.SystemClock{}, newID: ids.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTitle names a list instantiated from a template on the given day.
func DefaultTitle(templateTitle string, at time.Time, layout string) string {
	if layout == "" {
		layout = "2006-01-02"
	}
	return fmt.Sprintf("%s - %s", templateTitle, at.Local().Format(layout))
}

// CreateListFromTemplate creates a list holding copies of the selected
// template items. Copies keep the order of selectedItemIDs and get dense
// orders 0..n-1. Ids that are unknown or belong to another template are
// skipped, so the list may end up empty. A missing template is reported as
// model.ErrNotFound and nothing is written.
func (s *Service) CreateListFromTemplate(
	ctx context.Context,
	templateID string,
	title string,
	selectedItemIDs []string,
) (*model.UserList, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	tid := templateID
	list := model.UserList{
		ID:         s.newID(),
		TemplateID: &tid,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetTemplate(ctx, templateID); err != nil {
			return err
		}
		if err := q.InsertUserList(ctx, list); err != nil {
			return err
		}

		found, err := q.ListTemplateItemsByIDs(ctx, templateID, selectedItemIDs)
		if err != nil {
			return err
		}
		ordered := inSelectionOrder(found, selectedItemIDs)

		items := make([]model.UserListItem, len(ordered))
		for i, src := range ordered {
			srcID := src.ID
			items[i] = model.UserListItem{
				ID:          s.newID(),
				UserListID:  list.ID,
				ListItemID:  &srcID,
				Text:        src.Text,
				IsCompleted: false,
				SortOrder:   i,
				CreatedAt:   now,
			}
		}
		return q.InsertUserListItems(ctx, items)
	})
	if err != nil {
		return nil, fmt.Errorf("creating list from template %s: %w", templateID, err)
	}
	return &list, nil
}

// CreateCustomList creates an empty list that is not tied to a template.
func (s *Service) CreateCustomList(ctx context.Context, title string) (*model.UserList, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	list := model.UserList{
		ID:        s.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertUserList(ctx, list); err != nil {
		return nil, err
	}
	return &list, nil
}

// RenameList changes a list's title.
func (s *Service) RenameList(ctx context.Context, id, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	return s.store.UpdateUserListTitle(ctx, id, title, s.clock.Now())
}

// ToggleListItem flips an item's completion flag. A missing item is a no-op.
func (s *Service) ToggleListItem(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		item, err := q.GetUserListItem(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := q.SetUserListItemCompleted(ctx, id, !item.IsCompleted); err != nil {
			return err
		}
		return q.TouchUserList(ctx, item.UserListID, s.clock.Now())
	})
}

// AddItemToList appends a new, incomplete item. When order is nil the item
// goes after the current highest order (0 for an empty list).
func (s *Service) AddItemToList(
	ctx context.Context,
	userListID string,
	text string,
	order *int,
) (*model.UserListItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.NewValidationError("text", "must not be empty")
	}

	var item model.UserListItem
	err := s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetUserList(ctx, userListID); err != nil {
			return err
		}

		pos := 0
		if order != nil {
			pos = *order
		} else {
			top, ok, err := q.MaxUserListItemOrder(ctx, userListID)
			if err != nil {
				return err
			}
			if ok {
				pos = top + 1
			}
		}

		now := s.clock.Now()
		item = model.UserListItem{
			ID:         s.newID(),
			UserListID: userListID,
			Text:       text,
			SortOrder:  pos,
			CreatedAt:  now,
		}
		if err := q.InsertUserListItems(ctx, []model.UserListItem{item}); err != nil {
			return err
		}
		return q.TouchUserList(ctx, userListID, now)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteListItem removes an item. A missing item is a no-op.
func (s *Service) DeleteListItem(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		item, err := q.GetUserListItem(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := q.DeleteUserListItem(ctx, id); err != nil {
			return err
		}
		return q.TouchUserList(ctx, item.UserListID, s.clock.Now())
	})
}

// DeleteList removes a list and all of its items atomically.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.DeleteUserListItemsByList(ctx, id); err != nil {
			return err
		}
		return q.DeleteUserList(ctx, id)
	})
}

// CompleteList marks every incomplete item done and stamps the list.
// CompletedAt keeps the first completion time; UpdatedAt always moves.
// Calling it again on a completed list succeeds.
func (s *Service) CompleteList(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetUserList(ctx, id); err != nil {
			return err
		}
		items, err := q.ListUserListItems(ctx, id)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.IsCompleted {
				continue
			}
			if err := q.SetUserListItemCompleted(ctx, it.ID, true); err != nil {
				return err
			}
		}
		return q.MarkUserListCompleted(ctx, id, s.clock.Now())
	})
}

// ReorderListItems assigns orders 0..n-1 following itemIDs; items not named
// keep their relative order after them.
func (s *Service) ReorderListItems(ctx context.Context, userListID string, itemIDs []string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetUserList(ctx, userListID); err != nil {
			return err
		}
		items, err := q.ListUserListItems(ctx, userListID)
		if err != nil {
			return err
		}
		current := make([]string, len(items))
		for i, it := range items {
			current[i] = it.ID
		}
		ordered, err := store.MergeOrder(current, itemIDs)
		if err != nil {
			return fmt.Errorf("reordering list %s: %w", userListID, err)
		}
		for i, itemID := range ordered {
			if err := q.SetUserListItemOrder(ctx, itemID, i); err != nil {
				return err
			}
		}
		return q.TouchUserList(ctx, userListID, s.clock.Now())
	})
}

// GetAllLists returns every list, most recently updated first.
func (s *Service) GetAllLists(ctx context.Context) ([]model.UserList, error) {
	return s.store.ListUserLists(ctx, store.UserListFilter{})
}

// GetActiveLists returns lists that have not been completed.
func (s *Service) GetActiveLists(ctx context.Context) ([]model.UserList, error) {
	completed := false
	return s.store.ListUserLists(ctx, store.UserListFilter{Completed: &completed})
}

// GetCompletedLists returns completed lists.
func (s *Service) GetCompletedLists(ctx context.Context) ([]model.UserList, error) {
	completed := true
	return s.store.ListUserLists(ctx, store.UserListFilter{Completed: &completed})
}

// FindLists returns lists matching filter, most recently updated first.
func (s *Service) FindLists(ctx context.Context, filter store.UserListFilter) ([]model.UserList, error) {
	return s.store.ListUserLists(ctx, filter)
}

// GetListByID returns the list or an error wrapping model.ErrNotFound.
func (s *Service) GetListByID(ctx context.Context, id string) (*model.UserList, error) {
	return s.store.GetUserList(ctx, id)
}

// GetListItems returns the list's items sorted ascending by order.
func (s *Service) GetListItems(ctx context.Context, userListID string) ([]model.UserListItem, error) {
	return s.store.ListUserListItems(ctx, userListID)
}

// inSelectionOrder arranges found in the order their ids appear in
// selected, dropping duplicates.
func inSelectionOrder(found []model.TemplateItem, selected []string) []model.TemplateItem {
	byID := make(map[string]model.TemplateItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	out := make([]model.TemplateItem, 0, len(found))
	for _, id := range selected {
		it, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, it)
		delete(byID, id)
	}
	return out
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.NewValidationError("title", "must not be empty")
	}
	return title, nil
}
