// Package templates manages reusable checklist templates and their ordered
// item definitions.
package templates

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

// NewItem describes a template item to add. Order nil means append.
type NewItem struct {
	Text     string
	Order    *int
	Category *string
	Priority *string
	Assignee *string
	DueDate  *time.Time
}

// Service is the template repository.
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

// NewService creates a template repository backed by st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, clock: ids.SystemClock{}, newID: ids.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllTemplates returns every template, most recently updated first.
func (s *Service) GetAllTemplates(ctx context.Context) ([]model.Template, error) {
	return s.store.ListTemplates(ctx)
}

// GetTemplateByID returns the template or an error wrapping model.ErrNotFound.
func (s *Service) GetTemplateByID(ctx context.Context, id string) (*model.Template, error) {
	return s.store.GetTemplate(ctx, id)
}

// CreateTemplate creates an empty template.
func (s *Service) CreateTemplate(ctx context.Context, title string) (*model.Template, error) {
	t, _, err := s.CreateTemplateWithItems(ctx, title, nil)
	return t, err
}

// CreateTemplateWithItems creates a template and its items in one
// transaction. Items without an explicit order are numbered after the
// highest order seen so far.
func (s *Service) CreateTemplateWithItems(
	ctx context.Context,
	title string,
	items []NewItem,
) (*model.Template, []model.TemplateItem, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, nil, err
	}
	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return nil, nil, err
		}
	}

	now := s.clock.Now()
	t := model.Template{
		ID:        s.newID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	rows := make([]model.TemplateItem, 0, len(items))
	next := 0
	for _, it := range items {
		order := next
		if it.Order != nil {
			order = *it.Order
		}
		if order >= next {
			next = order + 1
		}
		rows = append(rows, s.buildItem(t.ID, it, order, now))
	}

	err = s.store.InTx(ctx, func(q store.Queries) error {
		if err := q.InsertTemplate(ctx, t); err != nil {
			return err
		}
		return q.InsertTemplateItems(ctx, rows)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating template: %w", err)
	}
	return &t, rows, nil
}

// UpdateTemplate renames a template.
func (s *Service) UpdateTemplate(ctx context.Context, id, title string) error {
	title, err := cleanTitle(title)
	if err != nil {
		return err
	}
	return s.store.UpdateTemplateTitle(ctx, id, title, s.clock.Now())
}

// DeleteTemplate removes a template and all of its items atomically.
// Lists already instantiated from it are left untouched.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetTemplate(ctx, id); err != nil {
			return err
		}
		if _, err := q.DeleteTemplateItemsByTemplate(ctx, id); err != nil {
			return err
		}
		return q.DeleteTemplate(ctx, id)
	})
}

// GetTemplateItems returns the template's items sorted ascending by order.
func (s *Service) GetTemplateItems(ctx context.Context, templateID string) ([]model.TemplateItem, error) {
	return s.store.ListTemplateItems(ctx, templateID)
}

// AddItemToTemplate appends an item (or inserts it at the given order).
func (s *Service) AddItemToTemplate(
	ctx context.Context,
	templateID string,
	item NewItem,
) (*model.TemplateItem, error) {
	if err := validateItem(&item); err != nil {
		return nil, err
	}

	var created model.TemplateItem
	err := s.store.InTx(ctx, func(q store.Queries) error {
		if _, err := q.GetTemplate(ctx, templateID); err != nil {
			return err
		}
		order, err := nextTemplateOrder(ctx, q, templateID, item.Order)
		if err != nil {
			return err
		}
		created = s.buildItem(templateID, item, order, s.clock.Now())
		return q.InsertTemplateItems(ctx, []model.TemplateItem{created})
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTemplateItem applies the non-nil fields of upd. An empty string
// clears an optional field.
func (s *Service) UpdateTemplateItem(
	ctx context.Context,
	id string,
	upd model.TemplateItemUpdate,
) (*model.TemplateItem, error) {
	var updated *model.TemplateItem
	err := s.store.InTx(ctx, func(q store.Queries) error {
		item, err := q.GetTemplateItem(ctx, id)
		if err != nil {
			return err
		}
		if upd.Text != nil {
			text := strings.TrimSpace(*upd.Text)
			if text == "" {
				return model.NewValidationError("text", "must not be empty")
			}
			item.Text = text
		}
		if upd.SortOrder != nil {
			item.SortOrder = *upd.SortOrder
		}
		if upd.Category != nil {
			item.Category = emptyToNil(*upd.Category)
		}
		if upd.Priority != nil {
			item.Priority = emptyToNil(*upd.Priority)
			if item.Priority != nil && !model.ValidPriority(*item.Priority) {
				return model.NewValidationError("priority", fmt.Sprintf("unknown priority %q", *item.Priority))
			}
		}
		if upd.Assignee != nil {
			item.Assignee = emptyToNil(*upd.Assignee)
		}
		if upd.DueDate != nil {
			if upd.DueDate.IsZero() {
				item.DueDate = nil
			} else {
				d := upd.DueDate.UTC()
				item.DueDate = &d
			}
		}
		if err := q.UpdateTemplateItem(ctx, *item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTemplateItem removes a template item. A missing item is a no-op.
func (s *Service) DeleteTemplateItem(ctx context.Context, id string) error {
	err := s.store.DeleteTemplateItem(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

// ReorderTemplateItems assigns orders 0..n-1 following itemIDs. Items of the
// template not named in itemIDs keep their relative order after them.
func (s *Service) ReorderTemplateItems(ctx context.Context, templateID string, itemIDs []string) error {
	return s.store.InTx(ctx, func(q store.Queries) error {
		items, err := q.ListTemplateItems(ctx, templateID)
		if err != nil {
			return err
		}
		current := make([]string, len(items))
		for i, it := range items {
			current[i] = it.ID
		}
		ordered, err := store.MergeOrder(current, itemIDs)
		if err != nil {
			return fmt.Errorf("reordering template %s: %w", templateID, err)
		}
		for i, id := range ordered {
			if err := q.SetTemplateItemOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) buildItem(templateID string, it NewItem, order int, now time.Time) model.TemplateItem {
	return model.TemplateItem{
		ID:         s.newID(),
		TemplateID: templateID,
		Text:       it.Text,
		SortOrder:  order,
		Category:   it.Category,
		Priority:   it.Priority,
		Assignee:   it.Assignee,
		DueDate:    it.DueDate,
		CreatedAt:  now,
	}
}

func nextTemplateOrder(ctx context.Context, q store.Queries, templateID string, explicit *int) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	top, ok, err := q.MaxTemplateItemOrder(ctx, templateID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return top + 1, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", model.NewValidationError("title", "must not be empty")
	}
	return title, nil
}

// validateItem trims text and normalizes empty optional fields to nil.
func validateItem(it *NewItem) error {
	it.Text = strings.TrimSpace(it.Text)
	if it.Text == "" {
		return model.NewValidationError("text", "must not be empty")
	}
	if it.Category != nil {
		it.Category = emptyToNil(*it.Category)
	}
	if it.Assignee != nil {
		it.Assignee = emptyToNil(*it.Assignee)
	}
	if it.Priority != nil {
		it.Priority = emptyToNil(*it.Priority)
		if it.Priority != nil && !model.ValidPriority(*it.Priority) {
			return model.NewValidationError("priority", fmt.Sprintf("unknown priority %q", *it.Priority))
		}
	}
	if it.DueDate != nil {
		d := it.DueDate.UTC()
		it.DueDate = &d
	}
	return nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
