package model

import "time"

// UserList is a concrete checklist instantiated from a template, or created
// standalone when TemplateID is nil. CompletedAt is set once, when the list
// is explicitly completed.
type UserList struct {
	ID          string     `json:"id" db:"id"`
	TemplateID  *string    `json:"template_id,omitempty" db:"template_id"`
	Title       string     `json:"title" db:"title"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// IsCompleted reports whether the list has been marked complete.
func (l UserList) IsCompleted() bool { return l.CompletedAt != nil }

// UserListItem is a per-list copy of an item with its own completion state.
// ListItemID records the template item it was copied from and is never
// dereferenced after instantiation.
type UserListItem struct {
	ID          string    `json:"id" db:"id"`
	UserListID  string    `json:"user_list_id" db:"user_list_id"`
	ListItemID  *string   `json:"list_item_id,omitempty" db:"list_item_id"`
	Text        string    `json:"text" db:"text"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	SortOrder   int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Progress summarizes how many items of a list are done.
type Progress struct {
	Completed int
	Total     int
}

// ListProgress counts completed items.
func ListProgress(items []UserListItem) Progress {
	p := Progress{Total: len(items)}
	for _, it := range items {
		if it.IsCompleted {
			p.Completed++
		}
	}
	return p
}

// Done reports whether every item is completed. An empty list is not done.
func (p Progress) Done() bool { return p.Total > 0 && p.Completed == p.Total }
