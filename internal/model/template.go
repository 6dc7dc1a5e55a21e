package model

import "time"

// Priority levels a template item may carry.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Template is a reusable, named collection of checklist item definitions.
type Template struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TemplateItem is an item definition owned by a single template.
// Its lifecycle is bound to the parent template (CASCADE delete).
type TemplateItem struct {
	ID         string     `json:"id" db:"id"`
	TemplateID string     `json:"template_id" db:"template_id"`
	Text       string     `json:"text" db:"text"`
	SortOrder  int        `json:"order" db:"sort_order"`
	Category   *string    `json:"category,omitempty" db:"category"`
	Priority   *string    `json:"priority,omitempty" db:"priority"`
	Assignee   *string    `json:"assignee,omitempty" db:"assignee"`
	DueDate    *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// TemplateItemUpdate carries the fields to change on a template item.
// Nil fields are left untouched.
type TemplateItemUpdate struct {
	Text      *string
	SortOrder *int
	Category  *string
	Priority  *string
	Assignee  *string
	DueDate   *time.Time
}
