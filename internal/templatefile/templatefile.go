// Package templatefile reads and writes templates as YAML documents so they
// can be shared between databases.
//
//	templates:
//	  - title: Groceries
//	    items:
//	      - text: Milk
//	        category: dairy
//	      - text: Eggs
//	        priority: high
package templatefile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templates"
)

// dueLayout is the date format used for due dates in files.
const dueLayout = "2006-01-02"

// File is the document root.
type File struct {
	Templates []Template `yaml:"templates"`
}

// Template is one exported template. Items appear in display order.
type Template struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items,omitempty"`
}

// Item is one exported template item.
type Item struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category,omitempty"`
	Priority string `yaml:"priority,omitempty"`
	Assignee string `yaml:"assignee,omitempty"`
	Due      string `yaml:"due,omitempty"`
}

// Repository is the part of the template service used here.
type Repository interface {
	GetAllTemplates(ctx context.Context) ([]model.Template, error)
	GetTemplateItems(ctx context.Context, templateID string) ([]model.TemplateItem, error)
	CreateTemplateWithItems(ctx context.Context, title string, items []templates.NewItem) (*model.Template, []model.TemplateItem, error)
}

// Decode parses a YAML template document.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decoding template file: %w", err)
	}
	return &f, nil
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding template file: %w", err)
	}
	return enc.Close()
}

// Export collects every template (or only those whose id is in only, when
// non-empty) into a File.
func Export(ctx context.Context, repo Repository, only ...string) (*File, error) {
	all, err := repo.GetAllTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	want := make(map[string]bool, len(only))
	for _, id := range only {
		want[id] = true
	}

	f := &File{}
	for _, t := range all {
		if len(want) > 0 && !want[t.ID] {
			continue
		}
		items, err := repo.GetTemplateItems(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("listing items of template %s: %w", t.ID, err)
		}
		out := Template{Title: t.Title, Items: make([]Item, 0, len(items))}
		for _, it := range items {
			out.Items = append(out.Items, fromModel(it))
		}
		f.Templates = append(f.Templates, out)
	}
	return f, nil
}

// Import creates one new template per entry in f. Each template is created
// in its own transaction; the first failure stops the import and the
// templates created so far are returned alongside the error.
func Import(ctx context.Context, repo Repository, f *File) ([]model.Template, error) {
	var created []model.Template
	for i, t := range f.Templates {
		items := make([]templates.NewItem, 0, len(t.Items))
		for j, it := range t.Items {
			ni, err := toNewItem(it)
			if err != nil {
				return created, fmt.Errorf("template %d item %d: %w", i+1, j+1, err)
			}
			items = append(items, ni)
		}
		tpl, _, err := repo.CreateTemplateWithItems(ctx, t.Title, items)
		if err != nil {
			return created, fmt.Errorf("importing template %q: %w", t.Title, err)
		}
		created = append(created, *tpl)
	}
	return created, nil
}

func fromModel(it model.TemplateItem) Item {
	out := Item{Text: it.Text}
	if it.Category != nil {
		out.Category = *it.Category
	}
	if it.Priority != nil {
		out.Priority = *it.Priority
	}
	if it.Assignee != nil {
		out.Assignee = *it.Assignee
	}
	if it.DueDate != nil {
		out.Due = it.DueDate.UTC().Format(dueLayout)
	}
	return out
}

func toNewItem(it Item) (templates.NewItem, error) {
	ni := templates.NewItem{
		Text:     it.Text,
		Category: optional(it.Category),
		Priority: optional(it.Priority),
		Assignee: optional(it.Assignee),
	}
	if it.Due != "" {
		d, err := time.Parse(dueLayout, it.Due)
		if err != nil {
			return ni, model.NewValidationError("due", fmt.Sprintf("expected YYYY-MM-DD, got %q", it.Due))
		}
		ni.DueDate = &d
	}
	return ni, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
