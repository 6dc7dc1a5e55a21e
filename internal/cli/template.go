package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/templatefile"
	"github.com/nhle/listly/internal/templates"
)

const dueLayout = "2006-01-02"

func newTemplateCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates", "t"},
		Short:   "Manage checklist templates",
	}
	cmd.AddCommand(newTemplateListCmd(a))
	cmd.AddCommand(newTemplateNewCmd(a))
	cmd.AddCommand(newTemplateRenameCmd(a))
	cmd.AddCommand(newTemplateRemoveCmd(a))
	cmd.AddCommand(newTemplateItemsCmd(a))
	cmd.AddCommand(newTemplateAddItemCmd(a))
	cmd.AddCommand(newTemplateEditItemCmd(a))
	cmd.AddCommand(newTemplateRemoveItemCmd(a))
	cmd.AddCommand(newTemplateReorderCmd(a))
	cmd.AddCommand(newTemplateImportCmd(a))
	cmd.AddCommand(newTemplateExportCmd(a))
	return cmd
}

func newTemplateListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List templates, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			tmpls, err := e.templates.GetAllTemplates(ctx)
			if err != nil {
				return e.fail(ctx, "listing templates", err)
			}
			out := cmd.OutOrStdout()
			if len(tmpls) == 0 {
				fmt.Fprintln(out, "No templates found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tITEMS\tUPDATED\tTITLE")
			for _, t := range tmpls {
				items, err := e.templates.GetTemplateItems(ctx, t.ID)
				if err != nil {
					return e.fail(ctx, "listing template items", err, "template_id", t.ID)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
					t.ID,
					len(items),
					t.UpdatedAt.Local().Format("2006-01-02 15:04"),
					t.Title,
				)
			}
			return w.Flush()
		},
	}
}

func newTemplateNewCmd(a *App) *cobra.Command {
	var items []string

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a template",
		Example: strings.TrimSpace(`
  listly template new Groceries --item Milk --item Eggs --item Bread
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			newItems := make([]templates.NewItem, len(items))
			for i, text := range items {
				newItems[i] = templates.NewItem{Text: text}
			}
			t, _, err := e.templates.CreateTemplateWithItems(ctx, args[0], newItems)
			if err != nil {
				return e.fail(ctx, "creating template", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&items, "item", nil, "Item text (repeatable)")
	return cmd
}

func newTemplateRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <template-id> <title>",
		Short: "Rename a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.templates.UpdateTemplate(ctx, args[0], args[1]); err != nil {
				return e.fail(ctx, "renaming template", err, "template_id", args[0])
			}
			return nil
		},
	}
}

func newTemplateRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <template-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a template and its items",
		Long: `Delete a template and its items.

Lists already created from the template are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.templates.DeleteTemplate(ctx, args[0]); err != nil {
				return e.fail(ctx, "deleting template", err, "template_id", args[0])
			}
			return nil
		},
	}
}

func newTemplateItemsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "items <template-id>",
		Short: "Show a template's items in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			t, err := e.templates.GetTemplateByID(ctx, args[0])
			if err != nil {
				return e.fail(ctx, "loading template", err, "template_id", args[0])
			}
			items, err := e.templates.GetTemplateItems(ctx, t.ID)
			if err != nil {
				return e.fail(ctx, "loading template items", err, "template_id", t.ID)
			}
			printTemplateItems(cmd.OutOrStdout(), t, items)
			return nil
		},
	}
}

// printTemplateItems prints a template heading and its items as a table.
func printTemplateItems(out io.Writer, t *model.Template, items []model.TemplateItem) {
	fmt.Fprintf(out, "%s (%d items)\n", t.Title, len(items))
	if len(items) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tID\tTEXT\tCATEGORY\tPRIORITY\tASSIGNEE\tDUE")
	for _, it := range items {
		due := ""
		if it.DueDate != nil {
			due = it.DueDate.Format(dueLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.SortOrder,
			it.ID,
			it.Text,
			deref(it.Category),
			deref(it.Priority),
			deref(it.Assignee),
			due,
		)
	}
	w.Flush()
}

// itemFlags are the optional template item fields shared by add-item and
// edit-item.
type itemFlags struct {
	text     string
	category string
	priority string
	assignee string
	due      string
	order    int
}

func (f *itemFlags) register(cmd *cobra.Command, withText bool) {
	if withText {
		cmd.Flags().StringVar(&f.text, "text", "", "Item text")
	}
	cmd.Flags().StringVar(&f.category, "category", "", "Category")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority (low|medium|high)")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.order, "order", 0, "Explicit sort order")
}

// changed returns a pointer to v when the flag was set on the command line.
func changed[T any](cmd *cobra.Command, name string, v T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// parseDue parses a YYYY-MM-DD date. An empty string yields the zero time.
func parseDue(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dueLayout, s)
	if err != nil {
		return time.Time{}, model.NewValidationError("due", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return d, nil
}

func newTemplateAddItemCmd(a *App) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "add-item <template-id> <text>",
		Short: "Add an item to a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			item := templates.NewItem{
				Text:     args[1],
				Order:    changed(cmd, "order", f.order),
				Category: changed(cmd, "category", f.category),
				Priority: changed(cmd, "priority", f.priority),
				Assignee: changed(cmd, "assignee", f.assignee),
			}
			if cmd.Flags().Changed("due") {
				d, err := parseDue(f.due)
				if err != nil {
					return err
				}
				if !d.IsZero() {
					item.DueDate = &d
				}
			}

			created, err := e.templates.AddItemToTemplate(ctx, args[0], item)
			if err != nil {
				return e.fail(ctx, "adding template item", err, "template_id", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}

	f.register(cmd, false)
	return cmd
}

func newTemplateEditItemCmd(a *App) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "edit-item <item-id>",
		Short: "Change fields of a template item",
		Long: `Change fields of a template item.

Only the flags given are applied. An empty value clears an optional field,
e.g. --due "" removes the due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			upd := model.TemplateItemUpdate{
				Text:      changed(cmd, "text", f.text),
				SortOrder: changed(cmd, "order", f.order),
				Category:  changed(cmd, "category", f.category),
				Priority:  changed(cmd, "priority", f.priority),
				Assignee:  changed(cmd, "assignee", f.assignee),
			}
			if cmd.Flags().Changed("due") {
				d, err := parseDue(f.due)
				if err != nil {
					return err
				}
				upd.DueDate = &d
			}

			if _, err := e.templates.UpdateTemplateItem(ctx, args[0], upd); err != nil {
				return e.fail(ctx, "updating template item", err, "item_id", args[0])
			}
			return nil
		},
	}

	f.register(cmd, true)
	return cmd
}

func newTemplateRemoveItemCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-item <item-id>",
		Short: "Delete a template item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.templates.DeleteTemplateItem(ctx, args[0]); err != nil {
				return e.fail(ctx, "deleting template item", err, "item_id", args[0])
			}
			return nil
		},
	}
}

func newTemplateReorderCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <template-id> <item-id>...",
		Short: "Move the given items to the front, in the order listed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.templates.ReorderTemplateItems(ctx, args[0], args[1:]); err != nil {
				return e.fail(ctx, "reordering template items", err, "template_id", args[0])
			}
			return nil
		},
	}
}

func newTemplateImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create templates from a YAML file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}
			file, err := templatefile.Decode(r)
			if err != nil {
				return err
			}

			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			created, err := templatefile.Import(ctx, e.templates, file)
			for _, t := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.ID, t.Title)
			}
			if err != nil {
				return e.fail(ctx, "importing templates", err, "imported", len(created))
			}
			return nil
		},
	}
}

func newTemplateExportCmd(a *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [template-id...]",
		Short: "Write templates as YAML (all templates when no ids are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			file, err := templatefile.Export(ctx, e.templates, args...)
			if err != nil {
				return e.fail(ctx, "exporting templates", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return templatefile.Encode(w, file)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
