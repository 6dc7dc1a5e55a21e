package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/store"
)

func newListCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists", "l"},
		Short:   "Manage checklists",
	}
	cmd.AddCommand(newListListCmd(a))
	cmd.AddCommand(newListNewCmd(a))
	cmd.AddCommand(newListFromCmd(a))
	cmd.AddCommand(newListShowCmd(a))
	cmd.AddCommand(newListToggleCmd(a))
	cmd.AddCommand(newListAddCmd(a))
	cmd.AddCommand(newListRemoveItemCmd(a))
	cmd.AddCommand(newListCompleteCmd(a))
	cmd.AddCommand(newListRemoveCmd(a))
	cmd.AddCommand(newListRenameCmd(a))
	cmd.AddCommand(newListReorderCmd(a))
	return cmd
}

func newListListCmd(a *App) *cobra.Command {
	var (
		active, completed bool
		templateID        string
		limit             int
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List checklists, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			filter := store.UserListFilter{Limit: limit}
			if active || completed {
				filter.Completed = &completed
			}
			if templateID != "" {
				filter.TemplateID = &templateID
			}
			ls, err := e.lists.FindLists(ctx, filter)
			if err != nil {
				return e.fail(ctx, "listing lists", err)
			}

			out := cmd.OutOrStdout()
			if len(ls) == 0 {
				fmt.Fprintln(out, "No lists found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDONE\tSTATUS\tTITLE")
			for _, l := range ls {
				items, err := e.lists.GetListItems(ctx, l.ID)
				if err != nil {
					return e.fail(ctx, "listing list items", err, "list_id", l.ID)
				}
				p := model.ListProgress(items)
				status := "active"
				if l.IsCompleted() {
					status = "completed"
				}
				fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\n", l.ID, p.Completed, p.Total, status, l.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&active, "active", false, "Only lists that are not completed")
	cmd.Flags().BoolVar(&completed, "completed", false, "Only completed lists")
	cmd.Flags().StringVar(&templateID, "template", "", "Only lists created from this template")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many lists (0 means no limit)")
	cmd.MarkFlagsMutuallyExclusive("active", "completed")
	return cmd
}

func newListNewCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new <title>",
		Short: "Create an empty list that is not based on a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			l, err := e.lists.CreateCustomList(ctx, args[0])
			if err != nil {
				return e.fail(ctx, "creating list", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), l.ID)
			return nil
		},
	}
}

func newListShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			l, err := e.lists.GetListByID(ctx, args[0])
			if err != nil {
				return e.fail(ctx, "loading list", err, "list_id", args[0])
			}
			items, err := e.lists.GetListItems(ctx, l.ID)
			if err != nil {
				return e.fail(ctx, "loading list items", err, "list_id", l.ID)
			}
			printList(cmd.OutOrStdout(), l, items)
			return nil
		},
	}
}

// printList prints a list heading followed by one checkbox line per item.
func printList(out io.Writer, l *model.UserList, items []model.UserListItem) {
	p := model.ListProgress(items)
	fmt.Fprintf(out, "%s  %d/%d\n", l.Title, p.Completed, p.Total)
	if l.CompletedAt != nil {
		fmt.Fprintf(out, "completed %s\n", l.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	for _, it := range items {
		box := "[ ]"
		if it.IsCompleted {
			box = "[x]"
		}
		fmt.Fprintf(out, "%s %s  (%s)\n", box, it.Text, it.ID)
	}
}

func newListToggleCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Flip an item between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.ToggleListItem(ctx, args[0]); err != nil {
				return e.fail(ctx, "toggling list item", err, "item_id", args[0])
			}
			return nil
		},
	}
}

func newListAddCmd(a *App) *cobra.Command {
	var order int

	cmd := &cobra.Command{
		Use:   "add <list-id> <text>",
		Short: "Add an item to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			it, err := e.lists.AddItemToList(ctx, args[0], args[1], changed(cmd, "order", order))
			if err != nil {
				return e.fail(ctx, "adding list item", err, "list_id", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), it.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&order, "order", 0, "Explicit sort order")
	return cmd
}

func newListRemoveItemCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-item <item-id>",
		Short: "Delete a list item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.DeleteListItem(ctx, args[0]); err != nil {
				return e.fail(ctx, "deleting list item", err, "item_id", args[0])
			}
			return nil
		},
	}
}

func newListCompleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <list-id>",
		Short: "Tick every item and mark the list completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.CompleteList(ctx, args[0]); err != nil {
				return e.fail(ctx, "completing list", err, "list_id", args[0])
			}
			return nil
		},
	}
}

func newListRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <list-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a list and its items",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.DeleteList(ctx, args[0]); err != nil {
				return e.fail(ctx, "deleting list", err, "list_id", args[0])
			}
			return nil
		},
	}
}

func newListRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list-id> <title>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.RenameList(ctx, args[0], args[1]); err != nil {
				return e.fail(ctx, "renaming list", err, "list_id", args[0])
			}
			return nil
		},
	}
}

func newListReorderCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <list-id> <item-id>...",
		Short: "Move the given items to the front, in the order listed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if err := e.lists.ReorderListItems(ctx, args[0], args[1:]); err != nil {
				return e.fail(ctx, "reordering list items", err, "list_id", args[0])
			}
			return nil
		},
	}
}
