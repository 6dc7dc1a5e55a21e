package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/logging"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/swipe"
)

func newListFromCmd(a *App) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "from <template-id>",
		Short: "Build a list from a template, keeping or skipping one item at a time",
		Long: `Build a list from a template, keeping or skipping one item at a time.

Each item is shown in template order. Answer y to keep it, n to skip it, or
q to stop without creating anything. After the last item you are asked for
a title; an empty answer uses "<template> - <date>".`,
		Args: cobra.ExactArgs(1),
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

			w := &walk{
				seq:       swipe.New(t.ID, items),
				in:        bufio.NewScanner(cmd.InOrStdin()),
				out:       cmd.OutOrStdout(),
				title:     title,
				suggested: lists.DefaultTitle(t.Title, time.Now(), e.cfg.Display.DateFormat),
			}
			l, err := w.run(ctx, e.lists)
			if err != nil {
				return e.fail(ctx, "creating list from template", err, "template_id", t.ID)
			}
			if l != nil {
				logging.FromContext(ctx).InfoContext(ctx, "list created from template",
					"list_id", l.ID, "template_id", t.ID, "items", len(w.seq.Selected()))
				fmt.Fprintln(w.out, l.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "List title (skips the title prompt)")
	return cmd
}

// walk drives a swipe sequencer from line-oriented input.
type walk struct {
	seq       *swipe.Sequencer
	in        *bufio.Scanner
	out       io.Writer
	title     string
	suggested string
}

// run returns the created list, or nil when the walk ends without one.
func (w *walk) run(ctx context.Context, creator swipe.ListCreator) (*model.UserList, error) {
	for {
		switch w.seq.State() {
		case swipe.StateEmpty:
			fmt.Fprintln(w.out, "No Items: this template has no items.")
			return nil, nil

		case swipe.StatePresenting:
			if !w.decide() {
				_ = w.seq.Cancel()
				fmt.Fprintln(w.out, "Cancelled, no list created.")
				return nil, nil
			}

		case swipe.StateCompleting:
			title := w.title
			if title == "" && len(w.seq.Selected()) > 0 {
				fmt.Fprintf(w.out, "Title [%s]: ", w.suggested)
				if line, ok := w.readLine(); ok {
					title = line
				}
				if title == "" {
					title = w.suggested
				}
			}
			l, err := w.seq.Complete(ctx, creator, title)
			if errors.Is(err, model.ErrInvalidSelection) {
				continue
			}
			return l, err

		case swipe.StateNoSelection:
			fmt.Fprintln(w.out, "No Items: nothing was kept, no list created.")
			return nil, nil

		default:
			return nil, nil
		}
	}
}

// decide prompts for the current card until it gets an answer. It returns
// false when the user quits or input ends.
func (w *walk) decide() bool {
	item, _ := w.seq.Current()
	pos, total := w.seq.Progress()
	for {
		fmt.Fprintf(w.out, "[%d/%d] %s%s  keep? [y/n/q] ", pos, total, item.Text, details(item))
		line, ok := w.readLine()
		if !ok {
			fmt.Fprintln(w.out)
			return false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			_ = w.seq.Accept()
			return true
		case "n", "no":
			_ = w.seq.Reject()
			return true
		case "q", "quit":
			return false
		}
	}
}

func (w *walk) readLine() (string, bool) {
	if !w.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(w.in.Text()), true
}

func details(it model.TemplateItem) string {
	var parts []string
	if it.Category != nil {
		parts = append(parts, "#"+*it.Category)
	}
	if it.Priority != nil {
		parts = append(parts, "!"+*it.Priority)
	}
	if it.Assignee != nil {
		parts = append(parts, "@"+*it.Assignee)
	}
	if it.DueDate != nil {
		parts = append(parts, "due "+it.DueDate.Format(dueLayout))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}
