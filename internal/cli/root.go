// Package cli wires the listly commands: the interactive TUI at the root and
// scriptable template and list subcommands.
package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/listly/internal/app"
	"github.com/nhle/listly/internal/lists"
	"github.com/nhle/listly/internal/logging"
	"github.com/nhle/listly/internal/model"
	"github.com/nhle/listly/internal/store"
	"github.com/nhle/listly/internal/templates"
)

// App carries the persistent flag values shared by every command.
type App struct {
	ConfigPath string
	DBPath     string
}

// env is an opened store plus the services built on it.
type env struct {
	cfg       *model.AppConfig
	store     *store.SQLiteStore
	lists     *lists.Service
	templates *templates.Service
	closeLog  func() error
}

func (e *env) Close() error {
	err := e.store.Close()
	if cerr := e.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// fail logs err against op and returns it for cobra to print.
func (e *env) fail(ctx context.Context, op string, err error, attrs ...any) error {
	logging.FromContext(ctx).ErrorContext(ctx, op+" failed", append([]any{"error", err}, attrs...)...)
	return fmt.Errorf("%s: %w", op, err)
}

// open loads config, the logger and the store. The logger is attached to
// the command's context for the rest of the run.
func (a *App) open(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	cfg, err := model.LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	if a.DBPath != "" {
		cfg.Database.Path = a.DBPath
	}

	logger, closeLog, err := logging.Open(cfg.Log)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.ErrorContext(ctx, "opening store failed", "path", cfg.Database.Path, "error", err)
		_ = closeLog()
		return nil, err
	}
	logger.DebugContext(ctx, "store opened", "path", cfg.Database.Path)
	cmd.SetContext(logging.WithLogger(ctx, logger))

	return &env{
		cfg:       cfg,
		store:     st,
		lists:     lists.NewService(st),
		templates: templates.NewService(st),
		closeLog:  closeLog,
	}, nil
}

// NewRootCmd builds the listly command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "listly",
		Short:        "Checklist templates and lists in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  listly

  # Build a list from a template with y/n prompts
  listly list from <template-id>

  # Back up templates
  listly template export -o templates.yaml
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", model.DefaultConfigPath(), "Path to the config file")
	cmd.PersistentFlags().StringVar(&a.DBPath, "db", "", "Path to the SQLite database (overrides config)")

	cmd.AddCommand(newTemplateCmd(a))
	cmd.AddCommand(newListCmd(a))

	return cmd
}

func runTUI(cmd *cobra.Command, a *App) error {
	e, err := a.open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := cmd.Context()

	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "starting tui")
	root := app.New(app.Deps{
		Lists:      e.lists,
		Templates:  e.templates,
		Config:     *e.cfg,
		ConfigPath: a.ConfigPath,
		Logger:     logger,
	})
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return e.fail(ctx, "running tui", err)
	}
	return nil
}
