// Package cli implements the sprintboard command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/buildinfo"
	"github.com/matzehuels/sprintboard/pkg/config"
	"github.com/matzehuels/sprintboard/pkg/observability"
	"github.com/matzehuels/sprintboard/pkg/service"
	"github.com/matzehuels/sprintboard/pkg/store"
	"github.com/matzehuels/sprintboard/pkg/store/backend"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sprintboard"

	// skipConfig marks commands that must work without a loadable config file.
	skipConfig = "sprintboard/skip-config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	boardID    string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sprintboard plans tasks across sprints and team members",
		Long: `Sprintboard is a Gantt-style sprint planning board. Tasks are placed in a
member's lane at any horizontal position; tasks that overlap in time are stacked
onto separate rows so that no two cards ever cover each other.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVarP(&c.boardID, "board", "b", "", "board id (default from config)")
	_ = root.RegisterFlagCompletionFunc("board", func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return c.completeBoards(cmd, nil, toComplete)
	})

	// Board commands
	root.AddCommand(c.initCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.relayoutCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.boardCommand())

	// Entities
	root.AddCommand(c.sprintCommand())
	root.AddCommand(c.memberCommand())
	root.AddCommand(c.taskCommand())

	// Import/export and surfaces
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())

	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and installs debug hooks. It runs before
// every command.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := logHooks{logger: c.Logger}
		observability.SetBoardHooks(hooks)
		observability.SetStoreHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
	if _, ok := cmd.Annotations[skipConfig]; ok {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.boardID != "" {
		cfg.Board = c.boardID
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "board", cfg.Board, "store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Service Factory
// =============================================================================

// openStore opens the configured backend. Network backends show a spinner
// while connecting.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	switch c.cfg.Store.Backend {
	case config.BackendRedis, config.BackendMongo:
		sp := startSpinner(ctx, os.Stderr, "Connecting to "+c.cfg.Store.Backend+"...")
		defer sp.Stop()
	}
	return backend.Open(ctx, c.cfg.Store, c.Logger)
}

// newService opens the store and wraps it in a service. The returned function
// closes the store.
func (c *CLI) newService(ctx context.Context) (*service.Service, func(), error) {
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := service.New(s, service.Options{
		HistoryLimit: c.cfg.History.Limit,
		Logger:       c.Logger,
		Metrics:      c.cfg.Layout,
	})
	closeFn := func() {
		if err := s.Close(); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}
	return svc, closeFn, nil
}

// withService runs fn against an open service.
func (c *CLI) withService(ctx context.Context, fn func(*service.Service) error) error {
	svc, closeFn, err := c.newService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

// current returns the active board, creating the starter board on first use.
func (c *CLI) current(ctx context.Context, svc *service.Service) (*board.Board, error) {
	doc, err := svc.Open(ctx, c.cfg.Board)
	if err != nil {
		return nil, err
	}
	return doc.Board, nil
}

// mutate applies fn to the active board and saves it.
func (c *CLI) mutate(ctx context.Context, op string, fn func(*board.Board) error) (*board.Board, error) {
	var out *board.Board
	err := c.withService(ctx, func(svc *service.Service) error {
		if _, err := svc.Open(ctx, c.cfg.Board); err != nil {
			return err
		}
		b, err := svc.Apply(ctx, c.cfg.Board, op, fn)
		out = b
		return err
	})
	return out, err
}
