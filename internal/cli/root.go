// Package cli implements the shelf command tree. Without a subcommand it
// starts the interactive TUI.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/session"
	"github.com/nikbrunner/shelf/internal/storage"
	"github.com/nikbrunner/shelf/internal/tui"
)

type App struct {
	ConfigPath string
	Debug      bool

	// openURL overrides the system browser. Used by tests.
	openURL func(string) error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Column-based bookmark organizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  shelf

  # Find a bookmark and open it
  shelf search github

  # Scriptable commands
  shelf ls
  shelf add --title "Go" --url https://go.dev
  shelf mv <item-id> --before <other-id>
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	defaultConfig, err := storage.DefaultConfigFilePath()
	if err != nil {
		defaultConfig = ""
	}
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", defaultConfig, "Path to config file (env "+storage.ConfigEnv+")")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level to the configured log file")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newFolderCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newFavCmd(app))
	cmd.AddCommand(newColumnCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newCullCmd(app))

	return cmd
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	notify, changes := tui.Notifier()
	e, err := openEnv(app, envParams{icons: true, onChange: notify})
	if err != nil {
		return err
	}
	defer e.close()

	m := tui.NewApp(tui.AppParams{
		Session: e.session,
		Changes: changes,
		OpenURL: app.openURL,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// env is everything a command needs: the loaded config, a logger and the
// open session.
type env struct {
	cfg     *storage.Config
	logger  *slog.Logger
	session *session.Session

	logFile io.Closer
}

type envParams struct {
	// icons enables background icon lookups when the config allows them.
	icons    bool
	onChange func()
}

func openEnv(app *App, params envParams) (*env, error) {
	if app.ConfigPath == "" {
		return nil, fmt.Errorf("no config path; pass --config or set %s", storage.ConfigEnv)
	}
	cfg, err := storage.LoadConfig(app.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, logFile, err := newLogger(cfg, app.Debug)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenStorage(cfg)
	if err != nil {
		closeQuietly(logFile)
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	sp := session.Params{
		Storage:  store,
		Logger:   logger,
		OnChange: params.onChange,
	}
	if params.icons && cfg.IconFetch {
		sp.Icons = icon.NewResolver(icon.ResolverParams{
			Sources: icon.DefaultSources(nil),
			Timeout: cfg.IconTimeoutDuration(),
			Logger:  logger,
		})
	}

	sess, err := session.Open(sp)
	if err != nil {
		_ = storage.Close(store)
		closeQuietly(logFile)
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, session: sess, logFile: logFile}, nil
}

// finish waits for pending icon lookups, then closes.
func (e *env) finish() error {
	e.session.Wait()
	return e.close()
}

func (e *env) close() error {
	err := e.session.Close()
	closeQuietly(e.logFile)
	return err
}

// newLogger writes text logs to cfg.LogFile. Without a log file nothing is
// logged: the TUI owns the terminal.
func newLogger(cfg *storage.Config, debug bool) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
