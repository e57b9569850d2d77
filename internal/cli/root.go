// Package cli implements the capitals command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/capitals/internal/app"
	"github.com/mesh-intelligence/capitals/internal/clock"
	"github.com/mesh-intelligence/capitals/internal/config"
	"github.com/mesh-intelligence/capitals/internal/logging"
	"github.com/mesh-intelligence/capitals/internal/paths"
	"github.com/mesh-intelligence/capitals/internal/worldtime"
	"github.com/mesh-intelligence/capitals/pkg/capitals"
	"github.com/mesh-intelligence/capitals/pkg/sqlite"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// env is shared by every command. The root command fills it in before a
// subcommand runs.
type env struct {
	flags     rootFlags
	configDir string
	settings  config.Settings
	log       *slog.Logger
}

// NewRootCmd creates the top-level "capitals" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	e := &env{log: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:     "capitals",
		Short:   "Clocks for South American capitals",
		Long:    "capitals shows the current time in five South American capitals and keeps\nper-user favorites in a local SQLite database.",
		Version: capitals.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&e.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/capitals)")
	root.PersistentFlags().StringVar(&e.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/capitals)")
	root.PersistentFlags().BoolVar(&e.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(e),
		newRegisterCmd(e),
		newLoginCmd(e),
		newUsersCmd(e),
		newAccountCmd(e),
		newClocksCmd(e),
		newFavoritesCmd(e),
		newShellCmd(e),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	return exitCode(root.ErrOrStderr(), root.Execute())
}

// setup loads .env, config.yaml and the logger.
func (e *env) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return sysError("could not read .env", err)
	}

	configDir, err := paths.ResolveConfigDir(e.flags.configDir)
	if err != nil {
		return sysError("could not resolve the config directory", err)
	}
	settings, err := config.Load(configDir)
	if err != nil {
		return sysError("could not load the configuration", err)
	}

	e.configDir = configDir
	e.settings = settings
	e.log = logging.New(settings.Log, cmd.ErrOrStderr())
	return nil
}

// dataDir resolves the data directory: --data-dir, config data_dir,
// CAPITALS_DATA_DIR, then the platform default.
func (e *env) dataDir() (string, error) {
	return paths.ResolveDataDir(e.flags.dataDir, e.settings.DataDir)
}

// openService opens the store and wraps it in a Service. The caller must
// call the returned close function.
func (e *env) openService(ctx context.Context) (*app.Service, func(), error) {
	dataDir, err := e.dataDir()
	if err != nil {
		return nil, nil, sysError("could not resolve the data directory", err)
	}

	store, err := sqlite.Open(ctx, e.settings.StoreConfig(dataDir))
	if err != nil {
		e.log.ErrorContext(ctx, "open store failed", "data_dir", dataDir, "err", err)
		return nil, nil, sysError("could not open the database", err)
	}

	closeFn := func() {
		if err := store.Close(); err != nil {
			e.log.Error("close store failed", "err", err)
		}
	}
	return app.New(store, e.log), closeFn, nil
}

// timeSource returns the configured remote time client.
func (e *env) timeSource() clock.TimeSource {
	return worldtime.NewClient(e.settings.WorldTime())
}

// exitError carries the user-visible message and the exit code of a failed
// command. The wrapped error holds the detail, which has already been
// logged.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) Unwrap() error { return e.err }

func userError(msg string, err error) error {
	return &exitError{code: exitUserError, msg: msg, err: err}
}

func sysError(msg string, err error) error {
	return &exitError{code: exitSysError, msg: msg, err: err}
}

// failure converts an operation error into an exitError with the generic
// message for op.
func failure(op app.Op, err error) error {
	code := exitSysError
	if app.IsUserError(err) {
		code = exitUserError
	}
	return &exitError{code: code, msg: app.Message(op, err), err: err}
}

// exitCode prints the user-visible message for err to w and returns the
// exit code.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(w, ee.msg)
		return ee.code
	}
	// Flag and argument errors from cobra.
	fmt.Fprintln(w, err)
	return exitUserError
}

// stdinFile returns r as an *os.File when it is one.
func stdinFile(r io.Reader) (*os.File, bool) {
	f, ok := r.(*os.File)
	return f, ok
}
