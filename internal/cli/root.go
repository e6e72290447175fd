// Package cli maps todo subcommands onto store operations.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/camrohlof/todolist/internal/config"
	"github.com/camrohlof/todolist/internal/logging"
	"github.com/camrohlof/todolist/internal/model"
	"github.com/camrohlof/todolist/internal/store"
	"github.com/camrohlof/todolist/internal/ui"
)

// Version is set at build time with -ldflags "-X github.com/camrohlof/todolist/internal/cli.Version=1.2.3".
var Version = "dev"

// Streams are the console handles a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// runner holds per-invocation state shared by the command tree.
type runner struct {
	streams     Streams
	overrides   config.Overrides
	interactive bool
	app         *App

	// newApp builds the App once the store is open; tests swap it.
	newApp func(*store.Store, Streams) *App
}

// Execute runs the command line in args and returns the first error.
// Use ExitCode to turn it into a process status.
func Execute(args []string, streams Streams) error {
	r := &runner{streams: streams}
	defer r.close()

	cmd := r.rootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func (r *runner) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "A tiny todo list kept in a local SQLite file",
		Long: `todo keeps a list of named tasks in a local SQLite file.

Run without a subcommand to list unfinished items.`,
		Example: `  todo add "buy milk"
  todo add "walk dog" "around the block"
  todo describe "walk dog" "to the park"
  todo finish "buy milk"
  todo remove "walk dog"
  todo`,
		Version:       Version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			if r.interactive {
				return app.Browse(cmd.Context())
			}
			return app.List(cmd.Context())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetIn(r.streams.In)
	cmd.SetOut(r.streams.Out)
	cmd.SetErr(r.streams.Err)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&r.overrides.DBPath, "db", "", "path to the todo database (default ./"+store.DataFileName+")")
	pf.StringVar(&r.overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&r.overrides.Theme, "theme", "", "color theme: classic, neon, mono")
	cmd.Flags().BoolVarP(&r.interactive, "interactive", "i", false, "browse unfinished items in a full-screen list")

	cmd.AddCommand(r.addCmd(), r.removeCmd(), r.describeCmd(), r.finishCmd())
	return cmd
}

func (r *runner) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME [DETAILS]",
		Short: "Add a todo (details default to \"" + model.DefaultDetails + "\")",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			details := model.DefaultDetails
			if len(args) == 2 {
				details = args[1]
			}
			app, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			return app.Add(cmd.Context(), args[0], details)
		},
	}
}

func (r *runner) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a todo after confirmation",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			return app.Remove(cmd.Context(), args[0])
		},
	}
}

func (r *runner) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME DETAILS",
		Short: "Replace the details of a todo after confirmation",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			return app.Describe(cmd.Context(), args[0], args[1])
		},
	}
}

func (r *runner) finishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish NAME",
		Short: "Mark a todo as finished",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			return app.Finish(cmd.Context(), args[0])
		},
	}
}

// open loads config, applies the theme and opens the store on first use.
func (r *runner) open(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	cfg, err := config.Load(r.overrides)
	if err != nil {
		return nil, err
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return nil, err
	}
	logger, err := logging.New(r.streams.Err, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	if r.newApp != nil {
		r.app = r.newApp(s, r.streams)
	} else {
		r.app = NewApp(s, r.streams, logger)
	}
	return r.app, nil
}

func (r *runner) close() {
	if r.app == nil {
		return
	}
	if err := r.app.store.Close(); err != nil {
		r.app.log.Warn("closing store", "err", err)
	}
}

// usageArgs tags argument-count failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usagef("%s: %v", cmd.CommandPath(), err)
		}
		return nil
	}
}
