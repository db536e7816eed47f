package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/casegen/internal/api"
	"github.com/Makepad-fr/casegen/internal/clipboard"
	"github.com/Makepad-fr/casegen/internal/config"
	"github.com/Makepad-fr/casegen/internal/logging"
	"github.com/Makepad-fr/casegen/internal/tui"
	"github.com/Makepad-fr/casegen/internal/ui"
	"github.com/Makepad-fr/casegen/internal/view"
)

// Version is stamped at build time.
var Version = "dev"

// copyText is swapped in tests.
var copyText = clipboard.WriteAll

// usageError maps to exit code 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// Options are the root flags; they win over the config file and environment.
type Options struct {
	ConfigPath string
	APIURL     string
	Theme      string
	LogLevel   string
	LogFile    string
}

type app struct {
	opt    Options
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
}

// Run dispatches to the subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string) int {
	return Execute(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// Execute is Run with explicit streams.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
		return 2
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "casegen",
		Short: "Generate test cases from a user story",
		Long: `casegen - turn a user story into editable test cases

Without a subcommand casegen opens the interactive view: type the story and
optional acceptance criteria, press ctrl+g, then edit, copy as an Excel table,
or save the cases to Jira.`,
		Example: `  casegen
  casegen generate --story "As a user, I want to reset my password"
  casegen generate --story-file story.txt --criteria "- link expires after 1h" --copy
  casegen generate --story-file - --export --project KAN --parent KAN-42 < story.txt`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The interactive view owns the terminal, so it never logs to stderr.
			return a.setup(cmd.Name() == "casegen")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.newView()
			if err := tui.Run(cmd.Context(), s, a.client); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := root.PersistentFlags()
	f.StringVar(&a.opt.ConfigPath, "config", "", "config file (default ~/.casegen/config.yaml)")
	f.StringVar(&a.opt.APIURL, "api-url", "", "generator backend base URL")
	f.StringVar(&a.opt.Theme, "theme", "", "color theme: classic, neon, mono")
	f.StringVar(&a.opt.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.opt.LogFile, "log-file", "", "write logs to this file")

	root.AddCommand(newGenerateCmd(a), newVersionCmd())
	return root
}

func (a *app) setup(interactive bool) error {
	cfg, err := config.Load(a.opt.ConfigPath)
	if err != nil {
		return err
	}
	if a.opt.APIURL != "" {
		cfg.APIURL = a.opt.APIURL
	}
	if a.opt.Theme != "" {
		cfg.Theme = a.opt.Theme
	}
	if a.opt.LogLevel != "" {
		cfg.LogLevel = a.opt.LogLevel
	}
	if a.opt.LogFile != "" {
		cfg.LogFile = a.opt.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	if interactive {
		a.log, err = logging.ForTUI(cfg.LogLevel, cfg.LogFile)
	} else {
		a.log, err = logging.New(cfg.LogLevel, cfg.LogFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log.Debug("config loaded",
		zap.String("project_key", cfg.ProjectKey),
		zap.Duration("timeout", cfg.Timeout))

	a.client = api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(a.log))
	a.log.Debug("backend", zap.String("base_url", a.client.BaseURL()))
	return nil
}

func (a *app) newView() *view.State {
	return view.New(a.client,
		view.WithLogger(a.log),
		view.WithProjectKey(a.cfg.ProjectKey),
		view.WithClipboard(copyText))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config and logger setup.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "casegen "+Version)
		},
	}
}
