package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasktray/tasktray/cmd/internal"
	"github.com/tasktray/tasktray/internal/app"
	"github.com/tasktray/tasktray/internal/bootstrap"
	"github.com/tasktray/tasktray/internal/config"
	"github.com/tasktray/tasktray/internal/state"
	"github.com/tasktray/tasktray/internal/tui"
)

var cfgFile string

// GetConfigFile returns the config file path from the flag.
func GetConfigFile() string {
	return cfgFile
}

// Root command flags
var (
	rootPlain bool
)

// NewRootCmd creates the root command for the tasktray CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasktray",
		Short: "A small always-at-hand to-do list",
		Long: `tasktray keeps a short to-do list one keystroke away. Tasks are either
simple items or multi-step tasks with their own subtasks.

Run without arguments in a terminal to open the widget. Hiding it leaves it
parked like a tray icon; press any key to bring it back. When output is not
a terminal, or with --plain, the list is printed instead.

Every widget action is also available as a subcommand for scripting.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runRoot,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/tasktray/tasktray.yaml)")
	rootCmd.Flags().BoolVar(&rootPlain, "plain", false, "print the task list instead of opening the widget")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newExpandCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newSubCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newOnTopCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if rootPlain || !isTerminal(cmd) {
		return runList(cmd, listOptions{})
	}
	return runWidget(cmd)
}

// runWidget opens the terminal UI and blocks until it quits. Logs go to
// the data dir so they do not tear the screen.
func runWidget(cmd *cobra.Command) error {
	cfg, err := config.LoadConfigWithFile(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := state.OpenLogFile(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg.Log.Level)

	restarter, err := app.NewExecRestarter()
	if err != nil {
		logger.Warn("restart unavailable", "error", err)
	}

	opts := bootstrap.Options{
		Logger:    logger,
		Registrar: newRegistrar(logger),
		Screen:    app.NewTerminalScreen(),
	}
	if restarter != nil {
		opts.Restarter = restarter
	}

	rt, err := bootstrap.Start(cmd.Context(), cfg, opts)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() { _ = rt.Close() }()

	if err := tui.Run(cmd.Context(), rt.App, rt.Bus, tui.Options{RelativeDates: cfg.UI.RelativeDates}); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	// A restart replaces the process, so the lock goes first.
	if err := rt.Close(); err != nil {
		logger.Warn("failed to close store", "error", err)
	}
	return rt.App.Finish()
}

func isTerminal(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return internal.IsInteractive(in.Fd()) && internal.IsInteractive(out.Fd())
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
