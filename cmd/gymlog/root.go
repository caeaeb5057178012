// ABOUTME: Root Cobra command for gymlog CLI.
// ABOUTME: Handles config, logger, repository and session lifecycle via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/gymlog/internal/alert"
	"github.com/harperreed/gymlog/internal/config"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/harperreed/gymlog/internal/timer"
	"github.com/spf13/cobra"
)

// skipStorage marks commands that must not open the repository.
const skipStorage = "skip-storage"

var (
	configPath  string
	backendFlag string
	debugFlag   bool
	timeoutFlag time.Duration

	cancelTimeout context.CancelFunc = func() {}

	cfg      *config.Config
	logger   *log.Logger
	repo     storage.Repository
	sessions *session.Manager
)

var rootCmd = &cobra.Command{
	Use:   "gymlog",
	Short: "Strength workout tracker with a rest timer",
	Long: `gymlog tracks strength workouts from reusable routines.

A routine is a named list of exercises with target sets, reps and weight.
Starting a workout snapshots the routine; you then log sets as you go and
finish the workout to save it to your history.

QUICK START:

  $ gymlog routine add "Push Day" -e "Bench Press:3x10@60" -e "Dips:3x12"
  $ gymlog workout start "Push Day"
  $ gymlog workout log 60kg=10 --intensity 3 --correctness 4
  $ gymlog rest 90                      # Countdown with a beep at the end
  $ gymlog workout next
  $ gymlog workout finish

INTERACTIVE:

  $ gymlog session                      # Log a whole workout from one prompt

HISTORY:

  $ gymlog history list
  $ gymlog history show abc12345
  $ gymlog export json -o backup.json

STORAGE:

  SQLite (default) keeps data in ~/.local/share/gymlog/gymlog.db.
  The charm backend syncs through Charm Cloud, E2E encrypted with your SSH key.
  The workout in progress is kept in ~/.local/state/gymlog/workout-store.json.

MCP INTEGRATION:

  Run 'gymlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "gymlog": { "command": "gymlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}

	logger, err = logging.New(os.Stderr, logging.Options{Debug: debugFlag || cfg.Debug})
	if err != nil {
		return err
	}

	if timeoutFlag > 0 {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeoutFlag)
		cmd.SetContext(ctx)
		cancelTimeout = cancel
	}

	if cmd.Annotations[skipStorage] != "" {
		return nil
	}

	repo, err = cfg.OpenStorage(logging.For(logger, logging.CatStorage))
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	sessions = session.New(
		session.WithStateStore(session.NewFileStore(cfg.StateDir())),
		session.WithTimer(newRestTimer(cfg, logger)),
		session.WithLogger(logging.For(logger, logging.CatSession)),
	)
	sessions.Load()
	return nil
}

func teardown() error {
	cancelTimeout()
	cancelTimeout = func() {}

	if sessions != nil {
		sessions.Close()
		sessions = nil
	}
	if repo != nil {
		err := repo.Close()
		repo = nil
		return err
	}
	return nil
}

func newRestTimer(c *config.Config, l *log.Logger) *timer.Timer {
	var a timer.Alerter = alert.Nop{}
	if c.SoundEnabled() {
		a = alert.NewPlayer(os.Stderr)
	}
	return timer.New(
		timer.WithAlerter(a),
		timer.WithDefault(c.RestDuration()),
		timer.WithVariant(c.Variant()),
		timer.WithLogger(logging.For(l, logging.CatTimer)),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gymlog/config.json)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: sqlite or charm")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "give up on the command after this long, e.g. 30s (0 = no limit)")
}
