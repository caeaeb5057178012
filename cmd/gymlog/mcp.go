// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and shares the workout in progress
with the CLI.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "gymlog": {
        "command": "gymlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_routines       List active routines
  get_routine         Get a routine with exercise targets
  start_workout       Start a workout from a routine
  log_set             Log a set
  remove_set          Remove a logged set
  next_exercise       Move to the next exercise
  previous_exercise   Move to the previous exercise
  current_workout     Show the workout in progress
  finish_workout      Save the workout to history
  abandon_workout     Discard the workout
  list_workouts       List finished workouts
  get_workout         Get a finished workout with sets
  delete_workout      Delete a finished workout

AVAILABLE RESOURCES:

  gymlog://session    The workout in progress and rest timer
  gymlog://history    Recent finished workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, sessions, logging.For(logger, logging.CatMCP))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
