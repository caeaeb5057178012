// ABOUTME: CLI commands for finished workouts.
// ABOUTME: Supports list, show, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse finished workouts",
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List finished workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := repo.ListWorkouts(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			duration := ""
			if w.DurationMinutes != nil {
				duration = fmt.Sprintf("%d min", *w.DurationMinutes)
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(w.ID.String()[:8]),
				faint.Sprint(w.StartTime.Local().Format("2006-01-02 15:04")),
				padRight(w.RoutineName, 20),
				duration)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout with all its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := repo.GetWorkout(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}
		printWorkout(w)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"del", "rm"},
	Short:   "Delete workouts and their sets",
	Long: `Delete one or more workouts by ID or ID prefix.

CAUTION:

  This permanently deletes the workouts. There is no undo.
  If a prefix matches multiple workouts, nothing is deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := repo.DeleteWorkouts(cmd.Context(), args...)
		if err != nil {
			return fmt.Errorf("failed to delete workouts: %w", err)
		}
		color.Yellow("✗ Deleted %d workout(s)", n)
		return nil
	},
}

func printWorkout(w *models.Workout) {
	faint := color.New(color.Faint)
	fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(w.RoutineName), faint.Sprint(w.ID.String()[:8]))
	fmt.Printf("  Started: %s\n", w.StartTime.Local().Format("2006-01-02 15:04"))
	if w.DurationMinutes != nil {
		fmt.Printf("  Duration: %d min\n", *w.DurationMinutes)
	}
	fmt.Printf("  Energy: %d/5\n", w.EnergyLevel)

	current := ""
	for _, s := range w.Sets {
		if s.ExerciseName != current {
			current = s.ExerciseName
			fmt.Printf("\n  %s\n", current)
		}
		fmt.Printf("    #%d %s %s", s.SetNumber, formatWeights(s.Weights),
			faint.Sprintf("(i%d c%d)", s.Intensity, s.Correctness))
		if s.Comment != nil {
			fmt.Printf(" %s", *s.Comment)
		}
		fmt.Println()
	}
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of results")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
