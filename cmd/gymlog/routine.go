// ABOUTME: CLI commands for managing workout routines.
// ABOUTME: Supports list, show, add, rename, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/spf13/cobra"
)

var routineExercises []string

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage workout routines",
	Long: `Routines are reusable workout plans: an ordered list of exercises with
target sets, reps and weight.

EXERCISE FORMAT:

  "Name:SETSxREPS@WEIGHT"   e.g. "Bench Press:3x10@60"
  "Name:SETSxREPS"          e.g. "Pull Up:3x8"
  "Name"                    no target

COMMANDS:

  list     List active routines
  show     Show a routine with its exercises
  add      Create a routine
  rename   Rename a routine
  delete   Delete a routine (workout history is kept)`,
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		routines, err := repo.ListActiveRoutines(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}

		if len(routines) == 0 {
			fmt.Println("No routines found. Create one with 'gymlog routine add'.")
			return nil
		}

		faint := color.New(color.Faint)
		selected, _ := sessions.SelectedRoutine()
		for _, r := range routines {
			marker := " "
			if r.ID.String() == selected {
				marker = color.CyanString("*")
			}
			fmt.Printf("%s %s %s %s\n", marker,
				faint.Sprint(r.ID.String()[:8]),
				padRight(r.Name, 24),
				faint.Sprintf("%d exercises", len(r.Exercises)))
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(cmd.Context(), repo, args[0])
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(r.Name), faint.Sprint(r.ID.String()[:8]))
		for i, ex := range r.Exercises {
			fmt.Printf("  %d. %s %s\n", i+1, padRight(ex.Name, 20), faint.Sprint(formatTarget(ex)))
		}
		return nil
	},
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Long: `Create a routine with one or more exercises.

Examples:
  gymlog routine add "Push Day" -e "Bench Press:3x10@60" -e "Dips:3x12"
  gymlog routine add Legs -e "Squat:5x5@100" -e "Lunge:3x10"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := models.NewRoutine(args[0])
		if err := addExercises(r, routineExercises); err != nil {
			return err
		}

		if err := repo.CreateRoutine(cmd.Context(), r); err != nil {
			return fmt.Errorf("failed to create routine: %w", err)
		}

		color.Green("✓ Added routine %s", r.Name)
		fmt.Printf("  ID: %s\n", r.ID.String()[:8])
		fmt.Printf("  Exercises: %d\n", len(r.Exercises))
		return nil
	},
}

var routineRenameCmd = &cobra.Command{
	Use:   "rename <id|name> <new-name>",
	Short: "Rename a routine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(cmd.Context(), repo, args[0])
		if err != nil {
			return err
		}

		old := r.Name
		r.Name = args[1]
		if err := repo.UpdateRoutine(cmd.Context(), r); err != nil {
			return fmt.Errorf("failed to rename routine: %w", err)
		}

		color.Green("✓ Renamed %s to %s", old, r.Name)
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "delete <id|name>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a routine",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(cmd.Context(), repo, args[0])
		if err != nil {
			return err
		}

		if err := repo.DeleteRoutine(cmd.Context(), r.ID.String()); err != nil {
			return fmt.Errorf("failed to delete routine: %w", err)
		}

		color.Yellow("✗ Deleted routine %s", r.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(r.ID.String()[:8]))
		return nil
	},
}

func addExercises(r *models.Routine, specs []string) error {
	if len(specs) == 0 {
		return fmt.Errorf("at least one --exercise is required")
	}
	for _, spec := range specs {
		name, sets, reps, weight, err := parseExerciseSpec(spec)
		if err != nil {
			return err
		}
		r.AddExercise(name, sets, reps, weight)
	}
	return nil
}

func init() {
	routineAddCmd.Flags().StringArrayVarP(&routineExercises, "exercise", "e", nil, "exercise as Name:SETSxREPS@WEIGHT (repeatable)")

	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineShowCmd)
	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineRenameCmd)
	routineCmd.AddCommand(routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
