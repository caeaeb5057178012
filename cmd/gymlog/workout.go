// ABOUTME: CLI commands for the workout in progress.
// ABOUTME: Start, log, edit and navigate sets, then finish or abandon.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/spf13/cobra"
)

var (
	setIntensity   int
	setCorrectness int
	setComment     string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Track the workout in progress",
	Long: `Track a workout from start to finish.

WORKFLOW:

  1. Start from a routine:  gymlog workout start "Push Day"
  2. Log sets:              gymlog workout log 60kg=10 -i 3 -c 4
  3. Move on:               gymlog workout next
  4. Save it:               gymlog workout finish

Only one workout can be in progress. It survives restarts until you
finish or abandon it.

COMMANDS:

  start     Start a workout from a routine
  status    Show the workout with progress per exercise
  log       Log a set (defaults to the current exercise)
  edit      Change a logged set
  rm        Remove a logged set
  next      Move to the next exercise
  prev      Move to the previous exercise
  goto      Jump to exercise number N
  done      Mark an exercise complete
  undone    Clear the complete mark
  energy    Record energy level (1-5)
  finish    Save the workout to history
  abandon   Discard the workout`,
}

var workoutStartCmd = &cobra.Command{
	Use:   "start [routine]",
	Short: "Start a workout",
	Long: `Start a workout from a routine given by ID prefix or name.
Without an argument the last selected routine is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		} else if selected, ok := sessions.SelectedRoutine(); ok {
			ref = selected
		} else {
			return fmt.Errorf("no routine given and none selected")
		}

		r, err := resolveRoutine(cmd.Context(), repo, ref)
		if err != nil {
			return err
		}

		sessions.SelectRoutine(r.ID.String())
		if err := sessions.Start(r, r.Exercises); err != nil {
			if errors.Is(err, session.ErrSessionActive) {
				return fmt.Errorf("a workout is already in progress (finish or abandon it first)")
			}
			return err
		}

		color.Green("✓ Started %s", r.Name)
		return printCurrent()
	},
}

var workoutStatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"st"},
	Short:   "Show the workout in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCurrent()
	},
}

var workoutLogCmd = &cobra.Command{
	Use:   "log [exercise] <weight=reps>...",
	Short: "Log a set",
	Long: `Log a set. Each weight=reps entry records reps done at a weight label,
so drop sets are logged as several entries. Both ratings are required.

Examples:
  gymlog workout log 60kg=10 -i 3 -c 4
  gymlog workout log "Dips" bw=12 -i 2 -c 5 --comment "slow negatives"
  gymlog workout log 50kg=10 45kg=4 -i 4 -c 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if !isWeightArg(args[0]) {
			name, args = args[0], args[1:]
		}
		if name == "" {
			cur, err := requireSession()
			if err != nil {
				return err
			}
			ex, ok := cur.CurrentExercise()
			if !ok {
				return fmt.Errorf("no current exercise")
			}
			name = ex.Name
		}

		weights, err := parseWeights(args)
		if err != nil {
			return err
		}

		st, err := sessions.LogSet(session.SetInput{
			ExerciseName: name,
			Weights:      weights,
			Intensity:    setIntensity,
			Correctness:  setCorrectness,
			Comment:      setComment,
		})
		if err != nil {
			if setIntensity == 0 || setCorrectness == 0 {
				return fmt.Errorf("%w (rate the set with -i and -c)", err)
			}
			return err
		}

		color.Green("✓ Logged %s set %d", st.ExerciseName, st.SetNumber)
		printSet(os.Stdout, st)
		return nil
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <set-id> [weight=reps...]",
	Short: "Change a logged set",
	Long: `Change a logged set. Only the given fields change.

Examples:
  gymlog workout edit abc12345 60kg=8
  gymlog workout edit abc12345 -i 5
  gymlog workout edit abc12345 --comment ""     # clear the comment`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd session.SetUpdate
		if len(args) > 1 {
			weights, err := parseWeights(args[1:])
			if err != nil {
				return err
			}
			upd.Weights = weights
		}
		if cmd.Flags().Changed("intensity") {
			upd.Intensity = &setIntensity
		}
		if cmd.Flags().Changed("correctness") {
			upd.Correctness = &setCorrectness
		}
		if cmd.Flags().Changed("comment") {
			upd.Comment = &setComment
		}

		st, err := sessions.UpdateSet(args[0], upd)
		if err != nil {
			return err
		}

		color.Green("✓ Updated %s set %d", st.ExerciseName, st.SetNumber)
		printSet(os.Stdout, st)
		return nil
	},
}

var workoutRemoveCmd = &cobra.Command{
	Use:     "rm <set-id>",
	Aliases: []string{"remove"},
	Short:   "Remove a logged set",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.RemoveSet(args[0]); err != nil {
			return err
		}
		color.Yellow("✗ Removed set %s", args[0])
		return nil
	},
}

var workoutNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}
		sessions.NextExercise()
		return printCurrentExercise()
	},
}

var workoutPrevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Move to the previous exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}
		sessions.PreviousExercise()
		return printCurrentExercise()
	},
}

var workoutGotoCmd = &cobra.Command{
	Use:   "goto <n>",
	Short: "Jump to exercise number N (1-based)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise number: %s", args[0])
		}
		if _, err := requireSession(); err != nil {
			return err
		}
		sessions.SetCurrentExercise(n - 1)
		return printCurrentExercise()
	},
}

var workoutDoneCmd = &cobra.Command{
	Use:   "done <exercise>",
	Short: "Mark an exercise complete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.MarkExerciseComplete(args[0]); err != nil {
			return err
		}
		color.Green("✓ %s complete", args[0])
		return nil
	},
}

var workoutUndoneCmd = &cobra.Command{
	Use:   "undone <exercise>",
	Short: "Clear the complete mark on an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.MarkExerciseIncomplete(args[0]); err != nil {
			return err
		}
		color.Yellow("%s marked incomplete", args[0])
		return nil
	},
}

var workoutEnergyCmd = &cobra.Command{
	Use:   "energy <1-5>",
	Short: "Record energy level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid energy level: %s", args[0])
		}
		if err := sessions.SetEnergyLevel(level); err != nil {
			return err
		}
		color.Green("✓ Energy %d/5", level)
		return nil
	},
}

var workoutFinishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Save the workout to history",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := session.Finish(cmd.Context(), repo, sessions)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("no workout in progress")
			}
			return fmt.Errorf("%w (the workout is kept; try again)", err)
		}

		color.Green("✓ Saved %s", w.RoutineName)
		fmt.Printf("  ID: %s\n", w.ID.String()[:8])
		if w.DurationMinutes != nil {
			fmt.Printf("  Duration: %d min\n", *w.DurationMinutes)
		}
		fmt.Printf("  Sets: %d\n", len(w.Sets))
		return nil
	},
}

var workoutAbandonCmd = &cobra.Command{
	Use:   "abandon",
	Short: "Discard the workout without saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		cur, err := requireSession()
		if err != nil {
			return err
		}
		sessions.End()
		color.Yellow("✗ Discarded %s (%d sets)", cur.RoutineName, len(cur.Sets))
		return nil
	},
}

func requireSession() (session.Session, error) {
	cur, ok := sessions.Current()
	if !ok {
		return session.Session{}, fmt.Errorf("no workout in progress (start one with 'gymlog workout start')")
	}
	return cur, nil
}

func printCurrent() error {
	cur, err := requireSession()
	if err != nil {
		return err
	}
	printSession(os.Stdout, cur, sessions.Now())
	return nil
}

func printCurrentExercise() error {
	cur, err := requireSession()
	if err != nil {
		return err
	}
	ex, ok := cur.CurrentExercise()
	if !ok {
		return nil
	}
	st := cur.Status(ex.Name)
	fmt.Printf("%s %s %s\n", color.CyanString("▸"), ex.Name,
		color.New(color.Faint).Sprintf("%d/%d · %s", cur.CurrentExerciseIndex+1, len(cur.Exercises), formatTarget(ex)))
	if st.Logged > 0 {
		fmt.Printf("  %d sets logged\n", st.Logged)
	}
	return nil
}

func addSetFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&setIntensity, "intensity", "i", 0, "perceived intensity 1-5 (required)")
	cmd.Flags().IntVarP(&setCorrectness, "correctness", "c", 0, "form correctness 1-5 (required)")
	cmd.Flags().StringVar(&setComment, "comment", "", "note about the set")
}

func init() {
	addSetFlags(workoutLogCmd)
	addSetFlags(workoutEditCmd)

	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutStatusCmd)
	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutRemoveCmd)
	workoutCmd.AddCommand(workoutNextCmd)
	workoutCmd.AddCommand(workoutPrevCmd)
	workoutCmd.AddCommand(workoutGotoCmd)
	workoutCmd.AddCommand(workoutDoneCmd)
	workoutCmd.AddCommand(workoutUndoneCmd)
	workoutCmd.AddCommand(workoutEnergyCmd)
	workoutCmd.AddCommand(workoutFinishCmd)
	workoutCmd.AddCommand(workoutAbandonCmd)
	rootCmd.AddCommand(workoutCmd)
}
