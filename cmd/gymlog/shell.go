// ABOUTME: Interactive line-oriented shell for logging a whole workout.
// ABOUTME: The rest timer runs in the background and starts after each logged set.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/timer"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  log <weight=reps>... i:N c:N [# comment]   log a set on the current exercise
  rm <set-id>        remove a set
  next | prev        move between exercises
  goto <n>           jump to exercise n
  done | undone      mark the current exercise complete or not
  energy <1-5>       record energy level
  rest [seconds]     start the rest timer
  pause | resume     pause or resume the rest timer
  skip               end the rest now
  +<seconds>         add time to the rest
  status             show the workout
  finish             save the workout and quit
  abandon            discard the workout and quit
  quit               leave the shell (the workout is kept)`

var sessionCmd = &cobra.Command{
	Use:   "session [routine]",
	Short: "Log a workout interactively",
	Long: `Open an interactive shell for the workout in progress, starting one from
the given routine if none is active.

Each logged set starts the rest timer, which beeps when it runs out while
you keep typing.

` + shellHelp,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sessions.Active() {
			if len(args) == 0 {
				return fmt.Errorf("no workout in progress; give a routine to start one")
			}
			r, err := resolveRoutine(cmd.Context(), repo, args[0])
			if err != nil {
				return err
			}
			sessions.SelectRoutine(r.ID.String())
			if err := sessions.Start(r, r.Exercises); err != nil {
				return err
			}
		}

		sh := newShell(sessions, repo, os.Stdout)
		return sh.run(cmd.Context(), os.Stdin)
	},
}

type shell struct {
	m    *session.Manager
	repo session.WorkoutWriter
	out  io.Writer
}

func newShell(m *session.Manager, repo session.WorkoutWriter, out io.Writer) *shell {
	return &shell{m: m, repo: repo, out: out}
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	unsubscribe := sh.m.Timer().Subscribe(func(st timer.Status) {
		if st.Expired {
			fmt.Fprintln(sh.out, color.GreenString("\n⏱  rest over"))
		}
	})
	defer unsubscribe()

	if err := sh.exec(ctx, "status"); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, sh.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}

		err := sh.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(sh.out, color.RedString("✗ %v", err))
		}
	}
}

var errQuit = errors.New("quit")

func (sh *shell) prompt() string {
	cur, ok := sh.m.Current()
	if !ok {
		return "> "
	}
	name := ""
	if ex, ok := cur.CurrentExercise(); ok {
		name = ex.Name
	}
	if st := sh.m.Timer().Status(); st.Active() {
		rest := formatRest(st.Remaining)
		if st.State == timer.Paused {
			rest += " paused"
		}
		return fmt.Sprintf("%s [%s]> ", name, rest)
	}
	return name + "> "
}

// exec runs one shell line.
func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := fields[0], fields[1:]
	t := sh.m.Timer()

	switch verb {
	case "log", "l":
		return sh.logSet(line)
	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm <set-id>")
		}
		return sh.m.RemoveSet(args[0])
	case "next", "n":
		sh.m.NextExercise()
	case "prev", "p":
		sh.m.PreviousExercise()
	case "goto":
		if len(args) != 1 {
			return fmt.Errorf("usage: goto <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid exercise number: %s", args[0])
		}
		sh.m.SetCurrentExercise(n - 1)
	case "done", "undone":
		cur, ok := sh.m.Current()
		if !ok {
			return session.ErrNoSession
		}
		ex, _ := cur.CurrentExercise()
		if verb == "done" {
			return sh.m.MarkExerciseComplete(ex.Name)
		}
		return sh.m.MarkExerciseIncomplete(ex.Name)
	case "energy":
		if len(args) != 1 {
			return fmt.Errorf("usage: energy <1-5>")
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid energy level: %s", args[0])
		}
		return sh.m.SetEnergyLevel(level)
	case "rest", "r":
		var d time.Duration
		if len(args) == 1 {
			secs, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid rest duration: %s", args[0])
			}
			d = time.Duration(secs) * time.Second
		}
		t.Start(d)
	case "pause":
		t.Pause()
	case "resume":
		t.Resume()
	case "skip":
		t.Skip()
	case "status", "s":
		cur, ok := sh.m.Current()
		if !ok {
			return session.ErrNoSession
		}
		printSession(sh.out, cur, sh.m.Now())
	case "finish":
		w, err := session.Finish(ctx, sh.repo, sh.m)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, color.GreenString("✓ Saved %s (%d sets)", w.RoutineName, len(w.Sets)))
		return errQuit
	case "abandon":
		sh.m.End()
		fmt.Fprintln(sh.out, color.YellowString("✗ Workout discarded"))
		return errQuit
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	default:
		if strings.HasPrefix(verb, "+") {
			secs, err := strconv.Atoi(verb[1:])
			if err != nil {
				return fmt.Errorf("invalid extension: %s", verb)
			}
			t.Extend(time.Duration(secs) * time.Second)
			return nil
		}
		return fmt.Errorf("unknown command %q (type help)", verb)
	}
	return nil
}

// logSet parses "log 60kg=10 45kg=4 i:3 c:4 # comment" and starts the rest timer.
func (sh *shell) logSet(line string) error {
	cur, ok := sh.m.Current()
	if !ok {
		return session.ErrNoSession
	}
	ex, ok := cur.CurrentExercise()
	if !ok {
		return fmt.Errorf("no current exercise")
	}

	line, comment, _ := strings.Cut(line, "#")
	in := session.SetInput{
		ExerciseName: ex.Name,
		Comment:      strings.TrimSpace(comment),
	}

	var entries []string
	for _, f := range strings.Fields(line)[1:] {
		switch {
		case strings.HasPrefix(f, "i:"):
			n, err := strconv.Atoi(f[2:])
			if err != nil {
				return fmt.Errorf("invalid intensity: %s", f)
			}
			in.Intensity = n
		case strings.HasPrefix(f, "c:"):
			n, err := strconv.Atoi(f[2:])
			if err != nil {
				return fmt.Errorf("invalid correctness: %s", f)
			}
			in.Correctness = n
		default:
			entries = append(entries, f)
		}
	}

	weights, err := parseWeights(entries)
	if err != nil {
		return err
	}
	in.Weights = weights

	st, err := sh.m.LogSet(in)
	if err != nil {
		if in.Intensity == 0 || in.Correctness == 0 {
			return fmt.Errorf("%w (rate the set with i:N c:N)", err)
		}
		return err
	}
	printSet(sh.out, st)
	sh.m.Timer().Start(0)
	return nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
