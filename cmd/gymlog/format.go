// ABOUTME: Parsing and display helpers shared by gymlog commands.
// ABOUTME: Handles "label=reps" weights, "Name:3x10@60" exercise specs and session printing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/session"
	"github.com/harperreed/gymlog/internal/storage"
)

// parseWeights turns ["60kg=10", "bw=5"] into a weight label -> reps map.
func parseWeights(args []string) (map[string]int, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one weight=reps entry is required")
	}

	weights := make(map[string]int, len(args))
	for _, arg := range args {
		label, repsStr, ok := strings.Cut(arg, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, fmt.Errorf("invalid entry %q (use weight=reps, e.g. 60kg=10)", arg)
		}
		reps, err := strconv.Atoi(strings.TrimSpace(repsStr))
		if err != nil {
			return nil, fmt.Errorf("invalid reps in %q: %w", arg, err)
		}
		weights[label] += reps
	}
	return weights, nil
}

// isWeightArg reports whether arg looks like a weight=reps entry.
func isWeightArg(arg string) bool {
	return strings.Contains(arg, "=")
}

// parseExerciseSpec parses "Bench Press:3x10@60". Sets, reps and weight are optional.
func parseExerciseSpec(spec string) (name string, sets, reps int, weight float64, err error) {
	name, target, hasTarget := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, 0, 0, fmt.Errorf("exercise name is required in %q", spec)
	}
	if !hasTarget {
		return name, 0, 0, 0, nil
	}

	target = strings.TrimSpace(target)
	if before, after, ok := strings.Cut(target, "@"); ok {
		target = before
		weight, err = strconv.ParseFloat(strings.TrimSpace(after), 64)
		if err != nil {
			return "", 0, 0, 0, fmt.Errorf("invalid weight in %q", spec)
		}
	}

	setsStr, repsStr, ok := strings.Cut(strings.ToLower(target), "x")
	if !ok {
		return "", 0, 0, 0, fmt.Errorf("invalid target in %q (use SETSxREPS, e.g. 3x10)", spec)
	}
	if sets, err = strconv.Atoi(strings.TrimSpace(setsStr)); err != nil || sets < 0 {
		return "", 0, 0, 0, fmt.Errorf("invalid sets in %q", spec)
	}
	if reps, err = strconv.Atoi(strings.TrimSpace(repsStr)); err != nil || reps < 0 {
		return "", 0, 0, 0, fmt.Errorf("invalid reps in %q", spec)
	}
	return name, sets, reps, weight, nil
}

// resolveRoutine finds a routine by ID prefix or, failing that, by name.
func resolveRoutine(ctx context.Context, r storage.Repository, ref string) (*models.Routine, error) {
	routine, err := r.GetRoutine(ctx, ref)
	if err == nil {
		return routine, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	routines, err := r.ListActiveRoutines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	for _, candidate := range routines {
		if strings.EqualFold(candidate.Name, ref) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("routine not found: %s", ref)
}

func formatWeights(weights map[string]int) string {
	labels := make([]string, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s×%d", label, weights[label]))
	}
	return strings.Join(parts, " ")
}

func formatTarget(ex models.Exercise) string {
	if ex.Sets == 0 && ex.Reps == 0 {
		return ""
	}
	if ex.Weight > 0 {
		return fmt.Sprintf("%dx%d @ %g", ex.Sets, ex.Reps, ex.Weight)
	}
	return fmt.Sprintf("%dx%d", ex.Sets, ex.Reps)
}

func formatRest(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printSet(w io.Writer, st session.Set) {
	faint := color.New(color.Faint)
	fmt.Fprintf(w, "  %s #%d %s (i%d c%d)",
		faint.Sprint(shortID(st.ID)), st.SetNumber, formatWeights(st.Weights), st.Intensity, st.Correctness)
	if st.Comment != nil {
		fmt.Fprintf(w, " %s", faint.Sprint(*st.Comment))
	}
	fmt.Fprintln(w)
}

// printSession renders the workout with per-exercise progress.
func printSession(w io.Writer, s session.Session, now time.Time) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Fprintf(w, "%s  %s\n", bold.Sprint(s.RoutineName),
		faint.Sprintf("%d min · energy %d/5", int(now.Sub(s.StartTime).Minutes()), s.EnergyLevel))

	for i, ex := range s.Exercises {
		st := s.Status(ex.Name)
		marker := "  "
		if i == s.CurrentExerciseIndex {
			marker = color.CyanString("▸ ")
		}
		check := " "
		if st.Completed {
			check = color.GreenString("✓")
		}
		progress := fmt.Sprintf("%d", st.Logged)
		if st.Target > 0 {
			progress = fmt.Sprintf("%d/%d", st.Logged, st.Target)
		}
		fmt.Fprintf(w, "%s%s %s %s %s\n", marker, check, padRight(ex.Name, 20),
			padRight(progress, 6), faint.Sprint(formatTarget(ex)))

		for _, set := range s.SetsFor(ex.Name) {
			printSet(w, set)
		}
	}
}
