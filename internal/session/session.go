// ABOUTME: Session and Set types describing an in-progress workout.
// ABOUTME: Also holds input types and the validation rules for logged sets.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// DefaultEnergyLevel is the energy level of a freshly started session.
const DefaultEnergyLevel = 3

// Session is the in-progress workout.
type Session struct {
	ID                   string
	RoutineID            uuid.UUID
	RoutineName          string
	Exercises            []models.Exercise // sorted by OrderIndex
	StartTime            time.Time
	CurrentExerciseIndex int
	EnergyLevel          int
	Sets                 []Set
	CompletedExercises   []string
}

// Set is a logged set. SetNumber is assigned at log time and never renumbered.
type Set struct {
	ID           string
	WorkoutID    string
	ExerciseName string
	SetNumber    int
	Weights      map[string]int // weight label -> reps
	Intensity    int
	Correctness  int
	Comment      *string
	CreatedAt    time.Time
}

// TotalReps sums reps across all weight entries.
func (s Set) TotalReps() int {
	total := 0
	for _, reps := range s.Weights {
		total += reps
	}
	return total
}

// SetInput is the caller-supplied part of a new set.
type SetInput struct {
	ExerciseName string
	Weights      map[string]int
	Intensity    int
	Correctness  int
	Comment      string
}

// SetUpdate holds the fields to change on a logged set. Nil fields are kept.
type SetUpdate struct {
	Weights     map[string]int
	Intensity   *int
	Correctness *int
	Comment     *string
}

// ExerciseStatus summarizes progress on one exercise.
type ExerciseStatus struct {
	Name      string
	Logged    int
	Target    int
	Completed bool
}

// CurrentExercise returns the exercise under the pointer.
func (s Session) CurrentExercise() (models.Exercise, bool) {
	if s.CurrentExerciseIndex < 0 || s.CurrentExerciseIndex >= len(s.Exercises) {
		return models.Exercise{}, false
	}
	return s.Exercises[s.CurrentExerciseIndex], true
}

// SetsFor returns the sets logged for an exercise in log order.
func (s Session) SetsFor(name string) []Set {
	var out []Set
	for _, set := range s.Sets {
		if set.ExerciseName == name {
			out = append(out, set)
		}
	}
	return out
}

// FindExercise looks up an exercise by case-insensitive name.
func (s Session) FindExercise(name string) (models.Exercise, bool) {
	for _, ex := range s.Exercises {
		if strings.EqualFold(ex.Name, name) {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

// canonicalName resolves name case-insensitively to a routine exercise, then
// to an ad-hoc exercise that already has sets. ok is false for unknown names.
func (s Session) canonicalName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if ex, ok := s.FindExercise(name); ok {
		return ex.Name, true
	}
	for _, set := range s.Sets {
		if strings.EqualFold(set.ExerciseName, name) {
			return set.ExerciseName, true
		}
	}
	return name, false
}

// Status reports progress on the exercise called name.
func (s Session) Status(name string) ExerciseStatus {
	name, _ = s.canonicalName(name)
	st := ExerciseStatus{Name: name, Logged: len(s.SetsFor(name))}
	if ex, ok := s.FindExercise(name); ok {
		st.Target = ex.Sets
	}
	for _, done := range s.CompletedExercises {
		if done == st.Name {
			st.Completed = true
		}
	}
	if st.Target > 0 && st.Logged >= st.Target {
		st.Completed = true
	}
	return st
}

func (s Session) clone() Session {
	c := s
	c.Exercises = append([]models.Exercise(nil), s.Exercises...)
	c.CompletedExercises = append([]string(nil), s.CompletedExercises...)
	c.Sets = make([]Set, len(s.Sets))
	for i, set := range s.Sets {
		c.Sets[i] = set.clone()
	}
	return c
}

func (s Set) clone() Set {
	c := s
	c.Weights = make(map[string]int, len(s.Weights))
	for k, v := range s.Weights {
		c.Weights[k] = v
	}
	if s.Comment != nil {
		comment := *s.Comment
		c.Comment = &comment
	}
	return c
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func validateWeights(weights map[string]int) error {
	if len(weights) == 0 {
		return invalid("weights", "at least one weight=reps entry is required")
	}
	for label, reps := range weights {
		if strings.TrimSpace(label) == "" {
			return invalid("weights", "weight label must not be empty")
		}
		if reps <= 0 {
			return invalid("weights", "reps for "+label+" must be positive")
		}
	}
	return nil
}

func validateScale(field string, v int) error {
	if v < 1 || v > 5 {
		return invalid(field, "must be between 1 and 5")
	}
	return nil
}

func validateSet(s Set) error {
	if strings.TrimSpace(s.ExerciseName) == "" {
		return invalid("exercise", "name must not be empty")
	}
	if err := validateWeights(s.Weights); err != nil {
		return err
	}
	if err := validateScale("intensity", s.Intensity); err != nil {
		return err
	}
	return validateScale("correctness", s.Correctness)
}
