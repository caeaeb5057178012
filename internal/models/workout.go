// ABOUTME: Workout and WorkoutSet models for finished workouts.
// ABOUTME: A workout row is written once at finish together with all its sets.
package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Workout is a finished workout session as stored remotely.
type Workout struct {
	ID              uuid.UUID    `json:"id" yaml:"id"`
	RoutineID       uuid.UUID    `json:"routine_id" yaml:"routine_id"`
	RoutineName     string       `json:"routine_name" yaml:"routine_name"`
	StartTime       time.Time    `json:"start_time" yaml:"start_time"`
	EndTime         *time.Time   `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	DurationMinutes *int         `json:"duration,omitempty" yaml:"duration,omitempty"`
	EnergyLevel     int          `json:"energy_level" yaml:"energy_level"`
	CreatedAt       time.Time    `json:"created_at" yaml:"created_at"`
	Sets            []WorkoutSet `json:"sets,omitempty" yaml:"sets,omitempty"` // Populated when fetching full workout
}

// NewWorkout creates a Workout row for a session that started at start.
func NewWorkout(id, routineID uuid.UUID, routineName string, start time.Time) *Workout {
	return &Workout{
		ID:          id,
		RoutineID:   routineID,
		RoutineName: routineName,
		StartTime:   start,
		EnergyLevel: 3,
		CreatedAt:   time.Now(),
	}
}

// WithEnd sets the end time and the duration rounded to whole minutes.
func (w *Workout) WithEnd(end time.Time) *Workout {
	w.EndTime = &end
	minutes := int(math.Round(end.Sub(w.StartTime).Minutes()))
	w.DurationMinutes = &minutes
	return w
}

// WithEnergyLevel sets the subjective energy level.
func (w *Workout) WithEnergyLevel(level int) *Workout {
	w.EnergyLevel = level
	return w
}

// WorkoutSet is one logged set within a workout.
type WorkoutSet struct {
	ID           uuid.UUID      `json:"id" yaml:"id"`
	WorkoutID    uuid.UUID      `json:"workout_id" yaml:"workout_id"`
	ExerciseName string         `json:"exercise_name" yaml:"exercise_name"`
	SetNumber    int            `json:"set_number" yaml:"set_number"`
	Weights      map[string]int `json:"weights" yaml:"weights"`
	Intensity    int            `json:"intensity" yaml:"intensity"`
	Correctness  int            `json:"correctness" yaml:"correctness"`
	Comment      *string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	CreatedAt    time.Time      `json:"created_at" yaml:"created_at"`
}

// TotalReps sums the repetitions across every weight entry.
func (s *WorkoutSet) TotalReps() int {
	total := 0
	for _, reps := range s.Weights {
		total += reps
	}
	return total
}

// WeightLabels returns the weight labels in a stable order.
func (s *WorkoutSet) WeightLabels() []string {
	labels := make([]string, 0, len(s.Weights))
	for label := range s.Weights {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
