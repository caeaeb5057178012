// ABOUTME: Tests for Workout, WorkoutSet, Routine and Exercise models.
// ABOUTME: Validates constructors and builder methods.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWorkout(t *testing.T) {
	id := uuid.New()
	start := time.Now().Add(-45 * time.Minute)
	w := NewWorkout(id, uuid.New(), "Push Day", start)

	if w.ID != id {
		t.Errorf("ID = %v, want %v", w.ID, id)
	}
	if w.RoutineName != "Push Day" {
		t.Errorf("RoutineName = %s, want Push Day", w.RoutineName)
	}
	if w.EnergyLevel != 3 {
		t.Errorf("EnergyLevel = %d, want 3", w.EnergyLevel)
	}
	if w.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestWorkoutWithEnd(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	w := NewWorkout(uuid.New(), uuid.New(), "Legs", start).
		WithEnd(start.Add(44*time.Minute + 40*time.Second))

	if w.EndTime == nil {
		t.Fatal("expected EndTime to be set")
	}
	if w.DurationMinutes == nil || *w.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %v, want 45", w.DurationMinutes)
	}
}

func TestWorkoutSetTotalReps(t *testing.T) {
	s := WorkoutSet{Weights: map[string]int{"50kg": 10, "45kg": 8}}
	if got := s.TotalReps(); got != 18 {
		t.Errorf("TotalReps() = %d, want 18", got)
	}

	labels := s.WeightLabels()
	if len(labels) != 2 || labels[0] != "45kg" || labels[1] != "50kg" {
		t.Errorf("WeightLabels() = %v, want [45kg 50kg]", labels)
	}
}

func TestRoutineAddExercise(t *testing.T) {
	r := NewRoutine("Upper")
	if !r.Active {
		t.Error("expected new routine to be active")
	}

	r.AddExercise("Bench Press", 3, 10, 60)
	ex := r.AddExercise("Row", 3, 12, 50)

	if ex.OrderIndex != 1 {
		t.Errorf("OrderIndex = %d, want 1", ex.OrderIndex)
	}
	if ex.RoutineID != r.ID {
		t.Error("expected RoutineID to match routine")
	}
	if len(r.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(r.Exercises))
	}
}

func TestSortExercises(t *testing.T) {
	rid := uuid.New()
	exercises := []Exercise{
		*NewExercise(rid, "C", 2),
		*NewExercise(rid, "A", 0),
		*NewExercise(rid, "B", 1),
	}

	SortExercises(exercises)

	for i, want := range []string{"A", "B", "C"} {
		if exercises[i].Name != want {
			t.Errorf("exercises[%d] = %s, want %s", i, exercises[i].Name, want)
		}
	}
}
