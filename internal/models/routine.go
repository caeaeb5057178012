// ABOUTME: Routine and Exercise models for planned workouts.
// ABOUTME: Exercises are ordered within a routine by OrderIndex.
package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Routine is a named, reusable list of exercises.
type Routine struct {
	ID        uuid.UUID  `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Active    bool       `json:"active" yaml:"active"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	Exercises []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated when fetching full routine
}

// NewRoutine creates an active Routine with generated UUID and current timestamp.
func NewRoutine(name string) *Routine {
	return &Routine{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

// AddExercise appends an exercise at the end of the routine's order.
func (r *Routine) AddExercise(name string, sets, reps int, weight float64) *Exercise {
	next := 0
	for _, ex := range r.Exercises {
		if ex.OrderIndex >= next {
			next = ex.OrderIndex + 1
		}
	}
	ex := NewExercise(r.ID, name, next).WithTarget(sets, reps, weight)
	r.Exercises = append(r.Exercises, *ex)
	return &r.Exercises[len(r.Exercises)-1]
}

// WithInactive marks the routine as inactive.
func (r *Routine) WithInactive() *Routine {
	r.Active = false
	return r
}

// Exercise is a single movement in a routine with its targets.
type Exercise struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	RoutineID  uuid.UUID `json:"routine_id" yaml:"routine_id"`
	Name       string    `json:"name" yaml:"name"`
	Sets       int       `json:"sets" yaml:"sets"`
	Reps       int       `json:"reps" yaml:"reps"`
	Weight     float64   `json:"weight" yaml:"weight"`
	OrderIndex int       `json:"order_index" yaml:"order_index"`
}

// NewExercise creates a new Exercise belonging to routineID.
func NewExercise(routineID uuid.UUID, name string, orderIndex int) *Exercise {
	return &Exercise{
		ID:         uuid.New(),
		RoutineID:  routineID,
		Name:       name,
		OrderIndex: orderIndex,
	}
}

// WithTarget sets the target sets, reps and weight.
func (e *Exercise) WithTarget(sets, reps int, weight float64) *Exercise {
	e.Sets = sets
	e.Reps = reps
	e.Weight = weight
	return e
}

// SortExercises orders exercises ascending by OrderIndex in place.
func SortExercises(exercises []Exercise) {
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].OrderIndex < exercises[j].OrderIndex
	})
}
