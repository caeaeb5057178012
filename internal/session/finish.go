// ABOUTME: Persist-then-clear completion of the active workout.
// ABOUTME: The session is cleared only after the remote write succeeds.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

// WorkoutWriter stores a finished workout with all of its sets.
type WorkoutWriter interface {
	SaveWorkout(ctx context.Context, w *models.Workout) error
}

// Finish writes the active session to repo and then ends it. If the write
// fails the session is left untouched so the user can retry.
func Finish(ctx context.Context, repo WorkoutWriter, m *Manager) (*models.Workout, error) {
	s, ok := m.Current()
	if !ok {
		return nil, ErrNoSession
	}

	w, err := BuildWorkout(s, m.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := repo.SaveWorkout(ctx, w); err != nil {
		m.logger.Error("failed to save workout, keeping it for retry", "id", s.ID, "err", err)
		return nil, fmt.Errorf("save workout: %w", err)
	}

	m.endIf(s.ID)
	m.logger.Info("workout finished", "id", s.ID, "sets", len(w.Sets))
	return w, nil
}

// BuildWorkout converts a session snapshot into the stored workout row and set rows.
func BuildWorkout(s Session, end time.Time) (*models.Workout, error) {
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return nil, fmt.Errorf("parse workout id: %w", err)
	}

	w := models.NewWorkout(id, s.RoutineID, s.RoutineName, s.StartTime).
		WithEnd(end).
		WithEnergyLevel(s.EnergyLevel)
	w.CreatedAt = end

	for _, set := range s.Sets {
		setID, err := uuid.Parse(set.ID)
		if err != nil {
			return nil, fmt.Errorf("parse set id: %w", err)
		}
		w.Sets = append(w.Sets, models.WorkoutSet{
			ID:           setID,
			WorkoutID:    id,
			ExerciseName: set.ExerciseName,
			SetNumber:    set.SetNumber,
			Weights:      set.Weights,
			Intensity:    set.Intensity,
			Correctness:  set.Correctness,
			Comment:      set.Comment,
			CreatedAt:    set.CreatedAt,
		})
	}
	return w, nil
}
