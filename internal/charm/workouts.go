// ABOUTME: Workout and WorkoutSet operations for Charm KV storage.
// ABOUTME: Handles cascade deletes manually since KV has no foreign keys.
package charm

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// SaveWorkout stores the workout row and then every set, syncing once at the end.
func (c *Client) SaveWorkout(_ context.Context, w *models.Workout) error {
	return c.batch(func(tx *writer) error {
		key := WorkoutPrefix + w.ID.String()
		exists, err := tx.exists(key)
		if err != nil {
			return fmt.Errorf("save workout: %w", err)
		}
		if exists {
			return fmt.Errorf("save workout: %s already exists", w.ID)
		}

		row := *w
		row.Sets = nil
		if err := tx.put(key, row); err != nil {
			return fmt.Errorf("save workout: %w", err)
		}

		for i := range w.Sets {
			s := &w.Sets[i]
			s.WorkoutID = w.ID
			if err := tx.put(WorkoutSetPrefix+s.ID.String(), s); err != nil {
				return fmt.Errorf("save workout set: %w", err)
			}
		}
		return nil
	})
}

// GetWorkout retrieves a workout by ID or ID prefix with all of its sets.
func (c *Client) GetWorkout(_ context.Context, idOrPrefix string) (*models.Workout, error) {
	data, err := c.getByIDPrefix(WorkoutPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	w, err := unmarshalJSON[models.Workout](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal workout: %w", err)
	}

	sets, err := c.setsByWorkout()
	if err != nil {
		return nil, err
	}
	w.Sets = sets[w.ID]
	return w, nil
}

// ListWorkouts retrieves workouts most recent first, without their sets.
func (c *Client) ListWorkouts(_ context.Context, limit int) ([]*models.Workout, error) {
	allData, err := c.listByPrefix(WorkoutPrefix)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var workouts []*models.Workout
	for _, data := range allData {
		w, err := unmarshalJSON[models.Workout](data)
		if err != nil {
			c.logger.Warn("skipping unreadable workout", "err", err)
			continue
		}
		workouts = append(workouts, w)
	}

	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].StartTime.After(workouts[j].StartTime)
	})

	if limit > 0 && len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

// DeleteWorkouts removes the sets of each workout first, then the workout.
func (c *Client) DeleteWorkouts(_ context.Context, idsOrPrefixes ...string) (int, error) {
	if len(idsOrPrefixes) == 0 {
		return 0, nil
	}

	deleted := 0
	err := c.batch(func(tx *writer) error {
		keys := make([]string, 0, len(idsOrPrefixes))
		for _, p := range idsOrPrefixes {
			key, err := c.resolveKey(WorkoutPrefix, p)
			if err != nil {
				return fmt.Errorf("delete workouts: %w", err)
			}
			keys = append(keys, key)
		}

		for _, key := range keys {
			id, err := uuid.Parse(extractID(key, WorkoutPrefix))
			if err != nil {
				return fmt.Errorf("delete workouts: %w", err)
			}
			if err := c.deleteSetsLocked(tx, id); err != nil {
				return fmt.Errorf("delete workout sets: %w", err)
			}
			if err := tx.delete(key); err != nil {
				return fmt.Errorf("delete workout: %w", err)
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// deleteSetsLocked removes every set of workoutID. Caller holds mu.
func (c *Client) deleteSetsLocked(tx *writer, workoutID uuid.UUID) error {
	all, err := c.listByPrefixLocked(WorkoutSetPrefix)
	if err != nil {
		return err
	}
	for _, data := range all {
		s, err := unmarshalJSON[models.WorkoutSet](data)
		if err != nil || s.WorkoutID != workoutID {
			continue
		}
		if err := tx.delete(WorkoutSetPrefix + s.ID.String()); err != nil {
			return err
		}
	}
	return nil
}

// setsByWorkout groups every stored set by workout, ordered as logged.
func (c *Client) setsByWorkout() (map[uuid.UUID][]models.WorkoutSet, error) {
	allData, err := c.listByPrefix(WorkoutSetPrefix)
	if err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}

	out := make(map[uuid.UUID][]models.WorkoutSet)
	for _, data := range allData {
		s, err := unmarshalJSON[models.WorkoutSet](data)
		if err != nil {
			continue
		}
		out[s.WorkoutID] = append(out[s.WorkoutID], *s)
	}

	for id, sets := range out {
		sort.SliceStable(sets, func(i, j int) bool {
			if sets[i].CreatedAt.Equal(sets[j].CreatedAt) {
				return sets[i].SetNumber < sets[j].SetNumber
			}
			return sets[i].CreatedAt.Before(sets[j].CreatedAt)
		})
		out[id] = sets
	}
	return out, nil
}

// GetAllData retrieves every routine and every workout with its sets.
func (c *Client) GetAllData(ctx context.Context) (*storage.ExportData, error) {
	routines, err := c.listRoutines(ctx, false)
	if err != nil {
		return nil, err
	}

	workouts, err := c.ListWorkouts(ctx, 0)
	if err != nil {
		return nil, err
	}
	sets, err := c.setsByWorkout()
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		w.Sets = sets[w.ID]
	}

	return storage.NewExportData(routines, workouts), nil
}

// ImportData imports data from an export file.
func (c *Client) ImportData(ctx context.Context, data *storage.ExportData) error {
	return storage.ImportAll(ctx, c, data)
}
