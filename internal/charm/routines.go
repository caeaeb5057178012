// ABOUTME: Routine and Exercise operations for Charm KV storage.
// ABOUTME: Exercises live under their own prefix and are cascaded manually.
package charm

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

// CreateRoutine stores a routine and its exercises.
func (c *Client) CreateRoutine(_ context.Context, r *models.Routine) error {
	return c.batch(func(tx *writer) error {
		key := RoutinePrefix + r.ID.String()
		exists, err := tx.exists(key)
		if err != nil {
			return fmt.Errorf("create routine: %w", err)
		}
		if exists {
			return fmt.Errorf("create routine: %s already exists", r.ID)
		}
		return c.writeRoutine(tx, r)
	})
}

// GetRoutine retrieves a routine by ID or ID prefix with its exercises in order.
func (c *Client) GetRoutine(ctx context.Context, idOrPrefix string) (*models.Routine, error) {
	data, err := c.getByIDPrefix(RoutinePrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get routine: %w", err)
	}

	r, err := unmarshalJSON[models.Routine](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal routine: %w", err)
	}

	if err := c.attachExercises(ctx, []*models.Routine{r}); err != nil {
		return nil, err
	}
	return r, nil
}

// ListActiveRoutines retrieves active routines, oldest first, with their exercises.
func (c *Client) ListActiveRoutines(ctx context.Context) ([]*models.Routine, error) {
	return c.listRoutines(ctx, true)
}

func (c *Client) listRoutines(ctx context.Context, activeOnly bool) ([]*models.Routine, error) {
	allData, err := c.listByPrefix(RoutinePrefix)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	var routines []*models.Routine
	for _, data := range allData {
		r, err := unmarshalJSON[models.Routine](data)
		if err != nil {
			c.logger.Warn("skipping unreadable routine", "err", err)
			continue
		}
		if activeOnly && !r.Active {
			continue
		}
		routines = append(routines, r)
	}

	sort.Slice(routines, func(i, j int) bool {
		if routines[i].CreatedAt.Equal(routines[j].CreatedAt) {
			return routines[i].Name < routines[j].Name
		}
		return routines[i].CreatedAt.Before(routines[j].CreatedAt)
	})

	if err := c.attachExercises(ctx, routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// ListExercises retrieves the exercises of a routine ordered by OrderIndex.
func (c *Client) ListExercises(_ context.Context, routineID uuid.UUID) ([]*models.Exercise, error) {
	all, err := c.allExercises()
	if err != nil {
		return nil, err
	}

	var exercises []*models.Exercise
	for _, ex := range all {
		if ex.RoutineID == routineID {
			exercises = append(exercises, ex)
		}
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].OrderIndex < exercises[j].OrderIndex
	})
	return exercises, nil
}

// UpdateRoutine renames the routine, updates its active flag and replaces its exercises.
func (c *Client) UpdateRoutine(_ context.Context, r *models.Routine) error {
	return c.batch(func(tx *writer) error {
		exists, err := tx.exists(RoutinePrefix + r.ID.String())
		if err != nil {
			return fmt.Errorf("update routine: %w", err)
		}
		if !exists {
			return fmt.Errorf("update routine: %w: %s", storage.ErrNotFound, r.ID)
		}

		if err := c.deleteExercisesLocked(tx, r.ID); err != nil {
			return fmt.Errorf("update routine: %w", err)
		}
		return c.writeRoutine(tx, r)
	})
}

// DeleteRoutine removes a routine's exercises first, then the routine.
func (c *Client) DeleteRoutine(_ context.Context, idOrPrefix string) error {
	return c.batch(func(tx *writer) error {
		key, err := c.resolveKey(RoutinePrefix, idOrPrefix)
		if err != nil {
			return fmt.Errorf("delete routine: %w", err)
		}
		id, err := uuid.Parse(extractID(key, RoutinePrefix))
		if err != nil {
			return fmt.Errorf("delete routine: %w", err)
		}

		if err := c.deleteExercisesLocked(tx, id); err != nil {
			return fmt.Errorf("delete routine exercises: %w", err)
		}
		if err := tx.delete(key); err != nil {
			return fmt.Errorf("delete routine: %w", err)
		}
		return nil
	})
}

// writeRoutine stores the routine row and each exercise. Caller holds mu.
func (c *Client) writeRoutine(tx *writer, r *models.Routine) error {
	row := *r
	row.Exercises = nil
	if err := tx.put(RoutinePrefix+r.ID.String(), row); err != nil {
		return err
	}

	for i := range r.Exercises {
		ex := &r.Exercises[i]
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.RoutineID = r.ID
		if err := tx.put(ExercisePrefix+ex.ID.String(), ex); err != nil {
			return err
		}
	}
	return nil
}

// deleteExercisesLocked removes every exercise of routineID. Caller holds mu.
func (c *Client) deleteExercisesLocked(tx *writer, routineID uuid.UUID) error {
	all, err := c.listByPrefixLocked(ExercisePrefix)
	if err != nil {
		return err
	}
	for _, data := range all {
		ex, err := unmarshalJSON[models.Exercise](data)
		if err != nil || ex.RoutineID != routineID {
			continue
		}
		if err := tx.delete(ExercisePrefix + ex.ID.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) allExercises() ([]*models.Exercise, error) {
	allData, err := c.listByPrefix(ExercisePrefix)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	var exercises []*models.Exercise
	for _, data := range allData {
		ex, err := unmarshalJSON[models.Exercise](data)
		if err != nil {
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises, nil
}

func (c *Client) attachExercises(_ context.Context, routines []*models.Routine) error {
	if len(routines) == 0 {
		return nil
	}
	all, err := c.allExercises()
	if err != nil {
		return err
	}

	byRoutine := make(map[uuid.UUID][]models.Exercise)
	for _, ex := range all {
		byRoutine[ex.RoutineID] = append(byRoutine[ex.RoutineID], *ex)
	}
	for _, r := range routines {
		r.Exercises = byRoutine[r.ID]
		models.SortExercises(r.Exercises)
	}
	return nil
}
