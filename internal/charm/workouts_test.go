// ABOUTME: Unit tests for Charm-based routine and workout storage.
// ABOUTME: Tests CRUD, ordering, prefix lookup and cascade deletes.
package charm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
	"github.com/harperreed/gymlog/internal/storage"
)

func newTestRoutine(name string) *models.Routine {
	r := models.NewRoutine(name)
	r.AddExercise("Squat", 3, 5, 100)
	r.AddExercise("Bench", 3, 5, 80)
	r.AddExercise("Row", 3, 8, 60)
	return r
}

func newTestWorkout(r *models.Routine, start time.Time) *models.Workout {
	w := models.NewWorkout(uuid.New(), r.ID, r.Name, start).
		WithEnd(start.Add(50 * time.Minute)).
		WithEnergyLevel(4)
	for i, name := range []string{"Squat", "Squat", "Row"} {
		w.Sets = append(w.Sets, models.WorkoutSet{
			ID:           uuid.New(),
			WorkoutID:    w.ID,
			ExerciseName: name,
			SetNumber:    i + 1,
			Weights:      map[string]int{"100kg": 5},
			Intensity:    3,
			Correctness:  4,
			CreatedAt:    start.Add(time.Duration(i+1) * time.Minute),
		})
	}
	return w
}

func TestRoutineCRUD(t *testing.T) {
	c, store := setupTestClient(t)
	ctx := context.Background()

	r := newTestRoutine("Full Body")
	if err := c.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}
	if store.count(ExercisePrefix) != 3 {
		t.Errorf("exercise keys = %d, want 3", store.count(ExercisePrefix))
	}

	got, err := c.GetRoutine(ctx, r.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Full Body" || len(got.Exercises) != 3 || got.Exercises[2].Name != "Row" {
		t.Errorf("routine = %+v", got)
	}

	got.Name = "Upper"
	got.Exercises = got.Exercises[1:]
	if err := c.UpdateRoutine(ctx, got); err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}
	exercises, err := c.ListExercises(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(exercises) != 2 || exercises[0].Name != "Bench" {
		t.Errorf("exercises after update = %+v", exercises)
	}

	if err := c.DeleteRoutine(ctx, r.ID.String()); err != nil {
		t.Fatalf("DeleteRoutine failed: %v", err)
	}
	if store.count(ExercisePrefix) != 0 {
		t.Error("exercises not cascaded on routine delete")
	}
	if _, err := c.GetRoutine(ctx, r.ID.String()); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRoutineDuplicate(t *testing.T) {
	c, _ := setupTestClient(t)
	ctx := context.Background()
	r := newTestRoutine("Push")
	if err := c.CreateRoutine(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := c.CreateRoutine(ctx, r); err == nil {
		t.Error("expected error for duplicate routine")
	}
}

func TestUpdateRoutineNotFound(t *testing.T) {
	c, _ := setupTestClient(t)
	err := c.UpdateRoutine(context.Background(), models.NewRoutine("Ghost"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListActiveRoutines(t *testing.T) {
	c, _ := setupTestClient(t)
	ctx := context.Background()

	older := newTestRoutine("A")
	older.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := newTestRoutine("B")
	newer.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	hidden := newTestRoutine("C").WithInactive()

	for _, r := range []*models.Routine{newer, hidden, older} {
		if err := c.CreateRoutine(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	routines, err := c.ListActiveRoutines(ctx)
	if err != nil {
		t.Fatalf("ListActiveRoutines failed: %v", err)
	}
	if len(routines) != 2 || routines[0].Name != "A" || routines[1].Name != "B" {
		t.Fatalf("routines = %+v", routines)
	}
	if len(routines[0].Exercises) != 3 {
		t.Errorf("exercises not attached: %d", len(routines[0].Exercises))
	}
}

func TestWorkoutCRUD(t *testing.T) {
	c, store := setupTestClient(t)
	ctx := context.Background()
	r := newTestRoutine("Full Body")

	w := newTestWorkout(r, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	if err := c.SaveWorkout(ctx, w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}
	if err := c.SaveWorkout(ctx, w); err == nil {
		t.Error("expected error saving the same workout twice")
	}

	got, err := c.GetWorkout(ctx, w.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if got.RoutineName != "Full Body" || got.EnergyLevel != 4 || *got.DurationMinutes != 50 {
		t.Errorf("workout = %+v", got)
	}
	if len(got.Sets) != 3 || got.Sets[2].ExerciseName != "Row" {
		t.Errorf("sets = %+v", got.Sets)
	}

	n, err := c.DeleteWorkouts(ctx, w.ID.String())
	if err != nil || n != 1 {
		t.Fatalf("DeleteWorkouts = %d, %v", n, err)
	}
	if store.count(WorkoutSetPrefix) != 0 {
		t.Error("sets not cascaded on workout delete")
	}
}

func TestListWorkoutsOrderAndLimit(t *testing.T) {
	c, _ := setupTestClient(t)
	ctx := context.Background()
	r := newTestRoutine("Legs")

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := c.SaveWorkout(ctx, newTestWorkout(r, base.AddDate(0, 0, i))); err != nil {
			t.Fatal(err)
		}
	}

	workouts, err := c.ListWorkouts(ctx, 2)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 2 {
		t.Fatalf("len = %d, want 2", len(workouts))
	}
	if !workouts[0].StartTime.Equal(base.AddDate(0, 0, 2)) {
		t.Errorf("first workout start = %v", workouts[0].StartTime)
	}
	if len(workouts[0].Sets) != 0 {
		t.Error("list should not load sets")
	}
}

func TestDeleteWorkoutsMissingLeavesOthers(t *testing.T) {
	c, store := setupTestClient(t)
	ctx := context.Background()
	w := newTestWorkout(newTestRoutine("Pull"), time.Now())
	if err := c.SaveWorkout(ctx, w); err != nil {
		t.Fatal(err)
	}

	if _, err := c.DeleteWorkouts(ctx, w.ID.String(), "ffffffff"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if store.count(WorkoutPrefix) != 1 || store.count(WorkoutSetPrefix) != 3 {
		t.Error("failed delete should not remove anything")
	}
}

func TestGetAllDataAndImport(t *testing.T) {
	src, _ := setupTestClient(t)
	ctx := context.Background()
	r := newTestRoutine("Full Body").WithInactive()
	if err := src.CreateRoutine(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := src.SaveWorkout(ctx, newTestWorkout(r, time.Now())); err != nil {
		t.Fatal(err)
	}

	data, err := src.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(data.Routines) != 1 || len(data.Workouts) != 1 || len(data.Workouts[0].Sets) != 3 {
		t.Fatalf("export = %+v", data)
	}

	dst, store := setupTestClient(t)
	if err := dst.ImportData(ctx, data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if store.count(ExercisePrefix) != 3 || store.count(WorkoutSetPrefix) != 3 {
		t.Error("import incomplete")
	}
}
