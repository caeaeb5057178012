// ABOUTME: Tests for the SQLite Repository implementation.
// ABOUTME: Verifies routine and workout CRUD, prefixes and cascading deletes.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "gymlog.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newTestRoutine(name string) *models.Routine {
	r := models.NewRoutine(name)
	r.AddExercise("Squat", 3, 5, 100)
	r.AddExercise("Bench Press", 3, 8, 60)
	r.AddExercise("Row", 3, 10, 50)
	return r
}

func newTestWorkout(r *models.Routine, start time.Time) *models.Workout {
	w := models.NewWorkout(uuid.New(), r.ID, r.Name, start).
		WithEnd(start.Add(50 * time.Minute)).
		WithEnergyLevel(4)

	comment := "depth ok"
	for i := 1; i <= 2; i++ {
		w.Sets = append(w.Sets, models.WorkoutSet{
			ID:           uuid.New(),
			ExerciseName: "Squat",
			SetNumber:    i,
			Weights:      map[string]int{"100kg": 5},
			Intensity:    4,
			Correctness:  3,
			Comment:      &comment,
			CreatedAt:    start.Add(time.Duration(i) * time.Minute),
		})
	}
	w.Sets = append(w.Sets, models.WorkoutSet{
		ID:           uuid.New(),
		ExerciseName: "Row",
		SetNumber:    1,
		Weights:      map[string]int{"50kg": 10, "45kg": 4},
		Intensity:    2,
		Correctness:  5,
		CreatedAt:    start.Add(10 * time.Minute),
	})
	return w
}

func TestCreateAndGetRoutine(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Full Body")
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	got, err := db.GetRoutine(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Full Body" || !got.Active {
		t.Errorf("routine = %+v", got)
	}
	if len(got.Exercises) != 3 {
		t.Fatalf("len(Exercises) = %d, want 3", len(got.Exercises))
	}
	for i, want := range []string{"Squat", "Bench Press", "Row"} {
		if got.Exercises[i].Name != want || got.Exercises[i].OrderIndex != i {
			t.Errorf("Exercises[%d] = %s/%d, want %s/%d", i, got.Exercises[i].Name, got.Exercises[i].OrderIndex, want, i)
		}
	}
	if got.Exercises[1].Weight != 60 || got.Exercises[1].Reps != 8 {
		t.Errorf("exercise targets not stored: %+v", got.Exercises[1])
	}
	if got.CreatedAt.Unix() != r.CreatedAt.Unix() {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, r.CreatedAt)
	}
}

func TestGetRoutineByPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Push")
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	got, err := db.GetRoutine(ctx, r.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetRoutine by prefix failed: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, r.ID)
	}

	if _, err := db.GetRoutine(ctx, "ffffffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRoutine(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestGetRoutineAmbiguousPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if err := db.CreateRoutine(ctx, models.NewRoutine("R")); err != nil {
			t.Fatalf("CreateRoutine failed: %v", err)
		}
	}

	// Twenty v4 UUIDs cannot all start with distinct hex digits.
	found := false
	for _, c := range "0123456789abcdef" {
		_, err := db.GetRoutine(ctx, string(c))
		if errors.Is(err, ErrAmbiguous) {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected an ambiguous single-character prefix")
	}
}

func TestListActiveRoutines(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := newTestRoutine("Older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTestRoutine("Newer")
	retired := newTestRoutine("Retired").WithInactive()

	for _, r := range []*models.Routine{newer, retired, older} {
		if err := db.CreateRoutine(ctx, r); err != nil {
			t.Fatalf("CreateRoutine failed: %v", err)
		}
	}

	routines, err := db.ListActiveRoutines(ctx)
	if err != nil {
		t.Fatalf("ListActiveRoutines failed: %v", err)
	}
	if len(routines) != 2 {
		t.Fatalf("len = %d, want 2", len(routines))
	}
	if routines[0].Name != "Older" || routines[1].Name != "Newer" {
		t.Errorf("order = %s, %s; want Older, Newer", routines[0].Name, routines[1].Name)
	}
	if len(routines[0].Exercises) != 3 {
		t.Errorf("exercises not attached: %d", len(routines[0].Exercises))
	}
}

func TestListActiveRoutinesEmpty(t *testing.T) {
	db := setupTestDB(t)

	routines, err := db.ListActiveRoutines(context.Background())
	if err != nil {
		t.Fatalf("ListActiveRoutines failed: %v", err)
	}
	if len(routines) != 0 {
		t.Errorf("len = %d, want 0", len(routines))
	}
}

func TestUpdateRoutineReplacesExercises(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Legs")
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	r.Name = "Leg Day"
	r.Exercises = nil
	r.AddExercise("Deadlift", 1, 5, 140)
	if err := db.UpdateRoutine(ctx, r); err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}

	got, err := db.GetRoutine(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if got.Name != "Leg Day" {
		t.Errorf("Name = %s, want Leg Day", got.Name)
	}
	if len(got.Exercises) != 1 || got.Exercises[0].Name != "Deadlift" {
		t.Errorf("exercises not replaced: %+v", got.Exercises)
	}

	missing := models.NewRoutine("Ghost")
	if err := db.UpdateRoutine(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRoutine(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRoutine(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Temp")
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}
	w := newTestWorkout(r, time.Now())
	if err := db.SaveWorkout(ctx, w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}

	if err := db.DeleteRoutine(ctx, r.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteRoutine failed: %v", err)
	}

	if _, err := db.GetRoutine(ctx, r.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRoutine after delete error = %v, want ErrNotFound", err)
	}
	exercises, err := db.ListExercises(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListExercises failed: %v", err)
	}
	if len(exercises) != 0 {
		t.Errorf("exercises left behind: %d", len(exercises))
	}

	// History survives the routine.
	if _, err := db.GetWorkout(ctx, w.ID.String()); err != nil {
		t.Errorf("workout lost with its routine: %v", err)
	}
}

func TestSaveAndGetWorkout(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Full Body")
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	w := newTestWorkout(r, start)

	if err := db.SaveWorkout(ctx, w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}

	got, err := db.GetWorkout(ctx, w.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}

	if got.RoutineID != r.ID || got.RoutineName != "Full Body" || got.EnergyLevel != 4 {
		t.Errorf("workout row = %+v", got)
	}
	if !got.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, start)
	}
	if got.EndTime == nil || !got.EndTime.Equal(start.Add(50*time.Minute)) {
		t.Errorf("EndTime = %v", got.EndTime)
	}
	if got.DurationMinutes == nil || *got.DurationMinutes != 50 {
		t.Errorf("DurationMinutes = %v, want 50", got.DurationMinutes)
	}

	if len(got.Sets) != 3 {
		t.Fatalf("len(Sets) = %d, want 3", len(got.Sets))
	}
	if got.Sets[0].WorkoutID != w.ID || got.Sets[0].Comment == nil || *got.Sets[0].Comment != "depth ok" {
		t.Errorf("first set = %+v", got.Sets[0])
	}
	row := got.Sets[2]
	if row.Weights["50kg"] != 10 || row.Weights["45kg"] != 4 || row.TotalReps() != 14 {
		t.Errorf("weights = %v", row.Weights)
	}
	if row.Comment != nil {
		t.Errorf("Comment = %v, want nil", *row.Comment)
	}
}

func TestSaveWorkoutIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	r := newTestRoutine("Dup")
	w := newTestWorkout(r, time.Now())
	w.Sets[1].ID = w.Sets[0].ID // duplicate primary key

	if err := db.SaveWorkout(ctx, w); err == nil {
		t.Fatal("expected SaveWorkout to fail on duplicate set id")
	}

	workouts, err := db.ListWorkouts(ctx, 0)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("workout row committed despite failed sets: %d", len(workouts))
	}
}

func TestListWorkouts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := newTestRoutine("Loop")

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		w := newTestWorkout(r, base.Add(time.Duration(i)*24*time.Hour))
		if err := db.SaveWorkout(ctx, w); err != nil {
			t.Fatalf("SaveWorkout failed: %v", err)
		}
		ids = append(ids, w.ID)
	}

	all, err := db.ListWorkouts(ctx, 0)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Error("workouts not ordered most recent first")
	}

	limited, err := db.ListWorkouts(ctx, 2)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len = %d, want 2", len(limited))
	}
}

func TestDeleteWorkouts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	r := newTestRoutine("Gone")

	w1 := newTestWorkout(r, time.Now().Add(-time.Hour))
	w2 := newTestWorkout(r, time.Now())
	w3 := newTestWorkout(r, time.Now().Add(time.Hour))
	for _, w := range []*models.Workout{w1, w2, w3} {
		if err := db.SaveWorkout(ctx, w); err != nil {
			t.Fatalf("SaveWorkout failed: %v", err)
		}
	}

	n, err := db.DeleteWorkouts(ctx, w1.ID.String(), w2.ID.String()[:8])
	if err != nil {
		t.Fatalf("DeleteWorkouts failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}

	var orphans int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM workout_sets WHERE workout_id IN (?, ?)`,
		w1.ID.String(), w2.ID.String()).Scan(&orphans); err != nil {
		t.Fatalf("count sets: %v", err)
	}
	if orphans != 0 {
		t.Errorf("orphaned sets = %d", orphans)
	}

	remaining, _ := db.ListWorkouts(ctx, 0)
	if len(remaining) != 1 || remaining[0].ID != w3.ID {
		t.Error("wrong workout survived")
	}

	if _, err := db.DeleteWorkouts(ctx, "deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteWorkouts(unknown) error = %v, want ErrNotFound", err)
	}
	if n, err := db.DeleteWorkouts(ctx); err != nil || n != 0 {
		t.Errorf("DeleteWorkouts() = %d, %v; want 0, nil", n, err)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	if got := DataDir(); got != "/tmp/xdg/gymlog" {
		t.Errorf("DataDir() = %s", got)
	}
	if got := DefaultDBPath(); got != "/tmp/xdg/gymlog/gymlog.db" {
		t.Errorf("DefaultDBPath() = %s", got)
	}
}
