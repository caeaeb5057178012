// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON backups round-trip and the YAML summary layout.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"gopkg.in/yaml.v3"
)

func seedTestDB(t *testing.T, db *DB) (*models.Routine, *models.Workout) {
	t.Helper()
	ctx := context.Background()

	r := newTestRoutine("Full Body")
	if err := db.CreateRoutine(ctx, r); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}
	w := newTestWorkout(r, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	if err := db.SaveWorkout(ctx, w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}
	return r, w
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedTestDB(t, db)

	data, err := ExportJSON(context.Background(), db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.Tool != "gymlog" {
		t.Errorf("Expected tool gymlog, got %s", export.Tool)
	}
	if len(export.Routines) != 1 || len(export.Routines[0].Exercises) != 3 {
		t.Errorf("routines not exported with exercises: %+v", export.Routines)
	}
	if len(export.Workouts) != 1 || len(export.Workouts[0].Sets) != 3 {
		t.Errorf("workouts not exported with sets: %+v", export.Workouts)
	}
}

func TestExportIncludesInactiveRoutines(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.CreateRoutine(ctx, newTestRoutine("Old").WithInactive()); err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	data, err := db.GetAllData(ctx)
	if err != nil {
		t.Fatalf("GetAllData failed: %v", err)
	}
	if len(data.Routines) != 1 || data.Routines[0].Active {
		t.Errorf("inactive routine missing from export: %+v", data.Routines)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	r, w := seedTestDB(t, db)

	data, err := ExportYAML(context.Background(), db)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed struct {
		Tool     string `yaml:"tool"`
		Routines []struct {
			ID        string   `yaml:"id"`
			Name      string   `yaml:"name"`
			Exercises []string `yaml:"exercises"`
		} `yaml:"routines"`
		Workouts []struct {
			ID        string              `yaml:"id"`
			Routine   string              `yaml:"routine"`
			Duration  int                 `yaml:"duration_minutes"`
			Exercises map[string][]string `yaml:"exercises"`
		} `yaml:"workouts"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	if parsed.Tool != "gymlog" {
		t.Errorf("tool = %s", parsed.Tool)
	}
	if len(parsed.Routines) != 1 || parsed.Routines[0].ID != r.ID.String()[:8] {
		t.Fatalf("routines = %+v", parsed.Routines)
	}
	if parsed.Routines[0].Exercises[0] != "Squat 3x5 @ 100" {
		t.Errorf("exercise line = %q", parsed.Routines[0].Exercises[0])
	}

	if len(parsed.Workouts) != 1 {
		t.Fatalf("workouts = %+v", parsed.Workouts)
	}
	yw := parsed.Workouts[0]
	if yw.ID != w.ID.String()[:8] || yw.Routine != "Full Body" || yw.Duration != 50 {
		t.Errorf("workout = %+v", yw)
	}
	if len(yw.Exercises["Squat"]) != 2 {
		t.Errorf("squat sets = %v", yw.Exercises["Squat"])
	}
	if got := yw.Exercises["Row"][0]; got != "#1 45kg×4 50kg×10 (i2 c5)" {
		t.Errorf("row set line = %q", got)
	}
}

func TestExportEmpty(t *testing.T) {
	db := setupTestDB(t)

	data, err := ExportJSON(context.Background(), db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"version": "1.0"`) {
		t.Errorf("empty export missing version: %s", data)
	}

	if _, err := ExportYAML(context.Background(), db); err != nil {
		t.Errorf("ExportYAML on empty DB failed: %v", err)
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	r, w := seedTestDB(t, src)
	ctx := context.Background()

	raw, err := ExportJSON(ctx, src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	data, err := ParseJSON(raw)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ImportData(ctx, data); err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}

	gotR, err := dst.GetRoutine(ctx, r.ID.String())
	if err != nil {
		t.Fatalf("GetRoutine failed: %v", err)
	}
	if len(gotR.Exercises) != 3 {
		t.Errorf("imported exercises = %d, want 3", len(gotR.Exercises))
	}

	gotW, err := dst.GetWorkout(ctx, w.ID.String())
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if len(gotW.Sets) != 3 || gotW.EnergyLevel != 4 {
		t.Errorf("imported workout = %+v", gotW)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON([]byte(`{nope`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ParseJSON([]byte(`{"routines": []}`)); err == nil {
		t.Error("expected error for missing version")
	}
}
