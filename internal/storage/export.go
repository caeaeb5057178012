// ABOUTME: Export and import of routines and workouts.
// ABOUTME: JSON is the backup format; YAML is a readable summary.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/gymlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Routines   []*models.Routine `json:"routines" yaml:"routines"`
	Workouts   []*models.Workout `json:"workouts" yaml:"workouts"`
}

// NewExportData wraps routines and workouts in an export envelope.
func NewExportData(routines []*models.Routine, workouts []*models.Workout) *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "gymlog",
		Routines:   routines,
		Workouts:   workouts,
	}
}

// GetAllData retrieves every routine (active or not) and every workout with sets.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	routines, err := d.listRoutines(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	workouts, err := d.ListWorkouts(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	for _, w := range workouts {
		w.Sets, err = d.listSets(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("list workout sets: %w", err)
		}
	}

	return NewExportData(routines, workouts), nil
}

// ImportData imports data from an export file.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	return ImportAll(ctx, d, data)
}

// ImportAll writes every routine and workout of data into repo.
func ImportAll(ctx context.Context, repo Repository, data *ExportData) error {
	for _, r := range data.Routines {
		if err := repo.CreateRoutine(ctx, r); err != nil {
			return fmt.Errorf("import routine %s: %w", r.Name, err)
		}
	}
	for _, w := range data.Workouts {
		if err := repo.SaveWorkout(ctx, w); err != nil {
			return fmt.Errorf("import workout %s: %w", w.ID, err)
		}
	}
	return nil
}

// ExportJSON exports all data from repo as indented JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := repo.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ParseJSON decodes a JSON export.
func ParseJSON(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if data.Version == "" {
		return nil, fmt.Errorf("unmarshal JSON: missing version")
	}
	return &data, nil
}

// ExportYAML exports all data from repo as a readable YAML summary.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := repo.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Routines   []yamlRoutine `yaml:"routines"`
		Workouts   []yamlWorkout `yaml:"workouts"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Routines:   make([]yamlRoutine, 0, len(data.Routines)),
		Workouts:   make([]yamlWorkout, 0, len(data.Workouts)),
	}

	for _, r := range data.Routines {
		yr := yamlRoutine{
			ID:     r.ID.String()[:8],
			Name:   r.Name,
			Active: r.Active,
		}
		exercises := append([]models.Exercise(nil), r.Exercises...)
		models.SortExercises(exercises)
		for _, ex := range exercises {
			yr.Exercises = append(yr.Exercises, fmt.Sprintf("%s %dx%d @ %g", ex.Name, ex.Sets, ex.Reps, ex.Weight))
		}
		yamlData.Routines = append(yamlData.Routines, yr)
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:          w.ID.String()[:8],
			Routine:     w.RoutineName,
			Started:     w.StartTime.Format(time.RFC3339),
			EnergyLevel: w.EnergyLevel,
			Exercises:   map[string][]string{},
		}
		if w.DurationMinutes != nil {
			yw.DurationMinutes = *w.DurationMinutes
		}
		for _, s := range w.Sets {
			yw.Exercises[s.ExerciseName] = append(yw.Exercises[s.ExerciseName], formatSet(s))
		}
		yamlData.Workouts = append(yamlData.Workouts, yw)
	}

	return yaml.Marshal(yamlData)
}

type yamlRoutine struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Active    bool     `yaml:"active"`
	Exercises []string `yaml:"exercises,omitempty"`
}

type yamlWorkout struct {
	ID              string              `yaml:"id"`
	Routine         string              `yaml:"routine"`
	Started         string              `yaml:"started"`
	DurationMinutes int                 `yaml:"duration_minutes,omitempty"`
	EnergyLevel     int                 `yaml:"energy_level"`
	Exercises       map[string][]string `yaml:"exercises,omitempty"`
}

// formatSet renders a set as "#1 50kg×10 45kg×8 (i3 c4)".
func formatSet(s models.WorkoutSet) string {
	labels := s.WeightLabels()
	out := fmt.Sprintf("#%d", s.SetNumber)
	for _, label := range labels {
		out += fmt.Sprintf(" %s×%d", label, s.Weights[label])
	}
	out += fmt.Sprintf(" (i%d c%d)", s.Intensity, s.Correctness)
	if s.Comment != nil && *s.Comment != "" {
		out += " " + *s.Comment
	}
	return out
}
