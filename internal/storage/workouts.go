// ABOUTME: Workout and WorkoutSet operations for SQLite storage.
// ABOUTME: A workout and all of its sets are written in one transaction.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

const workoutColumns = `id, routine_id, routine_name, start_time, end_time, duration, energy_level, created_at`

const setColumns = `id, workout_id, exercise_name, set_number, weights, intensity, correctness, comment, created_at`

// SaveWorkout stores the workout row and then all of its sets as one batch.
func (d *DB) SaveWorkout(ctx context.Context, w *models.Workout) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save workout: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var endTime sql.NullString
	if w.EndTime != nil {
		endTime = sql.NullString{String: formatTime(*w.EndTime), Valid: true}
	}
	var routineID sql.NullString
	if w.RoutineID != uuid.Nil {
		routineID = sql.NullString{String: w.RoutineID.String(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(),
		routineID,
		w.RoutineName,
		formatTime(w.StartTime),
		endTime,
		w.DurationMinutes,
		w.EnergyLevel,
		formatTime(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save workout: %w", err)
	}

	if err := insertSets(ctx, tx, w); err != nil {
		return fmt.Errorf("save workout sets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix with all of its sets.
func (d *DB) GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	id, err := d.resolveID(ctx, "workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if err != nil {
		return nil, err
	}

	w.Sets, err = d.listSets(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWorkouts retrieves workouts most recent first, without their sets.
// A limit of zero or less returns every workout.
func (d *DB) ListWorkouts(ctx context.Context, limit int) ([]*models.Workout, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts ORDER BY start_time DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// DeleteWorkouts removes the sets of the given workouts and then the workouts.
// It returns how many workouts were deleted.
func (d *DB) DeleteWorkouts(ctx context.Context, idsOrPrefixes ...string) (int, error) {
	if len(idsOrPrefixes) == 0 {
		return 0, nil
	}

	ids := make([]any, 0, len(idsOrPrefixes))
	for _, p := range idsOrPrefixes {
		id, err := d.resolveID(ctx, "workouts", p)
		if err != nil {
			return 0, fmt.Errorf("delete workouts: %w", err)
		}
		ids = append(ids, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete workouts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM workout_sets WHERE workout_id IN (`+placeholders+`)`, ids...); err != nil {
		return 0, fmt.Errorf("delete workout sets: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM workouts WHERE id IN (`+placeholders+`)`, ids...)
	if err != nil {
		return 0, fmt.Errorf("delete workouts: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete workouts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete workouts: %w", err)
	}
	return int(affected), nil
}

func (d *DB) listSets(ctx context.Context, workoutID uuid.UUID) ([]models.WorkoutSet, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+setColumns+` FROM workout_sets WHERE workout_id = ? ORDER BY created_at ASC, set_number ASC`,
		workoutID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}
	defer rows.Close()

	var sets []models.WorkoutSet
	for rows.Next() {
		var s models.WorkoutSet
		var idStr, workoutIDStr, weights, createdAt string
		var comment sql.NullString

		if err := rows.Scan(&idStr, &workoutIDStr, &s.ExerciseName, &s.SetNumber, &weights,
			&s.Intensity, &s.Correctness, &comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan workout set: %w", err)
		}

		s.ID, _ = uuid.Parse(idStr)
		s.WorkoutID, _ = uuid.Parse(workoutIDStr)
		s.CreatedAt = parseTime(createdAt)
		if err := json.Unmarshal([]byte(weights), &s.Weights); err != nil {
			return nil, fmt.Errorf("decode weights for set %s: %w", idStr, err)
		}
		if comment.Valid {
			s.Comment = &comment.String
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

func insertSets(ctx context.Context, tx *sql.Tx, w *models.Workout) error {
	if len(w.Sets) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO workout_sets (`+setColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare set insert: %w", err)
	}
	defer stmt.Close()

	for i := range w.Sets {
		s := &w.Sets[i]
		s.WorkoutID = w.ID
		weights, err := json.Marshal(s.Weights)
		if err != nil {
			return fmt.Errorf("encode weights: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			s.ID.String(), s.WorkoutID.String(), s.ExerciseName, s.SetNumber, string(weights),
			s.Intensity, s.Correctness, s.Comment, formatTime(s.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert set %s: %w", s.ID, err)
		}
	}
	return nil
}

func scanWorkout(row rowScanner) (*models.Workout, error) {
	var w models.Workout
	var idStr, startTime, createdAt string
	var routineID, endTime sql.NullString
	var duration sql.NullInt64

	err := row.Scan(&idStr, &routineID, &w.RoutineName, &startTime, &endTime, &duration, &w.EnergyLevel, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	w.ID, _ = uuid.Parse(idStr)
	if routineID.Valid {
		w.RoutineID, _ = uuid.Parse(routineID.String)
	}
	w.StartTime = parseTime(startTime)
	w.CreatedAt = parseTime(createdAt)
	if endTime.Valid {
		end := parseTime(endTime.String)
		w.EndTime = &end
	}
	if duration.Valid {
		m := int(duration.Int64)
		w.DurationMinutes = &m
	}
	return &w, nil
}
