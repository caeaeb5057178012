// ABOUTME: Routine and Exercise CRUD operations for SQLite storage.
// ABOUTME: Exercises are written and replaced together with their routine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

const routineColumns = `id, name, active, created_at`

const exerciseColumns = `id, routine_id, name, sets, reps, weight, order_index`

// CreateRoutine stores a routine and its exercises.
func (d *DB) CreateRoutine(ctx context.Context, r *models.Routine) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create routine: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO routines (`+routineColumns+`) VALUES (?, ?, ?, ?)`,
		r.ID.String(), r.Name, r.Active, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create routine: %w", err)
	}

	if err := insertExercises(ctx, tx, r); err != nil {
		return fmt.Errorf("create routine: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create routine: %w", err)
	}
	return nil
}

// GetRoutine retrieves a routine by ID or ID prefix with its exercises in order.
func (d *DB) GetRoutine(ctx context.Context, idOrPrefix string) (*models.Routine, error) {
	id, err := d.resolveID(ctx, "routines", idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := d.db.QueryRowContext(ctx, `SELECT `+routineColumns+` FROM routines WHERE id = ?`, id)
	r, err := scanRoutine(row)
	if err != nil {
		return nil, err
	}

	if err := d.attachExercises(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListActiveRoutines retrieves active routines, oldest first, with their exercises.
func (d *DB) ListActiveRoutines(ctx context.Context) ([]*models.Routine, error) {
	return d.listRoutines(ctx, true)
}

func (d *DB) listRoutines(ctx context.Context, activeOnly bool) ([]*models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at ASC, name ASC`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	var routines []*models.Routine
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		routines = append(routines, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}

	for _, r := range routines {
		if err := d.attachExercises(ctx, r); err != nil {
			return nil, err
		}
	}
	return routines, nil
}

// ListExercises retrieves the exercises of a routine ordered by OrderIndex.
func (d *DB) ListExercises(ctx context.Context, routineID uuid.UUID) ([]*models.Exercise, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE routine_id = ? ORDER BY order_index ASC`,
		routineID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.Exercise
	for rows.Next() {
		var ex models.Exercise
		var idStr, routineIDStr string
		if err := rows.Scan(&idStr, &routineIDStr, &ex.Name, &ex.Sets, &ex.Reps, &ex.Weight, &ex.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		ex.ID, _ = uuid.Parse(idStr)
		ex.RoutineID, _ = uuid.Parse(routineIDStr)
		exercises = append(exercises, &ex)
	}
	return exercises, rows.Err()
}

// UpdateRoutine renames the routine, updates its active flag and replaces its exercises.
func (d *DB) UpdateRoutine(ctx context.Context, r *models.Routine) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE routines SET name = ?, active = ? WHERE id = ?`,
		r.Name, r.Active, r.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update routine: %w: %s", ErrNotFound, r.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE routine_id = ?`, r.ID.String()); err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	if err := insertExercises(ctx, tx, r); err != nil {
		return fmt.Errorf("update routine: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	return nil
}

// DeleteRoutine removes a routine's exercises and then the routine.
// Finished workouts keep their routine name.
func (d *DB) DeleteRoutine(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, "routines", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE routine_id = ?`, id); err != nil {
		return fmt.Errorf("delete routine exercises: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete routine: %w: %s", ErrNotFound, idOrPrefix)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}

func (d *DB) attachExercises(ctx context.Context, r *models.Routine) error {
	exercises, err := d.ListExercises(ctx, r.ID)
	if err != nil {
		return err
	}
	r.Exercises = make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		r.Exercises = append(r.Exercises, *ex)
	}
	return nil
}

func insertExercises(ctx context.Context, tx *sql.Tx, r *models.Routine) error {
	if len(r.Exercises) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO exercises (`+exerciseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare exercise insert: %w", err)
	}
	defer stmt.Close()

	for i := range r.Exercises {
		ex := &r.Exercises[i]
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.RoutineID = r.ID
		if _, err := stmt.ExecContext(ctx,
			ex.ID.String(), ex.RoutineID.String(), ex.Name, ex.Sets, ex.Reps, ex.Weight, ex.OrderIndex,
		); err != nil {
			return fmt.Errorf("insert exercise %s: %w", ex.Name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (*models.Routine, error) {
	var r models.Routine
	var idStr, createdAt string

	if err := row.Scan(&idStr, &r.Name, &r.Active, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan routine: %w", err)
	}

	r.ID, _ = uuid.Parse(idStr)
	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}
