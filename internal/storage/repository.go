// ABOUTME: Repository interface for routine and workout storage.
// ABOUTME: Implemented by the SQLite store here and the Charm KV store.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/harperreed/gymlog/internal/models"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// Repository defines the remote data store for routines and finished workouts.
// IDs may be passed as full UUIDs or unique prefixes.
type Repository interface {
	// Routine operations
	ListActiveRoutines(ctx context.Context) ([]*models.Routine, error)
	GetRoutine(ctx context.Context, idOrPrefix string) (*models.Routine, error)
	ListExercises(ctx context.Context, routineID uuid.UUID) ([]*models.Exercise, error)
	CreateRoutine(ctx context.Context, r *models.Routine) error
	UpdateRoutine(ctx context.Context, r *models.Routine) error
	DeleteRoutine(ctx context.Context, idOrPrefix string) error

	// Workout operations
	SaveWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error)
	ListWorkouts(ctx context.Context, limit int) ([]*models.Workout, error)
	DeleteWorkouts(ctx context.Context, idsOrPrefixes ...string) (int, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Close() error
}
