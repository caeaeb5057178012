// ABOUTME: Data migration between gymlog storage backends.
// ABOUTME: Copies routines with exercises and workouts with sets from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Routines  int
	Exercises int
	Workouts  int
	Sets      int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty before calling this function.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source data: %w", err)
	}

	for _, r := range data.Routines {
		if err := dst.CreateRoutine(ctx, r); err != nil {
			return nil, fmt.Errorf("create routine %s: %w", r.ID, err)
		}
		summary.Routines++
		summary.Exercises += len(r.Exercises)
	}

	for _, w := range data.Workouts {
		if err := dst.SaveWorkout(ctx, w); err != nil {
			return nil, fmt.Errorf("save workout %s: %w", w.ID, err)
		}
		summary.Workouts++
		summary.Sets += len(w.Sets)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
