// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies routines and workouts from one backend to another.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymlog/internal/logging"
	"github.com/harperreed/gymlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy all routines and workouts from one storage backend to another.

BACKENDS:

  sqlite   Local database at <data_dir>/gymlog.db
  charm    Charm KV synced through Charm Cloud

IMPORTANT:

  - The destination should be empty (duplicate IDs cause errors)
  - The source is left untouched
  - Run with --dry-run first to see what would be migrated

USAGE:

  gymlog migrate --from sqlite --to charm --dry-run
  gymlog migrate --from sqlite --to charm
  GYMLOG_BACKEND=charm gymlog history list   # then switch over`,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to must differ")
		}

		src, err := openBackend(migrateFrom)
		if err != nil {
			return err
		}
		defer src.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			data, err := src.GetAllData(cmd.Context())
			if err != nil {
				return fmt.Errorf("read %s: %w", migrateFrom, err)
			}
			sets := 0
			for _, w := range data.Workouts {
				sets += len(w.Sets)
			}
			fmt.Printf("  Routines: %d\n", len(data.Routines))
			fmt.Printf("  Workouts: %d (%d sets)\n", len(data.Workouts), sets)
			return nil
		}

		dst, err := openBackend(migrateTo)
		if err != nil {
			return err
		}
		defer dst.Close()

		summary, err := storage.MigrateData(cmd.Context(), src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", migrateFrom, migrateTo)
		fmt.Printf("  Routines: %d (%d exercises)\n", summary.Routines, summary.Exercises)
		fmt.Printf("  Workouts: %d (%d sets)\n", summary.Workouts, summary.Sets)
		return nil
	},
}

func openBackend(name string) (storage.Repository, error) {
	c := *cfg
	c.Backend = name
	repo, err := c.OpenStorage(logging.For(logger, logging.CatStorage))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", name, err)
	}
	return repo, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "charm", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
