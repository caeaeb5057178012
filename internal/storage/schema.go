// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for routines, exercises, workouts and workout_sets.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS routines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		routine_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		weight REAL NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL,
		FOREIGN KEY (routine_id) REFERENCES routines(id) ON DELETE CASCADE,
		UNIQUE (routine_id, order_index)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		routine_id TEXT,
		routine_name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration INTEGER,
		energy_level INTEGER NOT NULL DEFAULT 3,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workout_sets (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		weights TEXT NOT NULL,
		intensity INTEGER NOT NULL,
		correctness INTEGER NOT NULL,
		comment TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_routines_active ON routines(active, created_at);
	CREATE INDEX IF NOT EXISTS idx_exercises_routine ON exercises(routine_id, order_index);
	CREATE INDEX IF NOT EXISTS idx_workouts_start ON workouts(start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_workout_sets_workout ON workout_sets(workout_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
