// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines hydration, gym, body measurement and credential tables.
package storage

// initSchema creates or updates the database schema.
// Day and creation instants are Unix milliseconds so range predicates compare numerically.
// There is deliberately no unique index on day: one-record-per-day is kept by the repository.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hydration_records (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		cups_drunk INTEGER NOT NULL,
		cup_size_ml INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS gym_records (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		muscles TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS body_measurement_records (
		id TEXT PRIMARY KEY,
		day INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		chest REAL,
		belly REAL,
		left_arm REAL,
		right_arm REAL,
		left_leg REAL,
		right_leg REAL,
		weight REAL
	);

	CREATE TABLE IF NOT EXISTS credentials (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_hydration_day ON hydration_records(day DESC, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_gym_day ON gym_records(day DESC, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_body_measurement_day ON body_measurement_records(day DESC, created_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
