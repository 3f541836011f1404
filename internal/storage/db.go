// ABOUTME: SQL database connection and lifecycle management for SQLite and Postgres.
// ABOUTME: SQLite uses modernc.org/sqlite (pure Go); Postgres uses lib/pq with migrations.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/healthlife/internal/models"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects SQL placeholder syntax.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// DB wraps a SQL connection and implements Backend.
type DB struct {
	db      *sql.DB
	dbPath  string
	dialect Dialect
}

// Compile-time check that DB implements Backend.
var _ Backend = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; keeps WAL pragmas on the same connection.
	db.SetMaxOpenConns(1)

	d := &DB{db: db, dbPath: dbPath, dialect: DialectSQLite}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	// Set file permissions once the file exists
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// OpenPostgres connects to Postgres and applies pending migrations.
func OpenPostgres(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("open postgres: database_url is empty")
	}
	if err := RunPostgresMigrations(databaseURL); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{db: db, dialect: DialectPostgres}, nil
}

// DataDir returns the default data directory following the XDG base directory layout.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "healthlife")
}

// DefaultDBPath returns the default database path following the XDG base directory layout.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "healthlife.db")
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Path returns the SQLite file path, or "" for Postgres.
func (d *DB) Path() string {
	return d.dbPath
}

// Hydration returns the hydration record store.
func (d *DB) Hydration() Store[*models.HydrationRecord] {
	return &SQLStore[*models.HydrationRecord]{db: d, table: hydrationTable}
}

// Gym returns the gym record store.
func (d *DB) Gym() Store[*models.GymRecord] {
	return &SQLStore[*models.GymRecord]{db: d, table: gymTable}
}

// Measurements returns the body measurement record store.
func (d *DB) Measurements() Store[*models.BodyMeasurementRecord] {
	return &SQLStore[*models.BodyMeasurementRecord]{db: d, table: measurementTable}
}

// Credentials returns the credential store.
func (d *DB) Credentials() CredentialStore {
	return &sqlCredentials{db: d}
}

// configurePragmas sets up SQLite for durability with concurrent readers.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
