// Package storage records catalog snapshots in SQLite as diagnostic history.
// Snapshots are write-only: nothing is ever restored from them.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/objman/internal/objects"
)

// Store manages the SQLite database connection for catalog history.
type Store struct {
	db *sql.DB
}

// Snapshot is the summary row of one recorded catalog.
type Snapshot struct {
	ID          int64
	Label       string
	Classes     int
	Objects     int
	Interfaces  int
	IndexHeight int
	CreatedAt   time.Time
}

// ClassRecord is one class as it was when a snapshot was taken.
type ClassRecord struct {
	Name       string
	Size       int
	Instances  int
	Properties string // "name:type@offset" joined by ", "
	Interfaces string // joined by ", "
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			classes INTEGER NOT NULL DEFAULT 0,
			objects INTEGER NOT NULL DEFAULT 0,
			interfaces INTEGER NOT NULL DEFAULT 0,
			index_height INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS snapshot_classes (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			size INTEGER NOT NULL,
			instances INTEGER NOT NULL,
			properties TEXT NOT NULL DEFAULT '',
			interfaces TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (snapshot_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_snapshot_classes_name ON snapshot_classes(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSnapshot records cat under label.
// Returns the ID of the inserted snapshot.
func (s *Store) SaveSnapshot(label string, cat objects.Catalog) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	//nolint:errcheck // No-op once committed
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO snapshots (label, classes, objects, interfaces, index_height)
		 VALUES (?, ?, ?, ?, ?)`,
		label, len(cat.Classes), len(cat.Objects), len(cat.Interfaces), cat.IndexHeight,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for i, cl := range cat.Classes {
		props := make([]string, len(cl.Properties))
		for j, p := range cl.Properties {
			props[j] = fmt.Sprintf("%s:%s@%d", p.Name, p.Type, p.Offset)
		}
		_, err := tx.Exec(
			`INSERT INTO snapshot_classes (snapshot_id, position, name, size, instances, properties, interfaces)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, cl.Name, cl.Size, cl.Instances,
			strings.Join(props, ", "), strings.Join(cl.Interfaces, ", "),
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save class %q: %w", cl.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit snapshot: %w", err)
	}
	return id, nil
}

// Snapshots retrieves the most recent snapshots, newest first.
func (s *Store) Snapshots(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, label, classes, objects, interfaces, index_height, created_at
		 FROM snapshots
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt any
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Classes, &snap.Objects,
			&snap.Interfaces, &snap.IndexHeight, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		snap.CreatedAt = parseTime(createdAt)
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return snaps, nil
}

// Snapshot retrieves one snapshot by ID.
// Returns nil if it does not exist.
func (s *Store) Snapshot(id int64) (*Snapshot, error) {
	var snap Snapshot
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, label, classes, objects, interfaces, index_height, created_at
		 FROM snapshots
		 WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.Label, &snap.Classes, &snap.Objects,
		&snap.Interfaces, &snap.IndexHeight, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}

	snap.CreatedAt = parseTime(createdAt)
	return &snap, nil
}

// SnapshotClasses retrieves the classes recorded in a snapshot, in
// registration order.
func (s *Store) SnapshotClasses(id int64) ([]ClassRecord, error) {
	rows, err := s.db.Query(
		`SELECT name, size, instances, properties, interfaces
		 FROM snapshot_classes
		 WHERE snapshot_id = ?
		 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot classes: %w", err)
	}
	defer rows.Close()

	var classes []ClassRecord
	for rows.Next() {
		var rec ClassRecord
		if err := rows.Scan(&rec.Name, &rec.Size, &rec.Instances, &rec.Properties, &rec.Interfaces); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		classes = append(classes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return classes, nil
}

// ClearSnapshots deletes every recorded snapshot.
func (s *Store) ClearSnapshots() error {
	_, err := s.db.Exec("DELETE FROM snapshot_classes; DELETE FROM snapshots;")
	if err != nil {
		return fmt.Errorf("storage: cannot clear snapshots: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
