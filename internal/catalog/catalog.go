// Package catalog provides a SQLite index of saved region files so callers
// can list regions without touching cell data.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexregion/internal/regionfile"
)

// DB wraps a SQLite connection for the region catalog.
type DB struct {
	conn *sqlx.DB
}

// Entry is one cataloged region file. GeneratedAt is Unix seconds; SQLite
// has no native time type.
type Entry struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Path            string `db:"path"`
	Width           int    `db:"width"`
	Height          int    `db:"height"`
	Seed            int32  `db:"seed"`
	GeneratedAt     int64  `db:"generated_at"`
	FileSize        int64  `db:"file_size"`
	ConnectionCount int    `db:"connection_count"`
}

// Open opens or creates the catalog database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		generated_at INTEGER NOT NULL,
		file_size INTEGER NOT NULL,
		connection_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_regions_name ON regions(name);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record inserts or replaces the catalog entry for a region file.
func (db *DB) Record(path string, meta *regionfile.Metadata, fileSize int64) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO regions
		(id, name, path, width, height, seed, generated_at, file_size, connection_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID.String(), meta.Name, path, meta.Width, meta.Height,
		meta.Seed, meta.GeneratedAt.Unix(), fileSize, len(meta.Connections),
	)
	if err != nil {
		return fmt.Errorf("record region %s: %w", meta.ID, err)
	}
	return nil
}

// List returns all cataloged regions ordered by name.
func (db *DB) List() ([]Entry, error) {
	var entries []Entry
	if err := db.conn.Select(&entries, `SELECT * FROM regions ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return entries, nil
}

// Get returns the entry for a region id, or nil when absent.
func (db *DB) Get(id string) (*Entry, error) {
	var e Entry
	err := db.conn.Get(&e, `SELECT * FROM regions WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get region %s: %w", id, err)
	}
	return &e, nil
}

// Remove deletes a catalog entry. The region file itself is untouched.
func (db *DB) Remove(id string) error {
	_, err := db.conn.Exec(`DELETE FROM regions WHERE id = ?`, id)
	return err
}

// Scan walks dir for .region files and (re)indexes each via the
// metadata-only read path. Unreadable files are logged and skipped.
func (db *DB) Scan(dir string) (int, error) {
	indexed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".region") {
			return nil
		}
		meta, err := regionfile.ReadMetadata(path)
		if err != nil {
			slog.Warn("skipping unreadable region file", "path", path, "error", err)
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := db.Record(path, meta, info.Size()); err != nil {
			return err
		}
		indexed++
		return nil
	})
	if err != nil {
		return indexed, fmt.Errorf("scan %s: %w", dir, err)
	}
	return indexed, nil
}
