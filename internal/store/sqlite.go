package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joe/file-inventory/internal/inventory"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
        seq INTEGER NOT NULL,
        full_path TEXT PRIMARY KEY,
        file_name TEXT NOT NULL,
        file_extension TEXT NOT NULL,
        file_size_bytes INTEGER NOT NULL,
        last_modified_timestamp REAL NOT NULL,
        hostname TEXT NOT NULL,
        potential_application_group TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_hostname ON records(hostname);
`

// SQLite stores records in a single table of a SQLite database. The default
// rollback journal is kept so every commit touches the database file itself
// and its modification time tracks changes.
type SQLite struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens the database at path. A missing database is created as an
// empty file; the records table is created by the first Save, and until then
// Load reports an empty inventory.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := openSQLiteDB(path)
	if err != nil {
		return nil, err
	}

	return &SQLite{path: path, db: db}, nil
}

func openSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", ErrIO, err)
	}

	// one writer; keeps pragmas applied to the only connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()

			return nil, fmt.Errorf("%w: apply pragma %q: %w", ErrIO, pragma, execErr)
		}
	}

	return db, nil
}

// Close releases the underlying database resources.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close() //nolint:wrapcheck // Close error is reported as-is
}

// Load reads every record in insertion order.
func (s *SQLite) Load(ctx context.Context) ([]inventory.Record, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", ErrIO, s.path, err)
	}

	if info.Size() == 0 {
		return nil, nil
	}

	var tables int

	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'records'`,
	).Scan(&tables)
	if err != nil {
		return nil, s.classify(err)
	}

	if tables == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT full_path, file_name, file_extension, file_size_bytes,
       last_modified_timestamp, hostname, potential_application_group
FROM records ORDER BY seq`)
	if err != nil {
		return nil, s.classify(err)
	}
	defer rows.Close()

	var records []inventory.Record

	for rows.Next() {
		var (
			record inventory.Record
			group  sql.NullString
		)

		if scanErr := rows.Scan(
			&record.Path, &record.Name, &record.Extension, &record.SizeBytes,
			&record.ModifiedTimestamp, &record.Host, &group,
		); scanErr != nil {
			return nil, fmt.Errorf("%w: scan record: %w", ErrCorruptStore, scanErr)
		}

		if group.Valid {
			record = record.WithGroup(group.String)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, s.classify(err)
	}

	return records, nil
}

// Location returns the database path.
func (s *SQLite) Location() string {
	return s.path
}

// ModTime returns the database file's modification time.
func (s *SQLite) ModTime() (time.Time, error) {
	return modTime(s.path)
}

// Quarantine closes the database, renames the file aside and reopens a fresh
// handle at the original path.
func (s *SQLite) Quarantine(_ context.Context, suffix string) (string, error) {
	_ = s.db.Close()

	backup, err := quarantine(s.path, suffix)

	db, openErr := openSQLiteDB(s.path)
	if openErr != nil {
		return backup, openErr
	}

	s.db = db

	return backup, err
}

// Save replaces all rows inside one transaction.
func (s *SQLite) Save(ctx context.Context, records []inventory.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrIO, err)
	}

	if err := writeRecords(ctx, tx, records); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrIO, err)
	}

	return nil
}

func writeRecords(ctx context.Context, tx *sql.Tx, records []inventory.Record) error {
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("%w: initialize schema: %w", ErrIO, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("%w: clear records: %w", ErrIO, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records(seq, full_path, file_name, file_extension, file_size_bytes,
                    last_modified_timestamp, hostname, potential_application_group)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", ErrIO, err)
	}
	defer stmt.Close()

	for seq, record := range records {
		var group sql.NullString
		if record.ApplicationGroup != nil {
			group = sql.NullString{String: *record.ApplicationGroup, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			seq, record.Path, record.Name, record.Extension, record.SizeBytes,
			record.ModifiedTimestamp, record.Host, group,
		); err != nil {
			return fmt.Errorf("%w: insert record %s: %w", ErrIO, record.Path, err)
		}
	}

	return nil
}

// classify sorts a read error into corrupt content or an I/O failure.
func (s *SQLite) classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not a database") || strings.Contains(msg, "malformed") {
		return fmt.Errorf("%w: %s: %w", ErrCorruptStore, s.path, err)
	}

	return fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
}
