package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

var _ Storer = (*SQLiteStore)(nil)

// schema keeps every narrative version; the current one has is_current = 1.
const schema = `
CREATE TABLE IF NOT EXISTS narratives (
    id TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    name TEXT NOT NULL,
    dataset_id TEXT,
    record TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    is_current INTEGER DEFAULT 1,
    change_reason TEXT,
    PRIMARY KEY (id, version)
);

CREATE INDEX IF NOT EXISTS idx_narratives_current ON narratives(id) WHERE is_current = 1;
CREATE INDEX IF NOT EXISTS idx_narratives_name ON narratives(name) WHERE is_current = 1;

CREATE TABLE IF NOT EXISTS datasets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    csv TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`

const narrativeColumns = `id, version, name, dataset_id, record, created_at, updated_at, is_current, change_reason`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Narratives
// =============================================================================

// SaveNarrative adds n as the next version of its narrative.
func (s *SQLiteStore) SaveNarrative(n *Narrative, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var prev *Narrative
	if n.ID != "" {
		var p Narrative
		err := tx.QueryRow(`SELECT version, created_at FROM narratives WHERE id = ? AND is_current = 1`, n.ID).
			Scan(&p.Version, &p.CreatedAt)
		switch {
		case err == nil:
			prev = &p
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
	}
	stamp(n, prev, reason)

	record, err := json.Marshal(n.Record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if prev != nil {
		if _, err := tx.Exec(`UPDATE narratives SET is_current = 0 WHERE id = ? AND is_current = 1`, n.ID); err != nil {
			return err
		}
	}
	_, err = tx.Exec(`
		INSERT INTO narratives (`+narrativeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Version, n.Name, n.DatasetID, string(record), n.CreatedAt, n.UpdatedAt,
		boolToInt(n.IsCurrent), n.ChangeReason)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetNarrative retrieves the current version of a narrative.
func (s *SQLiteStore) GetNarrative(id string) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+narrativeColumns+` FROM narratives WHERE id = ? AND is_current = 1`, id)
	n, err := scanNarrative(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: narrative %s", ErrNotFound, id)
	}
	return n, err
}

// GetNarrativeVersion retrieves a specific version of a narrative.
func (s *SQLiteStore) GetNarrativeVersion(id string, version int) (*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+narrativeColumns+` FROM narratives WHERE id = ? AND version = ?`, id, version)
	n, err := scanNarrative(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: narrative %s version %d", ErrNotFound, id, version)
	}
	return n, err
}

// ListNarrativeVersions returns all versions of a narrative, newest first.
func (s *SQLiteStore) ListNarrativeVersions(id string) ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+narrativeColumns+` FROM narratives WHERE id = ? ORDER BY version DESC`, id)
	if err != nil {
		return nil, err
	}
	return scanNarratives(rows)
}

// ListNarratives returns the current version of every narrative.
func (s *SQLiteStore) ListNarratives() ([]*Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + narrativeColumns + ` FROM narratives WHERE is_current = 1 ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return scanNarratives(rows)
}

// DeleteNarrative removes every version of a narrative.
func (s *SQLiteStore) DeleteNarrative(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM narratives WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRows(res, "narrative", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNarrative(row scanner) (*Narrative, error) {
	var n Narrative
	var record string
	var datasetID, reason sql.NullString
	var isCurrent int
	if err := row.Scan(&n.ID, &n.Version, &n.Name, &datasetID, &record, &n.CreatedAt, &n.UpdatedAt,
		&isCurrent, &reason); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(record), &n.Record); err != nil {
		return nil, fmt.Errorf("failed to decode record of %s: %w", n.ID, err)
	}
	n.DatasetID = datasetID.String
	n.ChangeReason = reason.String
	n.IsCurrent = isCurrent != 0
	return &n, nil
}

func scanNarratives(rows *sql.Rows) ([]*Narrative, error) {
	defer rows.Close()

	var out []*Narrative
	for rows.Next() {
		n, err := scanNarrative(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// =============================================================================
// Datasets
// =============================================================================

// SaveDataset inserts or replaces a dataset.
func (s *SQLiteStore) SaveDataset(d *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stampDataset(d)
	_, err := s.db.Exec(`
		INSERT INTO datasets (id, name, csv, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, csv = excluded.csv
	`, d.ID, d.Name, d.CSV, d.CreatedAt)
	return err
}

// GetDataset retrieves a dataset by ID.
func (s *SQLiteStore) GetDataset(id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var d Dataset
	err := s.db.QueryRow(`SELECT id, name, csv, created_at FROM datasets WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.CSV, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: dataset %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDatasets returns every dataset by name.
func (s *SQLiteStore) ListDatasets() ([]*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, csv, created_at FROM datasets ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Dataset
	for rows.Next() {
		var d Dataset
		if err := rows.Scan(&d.ID, &d.Name, &d.CSV, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset.
func (s *SQLiteStore) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRows(res, "dataset", id)
}

func expectRows(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
