package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/solarpvlab/irradiance/pkg/timeseries"
)

// SQLiteStore persists runs to a local sqlite file using the pure-Go
// driver.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	site TEXT,
	model TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS series_points (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES analysis_runs(id),
	name TEXT NOT NULL,
	ts TIMESTAMP NOT NULL,
	value REAL
);
CREATE INDEX IF NOT EXISTS idx_series_points_run_name ON series_points(run_id, name);
`

// NewSQLiteStore opens (creating if needed) a sqlite store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create SQLite schema: %w", err)
	}
	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// SaveRun persists a run plus its derived series in one transaction.
func (s *SQLiteStore) SaveRun(run *AnalysisRun, series map[string]*timeseries.Series) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO analysis_runs (id, kind, site, model, created_at) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.Kind, run.Site, run.Model, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare("INSERT INTO series_points (run_id, name, ts, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for name, ser := range series {
		for _, p := range toPoints(run.ID, name, ser) {
			var val interface{}
			if p.Value != nil {
				val = *p.Value
			}
			if _, err := stmt.Exec(p.RunID, p.Name, p.Time, val); err != nil {
				return fmt.Errorf("inserting series %s for run %s: %w", name, run.ID, err)
			}
		}
	}
	return tx.Commit()
}

// ListRuns returns all stored runs, newest first.
func (s *SQLiteStore) ListRuns() ([]AnalysisRun, error) {
	rows, err := s.db.Query("SELECT id, kind, site, model, created_at FROM analysis_runs ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AnalysisRun
	for rows.Next() {
		var r AnalysisRun
		if err := rows.Scan(&r.ID, &r.Kind, &r.Site, &r.Model, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID.
func (s *SQLiteStore) GetRun(id string) (*AnalysisRun, error) {
	var r AnalysisRun
	err := s.db.QueryRow("SELECT id, kind, site, model, created_at FROM analysis_runs WHERE id = ?", id).
		Scan(&r.ID, &r.Kind, &r.Site, &r.Model, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching run %s: %w", id, err)
	}
	return &r, nil
}

// GetSeries fetches a named series of a run in time order.
func (s *SQLiteStore) GetSeries(runID, name string) (*timeseries.Series, error) {
	rows, err := s.db.Query("SELECT run_id, name, ts, value FROM series_points WHERE run_id = ? AND name = ? ORDER BY ts ASC",
		runID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		var val sql.NullFloat64
		if err := rows.Scan(&p.RunID, &p.Name, &p.Time, &val); err != nil {
			return nil, err
		}
		if val.Valid {
			v := val.Float64
			p.Value = &v
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fromPoints(points)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
