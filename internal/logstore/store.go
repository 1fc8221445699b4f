// Package logstore persists battle runs and their event logs in a
// local SQLite database, one writer at a time. Batch tooling reads it
// back for aggregate reports and can export a run as zstd-compressed
// NDJSON for external analysis.
package logstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/mwhiting/hexfront/internal/battle"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	scenario   TEXT NOT NULL,
	seed       INTEGER NOT NULL,
	outcome    TEXT NOT NULL,
	ticks      INTEGER NOT NULL,
	score      REAL NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	seq      INTEGER NOT NULL,
	tick     INTEGER NOT NULL,
	category TEXT NOT NULL,
	key      TEXT NOT NULL,
	unit     INTEGER NOT NULL,
	side     TEXT NOT NULL,
	value    TEXT NOT NULL,
	num      REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS events_by_tick ON events(run_id, tick);
`

// Store is a single-writer run archive backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path. WAL mode keeps readers
// from blocking the writer during long batch runs.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RunInfo is one archived battle run.
type RunInfo struct {
	ID        string
	Scenario  string
	Seed      uint64
	Outcome   string
	Ticks     int
	Score     float64
	CreatedAt time.Time
}

// SaveRun stores a finished run and its full event log in one
// transaction.
func (s *Store) SaveRun(run RunInfo, records []battle.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, scenario, seed, outcome, ticks, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, int64(run.Seed), run.Outcome, run.Ticks, run.Score,
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO events (run_id, seq, tick, category, key, unit, side, value, num)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range records {
		if _, err := stmt.Exec(run.ID, i, r.Tick, r.Category, r.Key, int(r.Unit), r.Side, r.Value, r.Num); err != nil {
			return fmt.Errorf("insert event %d of run %s: %w", i, run.ID, err)
		}
	}
	return tx.Commit()
}

// Run fetches one run's metadata.
func (s *Store) Run(id string) (RunInfo, error) {
	row := s.db.QueryRow(
		`SELECT id, scenario, seed, outcome, ticks, score, created_at FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns all runs for a scenario, newest first. An empty
// scenario matches everything.
func (s *Store) ListRuns(scenario string) ([]RunInfo, error) {
	query := `SELECT id, scenario, seed, outcome, ticks, score, created_at FROM runs`
	args := []any{}
	if scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenario)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunInfo, error) {
	var info RunInfo
	var seed int64
	var created string
	if err := row.Scan(&info.ID, &info.Scenario, &seed, &info.Outcome, &info.Ticks, &info.Score, &created); err != nil {
		return RunInfo{}, err
	}
	info.Seed = uint64(seed)
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return RunInfo{}, fmt.Errorf("run %s: bad created_at %q: %w", info.ID, created, err)
	}
	info.CreatedAt = t
	return info, nil
}

// Events returns a run's full event log in recorded order.
func (s *Store) Events(runID string) ([]battle.Record, error) {
	rows, err := s.db.Query(
		`SELECT tick, category, key, unit, side, value, num
		 FROM events WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []battle.Record
	for rows.Next() {
		var r battle.Record
		var unit int
		if err := rows.Scan(&r.Tick, &r.Category, &r.Key, &unit, &r.Side, &r.Value, &r.Num); err != nil {
			return nil, err
		}
		r.Unit = battle.UnitID(unit)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportRun writes a run's event log to w as zstd-compressed NDJSON,
// one record per line.
func (s *Store) ExportRun(runID string, w io.Writer) error {
	records, err := s.Events(runID)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(zw)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

// ImportNDJSON reads a zstd-compressed NDJSON stream back into
// records, the inverse of ExportRun.
func ImportNDJSON(r io.Reader) ([]battle.Record, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	dec := json.NewDecoder(zr)
	var out []battle.Record
	for {
		var rec battle.Record
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
