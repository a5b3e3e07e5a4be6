package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ising/pkg/sims/ising"
)

// Store persists sweep output in a SQLite database, one run per sweep.
type Store struct {
	db *sql.DB
}

// Run describes a stored sweep.
type Run struct {
	ID        string
	StartedAt time.Time
	Config    json.RawMessage
}

// CurveRow is one stored temperature entry of a run.
type CurveRow struct {
	Temperature float64 `json:"temperature"`
	Avg         float64 `json:"avg"`
	Final       float64 `json:"final"`
}

// OpenStore opens (and migrates) the database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			config TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progression (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			temperature REAL NOT NULL,
			step INTEGER NOT NULL,
			magnetization REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS curves (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			temperature REAL NOT NULL,
			avg_magnetization REAL NOT NULL,
			final_magnetization REAL NOT NULL,
			PRIMARY KEY (run_id, temperature)
		);`,
		`CREATE TABLE IF NOT EXISTS scatter (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			idx INTEGER NOT NULL,
			temperature REAL NOT NULL,
			magnetization REAL NOT NULL,
			PRIMARY KEY (run_id, kind, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS progression_run ON progression(run_id, temperature, step);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// BeginRun records a new run and returns a Sink writing under its id. config
// is stored as JSON for later inspection.
func (s *Store) BeginRun(ctx context.Context, config any) (*RunSink, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("encode run config: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `INSERT INTO runs(id, started_at, config) VALUES(?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), string(raw))
	if err != nil {
		return nil, err
	}
	return &RunSink{ctx: ctx, store: s, id: id}, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, started_at, config FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var started, cfg string
		if err := rows.Scan(&r.ID, &started, &cfg); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.Config = json.RawMessage(cfg)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Curves returns the latest curve snapshot of a run ordered by temperature.
func (s *Store) Curves(ctx context.Context, runID string) ([]CurveRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT temperature, avg_magnetization, final_magnetization FROM curves WHERE run_id = ? ORDER BY temperature`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CurveRow
	for rows.Next() {
		var c CurveRow
		if err := rows.Scan(&c.Temperature, &c.Avg, &c.Final); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Progression returns the stored first-repetition series at temperature.
func (s *Store) Progression(ctx context.Context, runID string, temperature float64) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT magnetization FROM progression WHERE run_id = ? AND temperature = ? ORDER BY step`, runID, temperature)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []float64
	for rows.Next() {
		var m float64
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Scatter returns a stored scatter collection in insertion order.
func (s *Store) Scatter(ctx context.Context, runID string, kind ising.ScatterKind) ([]ising.Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT temperature, magnetization FROM scatter WHERE run_id = ? AND kind = ? ORDER BY idx`, runID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ising.Point
	for rows.Next() {
		var p ising.Point
		if err := rows.Scan(&p.Temperature, &p.Magnetization); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RunSink writes one run's sweep output. It implements ising.Sink.
type RunSink struct {
	ctx   context.Context
	store *Store
	id    string
}

// ID returns the run's UUID.
func (r *RunSink) ID() string { return r.id }

func (r *RunSink) RecordProgression(temperature float64, series []float64) error {
	return r.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(r.ctx, `INSERT INTO progression(run_id, temperature, step, magnetization) VALUES(?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for step, m := range series {
			if _, err := stmt.ExecContext(r.ctx, r.id, temperature, step+1, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RunSink) RecordCurves(avg, final map[float64]float64) error {
	return r.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(r.ctx, `INSERT INTO curves(run_id, temperature, avg_magnetization, final_magnetization)
			VALUES(?, ?, ?, ?)
			ON CONFLICT(run_id, temperature) DO UPDATE SET
				avg_magnetization = excluded.avg_magnetization,
				final_magnetization = excluded.final_magnetization`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for t, a := range avg {
			if _, err := stmt.ExecContext(r.ctx, r.id, t, a, final[t]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RunSink) RecordScatter(kind ising.ScatterKind, points []ising.Point) error {
	return r.inTx(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(r.ctx, `DELETE FROM scatter WHERE run_id = ? AND kind = ?`, r.id, string(kind)); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(r.ctx, `INSERT INTO scatter(run_id, kind, idx, temperature, magnetization) VALUES(?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range points {
			if _, err := stmt.ExecContext(r.ctx, r.id, string(kind), i, p.Temperature, p.Magnetization); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RunSink) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := r.store.db.BeginTx(r.ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
