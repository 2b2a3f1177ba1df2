package runlog

import (
	"fmt"
	"time"
)

// Run is one reconciliation run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Failed     int       `json:"failed"`
}

// Creation is one slot file a run brought into existence.
type Creation struct {
	Path   string `json:"path"`
	Period string `json:"period"`
}

// RecordRun stores a run and its creations within a transaction.
func (db *DB) RecordRun(run Run, creations []Creation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("runlog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, created, failed)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.Created, run.Failed)
	if err != nil {
		return fmt.Errorf("runlog: insert run: %w", err)
	}

	if len(creations) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO creations (run_id, path, period) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("runlog: prepare creation insert: %w", err)
		}
		defer stmt.Close()
		for _, c := range creations {
			if _, err := stmt.Exec(run.ID, c.Path, c.Period); err != nil {
				return fmt.Errorf("runlog: insert creation: %w", err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, started_at, finished_at, created, failed
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("runlog: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Created, &r.Failed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCreations returns the paths a run created.
func (db *DB) RunCreations(runID string) ([]Creation, error) {
	rows, err := db.conn.Query(`SELECT path, period FROM creations WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: run creations: %w", err)
	}
	defer rows.Close()

	var out []Creation
	for rows.Next() {
		var c Creation
		if err := rows.Scan(&c.Path, &c.Period); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
