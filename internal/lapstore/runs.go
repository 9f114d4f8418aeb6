package lapstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one normalization run over a driver's raw lap files.
type Run struct {
	ID           string    `json:"run_id"`
	Session      string    `json:"session"`
	Driver       string    `json:"driver"`
	Files        int       `json:"files"`
	TotalMissing int       `json:"total_missing"`
	Outcome      string    `json:"outcome"`
	StartedAt    time.Time `json:"started_at"`
}

// NewRunID returns a fresh identifier for a normalization run.
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun persists one normalization run. An empty ID gets a fresh one;
// the assigned ID is returned.
func (s *Store) RecordRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = NewRunID()
	}
	_, err := s.Exec(
		`INSERT INTO normalize_runs (run_id, session, driver, files, total_missing, outcome, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Session, r.Driver, r.Files, r.TotalMissing, r.Outcome, r.StartedAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return r.ID, nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.Query(
		`SELECT run_id, session, driver, files, total_missing, outcome, started_at
		 FROM normalize_runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started int64
		)
		if err := rows.Scan(&r.ID, &r.Session, &r.Driver, &r.Files, &r.TotalMissing, &r.Outcome, &started); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(started, 0).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
