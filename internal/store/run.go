package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Run is a finished game as stored in the database.
type Run struct {
	ID        string
	Score     int
	Ticks     int
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns how long the run lasted.
func (r *Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// RunRepository provides access to the run history.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// Create inserts a run. An empty ID is filled with a new UUID.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := r.db.Exec(
		`INSERT INTO runs (id, score, ticks, started_at, ended_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Score, run.Ticks, run.StartedAt.UTC(), run.EndedAt.UTC(),
	)
	return err
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, score, ticks, started_at, ended_at FROM runs WHERE id = ?`, id,
	))
}

// Best returns the highest scoring run, the earliest one on ties.
func (r *RunRepository) Best() (*Run, error) {
	return r.scanOne(r.db.QueryRow(
		`SELECT id, score, ticks, started_at, ended_at FROM runs
		 ORDER BY score DESC, ended_at ASC LIMIT 1`,
	))
}

// Recent returns up to limit runs, newest first.
func (r *RunRepository) Recent(limit int) ([]*Run, error) {
	rows, err := r.db.Query(
		`SELECT id, score, ticks, started_at, ended_at FROM runs
		 ORDER BY ended_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Score, &run.Ticks, &run.StartedAt, &run.EndedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// Count returns the number of stored runs.
func (r *RunRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (r *RunRepository) scanOne(row *sql.Row) (*Run, error) {
	run := &Run{}
	err := row.Scan(&run.ID, &run.Score, &run.Ticks, &run.StartedAt, &run.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}
