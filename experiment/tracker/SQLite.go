package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite tracks the history of training runs in a SQLite database. Each
// SQLite Tracker records a single run, identified by a random UUID,
// and one row per tracked episode. Many runs can share a database.
type SQLite struct {
	ctx   context.Context
	db    *sql.DB
	runID string
}

// Run describes a training run recorded in a SQLite database
type Run struct {
	ID          string
	Description string
	StartedAt   time.Time
	FinishedAt  time.Time // Zero if the run never finished
}

// NewSQLite opens the SQLite database at path, creating it if needed,
// and starts recording a new run with the given description. The path
// ":memory:" opens a private in-memory database.
func NewSQLite(ctx context.Context, path, description string) (*SQLite,
	error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("newSQLite: could not open database: %v", err)
	}

	// In-memory databases are private to a connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: %v", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: could not create tables: %v", err)
	}

	runID := uuid.New().String()
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, description, started_at)
		VALUES (?, ?, ?)
	`, runID, description, time.Now().UnixNano())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: could not record run: %v", err)
	}

	return &SQLite{ctx: ctx, db: db, runID: runID}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER
		);

		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			episode_return REAL NOT NULL,
			epsilon REAL NOT NULL,
			buffer_size INTEGER NOT NULL,
			population_score REAL NOT NULL,
			score REAL NOT NULL,
			accepted INTEGER NOT NULL,
			PRIMARY KEY (run_id, episode),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		);
	`)
	return err
}

// RunID returns the UUID of the run recorded by the Tracker
func (s *SQLite) RunID() string {
	return s.runID
}

// Track records an episode of the run
func (s *SQLite) Track(r EpisodeRecord) error {
	_, err := s.db.ExecContext(s.ctx, `
		INSERT INTO episodes (run_id, episode, steps, episode_return, epsilon,
			buffer_size, population_score, score, accepted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.runID, r.Episode, r.Steps, r.Return, r.Epsilon, r.BufferSize,
		r.PopulationScore, r.Score, r.Accepted)
	if err != nil {
		return fmt.Errorf("track: could not record episode %v: %v",
			r.Episode, err)
	}
	return nil
}

// Save marks the run as finished. Episodes are written as they are
// tracked.
func (s *SQLite) Save() error {
	_, err := s.db.ExecContext(s.ctx, `
		UPDATE runs SET finished_at = ? WHERE id = ?
	`, time.Now().UnixNano(), s.runID)
	if err != nil {
		return fmt.Errorf("save: could not finish run: %v", err)
	}
	return nil
}

// Episodes returns the episodes recorded for run runID, in order
func (s *SQLite) Episodes(ctx context.Context, runID string) (
	[]EpisodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT episode, steps, episode_return, epsilon, buffer_size,
			population_score, score, accepted
		FROM episodes WHERE run_id = ? ORDER BY episode
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("episodes: %v", err)
	}
	defer rows.Close()

	var records []EpisodeRecord
	for rows.Next() {
		var r EpisodeRecord
		err := rows.Scan(&r.Episode, &r.Steps, &r.Return, &r.Epsilon,
			&r.BufferSize, &r.PopulationScore, &r.Score, &r.Accepted)
		if err != nil {
			return nil, fmt.Errorf("episodes: %v", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("episodes: %v", err)
	}
	return records, nil
}

// Runs returns all runs recorded in the database, oldest first
func (s *SQLite) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, started_at, finished_at
		FROM runs ORDER BY started_at
	`)
	if err != nil {
		return nil, fmt.Errorf("runs: %v", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.Description, &started,
			&finished); err != nil {
			return nil, fmt.Errorf("runs: %v", err)
		}
		r.StartedAt = time.Unix(0, started)
		if finished.Valid {
			r.FinishedAt = time.Unix(0, finished.Int64)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runs: %v", err)
	}
	return runs, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
