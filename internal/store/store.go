// Package store persists analysis runs so the server can list and replay
// past results. The extraction core itself never touches this; persistence
// is strictly a server-surface concern.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// AnalysisRun is one stored analyzer invocation.
type AnalysisRun struct {
	ID          string           `json:"id"`
	Bureau      models.Bureau    `json:"bureau,omitempty"`
	RoundNumber int              `json:"roundNumber,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	Accounts    []models.Account `json:"accounts"`
	Negative    []models.Account `json:"negative"`
}

// Store is a SQLite-backed history of analysis runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run-history database. Pass ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// writer contention on file databases.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id            TEXT PRIMARY KEY,
			bureau        TEXT NOT NULL DEFAULT '',
			round_number  INTEGER NOT NULL DEFAULT 0,
			created_at    TIMESTAMP NOT NULL,
			accounts_json TEXT NOT NULL,
			negative_json TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at DESC);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores one analysis run.
func (s *Store) SaveRun(ctx context.Context, run *AnalysisRun) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	accounts, err := json.Marshal(run.Accounts)
	if err != nil {
		return fmt.Errorf("encoding accounts: %w", err)
	}
	negative, err := json.Marshal(run.Negative)
	if err != nil {
		return fmt.Errorf("encoding negative accounts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, bureau, round_number, created_at, accounts_json, negative_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Bureau), run.RoundNumber, run.CreatedAt, string(accounts), string(negative))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun fetches one run by id. Returns (nil, nil) when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*AnalysisRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, bureau, round_number, created_at, accounts_json, negative_json
		FROM analysis_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first. Account payloads are
// included; callers wanting a light listing can drop them.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bureau, round_number, created_at, accounts_json, negative_json
		FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*AnalysisRun, error) {
	var run AnalysisRun
	var bureau, accountsJSON, negativeJSON string
	if err := row.Scan(&run.ID, &bureau, &run.RoundNumber, &run.CreatedAt, &accountsJSON, &negativeJSON); err != nil {
		return nil, err
	}
	run.Bureau = models.Bureau(bureau)
	if err := json.Unmarshal([]byte(accountsJSON), &run.Accounts); err != nil {
		return nil, fmt.Errorf("decoding accounts for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(negativeJSON), &run.Negative); err != nil {
		return nil, fmt.Errorf("decoding negative accounts for run %s: %w", run.ID, err)
	}
	return &run, nil
}
