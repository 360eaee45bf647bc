// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists pipeline runs in SQLite and reports how
// registry phase and status moved between runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

const dbFile = "trials.db"

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	historyDir string
}

// NewStore opens or creates the history database at
// historyDir/trials.db, creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, historyDir: cfg.HistoryDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sheet TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			source_file TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS trials (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			trial_id TEXT NOT NULL,
			id_value TEXT,
			product_name TEXT,
			registry_product_name TEXT,
			original_phase TEXT,
			registry_phase TEXT,
			sponsor_name TEXT,
			status TEXT,
			location TEXT,
			start_date TEXT,
			end_date TEXT,
			is_fda_regulated INTEGER,
			conditions TEXT,
			PRIMARY KEY (run_id, trial_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trials_trial_id ON trials(trial_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_sheet ON runs(sheet)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one sheet's trials as a new run and returns the run ID.
func (s *Store) Record(ctx context.Context, sheet string, trials []types.Trial, sourceFile string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (sheet, recorded_at, source_file) VALUES (?, ?, ?)`,
		sheet, time.Now().UTC().Format(time.RFC3339), sourceFile,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO trials (
			run_id, trial_id, id_value, product_name, registry_product_name,
			original_phase, registry_phase, sponsor_name, status, location,
			start_date, end_date, is_fda_regulated, conditions
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trials {
		fdaFlag := 0
		if t.IsFDARegulated {
			fdaFlag = 1
		}
		_, err := stmt.ExecContext(ctx,
			runID, t.NCTNumber, t.IDValue, t.ProductName, t.RegistryProductName,
			t.OriginalPhase, t.RegistryPhase, t.SponsorName, t.Status, t.Location,
			t.StartDate, t.EndDate, fdaFlag, t.Conditions,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting trial %s: %w", t.NCTNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Change is one observed difference between a sheet's two most recent runs.
type Change struct {
	NCTNumber   string `json:"nct_number" yaml:"nct_number"`
	ProductName string `json:"product_name" yaml:"product_name"`
	Field       string `json:"field" yaml:"field"`
	Previous    string `json:"previous" yaml:"previous"`
	Current     string `json:"current" yaml:"current"`
}

// Changes compares a sheet's two most recent runs and reports movement
// in the registry phase or overall status, plus trials that appeared for
// the first time (Field "appeared"). With fewer than two runs recorded
// there is nothing to compare and the result is empty.
func (s *Store) Changes(ctx context.Context, sheet string) ([]Change, error) {
	runIDs, err := s.latestRunIDs(ctx, sheet, 2)
	if err != nil {
		return nil, err
	}
	if len(runIDs) < 2 {
		return nil, nil
	}
	current, previous := runIDs[0], runIDs[1]

	prev, err := s.runTrials(ctx, previous)
	if err != nil {
		return nil, err
	}
	curr, _, err := s.runTrialsOrdered(ctx, current)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, t := range curr {
		p, ok := prev[t.NCTNumber]
		if !ok {
			changes = append(changes, Change{
				NCTNumber:   t.NCTNumber,
				ProductName: t.ProductName,
				Field:       "appeared",
				Current:     t.RegistryPhase,
			})
			continue
		}
		if p.RegistryPhase != t.RegistryPhase {
			changes = append(changes, Change{
				NCTNumber:   t.NCTNumber,
				ProductName: t.ProductName,
				Field:       "phase",
				Previous:    p.RegistryPhase,
				Current:     t.RegistryPhase,
			})
		}
		if p.Status != t.Status {
			changes = append(changes, Change{
				NCTNumber:   t.NCTNumber,
				ProductName: t.ProductName,
				Field:       "status",
				Previous:    p.Status,
				Current:     t.Status,
			})
		}
	}
	return changes, nil
}

// latestRunIDs returns up to n run IDs for a sheet, newest first.
func (s *Store) latestRunIDs(ctx context.Context, sheet string, n int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE sheet = ? ORDER BY id DESC LIMIT ?`, sheet, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// runTrials loads one run's trials keyed by NCT number. Trials are
// ordered by rowid so iteration order for exports stays stable.
func (s *Store) runTrials(ctx context.Context, runID int64) (map[string]types.Trial, error) {
	trials, order, err := s.runTrialsOrdered(ctx, runID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.Trial, len(order))
	for i, id := range order {
		byID[id] = trials[i]
	}
	return byID, nil
}

func (s *Store) runTrialsOrdered(ctx context.Context, runID int64) ([]types.Trial, []string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trial_id, id_value, product_name, registry_product_name,
			original_phase, registry_phase, sponsor_name, status, location,
			start_date, end_date, is_fda_regulated, conditions
		 FROM trials WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying trials: %w", err)
	}
	defer rows.Close()

	var trials []types.Trial
	var order []string
	for rows.Next() {
		var t types.Trial
		var fdaFlag int
		err := rows.Scan(&t.NCTNumber, &t.IDValue, &t.ProductName, &t.RegistryProductName,
			&t.OriginalPhase, &t.RegistryPhase, &t.SponsorName, &t.Status, &t.Location,
			&t.StartDate, &t.EndDate, &fdaFlag, &t.Conditions)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning trial: %w", err)
		}
		t.IsFDARegulated = fdaFlag != 0
		trials = append(trials, t)
		order = append(order, t.NCTNumber)
	}
	return trials, order, rows.Err()
}
