// Package ledger records prep runs and their folds in the SQLite run ledger.
package ledger

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/erbench/db"
	"github.com/teranos/erbench/errors"
)

// Run status values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded prep invocation.
type Run struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	Input           string    `json:"input"`
	OutDir          string    `json:"out_dir"`
	NumFolds        int       `json:"num_folds"`
	Seed            int64     `json:"seed"`
	SimThreshold    float64   `json:"sim_threshold"`
	MangleProb      float64   `json:"mangle_prob"`
	NameSimilarity  string    `json:"name_similarity"`
	TitleSimilarity string    `json:"title_similarity"`
	WriteTruth      bool      `json:"write_truth"`
	Records         int       `json:"records"`
	AuthorClusters  int       `json:"author_clusters"`
	EntityGroups    int       `json:"entity_groups"`
	ToolVersion     string    `json:"tool_version"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Folds           []Fold    `json:"folds,omitempty"`
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Fold is the recorded output of one fold.
type Fold struct {
	Fold           int            `json:"fold"`
	AuthorClusters int            `json:"author_clusters"`
	Records        int            `json:"records"`
	Names          int            `json:"names"`
	Titles         int            `json:"titles"`
	DurationMS     int64          `json:"duration_ms"`
	Lines          map[string]int `json:"lines"`
}

// Store reads and writes the ledger tables.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB, logger *zap.SugaredLogger) *Store {
	return &Store{db: db, logger: logger}
}

// Record inserts run and its folds in one transaction. An empty ID is
// replaced with a fresh UUID.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Status != StatusSucceeded && run.Status != StatusFailed {
		return errors.AssertionFailedf("invalid run status %q", run.Status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDB(err, "begin ledger transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO prep_runs (
			id, status, error_message, input_path, out_dir, num_folds, seed,
			sim_threshold, mangle_prob, name_similarity, title_similarity, write_truth,
			records, author_clusters, entity_groups, tool_version, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, nullString(run.Error), run.Input, run.OutDir, run.NumFolds, run.Seed,
		run.SimThreshold, run.MangleProb, run.NameSimilarity, run.TitleSimilarity, run.WriteTruth,
		run.Records, run.AuthorClusters, run.EntityGroups, run.ToolVersion,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return wrapDB(err, "insert run %s", run.ID)
	}

	for _, f := range run.Folds {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prep_folds (run_id, fold, author_clusters, records, names, titles, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, f.Fold, f.AuthorClusters, f.Records, f.Names, f.Titles, f.DurationMS,
		)
		if err != nil {
			return wrapDB(err, "insert fold %d of run %s", f.Fold, run.ID)
		}

		for _, rel := range sortedKeys(f.Lines) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO prep_fold_lines (run_id, fold, relation, lines) VALUES (?, ?, ?, ?)`,
				run.ID, f.Fold, rel, f.Lines[rel],
			)
			if err != nil {
				return wrapDB(err, "insert %s lines of fold %d", rel, f.Fold)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapDB(err, "commit run %s", run.ID)
	}

	if s.logger != nil {
		s.logger.Debugw("Recorded prep run", "run_id", run.ID, "status", run.Status, "folds", len(run.Folds))
	}
	return nil
}

const runColumns = `
	id, status, COALESCE(error_message, ''), input_path, out_dir, num_folds, seed,
	sim_threshold, mangle_prob, name_similarity, title_similarity, write_truth,
	records, author_clusters, entity_groups, tool_version, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.Status, &r.Error, &r.Input, &r.OutDir, &r.NumFolds, &r.Seed,
		&r.SimThreshold, &r.MangleProb, &r.NameSimilarity, &r.TitleSimilarity, &r.WriteTruth,
		&r.Records, &r.AuthorClusters, &r.EntityGroups, &r.ToolVersion, &r.StartedAt, &r.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns up to limit runs, newest first, without fold details.
// A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT` + runColumns + ` FROM prep_runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDB(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, wrapDB(err, "scan run")
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err, "iterate runs")
	}
	return runs, nil
}

// Get returns a run with its folds. id may be a unique prefix of a run id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, errors.NewNotFoundError("empty run id")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT`+runColumns+` FROM prep_runs WHERE id = ? OR id LIKE ? || '%' ORDER BY id LIMIT 2`, id, id)
	if err != nil {
		return nil, wrapDB(err, "get run %s", id)
	}
	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, wrapDB(err, "scan run %s", id)
		}
		matches = append(matches, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err, "get run %s", id)
	}

	var run *Run
	switch {
	case len(matches) == 0:
		return nil, errors.NewNotFoundError("run %s", id)
	case len(matches) == 1:
		run = matches[0]
	default:
		for _, m := range matches {
			if m.ID == id {
				run = m
			}
		}
		if run == nil {
			return nil, errors.WithHint(
				errors.NewNotFoundError("run prefix %s is ambiguous", id),
				"use more characters of the run id")
		}
	}

	run.Folds, err = s.folds(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) folds(ctx context.Context, runID string) ([]Fold, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.fold, f.author_clusters, f.records, f.names, f.titles, f.duration_ms,
		       COALESCE(l.relation, ''), COALESCE(l.lines, 0)
		FROM prep_folds f
		LEFT JOIN prep_fold_lines l ON l.run_id = f.run_id AND l.fold = f.fold
		WHERE f.run_id = ?
		ORDER BY f.fold, l.relation`, runID)
	if err != nil {
		return nil, wrapDB(err, "get folds of run %s", runID)
	}
	defer rows.Close()

	var folds []Fold
	for rows.Next() {
		var f Fold
		var rel string
		var lines int
		if err := rows.Scan(&f.Fold, &f.AuthorClusters, &f.Records, &f.Names, &f.Titles, &f.DurationMS, &rel, &lines); err != nil {
			return nil, wrapDB(err, "scan fold")
		}
		if n := len(folds); n == 0 || folds[n-1].Fold != f.Fold {
			f.Lines = make(map[string]int)
			folds = append(folds, f)
		}
		if rel != "" {
			folds[len(folds)-1].Lines[rel] = lines
		}
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err, "iterate folds")
	}
	return folds, nil
}

// Delete removes a run and its folds.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prep_runs WHERE id = ?`, id)
	if err != nil {
		return wrapDB(err, "delete run %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDB(err, "delete run %s", id)
	}
	if n == 0 {
		return errors.NewNotFoundError("run %s", id)
	}
	return nil
}

// wrapDB adds context and marks closed-connection failures.
func wrapDB(err error, format string, args ...interface{}) error {
	err = errors.Wrapf(err, format, args...)
	if db.IsDatabaseClosed(err) {
		return errors.Mark(err, db.ErrDatabaseClosed)
	}
	if db.IsBusy(err) {
		return errors.WithHint(err, "another erbench process holds the ledger; retry, or pass --no-ledger")
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
