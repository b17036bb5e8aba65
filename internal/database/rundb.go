package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wikiwalk/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "wikiwalk.db"

// RunDB stores traversal runs in SQLite.
type RunDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run database in dbDir.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	// busy_timeout lets concurrent wikiwalk processes share the file.
	const pragmas = "&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	dsn := dbPath + "?mode=rw" + pragmas
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc" + pragmas
	} else if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	ctx := context.Background()
	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := rdb.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (r *RunDB) Path() string {
	return r.dbPath
}

// Close closes the database connection.
func (r *RunDB) Close() error {
	return r.db.Close()
}

func (r *RunDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		backend TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL,
		outcome TEXT NOT NULL,
		steps INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);

	-- One row per visited article, in path order
	CREATE TABLE IF NOT EXISTS run_steps (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		heading TEXT NOT NULL,
		url TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_steps_heading ON run_steps(heading);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores run and its path. Saving a run with an existing ID
// replaces the stored copy.
func (r *RunDB) SaveRun(ctx context.Context, run *model.Run) (err error) {
	if run == nil {
		return ErrNilRun
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteRun(ctx, tx, run.ID); err != nil {
		return fmt.Errorf("failed to replace run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, finished_at, backend, target, outcome, steps, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		run.Backend,
		run.Target,
		run.Outcome.String(),
		run.Steps,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_steps (run_id, position, heading, url) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare step insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range run.Path {
		if _, err = stmt.ExecContext(ctx, run.ID, i, a.Heading, a.URL); err != nil {
			return fmt.Errorf("failed to insert step %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
// A unique ID prefix of at least 4 characters is accepted too.
func (r *RunDB) GetRun(ctx context.Context, id string) (*model.Run, error) {
	query := runColumns + ` WHERE id = ?`
	args := []any{id}
	if len(id) >= 4 && len(id) < 36 {
		query = runColumns + ` WHERE id LIKE ? ESCAPE '\' LIMIT 2`
		args = []any{escapeLike(id) + "%"}
	}

	runs, err := r.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(runs) != 1 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return runs[0], nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (r *RunDB) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	query := runColumns + ` ORDER BY started_at DESC, id`
	if limit > 0 {
		return r.queryRuns(ctx, query+` LIMIT ?`, limit)
	}
	return r.queryRuns(ctx, query)
}

const runColumns = `SELECT id, started_at, finished_at, backend, target, outcome, steps, error FROM runs`

func (r *RunDB) queryRuns(ctx context.Context, query string, args ...any) ([]*model.Run, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var (
			run               model.Run
			started, finished string
			outcome           string
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.Backend, &run.Target, &outcome, &run.Steps, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(started)
		run.FinishedAt = parseTimestamp(finished)
		if run.Outcome, err = model.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	rows.Close()

	for _, run := range runs {
		if run.Path, err = r.loadPath(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *RunDB) loadPath(ctx context.Context, runID string) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT heading, url FROM run_steps WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query path: %w", err)
	}
	defer rows.Close()

	path := make([]model.Article, 0)
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.Heading, &a.URL); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		path = append(path, a)
	}
	return path, rows.Err()
}

// DeleteRun removes a run and its path.
func (r *RunDB) DeleteRun(ctx context.Context, id string) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err := deleteRun(ctx, r.db, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteRun(ctx context.Context, db execer, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM run_steps WHERE run_id = ?`, id); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

// ArticleCount is a heading with the number of runs that passed through it.
type ArticleCount struct {
	Heading string `json:"heading"`
	Runs    int    `json:"runs"`
}

// Stats summarizes the stored runs.
type Stats struct {
	// Total is the number of stored runs.
	Total int `json:"total"`

	// ByOutcome counts runs per outcome identifier.
	ByOutcome map[string]int `json:"by_outcome"`

	// AverageSuccessSteps is the mean step count of successful runs.
	AverageSuccessSteps float64 `json:"average_success_steps"`

	// MaxSuccessSteps is the longest successful run.
	MaxSuccessSteps int `json:"max_success_steps"`

	// TopArticles are the headings that occur in the most runs, excluding
	// the start article of each run.
	TopArticles []ArticleCount `json:"top_articles"`
}

// topArticleLimit is how many headings Stats reports.
const topArticleLimit = 5

// Stats computes summary statistics over all stored runs.
func (r *RunDB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByOutcome: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		stats.ByOutcome[outcome] = n
		stats.Total += n
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return nil, fmt.Errorf("failed to count outcomes: %w", err)
	}

	var avg sql.NullFloat64
	var maxSteps sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT AVG(steps), MAX(steps) FROM runs WHERE outcome = ?`, model.OutcomeSuccess.String(),
	).Scan(&avg, &maxSteps)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate steps: %w", err)
	}
	stats.AverageSuccessSteps = avg.Float64
	stats.MaxSuccessSteps = int(maxSteps.Int64)

	rows, err = r.db.QueryContext(ctx, `
	SELECT heading, COUNT(DISTINCT run_id) AS n
	FROM run_steps
	WHERE position > 0
	GROUP BY heading
	ORDER BY n DESC, heading
	LIMIT ?`, topArticleLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank articles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ac ArticleCount
		if err := rows.Scan(&ac.Heading, &ac.Runs); err != nil {
			return nil, fmt.Errorf("failed to scan article count: %w", err)
		}
		stats.TopArticles = append(stats.TopArticles, ac)
	}
	return stats, rows.Err()
}

// timestampFormats lists the formats parseTimestamp accepts.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
}

// storageFormat has a fixed width so stored timestamps sort as text.
const storageFormat = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(storageFormat)
}

// parseTimestamp tries each known format and returns the zero time if
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
