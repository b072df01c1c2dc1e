package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tagcrawl/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "tagcrawl.db"

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// RunDB records crawl runs.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
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
// If CreateIfNotExists is false and the database does not exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

func (rdb *RunDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		output TEXT NOT NULL,
		outcome TEXT NOT NULL,
		min_post_count INTEGER NOT NULL,
		categories TEXT NOT NULL,
		pages_fetched INTEGER NOT NULL,
		last_page INTEGER NOT NULL,
		examined INTEGER NOT NULL,
		written INTEGER NOT NULL,
		by_category TEXT NOT NULL,
		checksum TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun inserts result and sets its ID.
func (rdb *RunDB) SaveRun(ctx context.Context, result *model.RunResult) error {
	categories, err := json.Marshal(result.Categories)
	if err != nil {
		return fmt.Errorf("failed to serialize categories: %w", err)
	}
	byCategory, err := json.Marshal(result.ByCategory)
	if err != nil {
		return fmt.Errorf("failed to serialize category counts: %w", err)
	}

	query := `
	INSERT INTO runs (
		started_at, finished_at, endpoint, output, outcome, min_post_count,
		categories, pages_fetched, last_page, examined, written, by_category,
		checksum, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := rdb.db.ExecContext(ctx, query,
		formatTimestamp(result.StartedAt),
		formatTimestamp(result.FinishedAt),
		result.Endpoint,
		result.Output,
		string(result.Outcome),
		result.MinPostCount,
		string(categories),
		result.PagesFetched,
		result.LastPage,
		result.Examined,
		result.Written,
		string(byCategory),
		result.Checksum,
		result.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run ID: %w", err)
	}
	result.ID = id
	return nil
}

const selectRun = `
	SELECT id, started_at, finished_at, endpoint, output, outcome, min_post_count,
		categories, pages_fetched, last_page, examined, written, by_category,
		checksum, error
	FROM runs
`

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]model.RunResult, error) {
	query := selectRun + " ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID or ErrRunNotFound.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*model.RunResult, error) {
	run, err := scanRun(rdb.db.QueryRowContext(ctx, selectRun+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return run, err
}

// LatestRun returns the most recent run, or nil if there is none.
func (rdb *RunDB) LatestRun(ctx context.Context) (*model.RunResult, error) {
	run, err := scanRun(rdb.db.QueryRowContext(ctx, selectRun+" ORDER BY id DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.RunResult, error) {
	var (
		run        model.RunResult
		startedAt  string
		finishedAt string
		outcome    string
		categories string
		byCategory string
		checksum   sql.NullString
		errMsg     sql.NullString
	)

	err := row.Scan(
		&run.ID,
		&startedAt,
		&finishedAt,
		&run.Endpoint,
		&run.Output,
		&outcome,
		&run.MinPostCount,
		&categories,
		&run.PagesFetched,
		&run.LastPage,
		&run.Examined,
		&run.Written,
		&byCategory,
		&checksum,
		&errMsg,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	run.Outcome = model.Outcome(outcome)
	run.Checksum = checksum.String
	run.Error = errMsg.String

	if err := json.Unmarshal([]byte(categories), &run.Categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories of run %d: %w", run.ID, err)
	}
	run.ByCategory = make(map[model.Category]int)
	if err := json.Unmarshal([]byte(byCategory), &run.ByCategory); err != nil {
		return nil, fmt.Errorf("failed to parse category counts of run %d: %w", run.ID, err)
	}
	return &run, nil
}

// timestampFormats are tried in order when reading timestamps back.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
