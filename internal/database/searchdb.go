package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/speedscan/speedscan/internal/model"
)

// SearchDB provides SQLite-based storage for search runs and their
// qualifying results.
//
// Design decision: We use a single database file for all platforms
// rather than one file per platform. This simplifies cross-platform
// queries and backup/restore, and search runs are small (a few rows per
// run) so the file never grows meaningfully.
type SearchDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures SearchDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most use
	// cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a SearchDB at the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned; this is used by read-only commands like history
// that should not create an empty database just to report nothing.
func Open(dbDir string, opts Options) (*SearchDB, error) {
	dbPath := filepath.Join(dbDir, "speedscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a search first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; more connections buy nothing
	// for this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &SearchDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *SearchDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *SearchDB) createTables() error {
	schema := `
	-- Search runs store one row per completed platform scan
	CREATE TABLE IF NOT EXISTS search_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		platform_id TEXT NOT NULL,
		platform_name TEXT NOT NULL,
		threshold_seconds INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		games_scanned INTEGER NOT NULL DEFAULT 0,
		games_skipped INTEGER NOT NULL DEFAULT 0,
		matched INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_platform ON search_runs(platform_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON search_runs(started_at);

	-- Search results store the qualifying games of each run
	CREATE TABLE IF NOT EXISTS search_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES search_runs(id) ON DELETE CASCADE,
		game_id TEXT NOT NULL,
		game_name TEXT NOT NULL,
		category_id TEXT NOT NULL,
		category_name TEXT NOT NULL,
		record_seconds REAL NOT NULL,
		weblink TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON search_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_game ON search_results(game_id);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored search run.
type RunRecord struct {
	ID           int64         `json:"id"`
	Query        string        `json:"query"`
	PlatformID   string        `json:"platform_id"`
	PlatformName string        `json:"platform_name"`
	Threshold    time.Duration `json:"threshold"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  time.Time     `json:"completed_at"`
	GamesScanned int           `json:"games_scanned"`
	GamesSkipped int           `json:"games_skipped"`
	Matched      int           `json:"matched"`
}

// SaveReport stores a completed search report and its results in one
// transaction. Returns the new run ID.
func (sdb *SearchDB) SaveReport(ctx context.Context, report *model.SearchReport) (int64, error) {
	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO search_runs (query, platform_id, platform_name, threshold_seconds,
		started_at, completed_at, games_scanned, games_skipped, matched)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Query,
		report.PlatformID,
		report.PlatformName,
		int64(report.Threshold.Seconds()),
		report.StartedAt.UTC().Format(time.RFC3339),
		report.CompletedAt.UTC().Format(time.RFC3339),
		report.GamesScanned,
		report.GamesSkipped,
		report.Matched(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert search run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, r := range report.Results {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO search_results (run_id, game_id, game_name, category_id, category_name, record_seconds, weblink)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			runID, r.GameID, r.GameName, r.CategoryID, r.CategoryName,
			r.Record.Seconds(), r.Weblink,
		); err != nil {
			return 0, fmt.Errorf("failed to insert search result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit search run: %w", err)
	}
	return runID, nil
}

// ListRuns lists stored runs for a platform, newest first.
// An empty platformID lists runs for all platforms.
func (sdb *SearchDB) ListRuns(ctx context.Context, platformID string) ([]RunRecord, error) {
	query := `
	SELECT id, query, platform_id, platform_name, threshold_seconds,
		started_at, completed_at, games_scanned, games_skipped, matched
	FROM search_runs
	`
	args := []any{}
	if platformID != "" {
		query += " WHERE platform_id = ?"
		args = append(args, platformID)
	}
	query += " ORDER BY started_at DESC, id DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run              RunRecord
			thresholdSeconds int64
			startedAt        string
			completedAt      string
		)
		if err := rows.Scan(
			&run.ID,
			&run.Query,
			&run.PlatformID,
			&run.PlatformName,
			&thresholdSeconds,
			&startedAt,
			&completedAt,
			&run.GamesScanned,
			&run.GamesSkipped,
			&run.Matched,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Threshold = time.Duration(thresholdSeconds) * time.Second
		run.StartedAt = parseTimestamp(startedAt)
		run.CompletedAt = parseTimestamp(completedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRuns returns up to n of the newest runs for a platform.
func (sdb *SearchDB) LatestRuns(ctx context.Context, platformID string, n int) ([]RunRecord, error) {
	runs, err := sdb.ListRuns(ctx, platformID)
	if err != nil {
		return nil, err
	}
	if len(runs) > n {
		runs = runs[:n]
	}
	return runs, nil
}

// Results returns the qualifying games stored for a run.
func (sdb *SearchDB) Results(ctx context.Context, runID int64) ([]model.SearchResult, error) {
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT game_id, game_name, category_id, category_name, record_seconds, weblink
	FROM search_results
	WHERE run_id = ?
	ORDER BY record_seconds ASC, game_name ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []model.SearchResult
	for rows.Next() {
		var (
			r             model.SearchResult
			recordSeconds float64
			weblink       sql.NullString
		)
		if err := rows.Scan(&r.GameID, &r.GameName, &r.CategoryID, &r.CategoryName, &recordSeconds, &weblink); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Record = time.Duration(recordSeconds * float64(time.Second))
		r.Weblink = weblink.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// Run returns a single stored run by ID, or sql.ErrNoRows-wrapped error
// when it does not exist.
func (sdb *SearchDB) Run(ctx context.Context, runID int64) (*RunRecord, error) {
	var (
		run              RunRecord
		thresholdSeconds int64
		startedAt        string
		completedAt      string
	)
	err := sdb.db.QueryRowContext(ctx, `
	SELECT id, query, platform_id, platform_name, threshold_seconds,
		started_at, completed_at, games_scanned, games_skipped, matched
	FROM search_runs
	WHERE id = ?
	`, runID).Scan(
		&run.ID,
		&run.Query,
		&run.PlatformID,
		&run.PlatformName,
		&thresholdSeconds,
		&startedAt,
		&completedAt,
		&run.GamesScanned,
		&run.GamesSkipped,
		&run.Matched,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", runID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run.Threshold = time.Duration(thresholdSeconds) * time.Second
	run.StartedAt = parseTimestamp(startedAt)
	run.CompletedAt = parseTimestamp(completedAt)
	return &run, nil
}

// parseTimestamp parses a stored timestamp. Timestamps are written in
// RFC 3339, but SQLite datetime defaults use a space-separated format,
// so both are accepted.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
