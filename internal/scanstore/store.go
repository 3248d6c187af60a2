package scanstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stashdup/internal/config"
	"stashdup/internal/dupe"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates no pass exists with the requested id.
var ErrNotFound = errors.New("scan pass not found")

// Store manages scan-pass persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the scan history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "scans.db"))
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// SaveReport persists one completed pass.
func (s *Store) SaveReport(ctx context.Context, report *dupe.Report) error {
	if report == nil || report.PassID == "" {
		return errors.New("save report: report with pass id required")
	}
	encoded, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("save report: encode: %w", err)
	}

	dominant := 0
	if report.Options.IdentifierDominant {
		dominant = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scan_passes (
			id, generated_at, records_scanned, clusters_found, pairs_found,
			elapsed_ms, phash_threshold, title_threshold, identifier_dominant, report_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.PassID,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.RecordsScanned,
		report.ClustersFound,
		report.PairsFound,
		report.Elapsed.Milliseconds(),
		report.Options.PHashDistanceThreshold,
		report.Options.TitleSimilarityThreshold,
		dominant,
		string(encoded),
	)
	if err != nil {
		return fmt.Errorf("save report: insert: %w", err)
	}
	return nil
}

// RecentPasses returns up to limit pass summaries, newest first.
func (s *Store) RecentPasses(ctx context.Context, limit int) ([]PassSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, records_scanned, clusters_found, pairs_found, elapsed_ms
		FROM scan_passes
		ORDER BY generated_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent passes: query: %w", err)
	}
	defer rows.Close()

	var summaries []PassSummary
	for rows.Next() {
		var summary PassSummary
		var generated string
		var elapsedMS int64
		if err := rows.Scan(&summary.PassID, &generated, &summary.RecordsScanned,
			&summary.ClustersFound, &summary.PairsFound, &elapsedMS); err != nil {
			return nil, fmt.Errorf("recent passes: scan row: %w", err)
		}
		timestamp, parseErr := time.Parse(time.RFC3339Nano, generated)
		if parseErr != nil {
			return nil, fmt.Errorf("recent passes: parse timestamp %q: %w", generated, parseErr)
		}
		summary.GeneratedAt = timestamp
		summary.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent passes: iterate: %w", err)
	}
	return summaries, nil
}

// GetReport loads the full report for one pass.
func (s *Store) GetReport(ctx context.Context, passID string) (*dupe.Report, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx,
		"SELECT report_json FROM scan_passes WHERE id = ?", passID,
	).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, passID)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: query: %w", err)
	}

	var report dupe.Report
	if err := json.Unmarshal([]byte(encoded), &report); err != nil {
		return nil, fmt.Errorf("get report: decode: %w", err)
	}
	return &report, nil
}
