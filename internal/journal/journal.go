package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Kind is the type of submission recorded in the journal
type Kind string

const (
	KindNowPlaying Kind = "now_playing"
	KindScrobble   Kind = "scrobble"
)

// Journal is a local, append-only log of submissions sent to Last.fm.
// It records outcomes for display; nothing is ever replayed from it.
type Journal struct {
	db *sql.DB
}

// Entry is one recorded submission
type Entry struct {
	ID             int64
	Kind           Kind
	Artist         string
	Track          string
	Album          string
	Timestamp      time.Time
	Accepted       bool
	IgnoredCode    int
	IgnoredMessage string
	Error          string
	CreatedAt      time.Time
}

// Open opens (or creates) a journal backed by SQLite
func Open(dbPath string) (*Journal, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			artist TEXT NOT NULL,
			track TEXT NOT NULL,
			album TEXT,
			timestamp INTEGER NOT NULL,
			accepted BOOLEAN DEFAULT 0,
			ignored_code INTEGER NOT NULL DEFAULT 0,
			ignored_message TEXT,
			error TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_created_at ON submissions(created_at);
		CREATE INDEX IF NOT EXISTS idx_kind ON submissions(kind, created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

const insertQuery = `
	INSERT INTO submissions (kind, artist, track, album, timestamp, accepted, ignored_code, ignored_message, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Record appends a single entry and returns its id
func (j *Journal) Record(ctx context.Context, e Entry) (int64, error) {
	result, err := j.db.ExecContext(ctx, insertQuery, e.args()...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	return id, nil
}

// RecordBatch appends several entries in one transaction
func (j *Journal) RecordBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.args()...); err != nil {
			return fmt.Errorf("failed to insert submission %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (e Entry) args() []any {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return []any{
		string(e.Kind),
		e.Artist,
		e.Track,
		nullString(e.Album),
		e.Timestamp.Unix(),
		e.Accepted,
		e.IgnoredCode,
		nullString(e.IgnoredMessage),
		nullString(e.Error),
		createdAt.Unix(),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Recent returns the most recent entries, newest first
// A limit <= 0 returns every entry
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, kind, artist, track, COALESCE(album, ''), timestamp, accepted,
			ignored_code, COALESCE(ignored_message, ''), COALESCE(error, ''), created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var timestampUnix, createdUnix int64

		err := rows.Scan(
			&e.ID,
			&kind,
			&e.Artist,
			&e.Track,
			&e.Album,
			&timestampUnix,
			&e.Accepted,
			&e.IgnoredCode,
			&e.IgnoredMessage,
			&e.Error,
			&createdUnix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		e.Kind = Kind(kind)
		e.Timestamp = time.Unix(timestampUnix, 0)
		e.CreatedAt = time.Unix(createdUnix, 0)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return entries, nil
}

// Count returns the number of entries of the given kind, or of every kind
// when kind is empty
func (j *Journal) Count(ctx context.Context, kind Kind) (int, error) {
	query := "SELECT COUNT(*) FROM submissions"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}

	var count int
	if err := j.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}

// Prune removes entries recorded more than maxAge ago
func (j *Journal) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := j.db.ExecContext(ctx, "DELETE FROM submissions WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune submissions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Stats summarizes submission outcomes
type Stats struct {
	NowPlaying int
	Scrobbles  int
	Accepted   int
	Ignored    int
	Failed     int
}

// Stats returns outcome totals for entries recorded since the given time,
// or for every entry when since is zero
func (j *Journal) Stats(ctx context.Context, since time.Time) (Stats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error IS NULL AND accepted THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error IS NULL AND NOT accepted THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM submissions
	`
	args := []any{string(KindNowPlaying), string(KindScrobble)}
	if !since.IsZero() {
		query += " WHERE created_at >= ?"
		args = append(args, since.Unix())
	}

	var s Stats
	err := j.db.QueryRowContext(ctx, query, args...).Scan(&s.NowPlaying, &s.Scrobbles, &s.Accepted, &s.Ignored, &s.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to summarize submissions: %w", err)
	}

	return s, nil
}
