// Package store is the durable repository of confirmed news rows, backed by
// an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// NewsRow is one confirmed, saved result. Rows are never mutated or deleted
// after insert; id is the sole stable identity.
type NewsRow struct {
	ID        int64
	Topic     string
	Source    string
	Title     string
	URL       string
	Summary   string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS news (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	topic      TEXT NOT NULL,
	source     TEXT NOT NULL,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL,
	summary    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_news_topic ON news(topic);
`

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertMany inserts rows best-effort, one statement per row: a failed row is
// skipped and reported, the others still commit. Ids and creation timestamps
// are assigned here, never by the caller; returned ids are in insertion
// order and strictly increasing.
func (s *Store) InsertMany(ctx context.Context, rows []NewsRow) ([]int64, error) {
	ids := make([]int64, 0, len(rows))
	var errs []error
	for i, r := range rows {
		createdAt := time.Now().UTC()
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO news (topic, source, title, url, summary, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.Topic, r.Source, r.Title, r.URL, r.Summary, createdAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d (%s): %w", i, r.URL, err))
			continue
		}
		id, err := res.LastInsertId()
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d (%s): last insert id: %w", i, r.URL, err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}

// ListByTopic returns rows with exactly the given topic, newest first,
// bounded by limit.
func (s *Store) ListByTopic(ctx context.Context, topic string, limit int) ([]NewsRow, error) {
	return s.list(ctx,
		`SELECT id, topic, source, title, url, summary, created_at FROM news
		 WHERE topic = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		topic, limit,
	)
}

// ListAll returns rows across all topics, newest first, bounded by limit.
func (s *Store) ListAll(ctx context.Context, limit int) ([]NewsRow, error) {
	return s.list(ctx,
		`SELECT id, topic, source, title, url, summary, created_at FROM news
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// GetByID returns the row with the given id, or nil when absent. Absence is
// a normal outcome, not an error.
func (s *Store) GetByID(ctx context.Context, id int64) (*NewsRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, source, title, url, summary, created_at FROM news WHERE id = ?`, id)
	r, err := scanRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &r, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]NewsRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []NewsRow
	for rows.Next() {
		r, err := scanRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

func scanRow(scan func(dest ...any) error) (NewsRow, error) {
	var r NewsRow
	var createdAt string
	if err := scan(&r.ID, &r.Topic, &r.Source, &r.Title, &r.URL, &r.Summary, &createdAt); err != nil {
		return NewsRow{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return NewsRow{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	r.CreatedAt = ts
	return r, nil
}
