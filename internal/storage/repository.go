package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

// Repository keeps the history of posts opened in the detail view.
type Repository struct {
	db    *sql.DB
	nowFn func() time.Time
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db, nowFn: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS visits (
  post_id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  subreddit TEXT NOT NULL,
  permalink TEXT,
  visit_count INTEGER NOT NULL DEFAULT 1,
  first_visited_at TEXT NOT NULL,
  last_visited_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_last_visited_at ON visits(last_visited_at);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *Repository) CheckWritable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS write_check (id INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DROP TABLE write_check`); err != nil {
		return fmt.Errorf("write check cleanup: %w", err)
	}
	return nil
}

func (r *Repository) SaveVisit(ctx context.Context, post reddit.Post) error {
	if post.ID == "" {
		return fmt.Errorf("save visit: post has no id")
	}
	now := r.nowFn().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO visits (post_id, title, subreddit, permalink, visit_count, first_visited_at, last_visited_at)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT(post_id) DO UPDATE SET
  title=excluded.title,
  subreddit=excluded.subreddit,
  permalink=excluded.permalink,
  visit_count=visits.visit_count + 1,
  last_visited_at=excluded.last_visited_at
`, post.ID, post.Title, post.Subreddit, post.Permalink, now, now)
	if err != nil {
		return fmt.Errorf("save visit %s: %w", post.ID, err)
	}
	return nil
}

// VisitedIDs reports which of ids have been opened before.
func (r *Repository) VisitedIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT post_id FROM visits WHERE post_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

type Visit struct {
	PostID        string
	Title         string
	Subreddit     string
	Permalink     string
	Count         int
	LastVisitedAt time.Time
}

func (r *Repository) RecentVisits(ctx context.Context, limit int) ([]Visit, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT post_id, title, subreddit, COALESCE(permalink, ''), visit_count, last_visited_at
FROM visits
ORDER BY last_visited_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent visits: %w", err)
	}
	defer rows.Close()

	visits := make([]Visit, 0, limit)
	for rows.Next() {
		var v Visit
		var lastVisited string
		if err := rows.Scan(&v.PostID, &v.Title, &v.Subreddit, &v.Permalink, &v.Count, &lastVisited); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.LastVisitedAt, err = time.Parse(time.RFC3339Nano, lastVisited)
		if err != nil {
			return nil, fmt.Errorf("parse last_visited_at %q: %w", lastVisited, err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return visits, nil
}
