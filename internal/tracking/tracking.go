// Package tracking records privacy-conscious visitor metrics: IPs are
// salted and hashed before they touch the database, and rows older than a
// year are removed.
package tracking

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);

CREATE TABLE IF NOT EXISTS gallery_views (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL,
	image_index INTEGER NOT NULL DEFAULT 0,
	hashed_ip TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_gallery_views_slug ON gallery_views(slug);
`

// Retention is how long visitor rows are kept.
const Retention = 365 * 24 * time.Hour

// VisitorMetric is one tracked page view.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ItemStat counts how often an item's gallery was opened.
type ItemStat struct {
	Slug  string `json:"slug"`
	Opens int64  `json:"opens"`
}

type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	GalleryOpens     int64           `json:"gallery_opens"`
	TopItems         []ItemStat      `json:"top_items"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
	salt string
	now  func() time.Time
}

// Open creates the database file if needed and initializes the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; background inserts queue here instead of
	// failing with SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	salt, err := RandomToken()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn: conn, salt: salt, now: time.Now}, nil
}

func (d *DB) Close() error { return d.conn.Close() }

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP is consistent per IP for the lifetime of the process.
func (d *DB) HashIP(ip string) string {
	h := sha256.Sum256([]byte(ip + d.salt))
	return hex.EncodeToString(h[:])[:16]
}

// RecordVisit stores a page view.
func (d *DB) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		d.HashIP(ip), userAgent, path, d.now().UTC())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordGalleryOpen stores that a visitor opened slug's lightbox at index.
func (d *DB) RecordGalleryOpen(ctx context.Context, ip, slug string, index int) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO gallery_views (slug, image_index, hashed_ip, timestamp)
		VALUES (?, ?, ?, ?)`,
		slug, index, d.HashIP(ip), d.now().UTC())
	if err != nil {
		return fmt.Errorf("record gallery open: %w", err)
	}
	return nil
}

// Cleanup removes rows older than Retention and returns how many went.
func (d *DB) Cleanup(ctx context.Context) (int64, error) {
	cutoff := d.now().UTC().Add(-Retention)
	var total int64
	for _, table := range []string{"visitors", "gallery_views"} {
		res, err := d.conn.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", cutoff)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// Stats gathers the admin dashboard numbers.
func (d *DB) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	now := d.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&s.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&s.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&s.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{midnight}},
		{&s.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{now.Add(-7 * 24 * time.Hour)}},
		{&s.GalleryOpens, "SELECT COUNT(*) FROM gallery_views", nil},
	}
	for _, c := range counts {
		if err := d.conn.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := d.conn.QueryContext(ctx, `
		SELECT slug, COUNT(*) AS opens
		FROM gallery_views
		GROUP BY slug
		ORDER BY opens DESC, slug
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it ItemStat
		if err := rows.Scan(&it.Slug, &it.Opens); err != nil {
			return nil, fmt.Errorf("top items: %w", err)
		}
		s.TopItems = append(s.TopItems, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.RecentVisitors, err = d.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecentVisitors returns the newest limit page views.
func (d *DB) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("recent visitors: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
