// Package dedup keeps a small sqlite store of place URLs that earlier runs
// already persisted, so repeat queries skip work instead of re-scraping.
package dedup

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const visitedSchema = `
CREATE TABLE IF NOT EXISTS visited_places (
	map_url    TEXT PRIMARY KEY,
	first_seen TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Cache is a sqlite-backed set of visited map URLs.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dedup cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping dedup cache: %w", err)
	}

	// WAL keeps readers from blocking the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()

		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(visitedSchema); err != nil {
		db.Close()

		return nil, fmt.Errorf("create visited_places table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Seen reports whether the map URL was marked by a previous run.
func (c *Cache) Seen(mapURL string) (bool, error) {
	var exists int

	err := c.db.QueryRow("SELECT 1 FROM visited_places WHERE map_url = ?", mapURL).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("query visited_places: %w", err)
	}

	return true, nil
}

// MarkSeen records the map URL. Marking twice is a no-op.
func (c *Cache) MarkSeen(mapURL string) error {
	_, err := c.db.Exec(
		"INSERT INTO visited_places (map_url, first_seen) VALUES (?, ?) ON CONFLICT (map_url) DO NOTHING",
		mapURL, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("mark visited: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
