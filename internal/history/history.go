// Package history records completed subreddit queries in a local SQLite file.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one completed query: either a successful listing or the error
// message that was shown in its place.
type Entry struct {
	Subreddit string
	OK        bool
	Message   string
	PostCount int
	QueriedAt time.Time
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS queries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			subreddit  TEXT NOT NULL,
			ok         INTEGER NOT NULL,
			message    TEXT NOT NULL DEFAULT '',
			post_count INTEGER NOT NULL DEFAULT 0,
			queried_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_queries_queried_at ON queries(queried_at DESC);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Record appends e. A zero QueriedAt is stamped with the current time.
func (s *Store) Record(e Entry) error {
	if e.QueriedAt.IsZero() {
		e.QueriedAt = time.Now()
	}
	_, err := s.writeDB.Exec(
		`INSERT INTO queries (subreddit, ok, message, post_count, queried_at) VALUES (?, ?, ?, ?, ?)`,
		e.Subreddit, boolToInt(e.OK), e.Message, e.PostCount, e.QueriedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording query %s: %w", e.Subreddit, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.readDB.Query(`
		SELECT subreddit, ok, message, post_count, queried_at
		FROM queries
		ORDER BY queried_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ok int
			at int64
		)
		if err := rows.Scan(&e.Subreddit, &ok, &e.Message, &e.PostCount, &at); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		e.OK = ok != 0
		e.QueriedAt = time.Unix(0, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastSubreddit returns the most recent subreddit that loaded successfully,
// or "" when there is none.
func (s *Store) LastSubreddit() (string, error) {
	var name string
	err := s.readDB.QueryRow(`
		SELECT subreddit FROM queries WHERE ok = 1
		ORDER BY queried_at DESC, id DESC LIMIT 1`).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading last subreddit: %w", err)
	}
	return name, nil
}

// Prune deletes entries older than maxAge and returns how many were removed.
func (s *Store) Prune(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixNano()
	res, err := s.writeDB.Exec(`DELETE FROM queries WHERE queried_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := s.writeDB.Exec(`VACUUM`); err != nil {
			return n, fmt.Errorf("vacuuming history: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of recorded queries and the size of the file at dbPath.
func (s *Store) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting history: %w", err)
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, fi.Size(), nil
}

func (s *Store) SetLastOpened() error {
	return s.setMeta("last_opened", time.Now().Format(time.RFC3339))
}

func (s *Store) GetLastOpened() (time.Time, error) {
	v, err := s.getMeta("last_opened")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.readDB.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
