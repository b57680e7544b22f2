package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/irwanphan/voice-news-summary/internal/news"
)

// Local is the on-disk fallback used when Redis is not around: last
// results per topic plus a bounded recent-topic list. It gives the TUI
// cache hits and topic history without the store, nothing more.
type Local struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func OpenLocal(dbPath string) (*Local, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	l := &Local{readDB: readDB, writeDB: writeDB}
	if err := l.init(); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

func (l *Local) init() error {
	_, err := l.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			topic    TEXT PRIMARY KEY,
			payload  TEXT NOT NULL,
			saved_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recent_topics (
			topic       TEXT PRIMARY KEY,
			searched_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_recent_topics_at ON recent_topics(searched_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (l *Local) Close() error {
	var errs []error
	if l.readDB != nil {
		errs = append(errs, l.readDB.Close())
	}
	if l.writeDB != nil {
		errs = append(errs, l.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// SaveResult stores the articles for a topic, replacing any prior set.
func (l *Local) SaveResult(topic string, articles []news.Article) error {
	payload, err := json.Marshal(articles)
	if err != nil {
		return fmt.Errorf("encoding articles: %w", err)
	}
	_, err = l.writeDB.Exec(`
		INSERT INTO results (topic, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(topic) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`, normalizeTopic(topic), string(payload), time.Now())
	return err
}

// Result returns the saved articles for a topic if they are younger than
// maxAge. A zero maxAge means any age is acceptable.
func (l *Local) Result(topic string, maxAge time.Duration) ([]news.Article, bool) {
	var payload string
	var savedAt time.Time
	err := l.readDB.QueryRow(
		"SELECT payload, saved_at FROM results WHERE topic = ?", normalizeTopic(topic),
	).Scan(&payload, &savedAt)
	if err != nil {
		return nil, false
	}
	if maxAge > 0 && time.Since(savedAt) > maxAge {
		return nil, false
	}
	var articles []news.Article
	if err := json.Unmarshal([]byte(payload), &articles); err != nil {
		return nil, false
	}
	return articles, len(articles) > 0
}

// RememberTopic records a search so it shows up in RecentTopics. Repeat
// searches just move the topic to the front.
func (l *Local) RememberTopic(topic string) error {
	_, err := l.writeDB.Exec(`
		INSERT INTO recent_topics (topic, searched_at) VALUES (?, ?)
		ON CONFLICT(topic) DO UPDATE SET searched_at = excluded.searched_at
	`, normalizeTopic(topic), time.Now())
	return err
}

// RecentTopics returns up to limit topics, most recently searched first.
func (l *Local) RecentTopics(limit int) ([]string, error) {
	if limit <= 0 {
		limit = historyLimit
	}
	rows, err := l.readDB.Query(
		"SELECT topic FROM recent_topics ORDER BY searched_at DESC LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Prune deletes saved results and topic history older than the retention
// period and reports how many rows went away.
func (l *Local) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := l.writeDB.Exec("DELETE FROM results WHERE saved_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	deleted, _ := res.RowsAffected()
	res, err = l.writeDB.Exec("DELETE FROM recent_topics WHERE searched_at < ?", cutoff)
	if err != nil {
		return deleted, err
	}
	n, _ := res.RowsAffected()
	return deleted + n, nil
}

// Stats reports the number of saved topics and the database size on disk.
func (l *Local) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := l.readDB.QueryRow("SELECT COUNT(*) FROM results").Scan(&count); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
