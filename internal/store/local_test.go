package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/irwanphan/voice-news-summary/internal/news"
)

func testLocal(t *testing.T) (*Local, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	l, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestLocalResultRoundTrip(t *testing.T) {
	l, _ := testLocal(t)

	if err := l.SaveResult("Quantum Computing", sampleArticles()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Lookup normalizes case and surrounding whitespace
	got, ok := l.Result("  quantum computing ", 0)
	if !ok {
		t.Fatal("expected saved result")
	}
	if len(got) != 2 || got[0].Title != "Post A" {
		t.Errorf("unexpected articles: %+v", got)
	}
}

func TestLocalResultReplacesPrior(t *testing.T) {
	l, _ := testLocal(t)

	if err := l.SaveResult("ai", sampleArticles()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	updated := []news.Article{{Title: "New", Source: "S", Summary: "Sum"}}
	if err := l.SaveResult("ai", updated); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok := l.Result("ai", 0)
	if !ok {
		t.Fatal("expected result")
	}
	if len(got) != 1 || got[0].Title != "New" {
		t.Errorf("expected replacement, got %+v", got)
	}
}

func TestLocalResultMaxAge(t *testing.T) {
	l, _ := testLocal(t)

	if err := l.SaveResult("ai", sampleArticles()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := l.Result("ai", time.Nanosecond); ok {
		t.Error("expected stale result rejected")
	}
	if _, ok := l.Result("ai", time.Hour); !ok {
		t.Error("expected fresh result accepted")
	}
}

func TestLocalResultMiss(t *testing.T) {
	l, _ := testLocal(t)
	if _, ok := l.Result("never searched", 0); ok {
		t.Error("expected miss")
	}
}

func TestLocalRecentTopics(t *testing.T) {
	l, _ := testLocal(t)

	for _, topic := range []string{"ai", "space", "health"} {
		if err := l.RememberTopic(topic); err != nil {
			t.Fatalf("remember %q: %v", topic, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct timestamps
	}
	// Repeat moves to front
	if err := l.RememberTopic("ai"); err != nil {
		t.Fatalf("remember repeat: %v", err)
	}

	topics, err := l.RecentTopics(10)
	if err != nil {
		t.Fatalf("recent topics: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d: %v", len(topics), topics)
	}
	if topics[0] != "ai" {
		t.Errorf("expected repeat search first, got %v", topics)
	}
}

func TestLocalRecentTopicsLimit(t *testing.T) {
	l, _ := testLocal(t)

	for i := 0; i < 5; i++ {
		if err := l.RememberTopic(string(rune('a' + i))); err != nil {
			t.Fatalf("remember: %v", err)
		}
	}

	topics, err := l.RecentTopics(2)
	if err != nil {
		t.Fatalf("recent topics: %v", err)
	}
	if len(topics) != 2 {
		t.Errorf("expected 2 topics, got %d", len(topics))
	}
}

func TestLocalPrune(t *testing.T) {
	l, _ := testLocal(t)

	if err := l.SaveResult("old", sampleArticles()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := l.RememberTopic("old"); err != nil {
		t.Fatalf("remember: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	deleted, err := l.Prune(time.Nanosecond)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 rows pruned, got %d", deleted)
	}
	if _, ok := l.Result("old", 0); ok {
		t.Error("expected result pruned")
	}
}

func TestLocalStats(t *testing.T) {
	l, path := testLocal(t)

	if err := l.SaveResult("ai", sampleArticles()); err != nil {
		t.Fatalf("save: %v", err)
	}

	count, size, err := l.Stats(path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 saved topic, got %d", count)
	}
	if size <= 0 {
		t.Errorf("expected positive db size, got %d", size)
	}
}
