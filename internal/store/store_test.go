package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irwanphan/voice-news-summary/internal/news"
)

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewWithClient(client, zerolog.Nop())
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func sampleArticles() []news.Article {
	return []news.Article{
		{Title: "Post A", Source: "Tech Today", Summary: "Summary A"},
		{Title: "Post B", Source: "Science Weekly", Summary: "Summary B"},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	key := CacheKey("Quantum Computing Advances")
	s.SetCache(ctx, key, sampleArticles(), CacheTTL)

	var got []news.Article
	require.True(t, s.GetCache(ctx, key, &got), "expected cache hit")
	assert.Equal(t, sampleArticles(), got)
}

func TestCacheExpiry(t *testing.T) {
	s, mr := testStore(t)
	ctx := context.Background()

	s.SetCache(ctx, CacheKey("topic"), sampleArticles(), 10*time.Second)

	mr.FastForward(11 * time.Second)

	var got []news.Article
	assert.False(t, s.GetCache(ctx, CacheKey("topic"), &got), "expected absent after TTL")
}

func TestCacheMiss(t *testing.T) {
	s, _ := testStore(t)
	var got []news.Article
	assert.False(t, s.GetCache(context.Background(), CacheKey("never stored"), &got))
}

func TestCacheKeyNormalization(t *testing.T) {
	assert.Equal(t, "news_cache:quantum computing", CacheKey("  Quantum Computing "))
}

func TestDeleteCache(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.SetCache(ctx, CacheKey("t"), sampleArticles(), CacheTTL)
	s.DeleteCache(ctx, CacheKey("t"))

	var got []news.Article
	assert.False(t, s.GetCache(ctx, CacheKey("t"), &got))
}

func TestStoreUnavailableIsSoft(t *testing.T) {
	s, mr := testStore(t)
	ctx := context.Background()
	mr.Close()

	// None of these may panic or surface an error to the caller.
	s.SetCache(ctx, CacheKey("t"), sampleArticles(), CacheTTL)
	var got []news.Article
	assert.False(t, s.GetCache(ctx, CacheKey("t"), &got))
	s.AddToVectorIndex(ctx, "t", sampleArticles())
	assert.Empty(t, s.SearchSimilarTopics(ctx, "t", 5))
	s.LogRequest(ctx, RequestLog{Topic: "t"})
	assert.Equal(t, Analytics{}, s.Analytics(ctx))
	assert.False(t, s.HealthCheck(ctx))

	_, ok := s.GetSession(ctx, "missing")
	assert.False(t, ok)
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	session, ok := s.GetSession(ctx, id)
	require.True(t, ok)
	assert.Equal(t, id, session.SessionID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Empty(t, session.Topics)
	assert.NotZero(t, session.CreatedAt)

	_, ok = s.GetSession(ctx, "nope")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	s, mr := testStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	mr.FastForward(SessionTTL + time.Minute)

	_, ok := s.GetSession(ctx, id)
	assert.False(t, ok, "expected session gone after TTL")
}

func TestTopicHistoryDedupeAndBound(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	id, err := s.CreateSession(ctx, "")
	require.NoError(t, err)

	s.AddTopicToHistory(ctx, id, "ai")
	s.AddTopicToHistory(ctx, id, "space")
	s.AddTopicToHistory(ctx, id, "ai") // repeat moves to front

	session, ok := s.GetSession(ctx, id)
	require.True(t, ok)
	assert.Equal(t, []string{"ai", "space"}, session.Topics)

	for i := 0; i < 15; i++ {
		s.AddTopicToHistory(ctx, id, string(rune('a'+i)))
	}
	session, ok = s.GetSession(ctx, id)
	require.True(t, ok)
	assert.Len(t, session.Topics, 10, "history must stay bounded")
	assert.Equal(t, "o", session.Topics[0], "newest topic first")
}

func TestVectorSelfSimilarity(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.AddToVectorIndex(ctx, "quantum computing advances", sampleArticles())

	results := s.SearchSimilarTopics(ctx, "quantum computing advances", 5)
	require.NotEmpty(t, results)
	assert.Equal(t, "quantum computing advances", results[0].Topic)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9, "identical embeddings score 1.0")
}

func TestVectorSearchThresholdAndOrder(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.AddToVectorIndex(ctx, "quantum computing", sampleArticles())
	s.AddToVectorIndex(ctx, "quantum physics", sampleArticles())
	s.AddToVectorIndex(ctx, "zzz", sampleArticles()) // shares no letters

	results := s.SearchSimilarTopics(ctx, "quantum computing", 5)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "descending order")
	}
	for _, r := range results {
		assert.Greater(t, r.Score, 0.3, "threshold filter")
		assert.NotEqual(t, "zzz", r.Topic)
	}
}

func TestVectorSearchLimit(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	topics := []string{"ai news", "ai views", "ai cues", "ai dues"}
	for _, topic := range topics {
		s.AddToVectorIndex(ctx, topic, sampleArticles())
	}

	results := s.SearchSimilarTopics(ctx, "ai news", 2)
	assert.Len(t, results, 2)
}

func TestIndexedArticles(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.AddToVectorIndex(ctx, "Space Exploration", sampleArticles())

	got, ok := s.IndexedArticles(ctx, "space exploration")
	require.True(t, ok, "vector key normalizes case and spacing")
	assert.Equal(t, sampleArticles(), got)

	_, ok = s.IndexedArticles(ctx, "never indexed")
	assert.False(t, ok)
}

func TestAnalyticsCountersMonotonic(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	before := s.Analytics(ctx).TotalRequests

	const n = 5
	for i := 0; i < n; i++ {
		s.LogRequest(ctx, RequestLog{Topic: "ai", ResponseTimeMS: 100})
	}
	s.LogRequest(ctx, RequestLog{Topic: "space", ResponseTimeMS: 400})

	got := s.Analytics(ctx)
	assert.Equal(t, before+n+1, got.TotalRequests)

	require.NotEmpty(t, got.PopularTopics)
	assert.Equal(t, "ai", got.PopularTopics[0].Topic)
	assert.Equal(t, int64(n), got.PopularTopics[0].Count)
}

func TestAnalyticsAverageResponseTime(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	s.LogRequest(ctx, RequestLog{Topic: "a", ResponseTimeMS: 100})
	s.LogRequest(ctx, RequestLog{Topic: "b", ResponseTimeMS: 300})

	got := s.Analytics(ctx)
	assert.Equal(t, int64(200), got.AverageResponseTimeMS)
}

func TestAnalyticsPopularTopicsCapped(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		s.LogRequest(ctx, RequestLog{Topic: string(rune('a' + i))})
	}

	got := s.Analytics(ctx)
	assert.Len(t, got.PopularTopics, 10)
}

func TestHealthCheck(t *testing.T) {
	s, mr := testStore(t)
	ctx := context.Background()

	assert.True(t, s.HealthCheck(ctx))
	mr.Close()
	assert.False(t, s.HealthCheck(ctx))
}
