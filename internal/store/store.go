// Package store wraps the Redis key-value store behind the cache, session,
// similar-topic and analytics features. Every entry here is advisory: when
// Redis is unreachable each operation degrades to an absent/empty result
// and the primary generation path carries on without it.
//
// Session updates are plain read-modify-write, not transactions. Counters
// rely on Redis INCR atomicity; nothing else is coordinated. That matches
// the single-user scope of the app.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/embed"
	"github.com/irwanphan/voice-news-summary/internal/news"
)

const (
	CacheTTL   = time.Hour
	SessionTTL = 24 * time.Hour
	vectorTTL  = 24 * time.Hour
	requestTTL = 7 * 24 * time.Hour

	historyLimit        = 10
	popularTopicsLimit  = 10
	similarityThreshold = 0.3

	keyCache        = "news_cache:"
	keySession      = "session:"
	keyVector       = "vector:"
	keyRequest      = "ai_request:"
	keyTotal        = "ai_requests_total"
	keyTopicCount   = "ai_requests_topic:"
	keyDurationSum  = "ai_requests_duration_ms"
	keyDurationSeen = "ai_requests_count"
)

// Store is the Redis-backed service. Construct with New and inject it;
// lifecycle (Close) belongs to the caller.
type Store struct {
	rdb *redis.Client
	log zerolog.Logger
}

func New(cfg config.RedisConfig, log zerolog.Logger) *Store {
	var client *redis.Client
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.URL).Msg("invalid redis url, falling back to host/port")
			opt = &redis.Options{Addr: addr(cfg), Password: cfg.Password, DB: cfg.DB}
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr(cfg), Password: cfg.Password, DB: cfg.DB})
	}
	return &Store{rdb: client, log: log}
}

// NewWithClient wires an existing client; used by tests.
func NewWithClient(client *redis.Client, log zerolog.Logger) *Store {
	return &Store{rdb: client, log: log}
}

func addr(cfg config.RedisConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// CacheKey derives the cache key for a topic.
func CacheKey(topic string) string {
	return keyCache + strings.ToLower(strings.TrimSpace(topic))
}

func vectorKey(topic string) string {
	return keyVector + strings.Join(strings.Fields(strings.ToLower(topic)), "_")
}

// SetCache stores a JSON-serializable value with an expiry. No-ops when
// the store is unreachable or the value does not marshal.
func (s *Store) SetCache(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache value not serializable")
		return
	}
	entry := CacheEntry{Data: data, TTL: int(ttl.Seconds()), Timestamp: time.Now().UnixMilli()}
	payload, _ := json.Marshal(entry)
	if err := s.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache not available, skipping")
	}
}

// GetCache reads a cached value into `into` and reports whether it was
// present. Missing, expired, malformed and unreachable all read as absent.
func (s *Store) GetCache(ctx context.Context, key string, into any) bool {
	payload, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache not available, returning absent")
		return false
	}
	var entry CacheEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("malformed cache entry")
		return false
	}
	if err := json.Unmarshal(entry.Data, into); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache entry does not match expected shape")
		return false
	}
	return true
}

func (s *Store) DeleteCache(ctx context.Context, key string) {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
}

// CreateSession stores a fresh empty session and returns its identifier.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()
	session := Session{
		SessionID:    id,
		UserID:       userID,
		Topics:       []string{},
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.writeSession(ctx, &session); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// GetSession returns the session, refreshing its last-activity timestamp
// and TTL as a side effect.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, bool) {
	payload, err := s.rdb.Get(ctx, keySession+sessionID).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Debug().Err(err).Msg("session read failed")
		}
		return nil, false
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		s.log.Warn().Err(err).Msg("malformed session record")
		return nil, false
	}
	session.LastActivity = time.Now().UnixMilli()
	if err := s.writeSession(ctx, &session); err != nil {
		s.log.Debug().Err(err).Msg("session refresh failed")
	}
	return &session, true
}

func (s *Store) writeSession(ctx context.Context, session *Session) error {
	payload, _ := json.Marshal(session)
	return s.rdb.Set(ctx, keySession+session.SessionID, payload, SessionTTL).Err()
}

// AddTopicToHistory prepends the topic to the session's history, removing
// any prior occurrence and truncating to the most recent entries.
func (s *Store) AddTopicToHistory(ctx context.Context, sessionID, topic string) {
	session, ok := s.GetSession(ctx, sessionID)
	if !ok {
		return
	}
	topics := make([]string, 0, len(session.Topics)+1)
	topics = append(topics, topic)
	for _, t := range session.Topics {
		if t != topic {
			topics = append(topics, t)
		}
	}
	if len(topics) > historyLimit {
		topics = topics[:historyLimit]
	}
	session.Topics = topics
	session.LastActivity = time.Now().UnixMilli()
	if err := s.writeSession(ctx, session); err != nil {
		s.log.Debug().Err(err).Msg("topic history update failed")
	}
}

// AddToVectorIndex embeds the topic and stores it with its articles for
// later similarity search.
func (s *Store) AddToVectorIndex(ctx context.Context, topic string, articles []news.Article) {
	entry := VectorEntry{
		Topic:     topic,
		Articles:  articles,
		Embedding: embed.Text(topic),
		Timestamp: time.Now().UnixMilli(),
	}
	payload, _ := json.Marshal(entry)
	if err := s.rdb.Set(ctx, vectorKey(topic), payload, vectorTTL).Err(); err != nil {
		s.log.Debug().Err(err).Str("topic", topic).Msg("vector indexing skipped")
	}
}

// SearchSimilarTopics scans every indexed topic and returns the ones whose
// cosine similarity to the query clears the threshold, best first, capped
// at limit. A linear scan: fine at demo scale, see the embed package docs.
func (s *Store) SearchSimilarTopics(ctx context.Context, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = 5
	}
	queryVec := embed.Text(query)

	var results []SearchResult
	iter := s.rdb.Scan(ctx, 0, keyVector+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		payload, err := s.rdb.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var entry VectorEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			continue
		}
		score := embed.Cosine(queryVec, entry.Embedding)
		if score > similarityThreshold {
			results = append(results, SearchResult{ID: key, Score: score, Topic: entry.Topic})
		}
	}
	if err := iter.Err(); err != nil {
		s.log.Debug().Err(err).Msg("vector search unavailable")
		return nil
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// IndexedArticles returns the articles stored alongside an indexed topic.
func (s *Store) IndexedArticles(ctx context.Context, topic string) ([]news.Article, bool) {
	payload, err := s.rdb.Get(ctx, vectorKey(topic)).Bytes()
	if err != nil {
		return nil, false
	}
	var entry VectorEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, false
	}
	return entry.Articles, len(entry.Articles) > 0
}

// LogRequest writes a TTL'd analytics record and bumps the counters. The
// duration sums feed the computed average response time.
func (s *Store) LogRequest(ctx context.Context, req RequestLog) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Timestamp == 0 {
		req.Timestamp = time.Now().UnixMilli()
	}
	payload, _ := json.Marshal(req)
	key := fmt.Sprintf("%s%s:%d", keyRequest, req.ID, req.Timestamp)
	if err := s.rdb.Set(ctx, key, payload, requestTTL).Err(); err != nil {
		s.log.Debug().Err(err).Msg("request logging skipped")
		return
	}
	s.rdb.Incr(ctx, keyTotal)
	s.rdb.Incr(ctx, keyTopicCount+req.Topic)
	s.rdb.IncrBy(ctx, keyDurationSum, req.ResponseTimeMS)
	s.rdb.Incr(ctx, keyDurationSeen)
}

// Analytics aggregates the request counters: total requests, the most
// popular topics, and the mean response time over logged requests.
func (s *Store) Analytics(ctx context.Context) Analytics {
	var out Analytics

	total, err := s.rdb.Get(ctx, keyTotal).Result()
	if err != nil && err != redis.Nil {
		s.log.Debug().Err(err).Msg("analytics unavailable")
		return out
	}
	out.TotalRequests, _ = strconv.ParseInt(total, 10, 64)

	iter := s.rdb.Scan(ctx, 0, keyTopicCount+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		count, err := s.rdb.Get(ctx, key).Int64()
		if err != nil {
			continue
		}
		out.PopularTopics = append(out.PopularTopics, TopicCount{
			Topic: strings.TrimPrefix(key, keyTopicCount),
			Count: count,
		})
	}
	if err := iter.Err(); err != nil {
		s.log.Debug().Err(err).Msg("topic counter scan failed")
	}
	sort.Slice(out.PopularTopics, func(i, j int) bool {
		if out.PopularTopics[i].Count != out.PopularTopics[j].Count {
			return out.PopularTopics[i].Count > out.PopularTopics[j].Count
		}
		return out.PopularTopics[i].Topic < out.PopularTopics[j].Topic
	})
	if len(out.PopularTopics) > popularTopicsLimit {
		out.PopularTopics = out.PopularTopics[:popularTopicsLimit]
	}

	durationSum, _ := s.rdb.Get(ctx, keyDurationSum).Int64()
	durationSeen, _ := s.rdb.Get(ctx, keyDurationSeen).Int64()
	if durationSeen > 0 {
		out.AverageResponseTimeMS = durationSum / durationSeen
	}
	return out
}

// HealthCheck verifies connectivity with a ping round trip.
func (s *Store) HealthCheck(ctx context.Context) bool {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.log.Debug().Err(err).Msg("redis ping failed")
		return false
	}
	return true
}
