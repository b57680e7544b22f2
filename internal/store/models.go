package store

import (
	"encoding/json"

	"github.com/irwanphan/voice-news-summary/internal/news"
)

// CacheEntry is the JSON envelope written under news_cache keys. The TTL
// inside the payload mirrors the key expiry for observability; Redis is
// what actually expires the entry.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	TTL       int             `json:"ttl"`
	Timestamp int64           `json:"timestamp"`
}

// Session tracks one user's recent topic searches. Timestamps are Unix
// milliseconds.
type Session struct {
	SessionID    string   `json:"sessionId"`
	UserID       string   `json:"userId,omitempty"`
	Topics       []string `json:"topics"`
	CreatedAt    int64    `json:"createdAt"`
	LastActivity int64    `json:"lastActivity"`
}

// VectorEntry is an indexed topic: its embedding plus the articles that
// were generated for it.
type VectorEntry struct {
	Topic     string         `json:"topic"`
	Articles  []news.Article `json:"articles"`
	Embedding []float64      `json:"embedding"`
	Timestamp int64          `json:"timestamp"`
}

// SearchResult is one similar-topic candidate. Score is cosine similarity,
// always above the search threshold when returned.
type SearchResult struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Topic string  `json:"content"`
}

// RequestLog is a write-only analytics record for one generation request.
type RequestLog struct {
	ID             string `json:"id"`
	Topic          string `json:"topic"`
	SessionID      string `json:"sessionId,omitempty"`
	Timestamp      int64  `json:"timestamp"`
	ResponseTimeMS int64  `json:"responseTime"`
	Cached         bool   `json:"cached"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// Analytics is the aggregated view read back from the counters.
type Analytics struct {
	TotalRequests         int64        `json:"totalRequests"`
	PopularTopics         []TopicCount `json:"popularTopics"`
	AverageResponseTimeMS int64        `json:"averageResponseTime"`
}
