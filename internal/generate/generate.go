// Package generate orchestrates one topic search: cache read-through,
// similar-topic lookup, the provider call, and the bookkeeping writes
// around it.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/irwanphan/voice-news-summary/internal/news"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

// ErrEmptyTopic rejects blank submissions before any external call.
var ErrEmptyTopic = errors.New("topic must not be empty")

const basePrompt = `Generate 5 fictional but realistic news article summaries about "%s". Each summary should be unique and well-written.`

// Store is the slice of the key-value service the generator needs. All
// methods degrade softly; only the provider call can fail a Generate.
type Store interface {
	GetCache(ctx context.Context, key string, into any) bool
	SetCache(ctx context.Context, key string, value any, ttl time.Duration)
	SearchSimilarTopics(ctx context.Context, query string, limit int) []store.SearchResult
	AddToVectorIndex(ctx context.Context, topic string, articles []news.Article)
	AddTopicToHistory(ctx context.Context, sessionID, topic string)
	LogRequest(ctx context.Context, req store.RequestLog)
}

// Result is one answered topic search.
type Result struct {
	Topic    string               `json:"topic"`
	Articles []news.Article       `json:"articles"`
	Cached   bool                 `json:"cached"`
	Similar  []store.SearchResult `json:"similar,omitempty"`
}

type Service struct {
	provider Provider
	store    Store
	log      zerolog.Logger
}

func NewService(provider Provider, st Store, log zerolog.Logger) *Service {
	return &Service{provider: provider, store: st, log: log}
}

// Generate answers a topic search. Cache hits skip the provider entirely;
// misses call it, then persist the result to the cache and the vector
// index. Analytics and session history are recorded either way. Provider
// and validation failures surface to the caller unretried.
func (s *Service) Generate(ctx context.Context, topic, sessionID string) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	start := time.Now()
	key := store.CacheKey(topic)

	var cached []news.Article
	if s.store.GetCache(ctx, key, &cached) {
		s.finish(ctx, topic, sessionID, start, true)
		return &Result{Topic: topic, Articles: cached, Cached: true}, nil
	}

	similar := s.store.SearchSimilarTopics(ctx, topic, 5)

	articles, err := s.provider.Articles(ctx, s.prompt(topic, similar))
	if err != nil {
		return nil, fmt.Errorf("generating articles for %q: %w", topic, err)
	}

	s.store.SetCache(ctx, key, articles, store.CacheTTL)
	s.store.AddToVectorIndex(ctx, topic, articles)
	s.finish(ctx, topic, sessionID, start, false)

	return &Result{Topic: topic, Articles: articles, Similar: similar}, nil
}

func (s *Service) prompt(topic string, similar []store.SearchResult) string {
	prompt := fmt.Sprintf(basePrompt, topic)
	for _, r := range similar {
		if !strings.EqualFold(r.Topic, topic) {
			prompt += fmt.Sprintf(" The reader recently explored the related topic %q; one article may nod to that connection.", r.Topic)
			break
		}
	}
	return prompt
}

func (s *Service) finish(ctx context.Context, topic, sessionID string, start time.Time, cached bool) {
	if sessionID != "" {
		s.store.AddTopicToHistory(ctx, sessionID, topic)
	}
	s.store.LogRequest(ctx, store.RequestLog{
		Topic:          topic,
		SessionID:      sessionID,
		ResponseTimeMS: time.Since(start).Milliseconds(),
		Cached:         cached,
	})
	s.log.Debug().Str("topic", topic).Bool("cached", cached).
		Dur("elapsed", time.Since(start)).Msg("topic search answered")
}
