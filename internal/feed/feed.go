// Package feed is the ingestion path: real headlines pulled from RSS
// sources when generation is unavailable or undesired. Fetch-parse-
// filter-dedupe, with a headline-API top-up and canned articles as the
// last resort. Individual source failures never fail the aggregate.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/irwanphan/voice-news-summary/internal/config"
	"github.com/irwanphan/voice-news-summary/internal/news"
)

const (
	perSourceCap   = 3
	summaryMaxLen  = 200
	fetchUserAgent = "Mozilla/5.0 (compatible; voicenews/1.0)"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Service struct {
	client     HTTPClient
	sources    []config.Source
	newsAPIKey string
	proxyBase  string
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the default client; used by tests.
func WithHTTPClient(client HTTPClient) Option {
	return func(s *Service) { s.client = client }
}

// WithNewsAPIKey enables the headline-API top-up when feeds come back short.
func WithNewsAPIKey(key string) Option {
	return func(s *Service) { s.newsAPIKey = key }
}

// WithProxyBase routes feed fetches through the proxy endpoint, for
// environments where direct fetches are blocked.
func WithProxyBase(base string) Option {
	return func(s *Service) { s.proxyBase = base }
}

func NewService(sources []config.Source, opts ...Option) *Service {
	s := &Service{
		client:  &http.Client{Timeout: 15 * time.Second},
		sources: sources,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Articles returns up to limit articles about the topic. Best effort by
// construction: the worst case is the canned fallback set, never an error.
func (s *Service) Articles(ctx context.Context, topic string, limit int) []news.Article {
	if limit <= 0 {
		limit = 5
	}
	topic = strings.TrimSpace(topic)

	articles := s.fromFeeds(ctx, topic)

	if len(articles) < limit && s.newsAPIKey != "" {
		articles = append(articles, s.topUp(ctx, topic, limit-len(articles))...)
		articles = dedupe(articles)
	}

	if len(articles) == 0 {
		articles = Canned(topic)
	}

	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles
}

type sourceResult struct {
	articles []scoredArticle
	err      error
}

type scoredArticle struct {
	article news.Article
	score   float64
}

func (s *Service) fromFeeds(ctx context.Context, topic string) []news.Article {
	relevant := s.relevantSources(topic)

	var (
		mu     sync.Mutex
		merged []scoredArticle
		wg     sync.WaitGroup
	)

	for _, src := range relevant {
		wg.Add(1)
		go func(src config.Source) {
			defer wg.Done()
			res := s.fetchSource(ctx, src, topic)
			mu.Lock()
			defer mu.Unlock()
			if res.err != nil {
				// Isolated: one bad source must not fail the aggregation.
				return
			}
			merged = append(merged, res.articles...)
		}(src)
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].score > merged[j].score })

	out := make([]news.Article, 0, len(merged))
	for _, sa := range merged {
		out = append(out, sa.article)
	}
	return dedupe(out)
}

// relevantSources narrows the source list to the topic's category;
// general topics search everything.
func (s *Service) relevantSources(topic string) []config.Source {
	category := CategoryFor(topic)
	if category == General {
		return s.sources
	}
	var out []config.Source
	for _, src := range s.sources {
		if Category(src.Category) == category {
			out = append(out, src)
		}
	}
	if len(out) == 0 {
		return s.sources
	}
	return out
}

func (s *Service) fetchSource(ctx context.Context, src config.Source, topic string) sourceResult {
	feedURL := src.URL
	if s.proxyBase != "" {
		feedURL = s.proxyBase + "?url=" + url.QueryEscape(src.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return sourceResult{err: fmt.Errorf("fetching %s: %w", src.Name, err)}
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return sourceResult{err: fmt.Errorf("fetching %s: %w", src.Name, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sourceResult{err: fmt.Errorf("fetching %s: unexpected status %d", src.Name, resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return sourceResult{err: fmt.Errorf("reading %s: %w", src.Name, err)}
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return sourceResult{err: fmt.Errorf("parsing %s: %w", src.Name, err)}
	}

	topicLower := strings.ToLower(topic)
	var out []scoredArticle
	for _, item := range parsed.Items {
		title := strings.ToLower(item.Title)
		desc := strings.ToLower(item.Description)
		if topicLower != "" && !matchesTopic(topicLower, title, desc) {
			continue
		}

		published := time.Time{}
		publishedAt := ""
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
			publishedAt = published.Format(time.RFC3339)
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
			publishedAt = published.Format(time.RFC3339)
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		article := news.Article{
			Title:       item.Title,
			Source:      src.Name,
			Summary:     cleanContent(item.Description),
			URL:         item.Link,
			PublishedAt: publishedAt,
			Author:      author,
		}
		if article.Summary == "" {
			article.Summary = cleanContent(item.Content)
		}
		if !article.Valid() {
			continue
		}

		out = append(out, scoredArticle{
			article: article,
			score:   relevance(topic, item.Title, item.Description, published),
		})
		if len(out) >= perSourceCap {
			break
		}
	}
	return sourceResult{articles: out}
}

// matchesTopic requires at least one meaningful topic term in the title
// or body.
func matchesTopic(topicLower, title, desc string) bool {
	terms := topicTerms(topicLower)
	if len(terms) == 0 {
		return strings.Contains(title, topicLower) || strings.Contains(desc, topicLower)
	}
	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(desc, term) {
			return true
		}
	}
	return false
}

// dedupe drops repeated stories by normalized title, keeping the first
// (highest ranked) occurrence.
func dedupe(articles []news.Article) []news.Article {
	seen := make(map[string]bool, len(articles))
	out := articles[:0]
	for _, a := range articles {
		key := strings.ToLower(strings.TrimSpace(a.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

func cleanContent(s string) string {
	return truncate(strings.Join(strings.Fields(stripHTML(s)), " "), summaryMaxLen)
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// --- NewsAPI top-up ---

var newsAPIURLs = map[Category]string{
	Technology: "https://newsapi.org/v2/top-headlines?country=us&category=technology",
	Science:    "https://newsapi.org/v2/everything?q=science&language=en&sortBy=publishedAt",
	Health:     "https://newsapi.org/v2/top-headlines?country=us&category=health",
	Business:   "https://newsapi.org/v2/top-headlines?country=us&category=business",
}

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Author      string `json:"author"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (s *Service) topUp(ctx context.Context, topic string, n int) []news.Article {
	category := CategoryFor(topic)
	base, ok := newsAPIURLs[category]
	if !ok {
		base = newsAPIURLs[Technology]
	}

	reqURL := fmt.Sprintf("%s&apiKey=%s&pageSize=%d", base, s.newsAPIKey, n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var parsed newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}

	var out []news.Article
	for _, a := range parsed.Articles {
		author := a.Author
		if author == "" {
			author = "Unknown"
		}
		article := news.Article{
			Title:       a.Title,
			Source:      a.Source.Name,
			Summary:     cleanContent(a.Description),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Author:      author,
		}
		if article.Valid() {
			out = append(out, article)
		}
	}
	return out
}
