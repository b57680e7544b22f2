package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/news"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

type fakeGenerator struct {
	result *generate.Result
	err    error
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, topic, _ string) (*generate.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.Topic = topic
	return &res, nil
}

func testServer(t *testing.T, gen Generator) (*Server, *store.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	st := store.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zerolog.Nop())
	t.Cleanup(func() { st.Close() })
	return New("127.0.0.1:0", st, gen, nil, zerolog.Nop()), st
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestGenerateEndpoint(t *testing.T) {
	gen := &fakeGenerator{result: &generate.Result{
		Articles: []news.Article{{Title: "T", Source: "S", Summary: "Sum"}},
	}}
	srv, _ := testServer(t, gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		jsonBody(t, map[string]string{"topic": "ai news"}))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ai news", resp.Topic)
	assert.Len(t, resp.Articles, 1)
	assert.NotEmpty(t, resp.SessionID, "a session is minted when the client sends none")
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateEndpointEmptyTopic(t *testing.T) {
	srv, _ := testServer(t, &fakeGenerator{err: generate.ErrEmptyTopic})

	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		jsonBody(t, map[string]string{"topic": ""}))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "topic must not be empty")
}

func TestGenerateEndpointProviderFailure(t *testing.T) {
	srv, _ := testServer(t, &fakeGenerator{err: errors.New("gemini API 500: boom")})

	req := httptest.NewRequest(http.MethodPost, "/api/generate",
		jsonBody(t, map[string]string{"topic": "ai"}))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "article generation failed")
}

func TestGenerateEndpointBadJSON(t *testing.T) {
	srv, _ := testServer(t, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	srv, st := testServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session",
		jsonBody(t, map[string]string{"userId": "u-1"})))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["sessionId"]
	require.NotEmpty(t, id)

	st.AddTopicToHistory(context.Background(), id, "quantum computing")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var session store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "u-1", session.UserID)
	assert.Equal(t, []string{"quantum computing"}, session.Topics)
}

func TestGetSessionNotFound(t *testing.T) {
	srv, _ := testServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimilarEndpoint(t *testing.T) {
	srv, st := testServer(t, &fakeGenerator{})
	ctx := context.Background()

	st.AddToVectorIndex(ctx, "quantum computing",
		[]news.Article{{Title: "T", Source: "S", Summary: "Sum"}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/similar?q=quantum+computers&limit=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []store.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "quantum computing", resp.Results[0].Topic)
}

func TestSimilarEndpointValidation(t *testing.T) {
	srv, _ := testServer(t, &fakeGenerator{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/similar", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/similar?q=ai&limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsEndpoint(t *testing.T) {
	srv, st := testServer(t, &fakeGenerator{})
	ctx := context.Background()

	st.LogRequest(ctx, store.RequestLog{Topic: "ai", ResponseTimeMS: 120})
	st.LogRequest(ctx, store.RequestLog{Topic: "ai", ResponseTimeMS: 80})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got store.Analytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(2), got.TotalRequests)
	assert.Equal(t, int64(100), got.AverageResponseTimeMS)
}

func TestHealthEndpoint(t *testing.T) {
	mr := miniredis.RunT(t)
	st := store.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zerolog.Nop())
	t.Cleanup(func() { st.Close() })
	srv := New("127.0.0.1:0", st, &fakeGenerator{}, nil, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	mr.Close()
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
}

func TestProxyRouteMounted(t *testing.T) {
	mr := miniredis.RunT(t)
	st := store.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zerolog.Nop())
	t.Cleanup(func() { st.Close() })

	proxied := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New("127.0.0.1:0", st, &fakeGenerator{}, proxied, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy?url=x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
