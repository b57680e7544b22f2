package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/irwanphan/voice-news-summary/internal/generate"
	"github.com/irwanphan/voice-news-summary/internal/news"
	"github.com/irwanphan/voice-news-summary/internal/store"
)

type generateRequest struct {
	Topic     string `json:"topic"`
	SessionID string `json:"sessionId,omitempty"`
}

type generateResponse struct {
	Topic     string               `json:"topic"`
	Articles  []news.Article       `json:"articles"`
	Cached    bool                 `json:"cached"`
	SessionID string               `json:"sessionId,omitempty"`
	Similar   []store.SearchResult `json:"similar,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		if id, err := s.store.CreateSession(r.Context(), ""); err == nil {
			sessionID = id
		}
	}

	res, err := s.generator.Generate(r.Context(), req.Topic, sessionID)
	if err != nil {
		if errors.Is(err, generate.ErrEmptyTopic) {
			writeError(w, http.StatusBadRequest, "topic must not be empty", "")
			return
		}
		writeError(w, http.StatusBadGateway, "article generation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Topic:     res.Topic,
		Articles:  res.Articles,
		Cached:    res.Cached,
		SessionID: sessionID,
		Similar:   res.Similar,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required", "")
		return
	}
	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "")
			return
		}
		limit = n
	}

	results := s.store.SearchSimilarTopics(r.Context(), query, limit)
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
			return
		}
	}

	id, err := s.store.CreateSession(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "session store unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	session, ok := s.store.GetSession(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found", "")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Analytics(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	redisUp := s.store.HealthCheck(r.Context())
	status := "ok"
	code := http.StatusOK
	if !redisUp {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status, "redis": redisUp})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	body := map[string]string{"error": msg}
	if detail != "" {
		body["message"] = detail
	}
	writeJSON(w, status, body)
}
