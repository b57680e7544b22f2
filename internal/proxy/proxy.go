// Package proxy relays RSS fetches for clients that cannot reach the
// feed hosts directly. Only allow-listed hosts are fetched; everything
// else is rejected before any network call.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/irwanphan/voice-news-summary/internal/config"
)

const defaultTimeout = 10 * time.Second

type Handler struct {
	client  *http.Client
	allowed []string
	log     zerolog.Logger
}

func NewHandler(cfg config.ProxyConfig, log zerolog.Logger) *Handler {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Handler{
		client:  &http.Client{Timeout: timeout},
		allowed: cfg.AllowedHosts,
		log:     log,
	}
}

// ServeHTTP handles GET /api/proxy?url=<feed-url>. Responses carry
// permissive CORS headers; errors are JSON bodies with an "error" field.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "URL parameter is required", "")
		return
	}

	target, err := url.Parse(raw)
	if err != nil || target.Hostname() == "" {
		writeError(w, http.StatusBadRequest, "invalid URL", "")
		return
	}
	if !h.hostAllowed(target.Hostname()) {
		h.log.Warn().Str("host", target.Hostname()).Msg("proxy request for host outside the allow list")
		writeError(w, http.StatusBadRequest, "Domain not allowed", "")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, raw, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid URL", "")
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; RSS-Proxy/1.0)")
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml, */*")

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			writeError(w, http.StatusRequestTimeout, "upstream request timed out", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, resp.StatusCode, "Failed to fetch RSS feed: "+resp.Status, "")
		return
	}

	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "xml") {
		w.Header().Set("Content-Type", "application/xml")
	} else {
		w.Header().Set("Content-Type", "text/plain")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.log.Debug().Err(err).Msg("proxy response copy interrupted")
	}
}

// hostAllowed matches the exact allow-listed host or one of its
// subdomains. Substring matches do not count: evil-news.google.com.example
// is rejected.
func (h *Handler) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range h.allowed {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"error": msg}
	if detail != "" {
		body["message"] = detail
	}
	json.NewEncoder(w).Encode(body)
}
