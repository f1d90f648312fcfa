// Package web exposes the day-view renderer over HTTP.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"dayview/internal/config"
	"dayview/internal/dayview"
	"dayview/internal/log"
	"dayview/internal/timeutil"
)

// Server serves the render API: /day-view, /preview.png, /health.
type Server struct {
	cfg  *config.Config
	gen  *dayview.Generator
	norm *timeutil.Normalizer
	mux  *http.ServeMux

	// Rendered images are cached briefly so bots polling the same date do
	// not re-run fetch+layout+draw on every request.
	renderMu    sync.RWMutex
	renderCache map[string]renderCacheEntry
}

type renderCacheEntry struct {
	data      []byte
	updatedAt time.Time
}

const renderCacheTTL = 30 * time.Second

// NewServer constructs a Server.
func NewServer(cfg *config.Config, gen *dayview.Generator, norm *timeutil.Normalizer) *Server {
	s := &Server{
		cfg:         cfg,
		gen:         gen,
		norm:        norm,
		mux:         http.NewServeMux(),
		renderCache: make(map[string]renderCacheEntry),
	}
	s.registerRoutes()
	return s
}

// Handler returns the server's http.Handler, wrapped with basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		log.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware protects all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="dayview", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/day-view", s.handleDayView)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleDayView renders the view for one date.
//
// GET /day-view?date=2025-07-14&width=800&height=1000
//   - date:   target date, default today in the display timezone
//   - width:  minimum canvas width in pixels
//   - height: minimum canvas height; the canvas grows to fit the window
func (s *Server) handleDayView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	day := s.norm.Today()
	if ds := q.Get("date"); ds != "" {
		parsed, err := s.norm.ParseDate(ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}
		day = parsed
	}
	width := parseIntDefault(q.Get("width"), s.cfg.Width)
	height := parseIntDefault(q.Get("height"), s.cfg.Height)

	cacheKey := fmt.Sprintf("%s|%d|%d", day.Format("2006-01-02"), width, height)
	now := time.Now()

	s.renderMu.RLock()
	entry, hit := s.renderCache[cacheKey]
	s.renderMu.RUnlock()
	if hit && now.Sub(entry.updatedAt) < renderCacheTTL {
		writePNG(w, day, entry.data)
		return
	}

	data, _, err := s.gen.Generate(ctx, day, width, height)
	if err != nil {
		log.Error("day view generation failed", err, "date", day.Format("2006-01-02"))
		writeError(w, http.StatusBadGateway, "failed to generate day view")
		return
	}

	s.renderMu.Lock()
	s.renderCache[cacheKey] = renderCacheEntry{data: data, updatedAt: time.Now()}
	s.renderMu.Unlock()

	writePNG(w, day, data)
}

// handlePreview serves the last cron-rendered PNG from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, PreviewPath(s.cfg.CacheDir))
}

// PreviewPath is where the scheduled renderer writes today's view.
func PreviewPath(cacheDir string) string {
	return filepath.Join(cacheDir, "preview.png")
}

// RenderPreview renders today's view with the configured dimensions and
// writes it atomically to the preview path. Used by the cron refresh.
func (s *Server) RenderPreview(ctx context.Context) error {
	day := s.norm.Today()
	data, _, err := s.gen.Generate(ctx, day, s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}

	path := PreviewPath(s.cfg.CacheDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writePNG(w http.ResponseWriter, day time.Time, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=day-view-%s.png", day.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
