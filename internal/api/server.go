package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/sprint.report/internal/config"
	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/httputil"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/observability"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/units"
	"github.com/banshee-data/sprint.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	manager *session.Manager
	db      *db.DB
	cfg     *config.AnalysisConfig
}

// NewServer serves the sessions of manager. database may be nil, in which
// case history is limited to what live sessions retain in memory.
func NewServer(manager *session.Manager, database *db.DB, cfg *config.AnalysisConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	return &Server{
		manager: manager,
		db:      database,
		cfg:     cfg,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.createSession)
	mux.HandleFunc("GET /api/sessions", s.listSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.showSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.deleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/frames", s.postFrame)
	mux.HandleFunc("POST /api/sessions/{id}/landmarks", s.postLandmarks)
	mux.HandleFunc("GET /api/sessions/{id}/metrics", s.listMetrics)
	mux.HandleFunc("GET /api/sessions/{id}/summary", s.showSummary)
	mux.HandleFunc("GET /api/sessions/{id}/chart", s.showChart)
	mux.HandleFunc("GET /api/sessions/{id}/plot", s.showPlot)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.streamEvents)
	mux.HandleFunc("GET /api/config", s.showConfig)
	mux.HandleFunc("GET /api/version", s.showVersion)
	mux.Handle("GET /metrics", observability.Handler())
	return mux
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]interface{}{
		"units":                s.cfg.GetDisplayUnits(),
		"confidence_threshold": s.cfg.GetConfidenceThreshold(),
		"metres_per_unit":      s.cfg.GetMetresPerUnit(),
		"use_accurate_model":   s.cfg.GetUseAccurateModel(),
	})
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, version.Current())
}

// unitsParam returns the requested display units, falling back to config.
func (s *Server) unitsParam(r *http.Request) (string, error) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return s.cfg.GetDisplayUnits(), nil
	}
	if !units.IsValid(u) {
		return "", fmt.Errorf("invalid 'units' parameter: must be one of %s", units.GetValidUnitsString())
	}
	return u, nil
}

// limitParam parses ?limit=, defaulting to the configured history size.
func (s *Server) limitParam(r *http.Request) (int, error) {
	l := r.URL.Query().Get("limit")
	if l == "" {
		return s.cfg.GetMaxRecentMetrics(), nil
	}
	n, err := strconv.Atoi(l)
	if err != nil || n < 1 {
		return 0, errors.New("invalid 'limit' parameter")
	}
	return n, nil
}
