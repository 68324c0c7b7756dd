package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sprint.report/internal/config"
	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/sprint"
	"github.com/banshee-data/sprint.report/internal/testutil"
	"github.com/banshee-data/sprint.report/internal/units"
)

func newTestServer(t *testing.T, withDB bool, cfg *config.AnalysisConfig) (*Server, http.Handler) {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	var (
		database *db.DB
		opts     []session.Option
	)
	if withDB {
		var err error
		database, err = db.NewDB(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
		opts = append(opts, session.WithStore(database))
	}

	s := NewServer(session.NewManager(cfg, opts...), database, cfg)
	return s, s.ServeMux()
}

func createSession(t *testing.T, h http.Handler, label string) db.SessionInfo {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/sessions", map[string]string{"label": label}))
	testutil.AssertStatusCode(t, rec.Code, http.StatusCreated)

	var info db.SessionInfo
	testutil.DecodeBody(t, rec, &info)
	return info
}

func postFrames(t *testing.T, h http.Handler, id string, n int) []sprint.Analysis {
	t.Helper()
	var out []sprint.Analysis
	for _, f := range testutil.SprintSequence(1000, n) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/sessions/"+id+"/frames", f))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

		var a sprint.Analysis
		testutil.DecodeBody(t, rec, &a)
		out = append(out, a)
	}
	return out
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	monitoring.SetLogger(log.New(&buf, "", 0).Printf)
	defer monitoring.SetLogger(nil)

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sessions?x=1", nil))

	out := buf.String()
	assert.Contains(t, out, "418")
	assert.Contains(t, out, "/api/sessions?x=1")
}

func TestStatusCodeColor(t *testing.T) {
	assert.Equal(t, colorBoldGreen+"200"+colorReset, statusCodeColor(200))
	assert.Equal(t, colorYellow+"304"+colorReset, statusCodeColor(304))
	assert.Equal(t, colorBoldRed+"404"+colorReset, statusCodeColor(404))
	assert.Equal(t, colorBoldRed+"500"+colorReset, statusCodeColor(500))
	assert.Equal(t, "100", statusCodeColor(100))
}

func TestShowConfigAndVersion(t *testing.T) {
	_, h := newTestServer(t, false, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var cfg map[string]interface{}
	testutil.DecodeBody(t, rec, &cfg)
	assert.Equal(t, units.MPS, cfg["units"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"version"`)
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t, false, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/config", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, false, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}
