package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gig-manager/backend/internal/config"
	"github.com/gig-manager/backend/internal/session"
	"github.com/gig-manager/backend/internal/websocket"
)

func testServices(t *testing.T, prometheus bool) Services {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>gigs</h1>"), 0o644))

	cfg := &config.Configuration{StaticDir: static}
	cfg.Import.MaxUploadSize = 1 << 20
	cfg.Prometheus.Enabled = prometheus
	cfg.Prometheus.Path = "/metrics"

	return Services{
		Config:   cfg,
		Sessions: session.NewStore(time.Hour),
		Hub:      websocket.NewHub(),
	}
}

func TestRouter_Routes(t *testing.T) {
	r := NewRouter(testServices(t, true))

	tests := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/imports/templates/gigs", http.StatusOK},
		{http.MethodGet, "/api/imports/unknown-id", http.StatusNotFound},
		{http.MethodPost, "/api/imports/unknown-id/commit", http.StatusNotFound},
		{http.MethodDelete, "/api/imports/unknown-id", http.StatusNotFound},
		{http.MethodPatch, "/api/imports/unknown-id/rows/abc", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRouter_MetricsDisabled(t *testing.T) {
	r := NewRouter(testServices(t, false))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
