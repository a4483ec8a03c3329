package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wager-analyst/internal/models"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type stubSnapshots struct {
	snapshot *models.PredictionSnapshot
	cached   bool
	err      error
}

func (s stubSnapshots) GetOrGenerate(ctx context.Context) (*models.PredictionSnapshot, bool, error) {
	return s.snapshot, s.cached, s.err
}

func newTestServer(cfg Config) *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg.Logger = log
	cfg.ServiceName = "wager-analyst"
	return NewServer(cfg)
}

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := newTestServer(Config{Version: "1.2.3"})

	for _, path := range []string{"/health", "/live"} {
		rec := serve(t, s, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "wager-analyst", body.Service)
	}
}

func TestReadyChecks(t *testing.T) {
	healthy := pingFunc(func(ctx context.Context) error { return nil })
	broken := pingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	s := newTestServer(Config{Checks: map[string]Pinger{"database": healthy}})
	rec := serve(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = serve(t, s, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["database"])

	s = newTestServer(Config{Checks: map[string]Pinger{"database": healthy, "redis": broken}})
	s.SetReady(true)
	rec = serve(t, s, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Contains(t, body.Checks["redis"], "connection refused")
}

func TestSnapshotEndpoint(t *testing.T) {
	s := newTestServer(Config{Snapshots: stubSnapshots{
		snapshot: &models.PredictionSnapshot{Date: "2024-04-01", RecordCount: 9},
		cached:   true,
	}})

	rec := serve(t, s, http.MethodGet, "/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Snapshot-Cached"))

	var body models.PredictionSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-04-01", body.Date)
	assert.Equal(t, 9, body.RecordCount)

	rec = serve(t, s, http.MethodPost, "/snapshot")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSnapshotEndpointErrors(t *testing.T) {
	rec := serve(t, newTestServer(Config{}), http.MethodGet, "/snapshot")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s := newTestServer(Config{Snapshots: stubSnapshots{err: errors.New("no records")}})
	rec = serve(t, s, http.MethodGet, "/snapshot")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsMounted(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "analysis_runs_total 1\n")
	})
	s := newTestServer(Config{MetricsPath: "/internal/metrics", MetricsHandler: handler})

	rec := serve(t, s, http.MethodGet, "/internal/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "analysis_runs_total")

	rec = serve(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
