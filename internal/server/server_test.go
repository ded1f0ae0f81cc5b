package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightline-io/lightline/internal/monitoring"
)

func testServer(t *testing.T) (*Server, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	return New(Config{Addr: "127.0.0.1:0"}, metrics, nil), metrics
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStats(t *testing.T) {
	s, metrics := testServer(t)
	metrics.RecordEnqueued("traces", 10)
	metrics.RecordDropped("traces", 2)
	metrics.RecordExport("traces", monitoring.OutcomeOK, 8, time.Millisecond)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var snap monitoring.Snapshot
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(10), snap.Enqueued)
	assert.Equal(t, int64(2), snap.Dropped)
	assert.Equal(t, int64(1), snap.Exports)
}

func TestStatsWithoutMetrics(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, nil, nil)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrometheusEndpoint(t *testing.T) {
	s, _ := testServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
