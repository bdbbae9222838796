package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calmd/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	m := NewMetricsProvider(&structures.Config{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/mood", 200)
	m.ObserveRequestDuration("/mood", time.Millisecond)
	m.IncMoodLogs("continued")
	m.IncMilestones(7)
	m.SetActiveSessions(3)
}

func TestMetricsProvider_RecordsDomainCounters(t *testing.T) {
	reg := useTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	_, ok := m.(*MetricsProvider)
	require.True(t, ok)

	m.IncRequestsTotal("/mood", 201)
	m.ObserveRequestDuration("/mood", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncMoodLogs("started")
	m.IncMoodLogs("repeated")
	m.IncMilestones(3)
	m.IncStreakConflicts()
	m.IncAssessments("Low")
	m.IncSessionEvents("completed")
	m.SetActiveSessions(2)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"calmd_requests_total",
		"calmd_mood_logs_total",
		"calmd_streak_milestones_total",
		"calmd_streak_conflicts_total",
		"calmd_assessments_total",
		"calmd_breathing_session_events_total",
		"calmd_breathing_sessions_active",
	} {
		assert.True(t, names[want], want)
	}
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{401, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}

func routesFor(urls ...string) RouterProviderInterface {
	rp := NewRouterProvider()
	for _, u := range urls {
		rp.Get(u, dummyHandler())
	}
	return rp
}

func TestMetricsMiddleware_CapturesStatusAndEndpoint(t *testing.T) {
	metrics := &testMetrics{}
	logger := &testLogger{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	mw := MetricsMiddleware(metrics, logger, routesFor("/mood"), handler)
	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/mood", nil))

	assert.Equal(t, 1, metrics.requestCalls)
	assert.Equal(t, "/mood", metrics.requestEndpoint)
	assert.Equal(t, http.StatusCreated, metrics.requestStatus)
	assert.Equal(t, 1, metrics.durationCalls)
	assert.Len(t, logger.debugs, 1)
}

func TestMetricsMiddleware_UnknownPathBucketed(t *testing.T) {
	metrics := &testMetrics{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mw := MetricsMiddleware(metrics, &testLogger{}, routesFor("/mood"), handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/123", nil))

	assert.Equal(t, otherEndpoint, metrics.requestEndpoint)
	assert.Equal(t, http.StatusNotFound, metrics.requestStatus)
}

func TestMetricsMiddleware_DefaultStatus200(t *testing.T) {
	metrics := &testMetrics{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	mw := MetricsMiddleware(metrics, &testLogger{}, routesFor("/streak"), handler)
	mw.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/streak", nil))

	assert.Equal(t, http.StatusOK, metrics.requestStatus)
}

func TestStatusWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	sw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, sw.status)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, rr, sw.Unwrap())
}
