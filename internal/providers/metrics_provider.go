package providers

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"calmd/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncMoodLogs(outcome string)
	IncMilestones(milestone int)
	IncStreakConflicts()
	IncAssessments(band string)
	IncSessionEvents(event string)
	SetActiveSessions(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	moodLogs            *prometheus.CounterVec
	milestones          *prometheus.CounterVec
	streakConflicts     prometheus.Counter
	assessments         *prometheus.CounterVec
	sessionEvents       *prometheus.CounterVec
	activeSessions      prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncMoodLogs(outcome string) {
	m.moodLogs.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncMilestones(milestone int) {
	m.milestones.WithLabelValues(strconv.Itoa(milestone)).Inc()
}

func (m *MetricsProvider) IncStreakConflicts() {
	m.streakConflicts.Inc()
}

func (m *MetricsProvider) IncAssessments(band string) {
	m.assessments.WithLabelValues(band).Inc()
}

func (m *MetricsProvider) IncSessionEvents(event string) {
	m.sessionEvents.WithLabelValues(event).Inc()
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calmd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calmd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calmd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calmd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "calmd_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		moodLogs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calmd_mood_logs_total",
			Help: "Mood log submissions by streak outcome",
		}, []string{"outcome"}),

		milestones: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calmd_streak_milestones_total",
			Help: "Streak milestones crossed",
		}, []string{"milestone"}),

		streakConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calmd_streak_conflicts_total",
			Help: "Streak compare-and-swap conflicts",
		}),

		assessments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calmd_assessments_total",
			Help: "Completed stress assessments by band",
		}, []string{"band"}),

		sessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calmd_breathing_session_events_total",
			Help: "Guided breathing session events",
		}, []string{"event"}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "calmd_breathing_sessions_active",
			Help: "Guided breathing sessions currently held in memory",
		}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncMoodLogs(_ string)                             {}
func (n *noopMetrics) IncMilestones(_ int)                              {}
func (n *noopMetrics) IncStreakConflicts()                              {}
func (n *noopMetrics) IncAssessments(_ string)                          {}
func (n *noopMetrics) IncSessionEvents(_ string)                        {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
