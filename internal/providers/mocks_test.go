package providers

import "time"

// local mocks to avoid an import cycle with testutil

type testLogger struct {
	debugs []string
}

func (m *testLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Debugf(_ TypeEnum, format string, _ ...interface{}) {
	m.debugs = append(m.debugs, format)
}
func (m *testLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *testLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *testLogger) Close()                                        {}

type testMetrics struct {
	requestEndpoint string
	requestStatus   int
	requestCalls    int
	durationCalls   int
	hits            int
	misses          int
}

func (m *testMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestEndpoint = endpoint
	m.requestStatus = status
	m.requestCalls++
}
func (m *testMetrics) ObserveRequestDuration(_ string, _ time.Duration) { m.durationCalls++ }
func (m *testMetrics) IncCacheHits()                                    { m.hits++ }
func (m *testMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *testMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *testMetrics) IncMoodLogs(_ string)                             {}
func (m *testMetrics) IncMilestones(_ int)                              {}
func (m *testMetrics) IncStreakConflicts()                              {}
func (m *testMetrics) IncAssessments(_ string)                          {}
func (m *testMetrics) IncSessionEvents(_ string)                        {}
func (m *testMetrics) SetActiveSessions(_ int)                          {}
