package testutil

import (
	"fmt"
	"sync"
	"time"

	"calmd/internal/models"
	"calmd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

// Entries returns a copy of the recorded entries at the given level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockClock implements providers.ClockInterface with a settable time.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls by name.
type MockMetrics struct {
	mu             sync.Mutex
	Counts         map[string]int
	ActiveSessions int
	Persisted      int
}

func (m *MockMetrics) inc(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Counts == nil {
		m.Counts = make(map[string]int)
	}
	m.Counts[key]++
}

// Count returns how often key was recorded, e.g. "mood:continued" or "milestone:3".
func (m *MockMetrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counts[key]
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.inc(fmt.Sprintf("request:%s:%d", endpoint, status))
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    { m.inc("cache:hit") }
func (m *MockMetrics) IncCacheMisses()                                  { m.inc("cache:miss") }
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) IncMoodLogs(outcome string)  { m.inc("mood:" + outcome) }
func (m *MockMetrics) IncMilestones(milestone int) { m.inc(fmt.Sprintf("milestone:%d", milestone)) }
func (m *MockMetrics) IncStreakConflicts()         { m.inc("streak:conflict") }
func (m *MockMetrics) IncAssessments(band string)  { m.inc("assessment:" + band) }
func (m *MockMetrics) IncSessionEvents(event string) {
	m.inc("session:" + event)
}
func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveSessions = count
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockSessionService implements services.SessionServiceInterface. Only
// EvictIdle and Active carry behavior; the commands return the zero state.
type MockSessionService struct {
	mu          sync.Mutex
	EvictCalls  []time.Time
	EvictResult int
	ActiveCount int
	Closed      bool
}

func (m *MockSessionService) Select(_, _ string) (models.SessionState, error) {
	return models.SessionState{}, nil
}
func (m *MockSessionService) Start(_ string) (models.SessionState, error) {
	return models.SessionState{}, nil
}
func (m *MockSessionService) Pause(_ string) (models.SessionState, error) {
	return models.SessionState{}, nil
}
func (m *MockSessionService) Reset(_ string) (models.SessionState, error) {
	return models.SessionState{}, nil
}
func (m *MockSessionService) State(_ string) (models.SessionState, error) {
	return models.SessionState{}, nil
}

func (m *MockSessionService) EvictIdle(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EvictCalls = append(m.EvictCalls, cutoff)
	return m.EvictResult
}

func (m *MockSessionService) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ActiveCount
}

func (m *MockSessionService) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}
