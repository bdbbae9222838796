package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/storage"
	"calmd/internal/structures"
	"calmd/internal/testutil"

	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Engagement: structures.EngagementConfig{
			Milestones:       engagement.DefaultMilestones,
			TickInterval:     5 * time.Millisecond,
			SessionIdleTTL:   time.Minute,
			MaxStreakRetries: 3,
		},
	}
}

type moodFixture struct {
	svc     *MoodService
	store   storage.Store
	clock   *testutil.MockClock
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func newMoodFixture(t *testing.T, store storage.Store) *moodFixture {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	tracker, err := engagement.NewStreakTracker(engagement.DefaultMilestones)
	require.NoError(t, err)
	f := &moodFixture{
		store:   store,
		clock:   testutil.NewMockClock(day1),
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
	}
	f.svc = NewMoodService(testConfig(), store, tracker, f.clock, f.logger, f.metrics).(*MoodService)
	return f
}

// conflictStore fails the first n streak writes with ErrConflict.
type conflictStore struct {
	storage.Store
	mu        sync.Mutex
	remaining int
	attempts  int
}

func (c *conflictStore) SaveStreakState(ctx context.Context, userID string, prev *models.StreakState, next models.StreakState) error {
	c.mu.Lock()
	c.attempts++
	if c.remaining != 0 {
		if c.remaining > 0 {
			c.remaining--
		}
		c.mu.Unlock()
		return storage.ErrConflict
	}
	c.mu.Unlock()
	return c.Store.SaveStreakState(ctx, userID, prev, next)
}

// failingStore fails every mood write.
type failingStore struct {
	storage.Store
	err error
}

func (f *failingStore) SaveMoodEvent(context.Context, models.MoodEvent) error {
	return f.err
}
