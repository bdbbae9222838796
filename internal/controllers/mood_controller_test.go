package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calmd/internal/models"
	"calmd/internal/services"
	"calmd/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoodController_RecordRequiresIdentity(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.mood.Record, http.MethodPost, "/mood", "", map[string]int{"score": 3})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMoodController_RecordAndReadStreak(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.mood.Record, http.MethodPost, "/mood", "u1", map[string]any{"score": 4, "note": "slept well"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res services.MoodResult
	decodeBody(t, rr, &res)
	assert.Equal(t, 1, res.Streak.CurrentCount)
	assert.Equal(t, "slept well", res.Event.Note)

	rr = call(t, f.mood.Streak, http.MethodGet, "/streak", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view services.StreakView
	decodeBody(t, rr, &view)
	assert.Equal(t, 1, view.CurrentCount)

	f.clock.Advance(24 * time.Hour)
	rr = call(t, f.mood.Record, http.MethodPost, "/mood", "u1", map[string]int{"score": 2})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = call(t, f.mood.Streak, http.MethodGet, "/streak", "u1", nil)
	decodeBody(t, rr, &view)
	assert.Equal(t, 2, view.CurrentCount)
}

func TestMoodController_RecordBadInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"score too high", map[string]int{"score": 9}},
		{"missing score", map[string]string{"note": "x"}},
		{"not json", "{score:"},
		{"wrong type", `{"score":"high"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := call(t, f.mood.Record, http.MethodPost, "/mood", "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var body errorResponse
			decodeBody(t, rr, &body)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestMoodController_Calendar(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		rr := call(t, f.mood.Record, http.MethodPost, "/mood", "u1", map[string]int{"score": 3})
		require.Equal(t, http.StatusCreated, rr.Code)
		f.clock.Advance(48 * time.Hour)
	}

	rr := call(t, f.mood.Calendar, http.MethodGet, "/mood/calendar?from=2025-04-01&to=2025-04-12", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		From string   `json:"from"`
		To   string   `json:"to"`
		Days []string `json:"days"`
	}
	decodeBody(t, rr, &resp)
	assert.Equal(t, []string{"2025-04-10", "2025-04-12"}, resp.Days)

	rr = call(t, f.mood.Calendar, http.MethodGet, "/mood/calendar", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &resp)
	assert.Equal(t, "2025-04-16", resp.To)
	assert.Equal(t, "2025-03-18", resp.From)
	assert.Len(t, resp.Days, 3)

	rr = call(t, f.mood.Calendar, http.MethodGet, "/mood/calendar?from=yesterday", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = call(t, f.mood.Calendar, http.MethodGet, "/mood/calendar?from=2025-04-12&to=2025-04-01", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// gatedMoodService holds Streak after it has read the store until released.
type gatedMoodService struct {
	services.MoodServiceInterface
	read    chan struct{}
	release chan struct{}
}

func (g *gatedMoodService) Streak(ctx context.Context, userID string) (*services.StreakView, error) {
	view, err := g.MoodServiceInterface.Streak(ctx, userID)
	close(g.read)
	<-g.release
	return view, err
}

func TestMoodController_StreakReadDoesNotOutliveRecord(t *testing.T) {
	f := newFixture(t)
	rr := call(t, f.mood.Record, http.MethodPost, "/mood", "u1", map[string]int{"score": 3})
	require.Equal(t, http.StatusCreated, rr.Code)

	gated := &gatedMoodService{MoodServiceInterface: f.moodSvc, read: make(chan struct{}), release: make(chan struct{})}
	slow := NewMoodController(f.logger, f.identity, gated, f.clock)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- call(t, slow.Streak, http.MethodGet, "/streak", "u1", nil)
	}()
	<-gated.read

	f.clock.Advance(24 * time.Hour)
	rr = call(t, f.mood.Record, http.MethodPost, "/mood", "u1", map[string]int{"score": 4})
	require.Equal(t, http.StatusCreated, rr.Code)

	close(gated.release)
	var stale services.StreakView
	decodeBody(t, <-done, &stale)
	assert.Equal(t, 1, stale.CurrentCount)

	rr = call(t, f.mood.Streak, http.MethodGet, "/streak", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view services.StreakView
	decodeBody(t, rr, &view)
	assert.Equal(t, 2, view.CurrentCount)
	assert.Empty(t, f.cache.Data)
}

type conflictingMoodService struct {
	services.MoodServiceInterface
}

func (conflictingMoodService) Record(_ context.Context, userID string, in services.MoodInput) (*services.MoodResult, error) {
	event := models.MoodEvent{UserID: userID, Timestamp: now, Day: models.DayOf(now), Score: in.Score, Note: in.Note}
	return nil, &services.StreakConflictError{Event: event, Attempts: 4, Err: storage.ErrConflict}
}

func TestMoodController_ConflictReportsSavedEntry(t *testing.T) {
	f := newFixture(t)
	mc := NewMoodController(f.logger, f.identity, conflictingMoodService{MoodServiceInterface: f.moodSvc}, f.clock)

	rr := call(t, mc.Record, http.MethodPost, "/mood", "u1", map[string]any{"score": 2, "note": "tired"})
	require.Equal(t, http.StatusConflict, rr.Code)

	var body moodConflictResponse
	decodeBody(t, rr, &body)
	assert.True(t, body.MoodSaved)
	assert.Equal(t, "tired", body.Event.Note)
	assert.Equal(t, models.DayOf(now), body.Event.Day)
	assert.Contains(t, body.Error, "4 attempts")
	assert.Len(t, f.logger.Entries("warn"), 1)
}
