package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"calmd/internal/catalog"
	"calmd/internal/engagement"
	"calmd/internal/providers"
	"calmd/internal/services"
	"calmd/internal/storage"
	"calmd/internal/structures"
	"calmd/internal/testutil"

	"github.com/stretchr/testify/require"
)

const userHeader = "X-User-ID"

var now = time.Date(2025, time.April, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	conf     *structures.Config
	clock    *testutil.MockClock
	cache    *testutil.MockCache
	logger   *testutil.MockLogger
	store    *storage.MemoryStore
	identity providers.IdentityProviderInterface
	moodSvc  services.MoodServiceInterface
	mood     *MoodController
	patterns *PatternController
	sessions *SessionController
	quiz     *AssessmentController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conf := &structures.Config{
		Identity: structures.IdentityConfig{Header: userHeader},
		Engagement: structures.EngagementConfig{
			TickInterval:     time.Hour,
			MaxStreakRetries: 3,
		},
	}
	c := catalog.Default()
	lib, err := c.PatternLibrary()
	require.NoError(t, err)
	scorer, err := c.Scorer()
	require.NoError(t, err)
	tracker, err := engagement.NewStreakTracker(engagement.DefaultMilestones)
	require.NoError(t, err)

	f := &fixture{
		conf:   conf,
		clock:  testutil.NewMockClock(now),
		cache:  testutil.NewMockCache(),
		logger: &testutil.MockLogger{},
		store:  storage.NewMemoryStore(),
	}
	metrics := &testutil.MockMetrics{}
	identity := providers.NewIdentityProvider(conf)
	f.identity = identity

	moodSvc := services.NewMoodService(conf, f.store, tracker, f.clock, f.logger, metrics)
	f.moodSvc = moodSvc
	sessionSvc := services.NewSessionService(conf, lib, f.clock, f.logger, metrics)
	t.Cleanup(sessionSvc.Close)
	assessmentSvc := services.NewAssessmentService(scorer, f.store, f.clock, f.logger, metrics)

	f.mood = NewMoodController(f.logger, identity, moodSvc, f.clock)
	f.patterns = NewPatternController(f.logger, f.cache, lib)
	f.sessions = NewSessionController(f.logger, identity, sessionSvc)
	f.quiz = NewAssessmentController(f.logger, identity, f.cache, assessmentSvc)
	return f
}

// call runs handler for one request as user (empty user sends no identity)
// and returns the recorder.
func call(t *testing.T, handler http.HandlerFunc, method, target, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}
