package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBody struct {
	Pattern          string  `json:"pattern"`
	Status           string  `json:"status"`
	RemainingSeconds int     `json:"remaining_seconds"`
	PhaseColor       string  `json:"phase_color"`
	ProgressPercent  float64 `json:"progress_percent"`
}

func TestSessionController_Lifecycle(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.sessions.State, http.MethodGet, "/session", "u1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = call(t, f.sessions.Select, http.MethodPost, "/session/select", "u1", map[string]string{"pattern": "box"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var body sessionBody
	decodeBody(t, rr, &body)
	assert.Equal(t, "box", body.Pattern)
	assert.Equal(t, "idle", body.Status)
	assert.Equal(t, 4, body.RemainingSeconds)
	assert.Equal(t, "#4A90E2", body.PhaseColor)

	rr = call(t, f.sessions.Start, http.MethodPost, "/session/start", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &body)
	assert.Equal(t, "running", body.Status)

	rr = call(t, f.sessions.Pause, http.MethodPost, "/session/pause", "u1", nil)
	decodeBody(t, rr, &body)
	assert.Equal(t, "paused", body.Status)

	rr = call(t, f.sessions.Reset, http.MethodPost, "/session/reset", "u1", nil)
	decodeBody(t, rr, &body)
	assert.Equal(t, "idle", body.Status)
	assert.Zero(t, body.ProgressPercent)
}

func TestSessionController_SelectErrors(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.sessions.Select, http.MethodPost, "/session/select", "u1", map[string]string{"pattern": "nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = call(t, f.sessions.Select, http.MethodPost, "/session/select", "u1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, f.sessions.Select, http.MethodPost, "/session/select", "", map[string]string{"pattern": "box"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionController_SessionsArePerUser(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.sessions.Select, http.MethodPost, "/session/select", "u1", map[string]string{"pattern": "calm"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = call(t, f.sessions.Start, http.MethodPost, "/session/start", "u2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
