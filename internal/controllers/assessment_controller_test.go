package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"calmd/internal/models"
	"calmd/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allAnswers(value int) map[string]map[string]int {
	answers := make(map[string]int)
	for i := 1; i <= 10; i++ {
		answers[fmt.Sprintf("q%d", i)] = value
	}
	return map[string]map[string]int{"answers": answers}
}

func TestAssessmentController_QuizIsPublicAndCached(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.quiz.Quiz, http.MethodGet, "/assessment/quiz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view services.QuizView
	decodeBody(t, rr, &view)
	assert.Len(t, view.Quiz.Questions, 10)
	assert.Equal(t, 50, view.MaxScore)
	assert.Contains(t, f.cache.Data, "quiz")
}

func TestAssessmentController_SubmitAndHistory(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.quiz.Submit, http.MethodPost, "/assessment", "u1", allAnswers(2))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var res models.AssessmentResult
	decodeBody(t, rr, &res)
	assert.Equal(t, 20, res.TotalScore)
	assert.Equal(t, "Low", res.MatchedBand.Label)
	assert.NotEmpty(t, res.ID)

	f.clock.Advance(time.Hour)
	rr = call(t, f.quiz.Submit, http.MethodPost, "/assessment", "u1", allAnswers(5))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = call(t, f.quiz.History, http.MethodGet, "/assessment/history", "u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var history []models.AssessmentResult
	decodeBody(t, rr, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "High", history[0].MatchedBand.Label)

	rr = call(t, f.quiz.History, http.MethodGet, "/assessment/history?limit=1", "u1", nil)
	decodeBody(t, rr, &history)
	assert.Len(t, history, 1)

	rr = call(t, f.quiz.History, http.MethodGet, "/assessment/history?limit=zero", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = call(t, f.quiz.History, http.MethodGet, "/assessment/history", "u2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestAssessmentController_SubmitUnknownOption(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.quiz.Submit, http.MethodPost, "/assessment", "u1", map[string]any{"answers": map[string]int{"q1": 7}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
