package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternController_List(t *testing.T) {
	f := newFixture(t)

	rr := call(t, f.patterns.List, http.MethodGet, "/patterns", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var patterns []struct {
		Name         string `json:"name"`
		TotalCycles  int    `json:"total_cycles"`
		CycleSeconds int    `json:"cycle_seconds"`
		TotalSeconds int    `json:"total_seconds"`
	}
	decodeBody(t, rr, &patterns)
	require.Len(t, patterns, 3)
	assert.Equal(t, "4-7-8", patterns[0].Name)
	assert.Equal(t, 21, patterns[0].CycleSeconds)
	assert.Equal(t, 84, patterns[0].TotalSeconds)

	f.cache.Data["patterns"] = []byte(`["cached"]`)
	rr = call(t, f.patterns.List, http.MethodGet, "/patterns", "", nil)
	assert.JSONEq(t, `["cached"]`, rr.Body.String())
}
