package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmd/internal/engagement"
	"calmd/internal/structures"
)

func TestCatalogProvider_BuiltInWhenUnset(t *testing.T) {
	c, err := NewCatalogProvider(&structures.Config{}, &testLogger{})
	require.NoError(t, err)

	lib, err := NewPatternLibraryProvider(c)
	require.NoError(t, err)
	_, ok := lib.Get("4-7-8")
	assert.True(t, ok)

	scorer, err := NewAssessmentScorerProvider(c)
	require.NoError(t, err)
	assert.Equal(t, 50, scorer.Quiz().MaxScore())
}

func TestCatalogProvider_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
patterns:
  - name: sigh
    title: Physiological sigh
    cycles: 3
    phases:
      - {kind: inhale, duration: 2}
      - {kind: inhale, duration: 1}
      - {kind: exhale, duration: 6}
`), 0o644))

	conf := &structures.Config{Engagement: structures.EngagementConfig{CatalogPath: path}}
	c, err := NewCatalogProvider(conf, &testLogger{})
	require.NoError(t, err)

	lib, err := NewPatternLibraryProvider(c)
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())
	p, ok := lib.Get("sigh")
	require.True(t, ok)
	assert.Equal(t, 9, p.CycleDuration())
}

func TestCatalogProvider_MissingFile(t *testing.T) {
	conf := &structures.Config{Engagement: structures.EngagementConfig{CatalogPath: "/nonexistent/catalog.yaml"}}
	_, err := NewCatalogProvider(conf, &testLogger{})
	assert.Error(t, err)
}

func TestStreakTrackerProvider(t *testing.T) {
	tracker, err := NewStreakTrackerProvider(&structures.Config{})
	require.NoError(t, err)
	assert.Equal(t, engagement.DefaultMilestones, tracker.Milestones())

	conf := &structures.Config{Engagement: structures.EngagementConfig{Milestones: []int{5, 2}}}
	_, err = NewStreakTrackerProvider(conf)
	assert.ErrorIs(t, err, engagement.ErrInvalidMilestones)
}
