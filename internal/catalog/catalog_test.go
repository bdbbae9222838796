package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"calmd/internal/engagement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	c := Default()

	lib, err := c.PatternLibrary()
	require.NoError(t, err)
	assert.Equal(t, 3, lib.Len())

	box, ok := lib.Get("box")
	require.True(t, ok)
	assert.Equal(t, 80, box.TotalDuration())

	scorer, err := c.Scorer()
	require.NoError(t, err)
	assert.Equal(t, 50, scorer.Quiz().MaxScore())

	// Every reachable total must land in a band.
	for total := 0; total <= 50; total++ {
		_, err := scorer.Classify(total)
		assert.NoError(t, err, "total %d", total)
	}
}

func TestLoad_OverridesOnlyPresentSections(t *testing.T) {
	path := writeCatalog(t, `
patterns:
  - name: slow
    title: Slow breathing
    cycles: 3
    phases:
      - kind: inhale
        duration: 5
        instruction: in
      - kind: exhale
        duration: 5
        instruction: out
`)
	c, err := Load(path)
	require.NoError(t, err)

	lib, err := c.PatternLibrary()
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Len())
	slow, ok := lib.Get("slow")
	require.True(t, ok)
	assert.Equal(t, 3, slow.TotalCycles)
	assert.Equal(t, 10, slow.CycleDuration())

	assert.Len(t, c.Quiz.Questions, 10)
	assert.Len(t, c.Bands, 3)
}

func TestLoad_Bands(t *testing.T) {
	path := writeCatalog(t, `
bands:
  - {min: 0, max: 25, label: Calm}
  - {min: 26, max: 50, label: Tense}
`)
	c, err := Load(path)
	require.NoError(t, err)

	scorer, err := c.Scorer()
	require.NoError(t, err)
	band, err := scorer.Classify(26)
	require.NoError(t, err)
	assert.Equal(t, "Tense", band.Label)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeCatalog(t, "pattern:\n  - name: typo\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidPatternSurfacesAtLibraryBuild(t *testing.T) {
	path := writeCatalog(t, "patterns:\n  - name: broken\n    cycles: 0\n    phases: []\n")
	c, err := Load(path)
	require.NoError(t, err)

	_, err = c.PatternLibrary()
	assert.ErrorIs(t, err, engagement.ErrInvalidPattern)
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "catalog.yaml"))
	require.NoError(t, err)

	lib, err := c.PatternLibrary()
	require.NoError(t, err)
	_, ok := lib.Get("exam-reset")
	assert.True(t, ok)

	_, err = c.Scorer()
	assert.NoError(t, err)
	assert.Len(t, c.Quiz.Questions, 10)
}
