package providers

import (
	"calmd/internal/catalog"
	"calmd/internal/engagement"
	"calmd/internal/structures"
)

// NewCatalogProvider loads engagement.catalogPath, or the built-in catalog when unset.
func NewCatalogProvider(conf *structures.Config, logger Logger) (*catalog.Catalog, error) {
	path := conf.Engagement.CatalogPath
	if path == "" {
		logger.Infof(TypeApp, "Using built-in content catalog")
		return catalog.Default(), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Infof(TypeApp, "Loaded content catalog %s: %d patterns, %d questions", path, len(c.Patterns), len(c.Quiz.Questions))
	return c, nil
}

func NewPatternLibraryProvider(c *catalog.Catalog) (*engagement.PatternLibrary, error) {
	return c.PatternLibrary()
}

func NewAssessmentScorerProvider(c *catalog.Catalog) (*engagement.AssessmentScorer, error) {
	return c.Scorer()
}

func NewStreakTrackerProvider(conf *structures.Config) (*engagement.StreakTracker, error) {
	milestones := conf.Engagement.Milestones
	if len(milestones) == 0 {
		milestones = engagement.DefaultMilestones
	}
	return engagement.NewStreakTracker(milestones)
}
