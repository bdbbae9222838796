package controllers

import (
	"net/http"

	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/providers"
)

type patternView struct {
	models.BreathingPattern
	CycleSeconds int `json:"cycle_seconds"`
	TotalSeconds int `json:"total_seconds"`
}

type PatternController struct {
	baseController
	library *engagement.PatternLibrary
}

func NewPatternController(logger providers.Logger, cache providers.CacheProviderInterface, library *engagement.PatternLibrary) *PatternController {
	return &PatternController{
		baseController: baseController{logger: logger, cache: cache},
		library:        library,
	}
}

// List serves the pattern catalog. It is static, so it is public and cached.
func (pc *PatternController) List(w http.ResponseWriter, r *http.Request) {
	pc.serveFromCacheOrCompute(w, r, "patterns", func() (any, error) {
		patterns := pc.library.List()
		out := make([]patternView, 0, len(patterns))
		for _, p := range patterns {
			out = append(out, patternView{BreathingPattern: p, CycleSeconds: p.CycleDuration(), TotalSeconds: p.TotalDuration()})
		}
		return out, nil
	})
}
