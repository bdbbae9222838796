// Package catalog holds the static content the engine is configured with:
// breathing patterns, the stress quiz and its score bands.
package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"calmd/internal/engagement"
	"calmd/internal/models"
)

type Catalog struct {
	Patterns []models.BreathingPattern `yaml:"patterns"`
	Quiz     models.Quiz               `yaml:"quiz"`
	Bands    []models.ScoreBand        `yaml:"bands"`
}

// Load reads a YAML catalog. Sections absent from the file keep their defaults.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file Catalog
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	c := Default()
	if len(file.Patterns) > 0 {
		c.Patterns = file.Patterns
	}
	if len(file.Quiz.Questions) > 0 {
		c.Quiz = file.Quiz
	}
	if len(file.Bands) > 0 {
		c.Bands = file.Bands
	}
	return c, nil
}

func (c *Catalog) PatternLibrary() (*engagement.PatternLibrary, error) {
	return engagement.NewPatternLibrary(c.Patterns...)
}

func (c *Catalog) Scorer() (*engagement.AssessmentScorer, error) {
	return engagement.NewAssessmentScorer(c.Quiz, c.Bands)
}

func Default() *Catalog {
	return &Catalog{
		Patterns: defaultPatterns(),
		Quiz:     defaultQuiz(),
		Bands:    defaultBands(),
	}
}

func defaultPatterns() []models.BreathingPattern {
	return []models.BreathingPattern{
		{
			Name:  "4-7-8",
			Title: "Relaxing breath",
			Phases: []models.Phase{
				{Kind: models.PhaseInhale, DurationSeconds: 4, Instruction: "Breathe in quietly through your nose"},
				{Kind: models.PhaseHold, DurationSeconds: 7, Instruction: "Hold your breath"},
				{Kind: models.PhaseExhale, DurationSeconds: 8, Instruction: "Exhale completely through your mouth"},
				{Kind: models.PhaseRest, DurationSeconds: 2, Instruction: "Relax"},
			},
			TotalCycles: 4,
		},
		{
			Name:  "box",
			Title: "Box breathing",
			Phases: []models.Phase{
				{Kind: models.PhaseInhale, DurationSeconds: 4, Instruction: "Breathe in slowly"},
				{Kind: models.PhaseHold, DurationSeconds: 4, Instruction: "Hold with full lungs"},
				{Kind: models.PhaseExhale, DurationSeconds: 4, Instruction: "Breathe out slowly"},
				{Kind: models.PhaseHold, DurationSeconds: 4, Instruction: "Hold with empty lungs"},
			},
			TotalCycles: 5,
		},
		{
			Name:  "calm",
			Title: "Calming breath",
			Phases: []models.Phase{
				{Kind: models.PhaseInhale, DurationSeconds: 4, Instruction: "Breathe in through your nose"},
				{Kind: models.PhaseExhale, DurationSeconds: 6, Instruction: "Breathe out a little longer than you breathed in"},
			},
			TotalCycles: 6,
		},
	}
}

var frequency = []models.Option{
	{Value: 1, Label: "Never"},
	{Value: 2, Label: "Almost never"},
	{Value: 3, Label: "Sometimes"},
	{Value: 4, Label: "Fairly often"},
	{Value: 5, Label: "Very often"},
}

func defaultQuiz() models.Quiz {
	texts := []string{
		"In the last month, how often have you been upset because of something that happened unexpectedly?",
		"How often have you felt unable to control the important things in your life?",
		"How often have you felt nervous or stressed?",
		"How often have you struggled to keep up with coursework deadlines?",
		"How often have you found that you could not cope with all the things you had to do?",
		"How often have you had trouble falling or staying asleep because of worry?",
		"How often have you been angered by things outside of your control?",
		"How often have you felt difficulties were piling up so high that you could not overcome them?",
		"How often have you avoided friends or activities because you felt overwhelmed?",
		"How often have you felt physically tense, for example headaches or a tight chest?",
	}
	quiz := models.Quiz{Title: "Student stress self-assessment"}
	for i, text := range texts {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Text:    text,
			Options: append([]models.Option(nil), frequency...),
		})
	}
	return quiz
}

func defaultBands() []models.ScoreBand {
	return []models.ScoreBand{
		{MinInclusive: 0, MaxInclusive: 20, Label: "Low", Description: "You seem to be managing stress well. Keep up the habits that help you."},
		{MinInclusive: 21, MaxInclusive: 35, Label: "Moderate", Description: "You are carrying a noticeable amount of stress. Guided breathing and regular breaks can help."},
		{MinInclusive: 36, MaxInclusive: 50, Label: "High", Description: "Your stress level is high. Consider reaching out to a counsellor or someone you trust."},
	}
}
