package engagement

import (
	"fmt"
	"slices"

	"calmd/internal/models"
)

// AssessmentScorer sums quiz answers and classifies the total into a band.
// Bands are matched in declared order and the first containing band wins,
// so overlapping or gapped tables resolve by position, not by range.
type AssessmentScorer struct {
	quiz  models.Quiz
	bands []models.ScoreBand
}

func NewAssessmentScorer(quiz models.Quiz, bands []models.ScoreBand) (*AssessmentScorer, error) {
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	for i, b := range bands {
		if b.MinInclusive > b.MaxInclusive {
			return nil, fmt.Errorf("%w: band %d (%s) has min %d > max %d", ErrInvalidBands, i, b.Label, b.MinInclusive, b.MaxInclusive)
		}
	}
	quiz.Questions = slices.Clone(quiz.Questions)
	return &AssessmentScorer{quiz: quiz, bands: slices.Clone(bands)}, nil
}

func validateQuiz(quiz models.Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	seen := make(map[string]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question without id", ErrInvalidQuiz)
		}
		if _, ok := seen[q.ID]; ok {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q has no options", ErrInvalidQuiz, q.ID)
		}
	}
	return nil
}

func (s *AssessmentScorer) Quiz() models.Quiz {
	q := s.quiz
	q.Questions = slices.Clone(q.Questions)
	return q
}

func (s *AssessmentScorer) Bands() []models.ScoreBand {
	return slices.Clone(s.bands)
}

// Score totals answers keyed by question id. Questions without an answer
// count as 0; answers for ids outside the quiz are ignored.
func (s *AssessmentScorer) Score(answers map[string]int) (models.AssessmentResult, error) {
	total, answered := 0, 0
	for _, q := range s.quiz.Questions {
		value, ok := answers[q.ID]
		if !ok {
			continue
		}
		if !slices.ContainsFunc(q.Options, func(o models.Option) bool { return o.Value == value }) {
			return models.AssessmentResult{}, fmt.Errorf("%w: %q=%d", ErrUnknownOption, q.ID, value)
		}
		total += value
		answered++
	}

	band, err := s.Classify(total)
	if err != nil {
		return models.AssessmentResult{}, err
	}
	return models.AssessmentResult{
		TotalScore:        total,
		MatchedBand:       band,
		AnsweredQuestions: answered,
	}, nil
}

// Classify returns the first band containing score.
func (s *AssessmentScorer) Classify(score int) (models.ScoreBand, error) {
	for _, b := range s.bands {
		if b.Contains(score) {
			return b, nil
		}
	}
	return models.ScoreBand{}, fmt.Errorf("%w: %d", ErrNoMatchingBand, score)
}
