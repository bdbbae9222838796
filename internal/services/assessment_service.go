package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/providers"
	"calmd/internal/storage"
)

const DefaultHistoryLimit = 20

// QuizView is what a client needs to render and interpret the quiz.
type QuizView struct {
	Quiz     models.Quiz        `json:"quiz"`
	Bands    []models.ScoreBand `json:"bands"`
	MaxScore int                `json:"max_score"`
}

type AssessmentServiceInterface interface {
	Quiz() QuizView
	Submit(ctx context.Context, userID string, answers map[string]int) (*models.AssessmentResult, error)
	History(ctx context.Context, userID string, limit int) ([]models.AssessmentResult, error)
}

type AssessmentService struct {
	scorer  *engagement.AssessmentScorer
	store   storage.Store
	clock   providers.ClockInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewAssessmentService(scorer *engagement.AssessmentScorer, store storage.Store, clock providers.ClockInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) AssessmentServiceInterface {
	return &AssessmentService{
		scorer:  scorer,
		store:   store,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *AssessmentService) Quiz() QuizView {
	quiz := s.scorer.Quiz()
	return QuizView{Quiz: quiz, Bands: s.scorer.Bands(), MaxScore: quiz.MaxScore()}
}

func (s *AssessmentService) Submit(ctx context.Context, userID string, answers map[string]int) (*models.AssessmentResult, error) {
	result, err := s.scorer.Score(answers)
	if err != nil {
		return nil, err
	}
	result.ID = uuid.NewString()
	result.UserID = userID
	result.CompletedAt = s.clock.Now()

	if err := s.store.SaveAssessmentResult(ctx, userID, result); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	s.metrics.IncAssessments(result.MatchedBand.Label)
	s.logger.Debugf(providers.TypeApp, "Assessment %s for %s scored %d (%s)", result.ID, userID, result.TotalScore, result.MatchedBand.Label)
	return &result, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]models.AssessmentResult, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	results, err := s.store.ListAssessmentResults(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	if results == nil {
		results = []models.AssessmentResult{}
	}
	return results, nil
}
