package models

import "time"

type Option struct {
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

type Quiz struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// MaxScore is the highest total the quiz can produce.
func (q Quiz) MaxScore() int {
	total := 0
	for _, question := range q.Questions {
		best := 0
		for _, o := range question.Options {
			best = max(best, o.Value)
		}
		total += best
	}
	return total
}

// ScoreBand is an inclusive score range with a severity label.
type ScoreBand struct {
	MinInclusive int    `json:"min" yaml:"min"`
	MaxInclusive int    `json:"max" yaml:"max"`
	Label        string `json:"label" yaml:"label"`
	Description  string `json:"description" yaml:"description"`
}

func (b ScoreBand) Contains(score int) bool {
	return score >= b.MinInclusive && score <= b.MaxInclusive
}

type AssessmentResult struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id,omitempty"`
	TotalScore        int       `json:"total_score"`
	MatchedBand       ScoreBand `json:"band"`
	AnsweredQuestions int       `json:"answered_questions"`
	CompletedAt       time.Time `json:"completed_at"`
}
