package interviewsvc

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// ErrUnknownScorePolicy is returned for an unrecognized score policy name.
var ErrUnknownScorePolicy = errors.New("unknown score policy")

const (
	maxScore = 10
	// non-technical interviews derive a technical score from the first mean
	technicalWeight = 0.7
)

// ScorePolicy derives the communication and confidence scores from the running mean.
type ScorePolicy interface {
	Dimensions(mean float64) (communication, confidence float64)
}

// AverageScorePolicy reports the mean for every dimension.
type AverageScorePolicy struct{}

// Dimensions implements ScorePolicy.
func (AverageScorePolicy) Dimensions(mean float64) (float64, float64) {
	return mean, mean
}

// JitterScorePolicy spreads the mean randomly by ±0.5 for communication and
// ±0.75 for confidence, capped at 10.
type JitterScorePolicy struct {
	// Rand returns a value in [0, 1); defaults to math/rand/v2
	Rand func() float64
}

// Dimensions implements ScorePolicy.
func (p JitterScorePolicy) Dimensions(mean float64) (float64, float64) {
	random := p.Rand
	if random == nil {
		random = rand.Float64
	}

	communication := math.Min(maxScore, mean+(random()*1-0.5))
	confidence := math.Min(maxScore, mean+(random()*1.5-0.75))

	return communication, confidence
}

// NewScorePolicy returns the policy registered under name ("average" or "jitter").
func NewScorePolicy(name string) (ScorePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "average":
		return AverageScorePolicy{}, nil
	case "jitter":
		return JitterScorePolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorePolicy, name)
	}
}

// Score aggregates the evaluations attached to interviewer turns, in order.
func Score(policy ScorePolicy, mode domain.InterviewMode, turns []domain.Turn) domain.InterviewScore {
	score := domain.InterviewScore{History: []domain.ScorePoint{}}

	var sum float64

	for _, turn := range turns {
		if turn.Role != domain.RoleAI || turn.Evaluation == nil {
			continue
		}

		score.QuestionsAnswered++
		score.History = append(score.History, domain.ScorePoint{
			Question: score.QuestionsAnswered,
			Score:    turn.Evaluation.Score,
		})

		sum += turn.Evaluation.Score
		mean := sum / float64(score.QuestionsAnswered)

		switch {
		case mode == domain.ModeTechnical:
			score.Technical = mean
		case score.Technical == 0:
			score.Technical = mean * technicalWeight
		}

		score.Communication, score.Confidence = policy.Dimensions(mean)
		score.Overall = mean
	}

	return score
}
