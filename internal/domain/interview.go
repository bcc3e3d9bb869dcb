package domain

import (
	"encoding/json"
	"errors"
)

var (
	// ErrModelNotConfigured is returned when no generative model API key is configured.
	ErrModelNotConfigured = errors.New("generative model not configured")
	// ErrModelFailed is returned when the generative model call fails.
	ErrModelFailed = errors.New("generative model failed")
)

// InterviewMode selects the interviewer persona.
type InterviewMode string

const (
	ModeTechnical InterviewMode = "technical"
	ModeHR        InterviewMode = "hr"
	ModeRapidFire InterviewMode = "rapid-fire"
)

// Difficulty selects the question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// InterviewConfig is chosen by the candidate at interview setup and stays fixed for the session.
type InterviewConfig struct {
	Mode       InterviewMode `json:"mode"`
	Difficulty Difficulty    `json:"difficulty"`
	ResumeText string        `json:"resumeText,omitempty"`
	Role       string        `json:"role,omitempty"`
}

// Validate checks that mode and difficulty are known values.
func (c InterviewConfig) Validate() error {
	switch c.Mode {
	case ModeTechnical, ModeHR, ModeRapidFire:
	default:
		return NewValidationError("Unknown interview mode %q.", c.Mode)
	}

	switch c.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return NewValidationError("Unknown difficulty %q.", c.Difficulty)
	}

	return nil
}

// TurnRole identifies who produced a transcript turn.
type TurnRole string

const (
	RoleUser TurnRole = "user"
	RoleAI   TurnRole = "ai"
)

// Turn is one entry of the conversation transcript.
type Turn struct {
	Role       TurnRole    `json:"role"`
	Content    string      `json:"content"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// Evaluation is the model's structured assessment of one answer.
type Evaluation struct {
	Question    string   `json:"question"`
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Improvement string   `json:"improvement"`
	ModelAnswer string   `json:"modelAnswer"`
}

// InterviewRequest is the body of an interview relay call.
type InterviewRequest struct {
	Messages []Turn          `json:"messages"`
	Config   InterviewConfig `json:"config"`
}

// InterviewReply is the model's answer to one turn.
// Raw holds the model's JSON verbatim when it parsed; it is what gets relayed.
type InterviewReply struct {
	Evaluation   *Evaluation `json:"evaluation"`
	Feedback     string      `json:"feedback"`
	NextQuestion string      `json:"nextQuestion"`

	Raw json.RawMessage `json:"-"`
}

// InterviewScore is the aggregated scoreboard of an interview.
type InterviewScore struct {
	Technical         float64      `json:"technical"`
	Communication     float64      `json:"communication"`
	Confidence        float64      `json:"confidence"`
	Overall           float64      `json:"overall"`
	QuestionsAnswered int          `json:"questionsAnswered"`
	History           []ScorePoint `json:"history"`
}

// ScorePoint is the score of the n-th answered question.
type ScorePoint struct {
	Question int     `json:"question"`
	Score    float64 `json:"score"`
}

// ReportRequest is the body of an interview report request.
type ReportRequest struct {
	Messages        []Turn          `json:"messages"`
	Config          InterviewConfig `json:"config"`
	DurationSeconds int64           `json:"durationSeconds"`
}
