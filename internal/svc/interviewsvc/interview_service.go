package interviewsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// InterviewConfig contains configuration parameters for the interview relay.
type InterviewConfig struct {
	// APIKey is the Gemini API key; requests fail with a configuration error when unset
	APIKey string `env:"API_KEY"`

	// Model is the generative model name
	Model string `env:"MODEL" envDefault:"gemini-2.5-flash"`

	// Timeout bounds a single model call
	Timeout time.Duration `env:"TIMEOUT" envDefault:"55s"`

	// ScorePolicy is "average" or "jitter"
	ScorePolicy string `env:"SCORE_POLICY" envDefault:"average"`
}

// InterviewService relays interview turns to a generative model and
// aggregates and reports on finished transcripts.
type InterviewService struct {
	Config InterviewConfig
	Model  Model
	Policy ScorePolicy
	Log    logging.Logger

	now func() time.Time
}

// NewInterviewService creates an InterviewService backed by the Gemini API.
func NewInterviewService(cfg InterviewConfig) (*InterviewService, error) {
	return NewInterviewServiceWith(NewGeminiModel(cfg.APIKey, cfg.Model), cfg)
}

// NewInterviewServiceWith creates an InterviewService using the given model.
func NewInterviewServiceWith(model Model, cfg InterviewConfig) (*InterviewService, error) {
	policy, err := NewScorePolicy(cfg.ScorePolicy)
	if err != nil {
		return nil, fmt.Errorf("new score policy: %w", err)
	}

	return &InterviewService{
		Config: cfg,
		Model:  model,
		Policy: policy,
		Log:    logging.GetLogger("svc.interviewsvc.interview_service"),
		now:    time.Now,
	}, nil
}

// Reply sends the transcript to the model and parses its answer.
// Returns a ValidationError for an invalid configuration or transcript,
// ErrModelNotConfigured without an API key and ErrModelFailed on model faults.
func (s *InterviewService) Reply(ctx context.Context, req domain.InterviewRequest) (_ domain.InterviewReply, err error) {
	log := s.Log.With(logging.Group("interview",
		"mode", req.Config.Mode,
		"difficulty", req.Config.Difficulty,
		"turns", len(req.Messages),
	))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "interview reply failed", "error", err)
		} else {
			log.DebugContext(ctx, "interview reply")
		}
	}()

	if err := validate(req.Config, req.Messages); err != nil {
		return domain.InterviewReply{}, err
	}

	history, message := NormalizeTranscript(req.Messages)

	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	text, err := s.Model.Chat(ctx, ChatRequest{
		SystemInstruction: BuildSystemInstruction(req.Config),
		History:           history,
		Message:           message,
	})
	if err != nil {
		return domain.InterviewReply{}, fmt.Errorf("chat: %w", err)
	}

	reply := ParseReply(text)
	if reply.Evaluation != nil {
		log = log.With("score", reply.Evaluation.Score)
	}

	return reply, nil
}

// Score aggregates the evaluations of a transcript using the configured policy.
func (s *InterviewService) Score(req domain.InterviewRequest) (domain.InterviewScore, error) {
	if err := validate(req.Config, req.Messages); err != nil {
		return domain.InterviewScore{}, err
	}

	return Score(s.Policy, req.Config.Mode, req.Messages), nil
}

// Report renders the plain-text report of a transcript and its attachment filename.
func (s *InterviewService) Report(req domain.ReportRequest) (filename, report string, err error) {
	if err := validate(req.Config, req.Messages); err != nil {
		return "", "", err
	}

	score := Score(s.Policy, req.Config.Mode, req.Messages)

	return ReportFilename(s.now()), BuildReport(req, score), nil
}

func validate(cfg domain.InterviewConfig, turns []domain.Turn) error {
	if err := cfg.Validate(); err != nil {
		return err //nolint:wrapcheck
	}

	for i, turn := range turns {
		switch turn.Role {
		case domain.RoleUser, domain.RoleAI:
		default:
			return domain.NewValidationError("Message %d has unknown role %q.", i, turn.Role)
		}
	}

	return nil
}
