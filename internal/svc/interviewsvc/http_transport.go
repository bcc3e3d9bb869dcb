package interviewsvc

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const (
	msgModelNotConfigured = "Interview model is not configured on the server."
	msgModelFailed        = "Failed to process interview request."
)

// HTTPTransport handles HTTP requests for the interview service.
type HTTPTransport struct {
	interviewSvc *InterviewService
	log          logging.Logger
	mux          *http.ServeMux
}

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(interviewSvc *InterviewService) *HTTPTransport {
	ht := &HTTPTransport{
		interviewSvc: interviewSvc,
		log:          logging.GetLogger("svc.interviewsvc.http_transport"),
		mux:          http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /api/interview", ht.HandleInterview)
	ht.mux.HandleFunc("POST /api/interview/score", ht.HandleScore)
	ht.mux.HandleFunc("POST /api/interview/report", ht.HandleReport)

	return ht
}

// ServeHTTP implements http.Handler and routes the interview endpoints:
// - POST /api/interview: Relay a transcript to the model
// - POST /api/interview/score: Aggregate the transcript's evaluations
// - POST /api/interview/report: Download a plain-text report.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// HandleInterview relays one interview turn.
// Expects a JSON body: {messages, config}. Responds with the model's JSON verbatim.
func (ht *HTTPTransport) HandleInterview(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleInterview(w, r)
}

func (ht *HTTPTransport) handleInterview(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func() {
		if err != nil {
			log.ErrorContext(r.Context(), "interview failed", "error", err)
		} else {
			log.DebugContext(r.Context(), "interview relayed")
		}
	}()

	var req domain.InterviewRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	reply, err := ht.interviewSvc.Reply(r.Context(), req)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("reply: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(reply.Raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// HandleScore aggregates the evaluations of a transcript.
// Expects a JSON body: {messages, config}.
func (ht *HTTPTransport) HandleScore(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleScore(w, r)
}

func (ht *HTTPTransport) handleScore(w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if err != nil {
			ht.log.WarnContext(r.Context(), "score failed", "error", err)
		}
	}()

	var req domain.InterviewRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	score, err := ht.interviewSvc.Score(req)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("score: %w", err)
	}

	http_.WriteJSON(w, http.StatusOK, score)

	return nil
}

// HandleReport renders a transcript as a downloadable text report.
// Expects a JSON body: {messages, config, durationSeconds}.
func (ht *HTTPTransport) HandleReport(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleReport(w, r)
}

func (ht *HTTPTransport) handleReport(w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if err != nil {
			ht.log.WarnContext(r.Context(), "report failed", "error", err)
		}
	}()

	var req domain.ReportRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	filename, report, err := ht.interviewSvc.Report(req)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("report: %w", err)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(report)); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func (ht *HTTPTransport) writeFailure(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		http_.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrModelNotConfigured):
		http_.WriteError(w, http.StatusInternalServerError, msgModelNotConfigured)
	case errors.Is(err, domain.ErrModelFailed):
		http_.WriteError(w, http.StatusInternalServerError, msgModelFailed)
	default:
		http_.WriteError(w, http.StatusInternalServerError, http_.ErrInternal)
	}
}
