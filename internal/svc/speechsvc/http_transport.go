package speechsvc

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const msgSpeechNotConfigured = "Speech synthesis is not configured on the server."

// HTTPTransport handles HTTP requests for the speech service.
type HTTPTransport struct {
	speechSvc *SpeechService
	log       logging.Logger
	mux       *http.ServeMux
}

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(speechSvc *SpeechService) *HTTPTransport {
	ht := &HTTPTransport{
		speechSvc: speechSvc,
		log:       logging.GetLogger("svc.speechsvc.http_transport"),
		mux:       http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /api/tts", ht.HandleSpeech)

	return ht
}

// ServeHTTP implements http.Handler and routes POST /api/tts.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// HandleSpeech converts text to speech and streams the audio back.
// Expects a JSON body: {"text": "..."}. Responds with audio/mpeg.
func (ht *HTTPTransport) HandleSpeech(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleSpeech(w, r)
}

func (ht *HTTPTransport) handleSpeech(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	var written int64

	defer func() {
		if err != nil {
			log.ErrorContext(r.Context(), "speech failed", "error", err)
		} else {
			log.DebugContext(r.Context(), "speech relayed", "bytes", written)
		}
	}()

	var req domain.SpeechRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	audio, err := ht.speechSvc.Synthesize(r.Context(), req.Text)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("synthesize: %w", err)
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	written, err = io.Copy(w, audio)
	if err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}

	return nil
}

func (ht *HTTPTransport) writeFailure(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		upstreamErr   *domain.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		http_.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrSpeechNotConfigured):
		http_.WriteError(w, http.StatusInternalServerError, msgSpeechNotConfigured)
	case errors.As(err, &upstreamErr):
		http_.WriteError(w, relayStatus(upstreamErr.StatusCode), upstreamErr.Error())
	default:
		http_.WriteError(w, http.StatusInternalServerError, http_.ErrInternal)
	}
}

// relayStatus passes upstream error codes through, mapping anything that is
// not an error status to 502.
func relayStatus(code int) int {
	if code < http.StatusBadRequest || code > 599 {
		return http.StatusBadGateway
	}

	return code
}
