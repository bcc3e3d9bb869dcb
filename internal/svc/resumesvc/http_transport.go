package resumesvc

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const (
	msgResumeMissing      = "A resume file is required."
	msgResumeNotSupported = "Unsupported resume type. Use .txt, .md, .pdf or .docx."
	msgResumeMismatch     = "The resume content does not match its file extension."
	msgResumeTooLarge     = "Resume exceeds %d bytes."
	msgResumeEmpty        = "No text could be extracted from the resume."
	msgResumeUnreadable   = "The resume could not be read."
)

// HTTPTransportConfig contains configuration parameters for the resume upload endpoint.
type HTTPTransportConfig struct {
	// MultipartFileName is the form field name for the uploaded resume.
	MultipartFileName string `env:"MULTIPART_FILE_NAME" envDefault:"resume"`

	// MultipartFormMaxMemory is the part of the form kept in memory, the rest spills to disk.
	MultipartFormMaxMemory int64 `env:"MULTIPART_FORM_MAX_MEMORY" envDefault:"10485760"`
}

// HTTPTransport handles HTTP requests for the resume service.
type HTTPTransport struct {
	resumeSvc *ResumeService
	log       logging.Logger
	cfg       HTTPTransportConfig
	mux       *http.ServeMux
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(resumeSvc *ResumeService, cfg HTTPTransportConfig) *HTTPTransport {
	ht := &HTTPTransport{
		resumeSvc: resumeSvc,
		log:       logging.GetLogger("svc.resumesvc.http_transport"),
		cfg:       cfg,
		mux:       http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /api/resume", ht.HandleUpload)

	return ht
}

// ServeHTTP implements http.Handler and routes POST /api/resume.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

// HandleUpload extracts the text of an uploaded resume.
// Expects a multipart form with a file field matching MultipartFileName.
func (ht *HTTPTransport) HandleUpload(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUpload(w, r)
}

func (ht *HTTPTransport) handleUpload(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func() {
		if err != nil {
			log.WarnContext(r.Context(), "resume upload failed", "error", err)
		} else {
			log.DebugContext(r.Context(), "resume uploaded")
		}
	}()

	if err := r.ParseMultipartForm(ht.cfg.MultipartFormMaxMemory); err != nil {
		ht.writeFailure(w, domain.NewValidationError(msgResumeMissing))

		return fmt.Errorf("parse multipart form: %w", err)
	}

	file, fileHeader, err := r.FormFile(ht.cfg.MultipartFileName)
	if err != nil {
		ht.writeFailure(w, domain.NewValidationError(msgResumeMissing))

		return fmt.Errorf("form file: %w", err)
	}
	defer file.Close()

	// Check upload constraints before reading the file to buffer
	if _, err := ht.resumeSvc.CheckUploadConstraints(fileHeader.Filename, fileHeader.Size, nil); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("upload not allowed: %s: %w", fileHeader.Filename, err)
	}

	data, err := io.ReadAll(io.LimitReader(file, ht.resumeSvc.MaxSize()+1))
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("read %s: %w", fileHeader.Filename, err)
	}

	resume, err := ht.resumeSvc.Extract(r.Context(), fileHeader.Filename, data)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("extract %s: %w", fileHeader.Filename, err)
	}

	http_.WriteJSON(w, http.StatusOK, resume)

	return nil
}

func (ht *HTTPTransport) writeFailure(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		http_.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrResumeTooLarge):
		http_.WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(msgResumeTooLarge, ht.resumeSvc.MaxSize()))
	case errors.Is(err, domain.ErrResumeTypeNotSupported):
		http_.WriteError(w, http.StatusUnsupportedMediaType, msgResumeNotSupported)
	case errors.Is(err, domain.ErrResumeTypeMismatch):
		http_.WriteError(w, http.StatusBadRequest, msgResumeMismatch)
	case errors.Is(err, domain.ErrResumeEmpty):
		http_.WriteError(w, http.StatusUnprocessableEntity, msgResumeEmpty)
	case errors.Is(err, domain.ErrResumeUnreadable):
		http_.WriteError(w, http.StatusUnprocessableEntity, msgResumeUnreadable)
	default:
		http_.WriteError(w, http.StatusInternalServerError, http_.ErrInternal)
	}
}
