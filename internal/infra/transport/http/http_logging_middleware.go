package http

import (
	"net/http"
	"time"

	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// statusRecorder remembers the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter

	status  int
	written int64
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)

	return n, err //nolint:wrapcheck
}

// Unwrap lets http.ResponseController reach the underlying writer, e.g. to flush audio.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggingMiddleware logs every request at DEBUG and its response at a level
// derived from the status code: ERROR for 5xx, WARN for 4xx, INFO otherwise.
func LoggingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.DebugContext(r.Context(), "request", logging.Group("http",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		))

		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		level := logging.LevelInfo
		if status >= http.StatusInternalServerError {
			level = logging.LevelError
		} else if status >= http.StatusBadRequest {
			level = logging.LevelWarn
		}

		log.Log(r.Context(), level, "response", logging.Group("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", rec.written,
			"duration", time.Since(start),
		))
	})
}
