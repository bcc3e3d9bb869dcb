package http

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// RescueingMiddleware recovers from handler panics, logging the stack and
// answering 500 with the generic error body.
// http.ErrAbortHandler is re-raised so the server aborts the response silently.
func RescueingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}

			if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(p)
			}

			log.ErrorContext(r.Context(), "request panic",
				logging.Group("http", "method", r.Method, "path", r.URL.Path),
				logging.Group("error", "panic", p, "stack", string(debug.Stack())),
			)

			WriteError(w, http.StatusInternalServerError, ErrInternal)
		}()

		next.ServeHTTP(w, r)
	})
}
