package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	context_ "github.com/mkrupp/smart-interviewer/internal/infra/context"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// SessionVerifier resolves the verified session of a request.
// Absent, malformed, forged and expired credentials all report ok=false.
type SessionVerifier interface {
	VerifyRequest(r *http.Request) (claims domain.SessionClaims, ok bool)
}

// DenyFunc answers a request that reached a protected area without a valid session.
type DenyFunc func(w http.ResponseWriter, r *http.Request)

// ProtectedArea is a path prefix gated by AuthorizingMiddleware.
// A prefix matches itself and every path below it ("/interview" matches
// "/interview" and "/interview/x" but not "/interviews").
type ProtectedArea struct {
	Prefix string
	Deny   DenyFunc
}

func (a ProtectedArea) matches(path string) bool {
	prefix := strings.TrimSuffix(a.Prefix, "/")

	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// RedirectToLogin denies by redirecting (303) to loginPath, passing the
// originally requested path in the "redirect" query parameter.
func RedirectToLogin(loginPath string) DenyFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := loginPath + "?" + url.Values{"redirect": {r.URL.Path}}.Encode()

		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// RejectUnauthorized denies with 401 and a JSON error body.
func RejectUnauthorized(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

// AuthorizingMiddleware creates middleware that gates protected areas on a verified session.
// Every request carrying a valid session token gets its claims added to the request context.
// Requests for a protected area without a valid session are answered by the area's DenyFunc;
// an invalid token is treated exactly like a missing one.
func AuthorizingMiddleware(
	next http.Handler,
	verifier SessionVerifier,
	areas []ProtectedArea,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := verifier.VerifyRequest(r)
		if ok {
			r = r.WithContext(context_.WithSession(r.Context(), claims))
		}

		for _, area := range areas {
			if !area.matches(r.URL.Path) {
				continue
			}

			if !ok {
				log.WarnContext(r.Context(), "no valid session for protected area",
					"area", area.Prefix, "path", r.URL.Path)
				area.Deny(w, r)

				return
			}

			break
		}

		next.ServeHTTP(w, r)
	})
}
