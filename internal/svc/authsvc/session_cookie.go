package authsvc

import (
	"net/http"
	"time"
)

// SessionCookieName is the name of the cookie carrying the session token.
const SessionCookieName = "smart-interviewer-token"

// SessionCookie moves session tokens in and out of HTTP cookies.
type SessionCookie struct {
	// Secure marks the cookie for encrypted transports only
	Secure bool
	// MaxAge is the cookie lifetime
	MaxAge time.Duration
}

// Attach sets the session cookie carrying token on the response.
func (c SessionCookie) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.MaxAge/time.Second)))
}

// Clear expires the session cookie immediately.
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// Read returns the session token of the request, if any.
func (c SessionCookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

func (c SessionCookie) cookie(value string, maxAge int) *http.Cookie {
	//nolint:exhaustruct
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
