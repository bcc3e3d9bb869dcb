package authsvc_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/smart-interviewer/internal/svc/authsvc"
)

func TestSessionCookie_Attach(t *testing.T) {
	t.Parallel()

	for _, secure := range []bool{false, true} {
		rec := httptest.NewRecorder()
		authsvc.SessionCookie{Secure: secure, MaxAge: authsvc.DefaultTokenDuration}.Attach(rec, "tok")

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)

		cookie := cookies[0]
		assert.Equal(t, authsvc.SessionCookieName, cookie.Name)
		assert.Equal(t, "tok", cookie.Value)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, secure, cookie.Secure)
	}
}

func TestSessionCookie_Clear(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	authsvc.SessionCookie{}.Clear(rec)

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, authsvc.SessionCookieName+"=;")
	assert.Contains(t, header, "Max-Age=0")
	assert.Contains(t, header, "HttpOnly")
}

func TestSessionCookie_Read(t *testing.T) {
	t.Parallel()

	cookie := authsvc.SessionCookie{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := cookie.Read(req)
	assert.False(t, ok)

	req.AddCookie(&http.Cookie{Name: authsvc.SessionCookieName, Value: "tok"})
	token, ok := cookie.Read(req)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}
