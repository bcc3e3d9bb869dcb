package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	context_ "github.com/mkrupp/smart-interviewer/internal/infra/context"
)

// headerVerifier accepts requests carrying an X-Test-User header.
type headerVerifier struct{}

func (headerVerifier) VerifyRequest(r *http.Request) (domain.SessionClaims, bool) {
	id := r.Header.Get("X-Test-User")

	return domain.SessionClaims{ID: id, Email: id + "@example.com", Name: id}, id != ""
}

// named answers with its name and the session user, if any.
func named(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := context_.SessionFromContext(r.Context())
		_, _ = w.Write([]byte(name + ":" + claims.ID))
	})
}

func testRouter(t *testing.T, protectAPI bool) http.Handler {
	t.Helper()

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("home"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(webDir, "interview"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "interview", "index.html"), []byte("room"), 0o600))

	return newRouter(routerConfig{
		Auth:       named("auth"),
		Interview:  named("interview"),
		Speech:     named("speech"),
		Resume:     named("resume"),
		Verifier:   headerVerifier{},
		ProtectAPI: protectAPI,
		WebDir:     webDir,
	})
}

func TestRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		protectAPI   bool
		method       string
		path         string
		user         string
		wantStatus   int
		wantBody     string
		wantLocation string
	}{
		{"auth is public", true, http.MethodPost, "/api/auth/login", "", http.StatusOK, "auth:", ""},
		{"me sees session", true, http.MethodGet, "/api/auth/me", "ada", http.StatusOK, "auth:ada", ""},
		{"interview api rejected", true, http.MethodPost, "/api/interview", "", http.StatusUnauthorized, "", ""},
		{"score api rejected", true, http.MethodPost, "/api/interview/score", "", http.StatusUnauthorized, "", ""},
		{"tts rejected", true, http.MethodPost, "/api/tts", "", http.StatusUnauthorized, "", ""},
		{"resume rejected", true, http.MethodPost, "/api/resume", "", http.StatusUnauthorized, "", ""},
		{"interview api allowed", true, http.MethodPost, "/api/interview", "ada", http.StatusOK, "interview:ada", ""},
		{"tts allowed", true, http.MethodPost, "/api/tts", "ada", http.StatusOK, "speech:ada", ""},
		{"api open when unprotected", false, http.MethodPost, "/api/tts", "", http.StatusOK, "speech:", ""},
		{"page redirects", true, http.MethodGet, "/interview/", "", http.StatusSeeOther, "", "/login?redirect=%2Finterview%2F"},
		{"page redirects when api open", false, http.MethodGet, "/interview", "", http.StatusSeeOther, "", "/login?redirect=%2Finterview"},
		{"page served with session", true, http.MethodGet, "/interview/", "ada", http.StatusOK, "room", ""},
		{"home is public", true, http.MethodGet, "/", "", http.StatusOK, "home", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.user != "" {
				req.Header.Set("X-Test-User", tt.user)
			}

			rec := httptest.NewRecorder()
			testRouter(t, tt.protectAPI).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}

			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
		})
	}
}
