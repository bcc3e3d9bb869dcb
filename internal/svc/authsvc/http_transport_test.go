package authsvc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/svc/authsvc"
)

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == authsvc.SessionCookieName {
			return c
		}
	}

	t.Fatalf("no %s cookie in response", authsvc.SessionCookieName)

	return nil
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) domain.AuthResponse {
	t.Helper()

	var resp domain.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestHTTPTransport_AdaScenario(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	h := authsvc.NewHTTPTransport(svc)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, sessionCookie(t, rec).Value)

	signup := decodeAuthResponse(t, rec)
	require.True(t, signup.Success)
	require.NotNil(t, signup.User)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password."}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login",
		`{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	login := decodeAuthResponse(t, rec)
	require.NotNil(t, login.User)
	assert.Equal(t, signup.User.ID, login.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", "", sessionCookie(t, rec))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, signup.User.ID, decodeAuthResponse(t, rec).User.ID)
}

func TestHTTPTransport_Signup(t *testing.T) {
	t.Parallel()

	svc, mockRepo := setupTestService(t)
	h := authsvc.NewHTTPTransport(svc)

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`).Code)

	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing fields",
			body:       `{"email":"x@x.io"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Name, email, and password are required."}`,
		},
		{
			name:       "short password",
			body:       `{"name":"X","email":"x@x.io","password":"123"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Password must be at least 6 characters."}`,
		},
		{
			name:       "malformed body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"request body is not valid JSON"}`,
		},
		{
			name:       "duplicate email",
			body:       `{"name":"Ada","email":"ADA@example.com","password":"secret1"}`,
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"An account with this email already exists."}`,
		},
		{
			name:       "storage fault is not leaked",
			body:       `{"name":"Bob","email":"bob@example.com","password":"secret1"}`,
			repoErr:    ErrRepoError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.err = tt.repoErr
			defer func() { mockRepo.err = nil }()

			before := mockRepo.creates

			rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Empty(t, rec.Result().Cookies())
			assert.Equal(t, before, mockRepo.creates)
		})
	}
}

func TestHTTPTransport_LoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	h := authsvc.NewHTTPTransport(svc)

	require.Equal(t, http.StatusOK, doJSON(t, h, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`).Code)

	wrong := doJSON(t, h, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope123"}`)
	unknown := doJSON(t, h, http.MethodPost, "/api/auth/login", `{"email":"who@example.com","password":"nope123"}`)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())

	missing := doJSON(t, h, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.JSONEq(t, `{"error":"Email and password are required."}`, missing.Body.String())
}

func TestHTTPTransport_Logout(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	h := authsvc.NewHTTPTransport(svc)

	for _, cookies := range [][]*http.Cookie{
		nil,
		{{Name: authsvc.SessionCookieName, Value: "whatever"}},
	} {
		rec := doJSON(t, h, http.MethodPost, "/api/auth/logout", "", cookies...)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		cleared := sessionCookie(t, rec)
		assert.Empty(t, cleared.Value)
		assert.Negative(t, cleared.MaxAge)
	}
}

func TestHTTPTransport_MeWithoutSession(t *testing.T) {
	t.Parallel()

	svc, _ := setupTestService(t)
	h := authsvc.NewHTTPTransport(svc)

	rec := doJSON(t, h, http.MethodGet, "/api/auth/me", "",
		&http.Cookie{Name: authsvc.SessionCookieName, Value: "forged"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
