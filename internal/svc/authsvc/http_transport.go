package authsvc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	context_ "github.com/mkrupp/smart-interviewer/internal/infra/context"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgUserAlreadyExists  = "An account with this email already exists."
	msgNotAuthenticated   = "Not authenticated."
)

// HTTPTransport handles HTTP requests for the authentication service.
// It provides endpoints for signup, login, logout and the current session.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
	mux     *http.ServeMux
}

// NewHTTPTransport creates a new HTTPTransport instance.
// It requires an AuthService for handling authentication operations.
func NewHTTPTransport(authSvc *AuthService) *HTTPTransport {
	ht := &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
		mux:     http.NewServeMux(),
	}

	ht.mux.HandleFunc("POST /api/auth/signup", ht.HandleSignup)
	ht.mux.HandleFunc("POST /api/auth/login", ht.HandleLogin)
	ht.mux.HandleFunc("POST /api/auth/logout", ht.HandleLogout)
	ht.mux.HandleFunc("GET /api/auth/me", ht.HandleMe)

	return ht
}

// ServeHTTP implements http.Handler and routes the auth service endpoints:
// - POST /api/auth/signup: Create an account and start a session
// - POST /api/auth/login: Start a session
// - POST /api/auth/logout: End the session
// - GET /api/auth/me: Return the user of the current session.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// HandleSignup processes account registration requests.
// Expects a JSON body: {name, email, password}.
func (ht *HTTPTransport) HandleSignup(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleSignup(w, r)
}

func (ht *HTTPTransport) handleSignup(w http.ResponseWriter, r *http.Request) (err error) {
	defer ht.logResult(r, "signup", &err)

	var req domain.SignupRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	user, token, err := ht.authSvc.Signup(r.Context(), req)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("signup: %w", err)
	}

	ht.authSvc.Cookie.Attach(w, token)
	http_.WriteJSON(w, http.StatusOK, domain.AuthResponse{Success: true, User: &user})

	return nil
}

// HandleLogin processes login requests.
// Expects a JSON body: {email, password}.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	defer ht.logResult(r, "login", &err)

	var req domain.LoginRequest
	if err := http_.DecodeJSON(r, &req); err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("decode request: %w", err)
	}

	user, token, err := ht.authSvc.Login(r.Context(), req)
	if err != nil {
		ht.writeFailure(w, err)

		return fmt.Errorf("login: %w", err)
	}

	ht.authSvc.Cookie.Attach(w, token)
	http_.WriteJSON(w, http.StatusOK, domain.AuthResponse{Success: true, User: &user})

	return nil
}

// HandleLogout clears the session cookie. It always succeeds.
func (ht *HTTPTransport) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ht.authSvc.Cookie.Clear(w)
	http_.WriteJSON(w, http.StatusOK, domain.AuthResponse{Success: true})

	ht.log.DebugContext(r.Context(), "logout")
}

// HandleMe returns the user of the verified session, or 401.
func (ht *HTTPTransport) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := context_.SessionFromContext(r.Context())
	if !ok {
		claims, ok = ht.authSvc.VerifyRequest(r)
	}

	if !ok {
		http_.WriteError(w, http.StatusUnauthorized, msgNotAuthenticated)

		return
	}

	user := claims.User()
	http_.WriteJSON(w, http.StatusOK, domain.AuthResponse{Success: true, User: &user})
}

func (ht *HTTPTransport) writeFailure(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		http_.WriteError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		http_.WriteError(w, http.StatusConflict, msgUserAlreadyExists)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http_.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		http_.WriteError(w, http.StatusInternalServerError, http_.ErrInternal)
	}
}

func (ht *HTTPTransport) logResult(r *http.Request, op string, errp *error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))
	ctx := r.Context()

	switch err := *errp; {
	case err == nil:
		log.DebugContext(ctx, op+" succeeded")
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrInvalidCredentials):
		log.WarnContext(ctx, op+" rejected", "error", err)
	default:
		log.ErrorContext(ctx, op+" failed", "error", err)
	}
}
