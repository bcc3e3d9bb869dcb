package main

import (
	"net/http"

	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	http_ "github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
)

const loginPath = "/login"

type routerConfig struct {
	Auth      http.Handler
	Interview http.Handler
	Speech    http.Handler
	Resume    http.Handler

	Verifier http_.SessionVerifier

	// ProtectAPI answers unauthenticated API calls with 401
	ProtectAPI bool

	// WebDir serves static pages under / when set
	WebDir string
}

// newRouter composes the service transports into a single handler guarded
// by the session middleware.
func newRouter(cfg routerConfig) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/auth/", cfg.Auth)
	mux.Handle("/api/interview", cfg.Interview)
	mux.Handle("/api/interview/", cfg.Interview)
	mux.Handle("/api/tts", cfg.Speech)
	mux.Handle("/api/resume", cfg.Resume)

	if cfg.WebDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.WebDir)))
	}

	areas := []http_.ProtectedArea{
		{Prefix: "/interview", Deny: http_.RedirectToLogin(loginPath)},
	}

	if cfg.ProtectAPI {
		for _, prefix := range []string{"/api/interview", "/api/tts", "/api/resume"} {
			areas = append(areas, http_.ProtectedArea{Prefix: prefix, Deny: http_.RejectUnauthorized})
		}
	}

	return http_.AuthorizingMiddleware(mux, cfg.Verifier, areas, logging.GetLogger("cmd.interviewsvc.router"))
}
