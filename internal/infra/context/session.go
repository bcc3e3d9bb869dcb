package context

import (
	"context"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

const contextKeySession = contextKey("session")

// SessionFromContext extracts the verified session claims from the context.
// Returns the claims and true if present, or zero claims and false if not present.
func SessionFromContext(ctx context.Context) (domain.SessionClaims, bool) {
	claims, ok := ctx.Value(contextKeySession).(domain.SessionClaims)

	return claims, ok
}

// WithSession creates a new context carrying the verified session claims
// of the authenticated user.
func WithSession(ctx context.Context, claims domain.SessionClaims) context.Context {
	return context.WithValue(ctx, contextKeySession, claims)
}
