// Package context holds typed request-scoped values shared across transports and logging.
package context

type contextKey string
