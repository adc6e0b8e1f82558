package httpx

import (
	"context"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// stateKey carries the resolved auth state placed by the route guard.
type stateKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
// Maintained for convenience; prefer GetUserSessionFromContext when you need presence info.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// SetStateInContext returns a child context carrying the resolved auth state.
func SetStateInContext(ctx context.Context, st domainauth.State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// GetStateFromContext returns the auth state the route guard resolved for this
// request. The zero value means no guard ran; treat it as anonymous.
func GetStateFromContext(ctx context.Context) domainauth.State {
	if st, ok := ctx.Value(stateKey{}).(domainauth.State); ok {
		return st
	}
	return domainauth.Anonymous()
}
