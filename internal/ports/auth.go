package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
)

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionEvents broadcasts session-change notifications. Subscribe registers
// a handler and returns an unsubscribe func that must be called on teardown;
// delivery is FIFO per subscriber with at-least-once semantics, so handlers
// must be idempotent.
type SessionEvents interface {
	Publish(ctx context.Context, ev domainauth.Event) error
	Subscribe(ctx context.Context, handler func(domainauth.Event)) (unsubscribe func(), err error)
}

// ProfileRepository is the authoritative role store.
type ProfileRepository interface {
	// FindByUser returns the zero-or-one profile whose id equals userID.
	// Returns ErrNotFound-style sentinel from the implementation when absent.
	FindByUser(ctx context.Context, userID string) (profile.Profile, error)

	// FindByIdentifier returns the profile matching the role-specific
	// identifier column for the given role.
	FindByIdentifier(ctx context.Context, role domainauth.Role, identifier string) (profile.Profile, error)

	// Create inserts a new profile.
	Create(ctx context.Context, p profile.Profile) (profile.Profile, error)
}

// RoleCache is the advisory single-slot cache of the last resolved role.
// It is never authoritative: readers must treat it as superseded the instant
// a real resolution lands, and must never use it to grant access.
type RoleCache interface {
	Read() domainauth.Role
	Write(role domainauth.Role)
	Clear()
}

// BeginInput carries inputs for initiating an SSO auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
// Used for the optional SSO auth mode; password login goes straight to the
// profile repository.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}
