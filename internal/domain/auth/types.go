package auth

// Package auth contains domain-level types for authentication, roles,
// and resolved auth state. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleStudent          Role = "student"
	RoleTeacher          Role = "teacher"
	RoleInstitutionAdmin Role = "institution_admin"
	RoleMinistryAdmin    Role = "ministry_admin"

	// RoleUnknown is the explicit variant for any value outside the closed
	// enumeration. Guards always deny it.
	RoleUnknown Role = "unknown"
)

// ParseRole maps an arbitrary string onto the closed role enumeration.
// Comparison is case-insensitive; anything unrecognized becomes RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent
	case RoleTeacher:
		return RoleTeacher
	case RoleInstitutionAdmin:
		return RoleInstitutionAdmin
	case RoleMinistryAdmin:
		return RoleMinistryAdmin
	default:
		return RoleUnknown
	}
}

// Valid reports whether the role is a member of the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleInstitutionAdmin, RoleMinistryAdmin:
		return true
	default:
		return false
	}
}

// Matches reports whether this role satisfies the required role.
// Both sides are normalized through ParseRole, so "Teacher" matches "teacher"
// while any value outside the enumeration never matches anything.
func (r Role) Matches(required Role) bool {
	got := ParseRole(string(r))
	want := ParseRole(string(required))
	return got.Valid() && want.Valid() && got == want
}

// Roles lists the closed enumeration, in dashboard order.
func Roles() []Role {
	return []Role{RoleStudent, RoleTeacher, RoleInstitutionAdmin, RoleMinistryAdmin}
}

// Status describes how far session resolution has progressed.
type Status string

const (
	// StatusLoading means no resolution has been applied yet; any role carried
	// alongside is provisional and must not be treated as authoritative.
	StatusLoading Status = "loading"
	// StatusAuthenticated means a session resolved to a valid role.
	StatusAuthenticated Status = "authenticated"
	// StatusAnonymous means there is no session, or resolution failed closed.
	StatusAnonymous Status = "anonymous"
)

// State is the single source of truth combining session-resolution status and
// the resolved role. Only the role resolver writes it.
type State struct {
	Status Status `json:"status"`
	Role   Role   `json:"role,omitempty"`
}

// Loading returns the initial, unresolved state, optionally carrying a
// provisional role hint from a previous resolution.
func Loading(hint Role) State {
	return State{Status: StatusLoading, Role: hint}
}

// Anonymous returns the fail-closed state.
func Anonymous() State {
	return State{Status: StatusAnonymous}
}

// Authenticated returns the resolved state for a valid role.
func Authenticated(role Role) State {
	return State{Status: StatusAuthenticated, Role: role}
}

// Allows reports whether this state grants access to a view requiring the
// given role. Loading and anonymous states never allow; the role comparison
// is case-insensitive against the closed enumeration.
func (s State) Allows(required Role) bool {
	return s.Status == StatusAuthenticated && s.Role.Matches(required)
}

// Identity represents the authenticated principal returned by an identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// EventKind identifies what changed about a session.
type EventKind string

const (
	EventSignedIn     EventKind = "signed_in"
	EventSignedOut    EventKind = "signed_out"
	EventTokenRefresh EventKind = "token_refresh"
)

// Event is a session-change notification. SessionID always identifies the
// affected session; Session is nil for sign-out. Delivery is at-least-once
// and FIFO per subscriber; handlers must be idempotent.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	Session   *Session  `json:"session,omitempty"`
}
