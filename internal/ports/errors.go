package ports

import "errors"

// Sentinel errors shared by every implementation of the ports, so callers can
// match with errors.Is without knowing which adapter is behind the interface.
var (
	// ErrSessionNotFound is returned by SessionStore.Get for an absent or
	// expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrProfileNotFound is returned when no profile row matches the lookup.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrDocumentNotFound is returned when a document path does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)
