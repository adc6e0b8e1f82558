// Package data provides Postgres-backed repositories for profiles and the
// student document vault.
package data

import (
	"errors"

	"github.com/edupulse/edupulse/internal/ports"
)

var (
	// ErrProfileNotFound is returned when no profile row matches the lookup.
	ErrProfileNotFound = ports.ErrProfileNotFound
	// ErrIdentifierExists is returned when a profile with the same identifier
	// or email already exists.
	ErrIdentifierExists = errors.New("identifier already registered")
	// ErrDocumentNotFound is returned when a document path does not exist.
	ErrDocumentNotFound = ports.ErrDocumentNotFound
	// ErrSignatureInvalid is returned when a signed URL token fails
	// verification or has expired.
	ErrSignatureInvalid = errors.New("invalid or expired signature")
)
