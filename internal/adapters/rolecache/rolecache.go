// Package rolecache holds the advisory single-slot cache of the last
// resolved role. It mirrors the original dashboard's persisted role hint:
// useful for picking which UI to render provisionally, never for granting
// access.
package rolecache

import (
	"sync"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
)

// Slot is a process-wide single value cache. The zero value is ready to use
// and reads as RoleUnknown.
type Slot struct {
	mu   sync.RWMutex
	role domainauth.Role
	set  bool
}

// New returns an empty Slot.
func New() *Slot {
	return &Slot{}
}

// Read returns the cached role, or RoleUnknown when nothing is cached.
func (s *Slot) Read() domainauth.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return domainauth.RoleUnknown
	}
	return s.role
}

// Write stores the last resolved role. Values outside the closed enumeration
// are normalized to RoleUnknown so a poisoned cache can never look valid.
func (s *Slot) Write(role domainauth.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = domainauth.ParseRole(string(role))
	s.set = true
}

// Clear empties the slot. Called on sign-out and on any failed resolution of
// a null session.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = domainauth.RoleUnknown
	s.set = false
}
