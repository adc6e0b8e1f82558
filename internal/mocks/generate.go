// Package mocks provides mock implementations for testing the edupulse auth system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockProfiles := mocks.NewMockProfileRepository(ctrl)
//	mockProfiles.EXPECT().FindByUser(gomock.Any(), "user-1").Return(p, nil)
package mocks

// Generate mock for ProfileRepository interface from internal/ports.
// This creates MockProfileRepository with methods for all ProfileRepository interface methods:
// FindByUser, FindByIdentifier, Create
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=profile_repository_mock.go github.com/edupulse/edupulse/internal/ports ProfileRepository

// Generate mock for SessionStore interface from internal/ports.
// This creates MockSessionStore with methods for all SessionStore interface methods:
// Save, Get, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/edupulse/edupulse/internal/ports SessionStore

// Generate mock for AuthProvider interface from internal/ports.
// This creates MockAuthProvider with methods for all AuthProvider interface methods:
// Begin, Exchange
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_provider_mock.go github.com/edupulse/edupulse/internal/ports AuthProvider
