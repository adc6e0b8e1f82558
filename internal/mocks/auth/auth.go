package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/document"
	"github.com/edupulse/edupulse/internal/domain/profile"
	"github.com/edupulse/edupulse/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore      = (*MemorySessionStore)(nil)
	_ ports.SessionEvents     = (*MemorySessionEvents)(nil)
	_ ports.ProfileRepository = (*StubProfileRepo)(nil)
	_ ports.DocumentStore     = (*MemoryDocumentStore)(nil)
	_ ports.AuthProvider      = (*StubAuthProvider)(nil)
)

// MemorySessionStore is an in-memory ports.SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	// GetErr, when set, makes every Get fail (simulates an unreachable backend).
	GetErr error
}

// NewMemorySessionStore returns an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return domainauth.Session{}, s.GetErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// ErrSessionNotFound is the shared ports sentinel, re-exported for test
// convenience.
var ErrSessionNotFound = ports.ErrSessionNotFound

// MemorySessionEvents dispatches events synchronously, in publish order, on
// the publisher's goroutine. That makes event-ordering tests deterministic.
type MemorySessionEvents struct {
	mu       sync.Mutex
	handlers map[int]func(domainauth.Event)
	next     int
	Events   []domainauth.Event // every published event, for assertions
}

// NewMemorySessionEvents returns an empty bus.
func NewMemorySessionEvents() *MemorySessionEvents {
	return &MemorySessionEvents{handlers: make(map[int]func(domainauth.Event))}
}

func (e *MemorySessionEvents) Publish(_ context.Context, ev domainauth.Event) error {
	e.mu.Lock()
	e.Events = append(e.Events, ev)
	hs := make([]func(domainauth.Event), 0, len(e.handlers))
	for _, h := range e.handlers {
		hs = append(hs, h)
	}
	e.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
	return nil
}

func (e *MemorySessionEvents) Subscribe(
	_ context.Context,
	handler func(domainauth.Event),
) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.handlers[id] = handler
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}, nil
}

// StubProfileRepo is a scriptable ports.ProfileRepository.
type StubProfileRepo struct {
	mu      sync.Mutex
	ByUser  map[string]profile.Profile // keyed by profile ID
	Err     error                      // when set, every lookup fails
	Delay   time.Duration              // optional artificial latency per lookup
	Lookups int
}

// NewStubProfileRepo returns an empty repo.
func NewStubProfileRepo() *StubProfileRepo {
	return &StubProfileRepo{ByUser: make(map[string]profile.Profile)}
}

func (r *StubProfileRepo) FindByUser(ctx context.Context, userID string) (profile.Profile, error) {
	r.mu.Lock()
	r.Lookups++
	delay, err := r.Delay, r.Err
	p, ok := r.ByUser[userID]
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return profile.Profile{}, ctx.Err()
		}
	}
	if err != nil {
		return profile.Profile{}, err
	}
	if !ok {
		return profile.Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (r *StubProfileRepo) FindByIdentifier(
	_ context.Context,
	role domainauth.Role,
	identifier string,
) (profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return profile.Profile{}, r.Err
	}
	for _, p := range r.ByUser {
		if p.Role == role && p.Identifier() == identifier {
			return p, nil
		}
	}
	return profile.Profile{}, ErrProfileNotFound
}

func (r *StubProfileRepo) Create(_ context.Context, p profile.Profile) (profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return profile.Profile{}, r.Err
	}
	if p.ID == "" {
		p.ID = "profile-" + p.Identifier()
	}
	r.ByUser[p.ID] = p
	return p, nil
}

// ErrProfileNotFound is the shared ports sentinel, re-exported for test
// convenience.
var ErrProfileNotFound = ports.ErrProfileNotFound

// MemoryDocumentStore is an in-memory ports.DocumentStore.
type MemoryDocumentStore struct {
	mu    sync.Mutex
	blobs map[string]document.Blob

	// UploadErr, when set, makes every Upload fail.
	UploadErr error
}

// NewMemoryDocumentStore returns an empty store.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{blobs: make(map[string]document.Blob)}
}

func (s *MemoryDocumentStore) List(_ context.Context, prefix string) ([]document.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []document.Info
	for path, blob := range s.blobs {
		if strings.HasPrefix(path, prefix) {
			out = append(out, blob.Info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryDocumentStore) Upload(
	_ context.Context,
	path string,
	contentType string,
	data []byte,
) (document.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return document.Info{}, s.UploadErr
	}
	info := document.Info{
		Path:        path,
		Name:        path[strings.LastIndex(path, "/")+1:],
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UpdatedAt:   time.Now().UTC(),
	}
	s.blobs[path] = document.Blob{Info: info, Data: append([]byte(nil), data...)}
	return info, nil
}

func (s *MemoryDocumentStore) Download(_ context.Context, path string) (document.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blob, ok := s.blobs[path]
	if !ok {
		return document.Blob{}, ErrDocumentNotFound
	}
	return blob, nil
}

func (s *MemoryDocumentStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, path)
	return nil
}

func (s *MemoryDocumentStore) CreateSignedURL(
	_ context.Context,
	path string,
	_ time.Duration,
) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[path]; !ok {
		return "", ErrDocumentNotFound
	}
	return "https://signed.example.com/" + path, nil
}

// ErrDocumentNotFound is the shared ports sentinel, re-exported for test
// convenience.
var ErrDocumentNotFound = ports.ErrDocumentNotFound

// StubAuthProvider is a scriptable ports.AuthProvider for SSO flows.
type StubAuthProvider struct {
	AuthURL  string
	Identity domainauth.Identity
	Err      error
}

func (p *StubAuthProvider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	if p.Err != nil {
		return "", "", "", p.Err
	}
	url := p.AuthURL
	if url == "" {
		url = "https://idp.example.com/auth"
	}
	return url, "state-1", "nonce-1", nil
}

func (p *StubAuthProvider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if p.Err != nil {
		return domainauth.Identity{}, p.Err
	}
	return p.Identity, nil
}
