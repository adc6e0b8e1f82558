// Package service contains the orchestration layer: authentication, role
// resolution, documents, and dashboard datasets.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
	"github.com/edupulse/edupulse/internal/ports"
)

var (
	// ErrInvalidCredentials covers every failed login: unknown identifier,
	// wrong password, role mismatch, or a backend failure during lookup.
	// Collapsing them keeps the response from leaking which part failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired is returned when a session exists but is past expiry.
	ErrSessionExpired = errors.New("session expired")
)

const defaultSessionTTL = 8 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Profiles   ports.ProfileRepository
	Sessions   ports.SessionStore
	Events     ports.SessionEvents
	Provider   ports.AuthProvider // optional; only set for SSO auth modes
	SessionTTL time.Duration
	Logger     *slog.Logger
}

// AuthService orchestrates login, session lifecycle, and session-change
// event publication.
type AuthService struct {
	profiles   ports.ProfileRepository
	sessions   ports.SessionStore
	events     ports.SessionEvents
	provider   ports.AuthProvider
	sessionTTL time.Duration
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		profiles:   opts.Profiles,
		sessions:   opts.Sessions,
		events:     opts.Events,
		provider:   opts.Provider,
		sessionTTL: ttl,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// Login authenticates a role-specific identifier and password against the
// profiles store and mints a session. Every failure path returns
// ErrInvalidCredentials; nothing about the failure mode leaks to the caller.
func (s *AuthService) Login(ctx context.Context, creds profile.Credentials) (*domainauth.Session, error) {
	if err := s.validate.Struct(creds); err != nil {
		return nil, ErrInvalidCredentials
	}

	role := domainauth.ParseRole(creds.Role)
	if !role.Valid() {
		return nil, ErrInvalidCredentials
	}

	p, err := s.profiles.FindByIdentifier(ctx, role, creds.Identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(creds.Password, p.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      p.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.publish(ctx, domainauth.Event{
		Kind:      domainauth.EventSignedIn,
		SessionID: sess.ID,
		Session:   &sess,
	})
	return &sess, nil
}

// Signup registers a new profile with a hashed password. The identifier
// lands in the column matching the requested role.
func (s *AuthService) Signup(ctx context.Context, req profile.SignupRequest) (profile.Profile, error) {
	if err := s.validate.Struct(req); err != nil {
		return profile.Profile{}, fmt.Errorf("validate signup: %w", err)
	}

	role := domainauth.ParseRole(req.Role)
	if !role.Valid() {
		return profile.Profile{}, fmt.Errorf("validate signup: unknown role %q", req.Role)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	p := profile.Profile{
		Role:         role,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	identifier := req.Identifier
	switch role {
	case domainauth.RoleStudent:
		p.Aadhaar = &identifier
	case domainauth.RoleTeacher:
		p.AparID = &identifier
	case domainauth.RoleInstitutionAdmin:
		p.AisheCode = &identifier
	case domainauth.RoleMinistryAdmin:
		p.OfficialID = &identifier
	}

	return s.profiles.Create(ctx, p)
}

// GetSession retrieves a session by ID, cleaning up expired ones.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &sess, nil
}

// Refresh extends a live session's expiry and publishes a token-refresh
// event so monitors re-resolve.
func (s *AuthService) Refresh(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.ExpiresAt = time.Now().Add(s.sessionTTL)
	if saveErr := s.sessions.Save(ctx, *sess); saveErr != nil {
		return nil, fmt.Errorf("save refreshed session: %w", saveErr)
	}

	s.publish(ctx, domainauth.Event{
		Kind:      domainauth.EventTokenRefresh,
		SessionID: sess.ID,
		Session:   sess,
	})
	return sess, nil
}

// Logout removes a session and publishes a sign-out event.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.publish(ctx, domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: sessionID,
	})
	return nil
}

// BeginLoginResult contains the result of beginning an SSO login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an SSO flow against the configured provider.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("SSO provider not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin finishes an SSO flow: the provider's identity is accepted
// only when its role maps into the closed enumeration, then a session is
// minted and a sign-in event published.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, errors.New("SSO provider not configured")
	}
	if in.Code == "" || in.State == "" || in.Nonce == "" {
		return nil, errors.New("code, state, and nonce are required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := domainauth.ParseRole(string(identity.Role))
	if !role.Valid() {
		return nil, ErrInvalidCredentials
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: identity.ExpiresAt,
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = time.Now().Add(s.sessionTTL)
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.publish(ctx, domainauth.Event{
		Kind:      domainauth.EventSignedIn,
		SessionID: sess.ID,
		Session:   &sess,
	})
	return &sess, nil
}

// publish broadcasts a session-change event. Publication failures are logged
// and swallowed: losing a notification must never fail the login or logout
// that triggered it.
func (s *AuthService) publish(ctx context.Context, ev domainauth.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "publish session event failed",
			"kind", string(ev.Kind), "session_id", ev.SessionID, "error", err)
	}
}
