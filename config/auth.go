package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword authenticates against the profiles store with a
	// role-specific identifier and password.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC adds an OIDC single-sign-on flow alongside password login.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration (used when Mode=oidc).
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"edupulse"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"edupulse"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/sso/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// RoleClaim names the ID token claim carrying the user's role. The claim
	// value must map into the closed role enumeration or login fails.
	RoleClaim string `env:"ROLE_CLAIM" envDefault:"role"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Email  string `env:"EMAIL"   envDefault:"dev@example.com"`
	Role   string `env:"ROLE"    envDefault:"student"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// SessionTTL is how long a minted session lives without a refresh.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// ResolveTimeout bounds a single role lookup during route guarding.
	ResolveTimeout time.Duration `env:"ROLE_RESOLVE_TIMEOUT" envDefault:"5s"`

	// OAuth configuration (used when Mode=oidc).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.ResolveTimeout <= 0 {
		a.ResolveTimeout = 5 * time.Second
	}
}
