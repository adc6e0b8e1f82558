package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/edupulse/edupulse/config"
	"github.com/edupulse/edupulse/internal/adapters/devauth"
	"github.com/edupulse/edupulse/internal/adapters/oidc"
	"github.com/edupulse/edupulse/internal/ports"
)

// BuildAuthProvider constructs the SSO provider for the configured auth mode.
// Password mode needs no provider and returns nil.
//
//nolint:ireturn // the provider implementation depends on runtime config.
func BuildAuthProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModePassword:
		return nil, nil

	case config.AuthModeOIDC:
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
			RoleClaim:    cfg.OAuth.RoleClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		if logger != nil {
			logger.Info("sso enabled", "mode", cfg.Mode, "role_claim", cfg.OAuth.RoleClaim)
		}
		return prov, nil

	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.DevAuth.UserID,
			Name:            cfg.DevAuth.Name,
			Email:           cfg.DevAuth.Email,
			Role:            cfg.DevAuth.Role,
			SessionDuration: cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		if logger != nil {
			logger.Warn("dev auth enabled; do not use in production",
				"user_id", cfg.DevAuth.UserID, "role", cfg.DevAuth.Role)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}
