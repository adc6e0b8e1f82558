package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
)

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{
		UserID: "dev-user",
		Name:   "Dev User",
		Email:  "dev@example.com",
		Role:   "Teacher",
	})
	require.NoError(t, err)

	identity, err := p.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", identity.UserID)
	assert.Equal(t, domainauth.RoleTeacher, identity.Role, "role is normalized")
}

func TestNewProviderRejectsUnknownRole(t *testing.T) {
	_, err := NewProvider(Config{
		UserID: "dev-user",
		Email:  "dev@example.com",
		Role:   "superuser",
	})
	assert.Error(t, err)
}

func TestBeginGeneratesFreshStateAndNonce(t *testing.T) {
	p, err := NewProvider(Config{
		UserID: "dev-user",
		Email:  "dev@example.com",
		Role:   "student",
	})
	require.NoError(t, err)

	url1, state1, nonce1, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	_, state2, nonce2, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)

	assert.Contains(t, url1, "/auth/sso/callback?code=dev&state="+state1)
	assert.NotEqual(t, state1, state2)
	assert.NotEqual(t, nonce1, nonce2)
}
