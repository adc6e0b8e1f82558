package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
	}{
		{name: "missing client ID", config: ProviderConfig{
			ClientSecret: "secret", RedirectURL: "http://localhost/cb", DiscoveryURL: "http://idp",
		}},
		{name: "missing client secret", config: ProviderConfig{
			ClientID: "id", RedirectURL: "http://localhost/cb", DiscoveryURL: "http://idp",
		}},
		{name: "missing redirect URL", config: ProviderConfig{
			ClientID: "id", ClientSecret: "secret", DiscoveryURL: "http://idp",
		}},
		{name: "missing discovery URL", config: ProviderConfig{
			ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := generateRandomString(32)
	require.NoError(t, err)
	b, err := generateRandomString(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
