package oidc

// Package oidc implements the AuthProvider port against an OIDC identity
// provider. The provider's role claim must map into the closed role
// enumeration; identities carrying anything else are rejected downstream.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
)

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	roleClaim  string
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	// RoleClaim names the ID token claim carrying the user's role.
	RoleClaim  string
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	roleClaim := config.RoleClaim
	if roleClaim == "" {
		roleClaim = "role"
	}

	p := &Provider{
		roleClaim:  roleClaim,
		httpClient: httpClient,
	}

	// Initialize go-oidc provider and verifier (single discovery fetch)
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	// Generate cryptographically secure state and nonce
	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}

	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	// Note: Don't override redirect_uri here as it should match the configured RedirectURL exactly
	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)

	return authURL, state, nonce, nil
}

func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	claims, err := p.parseClaims(idTok)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if claims.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	// Fill missing fields from the userinfo endpoint
	if claims.Email == "" || claims.Name == "" {
		p.fillFromUserInfo(ctx, token.AccessToken, &claims)
	}

	expiresAt := time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      domainauth.ParseRole(claims.Role),
		ExpiresAt: expiresAt,
	}, nil
}

// idClaims is the subset of ID token claims the dashboard cares about. Role is
// decoded separately because its claim name is configurable.
type idClaims struct {
	Subject string
	Name    string
	Email   string
	Role    string
	Nonce   string
}

func (p *Provider) parseClaims(idTok *gooidc.IDToken) (idClaims, error) {
	var std struct {
		Sub               string `json:"sub"`
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
		Nonce             string `json:"nonce"`
	}
	if err := idTok.Claims(&std); err != nil {
		return idClaims{}, fmt.Errorf("parse id_token claims: %w", err)
	}

	var all map[string]json.RawMessage
	if err := idTok.Claims(&all); err != nil {
		return idClaims{}, fmt.Errorf("parse id_token claims: %w", err)
	}
	role := ""
	if raw, ok := all[p.roleClaim]; ok {
		// A decode failure leaves the role empty; the caller fails closed.
		_ = json.Unmarshal(raw, &role)
	}

	name := std.Name
	if name == "" {
		name = std.PreferredUsername
	}
	return idClaims{
		Subject: std.Sub,
		Name:    name,
		Email:   std.Email,
		Role:    role,
		Nonce:   std.Nonce,
	}, nil
}

// fillFromUserInfo fills missing name/email from the userinfo endpoint.
// Failures are ignored: userinfo is a best-effort supplement.
func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, c *idClaims) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return
	}
	var info struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := ui.Claims(&info); err != nil {
		return
	}
	if c.Name == "" {
		c.Name = info.Name
	}
	if c.Email == "" {
		c.Email = info.Email
	}
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least 'length' base64 URL-safe chars
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
