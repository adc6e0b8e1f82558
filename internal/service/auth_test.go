package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
	mockauth "github.com/edupulse/edupulse/internal/mocks/auth"
)

type authFixture struct {
	repo     *mockauth.StubProfileRepo
	sessions *mockauth.MemorySessionStore
	events   *mockauth.MemorySessionEvents
	svc      *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		repo:     mockauth.NewStubProfileRepo(),
		sessions: mockauth.NewMemorySessionStore(),
		events:   mockauth.NewMemorySessionEvents(),
	}
	f.svc = NewAuthService(AuthServiceOptions{
		Profiles: f.repo,
		Sessions: f.sessions,
		Events:   f.events,
	})
	return f
}

func (f *authFixture) seedStudent(t *testing.T, aadhaar, password string) profile.Profile {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	require.NoError(t, err)
	p := profile.Profile{
		ID:           "u1",
		Role:         domainauth.RoleStudent,
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: hash,
		Aadhaar:      &aadhaar,
	}
	f.repo.ByUser[p.ID] = p
	return p
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStudent(t, "123412341234", "s3cret")

	sess, err := f.svc.Login(context.Background(), profile.Credentials{
		Role:       "student",
		Identifier: "123412341234",
		Password:   "s3cret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, domainauth.RoleStudent, sess.Role)
	assert.False(t, sess.Expired(time.Now()))

	stored, err := f.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *sess, stored)

	require.Len(t, f.events.Events, 1)
	assert.Equal(t, domainauth.EventSignedIn, f.events.Events[0].Kind)
	assert.Equal(t, sess.ID, f.events.Events[0].SessionID)
}

func TestLoginRoleCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStudent(t, "123412341234", "s3cret")

	sess, err := f.svc.Login(context.Background(), profile.Credentials{
		Role:       "Student",
		Identifier: "123412341234",
		Password:   "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, sess.Role)
}

func TestLoginFailuresCollapse(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *authFixture)
		creds profile.Credentials
	}{
		{
			name:  "unknown identifier",
			setup: func(t *testing.T, f *authFixture) { f.seedStudent(t, "123412341234", "s3cret") },
			creds: profile.Credentials{Role: "student", Identifier: "000000000000", Password: "s3cret"},
		},
		{
			name:  "wrong password",
			setup: func(t *testing.T, f *authFixture) { f.seedStudent(t, "123412341234", "s3cret") },
			creds: profile.Credentials{Role: "student", Identifier: "123412341234", Password: "nope"},
		},
		{
			name:  "role mismatch",
			setup: func(t *testing.T, f *authFixture) { f.seedStudent(t, "123412341234", "s3cret") },
			creds: profile.Credentials{Role: "teacher", Identifier: "123412341234", Password: "s3cret"},
		},
		{
			name:  "role outside enumeration",
			setup: func(t *testing.T, f *authFixture) { f.seedStudent(t, "123412341234", "s3cret") },
			creds: profile.Credentials{Role: "root", Identifier: "123412341234", Password: "s3cret"},
		},
		{
			name:  "missing fields",
			setup: func(t *testing.T, f *authFixture) {},
			creds: profile.Credentials{Role: "student"},
		},
		{
			name: "repository failure",
			setup: func(t *testing.T, f *authFixture) {
				f.repo.Err = errors.New("connection reset")
			},
			creds: profile.Credentials{Role: "student", Identifier: "123412341234", Password: "s3cret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setup(t, f)

			sess, err := f.svc.Login(context.Background(), tt.creds)
			assert.Nil(t, sess)
			// Every failure mode looks identical to the caller.
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Empty(t, f.events.Events, "failed logins publish nothing")
		})
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t)

	p, err := f.svc.Signup(context.Background(), profile.SignupRequest{
		Role:       "teacher",
		Name:       "Ravi",
		Email:      "ravi@example.com",
		Identifier: "APAR-77",
		Password:   "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, domainauth.RoleTeacher, p.Role)
	require.NotNil(t, p.AparID)
	assert.Equal(t, "APAR-77", *p.AparID)
	assert.Nil(t, p.Aadhaar, "identifier lands only in the role's column")

	match, err := argon2id.ComparePasswordAndHash("hunter22", p.PasswordHash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Signup(context.Background(), profile.SignupRequest{
		Role:       "superuser",
		Name:       "Eve",
		Email:      "eve@example.com",
		Identifier: "X-1",
		Password:   "hunter22",
	})
	assert.Error(t, err)
}

func TestGetSessionExpiry(t *testing.T) {
	f := newAuthFixture(t)
	sess := testSession("s1", "u1")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	got, err := f.svc.GetSession(context.Background(), "s1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrSessionExpired)

	// The expired session is cleaned up.
	_, err = f.sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, mockauth.ErrSessionNotFound)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	sess := testSession("s1", "u1")
	sess.ExpiresAt = time.Now().Add(time.Minute)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	got, err := f.svc.Refresh(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.After(sess.ExpiresAt))

	require.Len(t, f.events.Events, 1)
	assert.Equal(t, domainauth.EventTokenRefresh, f.events.Events[0].Kind)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.sessions.Save(context.Background(), testSession("s1", "u1")))

	require.NoError(t, f.svc.Logout(context.Background(), "s1"))

	_, err := f.sessions.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, mockauth.ErrSessionNotFound)

	require.Len(t, f.events.Events, 1)
	assert.Equal(t, domainauth.EventSignedOut, f.events.Events[0].Kind)
	assert.Equal(t, "s1", f.events.Events[0].SessionID)
	assert.Nil(t, f.events.Events[0].Session, "sign-out carries no session payload")
}

func TestLogoutEmptySessionID(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.Logout(context.Background(), ""))
	assert.Empty(t, f.events.Events)
}

func TestCompleteLogin(t *testing.T) {
	provider := &mockauth.StubAuthProvider{
		Identity: domainauth.Identity{
			UserID: "u9",
			Name:   "Meera",
			Email:  "meera@example.com",
			Role:   domainauth.RoleMinistryAdmin,
		},
	}
	f := newAuthFixture(t)
	svc := NewAuthService(AuthServiceOptions{
		Profiles: f.repo,
		Sessions: f.sessions,
		Events:   f.events,
		Provider: provider,
	})

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state-1", Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleMinistryAdmin, sess.Role)
	assert.False(t, sess.Expired(time.Now()))
}

func TestCompleteLoginRejectsUnknownRole(t *testing.T) {
	provider := &mockauth.StubAuthProvider{
		Identity: domainauth.Identity{UserID: "u9", Role: "operator"},
	}
	f := newAuthFixture(t)
	svc := NewAuthService(AuthServiceOptions{
		Profiles: f.repo,
		Sessions: f.sessions,
		Events:   f.events,
		Provider: provider,
	})

	sess, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "code", State: "state-1", Nonce: "nonce-1",
	})
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
