package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
	"github.com/edupulse/edupulse/internal/testutil"
)

func testSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "user-1",
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := testSession("sess-1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStoreGetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStoreRejectsExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	sess := testSession("sess-expired")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Error(t, store.Save(context.Background(), sess))
}

func TestSessionStoreDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("sess-del")))
	require.NoError(t, store.Delete(ctx, "sess-del"))

	_, err := store.Get(ctx, "sess-del")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	// Deleting an absent session is not an error.
	assert.NoError(t, store.Delete(ctx, "sess-del"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStorePrefixIsolation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	a := NewSessionStoreWithPrefix(client, "a:")
	b := NewSessionStoreWithPrefix(client, "b:")
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, testSession("sess-iso")))

	_, err := b.Get(ctx, "sess-iso")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}
