package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupulse/edupulse/internal/adapters/rolecache"
	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
	mockauth "github.com/edupulse/edupulse/internal/mocks/auth"
)

func testProfile(id string, role domainauth.Role) profile.Profile {
	return profile.Profile{ID: id, Role: role, Name: "Asha", Email: "asha@example.com"}
}

func testSession(id, userID string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    userID,
		Name:      "Asha",
		Email:     "asha@example.com",
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestRoleResolverResolveSuccess(t *testing.T) {
	repo := mockauth.NewStubProfileRepo()
	repo.ByUser["u1"] = testProfile("u1", domainauth.RoleTeacher)
	cache := &rolecache.Slot{}

	r := NewRoleResolver(RoleResolverOptions{Profiles: repo, Cache: cache})

	sess := testSession("s1", "u1")
	got := r.Resolve(context.Background(), &sess)

	assert.Equal(t, domainauth.Authenticated(domainauth.RoleTeacher), got)
	assert.Equal(t, domainauth.RoleTeacher, cache.Read(), "resolved role should land in the hint cache")
}

func TestRoleResolverResolveNilSessionClearsCache(t *testing.T) {
	repo := mockauth.NewStubProfileRepo()
	cache := &rolecache.Slot{}
	cache.Write(domainauth.RoleStudent)

	r := NewRoleResolver(RoleResolverOptions{Profiles: repo, Cache: cache})

	got := r.Resolve(context.Background(), nil)

	assert.Equal(t, domainauth.Anonymous(), got)
	assert.Equal(t, domainauth.RoleUnknown, cache.Read())
	assert.Zero(t, repo.Lookups, "no lookup without a session")
}

func TestRoleResolverFailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(repo *mockauth.StubProfileRepo)
	}{
		{
			name: "lookup error",
			setup: func(repo *mockauth.StubProfileRepo) {
				repo.Err = errors.New("connection refused")
			},
		},
		{
			name:  "missing profile",
			setup: func(repo *mockauth.StubProfileRepo) {},
		},
		{
			name: "role outside enumeration",
			setup: func(repo *mockauth.StubProfileRepo) {
				repo.ByUser["u1"] = testProfile("u1", "superuser")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mockauth.NewStubProfileRepo()
			tt.setup(repo)
			cache := &rolecache.Slot{}
			cache.Write(domainauth.RoleStudent)

			r := NewRoleResolver(RoleResolverOptions{Profiles: repo, Cache: cache})

			sess := testSession("s1", "u1")
			got := r.Resolve(context.Background(), &sess)

			assert.Equal(t, domainauth.Anonymous(), got)
			// Failed resolutions must not rewrite the hint.
			assert.Equal(t, domainauth.RoleStudent, cache.Read())
		})
	}
}

func TestRoleResolverTimeout(t *testing.T) {
	repo := mockauth.NewStubProfileRepo()
	repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	repo.Delay = 200 * time.Millisecond

	r := NewRoleResolver(RoleResolverOptions{
		Profiles: repo,
		Cache:    &rolecache.Slot{},
		Timeout:  10 * time.Millisecond,
	})

	sess := testSession("s1", "u1")
	got := r.Resolve(context.Background(), &sess)

	assert.Equal(t, domainauth.Anonymous(), got, "a lookup past the deadline resolves anonymous")
}

func TestRoleResolverResolveIdempotent(t *testing.T) {
	repo := mockauth.NewStubProfileRepo()
	repo.ByUser["u1"] = testProfile("u1", domainauth.RoleMinistryAdmin)
	cache := &rolecache.Slot{}

	r := NewRoleResolver(RoleResolverOptions{Profiles: repo, Cache: cache})

	sess := testSession("s1", "u1")
	first := r.Resolve(context.Background(), &sess)
	second := r.Resolve(context.Background(), &sess)

	assert.Equal(t, first, second)
	assert.Equal(t, domainauth.RoleMinistryAdmin, cache.Read())
}

type monitorFixture struct {
	sessions *mockauth.MemorySessionStore
	events   *mockauth.MemorySessionEvents
	repo     *mockauth.StubProfileRepo
	cache    *rolecache.Slot
	monitor  *AuthMonitor
}

func newMonitorFixture(t *testing.T, sessionID string) *monitorFixture {
	t.Helper()

	f := &monitorFixture{
		sessions: mockauth.NewMemorySessionStore(),
		events:   mockauth.NewMemorySessionEvents(),
		repo:     mockauth.NewStubProfileRepo(),
		cache:    &rolecache.Slot{},
	}
	f.monitor = NewAuthMonitor(AuthMonitorOptions{
		SessionID: sessionID,
		Sessions:  f.sessions,
		Events:    f.events,
		Resolver: NewRoleResolver(RoleResolverOptions{
			Profiles: f.repo,
			Cache:    f.cache,
		}),
	})
	t.Cleanup(f.monitor.Stop)
	return f
}

func waitForState(t *testing.T, m *AuthMonitor, want domainauth.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return m.State() == want
	}, 2*time.Second, 5*time.Millisecond, "monitor never published %+v", want)
}

func TestAuthMonitorInitialResolution(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), testSession("s1", "u1")))

	assert.Equal(t, domainauth.Loading(domainauth.RoleUnknown), f.monitor.State())

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleStudent))
}

func TestAuthMonitorInitialStateCarriesHint(t *testing.T) {
	f := newMonitorFixture(t, "")
	f.cache.Write(domainauth.RoleTeacher)

	m := NewAuthMonitor(AuthMonitorOptions{
		Events: f.events,
		Resolver: NewRoleResolver(RoleResolverOptions{
			Profiles: f.repo,
			Cache:    f.cache,
		}),
	})
	defer m.Stop()

	st := m.State()
	assert.Equal(t, domainauth.StatusLoading, st.Status)
	assert.Equal(t, domainauth.RoleTeacher, st.Role)
	assert.False(t, st.Allows(domainauth.RoleTeacher), "a hint never grants access")
}

func TestAuthMonitorNoSessionResolvesAnonymous(t *testing.T) {
	f := newMonitorFixture(t, "")

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Anonymous())
}

func TestAuthMonitorUnreachableSessionStore(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	f.sessions.GetErr = errors.New("backend unreachable")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Anonymous())
	assert.Zero(t, f.repo.Lookups)
}

func TestAuthMonitorReResolvesOnEvent(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Anonymous())

	// The user signs in after the monitor is already watching.
	sess := testSession("s1", "u1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleInstitutionAdmin)
	require.NoError(t, f.sessions.Save(context.Background(), sess))
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedIn,
		SessionID: "s1",
		Session:   &sess,
	}))

	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleInstitutionAdmin))
}

func TestAuthMonitorIgnoresOtherSessions(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), testSession("s1", "u1")))

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleStudent))

	other := testSession("s2", "u2")
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: other.ID,
	}))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, domainauth.Authenticated(domainauth.RoleStudent), f.monitor.State())
}

// TestAuthMonitorLastEventWins pins the ordering contract: when an older
// resolution completes after a newer one, its result is discarded. A slow
// refresh lookup racing a sign-out must end anonymous.
func TestAuthMonitorLastEventWins(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	sess := testSession("s1", "u1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleStudent))

	// The refresh lookup stalls while the sign-out resolves instantly.
	f.repo.Delay = 150 * time.Millisecond
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventTokenRefresh,
		SessionID: "s1",
		Session:   &sess,
	}))
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: "s1",
	}))

	waitForState(t, f.monitor, domainauth.Anonymous())

	// Give the stalled refresh time to complete; its result must not land.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, domainauth.Anonymous(), f.monitor.State())
}

// An event arriving while the initial lookup is still in flight supersedes it,
// even though the lookup started first.
func TestAuthMonitorEventBeatsInitialLookup(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	f.repo.Delay = 150 * time.Millisecond
	require.NoError(t, f.sessions.Save(context.Background(), testSession("s1", "u1")))

	require.NoError(t, f.monitor.Start(context.Background()))
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: "s1",
	}))

	waitForState(t, f.monitor, domainauth.Anonymous())
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, domainauth.Anonymous(), f.monitor.State())
}

func TestAuthMonitorWatch(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleTeacher)
	require.NoError(t, f.sessions.Save(context.Background(), testSession("s1", "u1")))

	ch, cancel := f.monitor.Watch()
	defer cancel()

	require.NoError(t, f.monitor.Start(context.Background()))

	select {
	case st := <-ch:
		assert.Equal(t, domainauth.Authenticated(domainauth.RoleTeacher), st)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never received a state")
	}
}

func TestAuthMonitorWatchCoalesces(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	sess := testSession("s1", "u1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	ch, cancel := f.monitor.Watch()
	defer cancel()

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleStudent))

	// Without draining ch, push a newer state; the reader must observe the
	// newest one, not block the monitor.
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: "s1",
	}))
	waitForState(t, f.monitor, domainauth.Anonymous())

	var last domainauth.State
	for {
		select {
		case st := <-ch:
			last = st
			continue
		default:
		}
		break
	}
	assert.Equal(t, domainauth.Anonymous(), last)
}

func TestAuthMonitorStop(t *testing.T) {
	f := newMonitorFixture(t, "s1")
	sess := testSession("s1", "u1")
	f.repo.ByUser["u1"] = testProfile("u1", domainauth.RoleStudent)
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	require.NoError(t, f.monitor.Start(context.Background()))
	waitForState(t, f.monitor, domainauth.Authenticated(domainauth.RoleStudent))

	ch, _ := f.monitor.Watch()
	f.monitor.Stop()
	f.monitor.Stop() // idempotent

	_, open := <-ch
	assert.False(t, open, "watcher channels close on stop")

	// Events after stop never mutate the published state.
	require.NoError(t, f.events.Publish(context.Background(), domainauth.Event{
		Kind:      domainauth.EventSignedOut,
		SessionID: "s1",
	}))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, domainauth.Authenticated(domainauth.RoleStudent), f.monitor.State())
}
