package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/ports"
)

const defaultResolveTimeout = 5 * time.Second

// RoleResolverOptions groups dependencies for RoleResolver.
type RoleResolverOptions struct {
	Profiles ports.ProfileRepository
	Cache    ports.RoleCache
	Timeout  time.Duration // bounded wait per lookup; defaults to 5s
	Logger   *slog.Logger
}

// RoleResolver turns a session into an authoritative auth state by consulting
// the profiles store. Every uncertain outcome resolves to anonymous: a failed
// lookup, a missing profile row, or a role outside the closed enumeration
// never grants access.
type RoleResolver struct {
	profiles ports.ProfileRepository
	cache    ports.RoleCache
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRoleResolver constructs a RoleResolver.
func NewRoleResolver(opts RoleResolverOptions) *RoleResolver {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolver{
		profiles: opts.Profiles,
		cache:    opts.Cache,
		timeout:  timeout,
		logger:   logger,
	}
}

// Hint returns the advisory cached role from the last successful resolution.
// It is only good for choosing which UI to render provisionally and is
// superseded the instant Resolve returns.
func (r *RoleResolver) Hint() domainauth.Role {
	if r.cache == nil {
		return domainauth.RoleUnknown
	}
	return r.cache.Read()
}

// Resolve maps a session to an AuthState.
//
// A nil session clears the role cache and resolves anonymous. Otherwise the
// profiles store is consulted with a bounded wait; a lookup failure or an
// empty result resolves anonymous without touching the cache, and a resolved
// role is written back to the cache. The role attached to an authenticated
// state is always the profile row's role, never a locally invented value.
func (r *RoleResolver) Resolve(ctx context.Context, sess *domainauth.Session) domainauth.State {
	if sess == nil {
		if r.cache != nil {
			r.cache.Clear()
		}
		return domainauth.Anonymous()
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	p, err := r.profiles.FindByUser(ctx, sess.UserID)
	if err != nil {
		r.logger.WarnContext(ctx, "role lookup failed, resolving anonymous",
			"user_id", sess.UserID, "error", err)
		return domainauth.Anonymous()
	}

	role := domainauth.ParseRole(string(p.Role))
	if !role.Valid() {
		r.logger.WarnContext(ctx, "profile role outside enumeration, resolving anonymous",
			"user_id", sess.UserID, "role", string(p.Role))
		return domainauth.Anonymous()
	}

	if r.cache != nil {
		r.cache.Write(role)
	}
	return domainauth.Authenticated(role)
}

// AuthMonitorOptions groups dependencies for AuthMonitor.
type AuthMonitorOptions struct {
	SessionID string // the session this monitor follows; may be empty for an anonymous visitor
	Sessions  ports.SessionStore
	Events    ports.SessionEvents
	Resolver  *RoleResolver
	Logger    *slog.Logger
}

// AuthMonitor owns a single AuthState for the lifetime of one auth-state
// stream. It performs the initial session lookup, re-resolves on every
// session-change event for its session, and publishes the results to
// watchers.
//
// Resolutions are tagged with a monotonic sequence number assigned in event
// order; a slow resolution that completes after a newer one was applied is
// discarded, so the published state always reflects the latest triggering
// event rather than the latest completion. Stop cancels in-flight resolutions
// and releases the event subscription; no state is applied after teardown.
type AuthMonitor struct {
	sessionID string
	sessions  ports.SessionStore
	events    ports.SessionEvents
	resolver  *RoleResolver
	logger    *slog.Logger

	mu       sync.Mutex
	nextSeq  uint64
	applied  uint64
	state    domainauth.State
	watchers map[uint64]chan domainauth.State
	watchSeq uint64
	stopped  bool

	cancel      context.CancelFunc
	unsubscribe func()
}

// NewAuthMonitor constructs an AuthMonitor. The initial state is loading,
// carrying the advisory role hint so callers can render provisionally.
func NewAuthMonitor(opts AuthMonitorOptions) *AuthMonitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMonitor{
		sessionID: opts.SessionID,
		sessions:  opts.Sessions,
		events:    opts.Events,
		resolver:  opts.Resolver,
		logger:    logger,
		state:     domainauth.Loading(opts.Resolver.Hint()),
		watchers:  make(map[uint64]chan domainauth.State),
	}
}

// Start subscribes to session events and kicks off the initial resolution.
// The initial lookup claims its sequence number before the subscription is
// live, so an event arriving mid-lookup always wins over the lookup result.
func (m *AuthMonitor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	initialSeq := m.claimSeq()

	if m.events != nil {
		unsubscribe, err := m.events.Subscribe(ctx, func(ev domainauth.Event) {
			m.handleEvent(ctx, ev)
		})
		if err != nil {
			cancel()
			return err
		}
		m.unsubscribe = unsubscribe
	}

	go m.resolveInitial(ctx, initialSeq)
	return nil
}

// Stop tears the monitor down: the event subscription is released, in-flight
// resolutions are cancelled, and watcher channels are closed. Idempotent.
func (m *AuthMonitor) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	for id, ch := range m.watchers {
		close(ch)
		delete(m.watchers, id)
	}
	m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the currently published auth state.
func (m *AuthMonitor) State() domainauth.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Watch registers a watcher that receives every newly published state. The
// channel coalesces: a slow reader observes the latest state rather than
// blocking the monitor. The returned func releases the watcher.
func (m *AuthMonitor) Watch() (<-chan domainauth.State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan domainauth.State, 1)
	if m.stopped {
		close(ch)
		return ch, func() {}
	}
	id := m.watchSeq
	m.watchSeq++
	m.watchers[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.watchers[id]; ok {
			close(c)
			delete(m.watchers, id)
		}
	}
	return ch, cancel
}

func (m *AuthMonitor) claimSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	return m.nextSeq
}

func (m *AuthMonitor) resolveInitial(ctx context.Context, seq uint64) {
	var sess *domainauth.Session
	if m.sessionID != "" && m.sessions != nil {
		if got, err := m.sessions.Get(ctx, m.sessionID); err == nil {
			sess = &got
		}
		// Any lookup failure, including an unreachable backend, is treated
		// as no session: the resolver fails closed from here.
	}
	m.apply(seq, m.resolver.Resolve(ctx, sess))
}

// handleEvent runs on the subscription's delivery goroutine, so sequence
// numbers are claimed in event order even though resolutions run
// concurrently.
func (m *AuthMonitor) handleEvent(ctx context.Context, ev domainauth.Event) {
	if ev.SessionID == "" || ev.SessionID != m.sessionID {
		return
	}

	seq := m.claimSeq()
	sess := ev.Session
	if ev.Kind == domainauth.EventSignedOut {
		sess = nil
	}
	go m.apply(seq, m.resolver.Resolve(ctx, sess))
}

// apply publishes a resolution result unless a newer one already landed or
// the monitor was stopped.
func (m *AuthMonitor) apply(seq uint64, st domainauth.State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if seq <= m.applied {
		return // stale completion from a superseded event
	}
	m.applied = seq
	m.state = st

	for _, ch := range m.watchers {
		select {
		case ch <- st:
		default:
			// Coalesce: replace the undelivered state with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}
