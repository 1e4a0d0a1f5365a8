package session

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

const (
	sessionTTL       = 24 * time.Hour
	renewalThreshold = 2 * time.Hour
)

// State is a snapshot of the session. Loading is true until the initial
// restore check has resolved; nothing should render before that.
type State struct {
	User            *api.User
	IsAuthenticated bool
	Loading         bool
}

// Manager owns the authenticated-user value and its persisted copy. It is the
// only writer of the two storage keys; everything else reads State.
type Manager struct {
	client *api.Client
	store  *Store
	log    zerolog.Logger
	now    func() time.Time

	mu      sync.Mutex
	user    *api.User
	authed  bool
	loading bool
	lastErr string
}

func NewManager(client *api.Client, store *Store, log zerolog.Logger) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
		loading: true,
	}
}

// Restore replays a persisted session, if any. An expired or malformed entry
// clears storage and leaves the session unauthenticated; a session close to
// its expiry is extended in place, so an active user is never cut off
// mid-window. Always resolves the loading flag.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	rawUser, okUser := m.store.Get(userKey)
	rawExpiry, okExpiry := m.store.Get(expiryKey)
	if !okUser || !okExpiry {
		return
	}

	expiryMs, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		m.log.Warn().Str("expiry", rawExpiry).Msg("malformed session expiry, clearing")
		m.clearLocked()
		return
	}
	if m.now().UnixMilli() >= expiryMs {
		m.clearLocked()
		return
	}

	var user api.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		m.log.Warn().Err(err).Msg("malformed stored user, clearing")
		m.clearLocked()
		return
	}

	m.user = &user
	m.authed = true
	m.renewLocked()
}

// Login authenticates against the backend. On failure it records a
// human-readable message (readable via LoginError) instead of returning an
// error, and leaves the session unauthenticated.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	user, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.mu.Lock()
		m.lastErr = api.ErrorMessage(err, "Invalid email or password")
		m.mu.Unlock()
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.authed = true
	m.lastErr = ""

	expiry := m.now().Add(sessionTTL)
	raw, err := json.Marshal(user)
	if err == nil {
		if err := m.store.Set(userKey, string(raw)); err != nil {
			m.log.Warn().Err(err).Msg("persist user failed")
		}
	}
	if err := m.store.Set(expiryKey, strconv.FormatInt(expiry.UnixMilli(), 10)); err != nil {
		m.log.Warn().Err(err).Msg("persist expiry failed")
	}
	return true
}

// Logout clears the in-memory session and both persisted keys. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) clearLocked() {
	m.user = nil
	m.authed = false
	m.store.Delete(userKey)
	m.store.Delete(expiryKey)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{User: m.user, IsAuthenticated: m.authed, Loading: m.loading}
}

// LoginError returns the message recorded by the last failed Login.
func (m *Manager) LoginError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// renew extends a session that has under two hours left by another full TTL,
// and logs out one that has already lapsed. Renewal is purely local; no
// backend call is made. Restore runs this check on every process start, which
// stands in for the upstream periodic timer in a short-lived process.
func (m *Manager) renew() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renewLocked()
}

func (m *Manager) renewLocked() {
	if !m.authed {
		return
	}

	rawExpiry, ok := m.store.Get(expiryKey)
	if !ok {
		return
	}
	expiryMs, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		return
	}

	remaining := expiryMs - m.now().UnixMilli()
	if remaining <= 0 {
		m.log.Info().Msg("session expired, logging out")
		m.clearLocked()
		return
	}
	if remaining < renewalThreshold.Milliseconds() {
		next := m.now().Add(sessionTTL)
		if err := m.store.Set(expiryKey, strconv.FormatInt(next.UnixMilli(), 10)); err != nil {
			m.log.Warn().Err(err).Msg("extend session failed")
			return
		}
		m.log.Debug().Time("until", next).Msg("session extended")
	}
}
