package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/arabhyaWorks/skvt-mngt-web3/internal/api"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func storedUser(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(api.User{
		ID:    "2",
		Name:  "Security Department Admin",
		Email: "security@skvt.org",
		Role:  api.RoleDepartmentAdmin,

		DepartmentID: "1",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	return string(raw)
}

func TestRestoreValidSession(t *testing.T) {
	store := testStore(t)
	expiry := time.Now().Add(12 * time.Hour).UnixMilli()
	mustSet(t, store, userKey, storedUser(t))
	mustSet(t, store, expiryKey, strconv.FormatInt(expiry, 10))

	m := NewManager(nil, store, zerolog.Nop())
	if !m.State().Loading {
		t.Fatalf("expected loading before restore")
	}
	m.Restore()

	state := m.State()
	if state.Loading {
		t.Fatalf("expected loading resolved after restore")
	}
	if !state.IsAuthenticated || state.User == nil {
		t.Fatalf("expected restored session, got %+v", state)
	}
	if state.User.Role != api.RoleDepartmentAdmin {
		t.Fatalf("expected department_admin, got %s", state.User.Role)
	}
}

func TestRestoreExpiredSessionClearsStorage(t *testing.T) {
	store := testStore(t)
	mustSet(t, store, userKey, storedUser(t))
	mustSet(t, store, expiryKey, strconv.FormatInt(time.Now().UnixMilli()-1, 10))

	m := NewManager(nil, store, zerolog.Nop())
	m.Restore()

	state := m.State()
	if state.IsAuthenticated || state.User != nil {
		t.Fatalf("expected unauthenticated state, got %+v", state)
	}
	if _, ok := store.Get(userKey); ok {
		t.Fatalf("expected user key removed")
	}
	if _, ok := store.Get(expiryKey); ok {
		t.Fatalf("expected expiry key removed")
	}
}

func TestRestoreMalformedExpiryClearsStorage(t *testing.T) {
	store := testStore(t)
	mustSet(t, store, userKey, storedUser(t))
	mustSet(t, store, expiryKey, "not-a-timestamp")

	m := NewManager(nil, store, zerolog.Nop())
	m.Restore()

	if m.State().IsAuthenticated {
		t.Fatalf("expected unauthenticated state")
	}
	if _, ok := store.Get(userKey); ok {
		t.Fatalf("expected storage cleared")
	}
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":2,"name":"Security Department Admin","email":"security@skvt.org","phone":"+91-9876543211","role":"DepartmentAdmin","departmentId":1,"isActive":true,"createdAt":"2026-01-01T00:00:00Z"}}`))
	}))
	defer backend.Close()

	store := testStore(t)
	client := api.NewClient(backend.URL, 5*time.Second, zerolog.Nop())
	m := NewManager(client, store, zerolog.Nop())
	m.Restore()

	if !m.Login(context.Background(), "security@skvt.org", "skvt123") {
		t.Fatalf("expected login to succeed: %s", m.LoginError())
	}

	state := m.State()
	if !state.IsAuthenticated {
		t.Fatalf("expected authenticated state")
	}
	if state.User.Role != api.RoleDepartmentAdmin {
		t.Fatalf("expected role mapped to department_admin, got %s", state.User.Role)
	}
	if state.User.DepartmentID != "1" {
		t.Fatalf("expected departmentId 1, got %q", state.User.DepartmentID)
	}

	rawExpiry, ok := store.Get(expiryKey)
	if !ok {
		t.Fatalf("expected expiry persisted")
	}
	expiryMs, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil {
		t.Fatalf("parse expiry: %v", err)
	}
	remaining := time.Until(time.UnixMilli(expiryMs))
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Fatalf("expected ~24h expiry, got %s", remaining)
	}
	if _, ok := store.Get(userKey); !ok {
		t.Fatalf("expected user persisted")
	}
}

func TestLoginBackendErrorVerbatim(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Account is disabled"}`))
	}))
	defer backend.Close()

	client := api.NewClient(backend.URL, 5*time.Second, zerolog.Nop())
	m := NewManager(client, testStore(t), zerolog.Nop())

	if m.Login(context.Background(), "x@skvt.org", "nope") {
		t.Fatalf("expected login to fail")
	}
	if m.LoginError() != "Account is disabled" {
		t.Fatalf("expected backend message verbatim, got %q", m.LoginError())
	}
	if m.State().IsAuthenticated {
		t.Fatalf("expected unauthenticated state after failure")
	}
}

func TestLoginNetworkError(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", 500*time.Millisecond, zerolog.Nop())
	m := NewManager(client, testStore(t), zerolog.Nop())

	if m.Login(context.Background(), "x@skvt.org", "nope") {
		t.Fatalf("expected login to fail")
	}
	if m.LoginError() != "Network error occurred. Please try again." {
		t.Fatalf("expected generic network message, got %q", m.LoginError())
	}
}

func TestRestoreExtendsSessionNearExpiry(t *testing.T) {
	store := testStore(t)
	base := time.Now()

	// 90 minutes left: a returning user inside the two hour window stays
	// logged in and gets a fresh 24h window.
	mustSet(t, store, userKey, storedUser(t))
	mustSet(t, store, expiryKey, strconv.FormatInt(base.Add(90*time.Minute).UnixMilli(), 10))

	m := NewManager(nil, store, zerolog.Nop())
	m.now = func() time.Time { return base }
	m.Restore()

	if !m.State().IsAuthenticated {
		t.Fatalf("expected session restored")
	}
	rawExpiry, _ := store.Get(expiryKey)
	expiryMs, _ := strconv.ParseInt(rawExpiry, 10, 64)
	if expiryMs != base.Add(sessionTTL).UnixMilli() {
		t.Fatalf("expected expiry extended to now+24h on restore, got %d", expiryMs)
	}
}

func TestRenewExtendsWhenUnderThreshold(t *testing.T) {
	store := testStore(t)
	m := NewManager(nil, store, zerolog.Nop())

	base := time.Now()
	m.now = func() time.Time { return base }
	m.user = &api.User{ID: "2"}
	m.authed = true

	// 90 minutes left: inside the two hour window.
	mustSet(t, store, expiryKey, strconv.FormatInt(base.Add(90*time.Minute).UnixMilli(), 10))
	m.renew()

	rawExpiry, _ := store.Get(expiryKey)
	expiryMs, _ := strconv.ParseInt(rawExpiry, 10, 64)
	if expiryMs != base.Add(sessionTTL).UnixMilli() {
		t.Fatalf("expected expiry extended to now+24h, got %d", expiryMs)
	}
	if !m.State().IsAuthenticated {
		t.Fatalf("expected session still authenticated")
	}
}

func TestRenewLeavesDistantExpiryAlone(t *testing.T) {
	store := testStore(t)
	m := NewManager(nil, store, zerolog.Nop())

	base := time.Now()
	m.now = func() time.Time { return base }
	m.user = &api.User{ID: "2"}
	m.authed = true

	want := strconv.FormatInt(base.Add(10*time.Hour).UnixMilli(), 10)
	mustSet(t, store, expiryKey, want)
	m.renew()

	if got, _ := store.Get(expiryKey); got != want {
		t.Fatalf("expected expiry untouched, got %s want %s", got, want)
	}
}

func TestRenewLogsOutWhenExpired(t *testing.T) {
	store := testStore(t)
	m := NewManager(nil, store, zerolog.Nop())

	base := time.Now()
	m.now = func() time.Time { return base }
	m.user = &api.User{ID: "2"}
	m.authed = true

	mustSet(t, store, userKey, storedUser(t))
	mustSet(t, store, expiryKey, strconv.FormatInt(base.Add(-time.Minute).UnixMilli(), 10))
	m.renew()

	if m.State().IsAuthenticated {
		t.Fatalf("expected automatic logout")
	}
	if _, ok := store.Get(userKey); ok {
		t.Fatalf("expected storage cleared on expiry")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	store := testStore(t)
	m := NewManager(nil, store, zerolog.Nop())
	m.user = &api.User{ID: "2"}
	m.authed = true

	m.Logout()
	m.Logout()

	if m.State().IsAuthenticated {
		t.Fatalf("expected logged out state")
	}
}

func mustSet(t *testing.T, store *Store, key, value string) {
	t.Helper()
	if err := store.Set(key, value); err != nil {
		t.Fatalf("set %s: %v", key, err)
	}
}
