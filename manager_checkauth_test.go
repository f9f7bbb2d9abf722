package logiscore

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/logiscore/logiscore-go/storage"
)

func seedStorage(t *testing.T, store *storage.MemoryStore, user *User, tok string) {
	t.Helper()
	ctx := context.Background()
	if err := store.Set(ctx, storage.TokenKey, tok); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			t.Fatalf("encoding user: %v", err)
		}
		if err := store.Set(ctx, storage.UserKey, string(raw)); err != nil {
			t.Fatalf("seeding user: %v", err)
		}
	}
}

func TestCheckAuthHydratesStoredSessionWithoutNetwork(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f)

	user := testUser()
	tok := validToken(t)
	seedStorage(t, store, &user, tok)

	m.CheckAuth(context.Background())

	snap := m.Snapshot()
	if !snap.LoggedIn() || snap.Token != tok || snap.User.ID != user.ID {
		t.Fatalf("hydration did not restore the session: %+v", snap)
	}
	if got := f.count("/api/users/me"); got != 0 {
		t.Fatalf("hydration with a complete mirror made %d identity calls", got)
	}
	if got := f.count("/api/auth/refresh"); got != 0 {
		t.Fatalf("hydration of a fresh token made %d refresh calls", got)
	}
}

func TestCheckAuthStoredExpiredTokenRefreshesExactlyOnce(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f)
	ctx := context.Background()

	user := testUser()
	seedStorage(t, store, &user, expiredToken(t))

	m.CheckAuth(ctx)

	if got := f.count("/api/auth/refresh"); got != 1 {
		t.Fatalf("made %d refresh calls; want exactly 1", got)
	}
	snap := m.Snapshot()
	f.mu.Lock()
	want := f.refreshNext
	f.mu.Unlock()
	if snap.Token != want {
		t.Fatalf("session adopted token %q; want the refreshed one", snap.Token)
	}
	storedTok, err := store.Get(ctx, storage.TokenKey)
	if err != nil || storedTok != want {
		t.Fatalf("durable mirror holds %q (%v); want the refreshed token", storedTok, err)
	}
}

func TestCheckAuthStoredTokenWithoutUserResolvesIdentity(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f)

	seedStorage(t, store, nil, validToken(t))

	m.CheckAuth(context.Background())

	if got := f.count("/api/users/me"); got != 1 {
		t.Fatalf("made %d identity calls; want 1", got)
	}
	snap := m.Snapshot()
	if !snap.LoggedIn() || snap.User.ID != testUser().ID {
		t.Fatalf("identity resolution did not complete the session: %+v", snap)
	}
}

func TestCheckAuthRejectedStoredTokenDiscardsMirror(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f)
	ctx := context.Background()

	f.mu.Lock()
	f.refreshStatus = http.StatusUnauthorized
	f.mu.Unlock()

	user := testUser()
	seedStorage(t, store, &user, expiredToken(t))

	m.CheckAuth(ctx)

	if m.Snapshot().LoggedIn() {
		t.Fatal("a rejected stored token must not produce a session")
	}
	if store.Len() != 0 {
		t.Fatal("a rejected stored token must be purged from storage")
	}
}

func TestCheckAuthOfflineKeepsStoredSessionForLater(t *testing.T) {
	m, store := newOfflineManager(t)
	ctx := context.Background()

	user := testUser()
	tok := expiredToken(t)
	seedStorage(t, store, &user, tok)

	m.CheckAuth(ctx)

	if m.Snapshot().LoggedIn() {
		t.Fatal("an unverifiable stored token must not produce a session")
	}
	// The mirror survives so a retry after connectivity returns can succeed.
	if got, err := store.Get(ctx, storage.TokenKey); err != nil || got != tok {
		t.Fatalf("offline hydration touched storage: %q, %v", got, err)
	}
}

func TestCheckAuthEmptyEverywhereIsQuiet(t *testing.T) {
	f := newFakeBackend(t)
	m, _ := newTestManager(t, f)

	m.CheckAuth(context.Background())

	snap := m.Snapshot()
	if snap.LoggedIn() || snap.Err != "" {
		t.Fatalf("empty startup produced state: %+v", snap)
	}
	if got := f.count("/api/users/me"); got != 0 {
		t.Fatalf("empty startup made %d network calls", got)
	}
}

func TestCheckAuthMemorySessionExpiredTokenRejectedLogsOut(t *testing.T) {
	f := newFakeBackend(t)
	m, store := newTestManager(t, f)
	ctx := context.Background()

	seedSession(m, testUser(), expiredToken(t))

	f.mu.Lock()
	f.refreshStatus = http.StatusUnauthorized
	f.mu.Unlock()

	m.CheckAuth(ctx)

	if m.Snapshot().LoggedIn() {
		t.Fatal("a rejected refresh for a full session must log out")
	}
	if store.Len() != 0 {
		t.Fatal("logout after rejected refresh must clear storage")
	}
}
