package authsdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeAuthServer simulates the auth service's token semantics: it accepts a
// configurable set of access tokens and exchanges a known refresh token for
// a fresh one.
type fakeAuthServer struct {
	mu            sync.Mutex
	validAccess   map[string]bool
	denyAccess    map[string]bool // rejected even after a refresh marks them valid
	refreshToken  string
	nextAccess    []string // tokens handed out by successive refreshes
	refreshCalls  int32
	resourceCalls int32
}

func (f *fakeAuthServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.refreshCalls, 1)

		var req RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		defer f.mu.Unlock()

		if req.RefreshToken != f.refreshToken || len(f.nextAccess) == 0 {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(MessageResponse{Message: "Invalid refresh token"})
			return
		}

		fresh := f.nextAccess[0]
		f.nextAccess = f.nextAccess[1:]
		f.validAccess[fresh] = true
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: fresh})
	})

	mux.HandleFunc("GET /auth/check-auth", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.resourceCalls, 1)

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		f.mu.Lock()
		ok := f.validAccess[token] && !f.denyAccess[token]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(MessageResponse{Message: "token expired"})
			return
		}
		_ = json.NewEncoder(w).Encode(CheckAuthResponse{
			Authenticated: true,
			User:          &UserInfo{ID: "u1", Username: "alice"},
		})
	})

	return mux
}

func newFakeServer(t *testing.T, f *fakeAuthServer) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func sessionWith(t *testing.T, c *Client, access, refresh string) *Session {
	t.Helper()
	s, err := newSession(c, NewMemoryStore(), access, refresh)
	require.NoError(t, err)
	return s
}

func TestSessionRenewsOn401(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		refreshToken: "refresh-1",
		nextAccess:   []string{"access-2"},
	}
	client := newFakeServer(t, f)
	session := sessionWith(t, client, "access-1-expired", "refresh-1")

	user, err := session.CheckAuth(context.Background())
	require.NoError(t, err, "renewal should be invisible to the caller")
	require.Equal(t, "alice", user.Username)

	require.Equal(t, int32(1), atomic.LoadInt32(&f.refreshCalls))
	require.Equal(t, int32(2), atomic.LoadInt32(&f.resourceCalls), "original attempt plus one replay")
	require.Equal(t, "access-2", session.AccessToken())
	require.Equal(t, "refresh-1", session.RefreshToken(), "refresh token is not rotated")
}

func TestSessionValidTokenNoRefresh(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{"access-good": true},
		refreshToken: "refresh-1",
	}
	client := newFakeServer(t, f)
	session := sessionWith(t, client, "access-good", "refresh-1")

	_, err := session.CheckAuth(context.Background())
	require.NoError(t, err)
	require.Zero(t, atomic.LoadInt32(&f.refreshCalls))
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		refreshToken: "refresh-1",
		nextAccess:   []string{"access-2", "access-3", "access-4"},
	}
	client := newFakeServer(t, f)
	session := sessionWith(t, client, "access-1-expired", "refresh-1")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = session.CheckAuth(context.Background())
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&f.refreshCalls),
		"the losers of the 401 race must reuse the winner's token")
	require.Equal(t, "access-2", session.AccessToken())
}

func TestRefreshFailureExpiresSession(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		refreshToken: "refresh-valid",
		// Session holds a different refresh token, so the exchange 401s.
	}
	client := newFakeServer(t, f)
	store := NewMemoryStore()
	session, err := newSession(client, store, "access-expired", "refresh-revoked")
	require.NoError(t, err)

	_, err = session.CheckAuth(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	require.False(t, session.Authenticated())
	creds, _ := store.Load()
	require.Empty(t, creds.AccessToken, "persisted credentials must be cleared")
	require.Empty(t, creds.RefreshToken)

	// The session is terminal: further calls fail locally, no network.
	before := atomic.LoadInt32(&f.resourceCalls)
	_, err = session.CheckAuth(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.Equal(t, before, atomic.LoadInt32(&f.resourceCalls))
}

func TestMissing401RefreshTokenExpiresSession(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		refreshToken: "refresh-1",
	}
	client := newFakeServer(t, f)
	session := sessionWith(t, client, "access-expired", "")

	_, err := session.CheckAuth(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Zero(t, atomic.LoadInt32(&f.refreshCalls), "nothing to exchange, no call made")
}

func TestSecond401OnReplayIsTerminal(t *testing.T) {
	// The refresh succeeds but hands out a token the resource side still
	// rejects. The session must not loop: one refresh, one replay, done.
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		denyAccess:   map[string]bool{"access-still-bad": true},
		refreshToken: "refresh-1",
		nextAccess:   []string{"access-still-bad"},
	}
	client := newFakeServer(t, f)
	session := sessionWith(t, client, "access-expired", "refresh-1")

	resp, err := session.Do(context.Background(), http.MethodGet, "/auth/check-auth", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, int32(1), atomic.LoadInt32(&f.refreshCalls))
	require.Equal(t, int32(2), atomic.LoadInt32(&f.resourceCalls))
	require.Equal(t, "access-still-bad", session.AccessToken(), "session keeps the refreshed token")
}

func TestTransportErrorDoesNotTouchSession(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here
	client.HTTPClient.Timeout = 500 * time.Millisecond
	session := sessionWith(t, client, "access-1", "refresh-1")

	_, err := session.CheckAuth(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.NotErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, "access-1", session.AccessToken(), "credentials untouched")
	require.Equal(t, "refresh-1", session.RefreshToken())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)

	t.Run("empty store loads zero credentials", func(t *testing.T) {
		creds, err := store.Load()
		require.NoError(t, err)
		require.Empty(t, creds.AccessToken)
	})

	t.Run("save, load, clear", func(t *testing.T) {
		want := Credentials{AccessToken: "a", RefreshToken: "r"}
		require.NoError(t, store.Save(want))

		got, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, want, got)

		require.NoError(t, store.Clear())
		got, err = store.Load()
		require.NoError(t, err)
		require.Empty(t, got.RefreshToken)

		// Clearing twice is fine.
		require.NoError(t, store.Clear())
	})
}

func TestResumeSession(t *testing.T) {
	f := &fakeAuthServer{
		validAccess:  map[string]bool{},
		refreshToken: "refresh-1",
		nextAccess:   []string{"access-2"},
	}
	client := newFakeServer(t, f)

	store := NewMemoryStore()
	require.NoError(t, store.Save(Credentials{AccessToken: "access-stale", RefreshToken: "refresh-1"}))

	session, err := client.ResumeSession(store)
	require.NoError(t, err)

	// The stale access token triggers the usual renewal on first use.
	user, err := session.CheckAuth(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	t.Run("empty store refuses to resume", func(t *testing.T) {
		_, err := client.ResumeSession(NewMemoryStore())
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})
}
