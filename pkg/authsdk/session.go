package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Session is an authenticated session with transparent access token renewal.
//
// Renewal is reactive: the session makes no guess about expiry and simply
// reacts when the server answers 401. At that point it exchanges its refresh
// token for a new access token and replays the rejected request exactly once.
// A 401 on the replay is returned to the caller untouched; one retry per
// request, never more.
//
// Concurrent requests that hit 401 together are serialized through the
// session mutex and only the first performs the exchange; the rest reuse the
// token it obtained.
type Session struct {
	client *Client
	store  CredentialStore

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// newSession wires a session and persists the initial credentials.
func newSession(client *Client, store CredentialStore, accessToken, refreshToken string) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}

	s := &Session{
		client:       client,
		store:        store,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}

	if err := store.Save(Credentials{AccessToken: accessToken, RefreshToken: refreshToken}); err != nil {
		return nil, fmt.Errorf("authsdk: failed to persist credentials: %w", err)
	}
	return s, nil
}

// Do performs an authenticated request against the auth service. The body,
// if any, is JSON. On a 401 the session refreshes and replays once; see the
// type comment for the full contract.
//
// A returned *TransportError always means the request may or may not have
// reached the server, and never touches the stored credentials.
func (s *Session) Do(
	ctx context.Context,
	method, path string,
	body []byte,
) (*http.Response, error) {
	token := s.AccessToken()
	if token == "" && s.RefreshToken() == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := s.client.do(ctx, method, path, body, token)
	if err != nil {
		// Transport failure: the server said nothing about the token, so
		// renewing on it would be guessing. Surface it and change nothing.
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()

	// The token we sent was rejected. Obtain a fresh one, serialized with
	// every other goroutine that got the same 401.
	fresh, err := s.refreshAfter401(ctx, token)
	if err != nil {
		return nil, err
	}

	// Replay exactly once. Whatever comes back, comes back.
	return s.client.do(ctx, method, path, body, fresh)
}

// refreshAfter401 returns a fresh access token after stale was rejected.
//
// Under the lock, three cases:
//  1. the current token differs from stale: another goroutine already
//     refreshed, reuse its result without a second exchange;
//  2. no refresh token: nothing to exchange, the session is over;
//  3. exchange the refresh token, propagate the new access token.
//
// Any exchange failure, including transport errors, tears the session down:
// an unusable access token plus an unusable (or unreachable) refresh path
// leaves nothing worth keeping.
func (s *Session) refreshAfter401(ctx context.Context, stale string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != stale && s.accessToken != "" {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		s.clearLocked()
		return "", ErrSessionExpired
	}

	fresh, err := s.client.refreshAccessToken(ctx, s.refreshToken)
	if err != nil {
		s.clearLocked()
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	s.accessToken = fresh
	_ = s.store.Save(Credentials{AccessToken: fresh, RefreshToken: s.refreshToken})
	return fresh, nil
}

// clearLocked wipes the credentials. Caller holds s.mu.
func (s *Session) clearLocked() {
	s.accessToken = ""
	s.refreshToken = ""
	_ = s.store.Clear()
}

// Logout revokes the refresh token server-side and clears the session. The
// local state is cleared even when the revoke call fails; the caller decided
// to log out and a dead server should not keep them logged in.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.clearLocked()
	s.mu.Unlock()

	if refreshToken == "" {
		return nil
	}
	return s.client.RevokeToken(ctx, refreshToken)
}

// CheckAuth asks the server who this session belongs to. It exercises the
// full renewal path like any other authenticated call.
func (s *Session) CheckAuth(ctx context.Context) (*UserInfo, error) {
	resp, err := s.Do(ctx, http.MethodGet, "/auth/check-auth", nil)
	if err != nil {
		return nil, err
	}

	var out CheckAuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.User, nil
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// Authenticated reports whether the session still holds credentials.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != "" || s.refreshToken != ""
}
