package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Spark authentication service. It handles the
// unauthenticated endpoints and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new auth service client with a 10 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account. The response carries an access token so
// the caller can act immediately, but no refresh token; a login is needed
// for a long-lived session.
func (c *Client) Register(
	ctx context.Context,
	username, email, password string,
) (*TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/auth/register", RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password and returns a Session bound
// to the issued credential pair. The session persists its credentials to
// store on every change; pass nil to keep them in memory only.
func (c *Client) Login(
	ctx context.Context,
	email, password string,
	store CredentialStore,
) (*Session, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return newSession(c, store, out.AccessToken, out.RefreshToken)
}

// ResumeSession rebuilds a Session from credentials previously saved to
// store, without a network round trip. The access token may already be
// expired; the first authenticated request will notice and refresh.
func (c *Client) ResumeSession(store CredentialStore) (*Session, error) {
	creds, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("authsdk: failed to load credentials: %w", err)
	}
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}
	return newSession(c, store, creds.AccessToken, creds.RefreshToken)
}

// refreshAccessToken exchanges a refresh token for a new access token.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/auth/refresh-token", RefreshRequest{
		RefreshToken: refreshToken,
	}, &out, http.StatusOK)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// RevokeToken tells the server to forget a refresh token. Most callers
// should use Session.Logout, which also clears local state.
func (c *Client) RevokeToken(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return readError(resp)
	}
	return nil
}

// postJSON sends a JSON body and decodes a JSON response, mapping any
// non-expected status into an *APIError.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	in, out any,
	expectedStatus int,
) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("authsdk: failed to encode request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return err
	}

	return decodeJSON(resp, out, expectedStatus)
}

// do performs a single HTTP request. A non-nil error means the request never
// completed (always a *TransportError); HTTP-level failures come back as a
// response for the caller to interpret.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body []byte,
	bearer string,
) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("authsdk: failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}
