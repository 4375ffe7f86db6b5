package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSessionExpired is returned when the session's access token was
	// rejected and the refresh exchange could not produce a new one. The
	// session is terminally unauthenticated; the caller has to log in again.
	ErrSessionExpired = errors.New("authsdk: session expired, login required")

	// ErrNotAuthenticated is returned when an authenticated call is made on
	// a session that holds no credentials at all.
	ErrNotAuthenticated = errors.New("authsdk: not authenticated")
)

// APIError is a non-2xx response from the auth service. The server speaks a
// single error shape, so one type covers every endpoint.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Message is the human-readable message from the response body
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the server rejected the credentials.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError is a request that never produced an HTTP response: DNS
// failure, connection refused, timeout. It is distinct from APIError because
// the server said nothing about our credentials, so the session must not
// treat it as a rejection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("authsdk: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// parseErrorResponse turns a non-2xx response body into an *APIError.
// Bodies that aren't the expected JSON shape still produce a usable error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var mr MessageResponse
	if err := json.Unmarshal(body, &mr); err == nil && mr.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: mr.Message}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
