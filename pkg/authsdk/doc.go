/*
Package authsdk provides a client SDK for the Spark authentication service.

# Overview

The package is organized around two main types:

  - Client: unauthenticated operations (register, login) and session creation
  - Session: authenticated operations with transparent access token renewal

Create a Client to reach public endpoints and log in:

	client := authsdk.NewClient("https://auth.example.com")

	// Create an account
	resp, err := client.Register(ctx, "alice", "alice@example.com", "correct-horse")

	// Authenticate to create a session, persisting credentials to disk
	store := authsdk.NewFileStore(".spark-credentials")
	session, err := client.Login(ctx, "alice@example.com", "correct-horse", store)

Use the Session for authenticated calls. When the server rejects the access
token with a 401, the session exchanges its refresh token for a new access
token and replays the rejected request once, invisibly to the caller:

	user, err := session.CheckAuth(ctx)

	resp, err := session.Do(ctx, http.MethodGet, "/auth/check-auth", nil)

# Renewal Contract

Renewal is reactive and bounded:

  - Only a 401 response triggers renewal. Transport failures (timeouts, DNS,
    connection refused) are returned as *TransportError and never touch the
    stored credentials.
  - Each request is replayed at most once. A 401 on the replay is returned
    to the caller as-is.
  - Concurrent 401s share a single refresh exchange; the losers of the race
    reuse the winner's token.
  - If the refresh exchange itself fails for any reason, the session clears
    its credentials and every queued caller receives ErrSessionExpired. The
    only way forward is a fresh Login.

# Resuming Sessions

Credentials saved through a CredentialStore survive restarts:

	session, err := client.ResumeSession(store)
	if errors.Is(err, authsdk.ErrNotAuthenticated) {
		// nothing stored, log in
	}

The resumed access token may be long expired; the first authenticated call
notices and refreshes as usual.
*/
package authsdk
