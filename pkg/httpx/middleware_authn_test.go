package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-test-secret-test-sec")

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	tok, err := signer.Sign(jwtx.NewAccessClaims(
		"01J9ZX4R8NT5V2K3W7QDGBMHE1", "casey", "casey@example.com", "user",
		ttl, "spark-auth", time.Now(),
	))
	require.NoError(t, err)
	return tok
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	verifier, err := jwtx.NewVerifierHS256(secret, "spark-auth")
	require.NoError(t, err)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, claims.Subject, httpx.UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
	return httpx.Chain(inner, httpx.AuthnMiddleware(verifier))
}

func TestAuthnMiddleware(t *testing.T) {
	h := protected(t)

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing header", func(t *testing.T) {
		rec := do("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := do("Basic dXNlcjpwYXNz")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := do("Bearer not.a.jwt")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rec := do("Bearer " + signedToken(t, -time.Minute))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "token expired")
	})

	t.Run("valid token admitted", func(t *testing.T) {
		rec := do("Bearer " + signedToken(t, time.Hour))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}

	h := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		httpx.RateLimitByIP(cfg),
	)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	require.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1111"))

	// A different client has its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2:2222"))
}
