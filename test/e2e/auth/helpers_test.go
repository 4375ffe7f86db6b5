package auth_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zenith-hasan/Spark/internal/auth/app"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "e2e-secret-e2e-secret-e2e-secret"
	testIssuer = "spark-auth-e2e"
)

// setupAuthServer boots the fully wired application against an in-memory
// database and serves it over a loopback listener. No containers, no
// external processes; the whole stack still runs exactly as in production.
func setupAuthServer(t *testing.T, accessTTL time.Duration) string {
	t.Helper()

	application, err := app.New(app.Config{
		Issuer:               testIssuer,
		JWTSecret:            testSecret,
		AccessTTL:            accessTTL,
		RefreshTTL:           time.Hour,
		DatabaseFile:         ":memory:",
		Env:                  "dev",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return srv.URL
}
