package http

import (
	"net/http"
	"strings"

	"github.com/Zenith-hasan/Spark/internal/auth/metrics"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
)

// observeTokenRejections counts 401s emitted by the authn middleware it
// wraps. The reason comes from the WWW-Authenticate description so expired
// tokens (normal churn) can be told apart from genuinely bad ones.
func observeTokenRejections() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusUnauthorized {
				return
			}
			reason := "invalid"
			if strings.Contains(rec.Header().Get("WWW-Authenticate"), "expired") {
				reason = "expired"
			}
			metrics.TokensRejected.WithLabelValues(reason).Inc()
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
