package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "spark_auth", Name: "registrations_total", Help: "Number of registration attempts by outcome."},
		[]string{"outcome"},
	)
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "spark_auth", Name: "logins_total", Help: "Number of login attempts by outcome."},
		[]string{"outcome"},
	)
	RefreshExchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "spark_auth", Name: "refresh_exchanges_total", Help: "Number of refresh token exchanges by outcome."},
		[]string{"outcome"},
	)
	TokensRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "spark_auth", Name: "tokens_rejected_total", Help: "Number of access tokens rejected at verification by reason."},
		[]string{"reason"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(Registrations)
	reg.MustRegister(Logins)
	reg.MustRegister(RefreshExchanges)
	reg.MustRegister(TokensRejected)
}
