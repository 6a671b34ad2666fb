// Package metrics defines Prometheus metrics in a standalone package to
// avoid import cycles between the server and provider packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins_started_total",
		Help: "Login attempts initiated via /auth/login",
	})

	LoginsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins_completed_total",
		Help: "Logins that completed callback handling and received a session token",
	})

	LoginsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_failed_total",
		Help: "Callback failures by reason",
	}, []string{"reason"})

	TokensRefreshed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_refreshed_total",
		Help: "Session tokens re-issued via /auth/refresh",
	})

	TokenRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_rejections_total",
		Help: "Bearer token verification failures by reason",
	}, []string{"reason"})
)

// Register registers the auth metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		LoginsStarted,
		LoginsCompleted,
		LoginsFailed,
		TokensRefreshed,
		TokenRejections,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
