package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Total number of registered users",
		},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	PasswordChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "password_changes_total",
			Help: "Total number of successful password changes",
		},
	)

	ConnectionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connection_mutations_total",
			Help: "Total number of connection graph mutations",
		},
		[]string{"operation"},
	)
)
