package multiaccount

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	accountsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quorum",
		Subsystem: "multiaccount",
		Name:      "registered_total",
		Help:      "Number of account registrations, including overwrites.",
	})
	callsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quorum",
		Subsystem: "multiaccount",
		Name:      "approvals_total",
		Help:      "Number of accepted call approvals.",
	})
	callsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quorum",
		Subsystem: "multiaccount",
		Name:      "executions_total",
		Help:      "Number of calls that reached the quorum, by dispatch outcome.",
	}, []string{"outcome"})
)
