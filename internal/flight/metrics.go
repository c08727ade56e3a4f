package flight

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	startedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "flight_started_total",
		Help:      "Operations started by the in-flight call registry.",
	})

	attachedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "flight_attached_total",
		Help:      "Callers that attached to an existing in-flight call instead of starting a new one.",
	})

	timeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "flight_timeouts_total",
		Help:      "In-flight calls aborted by the per-call timeout.",
	})
)
