package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "resolver_probes_total",
		Help:      "Candidate locations probed during content resolution.",
	})

	exhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "resolver_exhausted_total",
		Help:      "Resolutions that exhausted every candidate location.",
	})
)
