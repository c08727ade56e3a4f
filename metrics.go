package docsearch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "searches_total",
		Help:      "Search operations that reached the backend.",
	})

	previewsResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "previews_resolved_total",
		Help:      "Previews whose content resolved through the candidate chain.",
	})

	previewsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "previews_failed_total",
		Help:      "Previews that failed for reasons other than cancellation.",
	})
)
