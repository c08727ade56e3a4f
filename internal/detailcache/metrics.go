package detailcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "detail_cache_hits_total",
		Help:      "Detail lookups served from the cache.",
	})

	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "docsearch",
		Name:      "detail_cache_misses_total",
		Help:      "Detail lookups that required a batch fetch.",
	})
)
