package logqueue

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "logqueue_submissions_total",
			Help:      "Jobs accepted into the dispatch queue.",
		},
		[]string{"shard"},
	)

	droppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "logqueue_dropped_total",
			Help:      "Jobs rejected because a shard was full.",
		},
		[]string{"shard"},
	)

	failuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsearch",
			Name:      "logqueue_failures_total",
			Help:      "Jobs that exhausted retries or failed irrecoverably.",
		},
		[]string{"shard"},
	)

	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "docsearch",
			Name:      "logqueue_depth",
			Help:      "Jobs waiting per shard.",
		},
		[]string{"shard"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsearch",
			Name:      "logqueue_run_duration_seconds",
			Help:      "Job execution latency per shard.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"shard"},
	)
)

func shardLabel(idx int) string { return strconv.Itoa(idx) }
