package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search pipeline metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_total",
			Help:      "Total number of searches by mode and outcome",
		},
		[]string{"mode", "status"}, // status: "ok" / "error" / "not_connected" / "invalid"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Store round-trip duration of a search in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "result_cache_total",
			Help:      "Result cache lookups and write failures",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	DateDecodeSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "date_decode_skipped_total",
			Help:      "Date codes that were present but could not be decoded",
		},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the search metrics with the default
// registry. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchTotal, SearchDuration, ResultCacheTotal, DateDecodeSkippedTotal)
	})
}

// ObserveSearch records one search outcome.
func ObserveSearch(mode, status string, elapsed time.Duration) {
	SearchTotal.WithLabelValues(mode, status).Inc()
	if status != StatusNotConnected && status != StatusInvalid {
		SearchDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// Search status label values.
const (
	StatusOK           = "ok"
	StatusError        = "error"
	StatusNotConnected = "not_connected"
	StatusInvalid      = "invalid"
)

// Cache result label values.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
