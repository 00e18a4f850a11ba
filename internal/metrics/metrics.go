package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch results
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

var (
	// Fetch requests by outcome
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interface_fetch_requests_total",
			Help: "Total number of interface fetch requests",
		},
		[]string{"result"},
	)

	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interface_fetch_errors_total",
			Help: "Total number of failed interface fetches by error kind",
		},
		[]string{"kind"},
	)

	// Fetches served by another in-flight computation for the same key
	FetchShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interface_fetch_shared_total",
			Help: "Total number of fetches that joined an in-flight computation",
		},
	)

	RejectedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interface_rejected_records_total",
			Help: "Total number of function structures rejected during normalization",
		},
	)

	// Per-tier store hits and errors
	StoreHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_hits_total",
			Help: "Total number of store hits by level",
		},
		[]string{"level"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of store errors by level and kind",
		},
		[]string{"level", "kind"},
	)

	DecompileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "decompile_duration_seconds",
			Help:    "Duration of decompiler invocations",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)

	// L1 capacity metrics only (L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of keys held by a cache level",
		},
		[]string{"level"},
	)
)

// RecordFetch records a fetch outcome (hit, miss or error)
func RecordFetch(result string) {
	FetchRequests.WithLabelValues(result).Inc()
}

// RecordFetchError records a failed fetch by error kind
func RecordFetchError(kind string) {
	FetchErrors.WithLabelValues(kind).Inc()
}

// RecordSharedFetch records a fetch that reused an in-flight computation
func RecordSharedFetch() {
	FetchShared.Inc()
}

// RecordRejectedRecords adds n rejected structures
func RecordRejectedRecords(n int) {
	if n > 0 {
		RejectedRecords.Add(float64(n))
	}
}

// RecordStoreHit records a hit on a store level
func RecordStoreHit(level string) {
	StoreHits.WithLabelValues(level).Inc()
}

// RecordStoreError records a store error with level and kind
func RecordStoreError(level, kind string) {
	StoreErrors.WithLabelValues(level, kind).Inc()
}

// TimeDecompile returns a function that observes the elapsed decompile time
// under the given outcome label
func TimeDecompile() func(outcome string) {
	start := prometheus.NewTimer(nil)
	return func(outcome string) {
		DecompileDuration.WithLabelValues(outcome).Observe(start.ObserveDuration().Seconds())
	}
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
}

// UpdateCacheKeys updates the number of keys held by a level
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}
