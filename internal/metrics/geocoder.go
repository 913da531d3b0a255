package metrics

import "github.com/prometheus/client_golang/prometheus"

// Geocoder Prometheus metrics.
var (
	EntityQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revgeo",
			Name:      "entity_queries_total",
			Help:      "Total number of entity queries issued against stores",
		},
		[]string{"database"},
	)

	AddressCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revgeo",
			Name:      "address_cache_total",
			Help:      "Address cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "revgeo",
			Name:      "query_cache_total",
			Help:      "Geometry-info query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	FindDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "revgeo",
			Name:      "find_duration_seconds",
			Help:      "FindAddresses duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)

var geocoderMetricsRegistered bool

// RegisterGeocoderMetrics registers Prometheus geocoder metrics. Must be called once from main.
func RegisterGeocoderMetrics() {
	if geocoderMetricsRegistered {
		return
	}
	prometheus.MustRegister(EntityQueriesTotal)
	prometheus.MustRegister(AddressCacheTotal)
	prometheus.MustRegister(QueryCacheTotal)
	prometheus.MustRegister(FindDuration)
	geocoderMetricsRegistered = true
}
