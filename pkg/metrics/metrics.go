package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ddmp"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "document_operations_total", Help: "Document operations by operation and outcome kind."},
		[]string{"op", "outcome"},
	)
	ModelCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "model_cache_lookups_total", Help: "Model cache lookups by result (hit or miss)."},
		[]string{"result"},
	)
	ModelCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "model_cache_models", Help: "Number of compiled models held by the cache."},
	)
	CollectionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "collections_created_total", Help: "Number of collections registered."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentOps)
	reg.MustRegister(ModelCacheLookups)
	reg.MustRegister(ModelCacheSize)
	reg.MustRegister(CollectionsCreated)
}
