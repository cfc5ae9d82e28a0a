package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	resolverResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opwire_resolver_resolutions_total",
			Help: "Number of capability providers resolved, by lookup tier.",
		},
		[]string{"tier"},
	)
	resolverFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opwire_resolver_failures_total",
			Help: "Number of failed provider resolutions, by reason.",
		},
		[]string{"reason"},
	)
	resolverFallbackMismatchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opwire_resolver_fallback_qualifier_mismatch_total",
			Help: "Number of metadata fallbacks that returned a factory whose qualifier value differs from the requested one.",
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		resolverResolutionsTotal,
		resolverFailuresTotal,
		resolverFallbackMismatchTotal,
	)
}
