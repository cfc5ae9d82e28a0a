package assembly

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	assemblyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opwire_assembly_total",
			Help: "Number of assembly passes.",
		},
	)
	assemblyErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opwire_assembly_errors_total",
			Help: "Number of assembly passes that failed.",
		},
	)
	assemblyExcludedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opwire_assembly_excluded_total",
			Help: "Number of discovered operation sources left out of the schema, by reason.",
		},
		[]string{"reason"},
	)
	assemblyRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "opwire_assembly_registered_total",
			Help: "Number of operation sources handed to the assembler.",
		},
	)

	assemblyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "opwire_assembly_duration_seconds",
			Help:    "Time taken to discover, resolve and register operation sources.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		assemblyTotal,
		assemblyErrorsTotal,
		assemblyExcludedTotal,
		assemblyRegisteredTotal,
		assemblyDuration,
	)
}
