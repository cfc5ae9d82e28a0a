package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var discoveredComponents = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "opwire_discovery_components",
		Help: "Number of operation sources found by the last scan, by discovery origin.",
	},
	[]string{"origin"},
)

func init() {
	metrics.Registry.MustRegister(discoveredComponents)
}
