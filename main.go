package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/common/expfmt"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
	"sigs.k8s.io/yaml"

	opwirev1alpha1 "github.com/anvil-platform/opwire/api/v1alpha1"
	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/config"
	"github.com/anvil-platform/opwire/internal/demo"
	"github.com/anvil-platform/opwire/internal/graph"
	"github.com/anvil-platform/opwire/internal/schema"
)

var setupLog = ctrl.Log.WithName("setup")

type output struct {
	Settings *opwirev1alpha1.AssemblySettings `json:"settings"`
	Report   *assembly.Report                 `json:"report"`
	Schema   *schema.Schema                   `json:"schema,omitempty"`
	Wiring   *graph.WiringGraph               `json:"wiring"`
}

func main() {
	var configPath string
	var strictFallback bool
	var printMetrics bool
	var format string

	flag.StringVar(&configPath, "config", "", "Path to an AssemblySettings file. Defaults apply when empty.")
	flag.BoolVar(&strictFallback, "strict-qualifier-fallback", false,
		"Skip factory methods whose qualifier value differs from the requested one during fallback lookup.")
	flag.BoolVar(&printMetrics, "print-metrics", false, "Print collected metrics in text exposition format after assembly.")
	flag.StringVar(&format, "output", "yaml", "Output format: yaml or dot.")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	ctx := log.IntoContext(ctrl.SetupSignalHandler(), ctrl.Log.WithName("opwire"))

	settings, err := config.Load(configPath)
	if err != nil {
		setupLog.Error(err, "unable to load settings", "path", configPath)
		os.Exit(1)
	}
	if strictFallback {
		settings.Resolution.StrictQualifierFallback = true
	}

	reg, err := demo.NewRegistry(ctx, settings.QueryBasePackages)
	if err != nil {
		setupLog.Error(err, "unable to build registry")
		os.Exit(1)
	}

	gen := schema.NewGenerator()
	driver := &assembly.Driver{Settings: settings, Hooks: demo.Hooks()}
	report, err := driver.Assemble(ctx, reg, gen)
	if err != nil {
		setupLog.Error(err, "assembly failed")
		os.Exit(1)
	}

	s, err := gen.Generate(ctx)
	if err != nil {
		setupLog.Error(err, "unable to generate schema")
		os.Exit(1)
	}

	wiring := graph.FromReport(report)
	switch format {
	case "dot":
		fmt.Print(wiring.DOT())
	case "yaml":
		out, err := yaml.Marshal(output{Settings: settings, Report: report, Schema: s, Wiring: wiring})
		if err != nil {
			setupLog.Error(err, "unable to render output")
			os.Exit(1)
		}
		fmt.Print(string(out))
	default:
		setupLog.Error(fmt.Errorf("unknown output format %q", format), "invalid flags")
		os.Exit(1)
	}

	if printMetrics {
		if err := writeMetrics(); err != nil {
			setupLog.Error(err, "unable to print metrics")
			os.Exit(1)
		}
	}
}

func writeMetrics() error {
	families, err := metrics.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}
