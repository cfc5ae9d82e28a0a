package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	opwirev1alpha1 "github.com/anvil-platform/opwire/api/v1alpha1"
	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/demo"
	"github.com/anvil-platform/opwire/internal/schema"
)

func main() {
	var passes int
	var sources int
	var strict bool

	flag.IntVar(&passes, "passes", 10, "Number of concurrent assembly passes")
	flag.IntVar(&sources, "sources", 100, "Number of generated operation sources per registry")
	flag.BoolVar(&strict, "strict-qualifier-fallback", false, "Use strict qualifier matching in fallback lookups")

	opts := zap.Options{Development: true}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	logger := ctrl.Log.WithName("load-test")

	if passes < 1 || sources < 0 {
		logger.Error(fmt.Errorf("passes=%d sources=%d", passes, sources), "passes must be positive and sources non-negative")
		os.Exit(1)
	}

	fmt.Printf("Starting load test: %d passes over %d generated sources each\n", passes, sources)

	var wg sync.WaitGroup
	start := time.Now()
	latencies := make(chan time.Duration, passes)

	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			ctx = log.IntoContext(ctx, logger.WithValues("pass", id))

			res, err := runPass(ctx, sources, strict)
			if err != nil {
				fmt.Printf("Pass %d: %v\n", id, err)
				return
			}

			latencies <- res.latency
			fmt.Printf("Pass %d: %d sources registered, %d queries, %d mutations in %v\n",
				id, res.registered, res.queries, res.mutations, res.latency)
		}(i)
	}

	wg.Wait()
	close(latencies)
	totalDuration := time.Since(start)

	var totalLatency, maxLatency time.Duration
	count := 0
	for l := range latencies {
		totalLatency += l
		if l > maxLatency {
			maxLatency = l
		}
		count++
	}

	if count > 0 {
		avgLatency := totalLatency / time.Duration(count)
		fmt.Printf("Load test completed in %v. %d/%d passes succeeded. Avg latency: %v, max: %v\n",
			totalDuration, count, passes, avgLatency, maxLatency)
	} else {
		fmt.Printf("Load test completed in %v. No pass succeeded.\n", totalDuration)
	}
}

type passResult struct {
	registered int
	queries    int
	mutations  int
	latency    time.Duration
}

// runPass builds a load registry, assembles it and generates the schema. The
// latency covers assembly and generation only.
func runPass(ctx context.Context, sources int, strict bool) (*passResult, error) {
	reg, err := demo.NewLoadRegistry(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	start := time.Now()
	gen := schema.NewGenerator()
	driver := &assembly.Driver{Hooks: demo.Hooks()}
	if strict {
		driver.Settings = strictSettings()
	}
	report, err := driver.Assemble(ctx, reg, gen)
	if err != nil {
		return nil, fmt.Errorf("assembly failed: %w", err)
	}
	s, err := gen.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema generation failed: %w", err)
	}
	return &passResult{
		registered: len(report.Registered),
		queries:    len(s.Queries),
		mutations:  len(s.Mutations),
		latency:    time.Since(start),
	}, nil
}

func strictSettings() *opwirev1alpha1.AssemblySettings {
	s := &opwirev1alpha1.AssemblySettings{}
	opwirev1alpha1.SetDefaults_AssemblySettings(s)
	s.Resolution.StrictQualifierFallback = true
	return s
}
