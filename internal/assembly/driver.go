// Package assembly drives a single discovery and resolution pass over a
// registry and hands the results to a schema Assembler.
package assembly

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/log"

	opwirev1alpha1 "github.com/anvil-platform/opwire/api/v1alpha1"
	"github.com/anvil-platform/opwire/internal/discovery"
	"github.com/anvil-platform/opwire/internal/registry"
	"github.com/anvil-platform/opwire/internal/resolver"
)

// Driver runs one assembly pass per Assemble call. It keeps no state between
// calls and never writes to the registry.
type Driver struct {
	// Resolver defaults to resolver.NewDefault configured from Settings.
	Resolver resolver.Resolver
	Hooks    Hooks
	// Settings may be nil, in which case defaults apply.
	Settings *opwirev1alpha1.AssemblySettings
}

type plannedSource struct {
	entry     discovery.Entry
	providers []ResolvedProvider
}

// Assemble discovers the operation sources of reg, resolves every provider
// they request and registers the singleton sources with asm.
//
// Prototype sources are listed in Report.Excluded. Nothing is registered with
// asm unless every provider of every singleton source resolved; on failure the
// returned error is an *Error naming the source and provider, and the report
// carries the failing condition.
func (d *Driver) Assemble(ctx context.Context, reg registry.Registry, asm Assembler) (report *Report, err error) {
	logger := log.FromContext(ctx).WithName("assembly")
	start := time.Now()
	assemblyTotal.Inc()
	defer func() {
		assemblyDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			assemblyErrorsTotal.Inc()
		}
	}()

	settings := d.settings()
	report = &Report{}

	catalog, err := discovery.Scan(ctx, reg)
	if err != nil {
		report.setCondition(ConditionSourcesDiscovered, metav1.ConditionFalse, ReasonScanFailed, err.Error())
		report.setCondition(ConditionAssembled, metav1.ConditionFalse, ReasonNotRegistered, "Discovery failed")
		return report, fmt.Errorf("%w: %w", ErrAssembly, err)
	}
	report.setCondition(ConditionSourcesDiscovered, metav1.ConditionTrue, ReasonScanned, discoveredMessage(catalog))

	plan, err := d.resolve(ctx, reg, catalog, report)
	if err != nil {
		report.setCondition(ConditionAssembled, metav1.ConditionFalse, ReasonNotRegistered, "No operation sources registered")
		return report, err
	}

	if len(settings.QueryBasePackages) > 0 {
		asm.WithBasePackages(settings.QueryBasePackages...)
	}
	if settings.Relay.Enabled {
		asm.WithRelayCompliantMutations(settings.Relay.MutationWrapper, settings.Relay.MutationWrapperDescription)
	}

	for _, p := range plan {
		providers := make([]any, len(p.providers))
		for i, rp := range p.providers {
			providers[i] = rp.Instance
		}
		asm.WithOperationsFromSingleton(p.entry.Instance, providers...)
		report.Registered = append(report.Registered, Registration{
			Component: p.entry.Name,
			Origin:    p.entry.Origin,
			Providers: p.providers,
		})
	}
	assemblyRegisteredTotal.Add(float64(len(plan)))

	report.Hooks = d.Hooks.apply(asm)

	report.setCondition(ConditionAssembled, metav1.ConditionTrue, ReasonRegistered,
		registeredMessage(len(report.Registered), len(report.Excluded)))
	logger.Info("assembled operation sources",
		"registered", len(report.Registered),
		"excluded", len(report.Excluded),
		"hooks", report.Hooks,
	)
	return report, nil
}

// resolve partitions the catalog and resolves the providers of every
// singleton entry, recording exclusions on report.
func (d *Driver) resolve(ctx context.Context, reg registry.Registry, catalog *discovery.Catalog, report *Report) ([]plannedSource, error) {
	logger := log.FromContext(ctx).WithName("assembly")
	r := d.resolver()

	var plan []plannedSource
	for _, entry := range catalog.Entries() {
		if err := ctx.Err(); err != nil {
			report.setCondition(ConditionProvidersResolved, metav1.ConditionFalse, ReasonCanceled, err.Error())
			return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
		}

		if entry.Scope == discovery.ScopePrototype {
			report.Excluded = append(report.Excluded, Exclusion{
				Component: entry.Name,
				Origin:    entry.Origin,
				Reason:    ReasonPrototypeScope,
			})
			assemblyExcludedTotal.WithLabelValues(ReasonPrototypeScope).Inc()
			logger.Info("skipping prototype-scoped operation source", "component", entry.Name, "origin", entry.Origin)
			continue
		}

		providers := make([]ResolvedProvider, 0, len(entry.Providers))
		for i, spec := range entry.Providers {
			res, err := resolveOne(ctx, r, reg, spec)
			if err != nil {
				assemblyErr := &Error{Component: entry.Name, Origin: entry.Origin, Index: i, Spec: spec, Err: err}
				report.setCondition(ConditionProvidersResolved, metav1.ConditionFalse, ReasonUnresolved, assemblyErr.Error())
				logger.Error(err, "unable to resolve provider", "component", entry.Name, "origin", entry.Origin, "provider", spec.String())
				return nil, assemblyErr
			}
			providers = append(providers, newResolvedProvider(spec, res))
		}
		plan = append(plan, plannedSource{entry: entry, providers: providers})
	}

	report.setCondition(ConditionProvidersResolved, metav1.ConditionTrue, ReasonResolved,
		fmt.Sprintf("%d operation sources resolved", len(plan)))
	return plan, nil
}

func resolveOne(ctx context.Context, r resolver.Resolver, reg registry.Registry, spec resolver.ProviderSpec) (resolver.Resolution, error) {
	if dr, ok := r.(resolver.DetailedResolver); ok {
		return dr.ResolveDetailed(ctx, reg, spec)
	}
	v, err := r.Resolve(ctx, reg, spec)
	if err != nil {
		return resolver.Resolution{}, err
	}
	return resolver.Resolution{Instance: v}, nil
}

func (d *Driver) settings() *opwirev1alpha1.AssemblySettings {
	if d.Settings != nil {
		return d.Settings
	}
	s := &opwirev1alpha1.AssemblySettings{}
	opwirev1alpha1.SetDefaults_AssemblySettings(s)
	return s
}

func (d *Driver) resolver() resolver.Resolver {
	if d.Resolver != nil {
		return d.Resolver
	}
	return resolver.NewDefault(resolver.WithStrictFallback(d.settings().Resolution.StrictQualifierFallback))
}
