package assembly

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/anvil-platform/opwire/internal/discovery"
	"github.com/anvil-platform/opwire/internal/registry"
	"github.com/anvil-platform/opwire/internal/resolver"
)

const (
	ConditionSourcesDiscovered = "SourcesDiscovered"
	ConditionProvidersResolved = "ProvidersResolved"
	ConditionAssembled         = "Assembled"
)

const (
	ReasonScanned        = "Scanned"
	ReasonScanFailed     = "ScanFailed"
	ReasonResolved       = "Resolved"
	ReasonUnresolved     = "Unresolved"
	ReasonRegistered     = "Registered"
	ReasonNotRegistered  = "NotRegistered"
	ReasonCanceled       = "Canceled"
	ReasonPrototypeScope = "PrototypeScope"
)

// Report describes the outcome of one assembly pass.
type Report struct {
	Registered []Registration `json:"registered,omitempty"`
	// Excluded lists discovered sources that were deliberately not registered.
	Excluded   []Exclusion        `json:"excluded,omitempty"`
	Hooks      []string           `json:"hooks,omitempty"`
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// Registration is an operation source handed to the assembler.
type Registration struct {
	Component string             `json:"component"`
	Origin    discovery.Origin   `json:"origin"`
	Providers []ResolvedProvider `json:"providers,omitempty"`
}

// ResolvedProvider is one provider request of a registration and what satisfied it.
type ResolvedProvider struct {
	Type      string `json:"type"`
	Qualifier string `json:"qualifier,omitempty"`
	Kind      string `json:"kind"`
	// Component is the registry name of the provider when the lookup tier reports it.
	Component string        `json:"component,omitempty"`
	Tier      resolver.Tier `json:"tier,omitempty"`
	Instance  any           `json:"-"`
}

// Exclusion is a discovered source left out of the schema.
type Exclusion struct {
	Component string           `json:"component"`
	Origin    discovery.Origin `json:"origin"`
	Reason    string           `json:"reason"`
}

func newResolvedProvider(spec resolver.ProviderSpec, res resolver.Resolution) ResolvedProvider {
	return ResolvedProvider{
		Type:      registry.TypeName(spec.Type),
		Qualifier: spec.Qualifier,
		Kind:      spec.Kind().ShortName(),
		Component: res.Name,
		Tier:      res.Tier,
		Instance:  res.Instance,
	}
}

// Condition returns the condition of the given type, or nil.
func (r *Report) Condition(conditionType string) *metav1.Condition {
	if r == nil {
		return nil
	}
	return meta.FindStatusCondition(r.Conditions, conditionType)
}

// IsAssembled reports whether every discovered singleton source was registered.
func (r *Report) IsAssembled() bool {
	return r != nil && meta.IsStatusConditionTrue(r.Conditions, ConditionAssembled)
}

func (r *Report) setCondition(conditionType string, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&r.Conditions, metav1.Condition{
		Type:    conditionType,
		Status:  status,
		Reason:  reason,
		Message: message,
	})
}

func discoveredMessage(catalog *discovery.Catalog) string {
	return fmt.Sprintf("%d scanned and %d factory operation sources",
		catalog.Count(discovery.OriginScanned), catalog.Count(discovery.OriginFactory))
}

func registeredMessage(registered, excluded int) string {
	if registered == 0 && excluded == 0 {
		return "No operation sources found"
	}
	return fmt.Sprintf("%d operation sources registered, %d excluded", registered, excluded)
}
