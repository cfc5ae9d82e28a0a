package resolver

import (
	"fmt"
	"reflect"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

// ProviderSpec identifies a requested capability provider.
//
// Type is the only field that takes part in lookup identity; Qualifier and
// QualifierKind only narrow the candidates.
type ProviderSpec struct {
	Type reflect.Type
	// Qualifier is optional; "" means unspecified.
	Qualifier string
	// QualifierKind is the marker kind the qualifier is expressed with.
	QualifierKind marker.Kind
}

// NewProviderSpec returns a spec with an empty QualifierKind normalised to marker.Qualifier.
func NewProviderSpec(t reflect.Type, qualifier string, kind marker.Kind) ProviderSpec {
	if kind == "" {
		kind = marker.Qualifier
	}
	return ProviderSpec{Type: t, Qualifier: qualifier, QualifierKind: kind}
}

// Kind returns the qualifier kind, defaulting to marker.Qualifier.
func (s ProviderSpec) Kind() marker.Kind {
	if s.QualifierKind == "" {
		return marker.Qualifier
	}
	return s.QualifierKind
}

// DefaultKind reports whether the qualifier is expressed with the plain qualifier kind.
func (s ProviderSpec) DefaultKind() bool {
	return s.Kind() == marker.Qualifier
}

func (s ProviderSpec) String() string {
	return fmt.Sprintf("%s[%s=%q]", registry.TypeName(s.Type), s.Kind().ShortName(), s.Qualifier)
}

// Tier names the lookup strategy that produced a provider instance.
type Tier string

const (
	// TierType is a plain lookup by type.
	TierType Tier = "type"
	// TierMarker picks the first component carrying a custom qualifier marker.
	TierMarker Tier = "marker"
	// TierQualified is a lookup by type and qualifier value.
	TierQualified Tier = "qualified"
	// TierMetadata walks factory-method metadata after a direct lookup found nothing.
	TierMetadata Tier = "metadata"
)

// Resolution is a resolved provider together with how it was found.
type Resolution struct {
	Name     string
	Instance any
	Tier     Tier
}
