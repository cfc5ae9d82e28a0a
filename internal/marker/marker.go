package marker

import (
	"reflect"
	"strings"
)

// Kind identifies a marker attribute type by its fully qualified name.
type Kind string

const (
	// OperationSource tags a component that contributes queryable operations.
	OperationSource Kind = "opwire.anvil.dev/marker.OperationSource"
	// WithProvider requests a single capability provider.
	WithProvider Kind = "opwire.anvil.dev/marker.WithProvider"
	// WithProviders requests an ordered list of capability providers.
	WithProviders Kind = "opwire.anvil.dev/marker.WithProviders"
	// Qualifier is the plain qualifier kind. Its "value" attribute carries
	// the qualifier string.
	Qualifier Kind = "opwire.anvil.dev/marker.Qualifier"
	// Operations lists the methods an annotated resolver builder exposes.
	Operations Kind = "opwire.anvil.dev/marker.Operations"
)

// Attribute keys used by the provider markers.
const (
	AttrValue          = "value"
	AttrQualifierValue = "qualifierValue"
	AttrQualifierType  = "qualifierType"
	AttrQuery          = "query"
	AttrMutation       = "mutation"
)

// ShortName returns the last segment of the kind, e.g. "Qualifier".
func (k Kind) ShortName() string {
	s := string(k)
	if i := strings.LastIndexAny(s, "./"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Attributes is the key/value payload of a marker.
type Attributes map[string]any

// String returns the string stored under key, or "" when absent or not a string.
func (a Attributes) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Strings returns the string slice stored under key.
func (a Attributes) Strings(key string) []string {
	switch v := a[key].(type) {
	case []string:
		return v
	case string:
		return []string{v}
	default:
		return nil
	}
}

// Marker is a declarative tag attached to a type or a factory method.
type Marker struct {
	Kind       Kind
	Attributes Attributes
}

// Tag returns a marker of kind k without attributes.
func Tag(k Kind) Marker {
	return Marker{Kind: k}
}

// Qualified returns a plain qualifier marker carrying value.
func Qualified(value string) Marker {
	return Marker{Kind: Qualifier, Attributes: Attributes{AttrValue: value}}
}

// ProviderOption customises a provider request built by Provider.
type ProviderOption func(Attributes)

// QualifierValue sets the qualifier value of a provider request.
func QualifierValue(v string) ProviderOption {
	return func(a Attributes) { a[AttrQualifierValue] = v }
}

// QualifierType sets the qualifier kind of a provider request.
func QualifierType(k Kind) ProviderOption {
	return func(a Attributes) { a[AttrQualifierType] = k }
}

// ProviderAttributes builds the attribute map of a single provider request.
func ProviderAttributes(t reflect.Type, opts ...ProviderOption) Attributes {
	a := Attributes{
		AttrValue:          t,
		AttrQualifierValue: "",
		AttrQualifierType:  Qualifier,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns a WithProvider marker requesting a provider of type t.
func Provider(t reflect.Type, opts ...ProviderOption) Marker {
	return Marker{Kind: WithProvider, Attributes: ProviderAttributes(t, opts...)}
}

// Providers returns a WithProviders marker holding each request in order.
func Providers(requests ...Attributes) Marker {
	values := make([]Attributes, len(requests))
	copy(values, requests)
	return Marker{Kind: WithProviders, Attributes: Attributes{AttrValue: values}}
}
