package resolver

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/anvil-platform/opwire/internal/marker"
)

var (
	// ErrNotFound indicates that a provider could not be resolved by any tier.
	ErrNotFound = errors.New("capability provider not found")
	// ErrInvalidSpec indicates a ProviderSpec without a type.
	ErrInvalidSpec = errors.New("invalid provider spec")
)

// NotFoundError is returned when neither the direct lookup nor the metadata
// fallback produced a provider.
type NotFoundError struct {
	Type      reflect.Type
	Qualifier string
	Kind      marker.Kind
	// Cause is the not-found error of the direct lookup.
	Cause error
}

func (e *NotFoundError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.Name()
		if typeName == "" {
			typeName = e.Type.String()
		}
	}
	return fmt.Sprintf("no matching %s provider found for qualifier %q of type %s", typeName, e.Qualifier, e.Kind.ShortName())
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}
