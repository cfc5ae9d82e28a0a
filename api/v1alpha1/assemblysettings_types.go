package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AssemblySettings configures schema assembly.
//
// +kubebuilder:object:root=true
type AssemblySettings struct {
	metav1.TypeMeta `json:",inline"`

	// QueryBasePackages restricts the default bean and public resolver
	// builders to sources declared in these Go package paths or below them.
	// Empty means every package.
	QueryBasePackages []string `json:"queryBasePackages,omitempty"`

	Relay      RelaySettings      `json:"relay,omitempty"`
	Resolution ResolutionSettings `json:"resolution,omitempty"`
}

// RelaySettings controls relay-compliant mutations.
type RelaySettings struct {
	// Enabled wraps every mutation's arguments in a single input object.
	Enabled bool `json:"enabled,omitempty"`

	// MutationWrapper is the name of the wrapping input argument.
	// Defaults to "input".
	MutationWrapper string `json:"mutationWrapper,omitempty"`

	MutationWrapperDescription string `json:"mutationWrapperDescription,omitempty"`
}

type ResolutionSettings struct {
	// StrictQualifierFallback makes the factory-metadata fallback skip
	// factory methods whose qualifier value differs from the requested one.
	// Off by default: the first factory method of the requested type carrying
	// a plain qualifier is used whatever its value.
	StrictQualifierFallback bool `json:"strictQualifierFallback,omitempty"`
}

func init() {
	SchemeBuilder.Register(&AssemblySettings{})
	SchemeBuilder.SchemeBuilder.Register(RegisterDefaults)
}
