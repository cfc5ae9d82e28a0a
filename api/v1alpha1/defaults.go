package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"
)

// DefaultMutationWrapper is the relay input argument name used when none is set.
const DefaultMutationWrapper = "input"

// RegisterDefaults adds the defaulting funcs of this group to s.
func RegisterDefaults(s *runtime.Scheme) error {
	s.AddTypeDefaultingFunc(&AssemblySettings{}, func(obj interface{}) {
		SetDefaults_AssemblySettings(obj.(*AssemblySettings))
	})
	return nil
}

//nolint:revive,stylecheck
func SetDefaults_AssemblySettings(obj *AssemblySettings) {
	if obj.APIVersion == "" {
		obj.APIVersion = GroupVersion.String()
	}
	if obj.Kind == "" {
		obj.Kind = "AssemblySettings"
	}
	if obj.Relay.MutationWrapper == "" {
		obj.Relay.MutationWrapper = DefaultMutationWrapper
	}
}
