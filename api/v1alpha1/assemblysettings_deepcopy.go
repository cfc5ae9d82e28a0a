package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *AssemblySettings) DeepCopyInto(out *AssemblySettings) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	if in.QueryBasePackages != nil {
		out.QueryBasePackages = make([]string, len(in.QueryBasePackages))
		copy(out.QueryBasePackages, in.QueryBasePackages)
	}
	out.Relay = in.Relay
	out.Resolution = in.Resolution
}

// DeepCopy copies the receiver, creating a new AssemblySettings.
func (in *AssemblySettings) DeepCopy() *AssemblySettings {
	if in == nil {
		return nil
	}
	out := new(AssemblySettings)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *AssemblySettings) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
