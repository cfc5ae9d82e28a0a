package v1alpha1

import (
	"testing"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func TestSetDefaults_AssemblySettings(t *testing.T) {
	s := &AssemblySettings{Relay: RelaySettings{MutationWrapper: "payload"}}
	SetDefaults_AssemblySettings(s)

	if s.Relay.MutationWrapper != "payload" {
		t.Fatalf("expected explicit wrapper to be kept, got %q", s.Relay.MutationWrapper)
	}
	if s.APIVersion != GroupVersion.String() || s.Kind != "AssemblySettings" {
		t.Fatalf("unexpected type meta %+v", s.TypeMeta)
	}
}

func TestAddToScheme_RegistersDefaults(t *testing.T) {
	scheme := runtime.NewScheme()
	if err := AddToScheme(scheme); err != nil {
		t.Fatalf("AddToScheme: %v", err)
	}
	if !scheme.Recognizes(GroupVersion.WithKind("AssemblySettings")) {
		t.Fatal("expected AssemblySettings to be registered")
	}

	s := &AssemblySettings{}
	scheme.Default(s)
	if s.Relay.MutationWrapper != DefaultMutationWrapper {
		t.Fatalf("expected default wrapper, got %q", s.Relay.MutationWrapper)
	}
}

func TestValidateAssemblySettings(t *testing.T) {
	s := &AssemblySettings{
		QueryBasePackages: []string{"example.com/a", "", "example.com/a"},
		Relay:             RelaySettings{MutationWrapperDescription: "unused"},
	}

	errs := ValidateAssemblySettings(s)
	want := map[string]field.ErrorType{
		"queryBasePackages[1]":             field.ErrorTypeRequired,
		"queryBasePackages[2]":             field.ErrorTypeDuplicate,
		"relay.mutationWrapperDescription": field.ErrorTypeForbidden,
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for _, err := range errs {
		if want[err.Field] != err.Type {
			t.Fatalf("unexpected error %v", err)
		}
	}
}

func TestValidateAssemblySettings_RelayWrapper(t *testing.T) {
	s := &AssemblySettings{Relay: RelaySettings{Enabled: true, MutationWrapper: "input"}}
	if errs := ValidateAssemblySettings(s); len(errs) != 0 {
		t.Fatalf("expected valid settings, got %v", errs)
	}

	s.Relay.MutationWrapper = "1input"
	if errs := ValidateAssemblySettings(s); len(errs) != 1 || errs[0].Type != field.ErrorTypeInvalid {
		t.Fatalf("expected invalid wrapper error, got %v", errs)
	}
}

func TestAssemblySettings_DeepCopy(t *testing.T) {
	in := &AssemblySettings{QueryBasePackages: []string{"example.com/a"}}
	out := in.DeepCopy()
	out.QueryBasePackages[0] = "example.com/b"
	if in.QueryBasePackages[0] != "example.com/a" {
		t.Fatal("expected deep copy not to share base packages")
	}
}
