// Package config loads AssemblySettings files.
package config

import (
	"bytes"
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"

	opwirev1alpha1 "github.com/anvil-platform/opwire/api/v1alpha1"
)

var (
	scheme = runtime.NewScheme()
	codecs = serializer.NewCodecFactory(scheme, serializer.EnableStrict)
)

func init() {
	utilruntime.Must(opwirev1alpha1.AddToScheme(scheme))
}

// Load reads the settings file at path. An empty path yields the defaults.
// The result is defaulted and validated.
func Load(path string) (*opwirev1alpha1.AssemblySettings, error) {
	if path == "" {
		return Decode(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Decode parses a YAML or JSON AssemblySettings document. Unknown fields are
// rejected. Empty input yields the defaults.
func Decode(data []byte) (*opwirev1alpha1.AssemblySettings, error) {
	settings := &opwirev1alpha1.AssemblySettings{}
	if len(bytes.TrimSpace(data)) > 0 {
		obj, gvk, err := codecs.UniversalDeserializer().Decode(data, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		decoded, ok := obj.(*opwirev1alpha1.AssemblySettings)
		if !ok {
			return nil, fmt.Errorf("decode settings: unexpected kind %s", gvk)
		}
		settings = decoded
	}

	scheme.Default(settings)
	if errs := opwirev1alpha1.ValidateAssemblySettings(settings); len(errs) > 0 {
		return nil, fmt.Errorf("invalid settings: %w", errs.ToAggregate())
	}
	return settings, nil
}
