// Package builders contains the resolver builders that turn an operation
// source into the operations it exposes.
package builders

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/anvil-platform/opwire/internal/marker"
)

type OperationKind string

const (
	KindQuery    OperationKind = "query"
	KindMutation OperationKind = "mutation"
)

// Operation is a single query or mutation contributed by a source.
type Operation struct {
	Name string        `json:"name"`
	Kind OperationKind `json:"kind"`
	// Method is the exported method backing the operation, if any.
	Method string `json:"method,omitempty"`
}

// ResolverBuilder derives operations from an operation source. Builders are
// requested as capability providers and must not retain the source.
type ResolverBuilder interface {
	Operations(source any) []Operation
}

// PackageScoped is a ResolverBuilder whose visible packages can be set by the
// schema when it was built without its own.
type PackageScoped interface {
	ResolverBuilder
	// InPackages returns a builder restricted to pkgs, or the receiver when
	// it already carries base packages.
	InPackages(pkgs []string) ResolverBuilder
}

// Annotated exposes the operations listed by the source's marker.Operations
// marker under its "query" and "mutation" attributes.
type Annotated struct{}

func (Annotated) Operations(source any) []Operation {
	attrs := marker.Of(source).Attributes(marker.Operations)
	if attrs == nil {
		return nil
	}

	var ops []Operation
	for _, name := range attrs.Strings(marker.AttrQuery) {
		ops = append(ops, Operation{Name: name, Kind: KindQuery, Method: methodFor(source, name)})
	}
	for _, name := range attrs.Strings(marker.AttrMutation) {
		ops = append(ops, Operation{Name: name, Kind: KindMutation, Method: methodFor(source, name)})
	}
	return ops
}

// Bean exposes the getters of sources declared in BasePackages as queries.
// A getter is an exported Get or Is method without arguments returning one
// value, optionally followed by an error.
type Bean struct {
	BasePackages []string
}

func (b *Bean) Operations(source any) []Operation {
	t := reflect.TypeOf(source)
	if t == nil || !InBasePackages(t, b.BasePackages) {
		return nil
	}

	var ops []Operation
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		property, ok := getterProperty(m)
		if !ok {
			continue
		}
		ops = append(ops, Operation{Name: lowerFirst(property), Kind: KindQuery, Method: m.Name})
	}
	return ops
}

func (b *Bean) InPackages(pkgs []string) ResolverBuilder {
	if len(b.BasePackages) > 0 {
		return b
	}
	return &Bean{BasePackages: pkgs}
}

// mutationPrefixes mark a public method as a mutation.
var mutationPrefixes = []string{"Add", "Create", "Delete", "Remove", "Save", "Set", "Update"}

// Public exposes every exported method of sources declared in BasePackages.
// Methods starting with a mutating verb become mutations, all others queries.
type Public struct {
	BasePackages []string
}

func (p *Public) Operations(source any) []Operation {
	t := reflect.TypeOf(source)
	if t == nil || !InBasePackages(t, p.BasePackages) {
		return nil
	}

	var ops []Operation
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Name == "Markers" {
			continue
		}
		kind := KindQuery
		for _, prefix := range mutationPrefixes {
			if hasWordPrefix(m.Name, prefix) {
				kind = KindMutation
				break
			}
		}
		ops = append(ops, Operation{Name: lowerFirst(m.Name), Kind: kind, Method: m.Name})
	}
	return ops
}

func (p *Public) InPackages(pkgs []string) ResolverBuilder {
	if len(p.BasePackages) > 0 {
		return p
	}
	return &Public{BasePackages: pkgs}
}

// InBasePackages reports whether t, or the type it points to, is declared in
// one of pkgs or below it. An empty pkgs matches every type.
func InBasePackages(t reflect.Type, pkgs []string) bool {
	if len(pkgs) == 0 {
		return true
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	path := t.PkgPath()
	for _, p := range pkgs {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func getterProperty(m reflect.Method) (string, bool) {
	var property string
	switch {
	case hasWordPrefix(m.Name, "Get"):
		property = strings.TrimPrefix(m.Name, "Get")
	case hasWordPrefix(m.Name, "Is"):
		property = strings.TrimPrefix(m.Name, "Is")
	default:
		return "", false
	}

	// The receiver is the first input of a method obtained from a type.
	if m.Type.NumIn() != 1 {
		return "", false
	}
	switch m.Type.NumOut() {
	case 1:
		return property, true
	case 2:
		return property, m.Type.Out(1) == errorType
	default:
		return "", false
	}
}

// hasWordPrefix reports whether name starts with prefix followed by an upper
// case letter, so that "Settle" does not count as a "Set" method.
func hasWordPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[len(prefix):])
	return unicode.IsUpper(r)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func methodFor(source any, name string) string {
	t := reflect.TypeOf(source)
	if t == nil {
		return ""
	}
	if _, ok := t.MethodByName(upperFirst(name)); ok {
		return upperFirst(name)
	}
	return ""
}

var (
	_ ResolverBuilder = Annotated{}
	_ ResolverBuilder = (*Bean)(nil)
	_ ResolverBuilder = (*Public)(nil)
)
