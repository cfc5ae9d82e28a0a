package builders

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

type catalogService struct{}

func (catalogService) Markers() marker.Set {
	return marker.NewSet(
		marker.Tag(marker.OperationSource),
		marker.Marker{Kind: marker.Operations, Attributes: marker.Attributes{
			marker.AttrQuery:    []string{"books", "bookCount"},
			marker.AttrMutation: "addBook",
		}},
	)
}

func (catalogService) Books() []string { return nil }
func (catalogService) AddBook(title string) error { return nil }
func (catalogService) GetTitle() string { return "" }
func (catalogService) IsOpen() (bool, error) { return true, nil }
func (catalogService) GetByID(id int) string { return "" }
func (catalogService) Settle() {}
func (catalogService) UpdateStock(n int) (int, error) { return n, nil }

func TestAnnotated_ReadsOperationsMarker(t *testing.T) {
	got := Annotated{}.Operations(catalogService{})
	want := []Operation{
		{Name: "books", Kind: KindQuery, Method: "Books"},
		{Name: "bookCount", Kind: KindQuery},
		{Name: "addBook", Kind: KindMutation, Method: "AddBook"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotated_NoMarker(t *testing.T) {
	if ops := (Annotated{}).Operations(struct{}{}); len(ops) != 0 {
		t.Fatalf("expected no operations, got %v", ops)
	}
}

func TestBean_ExposesGetters(t *testing.T) {
	got := (&Bean{}).Operations(catalogService{})
	want := []Operation{
		{Name: "title", Kind: KindQuery, Method: "GetTitle"},
		{Name: "open", Kind: KindQuery, Method: "IsOpen"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestPublic_SplitsQueriesAndMutations(t *testing.T) {
	got := (&Public{}).Operations(catalogService{})
	want := []Operation{
		{Name: "addBook", Kind: KindMutation, Method: "AddBook"},
		{Name: "books", Kind: KindQuery, Method: "Books"},
		{Name: "getByID", Kind: KindQuery, Method: "GetByID"},
		{Name: "getTitle", Kind: KindQuery, Method: "GetTitle"},
		{Name: "isOpen", Kind: KindQuery, Method: "IsOpen"},
		{Name: "settle", Kind: KindQuery, Method: "Settle"},
		{Name: "updateStock", Kind: KindMutation, Method: "UpdateStock"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestPublic_RespectsBasePackages(t *testing.T) {
	outside := &Public{BasePackages: []string{"example.com/elsewhere"}}
	if ops := outside.Operations(catalogService{}); len(ops) != 0 {
		t.Fatalf("expected no operations outside base packages, got %v", ops)
	}

	inside := &Public{BasePackages: []string{"github.com/anvil-platform/opwire/internal"}}
	if ops := inside.Operations(&catalogService{}); len(ops) == 0 {
		t.Fatal("expected operations for a source below a base package")
	}
}

func TestInPackages_KeepsOwnBasePackages(t *testing.T) {
	scoped := []string{"example.com/elsewhere"}

	var unscoped PackageScoped = &Bean{}
	if got := unscoped.InPackages(scoped); got.(*Bean).BasePackages[0] != "example.com/elsewhere" {
		t.Fatalf("expected the schema base packages, got %+v", got)
	}

	own := &Public{BasePackages: []string{"github.com/anvil-platform/opwire/internal"}}
	if got := own.InPackages(scoped); got != ResolverBuilder(own) {
		t.Fatalf("expected the builder itself, got %+v", got)
	}
}

func TestInBasePackages_DoesNotMatchSiblingPrefix(t *testing.T) {
	typ := reflect.TypeOf(catalogService{})
	if InBasePackages(typ, []string{"github.com/anvil-platform/opwire/internal/build"}) {
		t.Fatal("expected sibling package prefix not to match")
	}
	if !InBasePackages(typ, []string{"github.com/anvil-platform/opwire/internal/builders"}) {
		t.Fatal("expected exact package to match")
	}
}

func TestRegisterDefaults_OnlyWhenMissing(t *testing.T) {
	c := registry.NewContainer()
	custom := &Public{BasePackages: []string{"example.com/custom"}}
	c.MustRegister("customPublic", custom)

	names, err := RegisterDefaults(context.Background(), c, []string{"example.com/app"})
	if err != nil {
		t.Fatalf("RegisterDefaults error: %v", err)
	}
	if diff := cmp.Diff([]string{AnnotatedName, BeanName}, names); diff != "" {
		t.Fatalf("registered names mismatch (-want +got):\n%s", diff)
	}

	v, err := c.ComponentOfType(PublicType)
	if err != nil || v != custom {
		t.Fatalf("expected custom public builder to stay, got %v (%v)", v, err)
	}

	def, err := c.Definition(BeanName)
	if err != nil {
		t.Fatalf("Definition error: %v", err)
	}
	if def.Source == nil || def.Source.ReturnTypeName != registry.TypeName(BeanType) || def.Source.DeclaringType != DefaultsFactory {
		t.Fatalf("unexpected default definition %+v", def.Source)
	}
	bean, _ := c.Component(BeanName)
	if diff := cmp.Diff([]string{"example.com/app"}, bean.(*Bean).BasePackages); diff != "" {
		t.Fatalf("base packages mismatch (-want +got):\n%s", diff)
	}

	again, err := RegisterDefaults(context.Background(), c, nil)
	if err != nil || len(again) != 0 {
		t.Fatalf("expected second call to register nothing, got %v (%v)", again, err)
	}
}
