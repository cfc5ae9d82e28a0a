package marker

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type carrierFixture struct{}

func (carrierFixture) Markers() Set {
	return NewSet(Tag(OperationSource), Qualified("fixture"))
}

func TestSet_PreservesDeclarationOrder(t *testing.T) {
	s := NewSet(Tag(OperationSource), Qualified("a"), Tag("custom.Marker"), Qualified("b"))

	want := []Kind{OperationSource, Qualifier, "custom.Marker"}
	if diff := cmp.Diff(want, s.Kinds()); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if got := s.Attributes(Qualifier).String(AttrValue); got != "b" {
		t.Fatalf("expected last qualifier value to win, got %q", got)
	}
	if s.Attributes("missing.Marker") != nil {
		t.Fatal("expected nil attributes for an absent kind")
	}
	if s.Attributes(OperationSource) == nil {
		t.Fatal("expected non-nil attributes for a tag without payload")
	}
}

func TestOf_ReadsCarrierMarkers(t *testing.T) {
	if !Of(carrierFixture{}).Has(OperationSource) {
		t.Fatal("expected carrier markers")
	}
	if Of(struct{}{}).Len() != 0 {
		t.Fatal("expected empty set for a non-carrier")
	}
}

func TestProvider_Defaults(t *testing.T) {
	typ := reflect.TypeOf(carrierFixture{})
	m := Provider(typ)

	if m.Kind != WithProvider {
		t.Fatalf("expected WithProvider, got %s", m.Kind)
	}
	if m.Attributes[AttrValue] != typ {
		t.Fatalf("expected type attribute %v, got %v", typ, m.Attributes[AttrValue])
	}
	if m.Attributes.String(AttrQualifierValue) != "" {
		t.Fatal("expected empty qualifier value")
	}
	if m.Attributes[AttrQualifierType] != Qualifier {
		t.Fatalf("expected default qualifier kind, got %v", m.Attributes[AttrQualifierType])
	}

	custom := Provider(typ, QualifierValue("fast"), QualifierType("custom.Fast"))
	if custom.Attributes.String(AttrQualifierValue) != "fast" || custom.Attributes[AttrQualifierType] != Kind("custom.Fast") {
		t.Fatalf("options not applied: %+v", custom.Attributes)
	}
}

func TestKind_ShortName(t *testing.T) {
	cases := map[Kind]string{
		Qualifier:         "Qualifier",
		"plain":           "plain",
		"example.com/Hot": "Hot",
	}
	for k, want := range cases {
		if got := k.ShortName(); got != want {
			t.Errorf("%s: expected %q, got %q", k, want, got)
		}
	}
}
