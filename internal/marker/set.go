package marker

// Set is an ordered, read-only collection of markers keyed by kind.
// Adding a kind twice keeps the last attributes at the first position.
type Set struct {
	kinds []Kind
	attrs map[Kind]Attributes
}

// NewSet builds a Set from markers in declaration order.
func NewSet(markers ...Marker) Set {
	s := Set{attrs: make(map[Kind]Attributes, len(markers))}
	for _, m := range markers {
		if _, ok := s.attrs[m.Kind]; !ok {
			s.kinds = append(s.kinds, m.Kind)
		}
		attrs := m.Attributes
		if attrs == nil {
			attrs = Attributes{}
		}
		s.attrs[m.Kind] = attrs
	}
	return s
}

// Has reports whether the set carries a marker of kind k.
func (s Set) Has(k Kind) bool {
	_, ok := s.attrs[k]
	return ok
}

// Attributes returns the attributes of kind k, or nil when absent.
func (s Set) Attributes(k Kind) Attributes {
	attrs, ok := s.attrs[k]
	if !ok {
		return nil
	}
	return attrs
}

// Kinds returns the kinds in declaration order.
func (s Set) Kinds() []Kind {
	out := make([]Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Len returns the number of distinct kinds.
func (s Set) Len() int {
	return len(s.kinds)
}

// Carrier is implemented by types that declare type-level markers.
type Carrier interface {
	Markers() Set
}

// Of returns the type-level markers of v, or an empty set when v is not a Carrier.
func Of(v any) Set {
	if c, ok := v.(Carrier); ok {
		return c.Markers()
	}
	return Set{}
}
