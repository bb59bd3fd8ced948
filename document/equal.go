package document

// Equal reports deep structural equality of two values for conflict
// detection. Property identifiers and literal datatypes are compared in
// canonical form; provenance-only differences are invisible at this level
// and intentionally ignored.
func Equal(a, b Value) bool {
	switch va := a.(type) {
	case Literal:
		vb, ok := b.(Literal)
		return ok && va.Value == vb.Value && va.Datatype == vb.Datatype
	case Ref:
		vb, ok := b.(Ref)
		return ok && va.ID == vb.ID
	case *Node:
		vb, ok := b.(*Node)
		return ok && equalNode(va, vb)
	}
	return false
}

// EqualValues reports element-wise equality of two value sequences.
func EqualValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalNode(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.id != b.id {
		return false
	}
	if !equalStringSets(a.types, b.types) {
		return false
	}
	if len(a.props) != len(b.props) {
		return false
	}
	for iri, values := range a.props {
		other, ok := b.props[iri]
		if !ok || !EqualValues(values, other) {
			return false
		}
	}
	return true
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, s := range a {
		found := false
		for _, t := range b {
			if s == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
