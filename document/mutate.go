package document

// SetAtPath replaces the value(s) addressed by a structural path. A path
// ending in a property step replaces the property's whole sequence; a path
// ending in an index step replaces that single element (values must then
// hold exactly one entry). Used by curation to write promoted alternatives
// back into the document.
func (d *Document) SetAtPath(p Path, values []Value) error {
	if len(p) == 0 {
		return &StalePathError{Path: p.String(), Reason: "cannot replace the document root"}
	}

	node := d.root
	var seq []Value
	var ownerNode *Node
	var ownerIRI string
	haveSeq := false

	for i, step := range p {
		last := i == len(p)-1

		if step.IsIndex() {
			if !haveSeq {
				return &StalePathError{Path: p.String(), Reason: "index step without preceding property"}
			}
			if step.Index >= len(seq) {
				return &StalePathError{Path: p.String(), Reason: "index out of range"}
			}
			if last {
				if len(values) != 1 {
					return &StalePathError{Path: p.String(), Reason: "index step requires exactly one replacement value"}
				}
				replaced := append([]Value(nil), seq...)
				replaced[step.Index] = values[0]
				ownerNode.SetValues(ownerIRI, replaced)
				return nil
			}
			v := seq[step.Index]
			node, _ = v.(*Node)
			haveSeq = false
			continue
		}

		if node == nil {
			if haveSeq && len(seq) == 1 {
				node, _ = seq[0].(*Node)
			}
			if node == nil {
				return &StalePathError{Path: p.String(), Reason: "property step on a non-node value"}
			}
		}
		iri, err := node.resolve(step.Term)
		if err != nil {
			return &StalePathError{Path: p.String(), Reason: err.Error()}
		}
		if last {
			node.SetValues(iri, append([]Value(nil), values...))
			return nil
		}
		seq = node.Values(iri)
		if len(seq) == 0 {
			return &StalePathError{Path: p.String(), Reason: "no value at property " + step.Term}
		}
		ownerNode, ownerIRI = node, iri
		node = nil
		haveSeq = true
	}
	return nil
}
