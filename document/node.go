package document

import (
	"fmt"
	"sort"

	"github.com/softmeta/meld/vocabulary"
)

// Node is the recursive unit of a metadata document: an ordered mapping from
// canonical property IRI to a value sequence. Nodes may carry a stable
// identifier used for cross-referencing and provenance addressing;
// unidentified nodes are addressed by structural path only.
type Node struct {
	id    string
	types []string
	order []string
	props map[string][]Value
	vocab *vocabulary.Snapshot
}

// NewNode creates an empty anonymous node. A node created standalone only
// accepts absolute IRIs as terms until it is attached to a document, at
// which point it inherits the document's vocabulary snapshot.
func NewNode() *Node {
	return &Node{props: make(map[string][]Value)}
}

// ID returns the node's stable identifier, or "" for anonymous nodes.
func (n *Node) ID() string { return n.id }

// SetID assigns the node's stable identifier.
func (n *Node) SetID(id string) { n.id = id }

// Types returns the node's type IRIs.
func (n *Node) Types() []string {
	return append([]string(nil), n.types...)
}

// AddType appends a resolved type IRI, ignoring duplicates.
func (n *Node) AddType(term string) error {
	iri, err := n.resolve(term)
	if err != nil {
		return err
	}
	for _, existing := range n.types {
		if existing == iri {
			return nil
		}
	}
	n.types = append(n.types, iri)
	return nil
}

// Get returns the value sequence for a term. An absent property yields an
// empty sequence, never an error; an unresolvable term is an error.
func (n *Node) Get(term string) ([]Value, error) {
	iri, err := n.resolve(term)
	if err != nil {
		return nil, err
	}
	return append([]Value(nil), n.props[iri]...), nil
}

// Set replaces the property's value sequence. A bare scalar or mapping is
// wrapped into a one-element sequence; a slice is wrapped element-wise.
func (n *Node) Set(term string, value any) error {
	iri, err := n.resolve(term)
	if err != nil {
		return err
	}
	values, err := n.toValues(iri, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", term, err)
	}
	if _, exists := n.props[iri]; !exists {
		n.order = append(n.order, iri)
	}
	n.props[iri] = values
	return nil
}

// Append adds a single value to the end of the property's sequence.
func (n *Node) Append(term string, value any) error {
	iri, err := n.resolve(term)
	if err != nil {
		return err
	}
	v, err := wrap(value, n.vocab)
	if err != nil {
		return fmt.Errorf("append %s: %w", term, err)
	}
	v = coerce(v, iri, n.vocab)
	if _, exists := n.props[iri]; !exists {
		n.order = append(n.order, iri)
	}
	n.props[iri] = append(n.props[iri], v)
	return nil
}

// Extend appends each of the given values to the property's sequence.
func (n *Node) Extend(term string, values []any) error {
	for _, v := range values {
		if err := n.Append(term, v); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a property entirely. Deleting an absent property is a
// no-op.
func (n *Node) Delete(term string) error {
	iri, err := n.resolve(term)
	if err != nil {
		return err
	}
	if _, ok := n.props[iri]; !ok {
		return nil
	}
	delete(n.props, iri)
	for i, existing := range n.order {
		if existing == iri {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return nil
}

// Has reports whether the property holds at least one value.
func (n *Node) Has(term string) (bool, error) {
	iri, err := n.resolve(term)
	if err != nil {
		return false, err
	}
	return len(n.props[iri]) > 0, nil
}

// Properties returns the canonical property IRIs in insertion order.
func (n *Node) Properties() []string {
	return append([]string(nil), n.order...)
}

// Values returns the raw value sequence for an already-canonical IRI. It
// bypasses term resolution and is intended for traversal code (merge,
// serialization) operating on resolved documents.
func (n *Node) Values(iri string) []Value {
	return n.props[iri]
}

// SetValues replaces the sequence for an already-canonical IRI.
func (n *Node) SetValues(iri string, values []Value) {
	if _, exists := n.props[iri]; !exists {
		n.order = append(n.order, iri)
	}
	n.props[iri] = values
}

// Len returns the number of properties on the node.
func (n *Node) Len() int { return len(n.order) }

// Clone returns a deep copy of the node sharing the vocabulary snapshot.
func (n *Node) Clone() *Node {
	out := NewNode()
	out.id = n.id
	out.types = append([]string(nil), n.types...)
	out.vocab = n.vocab
	for _, iri := range n.order {
		values := make([]Value, 0, len(n.props[iri]))
		for _, v := range n.props[iri] {
			values = append(values, cloneValue(v))
		}
		out.SetValues(iri, values)
	}
	return out
}

func cloneValue(v Value) Value {
	if child, ok := v.(*Node); ok {
		return child.Clone()
	}
	return v
}

// adopt propagates a vocabulary snapshot into the node tree. Attaching a
// node built against a different snapshot keeps the already-canonical IRIs;
// only term resolution for future access changes.
func (n *Node) adopt(vocab *vocabulary.Snapshot) {
	if vocab == nil {
		return
	}
	n.vocab = vocab
	for _, values := range n.props {
		for _, v := range values {
			if child, ok := v.(*Node); ok {
				child.adopt(vocab)
			}
		}
	}
}

func (n *Node) resolve(term string) (string, error) {
	if n.vocab != nil {
		return n.vocab.Resolve(term)
	}
	// Unattached nodes have no context in effect; only absolute IRIs and
	// keywords are meaningful.
	if isAbsoluteIRI(term) || isKeywordTerm(term) {
		return term, nil
	}
	return "", &vocabulary.UnresolvedTermError{Term: term}
}

// toValues applies the uniform sequence-wrapping rule for a property.
func (n *Node) toValues(iri string, value any) ([]Value, error) {
	switch seq := value.(type) {
	case []Value:
		out := make([]Value, 0, len(seq))
		for _, v := range seq {
			wrapped, err := wrap(v, n.vocab)
			if err != nil {
				return nil, err
			}
			out = append(out, coerce(wrapped, iri, n.vocab))
		}
		return out, nil
	case []any:
		out := make([]Value, 0, len(seq))
		for _, v := range seq {
			wrapped, err := wrap(v, n.vocab)
			if err != nil {
				return nil, err
			}
			out = append(out, coerce(wrapped, iri, n.vocab))
		}
		return out, nil
	case []string:
		out := make([]Value, 0, len(seq))
		for _, s := range seq {
			out = append(out, coerce(Literal{Value: s}, iri, n.vocab))
		}
		return out, nil
	default:
		wrapped, err := wrap(value, n.vocab)
		if err != nil {
			return nil, err
		}
		return []Value{coerce(wrapped, iri, n.vocab)}, nil
	}
}

func isAbsoluteIRI(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] == ':' && s[i+1] == '/' && s[i+2] == '/' {
			return true
		}
	}
	return false
}

func isKeywordTerm(s string) bool {
	return len(s) > 0 && s[0] == '@'
}

type mapEntry struct {
	key   string
	value any
}

// sortedEntries yields map entries in key order so that converting a map
// into a node is deterministic.
func sortedEntries(m map[string]any) []mapEntry {
	entries := make([]mapEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, mapEntry{key: k, value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}
