package document

import (
	"fmt"

	"github.com/softmeta/meld/vocabulary"
)

// Document owns exactly one root node and the vocabulary snapshot in effect.
// It is created empty by a harvester or by the merge engine, mutated in
// place by its owning pipeline stage, and handed over wholesale to the next
// stage. It is not safe for concurrent use.
type Document struct {
	root  *Node
	vocab *vocabulary.Snapshot
}

// New creates an empty document bound to a vocabulary snapshot.
func New(vocab *vocabulary.Snapshot) *Document {
	root := NewNode()
	root.vocab = vocab
	return &Document{root: root, vocab: vocab}
}

// FromNode wraps an existing node as a document root. The node tree adopts
// the snapshot.
func FromNode(root *Node, vocab *vocabulary.Snapshot) *Document {
	root.adopt(vocab)
	return &Document{root: root, vocab: vocab}
}

// Root returns the root node.
func (d *Document) Root() *Node { return d.root }

// Vocabulary returns the snapshot in effect for this document.
func (d *Document) Vocabulary() *vocabulary.Snapshot { return d.vocab }

// Get returns the root's value sequence for a term. Absent properties yield
// an empty sequence.
func (d *Document) Get(term string) ([]Value, error) { return d.root.Get(term) }

// Set replaces the root property's value sequence, applying the uniform
// wrapping rule.
func (d *Document) Set(term string, value any) error { return d.root.Set(term, value) }

// Append adds a value to the root property's sequence.
func (d *Document) Append(term string, value any) error { return d.root.Append(term, value) }

// Extend appends several values to the root property's sequence.
func (d *Document) Extend(term string, values []any) error { return d.root.Extend(term, values) }

// Delete removes a root property.
func (d *Document) Delete(term string) error { return d.root.Delete(term) }

// Has reports whether the root property holds at least one value.
func (d *Document) Has(term string) (bool, error) { return d.root.Has(term) }

// Properties returns the root's canonical property IRIs in insertion order.
func (d *Document) Properties() []string { return d.root.Properties() }

// Clone returns a deep copy sharing the (immutable) vocabulary snapshot.
func (d *Document) Clone() *Document {
	return &Document{root: d.root.Clone(), vocab: d.vocab}
}

// Validate checks that every property IRI in the document resolves against
// the snapshot in effect. A document failing validation is excluded from
// merges.
func (d *Document) Validate() error {
	return validateNode(d.root, d.vocab, Path{})
}

func validateNode(n *Node, vocab *vocabulary.Snapshot, at Path) error {
	for _, iri := range n.Properties() {
		if _, err := vocab.Resolve(iri); err != nil {
			return fmt.Errorf("at %q: %w", at.Property(vocab.Compact(iri)).String(), err)
		}
		for i, v := range n.Values(iri) {
			child, ok := v.(*Node)
			if !ok {
				continue
			}
			childPath := at.Property(vocab.Compact(iri)).Index(i)
			if err := validateNode(child, vocab, childPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// PathOfNode derives the structural path of a node that is live within the
// document. Paths are stable until a structural mutation shifts positions in
// front of them; callers must re-derive after mutating, never cache across
// mutation boundaries.
func (d *Document) PathOfNode(target *Node) (Path, bool) {
	if target == d.root {
		return Path{}, true
	}
	return findNode(d.root, target, d.vocab, Path{})
}

func findNode(n, target *Node, vocab *vocabulary.Snapshot, at Path) (Path, bool) {
	for _, iri := range n.Properties() {
		for i, v := range n.Values(iri) {
			child, ok := v.(*Node)
			if !ok {
				continue
			}
			childPath := at.Property(vocab.Compact(iri)).Index(i)
			if child == target {
				return childPath, true
			}
			if found, ok := findNode(child, target, vocab, childPath); ok {
				return found, true
			}
		}
	}
	return nil, false
}
