package codec

import (
	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/vocabulary"
)

// ToNative strips the internal wrapper types from a value, returning plain
// Go scalars, maps and slices for inspection or testing. Nested node
// properties are keyed by their compacted terms. No provenance is attached;
// that is queried separately from the ledger.
func ToNative(v document.Value, vocab *vocabulary.Snapshot) any {
	switch val := v.(type) {
	case document.Literal:
		return val.Value
	case document.Ref:
		return map[string]any{vocabulary.KeywordID: val.ID}
	case *document.Node:
		return nodeToNative(val, vocab)
	default:
		return nil
	}
}

// ToNativeValues strips a whole value sequence.
func ToNativeValues(values []document.Value, vocab *vocabulary.Snapshot) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, ToNative(v, vocab))
	}
	return out
}

// ToNativeDocument strips a whole document into plain nested maps and
// slices. Property sequences stay slices even when single-valued, matching
// the document model's array invariant.
func ToNativeDocument(doc *document.Document) map[string]any {
	return nodeToNative(doc.Root(), doc.Vocabulary())
}

func nodeToNative(n *document.Node, vocab *vocabulary.Snapshot) map[string]any {
	out := make(map[string]any, n.Len()+2)
	if n.ID() != "" {
		out[vocabulary.KeywordID] = n.ID()
	}
	if types := n.Types(); len(types) > 0 {
		compacted := make([]any, 0, len(types))
		for _, t := range types {
			compacted = append(compacted, compactTerm(t, vocab))
		}
		out[vocabulary.KeywordType] = compacted
	}
	for _, iri := range n.Properties() {
		out[compactTerm(iri, vocab)] = ToNativeValues(n.Values(iri), vocab)
	}
	return out
}

func compactTerm(iri string, vocab *vocabulary.Snapshot) string {
	if vocab == nil {
		return iri
	}
	return vocab.Compact(iri)
}
