package codec

import (
	"fmt"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/vocabulary"
)

// Compact serializes a document into the shortest valid representation
// against the given snapshot: properties become short terms, one-element
// sequences unwrap, literals whose datatype is declared by the context
// inline to bare scalars, and references for @id-coerced terms become bare
// identifier strings.
func Compact(doc *document.Document, vocab *vocabulary.Snapshot) ([]byte, error) {
	obj, err := compactNode(doc.Root(), vocab)
	if err != nil {
		return nil, err
	}
	// Prefix shorthand for readers; resolution on load uses the stored
	// context artifact, not this header.
	ctx := newOrderedObj()
	for _, prefix := range vocab.Prefixes() {
		if src, ok := vocab.Source(prefix); ok && src.Namespace != "" {
			ctx.set(prefix, src.Namespace)
		}
	}
	withCtx := newOrderedObj()
	withCtx.set(vocabulary.KeywordContext, ctx)
	for _, key := range obj.keys {
		withCtx.set(key, obj.values[key])
	}
	return marshalOrdered(withCtx)
}

// ParseCompact reads a compact-form document, expanding it against the
// given snapshot.
func ParseCompact(data []byte, vocab *vocabulary.Snapshot) (*document.Document, error) {
	parsed, err := parseOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("parsing compact form: %w", err)
	}
	obj, ok := parsed.(*orderedObj)
	if !ok {
		return nil, fmt.Errorf("compact form must be a JSON object, got %T", parsed)
	}
	root, err := nodeFromCompact(obj, vocab, true)
	if err != nil {
		return nil, err
	}
	return document.FromNode(root, vocab), nil
}

func compactNode(n *document.Node, vocab *vocabulary.Snapshot) (*orderedObj, error) {
	obj := newOrderedObj()
	if n.ID() != "" {
		obj.set(vocabulary.KeywordID, n.ID())
	}
	if types := n.Types(); len(types) > 0 {
		arr := make([]any, 0, len(types))
		for _, t := range types {
			arr = append(arr, vocab.Compact(t))
		}
		obj.set(vocabulary.KeywordType, unwrapSingle(arr))
	}
	for _, iri := range n.Properties() {
		term := vocab.Compact(iri)
		values := n.Values(iri)
		arr := make([]any, 0, len(values))
		for _, v := range values {
			cv, err := compactValue(v, iri, vocab)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", term, err)
			}
			arr = append(arr, cv)
		}
		obj.set(term, unwrapSingle(arr))
	}
	return obj, nil
}

func compactValue(v document.Value, propIRI string, vocab *vocabulary.Snapshot) (any, error) {
	termType := vocab.TermType(propIRI)
	switch val := v.(type) {
	case document.Literal:
		if val.Datatype == "" || val.Datatype == termType {
			return val.Value, nil
		}
		obj := newOrderedObj()
		obj.set(vocabulary.KeywordValue, val.Value)
		obj.set(vocabulary.KeywordType, vocab.Compact(val.Datatype))
		return obj, nil
	case document.Ref:
		if termType == vocabulary.KeywordID {
			return val.ID, nil
		}
		obj := newOrderedObj()
		obj.set(vocabulary.KeywordID, val.ID)
		return obj, nil
	case *document.Node:
		return compactNode(val, vocab)
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
}

func nodeFromCompact(obj *orderedObj, vocab *vocabulary.Snapshot, root bool) (*document.Node, error) {
	n := document.NewNode()
	for _, key := range obj.keys {
		raw := obj.values[key]
		switch key {
		case vocabulary.KeywordContext:
			if !root {
				return nil, fmt.Errorf("@context is only valid at the document root")
			}
			// The snapshot passed by the caller is authoritative.
		case vocabulary.KeywordID:
			id, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("@id must be a string, got %T", raw)
			}
			n.SetID(id)
		case vocabulary.KeywordType:
			types, err := asStrings(raw)
			if err != nil {
				return nil, fmt.Errorf("@type: %w", err)
			}
			for _, t := range types {
				iri, err := vocab.Resolve(t)
				if err != nil {
					return nil, err
				}
				if err := n.AddType(iri); err != nil {
					return nil, err
				}
			}
		default:
			iri, err := vocab.Resolve(key)
			if err != nil {
				return nil, err
			}
			seq, ok := raw.([]any)
			if !ok {
				seq = []any{raw}
			}
			values := make([]document.Value, 0, len(seq))
			for _, item := range seq {
				v, err := valueFromCompact(item, iri, vocab)
				if err != nil {
					return nil, fmt.Errorf("property %s: %w", key, err)
				}
				values = append(values, v)
			}
			n.SetValues(iri, values)
		}
	}
	return n, nil
}

func valueFromCompact(raw any, propIRI string, vocab *vocabulary.Snapshot) (document.Value, error) {
	termType := vocab.TermType(propIRI)
	switch val := raw.(type) {
	case string:
		if termType == vocabulary.KeywordID {
			return document.Ref{ID: val}, nil
		}
		return document.Literal{Value: val, Datatype: termType}, nil
	case float64, bool:
		return document.Literal{Value: val, Datatype: termType}, nil
	case *orderedObj:
		if v, ok := val.get(vocabulary.KeywordValue); ok {
			lit := document.Literal{Value: v}
			if dt, ok := val.get(vocabulary.KeywordType); ok {
				s, ok := dt.(string)
				if !ok {
					return nil, fmt.Errorf("literal @type must be a string, got %T", dt)
				}
				iri, err := vocab.Resolve(s)
				if err != nil {
					return nil, err
				}
				lit.Datatype = iri
			}
			switch lit.Value.(type) {
			case string, float64, bool:
				return lit, nil
			default:
				return nil, fmt.Errorf("unsupported literal value %T", lit.Value)
			}
		}
		if id, ok := val.get(vocabulary.KeywordID); ok && len(val.keys) == 1 {
			s, ok := id.(string)
			if !ok {
				return nil, fmt.Errorf("@id must be a string, got %T", id)
			}
			return document.Ref{ID: s}, nil
		}
		return nodeFromCompact(val, vocab, false)
	default:
		return nil, fmt.Errorf("unsupported compact value %T", raw)
	}
}

func unwrapSingle(arr []any) any {
	if len(arr) == 1 {
		return arr[0]
	}
	return arr
}

func asStrings(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or array of strings, got %T", raw)
	}
}
