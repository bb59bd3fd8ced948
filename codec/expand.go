package codec

import (
	"fmt"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/vocabulary"
)

// Expand serializes a document into the fully expanded canonical form:
// every property a canonical IRI, every value array-typed, no term
// ambiguity. This is the interchange form used for all on-disk caching.
func Expand(doc *document.Document) ([]byte, error) {
	return marshalOrdered(expandNode(doc.Root()))
}

// Parse reads an expanded-form document back, binding it to the given
// vocabulary snapshot.
func Parse(data []byte, vocab *vocabulary.Snapshot) (*document.Document, error) {
	parsed, err := parseOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("parsing expanded form: %w", err)
	}
	obj, ok := parsed.(*orderedObj)
	if !ok {
		return nil, fmt.Errorf("expanded form must be a JSON object, got %T", parsed)
	}
	root, err := nodeFromExpanded(obj)
	if err != nil {
		return nil, err
	}
	return document.FromNode(root, vocab), nil
}

func expandNode(n *document.Node) *orderedObj {
	obj := newOrderedObj()
	if n.ID() != "" {
		obj.set(vocabulary.KeywordID, n.ID())
	}
	if types := n.Types(); len(types) > 0 {
		arr := make([]any, 0, len(types))
		for _, t := range types {
			arr = append(arr, t)
		}
		obj.set(vocabulary.KeywordType, arr)
	}
	for _, iri := range n.Properties() {
		values := n.Values(iri)
		arr := make([]any, 0, len(values))
		for _, v := range values {
			arr = append(arr, expandValue(v))
		}
		obj.set(iri, arr)
	}
	return obj
}

func expandValue(v document.Value) any {
	switch val := v.(type) {
	case document.Literal:
		obj := newOrderedObj()
		obj.set(vocabulary.KeywordValue, val.Value)
		if val.Datatype != "" {
			obj.set(vocabulary.KeywordType, val.Datatype)
		}
		return obj
	case document.Ref:
		obj := newOrderedObj()
		obj.set(vocabulary.KeywordID, val.ID)
		return obj
	case *document.Node:
		return expandNode(val)
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

func nodeFromExpanded(obj *orderedObj) (*document.Node, error) {
	n := document.NewNode()
	for _, key := range obj.keys {
		raw := obj.values[key]
		switch key {
		case vocabulary.KeywordID:
			id, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("@id must be a string, got %T", raw)
			}
			n.SetID(id)
		case vocabulary.KeywordType:
			arr, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("@type must be an array in expanded form, got %T", raw)
			}
			for _, item := range arr {
				iri, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("@type entry must be a string, got %T", item)
				}
				if err := n.AddType(iri); err != nil {
					return nil, err
				}
			}
		default:
			arr, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("property %s must be array-typed in expanded form, got %T", key, raw)
			}
			values := make([]document.Value, 0, len(arr))
			for _, item := range arr {
				v, err := valueFromExpanded(item)
				if err != nil {
					return nil, fmt.Errorf("property %s: %w", key, err)
				}
				values = append(values, v)
			}
			n.SetValues(key, values)
		}
	}
	return n, nil
}

func valueFromExpanded(raw any) (document.Value, error) {
	obj, ok := raw.(*orderedObj)
	if !ok {
		return nil, fmt.Errorf("expanded value must be an object, got %T", raw)
	}

	if val, ok := obj.get(vocabulary.KeywordValue); ok {
		lit := document.Literal{Value: val}
		if dt, ok := obj.get(vocabulary.KeywordType); ok {
			s, ok := dt.(string)
			if !ok {
				return nil, fmt.Errorf("literal @type must be a string, got %T", dt)
			}
			lit.Datatype = s
		}
		switch lit.Value.(type) {
		case string, float64, bool:
			return lit, nil
		default:
			return nil, fmt.Errorf("unsupported literal value %T", lit.Value)
		}
	}

	if id, ok := obj.get(vocabulary.KeywordID); ok && len(obj.keys) == 1 {
		s, ok := id.(string)
		if !ok {
			return nil, fmt.Errorf("@id must be a string, got %T", id)
		}
		return document.Ref{ID: s}, nil
	}

	return nodeFromExpanded(obj)
}
