package document

import (
	"fmt"
	"time"

	"github.com/softmeta/meld/vocabulary"
	"github.com/softmeta/meld/vocabulary/schemaorg"
)

// Value is one entry in a property's value sequence: a Literal, a Ref to a
// named node, or a nested *Node.
type Value interface {
	isValue()
}

// Literal is a scalar value with an optional datatype IRI. The held value is
// always one of string, float64 or bool so that in-memory and decoded-from-
// JSON literals compare equal.
type Literal struct {
	Value    any
	Datatype string
}

func (Literal) isValue() {}

// Ref is a reference to another node by identifier, resolved lazily by the
// consumer.
type Ref struct {
	ID string
}

func (Ref) isValue() {}

func (*Node) isValue() {}

// String builds a plain string literal.
func String(s string) Literal { return Literal{Value: s} }

// Bool builds a boolean literal.
func Bool(b bool) Literal { return Literal{Value: b} }

// Number builds a numeric literal.
func Number(n float64) Literal { return Literal{Value: n} }

// Date builds a date literal in the schema.org Date datatype.
func Date(t time.Time) Literal {
	return Literal{Value: t.Format("2006-01-02"), Datatype: schemaorg.TypeDate}
}

// DateTime builds a timestamp literal in the schema.org DateTime datatype.
func DateTime(t time.Time) Literal {
	return Literal{Value: t.UTC().Format(time.RFC3339), Datatype: schemaorg.TypeDateTime}
}

// wrap converts a native Go value into a Value. Maps become anonymous nested
// nodes with their keys resolved against the snapshot. Sequences are not
// accepted here; they are unrolled by the Set/Append/Extend layer.
func wrap(v any, vocab *vocabulary.Snapshot) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil is not a valid metadata value")
	case Literal:
		return normalizeLiteral(val)
	case Ref:
		return val, nil
	case *Node:
		val.adopt(vocab)
		return val, nil
	case string:
		return Literal{Value: val}, nil
	case bool:
		return Literal{Value: val}, nil
	case int:
		return Literal{Value: float64(val)}, nil
	case int32:
		return Literal{Value: float64(val)}, nil
	case int64:
		return Literal{Value: float64(val)}, nil
	case float32:
		return Literal{Value: float64(val)}, nil
	case float64:
		return Literal{Value: val}, nil
	case time.Time:
		return DateTime(val), nil
	case map[string]any:
		return nodeFromMap(val, vocab)
	default:
		return nil, fmt.Errorf("unsupported metadata value type %T", v)
	}
}

// normalizeLiteral canonicalizes the dynamic type held by a literal.
func normalizeLiteral(l Literal) (Literal, error) {
	switch val := l.Value.(type) {
	case string, bool, float64:
		return l, nil
	case int:
		l.Value = float64(val)
	case int32:
		l.Value = float64(val)
	case int64:
		l.Value = float64(val)
	case float32:
		l.Value = float64(val)
	default:
		return Literal{}, fmt.Errorf("unsupported literal type %T", l.Value)
	}
	return l, nil
}

// coerce applies the vocabulary's declared coercion for a property to a
// freshly wrapped value: string literals become references for @id-typed
// terms, and untyped literals pick up the declared datatype.
func coerce(v Value, propIRI string, vocab *vocabulary.Snapshot) Value {
	if vocab == nil {
		return v
	}
	termType := vocab.TermType(propIRI)
	if termType == "" {
		return v
	}
	lit, ok := v.(Literal)
	if !ok || lit.Datatype != "" {
		return v
	}
	if termType == vocabulary.KeywordID {
		if s, ok := lit.Value.(string); ok {
			return Ref{ID: s}
		}
		return v
	}
	lit.Datatype = termType
	return lit
}

// nodeFromMap recursively converts a plain mapping into an anonymous node.
func nodeFromMap(m map[string]any, vocab *vocabulary.Snapshot) (*Node, error) {
	n := NewNode()
	n.vocab = vocab
	for _, entry := range sortedEntries(m) {
		key, val := entry.key, entry.value
		switch key {
		case vocabulary.KeywordID:
			id, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("@id must be a string, got %T", val)
			}
			n.SetID(id)
		case vocabulary.KeywordType:
			types, err := stringsOf(val)
			if err != nil {
				return nil, fmt.Errorf("@type: %w", err)
			}
			for _, t := range types {
				if err := n.AddType(t); err != nil {
					return nil, err
				}
			}
		default:
			if err := n.Set(key, val); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func stringsOf(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list of strings, got %T", v)
	}
}
