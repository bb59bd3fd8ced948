package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// orderedObj is a JSON object with its key order preserved. Document
// property order is significant for deterministic serialization, and
// encoding/json maps would destroy it.
type orderedObj struct {
	keys   []string
	values map[string]any
}

func newOrderedObj() *orderedObj {
	return &orderedObj{values: make(map[string]any)}
}

func (o *orderedObj) get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *orderedObj) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// parseOrdered parses a JSON document into nested orderedObj / []any /
// scalar values.
func parseOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	value, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON document")
	}
	return value, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// string, float64, bool or nil.
		return t, nil
	}
}

func parseObject(dec *json.Decoder) (*orderedObj, error) {
	obj := newOrderedObj()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		obj.set(key, value)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// writeValue serializes nested orderedObj / []any / scalars back to JSON,
// preserving key order.
func writeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *orderedObj:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := writeValue(buf, v.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		leaf, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(leaf)
		return nil
	}
}

func marshalOrdered(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
