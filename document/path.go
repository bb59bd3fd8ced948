package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one element of a structural path: a property step (Term set) or an
// index step into a value sequence.
type Step struct {
	Term  string
	Index int
}

// IsIndex reports whether the step indexes into a sequence.
func (s Step) IsIndex() bool { return s.Term == "" }

// Path identifies a value's location within a document as a sequence of
// property and index steps from the root. The textual form follows the
// dotted syntax `author[1].email`.
//
// Paths are positional: an insertion or removal in front of a path
// invalidates it. Callers re-derive paths after structural mutation.
type Path []Step

// Property returns a new path extended by a property step.
func (p Path) Property(term string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Term: term})
}

// Index returns a new path extended by an index step.
func (p Path) Index(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Step{Index: i})
}

// String renders the dotted textual form. The zero-length path renders as
// "$" (the document root).
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	for i, step := range p {
		if step.IsIndex() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(step.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(step.Term)
	}
	return b.String()
}

// ParsePath parses the dotted textual form back into a path.
func ParsePath(text string) (Path, error) {
	if text == "" || text == "$" {
		return Path{}, nil
	}
	var p Path
	rest := text
	for rest != "" {
		if rest[0] == '.' {
			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("path %q: trailing separator", text)
			}
			continue
		}
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("path %q: unterminated index", text)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("path %q: invalid index %q", text, rest[1:end])
			}
			p = append(p, Step{Index: idx})
			rest = rest[end+1:]
			continue
		}
		end := strings.IndexAny(rest, ".[")
		if end < 0 {
			end = len(rest)
		}
		term := rest[:end]
		if term == "" {
			return nil, fmt.Errorf("path %q: empty property step", text)
		}
		p = append(p, Step{Term: term})
		rest = rest[end:]
	}
	return p, nil
}

// Resolve walks the path against a document and returns the addressed value
// sequence. A path ending in a property step addresses the property's whole
// sequence; a path ending in an index step addresses a one-element sequence.
// A path that no longer matches the document structure yields a
// *StalePathError.
func (p Path) Resolve(d *Document) ([]Value, error) {
	node := d.root
	var values []Value
	haveSeq := false

	for _, step := range p {
		if step.IsIndex() {
			if !haveSeq {
				return nil, &StalePathError{Path: p.String(), Reason: "index step without preceding property"}
			}
			if step.Index >= len(values) {
				return nil, &StalePathError{
					Path:   p.String(),
					Reason: fmt.Sprintf("index %d out of range (%d values)", step.Index, len(values)),
				}
			}
			v := values[step.Index]
			values = []Value{v}
			node, _ = v.(*Node)
			haveSeq = false
			continue
		}

		if node == nil {
			// A property step can only descend into a nested node.
			if haveSeq && len(values) == 1 {
				node, _ = values[0].(*Node)
			}
			if node == nil {
				return nil, &StalePathError{Path: p.String(), Reason: "property step on a non-node value"}
			}
		}
		iri, err := node.resolve(step.Term)
		if err != nil {
			return nil, &StalePathError{Path: p.String(), Reason: err.Error()}
		}
		values = node.Values(iri)
		if len(values) == 0 {
			return nil, &StalePathError{Path: p.String(), Reason: fmt.Sprintf("no value at property %q", step.Term)}
		}
		node = nil
		haveSeq = true
	}
	return append([]Value(nil), values...), nil
}
