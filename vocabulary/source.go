package vocabulary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// TermDef describes a single vocabulary term.
type TermDef struct {
	// IRI is the canonical identifier the term expands to.
	IRI string `json:"iri"`

	// Type is an optional coercion hint. "@id" marks a reference-valued
	// term; any other value is a literal datatype IRI.
	Type string `json:"type,omitempty"`
}

// Source is one vocabulary: a named set of term definitions sharing a base
// namespace. Sources are loaded once per run and treated as immutable
// afterwards.
type Source struct {
	// Name identifies the vocabulary, e.g. "codemeta".
	Name string `json:"name"`

	// Namespace is the base IRI owned by this vocabulary. Prefixed terms
	// that have no explicit definition resolve as Namespace + name.
	Namespace string `json:"namespace"`

	// Terms maps short terms to their definitions.
	Terms map[string]TermDef `json:"terms"`
}

// contextDocument is the on-disk shape of a vocabulary source: a JSON-LD
// style context object where each entry is either a plain IRI string or an
// object with @id and optional @type.
type contextDocument struct {
	Context map[string]json.RawMessage `json:"@context"`
}

// ParseSource parses a context document into a Source.
func ParseSource(name string, data []byte) (*Source, error) {
	var doc contextDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing context document for %q: %w", name, err)
	}
	if doc.Context == nil {
		return nil, fmt.Errorf("context document for %q has no @context", name)
	}

	src := &Source{
		Name:  name,
		Terms: make(map[string]TermDef, len(doc.Context)),
	}
	for term, raw := range doc.Context {
		if term == "@vocab" {
			if err := json.Unmarshal(raw, &src.Namespace); err != nil {
				return nil, fmt.Errorf("context %q: invalid @vocab: %w", name, err)
			}
			continue
		}

		var iri string
		if err := json.Unmarshal(raw, &iri); err == nil {
			src.Terms[term] = TermDef{IRI: iri}
			continue
		}

		var def struct {
			ID   string `json:"@id"`
			Type string `json:"@type"`
		}
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("context %q: invalid definition for term %q: %w", name, term, err)
		}
		if def.ID == "" {
			return nil, fmt.Errorf("context %q: term %q has no @id", name, term)
		}
		src.Terms[term] = TermDef{IRI: def.ID, Type: def.Type}
	}
	return src, nil
}

// LoadSourceFile reads and parses a context document from disk.
func LoadSourceFile(name, path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context document %s: %w", path, err)
	}
	return ParseSource(name, data)
}

// owns reports whether the IRI falls inside this vocabulary, either via an
// explicit term definition or via the namespace.
func (s *Source) owns(iri string) bool {
	for _, def := range s.Terms {
		if def.IRI == iri {
			return true
		}
	}
	return s.Namespace != "" && len(iri) > len(s.Namespace) && iri[:len(s.Namespace)] == s.Namespace
}

// termFor returns the short term defined for the IRI, if any. When several
// terms map to the same IRI the shortest wins, length ties broken
// alphabetically so the choice is stable.
func (s *Source) termFor(iri string) (string, bool) {
	var matches []string
	for term, def := range s.Terms {
		if def.IRI == iri {
			matches = append(matches, term)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches[0], true
}

// fingerprint produces a stable content identity used for conflict
// detection: re-registering the identical vocabulary under the same prefix
// is a no-op, a different one is a conflict.
func (s *Source) fingerprint() string {
	terms := make([]string, 0, len(s.Terms))
	for term, def := range s.Terms {
		terms = append(terms, term+"="+def.IRI+";"+def.Type)
	}
	sort.Strings(terms)
	out := s.Namespace
	for _, t := range terms {
		out += "|" + t
	}
	return out
}
