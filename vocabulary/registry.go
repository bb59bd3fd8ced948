package vocabulary

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed codemeta.json schemaorg.json
var builtinFS embed.FS

// Keywords that bypass vocabulary resolution.
const (
	KeywordID      = "@id"
	KeywordType    = "@type"
	KeywordValue   = "@value"
	KeywordContext = "@context"
)

// Registry accumulates vocabulary sources during startup. Register order is
// significant: unprefixed terms resolve against the default chain in
// registration order, first match wins.
type Registry struct {
	order   []string
	sources map[string]*Source
}

// NewRegistry returns a registry preloaded with the built-in vocabularies.
// The default chain always starts with codemeta followed by schema.org, so
// the empty prefix never resolves against an empty chain.
func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]*Source)}
	for _, name := range []string{"codemeta", "schemaorg"} {
		data, err := builtinFS.ReadFile(name + ".json")
		if err != nil {
			panic("missing built-in vocabulary " + name + ": " + err.Error())
		}
		src, err := ParseSource(name, data)
		if err != nil {
			panic("invalid built-in vocabulary " + name + ": " + err.Error())
		}
		r.order = append(r.order, name)
		r.sources[name] = src
	}
	return r
}

// Register binds a vocabulary source to a prefix. Registering the identical
// source twice is a no-op; a different source under an existing prefix is a
// *ConflictError.
func (r *Registry) Register(prefix string, src *Source) error {
	if prefix == "" {
		return fmt.Errorf("vocabulary prefix must not be empty")
	}
	if strings.Contains(prefix, ":") {
		return fmt.Errorf("vocabulary prefix %q must not contain %q", prefix, ":")
	}
	if existing, ok := r.sources[prefix]; ok {
		if existing.fingerprint() == src.fingerprint() {
			return nil
		}
		return &ConflictError{Prefix: prefix, Existing: existing.Name, Proposed: src.Name}
	}
	r.order = append(r.order, prefix)
	r.sources[prefix] = src
	return nil
}

// Resolve maps a term to its canonical IRI. See Snapshot.Resolve.
func (r *Registry) Resolve(term string) (string, error) {
	return resolve(r.order, r.sources, term)
}

// Compact maps a canonical IRI back to its shortest unambiguous term. See
// Snapshot.Compact.
func (r *Registry) Compact(iri string) string {
	return compact(r.order, r.sources, iri)
}

// Snapshot returns an immutable copy of the current registry state. Later
// Register calls do not affect existing snapshots.
func (r *Registry) Snapshot() *Snapshot {
	s := &Snapshot{
		order:   append([]string(nil), r.order...),
		sources: make(map[string]*Source, len(r.sources)),
	}
	for prefix, src := range r.sources {
		s.sources[prefix] = src
	}
	return s
}

// Snapshot is a frozen view of a Registry. It is the context in effect for a
// document: resolution through a snapshot is a pure function.
type Snapshot struct {
	order   []string
	sources map[string]*Source
}

// Resolve maps a term to its canonical IRI.
//
// A keyword (@id, @type, ...) passes through. A term containing a registered
// prefix separator resolves within that prefix's vocabulary. An absolute IRI
// is accepted if a registered vocabulary owns it. Anything else walks the
// default chain in registration order. Unknown terms fail closed with
// *UnresolvedTermError.
func (s *Snapshot) Resolve(term string) (string, error) {
	return resolve(s.order, s.sources, term)
}

// Compact is the inverse of Resolve: it returns the shortest unambiguous
// term for the IRI, ties broken by vocabulary registration order. An IRI no
// vocabulary can shorten is returned unchanged.
func (s *Snapshot) Compact(iri string) string {
	return compact(s.order, s.sources, iri)
}

// TermType returns the coercion hint declared for the property IRI: "@id"
// for reference-valued terms, a datatype IRI, or "" when none is declared.
func (s *Snapshot) TermType(iri string) string {
	for _, prefix := range s.order {
		for _, def := range s.sources[prefix].Terms {
			if def.IRI == iri && def.Type != "" {
				return def.Type
			}
		}
	}
	return ""
}

// Prefixes returns the registered prefixes in registration order.
func (s *Snapshot) Prefixes() []string {
	return append([]string(nil), s.order...)
}

// Source returns the vocabulary bound to a prefix.
func (s *Snapshot) Source(prefix string) (*Source, bool) {
	src, ok := s.sources[prefix]
	return src, ok
}

// Merge returns a new snapshot containing the vocabularies of both. A prefix
// bound to different content on both sides is a *ConflictError.
func (s *Snapshot) Merge(other *Snapshot) (*Snapshot, error) {
	merged := &Snapshot{
		order:   append([]string(nil), s.order...),
		sources: make(map[string]*Source, len(s.sources)),
	}
	for prefix, src := range s.sources {
		merged.sources[prefix] = src
	}
	for _, prefix := range other.order {
		src := other.sources[prefix]
		if existing, ok := merged.sources[prefix]; ok {
			if existing.fingerprint() != src.fingerprint() {
				return nil, &ConflictError{Prefix: prefix, Existing: existing.Name, Proposed: src.Name}
			}
			continue
		}
		merged.order = append(merged.order, prefix)
		merged.sources[prefix] = src
	}
	return merged, nil
}

// snapshotJSON is the persisted form of a snapshot: enough to re-create
// term resolution deterministically when loading cached artifacts.
type snapshotJSON struct {
	Vocabularies []snapshotVocab `json:"vocabularies"`
}

type snapshotVocab struct {
	Prefix string  `json:"prefix"`
	Source *Source `json:"source"`
}

// MarshalJSON persists the snapshot in registration order.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{Vocabularies: make([]snapshotVocab, 0, len(s.order))}
	for _, prefix := range s.order {
		out.Vocabularies = append(out.Vocabularies, snapshotVocab{Prefix: prefix, Source: s.sources[prefix]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a persisted snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.order = nil
	s.sources = make(map[string]*Source, len(in.Vocabularies))
	for _, v := range in.Vocabularies {
		if v.Source == nil {
			return fmt.Errorf("vocabulary snapshot entry %q has no source", v.Prefix)
		}
		s.order = append(s.order, v.Prefix)
		s.sources[v.Prefix] = v.Source
	}
	return nil
}

func isKeyword(term string) bool {
	return strings.HasPrefix(term, "@")
}

func isAbsolute(term string) bool {
	return strings.Contains(term, "://")
}

func resolve(order []string, sources map[string]*Source, term string) (string, error) {
	if term == "" {
		return "", &UnresolvedTermError{Term: term}
	}
	if isKeyword(term) {
		return term, nil
	}

	if isAbsolute(term) {
		for _, prefix := range order {
			if sources[prefix].owns(term) {
				return term, nil
			}
		}
		return "", &UnresolvedTermError{Term: term}
	}

	if idx := strings.Index(term, ":"); idx >= 0 {
		prefix, name := term[:idx], term[idx+1:]
		src, ok := sources[prefix]
		if !ok {
			return "", &UnresolvedTermError{Term: term}
		}
		if def, ok := src.Terms[name]; ok {
			return def.IRI, nil
		}
		if src.Namespace != "" {
			return src.Namespace + name, nil
		}
		return "", &UnresolvedTermError{Term: term}
	}

	for _, prefix := range order {
		if def, ok := sources[prefix].Terms[term]; ok {
			return def.IRI, nil
		}
	}
	return "", &UnresolvedTermError{Term: term}
}

func compact(order []string, sources map[string]*Source, iri string) string {
	if isKeyword(iri) {
		return iri
	}

	// Prefer an unprefixed short term, but only when it resolves back to
	// the same IRI through the default chain (unambiguous).
	best := ""
	for _, prefix := range order {
		term, ok := sources[prefix].termFor(iri)
		if !ok {
			continue
		}
		resolved, err := resolve(order, sources, term)
		if err != nil || resolved != iri {
			// Shadowed by an earlier vocabulary: fall back to the
			// prefixed form, which is always unambiguous.
			term = prefix + ":" + term
			if resolved, err := resolve(order, sources, term); err != nil || resolved != iri {
				continue
			}
		}
		if best == "" || len(term) < len(best) {
			best = term
		}
	}
	if best != "" {
		return best
	}

	// No explicit term: try a namespace-prefixed shorthand.
	for _, prefix := range order {
		src := sources[prefix]
		if src.Namespace != "" && strings.HasPrefix(iri, src.Namespace) && len(iri) > len(src.Namespace) {
			return prefix + ":" + iri[len(src.Namespace):]
		}
	}
	return iri
}
