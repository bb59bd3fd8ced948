package vocabulary

import "fmt"

// UnresolvedTermError is returned when a term cannot be mapped to a canonical
// IRI by any registered vocabulary. It is fatal for the document being built,
// not for the whole run.
type UnresolvedTermError struct {
	Term string
}

func (e *UnresolvedTermError) Error() string {
	return fmt.Sprintf("unresolved term: %q is not defined by any registered vocabulary", e.Term)
}

// ConflictError is returned when two sources claim the same prefix with
// different vocabulary content.
type ConflictError struct {
	Prefix   string
	Existing string
	Proposed string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vocabulary conflict: prefix %q already bound to %q, cannot rebind to %q",
		e.Prefix, e.Existing, e.Proposed)
}
