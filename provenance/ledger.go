// Package provenance tracks where every merged metadata value came from.
//
// A Ledger is a side-table keyed by structural path into a document. For
// each tracked path it holds the winning claim and any number of demoted
// alternatives, each with its own origin record. A disagreeing value is
// never dropped: it is always retrievable as an alternative.
package provenance

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/softmeta/meld/document"
)

// ledgerNamespace seeds the deterministic entry identifiers. Two runs over
// the same inputs produce identical ledgers, IDs included.
var ledgerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://softmeta.dev/meld/ledger"))

// Record describes the origin of a claim: the plugin that produced it plus
// free-form origin facts (file, commit, line...).
type Record struct {
	Source string
	Detail map[string]string
}

// Claim is a value sequence together with its origin. Single semantic values
// are one-element sequences, as everywhere in the document model.
type Claim struct {
	Values []document.Value
	Record Record
}

// Entry is the full provenance state for one structural path.
type Entry struct {
	// ID is a stable identifier for the entry, derived from the path.
	ID string

	Winning      Claim
	Alternatives []Claim
}

// Ledger maps structural paths to provenance entries. Paths keep their
// insertion order so serialization is deterministic.
type Ledger struct {
	order   []string
	entries map[string]*Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Record attaches a claim to a path. The first claim for a path wins. A
// later claim deep-equal to the current winner is collapsed (no duplicate
// alternatives when sources agree); a differing claim is appended as an
// alternative, never silently replacing the winner.
func (l *Ledger) Record(path document.Path, values []document.Value, rec Record) {
	key := path.String()
	entry, ok := l.entries[key]
	if !ok {
		l.order = append(l.order, key)
		l.entries[key] = &Entry{
			ID:      uuid.NewSHA1(ledgerNamespace, []byte(key)).String(),
			Winning: Claim{Values: values, Record: rec},
		}
		return
	}

	if document.EqualValues(entry.Winning.Values, values) {
		return
	}
	for _, alt := range entry.Alternatives {
		if document.EqualValues(alt.Values, values) {
			return
		}
	}
	entry.Alternatives = append(entry.Alternatives, Claim{Values: values, Record: rec})
}

// Lookup returns the entry for a path. Absence is not an error: untracked
// values simply have no recorded provenance.
func (l *Ledger) Lookup(path document.Path) (*Entry, bool) {
	entry, ok := l.entries[path.String()]
	return entry, ok
}

// Promote re-ranks the alternative at the given index to become the new
// winner. The previous winner is demoted to the front of the alternatives.
// The promoted claim is returned so the caller can write its values back
// into the document.
func (l *Ledger) Promote(path document.Path, index int) (Claim, error) {
	key := path.String()
	entry, ok := l.entries[key]
	if !ok {
		return Claim{}, fmt.Errorf("no provenance entry for path %q", key)
	}
	if index < 0 || index >= len(entry.Alternatives) {
		return Claim{}, fmt.Errorf("path %q has %d alternatives, index %d out of range",
			key, len(entry.Alternatives), index)
	}

	promoted := entry.Alternatives[index]
	demoted := entry.Winning
	rest := append([]Claim(nil), entry.Alternatives[:index]...)
	rest = append(rest, entry.Alternatives[index+1:]...)
	entry.Winning = promoted
	entry.Alternatives = append([]Claim{demoted}, rest...)
	return promoted, nil
}

// Paths returns all tracked path strings in insertion order.
func (l *Ledger) Paths() []string {
	return append([]string(nil), l.order...)
}

// Len returns the number of tracked paths.
func (l *Ledger) Len() int { return len(l.order) }

// Get returns the entry for a path string, for iteration alongside Paths.
func (l *Ledger) Get(path string) (*Entry, bool) {
	entry, ok := l.entries[path]
	return entry, ok
}

// Put installs a fully-formed entry, keeping insertion order. Used when
// restoring a persisted ledger.
func (l *Ledger) Put(path string, entry *Entry) {
	if _, ok := l.entries[path]; !ok {
		l.order = append(l.order, path)
	}
	l.entries[path] = entry
}
