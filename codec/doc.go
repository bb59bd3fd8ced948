// Package codec converts metadata documents between their in-memory form,
// the fully expanded canonical JSON used for on-disk caching, and compact
// context-bound JSON for external tools. It also owns the flat on-disk
// representation of provenance ledgers.
//
// Compaction is lossy only in the choice of term form, never in value
// content: for any snapshot covering the vocabularies a document actually
// uses, expand(compact(expand(d))) is structurally equal to expand(d).
package codec
