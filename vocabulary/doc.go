// Package vocabulary resolves short metadata terms to canonical IRIs and
// back. A Registry binds named vocabularies (context documents) to prefixes
// and keeps an ordered default chain for unprefixed terms. Resolution fails
// closed: a term no registered vocabulary defines is an error, never passed
// through.
//
// Documents never hold a live Registry. They carry an immutable Snapshot so
// term resolution is a pure function of (term, snapshot) rather than of
// process-wide mutable state.
package vocabulary
