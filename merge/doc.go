// Package merge combines independently harvested metadata documents into a
// single curated document plus a populated provenance ledger.
//
// The merge is a pure function of its inputs and the source priority
// ordering: identical inputs and ordering always produce an identical
// merged document and ledger. Disagreeing values are never dropped; every
// value that loses the priority contest is retained as an alternative in
// the ledger. A source that fails vocabulary resolution is skipped with a
// diagnostic and the merge of the remaining sources proceeds.
package merge
