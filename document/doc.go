// Package document implements the provenance-aware metadata document model.
//
// A Document owns a root Node and the vocabulary snapshot in effect. A Node
// maps canonical property IRIs to ordered value sequences; a value is a
// literal, a reference to another node, or a nested anonymous node. Every
// property holds a sequence, never a bare scalar: single semantic values are
// one-element sequences. All public access is term-addressed through the
// document's vocabulary snapshot, and nested nodes expose the identical
// contract recursively.
package document
