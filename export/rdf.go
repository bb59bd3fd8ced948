// Package export serializes merged metadata documents to RDF formats.
package export

import (
	"fmt"
	"strings"

	"github.com/softmeta/meld/codec"
	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/vocabulary"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Triple is one flattened statement. Subject is an IRI or a blank node
// label; Object is a document.Ref for IRI objects, a document.Literal, or
// a blankRef for anonymous node objects.
type Triple struct {
	Subject   string
	Predicate string
	Object    any
}

// blankRef marks an object position referring to an anonymous node by its
// assigned blank node label.
type blankRef struct {
	label string
}

// Exporter serializes a document to RDF. Anonymous nested nodes are
// assigned blank node labels in traversal order, so output is
// deterministic for a given document.
type Exporter struct {
	doc   *document.Document
	vocab *vocabulary.Snapshot
}

// NewExporter creates an exporter for the given document.
func NewExporter(doc *document.Document) *Exporter {
	return &Exporter{doc: doc, vocab: doc.Vocabulary()}
}

// Export serializes the document to the specified format.
func (e *Exporter) Export(format Format) ([]byte, error) {
	switch format {
	case FormatJSONLD:
		return codec.Compact(e.doc, e.vocab)
	case FormatNTriples:
		return []byte(e.toNTriples()), nil
	case FormatTurtle:
		return []byte(e.toTurtle()), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// subjectNode pairs a node with its assigned subject label.
type subjectNode struct {
	subject string
	node    *document.Node
}

// flatten walks the document tree depth-first, assigning blank node labels
// to anonymous nodes, and returns every node with its subject.
func (e *Exporter) flatten() []subjectNode {
	var out []subjectNode
	counter := 0
	var walk func(n *document.Node) string
	walk = func(n *document.Node) string {
		subject := n.ID()
		if subject == "" {
			subject = fmt.Sprintf("_:b%d", counter)
			counter++
		}
		entry := subjectNode{subject: subject, node: n}
		out = append(out, entry)
		for _, prop := range n.Properties() {
			for _, v := range n.Values(prop) {
				if child, ok := v.(*document.Node); ok {
					walk(child)
				}
			}
		}
		return subject
	}
	walk(e.doc.Root())
	return out
}

// triples returns the flattened statement list for the document.
func (e *Exporter) triples() []Triple {
	nodes := e.flatten()

	// Anonymous child nodes need their labels when they appear in object
	// position; flatten assigns labels in the same order we re-encounter
	// the children below, so remember them by pointer.
	labels := make(map[*document.Node]string, len(nodes))
	for _, sn := range nodes {
		labels[sn.node] = sn.subject
	}

	var out []Triple
	for _, sn := range nodes {
		for _, typeIRI := range sn.node.Types() {
			out = append(out, Triple{
				Subject:   sn.subject,
				Predicate: rdfType,
				Object:    document.Ref{ID: typeIRI},
			})
		}
		for _, prop := range sn.node.Properties() {
			for _, v := range sn.node.Values(prop) {
				out = append(out, Triple{
					Subject:   sn.subject,
					Predicate: prop,
					Object:    objectOf(v, labels),
				})
			}
		}
	}
	return out
}

func objectOf(v document.Value, labels map[*document.Node]string) any {
	switch val := v.(type) {
	case document.Literal:
		return val
	case document.Ref:
		return val
	case *document.Node:
		if val.ID() != "" {
			return document.Ref{ID: val.ID()}
		}
		return blankRef{label: labels[val]}
	default:
		return document.String(fmt.Sprintf("%v", v))
	}
}

// toNTriples serializes to N-Triples format, one statement per line.
func (e *Exporter) toNTriples() string {
	var sb strings.Builder
	for _, t := range e.triples() {
		sb.WriteString(fmt.Sprintf("%s <%s> %s .\n",
			formatSubject(t.Subject), t.Predicate, formatObjectNTriples(t.Object)))
	}
	return sb.String()
}

// toTurtle serializes to Turtle format with a prefix header derived from
// the document's vocabulary chain and one block per subject.
func (e *Exporter) toTurtle() string {
	var sb strings.Builder

	for _, prefix := range e.prefixNamespaces() {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix[0], prefix[1]))
	}
	sb.WriteString("\n")

	labels := make(map[*document.Node]string)
	for _, sn := range e.flatten() {
		labels[sn.node] = sn.subject
	}
	for _, sn := range e.flatten() {
		e.writeSubjectTurtle(&sb, sn, labels)
		sb.WriteString("\n")
	}
	return sb.String()
}

// writeSubjectTurtle writes one subject block.
func (e *Exporter) writeSubjectTurtle(sb *strings.Builder, sn subjectNode, labels map[*document.Node]string) {
	type line struct {
		predicate string
		object    string
	}
	var lines []line
	for _, typeIRI := range sn.node.Types() {
		lines = append(lines, line{predicate: "a", object: fmt.Sprintf("<%s>", typeIRI)})
	}
	for _, prop := range sn.node.Properties() {
		for _, v := range sn.node.Values(prop) {
			lines = append(lines, line{
				predicate: fmt.Sprintf("<%s>", prop),
				object:    formatObjectTurtle(objectOf(v, labels)),
			})
		}
	}
	if len(lines) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("%s\n", formatSubject(sn.subject)))
	for i, l := range lines {
		terminator := " ;"
		if i == len(lines)-1 {
			terminator = " ."
		}
		sb.WriteString(fmt.Sprintf("    %s %s%s\n", l.predicate, l.object, terminator))
	}
}

// prefixNamespaces returns the prefix header pairs in registration order.
func (e *Exporter) prefixNamespaces() [][2]string {
	if e.vocab == nil {
		return nil
	}
	var out [][2]string
	for _, prefix := range e.vocab.Prefixes() {
		src, ok := e.vocab.Source(prefix)
		if !ok || src.Namespace == "" {
			continue
		}
		out = append(out, [2]string{prefix, src.Namespace})
	}
	return out
}

// formatSubject renders a subject: blank node labels pass through, IRIs
// are angle-bracketed.
func formatSubject(subject string) string {
	if strings.HasPrefix(subject, "_:") {
		return subject
	}
	return fmt.Sprintf("<%s>", subject)
}

// formatObjectNTriples formats an object for N-Triples output with full
// datatype IRIs.
func formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case document.Ref:
		return fmt.Sprintf("<%s>", v.ID)
	case blankRef:
		return v.label
	case document.Literal:
		return formatLiteral(v, func(datatype string) string {
			return fmt.Sprintf("^^<%s>", datatype)
		})
	default:
		return fmt.Sprintf("\"%v\"", v)
	}
}

// formatObjectTurtle formats an object for Turtle output.
func formatObjectTurtle(obj any) string {
	switch v := obj.(type) {
	case document.Ref:
		return fmt.Sprintf("<%s>", v.ID)
	case blankRef:
		return v.label
	case document.Literal:
		return formatLiteral(v, func(datatype string) string {
			return fmt.Sprintf("^^<%s>", datatype)
		})
	default:
		return fmt.Sprintf("\"%v\"", v)
	}
}

const (
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
)

// formatLiteral renders a literal with its datatype annotation. Untyped
// booleans and numbers pick up the matching XSD datatype; untyped strings
// stay plain.
func formatLiteral(lit document.Literal, annotate func(string) string) string {
	switch val := lit.Value.(type) {
	case string:
		quoted := fmt.Sprintf("\"%s\"", escapeString(val))
		if lit.Datatype != "" {
			return quoted + annotate(lit.Datatype)
		}
		return quoted
	case bool:
		datatype := lit.Datatype
		if datatype == "" {
			datatype = xsdBoolean
		}
		return fmt.Sprintf("\"%t\"%s", val, annotate(datatype))
	case float64:
		datatype := lit.Datatype
		if datatype == "" {
			if val == float64(int64(val)) {
				datatype = xsdInteger
				return fmt.Sprintf("\"%d\"%s", int64(val), annotate(datatype))
			}
			datatype = xsdDouble
		}
		return fmt.Sprintf("\"%v\"%s", val, annotate(datatype))
	default:
		return fmt.Sprintf("\"%v\"", val)
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
