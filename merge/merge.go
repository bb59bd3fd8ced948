package merge

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
	"github.com/softmeta/meld/vocabulary"
)

// Input is one harvested document tagged with its source identifier.
type Input struct {
	Doc    *document.Document
	Source string
}

// Merge performs a structural union of the input documents under the given
// options and returns the merged document, the populated provenance ledger
// and a report of contributing and skipped sources.
//
// The merge never mutates its inputs; all values entering the merged
// document are deep copies.
func Merge(inputs []Input, opts Options, logger *slog.Logger) (*document.Document, *provenance.Ledger, *Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(inputs) == 0 {
		return nil, nil, nil, fmt.Errorf("merge requires at least one input document")
	}

	rank := make(map[string]int, len(inputs))
	for i, source := range opts.Priority {
		if _, ok := rank[source]; !ok {
			rank[source] = i
		}
	}
	next := len(opts.Priority)
	for _, in := range inputs {
		if _, ok := rank[in.Source]; !ok {
			rank[in.Source] = next
			next++
		}
	}

	ordered := append([]Input(nil), inputs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i].Source] < rank[ordered[j].Source]
	})

	report := &Report{}
	var snap *vocabulary.Snapshot
	var members []member
	for _, in := range ordered {
		if in.Doc == nil {
			report.Skipped = append(report.Skipped, SkippedSource{Source: in.Source, Reason: "no document produced"})
			continue
		}
		if err := in.Doc.Validate(); err != nil {
			logger.Warn("skipping source: document fails vocabulary resolution",
				slog.String("source", in.Source), slog.String("error", err.Error()))
			report.Skipped = append(report.Skipped, SkippedSource{Source: in.Source, Reason: err.Error()})
			continue
		}
		if snap == nil {
			snap = in.Doc.Vocabulary()
		} else {
			merged, err := snap.Merge(in.Doc.Vocabulary())
			if err != nil {
				logger.Warn("skipping source: vocabulary conflict",
					slog.String("source", in.Source), slog.String("error", err.Error()))
				report.Skipped = append(report.Skipped, SkippedSource{Source: in.Source, Reason: err.Error()})
				continue
			}
			snap = merged
		}
		members = append(members, member{node: in.Doc.Root(), source: in.Source, rank: rank[in.Source]})
		report.Merged = append(report.Merged, in.Source)
	}
	if len(members) == 0 {
		return nil, nil, report, fmt.Errorf("all %d sources were skipped", len(inputs))
	}

	e := &engine{
		vocab:      snap,
		ledger:     provenance.NewLedger(),
		repeatable: make(map[string]bool, len(opts.Repeatable)),
		matchKeys:  make(map[string][]string, len(opts.MatchKeys)),
	}
	for _, term := range opts.Repeatable {
		iri, err := snap.Resolve(term)
		if err != nil {
			return nil, nil, report, fmt.Errorf("repeatable term: %w", err)
		}
		e.repeatable[iri] = true
	}
	for term, keys := range opts.MatchKeys {
		iri, err := snap.Resolve(term)
		if err != nil {
			return nil, nil, report, fmt.Errorf("match key term: %w", err)
		}
		keyIRIs := make([]string, 0, len(keys))
		for _, key := range keys {
			keyIRI, err := snap.Resolve(key)
			if err != nil {
				return nil, nil, report, fmt.Errorf("match key for %s: %w", term, err)
			}
			keyIRIs = append(keyIRIs, keyIRI)
		}
		e.matchKeys[iri] = keyIRIs
	}

	root := e.mergeNodes(members, document.Path{})
	return document.FromNode(root, snap), e.ledger, report, nil
}

type engine struct {
	vocab      *vocabulary.Snapshot
	ledger     *provenance.Ledger
	repeatable map[string]bool
	matchKeys  map[string][]string
}

// member is one node participating in an aligned merge group, tagged with
// its origin. Members are always processed in rank order.
type member struct {
	node   *document.Node
	source string
	rank   int
}

func (e *engine) mergeNodes(members []member, at document.Path) *document.Node {
	out := document.NewNode()
	for _, m := range members {
		if m.node.ID() != "" {
			out.SetID(m.node.ID())
			break
		}
	}
	for _, m := range members {
		for _, t := range m.node.Types() {
			_ = out.AddType(t) // type IRIs are canonical already
		}
	}

	var propOrder []string
	seen := make(map[string]bool)
	for _, m := range members {
		for _, iri := range m.node.Properties() {
			if !seen[iri] {
				seen[iri] = true
				propOrder = append(propOrder, iri)
			}
		}
	}
	for _, iri := range propOrder {
		e.mergeProperty(out, members, iri, at)
	}
	return out
}

func (e *engine) mergeProperty(out *document.Node, members []member, iri string, at document.Path) {
	propPath := at.Property(e.vocab.Compact(iri))

	var claimants []member
	allNodes := true
	for _, m := range members {
		values := m.node.Values(iri)
		if len(values) == 0 {
			continue
		}
		claimants = append(claimants, m)
		for _, v := range values {
			if _, ok := v.(*document.Node); !ok {
				allNodes = false
			}
		}
	}
	if len(claimants) == 0 {
		return
	}

	switch {
	case allNodes:
		e.mergeNodeSet(out, claimants, iri, propPath)
	case e.repeatable[iri]:
		e.mergeRepeatable(out, claimants, iri, propPath)
	default:
		e.mergeScalar(out, claimants, iri, propPath)
	}
}

// mergeScalar elects a single winning value sequence for the property. The
// claim unit is the whole sequence, so a multi-valued property from one
// source stays intact. Losing sequences land in the ledger as alternatives.
func (e *engine) mergeScalar(out *document.Node, claimants []member, iri string, propPath document.Path) {
	out.SetValues(iri, cloneValues(claimants[0].node.Values(iri)))
	for _, m := range claimants {
		e.ledger.Record(propPath, cloneValues(m.node.Values(iri)), provenance.Record{Source: m.source})
	}
}

// mergeRepeatable keeps one representative per distinct equality class,
// ordered by the best source priority of each class. Each retained entry is
// provenance-tracked independently.
func (e *engine) mergeRepeatable(out *document.Node, claimants []member, iri string, propPath document.Path) {
	type valueClaim struct {
		value  document.Value
		source string
	}
	var reps []document.Value
	var classes [][]valueClaim

	for _, m := range claimants {
		for _, v := range m.node.Values(iri) {
			matched := false
			for k, rep := range reps {
				if document.Equal(rep, v) {
					classes[k] = append(classes[k], valueClaim{value: v, source: m.source})
					matched = true
					break
				}
			}
			if !matched {
				reps = append(reps, v)
				classes = append(classes, []valueClaim{{value: v, source: m.source}})
			}
		}
	}

	out.SetValues(iri, cloneValues(reps))
	for k := range reps {
		entryPath := propPath.Index(k)
		for _, claim := range classes[k] {
			e.ledger.Record(entryPath, cloneValues([]document.Value{claim.value}), provenance.Record{Source: claim.source})
		}
	}
}

// mergeNodeSet aligns node-valued sequences across sources into logical
// entries and merges each entry recursively. Alignment is by @id when
// present, then by configured match keys, then by position — positional
// alignment treats the same index as the same logical entry only when no
// identifier is available.
func (e *engine) mergeNodeSet(out *document.Node, claimants []member, iri string, propPath document.Path) {
	type entry struct {
		members []member
	}
	keys := e.matchKeys[iri]
	var entries []*entry

	align := func(n *document.Node, pos int) int {
		if n.ID() != "" {
			for i, en := range entries {
				if en.members[0].node.ID() == n.ID() {
					return i
				}
			}
			return -1
		}
		if len(keys) > 0 {
			for i, en := range entries {
				for _, m := range en.members {
					if matchByKeys(m.node, n, keys) {
						return i
					}
				}
			}
			return -1
		}
		if pos < len(entries) && entries[pos].members[0].node.ID() == "" {
			return pos
		}
		return -1
	}

	for _, m := range claimants {
		for pos, v := range m.node.Values(iri) {
			n := v.(*document.Node)
			tagged := member{node: n, source: m.source, rank: m.rank}
			if i := align(n, pos); i >= 0 {
				entries[i].members = append(entries[i].members, tagged)
			} else {
				entries = append(entries, &entry{members: []member{tagged}})
			}
		}
	}

	merged := make([]document.Value, 0, len(entries))
	for i, en := range entries {
		merged = append(merged, e.mergeNodes(en.members, propPath.Index(i)))
	}
	out.SetValues(iri, merged)
}

// matchByKeys reports whether two nodes describe the same logical entry: at
// least one identity key present on both sides, and every shared key equal.
func matchByKeys(a, b *document.Node, keyIRIs []string) bool {
	active := 0
	for _, key := range keyIRIs {
		va, vb := a.Values(key), b.Values(key)
		if len(va) == 0 || len(vb) == 0 {
			continue
		}
		if !document.EqualValues(va, vb) {
			return false
		}
		active++
	}
	return active > 0
}

func cloneValues(values []document.Value) []document.Value {
	out := make([]document.Value, 0, len(values))
	for _, v := range values {
		if n, ok := v.(*document.Node); ok {
			out = append(out, n.Clone())
			continue
		}
		out = append(out, v)
	}
	return out
}
