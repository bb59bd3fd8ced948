package merge

// Options steer the merge algorithm. All terms are resolved against the
// merged vocabulary snapshot before the merge proper starts, so option
// typos surface as configuration errors rather than silent misbehavior.
type Options struct {
	// Priority orders source identifiers from most to least authoritative.
	// Sources not listed rank after all listed ones, in input order. An
	// empty priority means plain input order.
	Priority []string

	// Repeatable lists terms for which all distinct values are kept as
	// separate sequence entries instead of electing a single winner.
	Repeatable []string

	// MatchKeys maps a term to the identity terms used to align nested
	// nodes that carry no @id, e.g. "author" -> ["email", "name"]. Two
	// nodes align when at least one key is present on both sides and all
	// shared keys agree.
	MatchKeys map[string][]string
}

// DefaultOptions mirror the alignment rules of common software metadata:
// people-valued properties align by email or name, keywords accumulate.
func DefaultOptions() Options {
	return Options{
		Repeatable: []string{"keywords"},
		MatchKeys: map[string][]string{
			"author":      {"email", "name"},
			"contributor": {"email", "name"},
			"maintainer":  {"email", "name"},
		},
	}
}

// SkippedSource describes a source excluded from the merge.
type SkippedSource struct {
	Source string
	Reason string
}

// Report summarizes which sources contributed to a merge and which were
// skipped and why.
type Report struct {
	Merged  []string
	Skipped []SkippedSource
}
