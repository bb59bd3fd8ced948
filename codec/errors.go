package codec

import "fmt"

// MismatchError reports a round-trip law violation while loading cached
// artifacts: the compact form re-expanded under its stored context does not
// reproduce the stored expanded form. It signals a corrupted cache and is
// surfaced as a data-integrity error, never auto-repaired.
type MismatchError struct {
	Artifact string
	Reason   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("serialization mismatch in %s: %s", e.Artifact, e.Reason)
}
