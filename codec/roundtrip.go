package codec

import (
	"encoding/json"
	"reflect"

	"github.com/softmeta/meld/vocabulary"
)

// VerifyRoundTrip checks the round-trip law for a stored artifact pair: the
// compact form, re-expanded under the stored snapshot, must be structurally
// equal to the stored expanded form. A violation means the cache is
// corrupted and is reported as a *MismatchError.
func VerifyRoundTrip(expanded, compactForm []byte, vocab *vocabulary.Snapshot, artifact string) error {
	doc, err := ParseCompact(compactForm, vocab)
	if err != nil {
		return &MismatchError{Artifact: artifact, Reason: "compact form unreadable: " + err.Error()}
	}
	reExpanded, err := Expand(doc)
	if err != nil {
		return &MismatchError{Artifact: artifact, Reason: "re-expansion failed: " + err.Error()}
	}
	equal, err := jsonStructurallyEqual(expanded, reExpanded)
	if err != nil {
		return &MismatchError{Artifact: artifact, Reason: "expanded form unreadable: " + err.Error()}
	}
	if !equal {
		return &MismatchError{Artifact: artifact, Reason: "re-expanded compact form differs from stored expanded form"}
	}
	return nil
}

// jsonStructurallyEqual compares two JSON documents ignoring key order and
// formatting.
func jsonStructurallyEqual(a, b []byte) (bool, error) {
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false, err
	}
	return reflect.DeepEqual(va, vb), nil
}
