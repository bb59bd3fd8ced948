package document

import "fmt"

// StalePathError reports that a structural path no longer addresses the
// value it was derived for. This is a programming-contract violation (a path
// cached across a structural mutation); it is surfaced to the caller and
// never silently recomputed.
type StalePathError struct {
	Path   string
	Reason string
}

func (e *StalePathError) Error() string {
	return fmt.Sprintf("stale structural path %q: %s", e.Path, e.Reason)
}
