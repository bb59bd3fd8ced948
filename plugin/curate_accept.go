package plugin

import (
	"context"
	"fmt"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
)

func init() {
	if err := Curators.Register("accept", &AcceptCurator{}); err != nil {
		panic(err)
	}
}

// AcceptCurator applies configured promotion decisions: for each listed
// path, the chosen alternative becomes the winning value both in the ledger
// and in the document. With no promotions configured it accepts the merge
// result as-is.
type AcceptCurator struct{}

// Name returns the registry name.
func (c *AcceptCurator) Name() string { return "accept" }

// Curate promotes the alternatives listed under the "promote" option, each
// entry a mapping with "path" and "alternative" keys.
func (c *AcceptCurator) Curate(ctx context.Context, pctx *Context, doc *document.Document, ledger *provenance.Ledger) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, ok := pctx.Options["promote"]
	if !ok {
		return doc, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("promote option must be a list, got %T", raw)
	}

	for i, rawEntry := range entries {
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("promote entry %d must be a mapping, got %T", i, rawEntry)
		}
		pathText, ok := entry["path"].(string)
		if !ok {
			return nil, fmt.Errorf("promote entry %d has no path", i)
		}
		index, ok := asInt(entry["alternative"])
		if !ok {
			return nil, fmt.Errorf("promote entry %d has no alternative index", i)
		}

		path, err := document.ParsePath(pathText)
		if err != nil {
			return nil, fmt.Errorf("promote entry %d: %w", i, err)
		}
		claim, err := ledger.Promote(path, index)
		if err != nil {
			return nil, fmt.Errorf("promote entry %d: %w", i, err)
		}
		if err := doc.SetAtPath(path, claim.Values); err != nil {
			return nil, fmt.Errorf("promote entry %d: %w", i, err)
		}
		pctx.Logger.Info("promoted alternative",
			"path", pathText, "alternative", index, "source", claim.Record.Source)
	}
	return doc, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
