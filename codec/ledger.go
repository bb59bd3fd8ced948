package codec

import (
	"fmt"
	"sort"

	"github.com/softmeta/meld/provenance"
)

// EncodeLedger serializes a ledger into its flat on-disk representation: a
// list of {path, winning, alternatives} records in path insertion order.
// Claim values are stored in expanded form; single-element sequences are
// unwrapped.
func EncodeLedger(ledger *provenance.Ledger) ([]byte, error) {
	records := make([]any, 0, ledger.Len())
	for _, path := range ledger.Paths() {
		entry, _ := ledger.Get(path)
		rec := newOrderedObj()
		rec.set("path", path)
		rec.set("id", entry.ID)
		rec.set("winning", encodeClaim(entry.Winning))
		alts := make([]any, 0, len(entry.Alternatives))
		for _, alt := range entry.Alternatives {
			alts = append(alts, encodeClaim(alt))
		}
		rec.set("alternatives", alts)
		records = append(records, rec)
	}
	root := newOrderedObj()
	root.set("records", records)
	return marshalOrdered(root)
}

// DecodeLedger restores a ledger from its flat representation.
func DecodeLedger(data []byte) (*provenance.Ledger, error) {
	parsed, err := parseOrdered(data)
	if err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	root, ok := parsed.(*orderedObj)
	if !ok {
		return nil, fmt.Errorf("ledger must be a JSON object, got %T", parsed)
	}
	rawRecords, ok := root.get("records")
	if !ok {
		return nil, fmt.Errorf("ledger has no records field")
	}
	records, ok := rawRecords.([]any)
	if !ok {
		return nil, fmt.Errorf("ledger records must be an array, got %T", rawRecords)
	}

	ledger := provenance.NewLedger()
	for i, raw := range records {
		rec, ok := raw.(*orderedObj)
		if !ok {
			return nil, fmt.Errorf("ledger record %d must be an object, got %T", i, raw)
		}
		path, _ := rec.get("path")
		pathStr, ok := path.(string)
		if !ok {
			return nil, fmt.Errorf("ledger record %d has no path", i)
		}
		id, _ := rec.get("id")
		idStr, _ := id.(string)

		entry := &provenance.Entry{ID: idStr}
		winningRaw, ok := rec.get("winning")
		if !ok {
			return nil, fmt.Errorf("ledger record %q has no winning claim", pathStr)
		}
		if entry.Winning, err = decodeClaim(winningRaw); err != nil {
			return nil, fmt.Errorf("ledger record %q: %w", pathStr, err)
		}
		if altsRaw, ok := rec.get("alternatives"); ok {
			alts, ok := altsRaw.([]any)
			if !ok {
				return nil, fmt.Errorf("ledger record %q: alternatives must be an array", pathStr)
			}
			for _, altRaw := range alts {
				alt, err := decodeClaim(altRaw)
				if err != nil {
					return nil, fmt.Errorf("ledger record %q: %w", pathStr, err)
				}
				entry.Alternatives = append(entry.Alternatives, alt)
			}
		}
		ledger.Put(pathStr, entry)
	}
	return ledger, nil
}

func encodeClaim(claim provenance.Claim) *orderedObj {
	obj := newOrderedObj()
	values := make([]any, 0, len(claim.Values))
	for _, v := range claim.Values {
		values = append(values, expandValue(v))
	}
	obj.set("value", unwrapSingle(values))
	obj.set("source", claim.Record.Source)
	if len(claim.Record.Detail) > 0 {
		detail := newOrderedObj()
		for _, entry := range sortedDetail(claim.Record.Detail) {
			detail.set(entry[0], entry[1])
		}
		obj.set("detail", detail)
	}
	return obj
}

func decodeClaim(raw any) (provenance.Claim, error) {
	obj, ok := raw.(*orderedObj)
	if !ok {
		return provenance.Claim{}, fmt.Errorf("claim must be an object, got %T", raw)
	}

	var claim provenance.Claim
	valueRaw, ok := obj.get("value")
	if !ok {
		return provenance.Claim{}, fmt.Errorf("claim has no value")
	}
	seq, ok := valueRaw.([]any)
	if !ok {
		seq = []any{valueRaw}
	}
	for _, item := range seq {
		v, err := valueFromExpanded(item)
		if err != nil {
			return provenance.Claim{}, err
		}
		claim.Values = append(claim.Values, v)
	}

	if source, ok := obj.get("source"); ok {
		claim.Record.Source, _ = source.(string)
	}
	if detailRaw, ok := obj.get("detail"); ok {
		detail, ok := detailRaw.(*orderedObj)
		if !ok {
			return provenance.Claim{}, fmt.Errorf("claim detail must be an object, got %T", detailRaw)
		}
		claim.Record.Detail = make(map[string]string, len(detail.keys))
		for _, key := range detail.keys {
			s, _ := detail.values[key].(string)
			claim.Record.Detail[key] = s
		}
	}
	return claim, nil
}

func sortedDetail(detail map[string]string) [][2]string {
	entries := make([][2]string, 0, len(detail))
	for k, v := range detail {
		entries = append(entries, [2]string{k, v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i][0] < entries[j][0] })
	return entries
}
