package provenance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
)

func namePath() document.Path {
	return document.Path{}.Property("name")
}

func TestFirstClaimWins(t *testing.T) {
	ledger := provenance.NewLedger()

	ledger.Record(namePath(), []document.Value{document.String("Foo")}, provenance.Record{Source: "a"})
	ledger.Record(namePath(), []document.Value{document.String("Foo Bar")}, provenance.Record{Source: "b"})

	entry, ok := ledger.Lookup(namePath())
	require.True(t, ok)
	assert.Equal(t, "a", entry.Winning.Record.Source)
	assert.Equal(t, document.String("Foo"), entry.Winning.Values[0])
	require.Len(t, entry.Alternatives, 1)
	assert.Equal(t, "b", entry.Alternatives[0].Record.Source)
	assert.Equal(t, document.String("Foo Bar"), entry.Alternatives[0].Values[0])
}

func TestEqualClaimsCollapse(t *testing.T) {
	ledger := provenance.NewLedger()
	values := []document.Value{document.String("Foo")}

	ledger.Record(namePath(), values, provenance.Record{Source: "a"})
	ledger.Record(namePath(), []document.Value{document.String("Foo")}, provenance.Record{Source: "b"})

	entry, _ := ledger.Lookup(namePath())
	// Agreement does not create alternatives
	assert.Empty(t, entry.Alternatives)
	assert.Equal(t, "a", entry.Winning.Record.Source)

	// Nor does an alternative repeat
	ledger.Record(namePath(), []document.Value{document.String("Bar")}, provenance.Record{Source: "c"})
	ledger.Record(namePath(), []document.Value{document.String("Bar")}, provenance.Record{Source: "d"})
	entry, _ = ledger.Lookup(namePath())
	assert.Len(t, entry.Alternatives, 1)
}

func TestPromote(t *testing.T) {
	ledger := provenance.NewLedger()
	ledger.Record(namePath(), []document.Value{document.String("Foo")}, provenance.Record{Source: "a"})
	ledger.Record(namePath(), []document.Value{document.String("Bar")}, provenance.Record{Source: "b"})
	ledger.Record(namePath(), []document.Value{document.String("Baz")}, provenance.Record{Source: "c"})

	promoted, err := ledger.Promote(namePath(), 1)
	require.NoError(t, err)
	assert.Equal(t, document.String("Baz"), promoted.Values[0])

	entry, _ := ledger.Lookup(namePath())
	assert.Equal(t, "c", entry.Winning.Record.Source)
	// The demoted winner moves to the front of the alternatives
	require.Len(t, entry.Alternatives, 2)
	assert.Equal(t, "a", entry.Alternatives[0].Record.Source)
	assert.Equal(t, "b", entry.Alternatives[1].Record.Source)
}

func TestPromoteErrors(t *testing.T) {
	ledger := provenance.NewLedger()

	_, err := ledger.Promote(namePath(), 0)
	assert.Error(t, err)

	ledger.Record(namePath(), []document.Value{document.String("Foo")}, provenance.Record{Source: "a"})
	_, err = ledger.Promote(namePath(), 0)
	assert.Error(t, err, "no alternatives to promote")
}

func TestDeterministicIDs(t *testing.T) {
	a := provenance.NewLedger()
	b := provenance.NewLedger()
	a.Record(namePath(), []document.Value{document.String("x")}, provenance.Record{Source: "s"})
	b.Record(namePath(), []document.Value{document.String("y")}, provenance.Record{Source: "t"})

	ea, _ := a.Lookup(namePath())
	eb, _ := b.Lookup(namePath())
	// The entry ID is a function of the path alone
	assert.Equal(t, ea.ID, eb.ID)
	assert.NotEmpty(t, ea.ID)

	other := document.Path{}.Property("version")
	a.Record(other, []document.Value{document.String("1")}, provenance.Record{Source: "s"})
	eo, _ := a.Lookup(other)
	assert.NotEqual(t, ea.ID, eo.ID)
}

func TestPathsKeepInsertionOrder(t *testing.T) {
	ledger := provenance.NewLedger()
	paths := []document.Path{
		document.Path{}.Property("version"),
		document.Path{}.Property("name"),
		document.Path{}.Property("author").Index(0).Property("email"),
	}
	for _, p := range paths {
		ledger.Record(p, []document.Value{document.String("v")}, provenance.Record{Source: "s"})
	}

	assert.Equal(t, []string{"version", "name", "author[0].email"}, ledger.Paths())
	assert.Equal(t, 3, ledger.Len())
}
