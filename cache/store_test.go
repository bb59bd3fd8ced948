package cache_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmeta/meld/cache"
	"github.com/softmeta/meld/codec"
	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
	"github.com/softmeta/meld/vocabulary"
)

func newStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.NewStore(t.TempDir(), nil)
}

func sampleDocument(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New(vocabulary.NewRegistry().Snapshot())
	require.NoError(t, doc.Set("name", "Meld"))
	require.NoError(t, doc.Set("version", "1.0.0"))
	require.NoError(t, doc.Set("keywords", "metadata"))
	require.NoError(t, doc.Append("keywords", "caching"))
	require.NoError(t, doc.Set("author", map[string]any{
		"@type": "Person",
		"name":  "Jane Doe",
		"email": "jane@example.org",
	}))
	return doc
}

func TestSaveLoadDocument(t *testing.T) {
	store := newStore(t)
	doc := sampleDocument(t)

	require.NoError(t, store.SaveDocument("harvest", "codemeta", doc))

	for _, name := range []string{"codemeta.json", "codemeta_compact.json", "codemeta_context.json"} {
		_, err := os.Stat(filepath.Join(store.Dir(), "harvest", name))
		assert.NoError(t, err, name)
	}

	loaded, err := store.LoadDocument("harvest", "codemeta")
	require.NoError(t, err)
	assert.True(t, document.Equal(doc.Root(), loaded.Root()))
}

func TestLoadDocumentMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.LoadDocument("harvest", "codemeta")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDocumentDetectsTampering(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveDocument("harvest", "codemeta", sampleDocument(t)))

	compactPath := filepath.Join(store.Dir(), "harvest", "codemeta_compact.json")
	data, err := os.ReadFile(compactPath)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "Meld", "Tampered", 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, os.WriteFile(compactPath, []byte(tampered), 0o644))

	_, err = store.LoadDocument("harvest", "codemeta")
	require.Error(t, err)
	var mismatch *codec.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "harvest/codemeta", mismatch.Artifact)
}

func TestSaveLoadLedger(t *testing.T) {
	store := newStore(t)

	ledger := provenance.NewLedger()
	namePath := document.Path{}.Property("name")
	ledger.Record(namePath,
		[]document.Value{document.Literal{Value: "Meld"}},
		provenance.Record{Source: "codemeta", Detail: map[string]string{"file": "codemeta.json"}},
	)
	ledger.Record(namePath,
		[]document.Value{document.Literal{Value: "meld-cli"}},
		provenance.Record{Source: "git"},
	)

	require.NoError(t, store.SaveLedger("process", ledger))

	loaded, err := store.LoadLedger("process")
	require.NoError(t, err)
	paths := loaded.Paths()
	require.Equal(t, []string{"name"}, paths)
	entry, ok := loaded.Get(paths[0])
	require.True(t, ok)
	assert.Equal(t, "codemeta", entry.Winning.Record.Source)
	require.Len(t, entry.Alternatives, 1)
	assert.Equal(t, "git", entry.Alternatives[0].Record.Source)
}

func TestLoadLedgerMissing(t *testing.T) {
	store := newStore(t)

	_, err := store.LoadLedger("process")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestListDocuments(t *testing.T) {
	store := newStore(t)
	doc := sampleDocument(t)
	require.NoError(t, store.SaveDocument("harvest", "git", doc))
	require.NoError(t, store.SaveDocument("harvest", "codemeta", doc))
	require.NoError(t, store.SaveLedger("harvest", provenance.NewLedger()))

	names, err := store.ListDocuments("harvest")
	require.NoError(t, err)
	assert.Equal(t, []string{"codemeta", "git"}, names)

	empty, err := store.ListDocuments("process")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPurge(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.SaveDocument("harvest", "codemeta", sampleDocument(t)))

	require.NoError(t, store.Purge())
	_, err := os.Stat(store.Dir())
	assert.True(t, os.IsNotExist(err))

	// purging an absent cache is a no-op
	require.NoError(t, store.Purge())
}
