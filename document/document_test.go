package document_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/vocabulary"
	"github.com/softmeta/meld/vocabulary/schemaorg"
)

func newDoc(t *testing.T) *document.Document {
	t.Helper()
	return document.New(vocabulary.NewRegistry().Snapshot())
}

func TestValuesAreAlwaysSequences(t *testing.T) {
	doc := newDoc(t)

	require.NoError(t, doc.Set("name", "Foo"))
	values, err := doc.Get("name")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, document.String("Foo"), values[0])

	require.NoError(t, doc.Set("keywords", []any{"a", "b"}))
	values, err = doc.Get("keywords")
	require.NoError(t, err)
	require.Len(t, values, 2)

	// Absent property reads as an empty sequence, not an error
	values, err = doc.Get("version")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestUnknownTermFailsClosed(t *testing.T) {
	doc := newDoc(t)

	var unresolved *vocabulary.UnresolvedTermError
	err := doc.Set("notATerm", "x")
	require.Error(t, err)
	assert.ErrorAs(t, err, &unresolved)

	_, err = doc.Get("notATerm")
	assert.Error(t, err)
}

func TestAppendAndExtend(t *testing.T) {
	doc := newDoc(t)

	require.NoError(t, doc.Append("keywords", "metadata"))
	require.NoError(t, doc.Extend("keywords", []any{"software", "research"}))

	values, err := doc.Get("keywords")
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, document.String("research"), values[2])
}

func TestDeleteIsIdempotent(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("name", "Foo"))

	require.NoError(t, doc.Delete("name"))
	require.NoError(t, doc.Delete("name"))

	has, err := doc.Has("name")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCoercion(t *testing.T) {
	doc := newDoc(t)

	// @id-typed terms coerce string literals to references
	require.NoError(t, doc.Set("license", "https://spdx.org/licenses/MIT"))
	values, err := doc.Get("license")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, document.Ref{ID: "https://spdx.org/licenses/MIT"}, values[0])

	// Datatype-declared terms pick up the declared datatype
	require.NoError(t, doc.Set("dateCreated", "2023-05-01"))
	values, err = doc.Get("dateCreated")
	require.NoError(t, err)
	require.Len(t, values, 1)
	lit, ok := values[0].(document.Literal)
	require.True(t, ok)
	assert.Equal(t, "2023-05-01", lit.Value)
	assert.Equal(t, schemaorg.TypeDate, lit.Datatype)
}

func TestNumericCanonicalization(t *testing.T) {
	doc := newDoc(t)

	require.NoError(t, doc.Set("version", 3))
	values, err := doc.Get("version")
	require.NoError(t, err)
	require.Len(t, values, 1)
	lit, ok := values[0].(document.Literal)
	require.True(t, ok)
	// Integers canonicalize to float64, matching JSON decoding
	assert.Equal(t, float64(3), lit.Value)
}

func TestNestedNodesFromMaps(t *testing.T) {
	doc := newDoc(t)

	require.NoError(t, doc.Set("author", map[string]any{
		"@type": "Person",
		"name":  "Jane Doe",
		"email": "jane@example.org",
	}))

	values, err := doc.Get("author")
	require.NoError(t, err)
	require.Len(t, values, 1)
	node, ok := values[0].(*document.Node)
	require.True(t, ok)
	assert.Contains(t, node.Types(), schemaorg.ClassPerson)

	emails, err := node.Get("email")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, document.String("jane@example.org"), emails[0])
}

func TestValidate(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("name", "Foo"))
	assert.NoError(t, doc.Validate())

	// A property injected at the IRI level outside every vocabulary fails
	// validation.
	doc.Root().SetValues("http://example.org/custom", []document.Value{document.String("x")})
	assert.Error(t, doc.Validate())
}

func TestClone(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("name", "Foo"))
	require.NoError(t, doc.Set("author", map[string]any{"name": "Jane"}))

	clone := doc.Clone()
	require.NoError(t, clone.Set("name", "Bar"))

	authors, err := clone.Get("author")
	require.NoError(t, err)
	require.NoError(t, authors[0].(*document.Node).Set("name", "Janet"))

	// The original is untouched
	values, err := doc.Get("name")
	require.NoError(t, err)
	assert.Equal(t, document.String("Foo"), values[0])

	origAuthors, err := doc.Get("author")
	require.NoError(t, err)
	names, err := origAuthors[0].(*document.Node).Get("name")
	require.NoError(t, err)
	assert.Equal(t, document.String("Jane"), names[0])
}

func TestEqual(t *testing.T) {
	assert.True(t, document.Equal(document.String("a"), document.String("a")))
	assert.False(t, document.Equal(document.String("a"), document.String("b")))
	assert.False(t, document.Equal(document.String("a"), document.Ref{ID: "a"}))
	assert.True(t, document.Equal(document.Ref{ID: "x"}, document.Ref{ID: "x"}))

	// Datatype participates in literal identity
	assert.False(t, document.Equal(
		document.Literal{Value: "2023-05-01"},
		document.Literal{Value: "2023-05-01", Datatype: schemaorg.TypeDate},
	))

	doc := newDoc(t)
	require.NoError(t, doc.Set("author", map[string]any{"name": "Jane", "email": "j@x.org"}))
	other := newDoc(t)
	require.NoError(t, other.Set("author", map[string]any{"email": "j@x.org", "name": "Jane"}))

	a, _ := doc.Get("author")
	b, _ := other.Get("author")
	// Property insertion order does not affect node equality
	assert.True(t, document.Equal(a[0], b[0]))
}

func TestPathStringParseRoundTrip(t *testing.T) {
	tests := []string{
		"$",
		"name",
		"author[1]",
		"author[1].email",
		"author[0].affiliation[2].name",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			p, err := document.ParsePath(text)
			require.NoError(t, err)
			assert.Equal(t, text, p.String())
		})
	}

	for _, bad := range []string{"author[", "author[x]", "author[-1]", "name."} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := document.ParsePath(bad)
			assert.Error(t, err)
		})
	}
}

func TestPathResolve(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("name", "Foo"))
	require.NoError(t, doc.Set("author", []any{
		map[string]any{"name": "Jane", "email": "jane@x.org"},
		map[string]any{"name": "Joe", "email": "joe@x.org"},
	}))

	p := document.Path{}.Property("author").Index(1).Property("email")
	assert.Equal(t, "author[1].email", p.String())

	values, err := p.Resolve(doc)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, document.String("joe@x.org"), values[0])

	// A property-terminated path addresses the whole sequence
	values, err = document.Path{}.Property("author").Resolve(doc)
	require.NoError(t, err)
	assert.Len(t, values, 2)

	// Out-of-range index is a stale path
	var stale *document.StalePathError
	_, err = document.Path{}.Property("author").Index(5).Resolve(doc)
	require.Error(t, err)
	assert.True(t, errors.As(err, &stale))

	// Property step into a scalar is a stale path
	_, err = document.Path{}.Property("name").Index(0).Property("email").Resolve(doc)
	require.Error(t, err)
	assert.True(t, errors.As(err, &stale))
}

func TestSetAtPath(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("name", "Foo"))
	require.NoError(t, doc.Set("author", []any{
		map[string]any{"name": "Jane", "email": "jane@x.org"},
		map[string]any{"name": "Joe", "email": "joe@x.org"},
	}))

	// Replace one sequence element
	p := document.Path{}.Property("author").Index(1).Property("email")
	require.NoError(t, doc.SetAtPath(p, []document.Value{document.String("new@x.org")}))
	values, err := p.Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, document.String("new@x.org"), values[0])

	// Replace a whole property sequence
	namePath := document.Path{}.Property("name")
	require.NoError(t, doc.SetAtPath(namePath, []document.Value{document.String("Bar")}))
	values, err = doc.Get("name")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, document.String("Bar"), values[0])

	// The root itself cannot be replaced
	assert.Error(t, doc.SetAtPath(document.Path{}, nil))
}

func TestPathOfNode(t *testing.T) {
	doc := newDoc(t)
	require.NoError(t, doc.Set("author", []any{
		map[string]any{"name": "Jane"},
		map[string]any{"name": "Joe"},
	}))

	authors, err := doc.Get("author")
	require.NoError(t, err)
	second := authors[1].(*document.Node)

	p, ok := doc.PathOfNode(second)
	require.True(t, ok)
	assert.Equal(t, "author[1]", p.String())

	_, ok = doc.PathOfNode(document.NewNode())
	assert.False(t, ok)
}
