// Package plugin defines the pipeline plugin contracts and their named
// registries. Harvesters, curators and depositors are selected by
// configuration name and resolved at startup; an unknown name is a startup
// error. The engine never inspects plugin types at runtime.
package plugin

import (
	"context"
	"log/slog"

	"github.com/softmeta/meld/cache"
	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
	"github.com/softmeta/meld/vocabulary"
)

// Context carries the per-invocation environment handed to a plugin. Each
// plugin receives exclusive ownership of the documents it is given for the
// duration of its single invocation.
type Context struct {
	// ProjectDir is the root of the project being processed.
	ProjectDir string

	// Options holds the plugin-specific configuration subtree.
	Options map[string]any

	// Logger is pre-scoped to the plugin name.
	Logger *slog.Logger

	// Store is the project's artifact cache.
	Store *cache.Store

	// Vocabulary is the registry snapshot in effect for the run.
	Vocabulary *vocabulary.Snapshot
}

// Option reads a typed option with a default.
func (c *Context) Option(key, fallback string) string {
	if v, ok := c.Options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Harvester produces one metadata document from its configured source.
type Harvester interface {
	Name() string
	Harvest(ctx context.Context, pctx *Context) (*document.Document, error)
}

// Curator transforms a merged document, typically by promoting ledger
// alternatives. It returns a document of the same type, mutated or new; the
// engine only re-serializes the result.
type Curator interface {
	Name() string
	Curate(ctx context.Context, pctx *Context, doc *document.Document, ledger *provenance.Ledger) (*document.Document, error)
}

// Depositor publishes a curated document to its target.
type Depositor interface {
	Name() string
	Deposit(ctx context.Context, pctx *Context, doc *document.Document) error
}
