package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/softmeta/meld/codec"
	"github.com/softmeta/meld/document"
)

func init() {
	if err := Harvesters.Register("codemeta", &CodemetaHarvester{}); err != nil {
		panic(err)
	}
}

// CodemetaHarvester reads an existing codemeta.json from the project root
// and converts it into a metadata document.
type CodemetaHarvester struct{}

// Name returns the registry name.
func (h *CodemetaHarvester) Name() string { return "codemeta" }

// Harvest parses the project's codemeta file against the run's vocabulary
// snapshot.
func (h *CodemetaHarvester) Harvest(ctx context.Context, pctx *Context) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filename := pctx.Option("filename", "codemeta.json")
	path := filepath.Join(pctx.ProjectDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := codec.ParseCompact(data, pctx.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	pctx.Logger.Debug("harvested codemeta file", "path", path, "properties", len(doc.Properties()))
	return doc, nil
}
