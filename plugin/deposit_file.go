package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/softmeta/meld/codec"
	"github.com/softmeta/meld/document"
)

func init() {
	if err := Depositors.Register("file", &FileDepositor{}); err != nil {
		panic(err)
	}
}

// FileDepositor writes the curated document as a compact codemeta file into
// the project. It is the reference depositor; repository-API depositors
// live outside the core.
type FileDepositor struct{}

// Name returns the registry name.
func (d *FileDepositor) Name() string { return "file" }

// Deposit writes the compact form to the configured filename (default
// codemeta.json) in the project root.
func (d *FileDepositor) Deposit(ctx context.Context, pctx *Context, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := codec.Compact(doc, doc.Vocabulary())
	if err != nil {
		return fmt.Errorf("compacting document for deposit: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return fmt.Errorf("formatting deposit output: %w", err)
	}
	indented.WriteByte('\n')

	path := filepath.Join(pctx.ProjectDir, pctx.Option("filename", "codemeta.json"))
	if err := os.WriteFile(path, indented.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	pctx.Logger.Info("deposited document", "path", path)
	return nil
}
