// Package cache persists pipeline artifacts under the project's .meld
// directory. Each stage/plugin combination owns four JSON artifacts: the
// expanded document, the vocabulary context in effect, the compact form,
// and (per stage) the provenance ledger. Writes are atomic per file; loads
// verify the round-trip law and fail with a data-integrity error on
// mismatch.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/softmeta/meld/codec"
	"github.com/softmeta/meld/document"
	"github.com/softmeta/meld/provenance"
	"github.com/softmeta/meld/vocabulary"
)

// DirName is the cache directory created in the project root.
const DirName = ".meld"

const (
	contextSuffix = "_context.json"
	compactSuffix = "_compact.json"
	ledgerName    = "ledger.json"
)

// Store reads and writes cache artifacts for one project.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at projectDir/.meld. Nothing is created
// on disk until the first write.
func NewStore(projectDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: filepath.Join(projectDir, DirName), logger: logger}
}

// Dir returns the cache root directory.
func (s *Store) Dir() string { return s.dir }

// SaveDocument persists the three document artifacts for a stage/name pair.
// The expanded form is written last so its presence implies a complete set.
func (s *Store) SaveDocument(stage, name string, doc *document.Document) error {
	vocab := doc.Vocabulary()

	ctxData, err := json.Marshal(vocab)
	if err != nil {
		return fmt.Errorf("encoding context for %s/%s: %w", stage, name, err)
	}
	compactData, err := codec.Compact(doc, vocab)
	if err != nil {
		return fmt.Errorf("compacting %s/%s: %w", stage, name, err)
	}
	expandedData, err := codec.Expand(doc)
	if err != nil {
		return fmt.Errorf("expanding %s/%s: %w", stage, name, err)
	}

	dir := filepath.Join(s.dir, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	if err := writeAtomic(filepath.Join(dir, name+contextSuffix), ctxData); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, name+compactSuffix), compactData); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, name+".json"), expandedData); err != nil {
		return err
	}
	s.logger.Debug("cached document", slog.String("stage", stage), slog.String("name", name))
	return nil
}

// LoadDocument restores a cached document, verifying that the compact form
// re-expands to the stored expanded form under the stored context.
func (s *Store) LoadDocument(stage, name string) (*document.Document, error) {
	dir := filepath.Join(s.dir, stage)

	ctxData, err := os.ReadFile(filepath.Join(dir, name+contextSuffix))
	if err != nil {
		return nil, fmt.Errorf("reading context for %s/%s: %w", stage, name, err)
	}
	var vocab vocabulary.Snapshot
	if err := json.Unmarshal(ctxData, &vocab); err != nil {
		return nil, fmt.Errorf("decoding context for %s/%s: %w", stage, name, err)
	}

	expandedData, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading expanded form for %s/%s: %w", stage, name, err)
	}
	compactData, err := os.ReadFile(filepath.Join(dir, name+compactSuffix))
	if err != nil {
		return nil, fmt.Errorf("reading compact form for %s/%s: %w", stage, name, err)
	}

	artifact := fmt.Sprintf("%s/%s", stage, name)
	if err := codec.VerifyRoundTrip(expandedData, compactData, &vocab, artifact); err != nil {
		return nil, err
	}

	doc, err := codec.Parse(expandedData, &vocab)
	if err != nil {
		return nil, fmt.Errorf("parsing expanded form for %s: %w", artifact, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("cached document %s: %w", artifact, err)
	}
	return doc, nil
}

// SaveLedger persists the stage's provenance ledger.
func (s *Store) SaveLedger(stage string, ledger *provenance.Ledger) error {
	data, err := codec.EncodeLedger(ledger)
	if err != nil {
		return fmt.Errorf("encoding ledger for %s: %w", stage, err)
	}
	dir := filepath.Join(s.dir, stage)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	return writeAtomic(filepath.Join(dir, ledgerName), data)
}

// LoadLedger restores the stage's provenance ledger.
func (s *Store) LoadLedger(stage string) (*provenance.Ledger, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, stage, ledgerName))
	if err != nil {
		return nil, fmt.Errorf("reading ledger for %s: %w", stage, err)
	}
	return codec.DecodeLedger(data)
}

// ListDocuments returns the names of the documents cached for a stage, in
// sorted order.
func (s *Store) ListDocuments(stage string) ([]string, error) {
	pattern := filepath.Join(s.dir, stage, "*.json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing cache for %s: %w", stage, err)
	}
	var names []string
	for _, match := range matches {
		base := filepath.Base(match)
		if base == ledgerName ||
			strings.HasSuffix(base, contextSuffix) ||
			strings.HasSuffix(base, compactSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(base, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Purge deletes the whole cache directory.
func (s *Store) Purge() error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil
	}
	s.logger.Debug("purging cache", slog.String("dir", s.dir))
	return os.RemoveAll(s.dir)
}

// writeAtomic writes data through a temp file in the target directory and
// renames it into place, so readers never observe a partial artifact.
func writeAtomic(path string, data []byte) error {
	var indented bytes.Buffer
	if err := json.Indent(&indented, data, "", "  "); err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}
	indented.WriteByte('\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(indented.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
