package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/softmeta/meld/commands"
)

const sampleCodemeta = `{
  "@context": "https://doi.org/10.5063/schema/codemeta-2.0",
  "@type": "SoftwareSourceCode",
  "name": "Sample",
  "version": "1.2.3",
  "codeRepository": "https://example.org/sample",
  "keywords": ["metadata", "testing"],
  "author": [
    {"@type": "Person", "name": "Jane Doe", "email": "jane@example.org"}
  ]
}
`

const sampleConfig = `harvest:
  sources:
    - codemeta
deposit:
  target: file
  options:
    filename: "deposited.json"
`

// newProject creates a temp project with a codemeta file and config, and
// isolates the user config location.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "home"))

	if err := os.WriteFile(filepath.Join(dir, "codemeta.json"), []byte(sampleCodemeta), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "meld.yaml"), []byte(sampleConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func runCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCmd("test", "test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--path", dir, "--log-level", "error"))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("meld %s failed: %v\noutput: %s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestPipeline(t *testing.T) {
	dir := newProject(t)

	out := runCommand(t, dir, "harvest")
	if !strings.Contains(out, "Harvested 1 of 1") {
		t.Errorf("unexpected harvest output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".meld", "harvest", "codemeta.json")); err != nil {
		t.Fatalf("harvest artifact missing: %v", err)
	}

	out = runCommand(t, dir, "process")
	if !strings.Contains(out, "Merged 1 sources") {
		t.Errorf("unexpected process output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".meld", "process", "ledger.json")); err != nil {
		t.Fatalf("ledger artifact missing: %v", err)
	}

	runCommand(t, dir, "curate")
	if _, err := os.Stat(filepath.Join(dir, ".meld", "curate", "curated.json")); err != nil {
		t.Fatalf("curate artifact missing: %v", err)
	}

	runCommand(t, dir, "deposit")
	deposited, err := os.ReadFile(filepath.Join(dir, "deposited.json"))
	if err != nil {
		t.Fatalf("deposited file missing: %v", err)
	}
	text := string(deposited)
	if !strings.Contains(text, `"Sample"`) || !strings.Contains(text, `"1.2.3"`) {
		t.Errorf("deposited document lost content:\n%s", text)
	}
	if !strings.Contains(text, "jane@example.org") {
		t.Errorf("deposited document lost author:\n%s", text)
	}
}

func TestExportCommand(t *testing.T) {
	dir := newProject(t)
	runCommand(t, dir, "harvest")
	runCommand(t, dir, "process")
	runCommand(t, dir, "curate")

	out := runCommand(t, dir, "export", "--format", "ntriples")
	if !strings.Contains(out, "<http://schema.org/name>") {
		t.Errorf("expected name triple in export:\n%s", out)
	}

	outFile := filepath.Join(dir, "out.ttl")
	runCommand(t, dir, "export", "--format", "turtle", "--output", outFile, "--stage", "process")
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("export output missing: %v", err)
	}
	if !strings.Contains(string(data), "@prefix") {
		t.Errorf("expected turtle prefixes in:\n%s", data)
	}
}

func TestCleanCommand(t *testing.T) {
	dir := newProject(t)
	runCommand(t, dir, "harvest")

	runCommand(t, dir, "clean")
	if _, err := os.Stat(filepath.Join(dir, ".meld")); !os.IsNotExist(err) {
		t.Error("expected cache directory to be removed")
	}
}

func TestProcessWithoutHarvestFails(t *testing.T) {
	dir := newProject(t)

	var out bytes.Buffer
	cmd := commands.NewRootCmd("test", "test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"process", "--path", dir, "--log-level", "error"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected process to fail with no harvested documents")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := commands.NewRootCmd("9.9.9", "test-build")
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "9.9.9") {
		t.Errorf("unexpected version output: %s", out.String())
	}
}
