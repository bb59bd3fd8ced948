package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Harvest.Sources) != 1 || cfg.Harvest.Sources[0] != "codemeta" {
		t.Errorf("expected default sources [codemeta], got %v", cfg.Harvest.Sources)
	}
	if cfg.Curate.Plugin != "accept" {
		t.Errorf("expected default curator accept, got %s", cfg.Curate.Plugin)
	}
	if cfg.Deposit.Target != "file" {
		t.Errorf("expected default deposit target file, got %s", cfg.Deposit.Target)
	}
	if len(cfg.Merge.MatchKeys["author"]) == 0 {
		t.Error("expected default match keys for author")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no harvest sources",
			modify:  func(c *Config) { c.Harvest.Sources = nil },
			wantErr: true,
		},
		{
			name:    "empty source name",
			modify:  func(c *Config) { c.Harvest.Sources = []string{""} },
			wantErr: true,
		},
		{
			name:    "duplicate source",
			modify:  func(c *Config) { c.Harvest.Sources = []string{"codemeta", "codemeta"} },
			wantErr: true,
		},
		{
			name:    "priority names unknown source",
			modify:  func(c *Config) { c.Harvest.Priority = []string{"git"} },
			wantErr: true,
		},
		{
			name:    "missing curator",
			modify:  func(c *Config) { c.Curate.Plugin = "" },
			wantErr: true,
		},
		{
			name:    "missing deposit target",
			modify:  func(c *Config) { c.Deposit.Target = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigPriority(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harvest.Sources = []string{"codemeta", "git"}

	got := cfg.Priority()
	if len(got) != 2 || got[0] != "codemeta" || got[1] != "git" {
		t.Errorf("expected priority to fall back to source order, got %v", got)
	}

	cfg.Harvest.Priority = []string{"git", "codemeta"}
	got = cfg.Priority()
	if len(got) != 2 || got[0] != "git" {
		t.Errorf("expected explicit priority [git codemeta], got %v", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meld.yaml")

	content := `
harvest:
  sources:
    - codemeta
    - git
  priority:
    - git
    - codemeta
  options:
    codemeta:
      path: "codemeta.json"
merge:
  repeatable:
    - keywords
    - programmingLanguage
  match_keys:
    author:
      - email
curate:
  plugin: accept
deposit:
  target: file
  options:
    path: "out/meld.json"
vocabularies:
  dcterms: "contexts/dcterms.json"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if len(cfg.Harvest.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(cfg.Harvest.Sources))
	}
	if len(cfg.Harvest.Priority) != 2 || cfg.Harvest.Priority[0] != "git" {
		t.Errorf("expected priority [git codemeta], got %v", cfg.Harvest.Priority)
	}
	if cfg.Harvest.Options["codemeta"]["path"] != "codemeta.json" {
		t.Errorf("expected codemeta path option, got %v", cfg.Harvest.Options["codemeta"])
	}
	if len(cfg.Merge.Repeatable) != 2 {
		t.Errorf("expected 2 repeatable terms, got %v", cfg.Merge.Repeatable)
	}
	if cfg.Deposit.Options["path"] != "out/meld.json" {
		t.Errorf("expected deposit path option, got %v", cfg.Deposit.Options)
	}
	if cfg.Vocabularies["dcterms"] != "contexts/dcterms.json" {
		t.Errorf("expected dcterms vocabulary path, got %v", cfg.Vocabularies)
	}
}

func TestConfigMergeFrom(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Harvest: HarvestConfig{
			Sources: []string{"codemeta", "git"},
		},
		Deposit: DepositConfig{
			Target: "invenio",
		},
	}

	base.MergeFrom(override)

	if len(base.Harvest.Sources) != 2 {
		t.Errorf("expected overridden sources, got %v", base.Harvest.Sources)
	}
	if base.Deposit.Target != "invenio" {
		t.Errorf("expected deposit target invenio, got %s", base.Deposit.Target)
	}
	// Curator should remain from base since override didn't set it
	if base.Curate.Plugin != "accept" {
		t.Errorf("expected curator to remain default, got %s", base.Curate.Plugin)
	}
	if len(base.Merge.MatchKeys) == 0 {
		t.Error("expected match keys to remain default")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Deposit.Target = "saved-target"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Deposit.Target != "saved-target" {
		t.Errorf("expected deposit target saved-target, got %s", loaded.Deposit.Target)
	}
}

func TestLoaderProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	content := "harvest:\n  sources:\n    - codemeta\ndeposit:\n  target: file\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ProjectConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(nil)
	found := loader.findProjectConfig(nested)
	if found != filepath.Join(tmpDir, ProjectConfigFile) {
		t.Errorf("expected project config in %s, got %s", tmpDir, found)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loader := NewLoader(nil)
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}

	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config was not created: %v", err)
	}

	// A second call is a no-op on the existing file
	if err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() on existing file error = %v", err)
	}
}
