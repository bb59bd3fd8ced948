// Package config provides configuration loading and management for meld.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete meld configuration
type Config struct {
	Harvest HarvestConfig `yaml:"harvest"`
	Merge   MergeConfig   `yaml:"merge"`
	Curate  CurateConfig  `yaml:"curate"`
	Deposit DepositConfig `yaml:"deposit"`

	// Vocabularies maps extra vocabulary prefixes to context document
	// files, registered on top of the built-in default chain.
	Vocabularies map[string]string `yaml:"vocabularies"`
}

// HarvestConfig configures the harvest stage
type HarvestConfig struct {
	// Sources lists the harvester plugins to run, by registry name
	Sources []string `yaml:"sources"`
	// Priority orders source identifiers from most to least authoritative
	// (default: the order of Sources)
	Priority []string `yaml:"priority"`
	// Options holds per-harvester option subtrees, keyed by plugin name
	Options map[string]map[string]any `yaml:"options"`
}

// MergeConfig configures the merge engine
type MergeConfig struct {
	// Repeatable lists terms whose distinct values are all retained
	Repeatable []string `yaml:"repeatable"`
	// MatchKeys maps a term to the identity terms used to align nested
	// nodes without an @id (e.g. author -> [email, name])
	MatchKeys map[string][]string `yaml:"match_keys"`
}

// CurateConfig configures the curate stage
type CurateConfig struct {
	// Plugin is the curator plugin name (default: accept)
	Plugin string `yaml:"plugin"`
	// Options holds the curator's option subtree
	Options map[string]any `yaml:"options"`
}

// DepositConfig configures the deposit stage
type DepositConfig struct {
	// Target is the depositor plugin name (default: file)
	Target string `yaml:"target"`
	// Options holds the depositor's option subtree
	Options map[string]any `yaml:"options"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Harvest: HarvestConfig{
			Sources: []string{"codemeta"},
		},
		Merge: MergeConfig{
			Repeatable: []string{"keywords"},
			MatchKeys: map[string][]string{
				"author":      {"email", "name"},
				"contributor": {"email", "name"},
				"maintainer":  {"email", "name"},
			},
		},
		Curate: CurateConfig{
			Plugin: "accept",
		},
		Deposit: DepositConfig{
			Target: "file",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Harvest.Sources) == 0 {
		return fmt.Errorf("harvest.sources must list at least one harvester")
	}
	seen := make(map[string]bool, len(c.Harvest.Sources))
	for _, source := range c.Harvest.Sources {
		if source == "" {
			return fmt.Errorf("harvest.sources must not contain empty names")
		}
		if seen[source] {
			return fmt.Errorf("harvest.sources lists %q twice", source)
		}
		seen[source] = true
	}
	for _, source := range c.Harvest.Priority {
		if !seen[source] {
			return fmt.Errorf("harvest.priority names unknown source %q", source)
		}
	}
	if c.Curate.Plugin == "" {
		return fmt.Errorf("curate.plugin is required")
	}
	if c.Deposit.Target == "" {
		return fmt.Errorf("deposit.target is required")
	}
	return nil
}

// Priority returns the effective source priority: the configured priority
// list, falling back to the source order.
func (c *Config) Priority() []string {
	if len(c.Harvest.Priority) > 0 {
		return c.Harvest.Priority
	}
	return c.Harvest.Sources
}

// MergeFrom overlays the non-zero fields of other onto c
func (c *Config) MergeFrom(other *Config) {
	if len(other.Harvest.Sources) > 0 {
		c.Harvest.Sources = other.Harvest.Sources
	}
	if len(other.Harvest.Priority) > 0 {
		c.Harvest.Priority = other.Harvest.Priority
	}
	if len(other.Harvest.Options) > 0 {
		c.Harvest.Options = other.Harvest.Options
	}
	if len(other.Merge.Repeatable) > 0 {
		c.Merge.Repeatable = other.Merge.Repeatable
	}
	if len(other.Merge.MatchKeys) > 0 {
		c.Merge.MatchKeys = other.Merge.MatchKeys
	}
	if other.Curate.Plugin != "" {
		c.Curate.Plugin = other.Curate.Plugin
	}
	if len(other.Curate.Options) > 0 {
		c.Curate.Options = other.Curate.Options
	}
	if other.Deposit.Target != "" {
		c.Deposit.Target = other.Deposit.Target
	}
	if len(other.Deposit.Options) > 0 {
		c.Deposit.Options = other.Deposit.Options
	}
	if len(other.Vocabularies) > 0 {
		if c.Vocabularies == nil {
			c.Vocabularies = make(map[string]string, len(other.Vocabularies))
		}
		for prefix, path := range other.Vocabularies {
			c.Vocabularies[prefix] = path
		}
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &config, nil
}

// SaveToFile writes the configuration to a YAML file, creating parent
// directories as needed
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
