package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/guardline-dev/guardline/internal/model"
)

// Config holds the engine's tunable parameters.
type Config struct {
	// Defaults maps actor names to the permission word they hold when
	// no tag claims them ("read", "write", "none").
	Defaults map[string]string `yaml:"defaults"`

	// ScopeMap is the path of a mapping-table file (YAML or JSONC).
	// Empty uses the built-in table.
	ScopeMap string `yaml:"scope_map"`
}

// DefaultConfig returns the built-in engine config: ai may read, humans
// may write.
func DefaultConfig() *Config {
	return &Config{
		Defaults: map[string]string{
			model.ActorAI:    "read",
			model.ActorHuman: "write",
		},
	}
}

// LoadConfig loads engine configuration from a YAML file.
// Empty path falls back to ~/.guardline/config.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".guardline", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	return cfg, nil
}

// defaultSnapshot turns the config's actor map into the document-wide
// default snapshot. Unknown permission words are rejected rather than
// silently dropped.
func (c *Config) defaultSnapshot() (model.Snapshot, error) {
	snap := model.DefaultSnapshot()
	for actor, word := range c.Defaults {
		access, ok := model.ParseAccess(word)
		if !ok {
			return model.Snapshot{}, fmt.Errorf("config defaults: unknown permission %q for actor %q", word, actor)
		}
		snap = snap.Set(strings.ToLower(actor), model.Plain(access))
	}
	return snap, nil
}
