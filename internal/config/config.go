// Package config loads the runtime's build-time configuration flags
// (spec.md §6) from a YAML file, producing an rt.Config an embedder passes
// to rt.NewInstance.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zboralski/wasmrt/internal/rt"
)

// Load reads and parses a YAML configuration file at path into an
// rt.Config, starting from rt.DefaultConfig() so an omitted field keeps its
// production default rather than zeroing out.
func Load(path string) (rt.Config, error) {
	cfg := rt.DefaultConfig()

	f, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Write serializes cfg as YAML to path, mode 0644.
func Write(path string, cfg rt.Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
