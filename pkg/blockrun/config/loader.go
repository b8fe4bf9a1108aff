package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loading is two-phase: a file parses into an untyped Config, and the
// engine lifts the keys it recognizes into its settings. Keys the engine
// does not recognize stay readable through the accessors, so one file can
// carry engine toggles and caller configuration side by side.

// FromFile reads and parses a config file. The format comes from the file
// extension: .yaml and .yml parse as YAML, .json as JSON.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("config %s: unrecognized extension %q (want .yaml, .yml, or .json)", path, ext)
	}
}

// FromYAML parses YAML bytes into a Config. The document must be a mapping
// at the top level.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON bytes into a Config. The document must be an object
// at the top level.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("config json: %w", err)
	}
	return New(m), nil
}
