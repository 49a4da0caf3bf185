package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Loader loads a RuntimeConfig from a YAML file.
type Loader struct{}

// NewLoader returns a ready-to-use Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the runtime config file at path, applies
// environment-variable substitution and defaults, and validates the
// result.
func (l *Loader) Load(path string) (*RuntimeConfig, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("config: open directory: %w", err)
	}
	defer func() {
		_ = root.Close()
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("config: open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return l.LoadFromReader(file)
}

// LoadFromReader reads a RuntimeConfig from r, applying the same
// substitution, defaulting, and validation steps as Load.
func (l *Loader) LoadFromReader(r io.Reader) (*RuntimeConfig, error) {
	var cfg RuntimeConfig

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode YAML: %w", err)
	}

	if err := substituteEnvInConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config: substitute environment variables: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
