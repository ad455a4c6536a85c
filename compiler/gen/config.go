package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/syssam/stamp/schema"
)

// Config holds the generation settings shared by every definition of
// one run.
type Config struct {
	// Package is the package name of the generated files.
	Package string

	// Target is the directory generated files are written to.
	Target string

	// Patterns holds the requested pattern IDs. Empty means the
	// default pattern set.
	Patterns []PatternID

	// Header is an extra comment placed at the top of each generated
	// file, below the generated-code marker.
	Header string

	// Workers bounds the number of definitions generated in parallel.
	Workers int
}

// NewConfig builds a configuration from the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package: "stamped",
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Manifest is the YAML run description the CLI consumes: the shared
// settings plus the definition documents to generate for. Definitions
// are JSON documents in the input-boundary format, referenced by glob
// patterns relative to the manifest.
type Manifest struct {
	Package     string   `yaml:"package"`
	Target      string   `yaml:"target"`
	Patterns    []string `yaml:"patterns"`
	Header      string   `yaml:"header"`
	Definitions []string `yaml:"definitions"`

	dir string
}

// LoadManifest reads and decodes a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{dir: filepath.Dir(path)}
	if err := yaml.Unmarshal(buf, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if len(m.Definitions) == 0 {
		return nil, NewConfigError("Definitions", nil, "manifest lists no definition files")
	}
	return m, nil
}

// Options converts the manifest's shared settings into generator
// options.
func (m *Manifest) Options() []Option {
	opts := []Option{}
	if m.Package != "" {
		opts = append(opts, WithPackage(m.Package))
	}
	if m.Target != "" {
		opts = append(opts, WithTarget(m.Target))
	}
	if m.Header != "" {
		opts = append(opts, WithHeader(m.Header))
	}
	if len(m.Patterns) > 0 {
		ids := make([]PatternID, len(m.Patterns))
		for i, p := range m.Patterns {
			ids[i] = PatternID(p)
		}
		opts = append(opts, WithPatterns(ids...))
	}
	return opts
}

// Load resolves the manifest's definition globs and decodes every
// matched file.
func (m *Manifest) Load() ([]*schema.TypeDefinition, error) {
	var defs []*schema.TypeDefinition
	for _, pattern := range m.Definitions {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(m.dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, NewConfigError("Definitions", pattern, "malformed glob pattern")
		}
		if len(matches) == 0 {
			return nil, NewConfigError("Definitions", pattern, "no definition files match")
		}
		for _, path := range matches {
			buf, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read definition %s: %w", path, err)
			}
			def, err := schema.Unmarshal(buf)
			if err != nil {
				return nil, fmt.Errorf("decode definition %s: %w", path, err)
			}
			defs = append(defs, def)
		}
	}
	return defs, nil
}
