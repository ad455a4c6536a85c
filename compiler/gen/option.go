package gen

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the package name of the generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPatterns sets the requested patterns. Unknown pattern IDs are
// rejected here rather than at generation time.
func WithPatterns(ids ...PatternID) Option {
	return func(c *Config) error {
		for _, id := range ids {
			if _, ok := LookupPattern(id); !ok {
				return NewConfigError("Patterns", string(id), "unknown pattern")
			}
		}
		c.Patterns = append(c.Patterns, ids...)
		return nil
	}
}

// WithHeader sets the extra file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers for batch runs.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "worker count must be positive")
		}
		c.Workers = n
		return nil
	}
}
