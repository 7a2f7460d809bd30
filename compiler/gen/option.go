package gen

import (
	"go/token"
	"runtime"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by recordgen. DO NOT EDIT."

// Config holds the code generation settings.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is the package name of the generated files. It defaults
	// to the package of the declarations, then to the base name of
	// Target.
	Package string
	// Header is the header comment of generated files.
	Header string
	// Workers bounds the number of files rendered in parallel.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return &ConfigError{Option: "Target", Value: dir, Message: "output directory is empty"}
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the package name of generated files.
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return &ConfigError{Option: "Package", Value: name, Message: "not a Go identifier"}
		}
		c.Package = name
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return &ConfigError{Option: "Workers", Value: n, Message: "must be positive"}
		}
		c.Workers = n
		return nil
	}
}

// NewConfig returns a Config with opts applied over the defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Target:  ".",
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
