package gen

import (
	"errors"
	"fmt"
)

// ErrGenerationFailed is matched by every GenerationError.
var ErrGenerationFailed = errors.New("recordgen: code generation failed")

// ConfigError represents an invalid generation option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("recordgen: invalid %s %v: %s", e.Option, e.Value, e.Message)
}

// GenerationError reports a failure to render or write the file of an
// entity.
type GenerationError struct {
	Entity string
	File   string
	Cause  error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("recordgen: generating %s (%s): %v", e.Entity, e.File, e.Cause)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }
