// Package gen implements the stamp code-generation engine.
package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/stamp/schema"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidDefinition indicates a structurally invalid type definition.
	ErrInvalidDefinition = errors.New("stamp: invalid type definition")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("stamp: missing configuration")
	// ErrValidationFailed indicates a pattern validation failure.
	ErrValidationFailed = errors.New("stamp: validation failed")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("stamp: code generation failed")
	// ErrUnknownPattern indicates a request for a pattern that is not registered.
	ErrUnknownPattern = errors.New("stamp: unknown pattern")
)

// ValidationError reports a well-formed annotation that is inconsistent
// with a pattern's requirements, or an inter-pattern conflict. It is
// always fatal for the type definition's generation.
type ValidationError struct {
	Type     string    // type definition name
	Element  string    // offending element, e.g. `field "message"`
	Pattern  PatternID // requesting pattern, if any
	Expected string    // expected payload shape or value
	Found    string    // found payload shape or value
	Message  string
	Pos      *schema.Position
	Cause    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("stamp: validation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Element != "" {
		b.WriteString(" ")
		b.WriteString(e.Element)
	}
	if e.Pattern != "" {
		fmt.Fprintf(&b, " for pattern %q", e.Pattern)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Expected != "" || e.Found != "" {
		fmt.Fprintf(&b, " (expected %s, found %s)", e.Expected, e.Found)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(typeName, element string, pattern PatternID, message string) *ValidationError {
	return &ValidationError{
		Type:    typeName,
		Element: element,
		Pattern: pattern,
		Message: message,
	}
}

// GenerationError reports a failure while rendering a generation plan.
type GenerationError struct {
	Type    string
	Pattern PatternID
	Block   string // behavior label of the failing block
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("stamp: generation error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Pattern != "" {
		fmt.Fprintf(&b, " for pattern %q", e.Pattern)
	}
	if e.Block != "" {
		fmt.Fprintf(&b, " (block: %s)", e.Block)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(typeName string, pattern PatternID, block, message string, cause error) *GenerationError {
	return &GenerationError{
		Type:    typeName,
		Pattern: pattern,
		Block:   block,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("stamp: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("stamp: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
