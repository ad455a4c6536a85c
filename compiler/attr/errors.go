package attr

import (
	"errors"
	"fmt"
)

// ErrMalformed is the sentinel error all parse failures match.
var ErrMalformed = errors.New("stamp: malformed annotation")

// Span locates a region of the raw annotation text by byte offset.
// End is exclusive.
type Span struct {
	Start int
	End   int
}

// String returns the offset range in a compact [start:end) form.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// ParseError reports malformed annotation syntax together with the
// offending span of the raw text. Parse errors are always fatal for the
// element the annotation is attached to.
type ParseError struct {
	Reason string
	Span   Span
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("stamp: malformed annotation at %s: %s", e.Span, e.Reason)
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
