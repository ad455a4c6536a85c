package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("error message with all fields", func(t *testing.T) {
		err := &ValidationError{
			Type:     "HTTPError",
			Element:  `field "code"`,
			Pattern:  PatternDisplay,
			Expected: "scalar",
			Found:    "flag",
			Message:  "wrong payload shape",
		}

		assert.Contains(t, err.Error(), "stamp: validation error")
		assert.Contains(t, err.Error(), "type HTTPError")
		assert.Contains(t, err.Error(), `field "code"`)
		assert.Contains(t, err.Error(), `pattern "display"`)
		assert.Contains(t, err.Error(), "expected scalar, found flag")
	})

	t.Run("error message with type only", func(t *testing.T) {
		err := &ValidationError{Type: "User", Message: "oops"}
		assert.Contains(t, err.Error(), "type User")
		assert.NotContains(t, err.Error(), "pattern")
		assert.NotContains(t, err.Error(), "expected")
	})

	t.Run("unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := &ValidationError{Type: "User", Cause: cause}

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("is matches ErrValidationFailed", func(t *testing.T) {
		err := NewValidationError("User", "", PatternGetters, "test")
		assert.True(t, errors.Is(err, ErrValidationFailed))
	})

	t.Run("IsValidationError helper", func(t *testing.T) {
		err := NewValidationError("User", `field "name"`, PatternGetters, "test")
		assert.True(t, IsValidationError(err))
		assert.False(t, IsValidationError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("error message", func(t *testing.T) {
		cause := errors.New("render failed")
		err := NewGenerationError("User", PatternDisplay, "String", "cannot render block", cause)

		assert.Contains(t, err.Error(), "stamp: generation error")
		assert.Contains(t, err.Error(), "type User")
		assert.Contains(t, err.Error(), "cannot render block")
		assert.Contains(t, err.Error(), "render failed")
	})

	t.Run("unwrap and sentinel", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewGenerationError("User", PatternFrom, "Into", "failed", cause)

		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
	})
}

func TestConfigErrorType(t *testing.T) {
	t.Run("error message with value", func(t *testing.T) {
		err := NewConfigError("Patterns", "nope", "unknown pattern")

		assert.Contains(t, err.Error(), "stamp: config error")
		assert.Contains(t, err.Error(), "Patterns")
		assert.Contains(t, err.Error(), "nope")
		assert.Contains(t, err.Error(), "unknown pattern")
	})

	t.Run("is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestErrorHelpersRejectNil(t *testing.T) {
	require.False(t, IsValidationError(nil))
	require.False(t, IsGenerationError(nil))
	require.False(t, IsConfigError(nil))
}
