package attr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlag(t *testing.T) {
	t.Run("bare name", func(t *testing.T) {
		a, err := Parse("wrap")
		require.NoError(t, err)

		assert.Equal(t, "wrap", a.Name)
		assert.Equal(t, Flag, a.Kind())
		assert.Nil(t, a.Value())
		assert.Empty(t, a.Args())
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		a, err := Parse("  source  ")
		require.NoError(t, err)
		assert.Equal(t, "source", a.Name)
		assert.Equal(t, Flag, a.Kind())
	})
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, v *Value)
	}{
		{
			name: "string literal",
			raw:  `display = "error {code}: {message}"`,
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, String, v.Kind)
				assert.Equal(t, "error {code}: {message}", v.Str)
			},
		},
		{
			name: "integer literal",
			raw:  "limit = 42",
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, Int, v.Kind)
				assert.Equal(t, int64(42), v.Int)
			},
		},
		{
			name: "float literal",
			raw:  "ratio = 2.5",
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, Float, v.Kind)
				assert.Equal(t, 2.5, v.Float)
			},
		},
		{
			name: "bool literal",
			raw:  "enabled = true",
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, Bool, v.Kind)
				assert.True(t, v.Bool)
			},
		},
		{
			name: "identifier value",
			raw:  "kind = json",
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, Ident, v.Kind)
				assert.Equal(t, "json", v.Ident)
			},
		},
		{
			name: "string with escapes",
			raw:  `display = "a \"b\"\n"`,
			check: func(t *testing.T, v *Value) {
				assert.Equal(t, "a \"b\"\n", v.Str)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.raw)
			require.NoError(t, err)
			require.Equal(t, Scalar, a.Kind())
			require.NotNil(t, a.Value())
			tt.check(t, a.Value())
		})
	}
}

func TestParseMapping(t *testing.T) {
	t.Run("bare arguments keep order", func(t *testing.T) {
		a, err := Parse("wrapper(display, math, mutable)")
		require.NoError(t, err)
		require.Equal(t, Mapping, a.Kind())

		args := a.Args()
		require.Len(t, args, 3)
		assert.Equal(t, "display", args[0].Name)
		assert.Equal(t, "math", args[1].Name)
		assert.Equal(t, "mutable", args[2].Name)
	})

	t.Run("key value arguments", func(t *testing.T) {
		a, err := Parse(`getter(name = "Code", skip = false)`)
		require.NoError(t, err)

		arg, ok := a.Lookup("name")
		require.True(t, ok)
		require.NotNil(t, arg.Value)
		assert.Equal(t, "Code", arg.Value.Str)

		arg, ok = a.Lookup("skip")
		require.True(t, ok)
		assert.False(t, arg.Value.Bool)

		_, ok = a.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("empty argument list", func(t *testing.T) {
		a, err := Parse("wrapper()")
		require.NoError(t, err)
		assert.Equal(t, Mapping, a.Kind())
		assert.Empty(t, a.Args())
	})

	t.Run("trailing comma is tolerated", func(t *testing.T) {
		a, err := Parse("wrapper(display,)")
		require.NoError(t, err)
		require.Len(t, a.Args(), 1)
	})

	t.Run("qualified identifier argument", func(t *testing.T) {
		a, err := Parse("from(time.Duration, int64)")
		require.NoError(t, err)

		args := a.Args()
		require.Len(t, args, 2)
		assert.Equal(t, "time.Duration", args[0].Name)
		assert.Equal(t, "int64", args[1].Name)
	})

	t.Run("duplicate key is rejected", func(t *testing.T) {
		_, err := Parse("wrapper(display, display)")
		require.Error(t, err)
		assert.True(t, IsParseError(err))
		assert.Contains(t, err.Error(), "duplicate key")
	})

	t.Run("nested list is rejected", func(t *testing.T) {
		_, err := Parse("wrapper(math(add))")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nested lists are not supported")
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty input", "", "identifier"},
		{"leading number", "42", "identifier"},
		{"unterminated group", "wrapper(display", "unterminated argument list"},
		{"unterminated string", `display = "oops`, "unterminated string"},
		{"string ending in backslash", `display = "abc\`, "unterminated string"},
		{"trailing garbage", `wrap extra`, "unexpected trailing"},
		{"missing value", "display =", "expected a literal or identifier"},
		{"argument name not identifier", `wrapper(42)`, "argument name must be an identifier"},
		{"value in shape position", "display 7", "must be a bare flag"},
		{"nested value group", "getter(name = (x))", "nested lists are not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseErrorSpan(t *testing.T) {
	t.Run("span points into the raw text", func(t *testing.T) {
		_, err := Parse("wrapper(display, display)")
		var perr *ParseError
		require.ErrorAs(t, err, &perr)

		assert.Equal(t, 17, perr.Span.Start)
		assert.Equal(t, 24, perr.Span.End)
	})

	t.Run("span renders as range", func(t *testing.T) {
		s := Span{Start: 3, End: 9}
		assert.Equal(t, "[3:9)", s.String())
	})
}

func TestRender(t *testing.T) {
	t.Run("canonical forms", func(t *testing.T) {
		tests := []struct {
			raw  string
			want string
		}{
			{"wrap", "wrap"},
			{`display="x {0}"`, `display = "x {0}"`},
			{"wrapper( display ,math )", "wrapper(display, math)"},
			{`getter(name="Code")`, `getter(name = "Code")`},
			{"limit = 10", "limit = 10"},
		}
		for _, tt := range tests {
			a, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Render())
		}
	})

	t.Run("round trip", func(t *testing.T) {
		a, err := Parse(`wrapper(display, norefs, name = "X")`)
		require.NoError(t, err)

		b, err := Parse(a.Render())
		require.NoError(t, err)
		assert.Equal(t, a.Render(), b.Render())
		assert.Equal(t, a.Kind(), b.Kind())
		assert.Len(t, b.Args(), len(a.Args()))
	})

	t.Run("round trip of raw bytes in strings", func(t *testing.T) {
		// Bytes outside the grammar's escape set render verbatim, so
		// the rendered form must re-parse to the same value.
		a, err := Parse("display = \"a\rb\x01c\"")
		require.NoError(t, err)
		require.NotNil(t, a.Value())
		assert.Equal(t, "a\rb\x01c", a.Value().Str)

		b, err := Parse(a.Render())
		require.NoError(t, err)
		require.NotNil(t, b.Value())
		assert.Equal(t, a.Value().Str, b.Value().Str)
	})
}
