package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Run("literals and references", func(t *testing.T) {
		tmpl, err := parseTemplate("error {code}: {message}")
		require.NoError(t, err)

		require.Len(t, tmpl.Segments, 4)
		assert.Equal(t, "error ", tmpl.Segments[0].Literal)
		assert.Equal(t, "code", tmpl.Segments[1].Field)
		assert.Equal(t, ": ", tmpl.Segments[2].Literal)
		assert.Equal(t, "message", tmpl.Segments[3].Field)
	})

	t.Run("positional references", func(t *testing.T) {
		tmpl, err := parseTemplate("{0}-{1}")
		require.NoError(t, err)

		require.Len(t, tmpl.Segments, 3)
		assert.True(t, tmpl.Segments[0].Ref())
		assert.Equal(t, 0, tmpl.Segments[0].Index)
		assert.Equal(t, 1, tmpl.Segments[2].Index)
	})

	t.Run("doubled braces escape", func(t *testing.T) {
		tmpl, err := parseTemplate("{{literal}} {x}")
		require.NoError(t, err)

		require.Len(t, tmpl.Segments, 2)
		assert.Equal(t, "{literal} ", tmpl.Segments[0].Literal)
		assert.False(t, tmpl.Segments[0].Ref())
		assert.Equal(t, "x", tmpl.Segments[1].Field)
	})

	t.Run("pure literal", func(t *testing.T) {
		tmpl, err := parseTemplate("nothing to see")
		require.NoError(t, err)
		require.Len(t, tmpl.Segments, 1)
		assert.Equal(t, "nothing to see", tmpl.Segments[0].Literal)
	})

	t.Run("malformed templates", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
			want string
		}{
			{"unterminated reference", "oops {code", "unterminated field reference"},
			{"empty reference", "oops {}", "empty field reference"},
			{"unmatched closing brace", "oops }", "unmatched closing brace"},
			{"positional reference overflows", "{99999999999999999999}", "out of range"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := parseTemplate(tt.raw)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

func TestHelpers(t *testing.T) {
	t.Run("snake", func(t *testing.T) {
		assert.Equal(t, "http_error", snake("HttpError"))
		assert.Equal(t, "http_error", snake("HTTPError"))
		assert.Equal(t, "xml_parser", snake("XMLParser"))
		assert.Equal(t, "user_ids", snake("UserIDs"))
		assert.Equal(t, "request_id", snake("RequestId"))
		assert.Equal(t, "request_id", snake("RequestID"))
		assert.Equal(t, "plain", snake("plain"))
		assert.Equal(t, "abc", snake("ABC"))
		assert.Equal(t, "already_snake", snake("already_snake"))
	})

	t.Run("exportedName", func(t *testing.T) {
		assert.Equal(t, "Code", exportedName("code"))
		assert.Equal(t, "StatusCode", exportedName("statusCode"))
		assert.Equal(t, "MaxValue", exportedName("max_value"))
	})

	t.Run("typeSuffix", func(t *testing.T) {
		assert.Equal(t, "Duration", typeSuffix("time.Duration"))
		assert.Equal(t, "Int64", typeSuffix("int64"))
		assert.Equal(t, "Byte", typeSuffix("[]byte"))
	})

	t.Run("validMethodName", func(t *testing.T) {
		assert.True(t, validMethodName("Code"))
		assert.False(t, validMethodName(""))
		assert.False(t, validMethodName("func"))
		assert.False(t, validMethodName("1st"))
	})
}
