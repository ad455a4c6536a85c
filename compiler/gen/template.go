package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is a parsed display format template. A template interleaves
// literal text with field references written as {name} for named
// fields or {0}, {1}, ... for positional fields. Doubled braces escape
// a literal brace.
type Template struct {
	Raw      string
	Segments []Segment
}

// Segment is one literal or field-reference piece of a template.
// Exactly one of Literal or a reference is set; references carry the
// field name, or Index >= 0 for positional references.
type Segment struct {
	Literal string
	Field   string
	Index   int
}

// Ref reports whether the segment is a field reference.
func (s Segment) Ref() bool { return s.Literal == "" && (s.Field != "" || s.Index >= 0) }

// parseTemplate parses the raw template text. Unbalanced braces and
// empty references are reported as plain errors; the caller wraps them
// with element context.
func parseTemplate(raw string) (*Template, error) {
	t := &Template{Raw: raw}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Segments = append(t.Segments, Segment{Literal: lit.String(), Index: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(raw); {
		switch c := raw[i]; c {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated field reference at offset %d", i)
			}
			ref := raw[i+1 : i+end]
			if ref == "" {
				return nil, fmt.Errorf("empty field reference at offset %d", i)
			}
			flush()
			if isDigits(ref) {
				idx, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("positional reference {%s} is out of range", ref)
				}
				t.Segments = append(t.Segments, Segment{Index: idx})
			} else {
				t.Segments = append(t.Segments, Segment{Field: ref, Index: -1})
			}
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("unmatched closing brace at offset %d", i)
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

// literalTemplate returns a template rendering the given text verbatim.
func literalTemplate(text string) *Template {
	return &Template{Raw: text, Segments: []Segment{{Literal: text, Index: -1}}}
}

func isDigits(s string) bool {
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
