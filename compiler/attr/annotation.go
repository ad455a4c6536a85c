package attr

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind reports the payload shape of a parsed annotation.
type Kind int

const (
	// Flag is a bare annotation with no payload, e.g. `wrap`.
	Flag Kind = iota
	// Scalar is an annotation with a single literal payload,
	// e.g. `display = "error {code}"`.
	Scalar
	// Mapping is an annotation with a parenthesized argument list,
	// e.g. `wrapper(display, math)` or `getter(name = "Code")`.
	Mapping
)

// String returns the human-readable name of the payload shape.
func (k Kind) String() string {
	switch k {
	case Flag:
		return "flag"
	case Scalar:
		return "scalar"
	case Mapping:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValueKind reports the literal kind of a parsed value.
type ValueKind int

const (
	// String is a quoted string literal.
	String ValueKind = iota
	// Int is an integer literal.
	Int
	// Float is a floating-point literal.
	Float
	// Bool is a `true` or `false` literal.
	Bool
	// Ident is a bare identifier used in value position,
	// e.g. the type name in `from(int64)`.
	Ident
)

// Value is the literal payload of a scalar annotation or of one
// mapping argument.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Ident string
}

// String renders the value back to its canonical source form.
func (v *Value) String() string {
	switch v.Kind {
	case String:
		return quoteString(v.Str)
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Ident:
		return v.Ident
	default:
		return ""
	}
}

// quoteString renders a string literal using only the escape sequences
// the annotation grammar accepts. Other bytes pass through verbatim, so
// the rendered form always re-parses to the same value.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Arg is one argument of a mapping annotation. A bare identifier
// argument has a Name and a nil Value; a `key = value` argument
// carries both.
type Arg struct {
	Name  string
	Value *Value
	Span  Span
}

// Annotation is the structured form of one parsed annotation.
// Mapping arguments preserve their insertion order and also support
// lookup by name; callers may depend on both.
type Annotation struct {
	Name string

	kind  Kind
	value *Value
	args  []Arg
	index map[string]int
	span  Span
}

// Kind returns the payload shape of the annotation.
func (a *Annotation) Kind() Kind { return a.kind }

// Span returns the span of the whole annotation in the raw text.
func (a *Annotation) Span() Span { return a.span }

// Value returns the scalar payload, or nil for flag and mapping
// annotations.
func (a *Annotation) Value() *Value { return a.value }

// Args returns the mapping arguments in insertion order. The returned
// slice must not be mutated.
func (a *Annotation) Args() []Arg { return a.args }

// Lookup returns the mapping argument with the given name.
func (a *Annotation) Lookup(name string) (Arg, bool) {
	i, ok := a.index[name]
	if !ok {
		return Arg{}, false
	}
	return a.args[i], true
}

// Render returns the canonical textual form of the annotation.
// Parsing the rendered text yields a syntactically equivalent
// annotation.
func (a *Annotation) Render() string {
	switch a.kind {
	case Flag:
		return a.Name
	case Scalar:
		return a.Name + " = " + a.value.String()
	default:
		var b strings.Builder
		b.WriteString(a.Name)
		b.WriteByte('(')
		for i, arg := range a.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			if arg.Value != nil {
				b.WriteString(" = ")
				b.WriteString(arg.Value.String())
			}
		}
		b.WriteByte(')')
		return b.String()
	}
}

// addArg appends a mapping argument, rejecting duplicate keys.
func (a *Annotation) addArg(arg Arg) error {
	if _, ok := a.index[arg.Name]; ok {
		return &ParseError{
			Reason: fmt.Sprintf("duplicate key %q in annotation %q", arg.Name, a.Name),
			Span:   arg.Span,
		}
	}
	if a.index == nil {
		a.index = make(map[string]int)
	}
	a.index[arg.Name] = len(a.args)
	a.args = append(a.args, arg)
	return nil
}
