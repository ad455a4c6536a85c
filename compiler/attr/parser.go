package attr

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse turns raw annotation text into its structured form. The payload
// shape is decided by the first token after the annotation name: end of
// input yields a flag, "=" a scalar, and "(" a mapping. Malformed
// nesting, unterminated groups and duplicate mapping keys are rejected
// with a ParseError carrying the offending span.
func Parse(raw string) (*Annotation, error) {
	l := newLexer(raw)
	name, err := l.next()
	if err != nil {
		return nil, err
	}
	if name.kind != tokenIdent {
		return nil, &ParseError{
			Reason: fmt.Sprintf("annotation must begin with an identifier, found %s", name.kind),
			Span:   name.span,
		}
	}
	a := &Annotation{Name: name.text}

	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenEOF:
		a.kind = Flag
		a.span = Span{Start: name.span.Start, End: name.span.End}
		return a, nil
	case tokenAssign:
		a.kind = Scalar
		v, span, err := parseValue(l)
		if err != nil {
			return nil, err
		}
		a.value = v
		a.span = Span{Start: name.span.Start, End: span.End}
	case tokenLParen:
		a.kind = Mapping
		end, err := parseArgs(l, a)
		if err != nil {
			return nil, err
		}
		a.span = Span{Start: name.span.Start, End: end}
	case tokenIdent:
		// A second bare name is trailing input, not a payload shape.
		return nil, &ParseError{
			Reason: fmt.Sprintf("unexpected trailing %s after annotation", tok.kind),
			Span:   Span{Start: tok.span.Start, End: len(raw)},
		}
	default:
		return nil, &ParseError{
			Reason: fmt.Sprintf(`annotation %q must be a bare flag, a "name = literal" scalar, or a "name(...)" mapping; found %s`, a.Name, tok.kind),
			Span:   tok.span,
		}
	}
	return a, expectEOF(l)
}

// parseArgs consumes a comma-separated argument list up to the closing
// parenthesis and returns the end offset of the group.
func parseArgs(l *lexer, a *Annotation) (int, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return 0, err
		}
		switch tok.kind {
		case tokenRParen:
			return tok.span.End, nil
		case tokenEOF:
			return 0, &ParseError{
				Reason: fmt.Sprintf("unterminated argument list in annotation %q", a.Name),
				Span:   Span{Start: a.span.Start, End: tok.span.End},
			}
		case tokenIdent:
			arg := Arg{Name: tok.text, Span: tok.span}
			next, err := l.peek()
			if err != nil {
				return 0, err
			}
			switch next.kind {
			case tokenAssign:
				l.next() // consume "="
				v, span, err := parseValue(l)
				if err != nil {
					return 0, err
				}
				arg.Value = v
				arg.Span.End = span.End
			case tokenLParen:
				return 0, &ParseError{
					Reason: fmt.Sprintf("nested lists are not supported: argument %q of annotation %q", arg.Name, a.Name),
					Span:   next.span,
				}
			}
			if err := a.addArg(arg); err != nil {
				return 0, err
			}
		default:
			return 0, &ParseError{
				Reason: fmt.Sprintf("argument name must be an identifier, found %s", tok.kind),
				Span:   tok.span,
			}
		}

		// An argument is followed by a comma or by the closing paren.
		sep, err := l.next()
		if err != nil {
			return 0, err
		}
		switch sep.kind {
		case tokenComma:
			// Tolerate a trailing comma before ")".
			next, err := l.peek()
			if err != nil {
				return 0, err
			}
			if next.kind == tokenRParen {
				l.next()
				return next.span.End, nil
			}
		case tokenRParen:
			return sep.span.End, nil
		case tokenEOF:
			return 0, &ParseError{
				Reason: fmt.Sprintf("unterminated argument list in annotation %q", a.Name),
				Span:   Span{Start: a.span.Start, End: sep.span.End},
			}
		default:
			return 0, &ParseError{
				Reason: fmt.Sprintf(`expected "," or ")" after argument, found %s`, sep.kind),
				Span:   sep.span,
			}
		}
	}
}

// parseValue consumes one value token: a literal or a bare identifier.
func parseValue(l *lexer) (*Value, Span, error) {
	tok, err := l.next()
	if err != nil {
		return nil, Span{}, err
	}
	switch tok.kind {
	case tokenString:
		return &Value{Kind: String, Str: tok.text}, tok.span, nil
	case tokenNumber:
		if strings.ContainsAny(tok.text, ".eE") {
			f, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, Span{}, &ParseError{Reason: "malformed number literal " + tok.text, Span: tok.span}
			}
			return &Value{Kind: Float, Float: f}, tok.span, nil
		}
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, Span{}, &ParseError{Reason: "malformed number literal " + tok.text, Span: tok.span}
		}
		return &Value{Kind: Int, Int: n}, tok.span, nil
	case tokenIdent:
		switch tok.text {
		case "true":
			return &Value{Kind: Bool, Bool: true}, tok.span, nil
		case "false":
			return &Value{Kind: Bool, Bool: false}, tok.span, nil
		}
		return &Value{Kind: Ident, Ident: tok.text}, tok.span, nil
	case tokenLParen:
		return nil, Span{}, &ParseError{
			Reason: "nested lists are not supported in value position",
			Span:   tok.span,
		}
	default:
		return nil, Span{}, &ParseError{
			Reason: fmt.Sprintf("expected a literal or identifier value, found %s", tok.kind),
			Span:   tok.span,
		}
	}
}

func expectEOF(l *lexer) error {
	tok, err := l.next()
	if err != nil {
		return err
	}
	if tok.kind != tokenEOF {
		return &ParseError{
			Reason: fmt.Sprintf("unexpected trailing %s after annotation", tok.kind),
			Span:   Span{Start: tok.span.Start, End: len(l.src)},
		}
	}
	return nil
}
