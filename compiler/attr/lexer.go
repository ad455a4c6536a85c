package attr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenAssign
	tokenLParen
	tokenRParen
	tokenComma
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of annotation"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string literal"
	case tokenNumber:
		return "number literal"
	case tokenAssign:
		return `"="`
	case tokenLParen:
		return `"("`
	case tokenRParen:
		return `")"`
	case tokenComma:
		return `","`
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string
	span Span
}

// lexer splits raw annotation text into tokens. It is a plain
// byte-offset scanner; spans index into the original text.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the next token, skipping whitespace.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, span: Span{Start: start, End: start}}, nil
	}
	switch c := l.src[l.pos]; {
	case c == '=':
		l.pos++
		return token{kind: tokenAssign, text: "=", span: Span{Start: start, End: l.pos}}, nil
	case c == '(':
		l.pos++
		return token{kind: tokenLParen, text: "(", span: Span{Start: start, End: l.pos}}, nil
	case c == ')':
		l.pos++
		return token{kind: tokenRParen, text: ")", span: Span{Start: start, End: l.pos}}, nil
	case c == ',':
		l.pos++
		return token{kind: tokenComma, text: ",", span: Span{Start: start, End: l.pos}}, nil
	case c == '"':
		return l.scanString()
	case c == '-' || c >= '0' && c <= '9':
		return l.scanNumber()
	default:
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		if isIdentStart(r) {
			return l.scanIdent()
		}
		return token{}, &ParseError{
			Reason: "unexpected character " + strconv.QuoteRune(r),
			Span:   Span{Start: start, End: start + utf8.RuneLen(r)},
		}
	}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (token, error) {
	pos := l.pos
	tok, err := l.next()
	l.pos = pos
	return tok, err
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if r == '.' {
			// Qualified identifiers (e.g. time.Duration) lex as one
			// token, but only when the dot is followed by a letter.
			next, _ := utf8.DecodeRuneInString(l.src[l.pos+size:])
			if !isIdentStart(next) {
				break
			}
			l.pos += size
			continue
		}
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	return token{
		kind: tokenIdent,
		text: l.src[start:l.pos],
		span: Span{Start: start, End: l.pos},
	}, nil
}

func (l *lexer) scanString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{
				kind: tokenString,
				text: b.String(),
				span: Span{Start: start, End: l.pos},
			}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				// A lone trailing backslash leaves the literal
				// unterminated; fall through to the error below.
				l.pos = len(l.src)
				continue
			}
			l.pos++
			switch esc := l.src[l.pos]; esc {
			case '"', '\\':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return token{}, &ParseError{
					Reason: "unsupported escape sequence \\" + string(esc),
					Span:   Span{Start: l.pos - 1, End: l.pos + 1},
				}
			}
			l.pos++
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, &ParseError{
		Reason: "unterminated string literal",
		Span:   Span{Start: start, End: len(l.src)},
	}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	digits := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' ||
			(c == '-' || c == '+') && l.pos > start && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E') {
			if c >= '0' && c <= '9' {
				digits = true
			}
			l.pos++
			continue
		}
		break
	}
	if !digits {
		return token{}, &ParseError{
			Reason: "malformed number literal",
			Span:   Span{Start: start, End: l.pos},
		}
	}
	return token{
		kind: tokenNumber,
		text: l.src[start:l.pos],
		span: Span{Start: start, End: l.pos},
	}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
