package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/stamp/schema"
)

// =============================================================================
// Helper functions
// =============================================================================

var titleCaser = cases.Title(language.Und, cases.NoLower)

// titleCase capitalizes the first letter of a string.
func titleCase(s string) string {
	return titleCaser.String(s)
}

// snake converts a Go-style name to its snake_case form. Acronym runs
// collapse into one word.
//
//	Username  => username
//	FullName  => full_name
//	HTTPError => http_error
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Split before an uppercase letter that starts a new word:
		// either the previous letter is lowercase, or the run of
		// uppercase letters ends here (the next one is lowercase).
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// exportedName converts a field name to its exported accessor form.
func exportedName(name string) string {
	return inflect.Camelize(snake(name))
}

// typeSuffix derives a method-name suffix from a type identifier,
// dropping the package qualifier of qualified names.
func typeSuffix(ident string) string {
	if i := strings.LastIndexByte(ident, '.'); i >= 0 {
		ident = ident[i+1:]
	}
	return titleCase(strings.TrimLeft(ident, "*[]"))
}

// fieldIndex returns the index of the named field, or -1.
func fieldIndex(fields []*schema.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// validMethodName reports whether a generated identifier is usable as
// a Go method or function name.
func validMethodName(name string) bool {
	if name == "" || token.Lookup(name).IsKeyword() {
		return false
	}
	for i, r := range name {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
