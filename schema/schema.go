package schema

import (
	"encoding/json"
	"fmt"
	"go/token"
	"unicode"
)

// TypeDefinition represents one parsed type definition as supplied by the
// external source parser. A definition has either a Fields body (struct-like)
// or a Variants body (enum-like), never both.
type TypeDefinition struct {
	Name        string           `json:"name,omitempty"`
	TypeParams  []*TypeParam     `json:"type_params,omitempty"`
	Fields      []*Field         `json:"fields,omitempty"`
	Variants    []*Variant       `json:"variants,omitempty"`
	Annotations []*RawAnnotation `json:"annotations,omitempty"`
	Pos         *Position        `json:"pos,omitempty"`
}

// TypeParam is a single generic parameter of a type definition,
// with an optional constraint expression.
type TypeParam struct {
	Name       string `json:"name,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// Field represents one field of a type definition or variant.
// Name is empty for positional fields.
type Field struct {
	Name        string           `json:"name,omitempty"`
	Type        *TypeRef         `json:"type,omitempty"`
	Annotations []*RawAnnotation `json:"annotations,omitempty"`
	Pos         *Position        `json:"pos,omitempty"`
}

// Variant represents one variant of an enum-like type definition.
// A variant owns its own field list, which may be empty.
type Variant struct {
	Name        string           `json:"name,omitempty"`
	Fields      []*Field         `json:"fields,omitempty"`
	Annotations []*RawAnnotation `json:"annotations,omitempty"`
	Pos         *Position        `json:"pos,omitempty"`
}

// TypeRef is a reference to a declared type. Ident holds the type
// expression as written (e.g. "int", "time.Duration", "[]byte") and
// PkgPath the import path when the type is not predeclared or local.
type TypeRef struct {
	Ident   string `json:"ident,omitempty"`
	PkgPath string `json:"pkg_path,omitempty"`
}

// RawAnnotation is the unparsed text of one annotation together with
// its position in the original source.
type RawAnnotation struct {
	Text string    `json:"text,omitempty"`
	Pos  *Position `json:"pos,omitempty"`
}

// Position describes a location in the original definition source.
type Position struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String returns the familiar file:line:column form. A nil position
// renders as "-".
func (p *Position) String() string {
	if p == nil {
		return "-"
	}
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// HasFields reports whether the definition has a struct-like body.
func (d *TypeDefinition) HasFields() bool { return d.Variants == nil }

// HasVariants reports whether the definition has an enum-like body.
func (d *TypeDefinition) HasVariants() bool { return d.Variants != nil }

// Validate checks the structural invariants of the definition: a valid
// exported name, exactly one body kind, and valid names for type
// parameters, named fields and variants.
func (d *TypeDefinition) Validate() error {
	if err := ValidTypeName(d.Name); err != nil {
		return err
	}
	if len(d.Fields) > 0 && len(d.Variants) > 0 {
		return fmt.Errorf("type %q declares both fields and variants", d.Name)
	}
	for _, p := range d.TypeParams {
		if p.Name == "" {
			return fmt.Errorf("type %q declares an unnamed type parameter", d.Name)
		}
	}
	for _, f := range d.Fields {
		if err := f.validate(d.Name); err != nil {
			return err
		}
	}
	for _, v := range d.Variants {
		if v.Name == "" {
			return fmt.Errorf("type %q declares an unnamed variant", d.Name)
		}
		for _, f := range v.Fields {
			if err := f.validate(d.Name + "." + v.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Field) validate(owner string) error {
	if f.Type == nil || f.Type.Ident == "" {
		return fmt.Errorf("%s: field %q is missing its type reference", owner, f.Name)
	}
	if f.Name != "" && token.Lookup(f.Name).IsKeyword() {
		return fmt.Errorf("%s: field name %q is a reserved keyword", owner, f.Name)
	}
	return nil
}

// ValidTypeName reports whether the given name is usable as a generated
// type name: non-empty, exported, not a reserved keyword.
func ValidTypeName(name string) error {
	if name == "" {
		return fmt.Errorf("type name cannot be empty")
	}
	if token.Lookup(name).IsKeyword() {
		return fmt.Errorf("type name %q is a reserved keyword", name)
	}
	if r := rune(name[0]); !unicode.IsUpper(r) {
		return fmt.Errorf("type name %q must begin with an uppercase letter", name)
	}
	return nil
}

// Marshal encodes a definition to JSON so it can be handed between the
// external parser process and the generator.
func Marshal(d *TypeDefinition) ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("definition %q: %w", d.Name, err)
	}
	return json.Marshal(d)
}

// Unmarshal decodes a definition previously encoded with Marshal and
// re-checks its structural invariants.
func Unmarshal(buf []byte) (*TypeDefinition, error) {
	d := &TypeDefinition{}
	if err := json.Unmarshal(buf, d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("definition %q: %w", d.Name, err)
	}
	return d, nil
}
