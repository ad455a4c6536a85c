package gen

import (
	"fmt"

	"github.com/syssam/stamp/compiler/attr"
	"github.com/syssam/stamp/schema"
)

// fromModule generates conversions between the inner field's type and
// the outer type: a constructor taking the inner value, one
// constructor per extra source type listed in a "from" mapping, and,
// when the "into" flag is present, the reverse extraction. Struct
// bodies participate unconditionally; variants participate only when
// they opt in with a "from" annotation on the variant or one of its
// fields. Multi-field bodies require an explicitly designated inner
// field.
type fromModule struct{}

func (f fromModule) validate(m *Model) error {
	if m.Def.HasVariants() {
		if _, ok := m.TypeAnn("from"); ok {
			return &ValidationError{
				Type:    m.Def.Name,
				Pattern: PatternFrom,
				Message: `top-level "from" is not allowed on variant bodies; attach it to specific variants or fields`,
			}
		}
		for vi := range m.Def.Variants {
			if !f.optedIn(m, vi) {
				continue
			}
			if _, err := f.bodyInner(m, vi); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := f.bodyInner(m, -1)
	return err
}

func (f fromModule) plan(m *Model) (*Plan, error) {
	p := &Plan{Pattern: PatternFrom}
	if m.Def.HasVariants() {
		for vi := range m.Def.Variants {
			if !f.optedIn(m, vi) {
				continue
			}
			if err := f.planBody(m, vi, p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	if err := f.planBody(m, -1, p); err != nil {
		return nil, err
	}
	return p, nil
}

// optedIn reports whether variant v requested a conversion through a
// "from" annotation on itself or on one of its fields.
func (fromModule) optedIn(m *Model, v int) bool {
	if _, ok := m.VariantAnn(v, "from"); ok {
		return true
	}
	for fi := range m.FieldsOf(v) {
		if _, ok := m.FieldAnn(v, fi, "from"); ok {
			return true
		}
	}
	return false
}

// bodyInner resolves the inner field the conversions of one body run
// through, rejecting multi-field bodies without a designation with an
// error naming the actual field count.
func (fromModule) bodyInner(m *Model, v int) (*InnerField, error) {
	inner, ok := m.Inner()
	if v >= 0 {
		inner, ok = m.VariantInner(v)
	}
	if ok {
		return inner, nil
	}
	n := len(m.FieldsOf(v))
	return nil, &ValidationError{
		Type:    m.Def.Name,
		Element: m.elementName(elementKey{variant: v, field: -1}),
		Pattern: PatternFrom,
		Message: fmt.Sprintf("cannot derive a conversion for a %d-field body without a designated inner field", n),
	}
}

func (f fromModule) planBody(m *Model, v int, p *Plan) error {
	inner, err := f.bodyInner(m, v)
	if err != nil {
		return err
	}
	field := m.Field(v, inner.Field)
	suffix := ""
	if v >= 0 {
		suffix = fmt.Sprintf("(%s)", m.Def.Variants[v].Name)
	}

	// Constructor from the inner type itself.
	p.Blocks = append(p.Blocks, &Block{
		Behavior:     fmt.Sprintf("From(%s)%s", field.Type.Ident, suffix),
		Method:       constructorName(m, v),
		Func:         true,
		Op:           OpConstruct,
		VariantIndex: v,
		FieldIndex:   inner.Field,
		Param:        field.Type,
		Doc:          fmt.Sprintf("%s builds the value from its inner %s.", constructorName(m, v), field.Type.Ident),
	})

	// Extra source types from the "from" mapping, each converting via
	// the inner field's type.
	sources, err := f.extraSources(m, v, field.Type)
	if err != nil {
		return err
	}
	for _, src := range sources {
		name := constructorName(m, v) + "From" + typeSuffix(src.Ident)
		p.Blocks = append(p.Blocks, &Block{
			Behavior:     fmt.Sprintf("From(%s)%s", src.Ident, suffix),
			Method:       name,
			Func:         true,
			Op:           OpConstruct,
			VariantIndex: v,
			FieldIndex:   inner.Field,
			Param:        src,
			Doc:          fmt.Sprintf("%s builds the value from a %s, converting through %s.", name, src.Ident, field.Type.Ident),
		})
	}

	// Reverse extraction, on request.
	if _, ok := m.TypeAnn("into"); ok && v < 0 {
		p.Blocks = append(p.Blocks, &Block{
			Behavior:     fmt.Sprintf("Into(%s)", field.Type.Ident),
			Method:       "Into",
			Op:           OpReturnField,
			VariantIndex: v,
			FieldIndex:   inner.Field,
			Result:       field.Type,
			Doc:          "Into extracts the inner value.",
		})
	}
	return nil
}

// extraSources collects the source types of the body's "from" mapping
// annotations, preserving order and rejecting repeated types. The
// inner type itself already has a constructor and may not be listed
// again.
func (fromModule) extraSources(m *Model, v int, inner *schema.TypeRef) ([]*schema.TypeRef, error) {
	var anns []*attr.Annotation
	if v < 0 {
		if a, ok := m.TypeAnn("from"); ok && a.Kind() == attr.Mapping {
			anns = append(anns, a)
		}
	} else if a, ok := m.VariantAnn(v, "from"); ok && a.Kind() == attr.Mapping {
		anns = append(anns, a)
	}
	for fi := range m.FieldsOf(v) {
		if a, ok := m.FieldAnn(v, fi, "from"); ok && a.Kind() == attr.Mapping {
			anns = append(anns, a)
		}
	}

	var out []*schema.TypeRef
	seen := map[string]bool{inner.Ident: true}
	for _, a := range anns {
		for _, arg := range a.Args() {
			if arg.Value != nil {
				return nil, &ValidationError{
					Type:    m.Def.Name,
					Element: m.elementName(elementKey{variant: v, field: -1}),
					Pattern: PatternFrom,
					Message: fmt.Sprintf(`source types in "from(...)" must be bare type names, found %s = %s`, arg.Name, arg.Value),
				}
			}
			if seen[arg.Name] {
				return nil, &ValidationError{
					Type:    m.Def.Name,
					Element: m.elementName(elementKey{variant: v, field: -1}),
					Pattern: PatternFrom,
					Message: fmt.Sprintf(`repeated use of source type %q in "from"`, arg.Name),
				}
			}
			seen[arg.Name] = true
			out = append(out, &schema.TypeRef{Ident: arg.Name})
		}
	}
	return out, nil
}

// constructorName is New<Type> for struct bodies and
// New<Type><Variant> for variant bodies.
func constructorName(m *Model, v int) string {
	if v < 0 {
		return "New" + m.Def.Name
	}
	return "New" + m.Def.Name + m.Def.Variants[v].Name
}
