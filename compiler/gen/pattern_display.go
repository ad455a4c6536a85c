package gen

import (
	"fmt"

	"github.com/syssam/stamp/compiler/attr"
)

// displayModule generates a String method substituting field values
// into the format template carried by the "display" annotation.
// Substitution is literal, left to right, with each field rendered
// through its own default formatting; there is no locale or width
// handling.
type displayModule struct{}

func (displayModule) validate(m *Model) error {
	if m.Def.HasVariants() {
		for vi := range m.Def.Variants {
			if _, _, err := displayTemplate(m, vi); err != nil {
				return err
			}
		}
		return nil
	}
	_, _, err := displayTemplate(m, -1)
	return err
}

func (displayModule) plan(m *Model) (*Plan, error) {
	p := &Plan{Pattern: PatternDisplay}
	if m.Def.HasVariants() {
		for vi, v := range m.Def.Variants {
			t, _, err := displayTemplate(m, vi)
			if err != nil {
				return nil, err
			}
			p.Blocks = append(p.Blocks, &Block{
				Behavior:     fmt.Sprintf("String(%s)", v.Name),
				Method:       "String",
				Op:           OpFormat,
				VariantIndex: vi,
				FieldIndex:   -1,
				Template:     t,
				Doc:          "String implements fmt.Stringer.",
			})
		}
		return p, nil
	}
	t, _, err := displayTemplate(m, -1)
	if err != nil {
		return nil, err
	}
	p.Blocks = append(p.Blocks, &Block{
		Behavior:     "String",
		Method:       "String",
		Op:           OpFormat,
		VariantIndex: -1,
		FieldIndex:   -1,
		Template:     t,
		Doc:          "String implements fmt.Stringer.",
	})
	return p, nil
}

// displayTemplate resolves and parses the template for the struct body
// (v = -1) or for one variant, where a variant-level "display"
// annotation overrides the type-level one. The returned bool reports
// whether the annotation came from the variant itself.
func displayTemplate(m *Model, v int) (*Template, bool, error) {
	a, own := (*attr.Annotation)(nil), false
	if v >= 0 {
		if va, ok := m.VariantAnn(v, "display"); ok {
			a, own = va, true
		}
	}
	if a == nil {
		ta, ok := m.TypeAnn("display")
		if !ok {
			verr := &ValidationError{
				Type:     m.Def.Name,
				Pattern:  PatternDisplay,
				Expected: `scalar annotation "display"`,
				Found:    "none",
				Message:  "no display template declared",
			}
			if v >= 0 {
				verr.Element = fmt.Sprintf("variant %q", m.Def.Variants[v].Name)
				verr.Message = "variant has no display template and the type declares none"
			}
			return nil, false, verr
		}
		a = ta
	}
	val := a.Value()
	if val == nil || val.Kind != attr.String {
		found := "flag"
		if val != nil {
			found = val.String()
		}
		return nil, false, &ValidationError{
			Type:     m.Def.Name,
			Pattern:  PatternDisplay,
			Expected: "string literal",
			Found:    found,
			Message:  `the "display" template must be a string`,
		}
	}
	t, err := parseTemplate(val.Str)
	if err != nil {
		return nil, false, &ValidationError{
			Type:    m.Def.Name,
			Pattern: PatternDisplay,
			Message: "malformed display template",
			Cause:   err,
		}
	}
	if err := checkRefs(m, v, t); err != nil {
		return nil, false, err
	}
	return t, own, nil
}

// checkRefs verifies every template reference resolves to a field of
// the targeted element.
func checkRefs(m *Model, v int, t *Template) error {
	fields := m.FieldsOf(v)
	for _, seg := range t.Segments {
		if !seg.Ref() {
			continue
		}
		if seg.Index >= 0 {
			if seg.Index >= len(fields) {
				return &ValidationError{
					Type:    m.Def.Name,
					Element: m.elementName(elementKey{variant: v, field: -1}),
					Pattern: PatternDisplay,
					Message: fmt.Sprintf("display template references field %d, but only %d fields exist", seg.Index, len(fields)),
				}
			}
			continue
		}
		if fieldIndex(fields, seg.Field) < 0 {
			return &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(elementKey{variant: v, field: -1}),
				Pattern: PatternDisplay,
				Message: fmt.Sprintf("display template references unknown field %q", seg.Field),
			}
		}
	}
	return nil
}
