package gen

import (
	"fmt"

	"github.com/syssam/stamp/schema"
)

// errorModule wires a type into the error interface. The Error method
// reuses the display template when one is declared; otherwise it
// formats the source field, falling back to the type name. A field
// carrying the "source" flag is exposed verbatim as the underlying
// cause through Unwrap.
type errorModule struct{}

func (errorModule) validate(m *Model) error {
	if _, err := sourceField(m, -1); err != nil {
		return err
	}
	for vi := range m.Def.Variants {
		if _, err := sourceField(m, vi); err != nil {
			return err
		}
	}
	return nil
}

func (e errorModule) plan(m *Model) (*Plan, error) {
	p := &Plan{Pattern: PatternError}
	if m.Def.HasVariants() {
		for vi := range m.Def.Variants {
			if err := e.planBody(m, vi, p); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	if err := e.planBody(m, -1, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (errorModule) planBody(m *Model, v int, p *Plan) error {
	src, err := sourceField(m, v)
	if err != nil {
		return err
	}

	// Error text: the display template when declared, else the source
	// field's own rendering, else the type name.
	block := &Block{
		Behavior:     "Error",
		Method:       "Error",
		Op:           OpFormat,
		VariantIndex: v,
		FieldIndex:   -1,
		Doc:          "Error implements the error interface.",
	}
	if v >= 0 {
		block.Behavior = fmt.Sprintf("Error(%s)", m.Def.Variants[v].Name)
	}
	switch {
	case hasDisplay(m, v):
		t, _, terr := displayTemplate(m, v)
		if terr != nil {
			return terr
		}
		block.Template = t
	case src >= 0:
		block.Op = OpDelegateFormat
		block.FieldIndex = src
	default:
		block.Template = literalTemplate(errorLabel(m, v))
	}
	p.Blocks = append(p.Blocks, block)

	if src >= 0 {
		unwrap := &Block{
			Behavior:     "Unwrap",
			Method:       "Unwrap",
			Op:           OpReturnField,
			VariantIndex: v,
			FieldIndex:   src,
			Result:       &schema.TypeRef{Ident: "error"},
			Doc:          "Unwrap returns the underlying cause.",
		}
		if v >= 0 {
			unwrap.Behavior = fmt.Sprintf("Unwrap(%s)", m.Def.Variants[v].Name)
		}
		p.Blocks = append(p.Blocks, unwrap)
	}
	return nil
}

// sourceField returns the index of the field carrying the "source"
// flag in the given body, or -1. More than one source field is a
// fatal conflict.
func sourceField(m *Model, v int) (int, error) {
	found := -1
	for fi := range m.FieldsOf(v) {
		if !m.FieldHasFlag(v, fi, "source") {
			continue
		}
		if found >= 0 {
			return 0, &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(elementKey{variant: v, field: fi}),
				Pattern: PatternError,
				Message: fmt.Sprintf("field conflicts with %s: only one field may carry the source flag", m.elementName(elementKey{variant: v, field: found})),
			}
		}
		found = fi
	}
	return found, nil
}

// hasDisplay reports whether a display template is declared for the
// body, either on the element itself or at type level.
func hasDisplay(m *Model, v int) bool {
	if v >= 0 {
		if _, ok := m.VariantAnn(v, "display"); ok {
			return true
		}
	}
	_, ok := m.TypeAnn("display")
	return ok
}

// errorLabel is the fallback error text when neither a template nor a
// source field exists.
func errorLabel(m *Model, v int) string {
	if v >= 0 {
		return snake(m.Def.Name) + ": " + snake(m.Def.Variants[v].Name)
	}
	return snake(m.Def.Name)
}
