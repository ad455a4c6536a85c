package gen

import (
	"fmt"
)

// gettersModule generates one read accessor per named struct field,
// unless the field opts out with a "skip" flag. Accessor names are
// the exported form of the field name; two fields mapping to the same
// accessor, or an accessor clashing with an existing field, are fatal.
type gettersModule struct{}

func (g gettersModule) validate(m *Model) error {
	if m.Def.HasVariants() {
		return &ValidationError{
			Type:    m.Def.Name,
			Pattern: PatternGetters,
			Message: "accessors can only be derived for structures with fields",
		}
	}
	_, err := g.accessors(m)
	return err
}

func (g gettersModule) plan(m *Model) (*Plan, error) {
	accessors, err := g.accessors(m)
	if err != nil {
		return nil, err
	}
	p := &Plan{Pattern: PatternGetters}
	for _, acc := range accessors {
		field := m.Field(-1, acc.field)
		p.Blocks = append(p.Blocks, &Block{
			Behavior:     fmt.Sprintf("Getters(%s)", acc.name),
			Method:       acc.name,
			Op:           OpReturnField,
			VariantIndex: -1,
			FieldIndex:   acc.field,
			Result:       field.Type,
			Doc:          fmt.Sprintf("%s returns the %s field.", acc.name, field.Name),
		})
	}
	return p, nil
}

type accessor struct {
	name  string
	field int
}

// accessors maps the non-skipped named fields to their accessor
// names, rejecting collisions.
func (gettersModule) accessors(m *Model) ([]accessor, error) {
	names := make(map[string]bool, len(m.Def.Fields))
	for _, f := range m.Def.Fields {
		if f.Name != "" {
			names[f.Name] = true
		}
	}
	out := make([]accessor, 0, len(m.Def.Fields))
	seen := make(map[string]int)
	for fi, f := range m.Def.Fields {
		if f.Name == "" || m.FieldHasFlag(-1, fi, "skip") {
			continue
		}
		name := exportedName(f.Name)
		if name == f.Name {
			// The field is already exported; an accessor would
			// collide with it and adds nothing.
			continue
		}
		if !validMethodName(name) {
			return nil, &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(elementKey{variant: -1, field: fi}),
				Pattern: PatternGetters,
				Message: fmt.Sprintf("cannot derive a valid accessor name from %q", f.Name),
			}
		}
		if prev, ok := seen[name]; ok {
			return nil, &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(elementKey{variant: -1, field: fi}),
				Pattern: PatternGetters,
				Message: fmt.Sprintf("accessor %s collides with the one derived for %s", name, m.elementName(elementKey{variant: -1, field: prev})),
			}
		}
		if names[name] {
			return nil, &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(elementKey{variant: -1, field: fi}),
				Pattern: PatternGetters,
				Message: fmt.Sprintf("accessor %s collides with an existing field", name),
			}
		}
		seen[name] = fi
		out = append(out, accessor{name: name, field: fi})
	}
	return out, nil
}
