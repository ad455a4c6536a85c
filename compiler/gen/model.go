package gen

import (
	"fmt"

	"github.com/syssam/stamp/compiler/attr"
	"github.com/syssam/stamp/schema"
)

// elementKey addresses one annotated element of a definition.
// {-1,-1} is the type itself, {v,-1} a variant, {-1,f} a struct field
// and {v,f} a variant field.
type elementKey struct {
	variant int
	field   int
}

var typeKey = elementKey{variant: -1, field: -1}

// InnerField identifies the field a definition designates as its
// wrapped/inner value. Explicit reports whether the designation came
// from an annotation rather than from single-field detection.
type InnerField struct {
	Variant  int // -1 for struct bodies
	Field    int
	Explicit bool
}

// Model is the validated, pattern-agnostic view of one type definition
// and its annotations. It is built once, immutable thereafter, and
// consumed read-only by all pattern modules: every fact a module reads
// has a single definitive value.
type Model struct {
	// Def is the underlying definition. Read-only.
	Def *schema.TypeDefinition
	// Requested holds the requested pattern IDs in request order.
	Requested []PatternID

	keys   []elementKey // annotated elements, in definition order
	anns   map[elementKey][]*attr.Annotation
	byName map[elementKey]map[string]*attr.Annotation

	inner        *InnerField
	variantInner []*InnerField // indexed by variant, nil entries allowed
}

// Build derives the semantic model from a type definition and the set
// of requested patterns. It partitions annotations by target element,
// cross-checks their presence and payload shapes against each
// requested pattern's capability descriptor, and computes the derived
// facts shared by the pattern modules. Any inconsistency yields a
// ParseError or ValidationError; a built model contains no unresolved
// or ambiguous annotation.
func Build(def *schema.TypeDefinition, requested []PatternID) (*Model, error) {
	if err := def.Validate(); err != nil {
		return nil, &ValidationError{Type: def.Name, Message: "invalid definition", Cause: err}
	}
	if len(requested) == 0 {
		requested = DefaultPatterns()
	}
	patterns := make([]Pattern, 0, len(requested))
	for _, id := range requested {
		p, ok := LookupPattern(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, id)
		}
		patterns = append(patterns, p)
	}

	m := &Model{
		Def:       def,
		Requested: requested,
		anns:      make(map[elementKey][]*attr.Annotation),
		byName:    make(map[elementKey]map[string]*attr.Annotation),
	}
	if err := m.partition(); err != nil {
		return nil, err
	}
	for _, p := range patterns {
		if err := m.checkShapes(p); err != nil {
			return nil, err
		}
	}
	if err := m.computeInner(); err != nil {
		return nil, err
	}
	for _, p := range patterns {
		if err := p.module.validate(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// partition parses every raw annotation and indexes it by its target
// element, rejecting duplicates with identical name and target.
func (m *Model) partition() error {
	if err := m.addAll(typeKey, m.Def.Annotations); err != nil {
		return err
	}
	for i, f := range m.Def.Fields {
		if err := m.addAll(elementKey{variant: -1, field: i}, f.Annotations); err != nil {
			return err
		}
	}
	for vi, v := range m.Def.Variants {
		if err := m.addAll(elementKey{variant: vi, field: -1}, v.Annotations); err != nil {
			return err
		}
		for fi, f := range v.Fields {
			if err := m.addAll(elementKey{variant: vi, field: fi}, f.Annotations); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Model) addAll(key elementKey, raw []*schema.RawAnnotation) error {
	for _, r := range raw {
		a, err := attr.Parse(r.Text)
		if err != nil {
			return err
		}
		if _, ok := m.byName[key][a.Name]; ok {
			return &ValidationError{
				Type:    m.Def.Name,
				Element: m.elementName(key),
				Message: fmt.Sprintf("duplicate annotation %q", a.Name),
				Pos:     r.Pos,
			}
		}
		if m.byName[key] == nil {
			m.byName[key] = make(map[string]*attr.Annotation)
			m.keys = append(m.keys, key)
		}
		m.byName[key][a.Name] = a
		m.anns[key] = append(m.anns[key], a)
	}
	return nil
}

// checkShapes cross-checks the partitioned annotations against one
// pattern's capability descriptor: required annotations must be
// present on an allowed target, and every occurrence of a name the
// pattern owns must sit on an allowed target with an accepted payload
// shape. Annotations whose names no requested pattern owns are left
// for other tools and ignored here.
func (m *Model) checkShapes(p Pattern) error {
	for _, spec := range p.Annotations {
		found := false
		for _, key := range m.keys {
			a, ok := m.byName[key][spec.Name]
			if !ok {
				continue
			}
			if !spec.Targets.Has(m.targetOf(key)) {
				return &ValidationError{
					Type:     m.Def.Name,
					Element:  m.elementName(key),
					Pattern:  p.ID,
					Expected: spec.Targets.String(),
					Found:    m.targetOf(key).String(),
					Message:  fmt.Sprintf("annotation %q is not allowed here", spec.Name),
				}
			}
			if !spec.accepts(a.Kind()) {
				return &ValidationError{
					Type:     m.Def.Name,
					Element:  m.elementName(key),
					Pattern:  p.ID,
					Expected: spec.kindNames(),
					Found:    a.Kind().String(),
					Message:  fmt.Sprintf("annotation %q has the wrong payload shape", spec.Name),
				}
			}
			found = true
		}
		if spec.Required && !found {
			return &ValidationError{
				Type:     m.Def.Name,
				Pattern:  p.ID,
				Expected: fmt.Sprintf("%s annotation %q on a %s", spec.kindNames(), spec.Name, spec.Targets),
				Found:    "none",
				Message:  fmt.Sprintf("missing required annotation %q", spec.Name),
			}
		}
	}
	return nil
}

// designators are the field-level flags that claim a field as the
// designated inner value. Both the Wrapper and From patterns read the
// resulting fact, so it is computed once here.
var designators = []string{"wrap", "from"}

// computeInner resolves the inner-field fact for the struct body and
// for each variant. Explicit designation always overrides implicit
// single-field detection; two claimed fields are a fatal conflict.
func (m *Model) computeInner() error {
	inner, err := m.innerOf(-1, m.Def.Fields)
	if err != nil {
		return err
	}
	m.inner = inner
	m.variantInner = make([]*InnerField, len(m.Def.Variants))
	for vi, v := range m.Def.Variants {
		inner, err := m.innerOf(vi, v.Fields)
		if err != nil {
			return err
		}
		m.variantInner[vi] = inner
	}
	return nil
}

func (m *Model) innerOf(variant int, fields []*schema.Field) (*InnerField, error) {
	claimed := -1
	for fi := range fields {
		key := elementKey{variant: variant, field: fi}
		for _, name := range designators {
			a, ok := m.byName[key][name]
			if !ok || a.Kind() != attr.Flag {
				continue
			}
			if claimed >= 0 && claimed != fi {
				return nil, &ValidationError{
					Type:    m.Def.Name,
					Element: m.elementName(key),
					Message: fmt.Sprintf("field conflicts with %s: both are designated as the inner field", m.elementName(elementKey{variant: variant, field: claimed})),
				}
			}
			claimed = fi
		}
	}
	if claimed >= 0 {
		return &InnerField{Variant: variant, Field: claimed, Explicit: true}, nil
	}
	if len(fields) == 1 {
		return &InnerField{Variant: variant, Field: 0}, nil
	}
	return nil, nil
}

// =============================================================================
// Read-only accessors used by the pattern modules
// =============================================================================

// TypeAnn returns the type-level annotation with the given name.
func (m *Model) TypeAnn(name string) (*attr.Annotation, bool) {
	a, ok := m.byName[typeKey][name]
	return a, ok
}

// VariantAnn returns the annotation with the given name on variant v.
func (m *Model) VariantAnn(v int, name string) (*attr.Annotation, bool) {
	a, ok := m.byName[elementKey{variant: v, field: -1}][name]
	return a, ok
}

// FieldAnn returns the annotation with the given name on field f of
// variant v; pass v = -1 for struct fields.
func (m *Model) FieldAnn(v, f int, name string) (*attr.Annotation, bool) {
	a, ok := m.byName[elementKey{variant: v, field: f}][name]
	return a, ok
}

// FieldHasFlag reports whether field f of variant v carries the given
// flag annotation.
func (m *Model) FieldHasFlag(v, f int, name string) bool {
	a, ok := m.FieldAnn(v, f, name)
	return ok && a.Kind() == attr.Flag
}

// FieldsOf returns the field list of variant v, or the struct fields
// for v = -1.
func (m *Model) FieldsOf(v int) []*schema.Field {
	if v < 0 {
		return m.Def.Fields
	}
	return m.Def.Variants[v].Fields
}

// SingleField reports whether the struct body has exactly one field.
func (m *Model) SingleField() bool {
	return m.Def.HasFields() && len(m.Def.Fields) == 1
}

// Inner returns the designated or implicit inner field of the struct
// body, if any.
func (m *Model) Inner() (*InnerField, bool) {
	if m.inner == nil {
		return nil, false
	}
	return m.inner, true
}

// VariantInner returns the designated or implicit inner field of
// variant v, if any.
func (m *Model) VariantInner(v int) (*InnerField, bool) {
	if v < 0 || v >= len(m.variantInner) || m.variantInner[v] == nil {
		return nil, false
	}
	return m.variantInner[v], true
}

// Field returns the field addressed by variant v and index f.
func (m *Model) Field(v, f int) *schema.Field {
	return m.FieldsOf(v)[f]
}

// FieldLabel returns the field's name, or its positional #index label
// for unnamed fields.
func (m *Model) FieldLabel(v, f int) string {
	if name := m.Field(v, f).Name; name != "" {
		return name
	}
	return fmt.Sprintf("#%d", f)
}

// elementName renders an element key for diagnostics.
func (m *Model) elementName(key elementKey) string {
	switch {
	case key.variant < 0 && key.field < 0:
		return ""
	case key.variant < 0:
		return fmt.Sprintf("field %q", m.FieldLabel(-1, key.field))
	case key.field < 0:
		return fmt.Sprintf("variant %q", m.Def.Variants[key.variant].Name)
	default:
		return fmt.Sprintf("variant %q field %q", m.Def.Variants[key.variant].Name, m.FieldLabel(key.variant, key.field))
	}
}

// targetOf maps an element key to its annotation target kind.
func (m *Model) targetOf(key elementKey) Target {
	switch {
	case key.variant < 0 && key.field < 0:
		return TargetType
	case key.field < 0:
		return TargetVariant
	default:
		return TargetField
	}
}
