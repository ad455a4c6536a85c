package gen

import (
	"fmt"

	"github.com/syssam/stamp/compiler/attr"
)

// wrapperModule generates newtype pass-through methods over the inner
// field: the Inner accessor pair by default, plus the facets selected
// by the "wrapper" annotation's mapping payload. Facet groups expand
// to individual facets, and the "norefs" facet strips the default
// accessors. Only struct bodies can be wrapped.
type wrapperModule struct{}

// wrapperFacet names one pass-through behavior of the Wrapper pattern.
type wrapperFacet string

const (
	facetDisplay wrapperFacet = "display"
	facetAdd     wrapperFacet = "add"
	facetSub     wrapperFacet = "sub"
	facetMul     wrapperFacet = "mul"
	facetDiv     wrapperFacet = "div"
	facetRem     wrapperFacet = "rem"
	facetAnd     wrapperFacet = "and"
	facetOr      wrapperFacet = "or"
	facetXor     wrapperFacet = "xor"
	facetMutable wrapperFacet = "mutable"
	facetNoRefs  wrapperFacet = "norefs"
)

// wrapperGroups are the facet aliases that expand to facet sets.
var wrapperGroups = map[string][]wrapperFacet{
	"math": {facetAdd, facetSub, facetMul, facetDiv, facetRem},
	"bits": {facetAnd, facetOr, facetXor},
}

// binaryFacets maps arithmetic and bitwise facets to the method name
// and operator of the generated pass-through.
var binaryFacets = map[wrapperFacet]struct {
	method   string
	operator string
}{
	facetAdd: {"Add", "+"},
	facetSub: {"Sub", "-"},
	facetMul: {"Mul", "*"},
	facetDiv: {"Div", "/"},
	facetRem: {"Rem", "%"},
	facetAnd: {"And", "&"},
	facetOr:  {"Or", "|"},
	facetXor: {"Xor", "^"},
}

func (w wrapperModule) validate(m *Model) error {
	if m.Def.HasVariants() {
		return &ValidationError{
			Type:    m.Def.Name,
			Pattern: PatternWrapper,
			Message: "only structures with fields can be wrapped; variant bodies are not supported",
		}
	}
	if len(m.Def.Fields) == 0 {
		return &ValidationError{
			Type:    m.Def.Name,
			Pattern: PatternWrapper,
			Message: "empty structures cannot be wrapped",
		}
	}
	if _, ok := m.Inner(); !ok {
		return &ValidationError{
			Type:    m.Def.Name,
			Pattern: PatternWrapper,
			Message: fmt.Sprintf(`when the structure has %d fields you must point out the one to wrap with a "wrap" flag`, len(m.Def.Fields)),
		}
	}
	_, err := w.facets(m)
	return err
}

func (w wrapperModule) plan(m *Model) (*Plan, error) {
	inner, _ := m.Inner()
	field := m.Field(-1, inner.Field)
	facets, err := w.facets(m)
	if err != nil {
		return nil, err
	}

	p := &Plan{Pattern: PatternWrapper}
	if !facets[facetNoRefs] {
		p.Blocks = append(p.Blocks,
			&Block{
				Behavior:     "Wrapper(Inner)",
				Method:       "Inner",
				Op:           OpReturnField,
				VariantIndex: -1,
				FieldIndex:   inner.Field,
				Result:       field.Type,
				Doc:          "Inner returns the wrapped value.",
			},
			&Block{
				Behavior:     "Wrapper(InnerRef)",
				Method:       "InnerRef",
				PtrRecv:      true,
				Op:           OpReturnFieldRef,
				VariantIndex: -1,
				FieldIndex:   inner.Field,
				Result:       field.Type,
				Doc:          "InnerRef returns a pointer to the wrapped value.",
			},
		)
	}
	if facets[facetDisplay] {
		p.Blocks = append(p.Blocks, &Block{
			Behavior:     "Wrapper(String)",
			Method:       "String",
			Op:           OpDelegateFormat,
			VariantIndex: -1,
			FieldIndex:   inner.Field,
			Doc:          "String formats the wrapped value.",
		})
	}
	for _, f := range []wrapperFacet{facetAdd, facetSub, facetMul, facetDiv, facetRem, facetAnd, facetOr, facetXor} {
		if !facets[f] {
			continue
		}
		bin := binaryFacets[f]
		p.Blocks = append(p.Blocks, &Block{
			Behavior:     fmt.Sprintf("Wrapper(%s)", bin.method),
			Method:       bin.method,
			Op:           OpBinary,
			Operator:     bin.operator,
			VariantIndex: -1,
			FieldIndex:   inner.Field,
			Doc:          fmt.Sprintf("%s applies %q to the wrapped values and wraps the result.", bin.method, bin.operator),
		})
	}
	if facets[facetMutable] {
		p.Blocks = append(p.Blocks,
			&Block{
				Behavior:     "Wrapper(InnerMut)",
				Method:       "InnerMut",
				PtrRecv:      true,
				Op:           OpReturnFieldRef,
				VariantIndex: -1,
				FieldIndex:   inner.Field,
				Result:       field.Type,
				Doc:          "InnerMut returns a mutable pointer to the wrapped value.",
			},
			&Block{
				Behavior:     "Wrapper(SetInner)",
				Method:       "SetInner",
				PtrRecv:      true,
				Op:           OpSetField,
				VariantIndex: -1,
				FieldIndex:   inner.Field,
				Param:        field.Type,
				Doc:          "SetInner replaces the wrapped value.",
			},
		)
	}
	return p, nil
}

// facets resolves the wrapper annotation's payload into the selected
// facet set, expanding group aliases and rejecting unknown names.
func (wrapperModule) facets(m *Model) (map[wrapperFacet]bool, error) {
	out := make(map[wrapperFacet]bool)
	a, ok := m.TypeAnn("wrapper")
	if !ok || a.Kind() == attr.Flag {
		return out, nil
	}
	for _, arg := range a.Args() {
		if arg.Value != nil {
			return nil, &ValidationError{
				Type:    m.Def.Name,
				Pattern: PatternWrapper,
				Message: fmt.Sprintf(`facets in "wrapper(...)" must be bare names, found %s = %s`, arg.Name, arg.Value),
			}
		}
		if group, ok := wrapperGroups[arg.Name]; ok {
			for _, f := range group {
				out[f] = true
			}
			continue
		}
		f := wrapperFacet(arg.Name)
		switch f {
		case facetDisplay, facetMutable, facetNoRefs:
		default:
			if _, ok := binaryFacets[f]; !ok {
				return nil, &ValidationError{
					Type:    m.Def.Name,
					Pattern: PatternWrapper,
					Message: fmt.Sprintf("unknown wrapper facet %q", arg.Name),
				}
			}
		}
		out[f] = true
	}
	return out, nil
}
