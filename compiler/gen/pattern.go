package gen

import (
	"github.com/syssam/stamp/compiler/attr"
)

// PatternID identifies one supported boilerplate-generation pattern.
type PatternID string

// Identifiers of the built-in patterns.
const (
	PatternDisplay PatternID = "display"
	PatternError   PatternID = "error"
	PatternFrom    PatternID = "from"
	PatternWrapper PatternID = "wrapper"
	PatternGetters PatternID = "getters"
)

// PatternStage describes the maturity stage of a pattern.
type PatternStage int

const (
	_ PatternStage = iota

	// Experimental patterns are in development, and actively being
	// tested in the integration environment.
	Experimental

	// Alpha patterns are patterns whose initial development was
	// finished, but we expect breaking-changes to their annotation
	// vocabulary.
	Alpha

	// Beta patterns are Alpha patterns that were documented, and no
	// breaking-changes are expected for them.
	Beta

	// Stable patterns are Beta patterns that were running for a while
	// in production schemas.
	Stable
)

// Target is a bitmask of the elements an annotation may attach to.
type Target int

const (
	// TargetType allows the annotation on the type definition itself.
	TargetType Target = 1 << iota
	// TargetVariant allows the annotation on a variant.
	TargetVariant
	// TargetField allows the annotation on a field.
	TargetField
)

// Has reports whether the mask includes the given target.
func (t Target) Has(o Target) bool { return t&o != 0 }

// String returns a readable list of the allowed targets.
func (t Target) String() string {
	s := make([]string, 0, 3)
	if t.Has(TargetType) {
		s = append(s, "type")
	}
	if t.Has(TargetVariant) {
		s = append(s, "variant")
	}
	if t.Has(TargetField) {
		s = append(s, "field")
	}
	switch len(s) {
	case 0:
		return "none"
	case 1:
		return s[0]
	case 2:
		return s[0] + " or " + s[1]
	default:
		return s[0] + ", " + s[1] + " or " + s[2]
	}
}

// AnnotationSpec declares one annotation name a pattern recognizes:
// where it may attach, which payload shapes are accepted, and whether
// the pattern requires it to be present. The model builder consults
// these specs uniformly for every requested pattern.
type AnnotationSpec struct {
	// Name of the annotation, e.g. "display" or "wrap".
	Name string
	// Targets the annotation may attach to.
	Targets Target
	// Kinds holds the accepted payload shapes.
	Kinds []attr.Kind
	// Required indicates the annotation must be present somewhere on
	// an allowed target for the pattern to run.
	Required bool
}

// accepts reports whether the spec accepts the given payload shape.
func (s AnnotationSpec) accepts(k attr.Kind) bool {
	for _, ok := range s.Kinds {
		if ok == k {
			return true
		}
	}
	return false
}

// kindNames returns the accepted shapes for error messages.
func (s AnnotationSpec) kindNames() string {
	switch len(s.Kinds) {
	case 0:
		return "none"
	case 1:
		return s.Kinds[0].String()
	default:
		out := s.Kinds[0].String()
		for _, k := range s.Kinds[1:] {
			out += " or " + k.String()
		}
		return out
	}
}

// module is the capability set every pattern implements: validate the
// semantic model against pattern-specific rules, and produce the
// generation plan. Both must be pure over the model.
type module interface {
	validate(m *Model) error
	plan(m *Model) (*Plan, error)
}

// A Pattern of the stamp codegen.
type Pattern struct {
	// ID of the pattern, used in generation requests.
	ID PatternID

	// Stage of the pattern.
	Stage PatternStage

	// Default indicates if this pattern runs when a request names no
	// patterns explicitly.
	Default bool

	// A Description of this pattern.
	Description string

	// Annotations is the static capability descriptor: the annotation
	// vocabulary this pattern owns.
	Annotations []AnnotationSpec

	module module
}

var (
	// Display generates a textual rendering from a format template.
	Display = Pattern{
		ID:          PatternDisplay,
		Stage:       Stable,
		Description: "Display generates a String method substituting field values into a format template",
		Annotations: []AnnotationSpec{
			{Name: "display", Targets: TargetType | TargetVariant, Kinds: []attr.Kind{attr.Scalar}, Required: true},
		},
		module: displayModule{},
	}

	// Error wires a type into the error interface, optionally exposing
	// a field as the underlying cause.
	Error = Pattern{
		ID:          PatternError,
		Stage:       Stable,
		Description: "Error generates Error and, when a field carries the source flag, Unwrap methods",
		Annotations: []AnnotationSpec{
			{Name: "source", Targets: TargetField, Kinds: []attr.Kind{attr.Flag}},
		},
		module: errorModule{},
	}

	// From generates conversions between the inner field's type and the
	// outer type.
	From = Pattern{
		ID:          PatternFrom,
		Stage:       Stable,
		Description: "From generates constructors from the inner field's type, extra source types and the reverse extraction",
		Annotations: []AnnotationSpec{
			{Name: "from", Targets: TargetType | TargetVariant | TargetField, Kinds: []attr.Kind{attr.Flag, attr.Mapping}},
			{Name: "into", Targets: TargetType, Kinds: []attr.Kind{attr.Flag}},
		},
		module: fromModule{},
	}

	// Wrapper generates transparent pass-through access to the single
	// wrapped field.
	Wrapper = Pattern{
		ID:          PatternWrapper,
		Stage:       Beta,
		Description: "Wrapper generates pass-through access to the wrapped field, with optional facets and mutation access",
		Annotations: []AnnotationSpec{
			{Name: "wrapper", Targets: TargetType, Kinds: []attr.Kind{attr.Flag, attr.Mapping}},
			{Name: "wrap", Targets: TargetField, Kinds: []attr.Kind{attr.Flag}},
		},
		module: wrapperModule{},
	}

	// Getters generates read accessors for every field not marked skip.
	Getters = Pattern{
		ID:          PatternGetters,
		Stage:       Stable,
		Default:     true,
		Description: "Getters generates a read accessor named after each field lacking a skip flag",
		Annotations: []AnnotationSpec{
			{Name: "skip", Targets: TargetField, Kinds: []attr.Kind{attr.Flag}},
		},
		module: gettersModule{},
	}

	// AllPatterns holds all registered patterns.
	AllPatterns = []Pattern{
		Display,
		Error,
		From,
		Wrapper,
		Getters,
	}
)

// LookupPattern returns the registered pattern with the given ID.
func LookupPattern(id PatternID) (Pattern, bool) {
	for _, p := range AllPatterns {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}

// DefaultPatterns returns the patterns that run when a request names
// none explicitly.
func DefaultPatterns() []PatternID {
	ids := make([]PatternID, 0, len(AllPatterns))
	for _, p := range AllPatterns {
		if p.Default {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
