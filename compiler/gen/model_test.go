package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/stamp/schema"
)

// ann is a shorthand for raw annotation fixtures.
func ann(texts ...string) []*schema.RawAnnotation {
	out := make([]*schema.RawAnnotation, len(texts))
	for i, t := range texts {
		out[i] = &schema.RawAnnotation{Text: t}
	}
	return out
}

func field(name, ident string, anns ...string) *schema.Field {
	return &schema.Field{Name: name, Type: &schema.TypeRef{Ident: ident}, Annotations: ann(anns...)}
}

func structDef(name string, fields ...*schema.Field) *schema.TypeDefinition {
	return &schema.TypeDefinition{Name: name, Fields: fields}
}

func TestBuildDefaults(t *testing.T) {
	t.Run("empty request uses the default set", func(t *testing.T) {
		m, err := Build(structDef("User", field("name", "string")), nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultPatterns(), m.Requested)
	})

	t.Run("unknown pattern", func(t *testing.T) {
		_, err := Build(structDef("User", field("name", "string")), []PatternID{"nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownPattern)
	})

	t.Run("invalid definition", func(t *testing.T) {
		_, err := Build(&schema.TypeDefinition{Name: "lower"}, []PatternID{PatternGetters})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestBuildPartition(t *testing.T) {
	t.Run("annotations are indexed by element", func(t *testing.T) {
		def := structDef("HTTPError",
			field("code", "int", "from"),
			field("message", "string"),
		)
		def.Annotations = ann(`display = "error {code}: {message}"`)

		m, err := Build(def, []PatternID{PatternDisplay, PatternFrom})
		require.NoError(t, err)

		a, ok := m.TypeAnn("display")
		require.True(t, ok)
		assert.Equal(t, "display", a.Name)
		assert.True(t, m.FieldHasFlag(-1, 0, "from"))
		assert.False(t, m.FieldHasFlag(-1, 1, "from"))
	})

	t.Run("duplicate name on one element is rejected", func(t *testing.T) {
		def := structDef("T", field("x", "int", "wrap", "wrap"))
		_, err := Build(def, []PatternID{PatternWrapper})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate annotation "wrap"`)
	})

	t.Run("same name on different elements is fine", func(t *testing.T) {
		def := &schema.TypeDefinition{
			Name: "Event",
			Variants: []*schema.Variant{
				{Name: "A", Annotations: ann(`display = "a"`)},
				{Name: "B", Annotations: ann(`display = "b"`)},
			},
		}
		_, err := Build(def, []PatternID{PatternDisplay})
		require.NoError(t, err)
	})

	t.Run("parse errors surface unchanged", func(t *testing.T) {
		def := structDef("T", field("x", "int", "wrapper(display"))
		_, err := Build(def, []PatternID{PatternGetters})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unterminated argument list")
	})
}

func TestBuildShapeChecks(t *testing.T) {
	t.Run("wrong target", func(t *testing.T) {
		def := structDef("T", field("x", "int", `display = "x"`))
		_, err := Build(def, []PatternID{PatternDisplay})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), `annotation "display" is not allowed here`)
	})

	t.Run("wrong payload shape", func(t *testing.T) {
		def := structDef("T", field("x", "int"))
		def.Annotations = ann("display")
		_, err := Build(def, []PatternID{PatternDisplay})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wrong payload shape")
		assert.Contains(t, err.Error(), "expected scalar, found flag")
	})

	t.Run("missing required annotation", func(t *testing.T) {
		def := structDef("T", field("x", "int"))
		_, err := Build(def, []PatternID{PatternDisplay})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing required annotation "display"`)
	})

	t.Run("unowned annotations are ignored", func(t *testing.T) {
		def := structDef("T", field("x", "int", `column = "x_col"`))
		_, err := Build(def, []PatternID{PatternGetters})
		require.NoError(t, err)
	})
}

func TestInnerField(t *testing.T) {
	t.Run("implicit single field", func(t *testing.T) {
		m, err := Build(structDef("ID", field("id", "uint64")), []PatternID{PatternGetters})
		require.NoError(t, err)

		inner, ok := m.Inner()
		require.True(t, ok)
		assert.Equal(t, 0, inner.Field)
		assert.False(t, inner.Explicit)
	})

	t.Run("explicit designation on multi-field body", func(t *testing.T) {
		def := structDef("Pair",
			field("left", "int"),
			field("right", "int", "wrap"),
		)
		m, err := Build(def, []PatternID{PatternWrapper})
		require.NoError(t, err)

		inner, ok := m.Inner()
		require.True(t, ok)
		assert.Equal(t, 1, inner.Field)
		assert.True(t, inner.Explicit)
	})

	t.Run("no designation on multi-field body", func(t *testing.T) {
		def := structDef("Pair", field("left", "int"), field("right", "int"))
		m, err := Build(def, []PatternID{PatternGetters})
		require.NoError(t, err)

		_, ok := m.Inner()
		assert.False(t, ok)
	})

	t.Run("two designated fields conflict", func(t *testing.T) {
		def := structDef("Pair",
			field("left", "int", "wrap"),
			field("right", "int", "from"),
		)
		_, err := Build(def, []PatternID{PatternGetters})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "both are designated as the inner field")
	})

	t.Run("per-variant inner fields", func(t *testing.T) {
		def := &schema.TypeDefinition{
			Name: "Value",
			Variants: []*schema.Variant{
				{Name: "Num", Fields: []*schema.Field{field("", "int64")}},
				{Name: "Pair", Fields: []*schema.Field{field("a", "int"), field("b", "int")}},
			},
		}
		m, err := Build(def, []PatternID{PatternGetters})
		require.Error(t, err) // getters rejects variant bodies
		assert.Contains(t, err.Error(), "structures with fields")

		m, err = Build(def, []PatternID{PatternError})
		require.NoError(t, err)
		inner, ok := m.VariantInner(0)
		require.True(t, ok)
		assert.Equal(t, 0, inner.Field)
		_, ok = m.VariantInner(1)
		assert.False(t, ok)
	})
}

func TestModelAccessors(t *testing.T) {
	def := &schema.TypeDefinition{
		Name: "Shape",
		Variants: []*schema.Variant{
			{Name: "Circle", Fields: []*schema.Field{field("radius", "float64")}},
			{Name: "Point"},
		},
	}
	m, err := Build(def, []PatternID{PatternError})
	require.NoError(t, err)

	assert.Len(t, m.FieldsOf(0), 1)
	assert.Empty(t, m.FieldsOf(1))
	assert.Equal(t, "radius", m.FieldLabel(0, 0))
	assert.False(t, m.SingleField())

	pm, err := Build(structDef("P", field("", "int")), []PatternID{PatternGetters})
	require.NoError(t, err)
	assert.True(t, pm.SingleField())
	assert.Equal(t, "#0", pm.FieldLabel(-1, 0))
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("parse and validation errors stay distinct", func(t *testing.T) {
		_, perr := Build(structDef("T", field("x", "int", "wrap(")), []PatternID{PatternGetters})
		require.Error(t, perr)
		assert.False(t, IsValidationError(perr))

		_, verr := Build(structDef("T", field("x", "int", `display = "x"`)), []PatternID{PatternDisplay})
		require.Error(t, verr)
		assert.True(t, IsValidationError(verr))
		assert.False(t, errors.Is(verr, ErrGenerationFailed))
	})
}
