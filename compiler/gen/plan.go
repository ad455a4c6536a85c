package gen

import "github.com/syssam/stamp/schema"

// BodyOp is the declarative description of what a generated block's
// body does. The synthesizer turns each op into concrete source; the
// pattern modules never deal with the output representation.
type BodyOp int

const (
	// OpFormat renders the block's display template.
	OpFormat BodyOp = iota
	// OpReturnField returns the selected field's current value.
	OpReturnField
	// OpReturnFieldRef returns the address of the selected field.
	OpReturnFieldRef
	// OpSetField assigns the single parameter to the selected field.
	OpSetField
	// OpConstruct builds the outer type from one source value, placing
	// the converted value into the selected field and zero values
	// elsewhere.
	OpConstruct
	// OpBinary applies the block's operator to the selected field of
	// the receiver and of the single parameter, returning a new outer
	// value.
	OpBinary
	// OpDelegateFormat formats the selected field's value with the
	// default verb, ignoring any template.
	OpDelegateFormat
)

// Block is one implementation block a pattern module decided to
// produce. Blocks are never mutated after creation, only rendered.
type Block struct {
	// Behavior is the human-readable label of the behavior being
	// implemented, e.g. `String`, `From(int64)`, `Getter(code)`.
	Behavior string
	// Method is the emitted method or function name.
	Method string
	// Func marks the block as a package-level function instead of a
	// method on the type.
	Func bool
	// PtrRecv marks a method block as using a pointer receiver.
	PtrRecv bool

	// Op selects the body description.
	Op BodyOp
	// VariantIndex is the variant the block targets, or -1 for struct
	// bodies.
	VariantIndex int
	// FieldIndex selects the field involved in the op, or -1.
	FieldIndex int
	// Param is the parameter type of set/construct/binary ops.
	Param *schema.TypeRef
	// Result is the result type of return ops. Nil means the op
	// implies it (OpFormat returns string).
	Result *schema.TypeRef
	// Template is the parsed display template of OpFormat blocks.
	Template *Template
	// Operator is the Go operator token of OpBinary blocks.
	Operator string
	// Doc is the doc comment line placed above the block.
	Doc string
}

// Plan is the ordered set of implementation blocks one pattern module
// produces for a semantic model.
type Plan struct {
	Pattern PatternID
	Blocks  []*Block
}
