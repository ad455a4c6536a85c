package gen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/stamp/schema"
)

// Fragment is the rendered source of one pattern's plan: a sequence of
// top-level declarations without a package clause. Fragments are
// produced in requested-pattern order and joined by Assemble.
type Fragment struct {
	Pattern PatternID
	Source  string
}

// Synthesize renders a generation plan into a source fragment. The
// blocks reuse the definition's generic parameters and bounds
// verbatim; the plan order is preserved.
func Synthesize(m *Model, p *Plan) (*Fragment, error) {
	var buf strings.Builder
	for i, b := range p.Blocks {
		code, err := renderBlock(m, b)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%#v", code))
		buf.WriteString("\n")
	}
	return &Fragment{Pattern: p.Pattern, Source: buf.String()}, nil
}

// Assemble joins fragments into one gofmt-clean generated file for the
// given package. Import resolution runs over the joined source, so
// fragments may freely reference fmt and the packages of qualified
// field types. A non-empty header is placed below the generated-code
// marker.
func Assemble(pkg, header string, fragments []*Fragment) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by stampgen. DO NOT EDIT.\n")
	if header != "" {
		fmt.Fprintf(&buf, "// %s\n", strings.ReplaceAll(header, "\n", "\n// "))
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	for _, f := range fragments {
		buf.WriteString(f.Source)
	}
	src, err := imports.Process(pkg+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("", "", "", "formatting the assembled file failed", err)
	}
	return src, nil
}

// renderBlock renders one implementation block: its doc comment and
// the method or function it emits.
func renderBlock(m *Model, b *Block) (*jen.Statement, error) {
	code := jen.Comment(b.Doc).Line()
	if b.Func {
		code.Func().Id(b.Method)
		if params := typeParamDecls(m); len(params) > 0 {
			code.Index(params...)
		}
	} else {
		recv := jen.Id(receiverName(m))
		if b.PtrRecv {
			recv.Op("*")
		}
		code.Func().Params(recv.Add(receiverType(m, b))).Id(b.Method)
	}

	body, err := renderBody(m, b)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case OpFormat, OpDelegateFormat:
		code.Params().String()
	case OpReturnField:
		code.Params().Add(resultType(m, b))
	case OpReturnFieldRef:
		code.Params().Op("*").Add(resultType(m, b))
	case OpSetField:
		code.Params(jen.Id("v").Add(refType(b.Param)))
	case OpConstruct:
		code.Params(jen.Id("v").Add(refType(b.Param))).Add(receiverType(m, b))
	case OpBinary:
		code.Params(jen.Id("o").Add(receiverType(m, b))).Add(receiverType(m, b))
	default:
		return nil, NewGenerationError(m.Def.Name, "", b.Behavior, fmt.Sprintf("unsupported body op %d", b.Op), nil)
	}
	code.Block(body...)
	return code, nil
}

// renderBody renders the block's body statements.
func renderBody(m *Model, b *Block) ([]jen.Code, error) {
	recv := receiverName(m)
	field := func() string { return fieldName(m, b.VariantIndex, b.FieldIndex) }

	switch b.Op {
	case OpFormat:
		return renderFormat(m, b, recv)
	case OpDelegateFormat:
		return []jen.Code{
			jen.Return(jen.Qual("fmt", "Sprint").Call(jen.Id(recv).Dot(field()))),
		}, nil
	case OpReturnField:
		return []jen.Code{jen.Return(jen.Id(recv).Dot(field()))}, nil
	case OpReturnFieldRef:
		return []jen.Code{jen.Return(jen.Op("&").Id(recv).Dot(field()))}, nil
	case OpSetField:
		return []jen.Code{jen.Id(recv).Dot(field()).Op("=").Id("v")}, nil
	case OpConstruct:
		val := jen.Id("v")
		inner := m.Field(b.VariantIndex, b.FieldIndex)
		if b.Param != nil && b.Param.Ident != inner.Type.Ident {
			// Extra source types convert through the inner type.
			val = refType(inner.Type).Call(jen.Id("v"))
		}
		return []jen.Code{
			jen.Return(receiverType(m, b).Values(jen.Dict{jen.Id(field()): val})),
		}, nil
	case OpBinary:
		return []jen.Code{
			jen.Id("out").Op(":=").Id(recv),
			jen.Id("out").Dot(field()).Op("=").Id(recv).Dot(field()).Op(b.Operator).Id("o").Dot(field()),
			jen.Return(jen.Id("out")),
		}, nil
	}
	return nil, NewGenerationError(m.Def.Name, "", b.Behavior, fmt.Sprintf("unsupported body op %d", b.Op), nil)
}

// renderFormat turns the block's template into a Sprintf call, or a
// plain literal when the template holds no references and no verbs.
func renderFormat(m *Model, b *Block, recv string) ([]jen.Code, error) {
	if b.Template == nil {
		return nil, NewGenerationError(m.Def.Name, "", b.Behavior, "format block carries no template", nil)
	}
	var format strings.Builder
	var args []jen.Code
	for _, seg := range b.Template.Segments {
		if !seg.Ref() {
			format.WriteString(strings.ReplaceAll(seg.Literal, "%", "%%"))
			continue
		}
		fi := seg.Index
		if fi < 0 {
			fi = fieldIndex(m.FieldsOf(b.VariantIndex), seg.Field)
		}
		if fi < 0 || fi >= len(m.FieldsOf(b.VariantIndex)) {
			return nil, NewGenerationError(m.Def.Name, "", b.Behavior, fmt.Sprintf("template references unresolved field %q", seg.Field), nil)
		}
		format.WriteString("%v")
		args = append(args, jen.Id(recv).Dot(fieldName(m, b.VariantIndex, fi)))
	}
	if len(args) == 0 {
		var text strings.Builder
		for _, seg := range b.Template.Segments {
			text.WriteString(seg.Literal)
		}
		return []jen.Code{jen.Return(jen.Lit(text.String()))}, nil
	}
	call := append([]jen.Code{jen.Lit(format.String())}, args...)
	return []jen.Code{jen.Return(jen.Qual("fmt", "Sprintf").Call(call...))}, nil
}

// receiverName picks a short receiver identifier that cannot collide
// with the parameter names the bodies use.
func receiverName(m *Model) string {
	r := strings.ToLower(m.Def.Name[:1])
	if r == "o" || r == "v" {
		return "x"
	}
	return r
}

// receiverType is the type the block attaches to, with the
// definition's generic parameters applied. Variant blocks attach to
// the per-variant type <Type><Variant>.
func receiverType(m *Model, b *Block) *jen.Statement {
	name := m.Def.Name
	if b.VariantIndex >= 0 {
		name += m.Def.Variants[b.VariantIndex].Name
	}
	t := jen.Id(name)
	if len(m.Def.TypeParams) > 0 {
		names := make([]jen.Code, len(m.Def.TypeParams))
		for i, p := range m.Def.TypeParams {
			names[i] = jen.Id(p.Name)
		}
		t.Index(names...)
	}
	return t
}

// typeParamDecls renders the definition's generic parameter list for
// package-level functions.
func typeParamDecls(m *Model) []jen.Code {
	decls := make([]jen.Code, len(m.Def.TypeParams))
	for i, p := range m.Def.TypeParams {
		c := p.Constraint
		if c == "" {
			c = "any"
		}
		decls[i] = jen.Id(p.Name).Id(c)
	}
	return decls
}

// resultType resolves the result type of a return block, defaulting to
// the selected field's declared type.
func resultType(m *Model, b *Block) *jen.Statement {
	if b.Result != nil {
		return refType(b.Result)
	}
	return refType(m.Field(b.VariantIndex, b.FieldIndex).Type)
}

// refType renders a type reference. Qualified references go through
// jen.Qual so import resolution sees the package path.
func refType(ref *schema.TypeRef) *jen.Statement {
	if ref.PkgPath != "" {
		return jen.Qual(ref.PkgPath, ref.Ident)
	}
	return jen.Id(ref.Ident)
}

// fieldName is the Go field name a block's index resolves to;
// positional fields map to f0, f1, and so on.
func fieldName(m *Model, v, f int) string {
	if name := m.Field(v, f).Name; name != "" {
		return name
	}
	return fmt.Sprintf("f%d", f)
}
