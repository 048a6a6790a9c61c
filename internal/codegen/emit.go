// Package codegen turns a parsed lcmast.Struct into a single C++ header:
// member fields and constants, a bit-exact encoder/decoder, and a type hash
// compatible with the canonical LCM wire format. The class body is a single
// text/template template (cpp.hpp.tmpl, embedded with go:embed), in the
// idiom this pack's own internal/enum code generator uses for templated Go
// output, here retargeted at C++.
package codegen

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/bufbuild/lcmgen/internal/hash"
	"github.com/bufbuild/lcmgen/internal/lcmast"
)

//go:embed cpp.hpp.tmpl
var templateText string

var tmpl = template.Must(template.New("cpp.hpp.tmpl").Parse(templateText))

// constantData and fieldData are the per-member view the template renders;
// both are derived once from an lcmast record and never re-derived inside
// the template itself, keeping template logic to straight substitution.
type constantData struct {
	CppType string
	Name    string
	Value   string // verbatim source lexeme for the constant's value
}

type fieldData struct {
	CppType string
	Name    string
}

// templateData is the set of values cpp.hpp.tmpl substitutes. The template
// looks fields up by name when it executes: a reference to a field missing
// here makes tmpl.Execute fail, which Emit turns into a panic. A field the
// template never references (BaseHashHex) is not detected.
type templateData struct {
	ClassName    string
	HasNamespace bool
	Namespace    string
	Includes     []string
	Constants    []constantData
	Fields       []fieldData
	BaseHashHex  string
	SizeGuards   string // e.g. "n < 0 || m < 0"
	HasSizeGuard bool
	SizeBody     string
	EncodeOps    string // "&&"-joined operation list
	DecodeOps    string
	HashImplBody string
	DocFields    []string
}

// Emit renders s as a complete C++ header. The returned string is ready to
// write verbatim to "<StructName>.hpp".
func Emit(s *lcmast.Struct) (string, error) {
	data := templateData{
		ClassName:    s.Type.Name,
		HasNamespace: s.Type.Package != "",
		Namespace:    s.Type.Package,
		Includes:     sortedIncludes(s),
	}

	for _, c := range s.Constants {
		data.Constants = append(data.Constants, constantData{
			CppType: c.Type.CppType(),
			Name:    c.Name,
			Value:   c.ValueStr,
		})
	}
	for _, f := range s.Fields {
		data.Fields = append(data.Fields, fieldData{
			CppType: containerType(f),
			Name:    f.Name,
		})
		data.DocFields = append(data.DocFields, fieldDocLine(f))
	}

	baseHash := hash.Base(s)
	data.BaseHashHex = fmt.Sprintf("0x%016xull", baseHash)

	sizeVars := s.SizeVariables()
	if len(sizeVars) > 0 {
		data.HasSizeGuard = true
		var guards []string
		for _, v := range sizeVars {
			guards = append(guards, v+" < 0")
		}
		data.SizeGuards = strings.Join(guards, " || ")
	}

	data.SizeBody = buildSizeBody(s)
	data.EncodeOps = buildEncodeOps(s, sizeVars)
	data.DecodeOps = buildDecodeOps(s, sizeVars)
	data.HashImplBody = buildHashImplBody(s, baseHash)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// The template is a fixed, internally-controlled literal: a
		// failure here means this package has a bug, not that the
		// caller gave us bad input.
		panic(fmt.Sprintf("codegen: template execution failed: %v", err))
	}
	return buf.String(), nil
}

func fieldDocLine(f lcmast.StructField) string {
	shape := ""
	for _, d := range f.ArrayDims {
		shape += "[" + d.Lexeme() + "]"
	}
	return fmt.Sprintf(" * @field %s %s%s", f.Type, f.Name, shape)
}

func buildSizeBody(s *lcmast.Struct) string {
	var lines []string
	for _, f := range s.Fields {
		lines = append(lines, sizeLines(f, "  ")...)
	}
	return strings.Join(lines, "\n")
}

func buildEncodeOps(s *lcmast.Struct, sizeVars []string) string {
	var ops []string
	for _, v := range sizeVars {
		ops = append(ops, fmt.Sprintf("(%s >= 0)", v))
	}
	ops = append(ops, "(!with_hash || _encode_field_hash(cursor, end, _get_hash_impl<0>(std::array<int64_t, 0>{})))")
	for _, f := range s.Fields {
		ops = append(ops, encodeExpr(f))
	}
	return strings.Join(ops, " &&\n      ")
}

func buildDecodeOps(s *lcmast.Struct, sizeVars []string) string {
	isSizeVar := make(map[string]bool, len(sizeVars))
	for _, v := range sizeVars {
		isSizeVar[v] = true
	}

	var ops []string
	ops = append(ops, "(!with_hash || _decode_field_hash(cursor, end, _get_hash_impl<0>(std::array<int64_t, 0>{})))")
	for _, f := range s.Fields {
		ops = append(ops, decodeExpr(f))
		if isSizeVar[f.Name] {
			ops = append(ops, fmt.Sprintf("(%s >= 0)", f.Name))
		}
	}
	return strings.Join(ops, " &&\n      ")
}

// buildHashImplBody writes the body of the templated _get_hash_impl<N>
// function: base hash literal, cycle-break scan against parents, and (only
// when s references other messages) the composite sum over each distinct
// child in source order. The cycle-break scan runs unconditionally, even
// for a childless struct, since it breaks on base_hash equality against an
// ancestor rather than on whether s can itself recurse.
func buildHashImplBody(s *lcmast.Struct, baseHash uint64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    constexpr int64_t base_hash = static_cast<int64_t>(%#016xULL);\n", baseHash)

	b.WriteString("    for (size_t i = 0; i < N; ++i) {\n")
	b.WriteString("      if (parents[i] == base_hash) return 0;\n")
	b.WriteString("    }\n")

	children := s.UserTypeFields()
	if len(children) == 0 {
		b.WriteString("    uint64_t composite_hash = static_cast<uint64_t>(base_hash);\n")
		b.WriteString("    return static_cast<int64_t>((composite_hash << 1) | (composite_hash >> 63));\n")
		return b.String()
	}

	fmt.Fprintf(&b, "    std::array<int64_t, N + 1> new_parents;\n")
	b.WriteString("    for (size_t i = 0; i < N; ++i) new_parents[i] = parents[i];\n")
	b.WriteString("    new_parents[N] = base_hash;\n")
	b.WriteString("    uint64_t composite_hash = static_cast<uint64_t>(base_hash);\n")
	for _, child := range children {
		fmt.Fprintf(&b, "    composite_hash += static_cast<uint64_t>(%s::_get_hash_impl<N + 1>(new_parents));\n", child.CppType())
	}
	b.WriteString("    return static_cast<int64_t>((composite_hash << 1) | (composite_hash >> 63));\n")
	return b.String()
}
