package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bufbuild/lcmgen/internal/lcmast"
)

// leafKind classifies a field's element type for the purposes of size,
// encode, and decode codegen.
type leafKind int

const (
	leafBool leafKind = iota
	leafFixedPrimitive
	leafString
	leafUserType
)

func classify(t lcmast.FieldType) leafKind {
	switch v := t.(type) {
	case lcmast.PrimitiveType:
		switch v {
		case lcmast.Boolean:
			return leafBool
		case lcmast.String:
			return leafString
		default:
			return leafFixedPrimitive
		}
	case lcmast.UserType:
		return leafUserType
	default:
		panic(fmt.Sprintf("codegen: unhandled field type %T", t))
	}
}

// allDimsFixed reports whether every dimension of f is a fixed integer
// (no size-variable dimensions).
func allDimsFixed(f lcmast.StructField) bool {
	for _, d := range f.ArrayDims {
		if d.IsVariable {
			return false
		}
	}
	return true
}

func fixedElementCount(f lcmast.StructField) int64 {
	n := int64(1)
	for _, d := range f.ArrayDims {
		n *= d.Fixed
	}
	return n
}

// dimBound renders a dimension's upper bound as a C++ expression: the
// literal for a fixed dimension, or a reference to the sibling field that
// holds the runtime length for a variable one.
func dimBound(d lcmast.ArrayDim) string {
	if d.IsVariable {
		return d.Name
	}
	return strconv.FormatInt(d.Fixed, 10)
}

// indexExpr builds the "[i0][i1]...[iK-1]" subscript chain for a field at
// loop nesting depth K.
func indexExpr(loopVars []string) string {
	var b strings.Builder
	for _, v := range loopVars {
		b.WriteString("[")
		b.WriteString(v)
		b.WriteString("]")
	}
	return b.String()
}

// leafSizeExpr returns the C++ expression for the encoded size, in bytes,
// of a single leaf value accessed via accessExpr.
func leafSizeExpr(kind leafKind, leafType, accessExpr string) string {
	switch kind {
	case leafBool:
		return "1"
	case leafFixedPrimitive:
		return "sizeof(" + leafType + ")"
	case leafString:
		return "(sizeof(int32_t) + " + accessExpr + ".size() + 1)"
	case leafUserType:
		return accessExpr + "._getEncodedSizeNoHash()"
	default:
		panic("codegen: unreachable leaf kind")
	}
}

// sizeLines builds the statement(s) that add field f's contribution to the
// running `total` in _getEncodedSizeNoHash: a compile-time-constant product
// for all-fixed-dimension fixed-primitive fields, otherwise a nested loop
// walking each dimension.
func sizeLines(f lcmast.StructField, indent string) []string {
	kind := classify(f.Type)
	access := f.Name

	if !f.IsArray() {
		return []string{indent + "total += " + leafSizeExpr(kind, leafCppType(f.Type), access) + ";"}
	}

	if kind == leafFixedPrimitive && allDimsFixed(f) {
		n := fixedElementCount(f)
		return []string{fmt.Sprintf("%stotal += %d * sizeof(%s); // %s: compile-time-constant extent",
			indent, n, leafCppType(f.Type), f.Name)}
	}

	var lines []string
	var loopVars []string
	cur := indent
	for i, d := range f.ArrayDims {
		v := fmt.Sprintf("i%d", i)
		loopVars = append(loopVars, v)
		lines = append(lines, fmt.Sprintf("%sfor (size_t %s = 0; %s < static_cast<size_t>(%s); ++%s) {",
			cur, v, v, dimBound(d), v))
		cur += "  "
	}
	leafAccess := access + indexExpr(loopVars)
	lines = append(lines, cur+"total += "+leafSizeExpr(kind, leafCppType(f.Type), leafAccess)+";")
	for range f.ArrayDims {
		cur = cur[:len(cur)-2]
		lines = append(lines, cur+"}")
	}
	return lines
}

// leafEncodeStmt / leafDecodeStmt emit the single-value encode/decode for a
// leaf, as a sequence of C++ statements that return false on failure.
func leafEncodeStmt(kind leafKind, leafType, accessExpr, indent string) []string {
	switch kind {
	case leafBool:
		return []string{
			indent + "if (cursor >= end) return false;",
			indent + "*cursor++ = " + accessExpr + " ? 1 : 0;",
		}
	case leafFixedPrimitive:
		return []string{
			indent + "if (end - cursor < static_cast<std::ptrdiff_t>(sizeof(" + leafType + "))) return false;",
			indent + "_encode_be(cursor, " + accessExpr + ");",
		}
	case leafString:
		return []string{
			indent + "{",
			indent + "  const std::string& s = " + accessExpr + ";",
			indent + "  int32_t len = static_cast<int32_t>(s.size()) + 1;",
			indent + "  if (end - cursor < static_cast<std::ptrdiff_t>(sizeof(int32_t) + s.size() + 1)) return false;",
			indent + "  _encode_be(cursor, len);",
			indent + "  std::memcpy(cursor, s.data(), s.size());",
			indent + "  cursor += s.size();",
			indent + "  *cursor++ = '\\0';",
			indent + "}",
		}
	case leafUserType:
		return []string{
			indent + "if (!" + accessExpr + "._encode(cursor, end, false)) return false;",
		}
	default:
		panic("codegen: unreachable leaf kind")
	}
}

func leafDecodeStmt(kind leafKind, leafType, accessExpr, indent string) []string {
	switch kind {
	case leafBool:
		return []string{
			indent + "if (cursor >= end) return false;",
			indent + accessExpr + " = (*cursor++ != 0);",
		}
	case leafFixedPrimitive:
		return []string{
			indent + "if (end - cursor < static_cast<std::ptrdiff_t>(sizeof(" + leafType + "))) return false;",
			indent + "_decode_be(cursor, " + accessExpr + ");",
		}
	case leafString:
		return []string{
			indent + "{",
			indent + "  if (end - cursor < static_cast<std::ptrdiff_t>(sizeof(int32_t))) return false;",
			indent + "  int32_t len;",
			indent + "  _decode_be(cursor, len);",
			indent + "  if (len < 1) return false;",
			indent + "  if (end - cursor < static_cast<std::ptrdiff_t>(len)) return false;",
			indent + "  " + accessExpr + ".assign(reinterpret_cast<const char*>(cursor), static_cast<size_t>(len) - 1);",
			indent + "  cursor += len;",
			indent + "}",
		}
	case leafUserType:
		return []string{
			indent + "if (!" + accessExpr + "._decode(cursor, end, false)) return false;",
		}
	default:
		panic("codegen: unreachable leaf kind")
	}
}

// arrayLoopLines wraps leafLines (already indented one level deeper than
// indent) in a nest of "for" loops over f's array dimensions, resizing
// vector levels to their runtime extent before decode fills them in.
func arrayLoopLines(f lcmast.StructField, indent string, forDecode bool, leafLines func(access, indent string) []string) []string {
	var lines []string
	var loopVars []string
	cur := indent

	for i, d := range f.ArrayDims {
		if forDecode && d.IsVariable {
			// Resize this vector-backed level, inside the enclosing loops,
			// so that every element of the outer levels gets resized.
			lines = append(lines, fmt.Sprintf("%s%s.resize(static_cast<size_t>(%s));", cur, f.Name+indexExpr(loopVars), dimBound(d)))
		}
		v := fmt.Sprintf("i%d", i)
		loopVars = append(loopVars, v)
		lines = append(lines, fmt.Sprintf("%sfor (size_t %s = 0; %s < static_cast<size_t>(%s); ++%s) {",
			cur, v, v, dimBound(d), v))
		cur += "  "
	}
	access := f.Name + indexExpr(loopVars)
	lines = append(lines, leafLines(access, cur)...)
	for range f.ArrayDims {
		cur = cur[:len(cur)-2]
		lines = append(lines, cur+"}")
	}
	return lines
}

// encodeExpr builds the immediately-invoked-lambda boolean expression for
// field f's _encode contribution, so that it composes into the top-level
// "&&"-chained operation list.
func encodeExpr(f lcmast.StructField) string {
	kind := classify(f.Type)
	var body []string
	if !f.IsArray() {
		body = leafEncodeStmt(kind, leafCppType(f.Type), f.Name, "    ")
	} else {
		body = arrayLoopLines(f, "    ", false, func(access, indent string) []string {
			return leafEncodeStmt(kind, leafCppType(f.Type), access, indent)
		})
	}
	var b strings.Builder
	b.WriteString("[&]() -> bool {\n")
	for _, l := range body {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("    return true;\n  }()")
	return b.String()
}

// decodeExpr is encodeExpr's mirror for _decode.
func decodeExpr(f lcmast.StructField) string {
	kind := classify(f.Type)
	var body []string
	if !f.IsArray() {
		body = leafDecodeStmt(kind, leafCppType(f.Type), f.Name, "    ")
	} else {
		body = arrayLoopLines(f, "    ", true, func(access, indent string) []string {
			return leafDecodeStmt(kind, leafCppType(f.Type), access, indent)
		})
	}
	var b strings.Builder
	b.WriteString("[&]() -> bool {\n")
	for _, l := range body {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("    return true;\n  }()")
	return b.String()
}
