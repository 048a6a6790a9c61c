// Package lcmast defines the immutable data model for a parsed LCM message
// definition: primitive and user types, fields, constants, and the struct
// that holds them. Values in this package are built once by internal/parser
// and never mutated afterward; internal/hash and internal/codegen are the
// only consumers.
package lcmast

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType is the sum type for a StructField's type: either a PrimitiveType
// or a UserType. It is a closed set by convention (only this package
// implements it), so callers switch on the concrete type instead of probing
// with reflection.
type FieldType interface {
	fmt.Stringer
	isFieldType()
}

// PrimitiveType is one of the nine built-in LCM scalar types.
type PrimitiveType string

const (
	Boolean PrimitiveType = "boolean"
	Byte    PrimitiveType = "byte"
	Double  PrimitiveType = "double"
	Float   PrimitiveType = "float"
	Int8    PrimitiveType = "int8_t"
	Int16   PrimitiveType = "int16_t"
	Int32   PrimitiveType = "int32_t"
	Int64   PrimitiveType = "int64_t"
	String  PrimitiveType = "string"
)

// Primitives lists every PrimitiveType tag.
var Primitives = []PrimitiveType{Boolean, Byte, Double, Float, Int8, Int16, Int32, Int64, String}

// IsPrimitiveName reports whether name names a PrimitiveType.
func IsPrimitiveName(name string) bool {
	_, ok := primitiveSet[name]
	return ok
}

var primitiveSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Primitives))
	for _, p := range Primitives {
		m[string(p)] = struct{}{}
	}
	return m
}()

func (PrimitiveType) isFieldType() {}

func (p PrimitiveType) String() string { return string(p) }

// IsInteger reports whether p is one of the integer primitives. Array
// dimensions that name a field require that field to satisfy this.
func (p PrimitiveType) IsInteger() bool {
	switch p {
	case Byte, Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// EncodedSize returns the fixed wire size in bytes for p, or -1 if p has a
// variable size (true only for String).
func (p PrimitiveType) EncodedSize() int {
	switch p {
	case Boolean, Byte, Int8:
		return 1
	case Int16:
		return 2
	case Float, Int32:
		return 4
	case Double, Int64:
		return 8
	default:
		return -1
	}
}

// CppType returns the C++ fundamental type this primitive is emitted as.
func (p PrimitiveType) CppType() string {
	switch p {
	case Boolean:
		return "bool"
	case Byte:
		return "uint8_t"
	case Double:
		return "double"
	case Float:
		return "float"
	case String:
		return "std::string"
	default:
		return string(p)
	}
}

// UserType is a reference to another message, optionally qualified by
// package. Package == "" means the implicit root package.
type UserType struct {
	Package string
	Name    string
}

func (UserType) isFieldType() {}

func (u UserType) String() string {
	if u.Package == "" {
		return u.Name
	}
	return u.Package + "." + u.Name
}

// CppType returns the C++ qualified name this user type is emitted as.
func (u UserType) CppType() string {
	if u.Package == "" {
		return u.Name
	}
	return u.Package + "::" + u.Name
}

// IncludePath is the header this type's own generated file lives at.
func (u UserType) IncludePath() string {
	if u.Package == "" {
		return u.Name + ".hpp"
	}
	return u.Package + "/" + u.Name + ".hpp"
}

// ArrayDim is one dimension of a StructField's array declaration. Exactly
// one of (Fixed set, Name set) holds.
type ArrayDim struct {
	// IsVariable is true when the dimension names another field that holds
	// the runtime length; false when it is a fixed integer literal.
	IsVariable bool
	// Fixed is the dimension's value when !IsVariable.
	Fixed int64
	// Name is the sizing field's name when IsVariable.
	Name string
}

// Lexeme is the source text of the dimension, used verbatim both for
// re-stringification and as input to the type hash (spec: "str(dim)").
func (d ArrayDim) Lexeme() string {
	if d.IsVariable {
		return d.Name
	}
	return strconv.FormatInt(d.Fixed, 10)
}

func (d ArrayDim) String() string { return "[" + d.Lexeme() + "]" }

// StructField is one member declaration inside a struct.
type StructField struct {
	Name      string
	Type      FieldType
	ArrayDims []ArrayDim
}

// IsArray reports whether the field has any array dimensions.
func (f StructField) IsArray() bool { return len(f.ArrayDims) > 0 }

func (f StructField) String() string {
	var b strings.Builder
	b.WriteString(f.Type.String())
	b.WriteByte(' ')
	b.WriteString(f.Name)
	for _, d := range f.ArrayDims {
		b.WriteString(d.String())
	}
	b.WriteByte(';')
	return b.String()
}

// StructConstant is a `const` declaration inside a struct.
type StructConstant struct {
	Name string
	Type PrimitiveType
	// Value holds the parsed numeric value: float64 for Float/Double,
	// int64 otherwise.
	Value interface{}
	// ValueStr is the original source lexeme, including any leading sign,
	// preserved byte-for-byte for emission.
	ValueStr string
}

func (c StructConstant) String() string {
	return fmt.Sprintf("%s %s = %s", c.Type, c.Name, c.ValueStr)
}

// Struct is the single top-level message definition parsed from one source
// file.
type Struct struct {
	Type      UserType
	Fields    []StructField
	Constants []StructConstant
}

func (s Struct) String() string {
	var b strings.Builder
	if s.Type.Package != "" {
		fmt.Fprintf(&b, "package %s;\n", s.Type.Package)
	}
	fmt.Fprintf(&b, "struct %s {\n", s.Type.Name)
	for _, c := range s.Constants {
		fmt.Fprintf(&b, "  const %s;\n", c)
	}
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	b.WriteString("}\n")
	return b.String()
}

// FieldByName returns the field named name, if any.
func (s Struct) FieldByName(name string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// SizeVariables returns the set of field names used as a variable array
// dimension somewhere in s, in first-use source order.
func (s Struct) SizeVariables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range s.Fields {
		for _, d := range f.ArrayDims {
			if d.IsVariable {
				if _, ok := seen[d.Name]; !ok {
					seen[d.Name] = struct{}{}
					names = append(names, d.Name)
				}
			}
		}
	}
	return names
}

// UserTypeFields returns, in source order, the distinct UserType field types
// referenced by s's fields (each appearing once, at its first occurrence).
func (s Struct) UserTypeFields() []UserType {
	seen := make(map[UserType]struct{})
	var out []UserType
	for _, f := range s.Fields {
		ut, ok := f.Type.(UserType)
		if !ok {
			continue
		}
		if _, ok := seen[ut]; ok {
			continue
		}
		seen[ut] = struct{}{}
		out = append(out, ut)
	}
	return out
}
