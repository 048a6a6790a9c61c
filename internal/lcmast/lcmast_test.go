package lcmast

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

func TestPrimitiveTypeProperties(t *testing.T) {
	tests := []struct {
		p        PrimitiveType
		size     int
		isInt    bool
		cppType  string
	}{
		{Boolean, 1, false, "bool"},
		{Byte, 1, true, "uint8_t"},
		{Int8, 1, true, "int8_t"},
		{Int16, 2, true, "int16_t"},
		{Int32, 4, true, "int32_t"},
		{Int64, 8, true, "int64_t"},
		{Float, 4, false, "float"},
		{Double, 8, false, "double"},
		{String, -1, false, "std::string"},
	}
	for _, tt := range tests {
		if got := tt.p.EncodedSize(); got != tt.size {
			t.Errorf("%s.EncodedSize() = %d, want %d", tt.p, got, tt.size)
		}
		if got := tt.p.IsInteger(); got != tt.isInt {
			t.Errorf("%s.IsInteger() = %v, want %v", tt.p, got, tt.isInt)
		}
		if got := tt.p.CppType(); got != tt.cppType {
			t.Errorf("%s.CppType() = %q, want %q", tt.p, got, tt.cppType)
		}
	}
}

func TestIsPrimitiveName(t *testing.T) {
	for _, p := range Primitives {
		if !IsPrimitiveName(string(p)) {
			t.Errorf("IsPrimitiveName(%q) = false, want true", p)
		}
	}
	if IsPrimitiveName("Inner") {
		t.Error("IsPrimitiveName(\"Inner\") = true, want false")
	}
}

func TestUserTypeStringAndCppType(t *testing.T) {
	u := UserType{Package: "geom", Name: "Point"}
	if got, want := u.String(), "geom.Point"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := u.CppType(), "geom::Point"; got != want {
		t.Errorf("CppType() = %q, want %q", got, want)
	}
	if got, want := u.IncludePath(), "geom/Point.hpp"; got != want {
		t.Errorf("IncludePath() = %q, want %q", got, want)
	}

	unqualified := UserType{Name: "Point"}
	if got, want := unqualified.String(), "Point"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := unqualified.IncludePath(), "Point.hpp"; got != want {
		t.Errorf("IncludePath() = %q, want %q", got, want)
	}
}

func TestArrayDimLexeme(t *testing.T) {
	fixed := ArrayDim{Fixed: 3}
	if got, want := fixed.Lexeme(), "3"; got != want {
		t.Errorf("Lexeme() = %q, want %q", got, want)
	}
	variable := ArrayDim{IsVariable: true, Name: "n"}
	if got, want := variable.Lexeme(), "n"; got != want {
		t.Errorf("Lexeme() = %q, want %q", got, want)
	}
}

func TestStructFieldString(t *testing.T) {
	f := StructField{
		Name: "v",
		Type: PrimitiveType(Double),
		ArrayDims: []ArrayDim{
			{IsVariable: true, Name: "n"},
		},
	}
	if got, want := f.String(), "double v[n];"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !f.IsArray() {
		t.Error("IsArray() = false, want true")
	}
}

func TestStructFieldByName(t *testing.T) {
	s := Struct{Fields: []StructField{
		{Name: "a", Type: PrimitiveType(Int32)},
		{Name: "b", Type: PrimitiveType(Int32)},
	}}
	f, ok := s.FieldByName("b")
	if !ok || f.Name != "b" {
		t.Fatalf("FieldByName(%q) = %+v, %v", "b", f, ok)
	}
	if _, ok := s.FieldByName("missing"); ok {
		t.Error("FieldByName(missing) = true, want false")
	}
}

func TestStructSizeVariables(t *testing.T) {
	s := Struct{Fields: []StructField{
		{Name: "n", Type: PrimitiveType(Int32)},
		{Name: "m", Type: PrimitiveType(Int32)},
		{Name: "v", Type: PrimitiveType(Double), ArrayDims: []ArrayDim{{IsVariable: true, Name: "n"}}},
		{Name: "w", Type: PrimitiveType(Double), ArrayDims: []ArrayDim{
			{IsVariable: true, Name: "n"},
			{IsVariable: true, Name: "m"},
		}},
	}}
	got := s.SizeVariables()
	want := []string{"n", "m"}
	if len(got) != len(want) {
		t.Fatalf("SizeVariables() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SizeVariables()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStructUserTypeFieldsDedupesAndPreservesOrder(t *testing.T) {
	inner := UserType{Name: "Inner"}
	other := UserType{Name: "Other"}
	s := Struct{Fields: []StructField{
		{Name: "a", Type: inner},
		{Name: "b", Type: other},
		{Name: "c", Type: inner},
	}}
	got := s.UserTypeFields()
	if len(got) != 2 {
		t.Fatalf("UserTypeFields() = %v, want 2 distinct entries", got)
	}
	if got[0] != inner || got[1] != other {
		t.Errorf("UserTypeFields() = %v, want [%v %v]", got, inner, other)
	}
}

// TestStructStringRoundTripShape exercises the property that a struct's
// stringified form re-parses to an equivalent struct, at the data-model
// level: String() must emit syntax the parser accepts. The
// parser package has its own round-trip test that actually re-parses this
// output; here we just check the textual shape is well-formed LCM.
func TestStructStringRoundTripShape(t *testing.T) {
	s := Struct{
		Type: UserType{Package: "geom", Name: "Point"},
		Constants: []StructConstant{
			{Name: "DIM", Type: Int32, Value: int64(3), ValueStr: "3"},
		},
		Fields: []StructField{
			{Name: "x", Type: PrimitiveType(Double)},
			{Name: "coeffs", Type: PrimitiveType(Float), ArrayDims: []ArrayDim{{Fixed: 3}}},
		},
	}
	got := s.String()
	want := "package geom;\nstruct Point {\n  const int32_t DIM = 3;\n  double x;\n  float coeffs[3];\n}\n"
	if got != want {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  2,
		})
		if err != nil {
			t.Fatalf("String() mismatch, and diffing it failed: %v", err)
		}
		t.Errorf("String() mismatch:\n%s", diff)
	}
}
