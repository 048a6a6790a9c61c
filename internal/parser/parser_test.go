package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bufbuild/lcmgen/internal/lcmast"
	"github.com/bufbuild/lcmgen/internal/reporter"
)

func TestParseSimpleStruct(t *testing.T) {
	src := `package geom;
struct Point {
  const int32_t DIM = 3;
  double x;
  float coeffs[3];
  Inner inner;
}
`
	s, err := Parse("point.lcm", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Type != (lcmast.UserType{Package: "geom", Name: "Point"}) {
		t.Errorf("Type = %+v", s.Type)
	}
	if len(s.Constants) != 1 || s.Constants[0].Name != "DIM" || s.Constants[0].ValueStr != "3" {
		t.Errorf("Constants = %+v", s.Constants)
	}
	if len(s.Fields) != 3 {
		t.Fatalf("Fields = %+v", s.Fields)
	}
	if s.Fields[0].Type != lcmast.PrimitiveType(lcmast.Double) {
		t.Errorf("Fields[0].Type = %v", s.Fields[0].Type)
	}
	if got, want := s.Fields[2].Type, (lcmast.UserType{Package: "geom", Name: "Inner"}); got != want {
		t.Errorf("Fields[2].Type = %v, want %v (unqualified UserType inherits enclosing package)", got, want)
	}
}

func TestParseVariableArrayDim(t *testing.T) {
	src := `struct V {
  int32_t n;
  double v[n];
}
`
	s, err := Parse("v.lcm", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	dims := s.Fields[1].ArrayDims
	if len(dims) != 1 || !dims[0].IsVariable || dims[0].Name != "n" {
		t.Errorf("ArrayDims = %+v", dims)
	}
}

func TestParseQualifiedUserType(t *testing.T) {
	src := `struct Outer {
  other.Thing t;
}
`
	s, err := Parse("outer.lcm", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := lcmast.UserType{Package: "other", Name: "Thing"}
	if s.Fields[0].Type != want {
		t.Errorf("field type = %v, want %v", s.Fields[0].Type, want)
	}
}

func TestParseNegativeConstant(t *testing.T) {
	src := `struct C {
  const int32_t X = -5;
}
`
	s, err := Parse("c.lcm", src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Constants[0].ValueStr != "-5" {
		t.Errorf("ValueStr = %q, want %q", s.Constants[0].ValueStr, "-5")
	}
	if s.Constants[0].Value.(int64) != -5 {
		t.Errorf("Value = %v, want -5", s.Constants[0].Value)
	}
}

// TestParseRoundTrip exercises the property that parsing is total on valid
// input: re-parsing a struct's stringified form must yield an equivalent
// struct.
func TestParseRoundTrip(t *testing.T) {
	sources := []string{
		`struct Empty { }
`,
		`package geom;
struct Point {
  const int32_t DIM = 3;
  double x;
  float coeffs[3];
}
`,
		`struct V {
  int32_t n;
  int32_t m;
  double grid[n][m];
}
`,
	}
	for _, src := range sources {
		s1, err := Parse("a.lcm", src)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}
		s2, err := Parse("b.lcm", s1.String())
		if err != nil {
			t.Fatalf("re-parsing stringified struct failed: %v\nstringified form:\n%s", err, s1.String())
		}
		if diff := cmp.Diff(s1, s2); diff != "" {
			t.Errorf("round trip mismatch (-parsed +reparsed):\n%s", diff)
		}
	}
}

func TestParseRejectsDuplicateFieldName(t *testing.T) {
	src := `struct P {
  int32_t x;
  double x;
}
`
	_, err := Parse("p.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want duplicate-field error")
	}
	if _, ok := err.(*reporter.Error); !ok {
		t.Errorf("error type = %T, want *reporter.Error", err)
	}
}

func TestParseRejectsDuplicateConstantName(t *testing.T) {
	src := `struct P {
  const int32_t X = 1;
  const int32_t X = 2;
}
`
	_, err := Parse("p.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want duplicate-constant error")
	}
}

func TestParseRejectsUnknownSizeVariable(t *testing.T) {
	src := `struct V {
  double v[n];
}
`
	_, err := Parse("v.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want unknown-size-variable error")
	}
}

func TestParseRejectsNonIntegerSizeVariable(t *testing.T) {
	src := `struct V {
  double n;
  double v[n];
}
`
	_, err := Parse("v.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want non-integer-size-variable error")
	}
}

func TestParseRejectsStringConstant(t *testing.T) {
	src := `struct P {
  const string X = 1;
}
`
	_, err := Parse("p.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want string-constant rejection")
	}
}

func TestParseRejectsMissingSemicolon(t *testing.T) {
	src := `struct P {
  int32_t x
}
`
	_, err := Parse("p.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want syntax error")
	}
	rerr, ok := err.(*reporter.Error)
	if !ok {
		t.Fatalf("error type = %T, want *reporter.Error", err)
	}
	if rerr.Line == 0 {
		t.Error("syntax error has no line number")
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	src := `struct P { }
struct Q { }
`
	_, err := Parse("p.lcm", src)
	if err == nil {
		t.Fatal("Parse() succeeded, want error for a second top-level struct")
	}
}

func TestParseEmptyStruct(t *testing.T) {
	s, err := Parse("empty.lcm", "struct Empty { }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(s.Fields) != 0 || len(s.Constants) != 0 {
		t.Errorf("Empty struct has Fields=%v Constants=%v", s.Fields, s.Constants)
	}
}
