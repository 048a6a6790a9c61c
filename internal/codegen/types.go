package codegen

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/bufbuild/lcmgen/internal/lcmast"
)

// leafCppType returns the unadorned C++ type for a field's element type,
// ignoring any array dimensions.
func leafCppType(t lcmast.FieldType) string {
	switch v := t.(type) {
	case lcmast.PrimitiveType:
		return v.CppType()
	case lcmast.UserType:
		return v.CppType()
	default:
		panic(fmt.Sprintf("codegen: unhandled field type %T", t))
	}
}

// containerType applies a field's array dimensions to its leaf type,
// right-to-left: the last declared dimension becomes the innermost
// container, so that row-major iteration order (last dim varies fastest)
// matches C++ nested-container memory layout.
func containerType(f lcmast.StructField) string {
	t := leafCppType(f.Type)
	for i := len(f.ArrayDims) - 1; i >= 0; i-- {
		d := f.ArrayDims[i]
		if d.IsVariable {
			t = "std::vector<" + t + ">"
		} else {
			t = "std::array<" + t + ", " + strconv.FormatInt(d.Fixed, 10) + ">"
		}
	}
	return t
}

// sortedIncludes returns the header paths to #include for s's distinct
// UserType fields, one per distinct referenced type, sorted lexically.
func sortedIncludes(s *lcmast.Struct) []string {
	uts := s.UserTypeFields()
	paths := make([]string, 0, len(uts))
	for _, ut := range uts {
		paths = append(paths, ut.IncludePath())
	}
	sort.Strings(paths)
	return paths
}
