package parser

import (
	"fmt"

	"github.com/bufbuild/lcmgen/internal/lcmast"
	"github.com/bufbuild/lcmgen/internal/reporter"
)

// validate runs the semantic checks the grammar can't express on its own:
// name uniqueness and size-variable typing. It deliberately reports without
// a source line/column, since these are whole-struct invariants rather than
// single-token syntax errors; Parse fills in File/Source before returning
// the error to the caller.
//
// Duplicate field or constant names are rejected. Constant and field names
// may still overlap with each other.
func validate(s *lcmast.Struct) error {
	seenFields := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, ok := seenFields[f.Name]; ok {
			return &reporter.Error{Msg: fmt.Sprintf("duplicate field name %q in struct %s", f.Name, s.Type.Name)}
		}
		seenFields[f.Name] = struct{}{}
	}

	seenConsts := make(map[string]struct{}, len(s.Constants))
	for _, c := range s.Constants {
		if _, ok := seenConsts[c.Name]; ok {
			return &reporter.Error{Msg: fmt.Sprintf("duplicate constant name %q in struct %s", c.Name, s.Type.Name)}
		}
		seenConsts[c.Name] = struct{}{}
	}

	for _, f := range s.Fields {
		for _, d := range f.ArrayDims {
			if !d.IsVariable {
				continue
			}
			sizeField, ok := s.FieldByName(d.Name)
			if !ok {
				return &reporter.Error{Msg: fmt.Sprintf(
					"array dimension %q of field %q is not a field of struct %s", d.Name, f.Name, s.Type.Name)}
			}
			prim, ok := sizeField.Type.(lcmast.PrimitiveType)
			if !ok || !prim.IsInteger() {
				return &reporter.Error{Msg: fmt.Sprintf(
					"array dimension %q of field %q must name an integer field, but %q has type %s",
					d.Name, f.Name, d.Name, sizeField.Type)}
			}
		}
	}
	return nil
}
