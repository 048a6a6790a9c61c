// Package parser implements a recursive-descent parser for the LCM IDL,
// with one token of lookahead. Lexing is
// delegated to github.com/alecthomas/participle/v2's simple lexer (see
// lexer.go); this package owns the grammar itself, the type-resolution
// rules, and the semantic validation pass that participle's context-free
// tokenizer can't express (duplicate names, size-variable typing).
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bufbuild/lcmgen/internal/lcmast"
	lcmlexer "github.com/bufbuild/lcmgen/internal/lexer"
	"github.com/bufbuild/lcmgen/internal/reporter"
)

// Parse reads LCM source (already read into memory by the caller) and
// returns the single Struct it defines. It halts at the first syntax or
// validation error.
func Parse(filename, source string) (*lcmast.Struct, error) {
	stripped := lcmlexer.StripComments(source)
	toks, err := tokenize(filename, stripped)
	if err != nil {
		rerr := &reporter.Error{File: filename, Msg: err.Error(), Source: source}
		var perr interface {
			Position() lexer.Position
			Message() string
		}
		if errors.As(err, &perr) {
			pos := perr.Position()
			rerr.Line, rerr.Col, rerr.Msg = pos.Line, pos.Column, perr.Message()
		}
		return nil, rerr
	}

	p := &parser{filename: filename, source: source, toks: toks}
	s, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if err := validate(s); err != nil {
		if rerr, ok := err.(*reporter.Error); ok {
			rerr.File = filename
			rerr.Source = source
		}
		return nil, err
	}
	return s, nil
}

type parser struct {
	filename string
	source   string
	toks     []lexer.Token
	pos      int
}

func (p *parser) peek() lexer.Token { return p.toks[p.pos] }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(tok lexer.Token, format string, args ...interface{}) error {
	return &reporter.Error{
		File:   p.filename,
		Line:   tok.Pos.Line,
		Col:    tok.Pos.Column,
		Msg:    fmt.Sprintf(format, args...),
		Source: p.source,
	}
}

func (p *parser) unexpected(tok lexer.Token, expected string) error {
	got := kindOf(tok)
	if tok.Value != "" {
		got = fmt.Sprintf("%s %q", got, tok.Value)
	}
	return p.errorf(tok, "expected %s but got %s", expected, got)
}

// expectOp consumes an OP token whose value equals op, or reports a syntax
// error.
func (p *parser) expectOp(op string) (lexer.Token, error) {
	tok := p.peek()
	if kindOf(tok) != "Op" || tok.Value != op {
		return tok, p.unexpected(tok, fmt.Sprintf("%q", op))
	}
	return p.advance(), nil
}

// expectKeyword consumes a NAME token whose value equals kw.
func (p *parser) expectKeyword(kw string) (lexer.Token, error) {
	tok := p.peek()
	if kindOf(tok) != "Name" || tok.Value != kw {
		return tok, p.unexpected(tok, fmt.Sprintf("%q", kw))
	}
	return p.advance(), nil
}

func (p *parser) expectName() (lexer.Token, error) {
	tok := p.peek()
	if kindOf(tok) != "Name" {
		return tok, p.unexpected(tok, "a name")
	}
	return p.advance(), nil
}

func (p *parser) expectNumber() (lexer.Token, error) {
	tok := p.peek()
	if kindOf(tok) != "Number" {
		return tok, p.unexpected(tok, "a number")
	}
	return p.advance(), nil
}

func (p *parser) atOp(op string) bool {
	tok := p.peek()
	return kindOf(tok) == "Op" && tok.Value == op
}

func (p *parser) atKeyword(kw string) bool {
	tok := p.peek()
	return kindOf(tok) == "Name" && tok.Value == kw
}

// parseRoot implements: root := package_decl? struct_decl ENDMARKER
func (p *parser) parseRoot() (*lcmast.Struct, error) {
	pkg := ""
	if p.atKeyword("package") {
		var err error
		pkg, err = p.parsePackageDecl()
		if err != nil {
			return nil, err
		}
	}
	s, err := p.parseStructDecl(pkg)
	if err != nil {
		return nil, err
	}
	if !p.peek().EOF() {
		return nil, p.unexpected(p.peek(), "end of file")
	}
	return s, nil
}

// parsePackageDecl implements: package_decl := "package" NAME ";"
func (p *parser) parsePackageDecl() (string, error) {
	if _, err := p.expectKeyword("package"); err != nil {
		return "", err
	}
	name, err := p.expectName()
	if err != nil {
		return "", err
	}
	if _, err := p.expectOp(";"); err != nil {
		return "", err
	}
	return name.Value, nil
}

// parseStructDecl implements: struct_decl := "struct" NAME "{" struct_stmt* "}"
func (p *parser) parseStructDecl(pkg string) (*lcmast.Struct, error) {
	if _, err := p.expectKeyword("struct"); err != nil {
		return nil, err
	}
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp("{"); err != nil {
		return nil, err
	}

	s := &lcmast.Struct{Type: lcmast.UserType{Package: pkg, Name: name.Value}}
	for !p.atOp("}") {
		if err := p.parseStructStmt(s); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return s, nil
}

// parseStructStmt implements: struct_stmt := const_stmt | field_stmt
// Both alternatives start with a NAME, so the one-token lookahead is the
// "const" keyword itself.
func (p *parser) parseStructStmt(s *lcmast.Struct) error {
	if p.atKeyword("const") {
		consts, err := p.parseConstStmt()
		if err != nil {
			return err
		}
		s.Constants = append(s.Constants, consts...)
		return nil
	}
	field, err := p.parseFieldStmt(s.Type.Package)
	if err != nil {
		return err
	}
	s.Fields = append(s.Fields, field)
	return nil
}

// parseConstStmt implements:
//
//	const_stmt := "const" NAME const_def ("," const_def)* ";"
//
// where the NAME right after "const" is the shared primitive type of every
// const_def in the statement.
func (p *parser) parseConstStmt() ([]lcmast.StructConstant, error) {
	if _, err := p.expectKeyword("const"); err != nil {
		return nil, err
	}
	typeTok, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if !lcmast.IsPrimitiveName(typeTok.Value) {
		return nil, p.errorf(typeTok, "expected a primitive type for const but got %q", typeTok.Value)
	}
	typ := lcmast.PrimitiveType(typeTok.Value)
	if typ == lcmast.String {
		return nil, p.errorf(typeTok, "const may not have type string")
	}

	var consts []lcmast.StructConstant
	for {
		c, err := p.parseConstDef(typ)
		if err != nil {
			return nil, err
		}
		consts = append(consts, c)
		if !p.atOp(",") {
			break
		}
		p.advance()
	}
	if _, err := p.expectOp(";"); err != nil {
		return nil, err
	}
	return consts, nil
}

// parseConstDef implements: const_def := NAME "=" sign? NUMBER
func (p *parser) parseConstDef(typ lcmast.PrimitiveType) (lcmast.StructConstant, error) {
	name, err := p.expectName()
	if err != nil {
		return lcmast.StructConstant{}, err
	}
	if _, err := p.expectOp("="); err != nil {
		return lcmast.StructConstant{}, err
	}

	sign := ""
	signTok := p.peek()
	if kindOf(signTok) == "Op" && (signTok.Value == "+" || signTok.Value == "-") {
		sign = signTok.Value
		p.advance()
	}
	numTok, err := p.expectNumber()
	if err != nil {
		return lcmast.StructConstant{}, err
	}
	valueStr := sign + numTok.Value

	var value interface{}
	if typ == lcmast.Float || typ == lcmast.Double {
		f, perr := strconv.ParseFloat(valueStr, 64)
		if perr != nil {
			return lcmast.StructConstant{}, p.errorf(numTok, "invalid %s literal %q: %v", typ, valueStr, perr)
		}
		value = f
	} else {
		i, perr := strconv.ParseInt(valueStr, 10, 64)
		if perr != nil {
			return lcmast.StructConstant{}, p.errorf(numTok, "invalid %s literal %q: %v", typ, valueStr, perr)
		}
		value = i
	}

	return lcmast.StructConstant{Name: name.Value, Type: typ, Value: value, ValueStr: valueStr}, nil
}

// parseFieldStmt implements: field_stmt := qualified_type NAME array_dim* ";"
func (p *parser) parseFieldStmt(enclosingPkg string) (lcmast.StructField, error) {
	typ, err := p.parseQualifiedType(enclosingPkg)
	if err != nil {
		return lcmast.StructField{}, err
	}
	name, err := p.expectName()
	if err != nil {
		return lcmast.StructField{}, err
	}

	var dims []lcmast.ArrayDim
	for p.atOp("[") {
		d, err := p.parseArrayDim()
		if err != nil {
			return lcmast.StructField{}, err
		}
		dims = append(dims, d)
	}
	if _, err := p.expectOp(";"); err != nil {
		return lcmast.StructField{}, err
	}
	return lcmast.StructField{Name: name.Value, Type: typ, ArrayDims: dims}, nil
}

// parseQualifiedType implements:
//
//	qualified_type := NAME ("." NAME)?
//
// Resolution: an unqualified NAME that matches a primitive tag is that
// primitive; otherwise it is a UserType, qualified by the second NAME if a
// "." follows, or else inheriting enclosingPkg.
func (p *parser) parseQualifiedType(enclosingPkg string) (lcmast.FieldType, error) {
	first, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if !p.atOp(".") {
		if lcmast.IsPrimitiveName(first.Value) {
			return lcmast.PrimitiveType(first.Value), nil
		}
		return lcmast.UserType{Package: enclosingPkg, Name: first.Value}, nil
	}
	p.advance() // "."
	second, err := p.expectName()
	if err != nil {
		return nil, err
	}
	return lcmast.UserType{Package: first.Value, Name: second.Value}, nil
}

// parseArrayDim implements: array_dim := "[" (NUMBER | NAME) "]"
func (p *parser) parseArrayDim() (lcmast.ArrayDim, error) {
	if _, err := p.expectOp("["); err != nil {
		return lcmast.ArrayDim{}, err
	}
	tok := p.peek()
	var dim lcmast.ArrayDim
	switch kindOf(tok) {
	case "Number":
		p.advance()
		if strings.ContainsAny(tok.Value, ".eE") {
			return lcmast.ArrayDim{}, p.errorf(tok, "array dimension must be an integer, got %q", tok.Value)
		}
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return lcmast.ArrayDim{}, p.errorf(tok, "invalid array dimension %q: %v", tok.Value, err)
		}
		dim = lcmast.ArrayDim{Fixed: n}
	case "Name":
		p.advance()
		dim = lcmast.ArrayDim{IsVariable: true, Name: tok.Value}
	default:
		return lcmast.ArrayDim{}, p.unexpected(tok, "a number or a name")
	}
	if _, err := p.expectOp("]"); err != nil {
		return lcmast.ArrayDim{}, err
	}
	return dim, nil
}
