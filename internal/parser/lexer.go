package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// tokenDef is the token grammar for LCM source once comments have already
// been stripped by internal/lexer.StripComments: NAME (identifiers and
// keywords alike, the parser decides which), NUMBER (integer or floating
// literal, unsigned; sign is its own OP token so that const_def and field
// declarations can tell a leading "-2" apart from a dimension literal "2"),
// and single-character punctuation.
var tokenDef = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`},
	{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Op", Pattern: `[;,{}\[\].=+\-]`},
})

var tokenNames = func() map[lexer.TokenType]string {
	m := make(map[lexer.TokenType]string)
	for name, tt := range tokenDef.Symbols() {
		m[tt] = name
	}
	return m
}()

// tokenize runs the participle simple lexer over src and returns every
// non-whitespace token plus a final EOF token.
func tokenize(filename, src string) ([]lexer.Token, error) {
	lx, err := tokenDef.Lex(filename, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			toks = append(toks, tok)
			return toks, nil
		}
		if tokenNames[tok.Type] == "Whitespace" {
			continue
		}
		toks = append(toks, tok)
	}
}

func kindOf(tok lexer.Token) string {
	if tok.EOF() {
		return "ENDMARKER"
	}
	return tokenNames[tok.Type]
}
