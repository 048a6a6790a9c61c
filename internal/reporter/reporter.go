// Package reporter defines the single error type lcmgen uses for everything
// that can go wrong while reading LCM source: lexing, grammar violations,
// and the semantic validation pass that runs after parsing. It also renders
// a human-readable diagnostic with a source snippet and a caret.
package reporter

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Error is a syntax or validation error tied to a specific location in an
// LCM source file. Exactly one of these is ever returned from a parse: the
// grammar and validation pass both stop at the first error (spec: "the
// parser must not continue after the first error").
type Error struct {
	File    string
	Line    int // 1-based
	Col     int // 1-based, in runes
	Msg     string
	// Source, if non-empty, is the full text of File, used to render a
	// caret-annotated snippet in Diagnostic.
	Source string
}

func (e *Error) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

// Errorf builds an Error at the given position.
func Errorf(file string, line, col int, format string, args ...interface{}) *Error {
	return &Error{File: file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostic renders a multi-line, human-facing rendition of e: the one-line
// message from Error(), followed by the offending source line and a caret
// placed under the offending column. Column widths are measured in grapheme
// clusters (via uniseg) rather than bytes, so multi-byte identifiers in
// comments still line the caret up correctly.
func (e *Error) Diagnostic() string {
	var b strings.Builder
	b.WriteString(e.Error())
	line, ok := sourceLine(e.Source, e.Line)
	if !ok {
		return b.String()
	}
	b.WriteByte('\n')
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(caretPrefix(line, e.Col))
	b.WriteByte('^')
	return b.String()
}

func sourceLine(src string, line int) (string, bool) {
	if line <= 0 || src == "" {
		return "", false
	}
	n := 1
	start := 0
	for i, r := range src {
		if n == line {
			break
		}
		if r == '\n' {
			n++
			start = i + 1
		}
	}
	if n != line {
		return "", false
	}
	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		return src[start:], true
	}
	return src[start : start+end], true
}

// caretPrefix returns col-1 grapheme clusters' worth of leading whitespace
// (tabs preserved as tabs, everything else as a space), so the caret lines
// up under variable-width runes exactly as a terminal would render them.
func caretPrefix(line string, col int) string {
	if col <= 1 {
		return ""
	}
	var b strings.Builder
	remaining := col - 1
	gr := uniseg.NewGraphemes(line)
	for remaining > 0 && gr.Next() {
		if gr.Runes()[0] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		remaining--
	}
	for ; remaining > 0; remaining-- {
		b.WriteByte(' ')
	}
	return b.String()
}
