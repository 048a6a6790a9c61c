// Package lexer strips LCM comments ahead of tokenization, the way
// parser.protoLex strips nothing itself but relies on an ast.FileInfo built
// alongside it: here the stripping happens as an up-front pass so that the
// grammar layer (internal/parser) never has to special-case comment tokens.
package lexer

import "strings"

// StripComments blanks C-style block comments (/* ... */, with embedded
// newlines preserved) and C++-style line comments (// to end of line) to
// spaces in src. The result has the exact same length and line structure
// as src: every byte offset in the output refers to the same line and
// column it did in the input, which is what lets internal/reporter point
// at the original source even though the grammar never sees a comment
// token.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i = stripBlockComment(src, i, &b)
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			i = stripLineComment(src, i, &b)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// stripBlockComment blanks src[start:end] (the entire "/* ... */" span,
// delimiters included) to spaces, preserving embedded newlines, the way
// _remove_c_comments's "ch if ch == '\n' else ' ' for ch in m.group()"
// does it over the whole regex match rather than just the interior.
func stripBlockComment(src string, start int, b *strings.Builder) int {
	i := start
	for i < len(src) {
		if src[i] == '*' && i+1 < len(src) && src[i+1] == '/' {
			b.WriteByte(' ')
			b.WriteByte(' ')
			i += 2
			break
		}
		if src[i] == '\n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		i++
	}
	return i
}

// stripLineComment blanks src[start:end] (the "//" through end of line, not
// including the terminating newline) to spaces.
func stripLineComment(src string, start int, b *strings.Builder) int {
	i := start
	for i < len(src) && src[i] != '\n' {
		b.WriteByte(' ')
		i++
	}
	return i
}

// LineTable maps byte offsets in a (comment-stripped) source string to
// 1-based line numbers, in the style of ast.FileInfo.AddLine/SourcePos but
// built in one pass rather than incrementally by a lexer.
type LineTable struct {
	offsets []int // offsets[i] = byte offset where line i+2 begins
}

// NewLineTable scans src once and records where each line begins.
func NewLineTable(src string) *LineTable {
	lt := &LineTable{}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lt.offsets = append(lt.offsets, i+1)
		}
	}
	return lt
}

// Position returns the 1-based line and column for a byte offset.
func (lt *LineTable) Position(offset int) (line, col int) {
	line = 1
	lineStart := 0
	for _, next := range lt.offsets {
		if next > offset {
			break
		}
		lineStart = next
		line++
	}
	return line, offset - lineStart + 1
}
