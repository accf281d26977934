// internal/types/position.go
package types

import (
	"bytes"
	"unicode/utf8"
)

// Position represents a cursor or text position within the buffer.
// Line is the 0-based line index.
// Col is the 0-based column (rune) index within the line.
type Position struct {
	Line int
	Col  int
}

// Compare returns -1, 0 or 1 ordering p against o in document order.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Col < o.Col:
		return -1
	case p.Col > o.Col:
		return 1
	}
	return 0
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool { return p.Compare(o) < 0 }

// Ordered returns a and b with the earlier position first.
func Ordered(a, b Position) (Position, Position) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Advance returns the position just past text when it is inserted at p.
func Advance(p Position, text []byte) Position {
	nl := bytes.Count(text, []byte{'\n'})
	if nl == 0 {
		return Position{Line: p.Line, Col: p.Col + utf8.RuneCount(text)}
	}
	last := text[bytes.LastIndexByte(text, '\n')+1:]
	return Position{Line: p.Line + nl, Col: utf8.RuneCount(last)}
}
