// internal/buffer/slice_buffer.go
package buffer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/types"
	"github.com/bethropolis/vedit/internal/utils"
)

// SliceBuffer stores one byte slice per line.
type SliceBuffer struct {
	lines [][]byte
}

// NewSliceBuffer creates a buffer holding a single empty line.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{lines: [][]byte{{}}}
}

// NewSliceBufferFromString is a convenience for tests and scratch views.
func NewSliceBufferFromString(s string) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.SetContent([]byte(s))
	return sb
}

// SetContent replaces the whole buffer. A single trailing newline does not
// produce an extra empty line, and CRLF terminators are normalized.
func (sb *SliceBuffer) SetContent(data []byte) {
	data = bytes.TrimSuffix(data, []byte("\n"))
	parts := bytes.Split(data, []byte("\n"))
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		p = bytes.TrimSuffix(p, []byte("\r"))
		lines[i] = append([]byte(nil), p...)
	}
	sb.lines = lines
}

func (sb *SliceBuffer) Lines() [][]byte {
	return sb.lines
}

func (sb *SliceBuffer) LineCount() int {
	return len(sb.lines)
}

func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line %d of %d: %w", index, len(sb.lines), errs.ErrOutOfRange)
	}
	return sb.lines[index], nil
}

// RuneCount returns the rune length of a line, or 0 for an invalid index.
func (sb *SliceBuffer) RuneCount(index int) int {
	if index < 0 || index >= len(sb.lines) {
		return 0
	}
	return utf8.RuneCount(sb.lines[index])
}

func (sb *SliceBuffer) Bytes() []byte {
	return bytes.Join(sb.lines, []byte("\n"))
}

// validatePosition checks the line and clamps the column, returning the
// column's byte offset.
func (sb *SliceBuffer) validatePosition(pos types.Position) (types.Position, int, error) {
	if pos.Line < 0 || pos.Line >= len(sb.lines) {
		return pos, 0, fmt.Errorf("line %d of %d: %w", pos.Line, len(sb.lines), errs.ErrOutOfRange)
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	line := sb.lines[pos.Line]
	off := utils.RuneIndexToByteOffset(line, pos.Col)
	if off < 0 {
		pos.Col = utf8.RuneCount(line)
		off = len(line)
	}
	return pos, off, nil
}

func (sb *SliceBuffer) validateRange(start, end types.Position) (vStart, vEnd types.Position, startOff, endOff int, err error) {
	start, end = types.Ordered(start, end)
	if vStart, startOff, err = sb.validatePosition(start); err != nil {
		return
	}
	vEnd, endOff, err = sb.validatePosition(end)
	return
}

// Text returns the bytes between start and end, joined by newlines.
func (sb *SliceBuffer) Text(start, end types.Position) ([]byte, error) {
	vStart, vEnd, so, eo, err := sb.validateRange(start, end)
	if err != nil {
		return nil, err
	}
	if vStart.Line == vEnd.Line {
		return append([]byte(nil), sb.lines[vStart.Line][so:eo]...), nil
	}
	var out bytes.Buffer
	out.Write(sb.lines[vStart.Line][so:])
	for i := vStart.Line + 1; i < vEnd.Line; i++ {
		out.WriteByte('\n')
		out.Write(sb.lines[i])
	}
	out.WriteByte('\n')
	out.Write(sb.lines[vEnd.Line][:eo])
	return out.Bytes(), nil
}

// Insert inserts text at pos. Newlines in text split the line.
func (sb *SliceBuffer) Insert(pos types.Position, text []byte) (types.EditInfo, error) {
	return sb.Replace(pos, pos, text)
}

// Delete removes the half-open range [start, end). The positions may be
// given in either order.
func (sb *SliceBuffer) Delete(start, end types.Position) (types.EditInfo, error) {
	return sb.Replace(start, end, nil)
}

// Replace swaps the range [start, end) for text.
func (sb *SliceBuffer) Replace(start, end types.Position, text []byte) (types.EditInfo, error) {
	vStart, vEnd, so, eo, err := sb.validateRange(start, end)
	if err != nil {
		return types.EditInfo{}, fmt.Errorf("replace: %w", err)
	}
	var removed []byte
	if vStart != vEnd {
		removed, _ = sb.Text(vStart, vEnd)
	}

	head := append([]byte(nil), sb.lines[vStart.Line][:so]...)
	tail := append([]byte(nil), sb.lines[vEnd.Line][eo:]...)
	parts := bytes.Split(text, []byte("\n"))
	newLines := make([][]byte, len(parts))
	for i, p := range parts {
		newLines[i] = append([]byte(nil), p...)
	}
	newLines[0] = append(head, newLines[0]...)
	newLines[len(newLines)-1] = append(newLines[len(newLines)-1], tail...)

	sb.splice(vStart.Line, vEnd.Line, newLines)
	return types.EditInfo{
		Start:   vStart,
		OldEnd:  vEnd,
		NewEnd:  types.Advance(vStart, text),
		Removed: removed,
	}, nil
}

// splice replaces lines first..last inclusive with repl.
func (sb *SliceBuffer) splice(first, last int, repl [][]byte) {
	out := make([][]byte, 0, len(sb.lines)-(last-first+1)+len(repl))
	out = append(out, sb.lines[:first]...)
	out = append(out, repl...)
	out = append(out, sb.lines[last+1:]...)
	sb.lines = out
}

var _ Buffer = (*SliceBuffer)(nil)
