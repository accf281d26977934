package edit

import (
	"bytes"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/types"
)

func (e *Engine) keystroke(label string, ops []history.Operation, after types.Position) error {
	return e.Apply(Edit{Label: label, Ops: ops, Effect: history.ClearSelection, CursorAfter: after})
}

// InsertRune types r at the cursor. In overwrite mode the rune under the
// cursor is replaced; at the end of a line it is appended.
func (e *Engine) InsertRune(r rune, overwrite bool) error {
	buf := e.editor.GetBuffer()
	cur := e.editor.GetCursor()
	text := []byte(string(r))
	next := types.Position{Line: cur.Line, Col: cur.Col + 1}

	if overwrite && cur.Col < buf.RuneCount(cur.Line) {
		return e.keystroke("overwrite", []history.Operation{history.Replace(cur, next, text)}, next)
	}
	return e.keystroke("insert", []history.Operation{history.Insert(cur, text)}, next)
}

// InsertNewline splits the line at the cursor.
func (e *Engine) InsertNewline() error {
	cur := e.editor.GetCursor()
	return e.keystroke("newline",
		[]history.Operation{history.Insert(cur, []byte("\n"))},
		types.Position{Line: cur.Line + 1})
}

// InsertTab inserts spaces up to the next multiple of width display columns.
func (e *Engine) InsertTab(width int) error {
	if width <= 0 {
		width = 1
	}
	buf := e.editor.GetBuffer()
	cur := e.editor.GetCursor()
	line, err := buf.Line(cur.Line)
	if err != nil {
		return err
	}
	n := width - buffer.DisplayCol(line, cur.Col)%width
	return e.keystroke("tab",
		[]history.Operation{history.Insert(cur, bytes.Repeat([]byte{' '}, n))},
		types.Position{Line: cur.Line, Col: cur.Col + n})
}

// Backspace deletes the rune before the cursor, joining lines at column 0.
func (e *Engine) Backspace() error {
	buf := e.editor.GetBuffer()
	cur := e.editor.GetCursor()
	switch {
	case cur.Col > 0:
		prev := types.Position{Line: cur.Line, Col: cur.Col - 1}
		return e.keystroke("backspace", []history.Operation{history.Delete(prev, cur)}, prev)
	case cur.Line > 0:
		prev := types.Position{Line: cur.Line - 1, Col: buf.RuneCount(cur.Line - 1)}
		return e.keystroke("backspace", []history.Operation{history.Delete(prev, cur)}, prev)
	}
	return nil
}

// DeleteForward deletes the rune under the cursor, joining the next line
// at the end of a line.
func (e *Engine) DeleteForward() error {
	buf := e.editor.GetBuffer()
	cur := e.editor.GetCursor()
	switch {
	case cur.Col < buf.RuneCount(cur.Line):
		next := types.Position{Line: cur.Line, Col: cur.Col + 1}
		return e.keystroke("delete", []history.Operation{history.Delete(cur, next)}, cur)
	case cur.Line < buf.LineCount()-1:
		next := types.Position{Line: cur.Line + 1}
		return e.keystroke("delete", []history.Operation{history.Delete(cur, next)}, cur)
	}
	return nil
}
