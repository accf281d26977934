package core

import (
	"bytes"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/edit"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/types"
)

func (e *Editor) writable() error {
	if e.readOnly {
		return errs.Invalid("view is read-only")
	}
	return nil
}

// InsertRune types r at the cursor, honoring overwrite mode.
func (e *Editor) InsertRune(r rune) error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.InsertRune(r, e.overwrite)
}

// InsertNewLine splits the current line at the cursor.
func (e *Editor) InsertNewLine() error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.InsertNewline()
}

// InsertTab inserts spaces to the next tab stop.
func (e *Editor) InsertTab() error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.InsertTab(e.tabWidth)
}

// DeleteBackward deletes the character before the cursor.
func (e *Editor) DeleteBackward() error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.Backspace()
}

// DeleteForward deletes the character under the cursor.
func (e *Editor) DeleteForward() error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.DeleteForward()
}

// Fill overwrites the selected lines or block with r.
func (e *Editor) Fill(r rune) error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.Fill(r)
}

// MoveBlock shifts the selected block one column.
func (e *Editor) MoveBlock(dir edit.Direction) error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.MoveBlock(dir)
}

// ApplyEdit applies a prepared compound edit, such as an AI response.
func (e *Editor) ApplyEdit(ed edit.Edit) error {
	if err := e.writable(); err != nil {
		return err
	}
	return e.engine.Apply(ed)
}

func (e *Editor) Undo() error { return e.engine.Undo() }

func (e *Editor) Redo() error { return e.engine.Redo() }

// ReplaceAll replaces every match of q with the replacement text.
func (e *Editor) ReplaceAll(q find.Query, with string) (int, error) {
	if err := e.writable(); err != nil {
		return 0, err
	}
	return e.engine.ReplaceAll(q, with)
}

// Find searches from the cursor, moves the cursor to the match and
// highlights every occurrence. It returns the number of occurrences.
func (e *Editor) Find(q find.Query) (int, error) {
	pos, err := e.finder.Find(e.buffer, q, e.Cursor)
	if err != nil {
		e.searchMatches = nil
		return 0, err
	}
	e.searchMatches = find.Matches(e.buffer, q)
	e.SetCursor(pos)
	return len(e.searchMatches), nil
}

// FindNext repeats the last search.
func (e *Editor) FindNext() error {
	pos, err := e.finder.RepeatLast(e.buffer)
	if err != nil {
		return err
	}
	if q, ok := e.finder.Last(); ok && e.searchMatches == nil {
		e.searchMatches = find.Matches(e.buffer, q)
	}
	e.SetCursor(pos)
	return nil
}

// TriggerLineSelection starts or extends a line selection at the cursor.
func (e *Editor) TriggerLineSelection() {
	e.selection.TriggerLine(e.CellCursor())
	e.eventManager.Dispatch(event.TypeSelectionChanged, e.selection.State())
}

// TriggerBlockSelection advances the block selection state machine.
func (e *Editor) TriggerBlockSelection() {
	e.selection.TriggerBlock(e.CellCursor())
	e.eventManager.Dispatch(event.TypeSelectionChanged, e.selection.State())
}

// ClearSelection drops the selection.
func (e *Editor) ClearSelection() {
	e.selection.Clear()
	e.eventManager.Dispatch(event.TypeSelectionChanged, e.selection.State())
}

// TargetRows returns the rows an AI request should operate on: the
// selected rows, or the whole document.
func (e *Editor) TargetRows() (first, last int) {
	if r, ok := e.selection.Region(); ok && r.Mode != selection.BlockPending {
		return r.StartLine, min(r.EndLine, e.buffer.LineCount()-1)
	}
	return 0, e.buffer.LineCount() - 1
}

// RowsText returns rows first..last joined by newlines.
func (e *Editor) RowsText(first, last int) []byte {
	text, _ := e.buffer.Text(types.Position{Line: first}, types.Position{Line: last, Col: e.buffer.RuneCount(last)})
	return text
}

// SelectedText returns the selection's content: whole lines for a line
// selection, the rectangle's cells row by row for a block.
func (e *Editor) SelectedText() ([]byte, error) {
	r, ok := e.selection.Region()
	if !ok || r.Mode == selection.BlockPending {
		return nil, errs.ErrNoSelection
	}
	last := min(r.EndLine, e.buffer.LineCount()-1)
	if r.Mode == selection.Line {
		return e.RowsText(r.StartLine, last), nil
	}
	rows := make([][]byte, 0, r.Rows())
	for i := r.StartLine; i <= last; i++ {
		line, _ := e.buffer.Line(i)
		cells := buffer.PadCells(buffer.Cells(line), r.EndCol+1)
		buffer.SplitAt(cells, r.StartCol)
		buffer.SplitAt(cells, r.EndCol+1)
		rows = append(rows, buffer.Render(cells[r.StartCol:r.EndCol+1]))
	}
	return bytes.Join(rows, []byte("\n")), nil
}
