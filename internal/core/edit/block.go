package edit

import (
	"bytes"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/types"
)

// Direction is a horizontal block move.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// rowSpan rewrites rows first..last with fn and returns a single replace
// operation covering them.
func rowSpan(buf buffer.Buffer, first, last int, fn func(line []byte) []byte) ([]history.Operation, error) {
	if first < 0 || last >= buf.LineCount() {
		return nil, fmt.Errorf("rows %d..%d of %d: %w", first, last, buf.LineCount(), errs.ErrOutOfRange)
	}
	rows := make([][]byte, 0, last-first+1)
	for i := first; i <= last; i++ {
		line, _ := buf.Line(i)
		rows = append(rows, fn(line))
	}
	start := types.Position{Line: first}
	end := types.Position{Line: last, Col: buf.RuneCount(last)}
	return []history.Operation{history.Replace(start, end, bytes.Join(rows, []byte("\n")))}, nil
}

func fillCell(r rune) buffer.Cell {
	return buffer.Cell{Text: string(r), Width: 1}
}

// FillOps overwrites every cell of the region with r.
func FillOps(buf buffer.Buffer, region selection.Region, r rune) ([]history.Operation, error) {
	if runewidth.RuneWidth(r) != 1 {
		return nil, errs.Invalid("fill character %q must be one column wide", r)
	}
	switch region.Mode {
	case selection.Line:
		return rowSpan(buf, region.StartLine, region.EndLine, func(line []byte) []byte {
			return bytes.Repeat([]byte(string(r)), buffer.DisplayWidth(line))
		})
	case selection.Block:
		c0, c1 := region.StartCol, region.EndCol
		return rowSpan(buf, region.StartLine, region.EndLine, func(line []byte) []byte {
			cells := buffer.PadCells(buffer.Cells(line), c1+1)
			buffer.SplitAt(cells, c0)
			buffer.SplitAt(cells, c1+1)
			for c := c0; c <= c1; c++ {
				cells[c] = fillCell(r)
			}
			return buffer.Render(cells)
		})
	default:
		return nil, errs.ErrNoSelection
	}
}

// MoveOps shifts the cells of a block one column in dir. The column the
// block moves onto is dropped and the vacated column becomes blank.
func MoveOps(buf buffer.Buffer, region selection.Region, dir Direction) ([]history.Operation, error) {
	if region.Mode != selection.Block {
		return nil, errs.ErrNoSelection
	}
	c0, c1 := region.StartCol, region.EndCol
	if dir == Left && c0 == 0 {
		return nil, fmt.Errorf("move block left from column 0: %w", errs.ErrOutOfRange)
	}
	return rowSpan(buf, region.StartLine, region.EndLine, func(line []byte) []byte {
		cells := buffer.PadCells(buffer.Cells(line), c1+2)
		out := make([]buffer.Cell, 0, len(cells)+1)
		if dir == Right {
			buffer.SplitAt(cells, c0)
			buffer.SplitAt(cells, c1+1)
			buffer.SplitAt(cells, c1+2)
			out = append(out, cells[:c0]...)
			out = append(out, buffer.Blank)
			out = append(out, cells[c0:c1+1]...)
			out = append(out, cells[c1+2:]...)
		} else {
			buffer.SplitAt(cells, c0-1)
			buffer.SplitAt(cells, c0)
			buffer.SplitAt(cells, c1+1)
			out = append(out, cells[:c0-1]...)
			out = append(out, cells[c0:c1+1]...)
			out = append(out, buffer.Blank)
			out = append(out, cells[c1+1:]...)
		}
		return buffer.Render(out)
	})
}

// Fill fills the active line or block selection and clears it.
func (e *Engine) Fill(r rune) error {
	sel := e.editor.Selection()
	region, ok := sel.Region()
	if !ok {
		return errs.ErrNoSelection
	}
	ops, err := FillOps(e.editor.GetBuffer(), region, r)
	if err != nil {
		return err
	}
	return e.Apply(Edit{
		Label:       "fill",
		Ops:         ops,
		Effect:      history.ClearSelection,
		CursorAfter: e.editor.GetCursor(),
	})
}

// MoveBlock shifts the active block and its selection one column.
func (e *Engine) MoveBlock(dir Direction) error {
	sel := e.editor.Selection()
	region, ok := sel.Region()
	if !ok || region.Mode != selection.Block {
		return errs.ErrNoSelection
	}
	ops, err := MoveOps(e.editor.GetBuffer(), region, dir)
	if err != nil {
		return err
	}
	return e.Apply(Edit{
		Label:          "move block " + dir.String(),
		Ops:            ops,
		Effect:         history.SetSelection,
		CursorAfter:    e.editor.GetCursor(),
		SelectionAfter: sel.State().Shifted(int(dir)),
	})
}
