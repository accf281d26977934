package buffer

import (
	"bytes"

	"github.com/rivo/uniseg"
)

// Cell is one display column of a rendered line.
type Cell struct {
	Text  string // grapheme cluster; empty on the trailing half of a wide grapheme
	Width int    // display width of Text; 0 on trailing halves
	Pad   bool   // synthetic blank beyond the line's real content
}

// Blank is a synthetic padding cell.
var Blank = Cell{Text: " ", Width: 1, Pad: true}

func (c Cell) continuation() bool { return c.Width == 0 }

// Cells expands a line into display cells. A wide grapheme takes its lead
// cell plus one continuation cell per extra column.
func Cells(line []byte) []Cell {
	cells := make([]Cell, 0, len(line))
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		w := gr.Width()
		if w < 1 {
			w = 1
		}
		cells = append(cells, Cell{Text: gr.Str(), Width: w})
		for i := 1; i < w; i++ {
			cells = append(cells, Cell{})
		}
	}
	return cells
}

// PadCells extends cells with Blank up to n columns.
func PadCells(cells []Cell, n int) []Cell {
	for len(cells) < n {
		cells = append(cells, Blank)
	}
	return cells
}

// SplitAt makes col a clean grapheme boundary by blanking a wide grapheme
// that straddles it.
func SplitAt(cells []Cell, col int) {
	if col <= 0 || col >= len(cells) || !cells[col].continuation() {
		return
	}
	lead := col - 1
	for lead > 0 && cells[lead].continuation() {
		lead--
	}
	end := lead + cells[lead].Width
	for i := lead; i < end && i < len(cells); i++ {
		cells[i] = Cell{Text: " ", Width: 1}
	}
}

// Render converts cells back to line bytes. Trailing padding is dropped,
// interior padding becomes spaces.
func Render(cells []Cell) []byte {
	last := len(cells) - 1
	for last >= 0 && cells[last].Pad {
		last--
	}
	var out bytes.Buffer
	for _, c := range cells[:last+1] {
		if c.continuation() {
			continue
		}
		out.WriteString(c.Text)
	}
	return out.Bytes()
}

// DisplayWidth is the number of display columns a line occupies.
func DisplayWidth(line []byte) int {
	return uniseg.StringWidth(string(line))
}

// DisplayCol converts a rune column into a display column.
func DisplayCol(line []byte, runeCol int) int {
	col, runes := 0, 0
	gr := uniseg.NewGraphemes(string(line))
	for runes < runeCol && gr.Next() {
		w := gr.Width()
		if w < 1 {
			w = 1
		}
		col += w
		runes += len(gr.Runes())
	}
	if runes < runeCol {
		col += runeCol - runes
	}
	return col
}

// RuneCol converts a display column into the rune column of the grapheme
// covering it, clamped to the end of the line.
func RuneCol(line []byte, displayCol int) int {
	col, runes := 0, 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		w := gr.Width()
		if w < 1 {
			w = 1
		}
		if displayCol < col+w {
			return runes
		}
		col += w
		runes += len(gr.Runes())
	}
	return runes
}
