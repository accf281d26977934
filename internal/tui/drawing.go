// internal/tui/drawing.go
package tui

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/types"
)

const lineNumberPadding = 1 // Space between number and text

// Layout is how the screen is split between gutter, text, status bar and
// command line.
type Layout struct {
	Width, Height int

	TextX, TextWidth, TextHeight int
	GutterX, GutterWidth         int
	LineNumbersRight             bool

	StatusY  int
	CommandY int
}

// ComputeLayout lays out a width x height screen for a document of
// lineCount lines. The gutter is dropped when the screen is too narrow.
func ComputeLayout(width, height, lineCount int, lineNumbers bool, side string) Layout {
	l := Layout{Width: width, Height: height}
	l.TextHeight = max(height-config.StatusBarHeight-config.CommandLineHeight, 0)
	l.StatusY = l.TextHeight
	l.CommandY = l.TextHeight + config.StatusBarHeight

	if lineNumbers {
		digits := len(fmt.Sprint(max(lineCount, 1)))
		l.GutterWidth = digits + lineNumberPadding
		if l.GutterWidth >= width {
			l.GutterWidth = 0
		}
	}
	l.TextWidth = max(width-l.GutterWidth, 0)
	if side == config.LineNumbersRight {
		l.LineNumbersRight = true
		l.GutterX = l.TextWidth
	} else {
		l.TextX = l.GutterWidth
	}
	return l
}

// DrawBuffer draws the visible part of the editor's document. Styles are
// layered: syntax, then search matches, then the selection.
func DrawBuffer(tuiManager *TUI, editor *core.Editor, activeTheme *theme.Theme, lay Layout) {
	screen := tuiManager.screen
	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	lineNumberStyle := activeTheme.GetStyle(theme.StyleLineNumber)
	currentLineNumberStyle := activeTheme.GetStyle(theme.StyleLineNumberCurrent)
	searchStyle := activeTheme.GetStyle(theme.StyleSearchHighlight)

	region, hasSelection := editor.Selection().Region()
	selectionStyle := activeTheme.GetStyle(theme.StyleSelection)
	if region.Mode == selection.BlockPending {
		selectionStyle = activeTheme.GetStyle(theme.StyleBlockPending)
	}

	viewY, viewX := editor.GetViewport()
	buf := editor.GetBuffer()
	lineCount := buf.LineCount()
	matches := matchesByLine(editor.SearchMatches())
	cursorLine := editor.GetCursor().Line

	for screenY := 0; screenY < lay.TextHeight; screenY++ {
		lineIdx := viewY + screenY

		for x := 0; x < lay.Width; x++ {
			screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		if lineIdx >= lineCount {
			continue
		}

		if lay.GutterWidth > 0 {
			numStyle := lineNumberStyle
			if lineIdx == cursorLine {
				numStyle = currentLineNumberStyle
			}
			digits := lay.GutterWidth - lineNumberPadding
			num := fmt.Sprintf("%*d", digits, lineIdx+1)
			x := lay.GutterX
			if lay.LineNumbersRight {
				x += lineNumberPadding
			}
			for i, r := range num {
				screen.SetContent(x+i, screenY, r, nil, numStyle)
			}
		}

		line, err := buf.Line(lineIdx)
		if err != nil {
			continue
		}
		cells := buffer.Cells(line)
		runeAt := cellRunes(cells)
		syntax := editor.GetSyntaxHighlightsForLine(lineIdx)
		lineMatches := matches[lineIdx]

		for sx := 0; sx < lay.TextWidth; sx++ {
			col := viewX + sx
			style := defaultStyle
			mainRune, combining := ' ', []rune(nil)

			if col < len(cells) {
				cell := cells[col]
				ri := runeAt[col]
				style = syntaxStyle(activeTheme, syntax, ri, style)
				if inMatch(lineMatches, ri) {
					style = searchStyle
				}
				switch {
				case cell.Width == 0 && sx > 0:
					continue // covered by its lead cell
				case cell.Width > 1 && sx+cell.Width > lay.TextWidth:
					// Wide grapheme cut off by the right edge.
				case cell.Width > 0:
					runes := []rune(cell.Text)
					if !unicode.IsControl(runes[0]) {
						mainRune, combining = runes[0], runes[1:]
					}
				}
			}
			if hasSelection && region.Contains(lineIdx, col) {
				style = selectionStyle
			}
			screen.SetContent(lay.TextX+sx, screenY, mainRune, combining, style)
		}
	}
}

// cellRunes maps each display cell to the rune index of its grapheme.
func cellRunes(cells []buffer.Cell) []int {
	out := make([]int, len(cells))
	runes, lead := 0, 0
	for i, c := range cells {
		if c.Width == 0 {
			out[i] = lead
			continue
		}
		lead = runes
		out[i] = runes
		runes += utf8.RuneCountInString(c.Text)
	}
	return out
}

// syntaxStyle returns the style of the last range covering runeIdx.
func syntaxStyle(th *theme.Theme, ranges []types.StyledRange, runeIdx int, fallback tcell.Style) tcell.Style {
	style := fallback
	for _, r := range ranges {
		if runeIdx >= r.StartCol && runeIdx < r.EndCol {
			style = th.GetStyle(r.StyleName)
		}
	}
	return style
}

func matchesByLine(matches []find.Match) map[int][]find.Match {
	out := make(map[int][]find.Match)
	for _, m := range matches {
		out[m.Start.Line] = append(out[m.Start.Line], m)
	}
	return out
}

func inMatch(matches []find.Match, runeIdx int) bool {
	for _, m := range matches {
		if runeIdx >= m.Start.Col && runeIdx < m.Start.Col+m.Len {
			return true
		}
	}
	return false
}

// DrawCursor positions the terminal cursor on the text area, hiding it
// when the cursor is scrolled out of view.
func DrawCursor(tuiManager *TUI, editor *core.Editor, lay Layout) {
	cursor := editor.CellCursor()
	viewY, viewX := editor.GetViewport()
	screenX := cursor.Col - viewX
	screenY := cursor.Line - viewY

	if screenX < 0 || screenX >= lay.TextWidth || screenY < 0 || screenY >= lay.TextHeight {
		tuiManager.screen.HideCursor()
		return
	}
	tuiManager.screen.ShowCursor(lay.TextX+screenX, screenY)
}

// ShowCursorAt places the terminal cursor at an absolute cell, e.g. on the
// command line.
func ShowCursorAt(tuiManager *TUI, x, y int) {
	tuiManager.screen.ShowCursor(x, y)
}
