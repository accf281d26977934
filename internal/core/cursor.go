package core

import (
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

// MoveCursor moves the cursor AND adjusts the viewport, handling line wraps.
func (e *Editor) MoveCursor(deltaLine, deltaCol int) {
	lineCount := e.buffer.LineCount()

	// Horizontal moves wrap across line ends.
	if deltaLine == 0 {
		if deltaCol > 0 && e.Cursor.Col >= e.buffer.RuneCount(e.Cursor.Line) && e.Cursor.Line < lineCount-1 {
			e.Cursor = types.Position{Line: e.Cursor.Line + 1}
			e.cursorMoved()
			return
		}
		if deltaCol < 0 && e.Cursor.Col <= 0 && e.Cursor.Line > 0 {
			e.Cursor.Line--
			e.Cursor.Col = e.buffer.RuneCount(e.Cursor.Line)
			e.cursorMoved()
			return
		}
	}

	targetLine := e.Cursor.Line + deltaLine
	targetCol := e.Cursor.Col + deltaCol
	if targetLine < 0 {
		targetLine = 0
	}
	if targetLine >= lineCount {
		targetLine = lineCount - 1
	}
	if targetCol < 0 {
		targetCol = 0
	}
	if maxCol := e.buffer.RuneCount(targetLine); targetCol > maxCol {
		targetCol = maxCol
	}

	e.Cursor = types.Position{Line: targetLine, Col: targetCol}
	e.cursorMoved()
}

// cursorMoved lets a pending block follow the cursor, scrolls, and
// notifies listeners.
func (e *Editor) cursorMoved() {
	e.selection.CursorMoved(e.CellCursor())
	e.ScrollToCursor()
	e.eventManager.Dispatch(event.TypeCursorMoved, event.CursorMovedData{NewPosition: e.Cursor})
}

// ScrollToCursor adjusts the viewport incorporating ScrollOff and visual width.
func (e *Editor) ScrollToCursor() {
	if e.viewHeight <= 0 || e.viewWidth <= 0 {
		return
	}

	scrollOff := e.ScrollOff
	if scrollOff*2 >= e.viewHeight {
		scrollOff = (e.viewHeight - 1) / 2
	}

	if e.Cursor.Line < e.ViewportY+scrollOff {
		e.ViewportY = e.Cursor.Line - scrollOff
	} else if e.Cursor.Line >= e.ViewportY+e.viewHeight-scrollOff {
		e.ViewportY = e.Cursor.Line - e.viewHeight + 1 + scrollOff
	}

	lineBytes, err := e.buffer.Line(e.Cursor.Line)
	cursorVisualCol := 0
	if err == nil {
		cursorVisualCol = buffer.DisplayCol(lineBytes, e.Cursor.Col)
	} else {
		logger.Debugf("ScrollToCursor: Error getting line %d: %v", e.Cursor.Line, err)
	}
	if cursorVisualCol < e.ViewportX {
		e.ViewportX = cursorVisualCol
	} else if cursorVisualCol >= e.ViewportX+e.viewWidth {
		e.ViewportX = cursorVisualCol - e.viewWidth + 1
	}

	e.ViewportY = max(e.ViewportY, 0)
	e.ViewportX = max(e.ViewportX, 0)
}

// PageMove moves the cursor and viewport up or down by one page height.
func (e *Editor) PageMove(deltaPages int) {
	if e.viewHeight <= 0 {
		return
	}
	e.MoveCursor(e.viewHeight*deltaPages, 0)

	e.ViewportY += e.viewHeight * deltaPages
	maxViewportY := max(e.buffer.LineCount()-e.viewHeight, 0)
	e.ViewportY = min(max(e.ViewportY, 0), maxViewportY)
	e.ScrollToCursor()
}

// Home moves the cursor to the beginning of the current line (column 0).
func (e *Editor) Home() {
	e.Cursor.Col = 0
	e.cursorMoved()
}

// End moves the cursor to the end of the current line.
func (e *Editor) End() {
	e.Cursor.Col = e.buffer.RuneCount(e.Cursor.Line)
	e.cursorMoved()
}

// GotoLine moves the cursor to the start of a 0-based line.
func (e *Editor) GotoLine(line int) {
	e.SetCursor(types.Position{Line: line})
}
