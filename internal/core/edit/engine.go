// Package edit turns editing commands into history changes and applies
// them atomically.
package edit

import (
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

// EditorInterface defines what the engine needs from the document owner.
type EditorInterface interface {
	GetBuffer() buffer.Buffer
	GetCursor() types.Position
	SetCursor(types.Position)
	Selection() *selection.Manager
	GetEventManager() *event.Manager
	// ContentChanged is called after every successful mutation. fromHistory
	// is true for undo and redo.
	ContentChanged(fromHistory bool)
}

// Edit describes one user action before it is applied.
type Edit struct {
	Label          string
	Ops            []history.Operation
	Effect         history.SelectionEffect
	CursorAfter    types.Position
	SelectionAfter selection.State // used with history.SetSelection
}

// Engine applies edits and drives undo/redo.
type Engine struct {
	editor  EditorInterface
	history *history.Manager
}

// NewEngine creates an engine with a history bounded by maxHistory.
func NewEngine(editor EditorInterface, maxHistory int) *Engine {
	return &Engine{editor: editor, history: history.NewManager(maxHistory)}
}

// History exposes the underlying stack.
func (e *Engine) History() *history.Manager { return e.history }

// Apply applies every operation of ed as one undoable change. Nothing is
// recorded if any operation fails, and the buffer is left untouched.
func (e *Engine) Apply(ed Edit) error {
	if len(ed.Ops) == 0 {
		return nil
	}
	buf := e.editor.GetBuffer()
	sel := e.editor.Selection()
	cursorBefore := e.editor.GetCursor()
	selBefore := sel.State()

	applied, infos, err := history.ApplyOps(buf, ed.Ops)
	if err != nil {
		logger.DebugTagf("edit", "%s rejected: %v", ed.Label, err)
		return err
	}

	switch ed.Effect {
	case history.ClearSelection:
		sel.Clear()
	case history.SetSelection:
		sel.Restore(ed.SelectionAfter)
	}
	e.editor.SetCursor(ed.CursorAfter)

	e.history.RecordChange(history.Change{
		Label:           ed.Label,
		Ops:             applied,
		Effect:          ed.Effect,
		CursorBefore:    cursorBefore,
		CursorAfter:     e.editor.GetCursor(),
		SelectionBefore: selBefore,
		SelectionAfter:  sel.State(),
	})
	e.notify(infos, false)
	return nil
}

// Undo reverts the last change, restoring cursor and selection.
func (e *Engine) Undo() error {
	change, infos, err := e.history.Undo(e.editor.GetBuffer())
	if err != nil {
		return err
	}
	e.editor.Selection().Restore(change.SelectionBefore)
	e.editor.SetCursor(change.CursorBefore)
	e.notify(infos, true)
	return nil
}

// Redo reapplies the last undone change.
func (e *Engine) Redo() error {
	change, infos, err := e.history.Redo(e.editor.GetBuffer())
	if err != nil {
		return err
	}
	e.editor.Selection().Restore(change.SelectionAfter)
	e.editor.SetCursor(change.CursorAfter)
	e.notify(infos, true)
	return nil
}

func (e *Engine) notify(infos []types.EditInfo, fromHistory bool) {
	e.editor.ContentChanged(fromHistory)
	e.editor.GetEventManager().Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edits: infos})
}
