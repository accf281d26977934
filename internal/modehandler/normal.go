package modehandler

import (
	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/core/edit"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/input"
	"github.com/bethropolis/vedit/internal/logger"
)

// handleActionNormal handles actions when the text has focus.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent) bool {
	editor := mh.dispatcher.Editor()
	actionProcessed := true

	// A second quit in a row discards changes.
	if actionEvent.Action != input.ActionQuit && actionEvent.Action != input.ActionUnknown {
		mh.forceQuitPending = false
	}

	var err error
	switch actionEvent.Action {
	// --- Mode Switching ---
	case input.ActionToggleFocus:
		mh.currentMode = ModeCommand
		logger.DebugTagf("input", "focus on command line")

	case input.ActionFill:
		if r, ok := editor.Selection().Region(); !ok || r.Mode == selection.BlockPending {
			err = errs.ErrNoSelection
			break
		}
		mh.currentMode = ModeFill

	// --- Quit/Save ---
	case input.ActionQuit:
		force := mh.forceQuitPending
		res, qerr := mh.dispatcher.Dispatch(command.Quit{Force: force})
		if errs.KindOf(qerr) == errs.KindUnsavedChanges {
			mh.forceQuitPending = true
			mh.statusBar.SetError("Unsaved changes! Press Ctrl+Q again to discard them.")
			return true
		}
		mh.Report(res, qerr)

	case input.ActionSave:
		mh.run(command.Save{})
	case input.ActionCancelAI:
		mh.run(command.Cancel{})

	// --- Movement ---
	case input.ActionMoveUp:
		editor.MoveCursor(-1, 0)
	case input.ActionMoveDown:
		editor.MoveCursor(1, 0)
	case input.ActionMoveLeft:
		editor.MoveCursor(0, -1)
	case input.ActionMoveRight:
		editor.MoveCursor(0, 1)
	case input.ActionMovePageUp:
		editor.PageMove(-1)
	case input.ActionMovePageDown:
		editor.PageMove(1)
	case input.ActionMoveHome:
		editor.Home()
	case input.ActionMoveEnd:
		editor.End()

	// --- Text Modification ---
	case input.ActionInsertRune:
		err = editor.InsertRune(actionEvent.Rune)
	case input.ActionInsertNewLine:
		err = editor.InsertNewLine()
	case input.ActionInsertTab:
		err = editor.InsertTab()
	case input.ActionDeleteCharBackward:
		err = editor.DeleteBackward()
	case input.ActionDeleteCharForward:
		err = editor.DeleteForward()
	case input.ActionToggleOverwrite:
		if editor.ToggleOverwrite() {
			mh.statusBar.SetTemporaryMessage("Overwrite mode")
		} else {
			mh.statusBar.SetTemporaryMessage("Insert mode")
		}
	case input.ActionUndo:
		mh.run(command.Undo{})
	case input.ActionRedo:
		mh.run(command.Redo{})

	// --- Selection ---
	case input.ActionSelectLine:
		mh.run(command.SelectLine{})
	case input.ActionSelectBlock:
		mh.run(command.SelectBlock{})
	case input.ActionClearSelection:
		mh.run(command.ClearSelection{})
	case input.ActionMoveBlockLeft:
		mh.run(command.MoveBlock{Dir: edit.Left})
	case input.ActionMoveBlockRight:
		mh.run(command.MoveBlock{Dir: edit.Right})
	case input.ActionYank:
		mh.run(command.Yank{})

	case input.ActionFindNext:
		mh.run(command.FindNext{})

	default:
		actionProcessed = false
	}

	if err != nil {
		logger.DebugTagf("input", "%s: %v", actionEvent.Action, err)
		mh.statusBar.SetError(errs.Message(err))
	}
	return actionProcessed
}
