package modehandler

import (
	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/input"
)

// handleActionFill waits for the fill character. Any key other than a
// rune cancels.
func (mh *ModeHandler) handleActionFill(actionEvent input.ActionEvent) bool {
	mh.currentMode = ModeNormal
	if actionEvent.Action != input.ActionInsertRune {
		mh.statusBar.SetTemporaryMessage("Fill cancelled")
		return true
	}
	mh.run(command.Fill{Char: actionEvent.Rune})
	return true
}
