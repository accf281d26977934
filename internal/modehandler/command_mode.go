package modehandler

import (
	"strings"

	"github.com/bethropolis/vedit/internal/input"
	"github.com/bethropolis/vedit/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	recall := mh.dispatcher.Recall()

	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)

	case input.ActionDeleteCharBackward: // Backspace
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]
		} else {
			mh.currentMode = ModeNormal
			logger.DebugTagf("input", "leaving command line via Backspace")
		}

	case input.ActionMoveUp:
		line, _ := recall.Prev(string(mh.cmdBuffer))
		mh.cmdBuffer = []rune(line)

	case input.ActionMoveDown:
		line, _ := recall.Next()
		mh.cmdBuffer = []rune(line)

	case input.ActionInsertNewLine: // Enter: Execute command
		mh.executeCommand()

	case input.ActionToggleFocus: // Esc: back to the text, keeping the draft
		recall.Reset()
		mh.currentMode = ModeNormal

	case input.ActionQuit, input.ActionSave, input.ActionCancelAI, input.ActionUndo, input.ActionRedo:
		// Global keys work from the command line too.
		return mh.handleActionNormal(actionEvent)

	default:
		return false // Ignore other actions
	}
	return true
}

// executeCommand runs the command line and clears it.
func (mh *ModeHandler) executeCommand() {
	line := strings.TrimSpace(string(mh.cmdBuffer))
	mh.cmdBuffer = mh.cmdBuffer[:0]
	if line == "" {
		mh.dispatcher.Recall().Reset()
		return
	}
	logger.DebugTagf("command", "executing %q", line)
	mh.Report(mh.dispatcher.Execute(line))
}
