package modehandler

import (
	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/input"
)

var reviewKeys = map[rune]command.ReviewAction{
	'a': command.ReviewAccept,
	'r': command.ReviewReject,
	'A': command.ReviewAcceptAll,
	'R': command.ReviewRejectAll,
	'n': command.ReviewNext,
	'N': command.ReviewNext,
	'p': command.ReviewPrev,
	'P': command.ReviewPrev,
	'q': command.ReviewApply,
}

// handleActionReview takes the review keys while an AI edit is under
// review. Esc discards the edit, other keys are ignored.
func (mh *ModeHandler) handleActionReview(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionToggleFocus:
		mh.run(command.ReviewHunk{Action: command.ReviewDiscard})
		return true
	case input.ActionInsertRune:
		if action, ok := reviewKeys[actionEvent.Rune]; ok {
			mh.run(command.ReviewHunk{Action: action})
			return true
		}
	}
	return false
}
