// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit                  // Checks for unsaved changes
	ActionSave
	ActionToggleFocus // Switch between the text and the command line
	ActionCancelAI

	// --- Cursor Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line

	// --- Text Manipulation ---
	ActionInsertRune    // Requires Rune argument
	ActionInsertNewLine // Enter; executes on the command line
	ActionInsertTab
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key
	ActionToggleOverwrite
	ActionUndo
	ActionRedo

	// --- Selection ---
	ActionSelectLine
	ActionSelectBlock
	ActionClearSelection
	ActionFill // Asks for the fill character
	ActionMoveBlockLeft
	ActionMoveBlockRight
	ActionYank

	// --- Search ---
	ActionFindNext
)

var actionNames = map[Action]string{
	ActionQuit:               "quit",
	ActionSave:               "save",
	ActionToggleFocus:        "toggle-focus",
	ActionCancelAI:           "cancel-ai",
	ActionMoveUp:             "up",
	ActionMoveDown:           "down",
	ActionMoveLeft:           "left",
	ActionMoveRight:          "right",
	ActionMovePageUp:         "page-up",
	ActionMovePageDown:       "page-down",
	ActionMoveHome:           "home",
	ActionMoveEnd:            "end",
	ActionInsertRune:         "insert-rune",
	ActionInsertNewLine:      "newline",
	ActionInsertTab:          "tab",
	ActionDeleteCharForward:  "delete",
	ActionDeleteCharBackward: "backspace",
	ActionToggleOverwrite:    "toggle-overwrite",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
	ActionSelectLine:         "select-line",
	ActionSelectBlock:        "select-block",
	ActionClearSelection:     "clear-selection",
	ActionFill:               "fill",
	ActionMoveBlockLeft:      "move-block-left",
	ActionMoveBlockRight:     "move-block-right",
	ActionYank:               "yank",
	ActionFindNext:           "find-next",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
// It might carry payload data needed for the action (like the rune to insert).
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
