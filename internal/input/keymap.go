// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Shift+F7, ...)

// InputProcessor translates tcell events into ActionEvents. It does not
// know about modes; the mode handler interprets the actions it returns.
type InputProcessor struct {
	keymap    Keymap
	modKeymap ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyTab] = ActionInsertTab
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyInsert] = ActionToggleOverwrite
	p.keymap[tcell.KeyEscape] = ActionToggleFocus
	p.keymap[tcell.KeyF1] = ActionFindNext

	// Ctrl+letter arrives as its own key code; the Ctrl modifier is
	// stripped in ProcessEvent before this map is consulted.
	p.keymap[tcell.KeyCtrlS] = ActionSave
	p.keymap[tcell.KeyCtrlQ] = ActionQuit
	p.keymap[tcell.KeyCtrlX] = ActionCancelAI
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlR] = ActionRedo
	p.keymap[tcell.KeyCtrlL] = ActionSelectLine
	p.keymap[tcell.KeyCtrlB] = ActionSelectBlock
	p.keymap[tcell.KeyCtrlU] = ActionClearSelection
	p.keymap[tcell.KeyCtrlF] = ActionFill
	p.keymap[tcell.KeyCtrlY] = ActionYank

	// Terminals report Shift+F7/F8 either as a modified F7/F8 or as F19/F20.
	shiftMap := make(Keymap)
	shiftMap[tcell.KeyF7] = ActionMoveBlockLeft
	shiftMap[tcell.KeyF8] = ActionMoveBlockRight
	p.modKeymap[tcell.ModShift] = shiftMap
	p.keymap[tcell.KeyF19] = ActionMoveBlockLeft
	p.keymap[tcell.KeyF20] = ActionMoveBlockRight
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// 1. Modifier + Key combinations
	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl // The key code already implies Ctrl
	}

	// 2. Plain keys; Shift is allowed so Shift+arrows still move.
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Printable runes. Alt and Ctrl combinations are not text.
	if key == tcell.KeyRune && mod&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) == 0 {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	return ActionEvent{Action: ActionUnknown}
}
