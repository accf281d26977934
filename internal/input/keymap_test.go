package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: 'é'}},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), ActionEvent{Action: ActionInsertRune, Rune: 'A'}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), ActionEvent{Action: ActionUnknown}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEvent{Action: ActionInsertNewLine}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), ActionEvent{Action: ActionInsertTab}},
		{"esc", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionEvent{Action: ActionToggleFocus}},
		{"ctrl+s", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionEvent{Action: ActionSave}},
		{"ctrl+b", tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), ActionEvent{Action: ActionSelectBlock}},
		{"shift+f7", tcell.NewEventKey(tcell.KeyF7, 0, tcell.ModShift), ActionEvent{Action: ActionMoveBlockLeft}},
		{"f20", tcell.NewEventKey(tcell.KeyF20, 0, tcell.ModNone), ActionEvent{Action: ActionMoveBlockRight}},
		{"shift+up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), ActionEvent{Action: ActionMoveUp}},
		{"insert", tcell.NewEventKey(tcell.KeyInsert, 0, tcell.ModNone), ActionEvent{Action: ActionToggleOverwrite}},
		{"unbound", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), ActionEvent{Action: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ProcessEvent(tt.ev))
		})
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "yank", ActionYank.String())
	assert.Equal(t, "unknown", ActionUnknown.String())
}
