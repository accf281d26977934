// Package selection tracks the line and block selection state machine.
//
// Positions handed to the manager carry display columns in Col so block
// rectangles line up on screen; line selections ignore Col.
package selection

import (
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

// Mode is the current selection state.
type Mode int

const (
	None Mode = iota
	Line
	BlockPending
	Block
)

func (m Mode) String() string {
	switch m {
	case Line:
		return "LINE"
	case BlockPending:
		return "BLOCK?"
	case Block:
		return "BLOCK"
	default:
		return ""
	}
}

// State is a value snapshot of the selection, stored in history entries.
type State struct {
	Mode   Mode
	Anchor types.Position
	Extent types.Position
}

// Region is a normalized selection: rows StartLine..EndLine and, for
// blocks, display columns StartCol..EndCol, all inclusive.
type Region struct {
	Mode      Mode
	StartLine int
	EndLine   int
	StartCol  int
	EndCol    int
}

// Rows is the number of lines the region covers.
func (r Region) Rows() int { return r.EndLine - r.StartLine + 1 }

// Cols is the width of a block region.
func (r Region) Cols() int { return r.EndCol - r.StartCol + 1 }

// Manager owns the selection state. It is used from the owner loop only.
type Manager struct {
	state State
}

// NewManager creates a manager with nothing selected.
func NewManager() *Manager {
	return &Manager{}
}

// State returns the current snapshot.
func (m *Manager) State() State { return m.state }

// Restore replaces the state with a snapshot, as undo and redo do.
func (m *Manager) Restore(s State) { m.state = s }

// Mode returns the current mode.
func (m *Manager) Mode() Mode { return m.state.Mode }

// Clear drops any selection.
func (m *Manager) Clear() {
	if m.state.Mode != None {
		logger.DebugTagf("selection", "cleared %s selection", m.state.Mode)
	}
	m.state = State{}
}

// TriggerLine handles the line-select command at cursor.
func (m *Manager) TriggerLine(cursor types.Position) {
	if m.state.Mode == Line {
		m.state.Extent = cursor
	} else {
		m.state = State{Mode: Line, Anchor: cursor, Extent: cursor}
	}
	logger.DebugTagf("selection", "line selection %d..%d", m.state.Anchor.Line, m.state.Extent.Line)
}

// TriggerBlock handles the block-select command at cursor. The first
// trigger drops an anchor, the second fixes the opposite corner, and a
// third starts over from the cursor.
func (m *Manager) TriggerBlock(cursor types.Position) {
	switch m.state.Mode {
	case BlockPending:
		m.state = State{Mode: Block, Anchor: m.state.Anchor, Extent: cursor}
	default:
		m.state = State{Mode: BlockPending, Anchor: cursor, Extent: cursor}
	}
	logger.DebugTagf("selection", "block %s anchor=%v extent=%v", m.state.Mode, m.state.Anchor, m.state.Extent)
}

// CursorMoved lets a pending block follow the cursor.
func (m *Manager) CursorMoved(cursor types.Position) {
	if m.state.Mode == BlockPending {
		m.state.Extent = cursor
	}
}

// Region returns the normalized selection. ok is false when nothing is
// selected.
func (m *Manager) Region() (Region, bool) {
	return m.state.Region()
}

// Shifted returns the snapshot with a block moved delta columns.
func (s State) Shifted(delta int) State {
	if s.Mode == Block {
		s.Anchor.Col += delta
		s.Extent.Col += delta
	}
	return s
}

// Region normalizes a snapshot.
func (s State) Region() (Region, bool) {
	if s.Mode == None {
		return Region{}, false
	}
	r := Region{
		Mode:      s.Mode,
		StartLine: min(s.Anchor.Line, s.Extent.Line),
		EndLine:   max(s.Anchor.Line, s.Extent.Line),
		StartCol:  min(s.Anchor.Col, s.Extent.Col),
		EndCol:    max(s.Anchor.Col, s.Extent.Col),
	}
	return r, true
}

// Contains reports whether the display cell (line, col) is selected.
func (r Region) Contains(line, col int) bool {
	if line < r.StartLine || line > r.EndLine {
		return false
	}
	if r.Mode == Line {
		return true
	}
	return col >= r.StartCol && col <= r.EndCol
}
