package history

import (
	"fmt"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

const DefaultMaxHistory = 1000

// Manager handles the undo/redo stacks. It is owned by a single goroutine.
type Manager struct {
	undo       []Change
	redo       []Change
	maxHistory int
}

// NewManager creates a history manager.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{maxHistory: maxHistory}
}

// ApplyOps runs ops in order against buf. If one fails, the ones already
// applied are reverted and the buffer is left as it was.
func ApplyOps(buf buffer.Buffer, ops []Operation) ([]Operation, []types.EditInfo, error) {
	applied := make([]Operation, 0, len(ops))
	infos := make([]types.EditInfo, 0, len(ops))
	for _, op := range ops {
		done, info, err := op.Apply(buf)
		if err != nil {
			for i := len(applied) - 1; i >= 0; i-- {
				if _, _, rerr := applied[i].Inverse().Apply(buf); rerr != nil {
					logger.Errorf("History: rollback of %s failed: %v", applied[i].Kind, rerr)
				}
			}
			return nil, nil, err
		}
		applied = append(applied, done)
		infos = append(infos, info)
	}
	return applied, infos, nil
}

// RecordChange pushes an applied change and clears the redo stack.
func (m *Manager) RecordChange(change Change) {
	m.redo = m.redo[:0]
	m.undo = append(m.undo, change)
	if len(m.undo) > m.maxHistory {
		m.undo = m.undo[len(m.undo)-m.maxHistory:]
	}
	logger.Debugf("History: Recorded %q (%d ops). Undo: %d", change.Label, len(change.Ops), len(m.undo))
}

// Undo reverts the most recent change on buf and returns it so the caller
// can restore cursor and selection.
func (m *Manager) Undo(buf buffer.Buffer) (Change, []types.EditInfo, error) {
	if len(m.undo) == 0 {
		return Change{}, nil, errs.ErrNothingToUndo
	}
	change := m.undo[len(m.undo)-1]

	inverse := make([]Operation, len(change.Ops))
	for i, op := range change.Ops {
		inverse[len(change.Ops)-1-i] = op.Inverse()
	}
	_, infos, err := ApplyOps(buf, inverse)
	if err != nil {
		return Change{}, nil, fmt.Errorf("undo %q: %w", change.Label, err)
	}

	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, change)
	logger.Debugf("History: Undid %q. Undo: %d, Redo: %d", change.Label, len(m.undo), len(m.redo))
	return change, infos, nil
}

// Redo reapplies the most recently undone change.
func (m *Manager) Redo(buf buffer.Buffer) (Change, []types.EditInfo, error) {
	if len(m.redo) == 0 {
		return Change{}, nil, errs.ErrNothingToRedo
	}
	change := m.redo[len(m.redo)-1]

	_, infos, err := ApplyOps(buf, change.Ops)
	if err != nil {
		return Change{}, nil, fmt.Errorf("redo %q: %w", change.Label, err)
	}

	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, change)
	logger.Debugf("History: Redid %q. Undo: %d, Redo: %d", change.Label, len(m.undo), len(m.redo))
	return change, infos, nil
}

// Clear resets both stacks. Call this on file load.
func (m *Manager) Clear() {
	m.undo = m.undo[:0]
	m.redo = m.redo[:0]
	logger.Debugf("History: Cleared.")
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }
