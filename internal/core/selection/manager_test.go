package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/types"
)

func at(l, c int) types.Position { return types.Position{Line: l, Col: c} }

func TestLineSelectionExtends(t *testing.T) {
	m := NewManager()
	m.TriggerLine(at(4, 2))
	m.TriggerLine(at(1, 7))
	r, ok := m.Region()
	require.True(t, ok)
	assert.Equal(t, Line, r.Mode)
	assert.Equal(t, 1, r.StartLine)
	assert.Equal(t, 4, r.EndLine)
	assert.True(t, r.Contains(2, 500))
}

func TestBlockStateMachine(t *testing.T) {
	m := NewManager()
	m.TriggerBlock(at(1, 1))
	assert.Equal(t, BlockPending, m.Mode())

	m.CursorMoved(at(3, 4))
	assert.Equal(t, at(3, 4), m.State().Extent)

	m.TriggerBlock(at(3, 5))
	assert.Equal(t, Block, m.Mode())
	r, _ := m.Region()
	assert.Equal(t, Region{Mode: Block, StartLine: 1, EndLine: 3, StartCol: 1, EndCol: 5}, r)
	assert.Equal(t, 3, r.Rows())
	assert.Equal(t, 5, r.Cols())

	// Moving the cursor does not resize a fixed block.
	m.CursorMoved(at(9, 9))
	assert.Equal(t, at(3, 5), m.State().Extent)

	// A third trigger starts a fresh pending block at the cursor.
	m.TriggerBlock(at(7, 0))
	assert.Equal(t, State{Mode: BlockPending, Anchor: at(7, 0), Extent: at(7, 0)}, m.State())
}

func TestFamiliesAreExclusive(t *testing.T) {
	m := NewManager()
	m.TriggerLine(at(0, 0))
	m.TriggerBlock(at(2, 2))
	assert.Equal(t, BlockPending, m.Mode())
	assert.Equal(t, at(2, 2), m.State().Anchor)

	m.TriggerLine(at(5, 0))
	assert.Equal(t, State{Mode: Line, Anchor: at(5, 0), Extent: at(5, 0)}, m.State())
}

func TestClearAndRestore(t *testing.T) {
	m := NewManager()
	m.TriggerBlock(at(0, 0))
	m.TriggerBlock(at(1, 1))
	snap := m.State()
	m.Clear()
	_, ok := m.Region()
	assert.False(t, ok)
	m.Restore(snap)
	assert.Equal(t, Block, m.Mode())
}

func TestShiftedOnlyMovesBlocks(t *testing.T) {
	line := State{Mode: Line, Anchor: at(0, 3), Extent: at(0, 3)}
	assert.Equal(t, line, line.Shifted(1))

	block := State{Mode: Block, Anchor: at(0, 3), Extent: at(1, 4)}
	r, _ := block.Shifted(-1).Region()
	assert.Equal(t, 2, r.StartCol)
	assert.Equal(t, 3, r.EndCol)
}
