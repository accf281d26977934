package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/types"
)

func newEditor(content string) *Editor {
	e := NewEditor(buffer.NewSliceBuffer(), Options{TabWidth: 4, Overwrite: true})
	e.LoadContent("doc.txt", []byte(content))
	return e
}

func TestModifiedTracksSavedContent(t *testing.T) {
	e := newEditor("abc")
	assert.False(t, e.IsModified())

	e.SetCursor(types.Position{Col: 3})
	require.NoError(t, e.InsertRune('d'))
	assert.True(t, e.IsModified())

	require.NoError(t, e.Undo())
	assert.False(t, e.IsModified(), "undo back to the saved content")

	require.NoError(t, e.Redo())
	assert.True(t, e.IsModified())

	e.MarkSaved()
	assert.False(t, e.IsModified())
	require.NoError(t, e.Undo())
	assert.True(t, e.IsModified(), "undo past the save point")
}

func TestSetCursorClamps(t *testing.T) {
	e := newEditor("ab\ncdef")
	e.SetCursor(types.Position{Line: 9, Col: 9})
	assert.Equal(t, types.Position{Line: 1, Col: 4}, e.GetCursor())

	e.SetCursor(types.Position{Line: 0, Col: 2})
	e.MoveCursor(0, 1)
	assert.Equal(t, types.Position{Line: 1, Col: 0}, e.GetCursor(), "wraps to next line")
	e.MoveCursor(0, -1)
	assert.Equal(t, types.Position{Line: 0, Col: 2}, e.GetCursor())
}

func TestPendingBlockFollowsCursorInDisplayColumns(t *testing.T) {
	e := newEditor("世界abc\nxyz")
	e.SetCursor(types.Position{Line: 0, Col: 1})
	e.TriggerBlockSelection()
	assert.Equal(t, types.Position{Line: 0, Col: 2}, e.Selection().State().Anchor)

	e.MoveCursor(1, 0)
	assert.Equal(t, types.Position{Line: 1, Col: 1}, e.Selection().State().Extent)

	e.TriggerBlockSelection()
	text, err := e.SelectedText()
	require.NoError(t, err)
	assert.Equal(t, "  \nyz", string(text))
}

func TestFindMovesCursorAndCounts(t *testing.T) {
	e := newEditor("abcabc\nxyz")
	e.SetCursor(types.Position{Col: 3})
	n, err := e.Find(find.Query{Pattern: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, types.Position{Col: 3}, e.GetCursor())

	require.NoError(t, e.FindNext())
	assert.Equal(t, types.Position{Col: 0}, e.GetCursor())

	require.NoError(t, e.InsertRune('z'))
	assert.Empty(t, e.SearchMatches(), "edits drop stale highlights")
}

func TestReadOnlyRefusesEdits(t *testing.T) {
	e := newEditor("help text")
	e.SetReadOnly(true)
	assert.ErrorIs(t, e.InsertRune('x'), errs.ErrInvalidCommand)
	assert.ErrorIs(t, e.DeleteBackward(), errs.ErrInvalidCommand)
	assert.Equal(t, "help text", string(e.GetBuffer().Bytes()))
}

func TestTargetRows(t *testing.T) {
	e := newEditor("a\nb\nc\nd")
	first, last := e.TargetRows()
	assert.Equal(t, 0, first)
	assert.Equal(t, 3, last)

	e.SetCursor(types.Position{Line: 2})
	e.TriggerLineSelection()
	e.SetCursor(types.Position{Line: 1})
	e.TriggerLineSelection()
	first, last = e.TargetRows()
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, last)
	assert.Equal(t, "b\nc", string(e.RowsText(first, last)))
	assert.Equal(t, selection.Line, e.Selection().Mode())
}

func TestLoadContentResetsState(t *testing.T) {
	e := newEditor("abc")
	events := event.NewManager()
	var loaded string
	events.Subscribe(event.TypeBufferLoaded, func(ev event.Event) bool {
		loaded = ev.Data.(event.BufferLoadedData).FilePath
		return false
	})
	e.SetEventManager(events)

	require.NoError(t, e.InsertRune('x'))
	e.TriggerLineSelection()
	e.LoadContent("other.txt", []byte("new\n"))

	assert.Equal(t, "other.txt", loaded)
	assert.False(t, e.IsModified())
	assert.Equal(t, selection.None, e.Selection().Mode())
	assert.ErrorIs(t, e.Undo(), errs.ErrNothingToUndo)
	assert.Equal(t, 1, e.GetBuffer().LineCount())
}

func TestToggleOverwrite(t *testing.T) {
	e := newEditor("ab")
	require.NoError(t, e.InsertRune('X'))
	assert.Equal(t, "Xb", string(e.GetBuffer().Bytes()))
	assert.False(t, e.ToggleOverwrite())
	require.NoError(t, e.InsertRune('Y'))
	assert.Equal(t, "XYb", string(e.GetBuffer().Bytes()))
}
