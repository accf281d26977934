package edit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/types"
)

type fakeEditor struct {
	buf     *buffer.SliceBuffer
	cursor  types.Position
	sel     *selection.Manager
	changes int
	undone  int
}

func newFake(content string) *fakeEditor {
	return &fakeEditor{buf: buffer.NewSliceBufferFromString(content), sel: selection.NewManager()}
}

func (f *fakeEditor) GetBuffer() buffer.Buffer { return f.buf }
func (f *fakeEditor) GetCursor() types.Position { return f.cursor }
func (f *fakeEditor) SetCursor(p types.Position) { f.cursor = p }
func (f *fakeEditor) Selection() *selection.Manager { return f.sel }
func (f *fakeEditor) GetEventManager() *event.Manager { return nil }
func (f *fakeEditor) text() string { return string(f.buf.Bytes()) }
func (f *fakeEditor) ContentChanged(fromHistory bool) {
	if fromHistory {
		f.undone++
	} else {
		f.changes++
	}
}

func at(l, c int) types.Position { return types.Position{Line: l, Col: c} }

func block(f *fakeEditor, a, b types.Position) {
	f.sel.TriggerBlock(a)
	f.sel.TriggerBlock(b)
}

func TestBlockFillIsOneUndoStep(t *testing.T) {
	f := newFake("abcdef\nghijkl\nmnopqr")
	e := NewEngine(f, 0)
	block(f, at(0, 1), at(1, 3))
	f.cursor = at(1, 3)
	before := f.sel.State()

	require.NoError(t, e.Fill('#'))
	assert.Equal(t, "a###ef\ng###kl\nmnopqr", f.text())
	assert.Equal(t, 6, strings.Count(f.text(), "#"))
	assert.Equal(t, selection.None, f.sel.Mode())
	assert.Equal(t, 1, f.changes)

	require.NoError(t, e.Undo())
	assert.Equal(t, "abcdef\nghijkl\nmnopqr", f.text())
	assert.Equal(t, before, f.sel.State())
	assert.Equal(t, at(1, 3), f.cursor)

	require.NoError(t, e.Redo())
	assert.Equal(t, "a###ef\ng###kl\nmnopqr", f.text())
	assert.Equal(t, selection.None, f.sel.Mode())
}

func TestBlockFillPadsShortRows(t *testing.T) {
	f := newFake("ab\n\nlonger line")
	e := NewEngine(f, 0)
	block(f, at(0, 3), at(1, 4))

	require.NoError(t, e.Fill('x'))
	assert.Equal(t, "ab xx\n   xx\nlonger line", f.text())
}

func TestBlockFillBlanksSplitWideGrapheme(t *testing.T) {
	f := newFake("a世b")
	e := NewEngine(f, 0)
	block(f, at(0, 2), at(0, 2))
	require.NoError(t, e.Fill('x'))
	assert.Equal(t, "a xb", f.text())
}

func TestLineFillUsesDisplayWidth(t *testing.T) {
	f := newFake("héllo\n世\nkeep")
	e := NewEngine(f, 0)
	f.sel.TriggerLine(at(0, 0))
	f.sel.TriggerLine(at(1, 0))
	require.NoError(t, e.Fill('-'))
	assert.Equal(t, "-----\n--\nkeep", f.text())
}

func TestFillRejections(t *testing.T) {
	f := newFake("abc")
	e := NewEngine(f, 0)
	assert.ErrorIs(t, e.Fill('x'), errs.ErrNoSelection)

	f.sel.TriggerBlock(at(0, 0))
	assert.ErrorIs(t, e.Fill('x'), errs.ErrNoSelection, "pending block")

	f.sel.TriggerBlock(at(0, 1))
	assert.ErrorIs(t, e.Fill('世'), errs.ErrInvalidCommand)
	assert.Equal(t, "abc", f.text())
	assert.Equal(t, 0, f.changes)
}

func TestBlockSelectionRestartsAfterFill(t *testing.T) {
	f := newFake("abc\ndef")
	e := NewEngine(f, 0)
	block(f, at(0, 0), at(1, 1))
	require.NoError(t, e.Fill('z'))
	f.sel.TriggerBlock(at(1, 2))
	assert.Equal(t, selection.State{Mode: selection.BlockPending, Anchor: at(1, 2), Extent: at(1, 2)}, f.sel.State())
}

func TestMoveRightThenLeftRestores(t *testing.T) {
	f := newFake("xy\npq\nabcd ef")
	e := NewEngine(f, 0)
	block(f, at(0, 0), at(1, 1))

	require.NoError(t, e.MoveBlock(Right))
	assert.Equal(t, " xy\n pq\nabcd ef", f.text())
	r, _ := f.sel.Region()
	assert.Equal(t, 1, r.StartCol)
	assert.Equal(t, 2, r.EndCol)

	require.NoError(t, e.MoveBlock(Left))
	assert.Equal(t, "xy\npq\nabcd ef", f.text())
	r, _ = f.sel.Region()
	assert.Equal(t, 0, r.StartCol)
}

func TestMoveInsideLine(t *testing.T) {
	f := newFake("abcd ef")
	e := NewEngine(f, 0)
	block(f, at(0, 2), at(0, 3))

	require.NoError(t, e.MoveBlock(Right))
	assert.Equal(t, "ab cdef", f.text())
	require.NoError(t, e.MoveBlock(Left))
	assert.Equal(t, "abcd ef", f.text())

	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	assert.Equal(t, "abcd ef", f.text())
	r, _ := f.sel.Region()
	assert.Equal(t, 2, r.StartCol)
}

func TestMoveLeftAtColumnZero(t *testing.T) {
	f := newFake("abc")
	e := NewEngine(f, 0)
	block(f, at(0, 0), at(0, 1))
	assert.ErrorIs(t, e.MoveBlock(Left), errs.ErrOutOfRange)
	assert.Equal(t, "abc", f.text())

	f.sel.TriggerLine(at(0, 0))
	assert.ErrorIs(t, e.MoveBlock(Right), errs.ErrNoSelection)
}

func TestTyping(t *testing.T) {
	f := newFake("abc")
	e := NewEngine(f, 0)
	f.cursor = at(0, 1)

	require.NoError(t, e.InsertRune('X', true))
	assert.Equal(t, "aXc", f.text())
	assert.Equal(t, at(0, 2), f.cursor)

	require.NoError(t, e.InsertRune('Y', false))
	assert.Equal(t, "aXYc", f.text())

	f.cursor = at(0, 4)
	require.NoError(t, e.InsertRune('!', true))
	assert.Equal(t, "aXYc!", f.text())

	require.NoError(t, e.InsertNewline())
	assert.Equal(t, at(1, 0), f.cursor)
	require.NoError(t, e.Backspace())
	assert.Equal(t, "aXYc!", f.text())
	assert.Equal(t, at(0, 5), f.cursor)

	f.cursor = at(0, 1)
	require.NoError(t, e.InsertTab(4))
	assert.Equal(t, "a   XYc!", f.text())
	assert.Equal(t, at(0, 4), f.cursor)

	require.NoError(t, e.DeleteForward())
	assert.Equal(t, "a   Yc!", f.text())
}

func TestBackspaceAtDocumentStartIsNoop(t *testing.T) {
	f := newFake("abc")
	e := NewEngine(f, 0)
	require.NoError(t, e.Backspace())
	assert.False(t, e.History().CanUndo())
}

func TestReplaceAll(t *testing.T) {
	f := newFake("foo bar\nFOO foo")
	e := NewEngine(f, 0)

	n, err := e.ReplaceAll(find.Query{Pattern: "foo", CaseInsensitive: true}, "qux")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "qux bar\nqux qux", f.text())

	require.NoError(t, e.Undo())
	assert.Equal(t, "foo bar\nFOO foo", f.text())

	_, err = e.ReplaceAll(find.Query{Pattern: "nope"}, "x")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNewEditAfterUndoDiscardsRedo(t *testing.T) {
	f := newFake("")
	e := NewEngine(f, 0)
	require.NoError(t, e.InsertRune('a', false))
	require.NoError(t, e.Undo())
	require.NoError(t, e.InsertRune('b', false))
	assert.ErrorIs(t, e.Redo(), errs.ErrNothingToRedo)
	assert.Equal(t, "b", f.text())
}

func TestUndoRedoLaw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := newFake(rapid.SampledFrom([]string{"", "abc\ndef", "世界\nx y z\n\nend"}).Draw(t, "doc"))
		e := NewEngine(f, 0)

		type snap struct {
			text   string
			cursor types.Position
			sel    selection.State
		}
		take := func() snap { return snap{f.text(), f.cursor, f.sel.State()} }
		var history []snap

		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			line := rapid.IntRange(0, f.buf.LineCount()-1).Draw(t, "line")
			f.cursor = at(line, rapid.IntRange(0, f.buf.RuneCount(line)).Draw(t, "col"))
			if rapid.Bool().Draw(t, "select") {
				l2 := rapid.IntRange(0, f.buf.LineCount()-1).Draw(t, "l2")
				block(f, at(line, rapid.IntRange(0, 4).Draw(t, "c1")), at(l2, rapid.IntRange(0, 4).Draw(t, "c2")))
			}
			before := take()
			recorded := f.changes

			var err error
			switch rapid.IntRange(0, 6).Draw(t, "action") {
			case 0:
				err = e.InsertRune('q', rapid.Bool().Draw(t, "overwrite"))
			case 1:
				err = e.InsertNewline()
			case 2:
				err = e.Backspace()
			case 3:
				err = e.DeleteForward()
			case 4:
				err = e.Fill('#')
			case 5:
				err = e.MoveBlock(Right)
			case 6:
				err = e.MoveBlock(Left)
			}
			if f.changes > recorded {
				history = append(history, before)
			} else if err == nil && f.text() != before.text {
				t.Fatalf("content changed without a history entry")
			}
		}

		for i := len(history) - 1; i >= 0; i-- {
			if err := e.Undo(); err != nil {
				t.Fatalf("undo %d: %v", i, err)
			}
			got := take()
			if got != history[i] {
				t.Fatalf("undo %d: got %+v want %+v", i, got, history[i])
			}
		}
	})
}
