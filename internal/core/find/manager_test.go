package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/types"
)

func at(l, c int) types.Position { return types.Position{Line: l, Col: c} }

func TestFindThenRepeatWraps(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("abcabc\nxyz")
	m := NewManager()

	pos, err := m.Find(buf, Query{Pattern: "abc"}, at(0, 3))
	require.NoError(t, err)
	assert.Equal(t, at(0, 3), pos)

	pos, err = m.RepeatLast(buf)
	require.NoError(t, err)
	assert.Equal(t, at(0, 0), pos)

	pos, err = m.RepeatLast(buf)
	require.NoError(t, err)
	assert.Equal(t, at(0, 3), pos)
}

func TestFindWrapsToEarlierLine(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("needle\nhay\nhay")
	pos, ok := Search(buf, Query{Pattern: "needle"}, at(1, 0))
	require.True(t, ok)
	assert.Equal(t, at(0, 0), pos)
}

func TestFindCaseInsensitive(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("Ünïcode ÄBC")
	m := NewManager()
	_, err := m.Find(buf, Query{Pattern: "äbc"}, at(0, 0))
	assert.ErrorIs(t, err, errs.ErrNotFound)

	pos, err := m.Find(buf, Query{Pattern: "äbc", CaseInsensitive: true}, at(0, 0))
	require.NoError(t, err)
	assert.Equal(t, at(0, 8), pos)
}

func TestFindErrors(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("abc")
	m := NewManager()
	_, err := m.Find(buf, Query{}, at(0, 0))
	assert.ErrorIs(t, err, errs.ErrInvalidCommand)
	_, err = m.RepeatLast(buf)
	assert.ErrorIs(t, err, errs.ErrInvalidCommand)
	_, err = m.Find(buf, Query{Pattern: "zzz"}, at(0, 0))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSingleOccurrenceIsFoundFromItsMiddle(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("xxabcxx")
	pos, ok := Search(buf, Query{Pattern: "abc"}, at(0, 3))
	require.True(t, ok)
	assert.Equal(t, at(0, 2), pos)
}

func TestMatches(t *testing.T) {
	buf := buffer.NewSliceBufferFromString("aaaa\nbaab")
	got := Matches(buf, Query{Pattern: "aa"})
	assert.Equal(t, []Match{
		{Start: at(0, 0), Len: 2},
		{Start: at(0, 2), Len: 2},
		{Start: at(1, 1), Len: 2},
	}, got)
	assert.Equal(t, at(1, 3), got[2].End())
}
