package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/types"
)

func pos(l, c int) types.Position { return types.Position{Line: l, Col: c} }

func TestNewBufferHasOneEmptyLine(t *testing.T) {
	b := NewSliceBuffer()
	assert.Equal(t, 1, b.LineCount())
	assert.Equal(t, "", string(b.Bytes()))
}

func TestSetContent(t *testing.T) {
	b := NewSliceBufferFromString("one\r\ntwo\n")
	assert.Equal(t, 2, b.LineCount())
	line, err := b.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "one", string(line))
	assert.Equal(t, "one\ntwo", string(b.Bytes()))
}

func TestInsertSplitsLines(t *testing.T) {
	b := NewSliceBufferFromString("héllo")
	info, err := b.Insert(pos(0, 2), []byte("X\nY"))
	require.NoError(t, err)
	assert.Equal(t, "héX\nYllo", string(b.Bytes()))
	assert.Equal(t, pos(0, 2), info.Start)
	assert.Equal(t, pos(1, 1), info.NewEnd)
}

func TestInsertClampsColumn(t *testing.T) {
	b := NewSliceBufferFromString("ab")
	info, err := b.Insert(pos(0, 99), []byte("c"))
	require.NoError(t, err)
	assert.Equal(t, pos(0, 2), info.Start)
	assert.Equal(t, "abc", string(b.Bytes()))
}

func TestOutOfRangeLine(t *testing.T) {
	b := NewSliceBufferFromString("ab")
	_, err := b.Insert(pos(1, 0), []byte("x"))
	assert.ErrorIs(t, err, errs.ErrOutOfRange)
	_, err = b.Delete(pos(0, 0), pos(3, 0))
	assert.ErrorIs(t, err, errs.ErrOutOfRange)
	_, err = b.Line(-1)
	assert.ErrorIs(t, err, errs.ErrOutOfRange)
	assert.Equal(t, "ab", string(b.Bytes()))
}

func TestDeleteAcrossLines(t *testing.T) {
	b := NewSliceBufferFromString("abc\ndef\nghi")
	info, err := b.Delete(pos(2, 1), pos(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "ahi", string(b.Bytes()))
	assert.Equal(t, "bc\ndef\ng", string(info.Removed))
	assert.Equal(t, pos(2, 1), info.OldEnd)
}

func TestReplaceReportsRemoved(t *testing.T) {
	b := NewSliceBufferFromString("abc\ndef")
	info, err := b.Replace(pos(0, 1), pos(1, 2), []byte("Z"))
	require.NoError(t, err)
	assert.Equal(t, "aZf", string(b.Bytes()))
	assert.Equal(t, "bc\nde", string(info.Removed))
	assert.Equal(t, pos(0, 2), info.NewEnd)
}

func TestText(t *testing.T) {
	b := NewSliceBufferFromString("abc\ndef\nghi")
	txt, err := b.Text(pos(0, 2), pos(2, 1))
	require.NoError(t, err)
	assert.Equal(t, "c\ndef\ng", string(txt))
}

func TestFingerprintTracksContent(t *testing.T) {
	a := NewSliceBufferFromString("x\ny")
	b := NewSliceBufferFromString("x\ny")
	assert.Equal(t, ContentFingerprint(a), ContentFingerprint(b))
	assert.Equal(t, Fingerprint(a, 0, 0), Fingerprint(b, 0, 0))

	_, _ = b.Insert(pos(1, 1), []byte("\n"))
	// Line 0 is unchanged but the line count moved.
	assert.NotEqual(t, Fingerprint(a, 0, 0), Fingerprint(b, 0, 0))
}
