package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRecall(t *testing.T) {
	h := NewHistory(10)
	h.Add("goto 3")
	h.Add("find \"x\"")
	h.Add("save")

	line, ok := h.Prev("und")
	assert.True(t, ok)
	assert.Equal(t, "save", line)
	line, _ = h.Prev(line)
	assert.Equal(t, "find \"x\"", line)
	line, _ = h.Prev(line)
	assert.Equal(t, "goto 3", line)

	line, ok = h.Prev(line)
	assert.False(t, ok, "recall stops at the oldest entry")
	assert.Equal(t, "goto 3", line)

	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "find \"x\"", line)
	line, _ = h.Next()
	assert.Equal(t, "save", line)
	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "und", line, "walking past the newest returns the draft")

	line, ok = h.Next()
	assert.False(t, ok)
	assert.Equal(t, "und", line)
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Add(fmt.Sprintf("goto %d", i))
	}
	assert.Len(t, h.Entries(), 3)
	assert.Equal(t, []string{"goto 5", "goto 4", "goto 3"}, h.Entries())
}

func TestHistorySkipsBlanksAndRepeats(t *testing.T) {
	h := NewHistory(0)
	h.Add("")
	h.Add("   ")
	h.Add("undo")
	h.Add(" undo ")
	h.Add("redo")
	h.Add("undo")
	assert.Equal(t, []string{"undo", "redo", "undo"}, h.Entries())
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(5)
	line, ok := h.Prev("draft")
	assert.False(t, ok)
	assert.Equal(t, "draft", line)
	_, ok = h.Next()
	assert.False(t, ok)
}

func TestHistoryAddResetsRecall(t *testing.T) {
	h := NewHistory(5)
	h.Add("a")
	h.Add("b")
	_, _ = h.Prev("")
	_, _ = h.Prev("")
	h.Add("c")

	line, ok := h.Prev("")
	assert.True(t, ok)
	assert.Equal(t, "c", line)
}
