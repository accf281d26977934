package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/types"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newBar() (*StatusBar, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	sb := New(4 * time.Second)
	sb.now = c.now
	return sb, c
}

func TestDefaultText(t *testing.T) {
	sb, _ := newBar()
	sb.SetFileInfo("main.go", true, 12)
	sb.SetCursorInfo(types.Position{Line: 2, Col: 4})
	sb.SetEditorMode("OVR", false)
	sb.SetSelection("LINE")
	sb.SetModel("Local")
	assert.Equal(t, " main.go [Modified] | L:3 C:5 | S:12 lines | OVR | LINE | Model: Local ", sb.Text())

	sb.SetFileInfo("", false, 1)
	assert.True(t, strings.HasPrefix(sb.Text(), " [No Name] | "))
}

func TestTemporaryMessageExpires(t *testing.T) {
	sb, c := newBar()
	sb.SetTemporaryMessage("Found %d matches", 3)
	msg, isErr, ok := sb.Message()
	require.True(t, ok)
	assert.False(t, isErr)
	assert.Equal(t, "Found 3 matches", msg)

	c.t = c.t.Add(5 * time.Second)
	_, _, ok = sb.Message()
	assert.False(t, ok)

	sb.SetError("boom")
	_, isErr, ok = sb.Message()
	assert.True(t, ok)
	assert.True(t, isErr)
	sb.ResetTemporaryMessage()
	assert.NotContains(t, sb.Text(), "boom")
}

func TestSpinner(t *testing.T) {
	sb, c := newBar()
	assert.False(t, sb.Tick(), "idle bar does not need redraws")

	sb.SetAIActivity(2, c.t)
	c.t = c.t.Add(3 * time.Second)
	assert.Contains(t, sb.Text(), "[| AI Running (2)... 3s]")
	assert.True(t, sb.Tick())
	assert.Contains(t, sb.Text(), "[/ AI Running (2)... 3s]")

	sb.SetAIActivity(0, time.Time{})
	assert.NotContains(t, sb.Text(), "AI Running")
}

func TestDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(40, 3)

	th := theme.Builtin()[0]
	sb, _ := newBar()
	sb.SetError("héllo")
	sb.Draw(screen, 2, 40, th)

	r, _, style, _ := screen.GetContent(1, 2)
	assert.Equal(t, 'é', r)
	assert.Equal(t, th.GetStyle(theme.StyleStatusError), style)
	_, _, style, _ = screen.GetContent(39, 2)
	assert.Equal(t, th.GetStyle(theme.StyleStatusError), style, "the whole row is filled")
}

func TestDrawCommandLineScrolls(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(10, 1)

	th := theme.Builtin()[0]
	x := DrawCommandLine(screen, 0, 10, "> ", "find abc", th)
	assert.Equal(t, 9, x, "cursor after a fitting input")

	x = DrawCommandLine(screen, 0, 10, "> ", "replace one two", th)
	assert.Equal(t, 9, x)
	r, _, _, _ := screen.GetContent(8, 0)
	assert.Equal(t, 'o', r, "the tail of a long input stays visible")
}
