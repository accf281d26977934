package modehandler

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core"
	"github.com/bethropolis/vedit/internal/input"
	"github.com/bethropolis/vedit/internal/statusbar"
	"github.com/bethropolis/vedit/internal/storage"
	"github.com/bethropolis/vedit/internal/types"
)

type fixture struct {
	mh  *ModeHandler
	doc *core.Editor
	sb  *statusbar.StatusBar
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	cfg := config.NewDefaultConfig()
	coord := ai.NewCoordinator(cfg.AI, nil)
	t.Cleanup(coord.Close)

	doc := core.NewEditor(buffer.NewSliceBuffer(), core.OptionsFrom(cfg))
	doc.LoadContent("doc.txt", []byte(content))
	d := command.NewDispatcher(command.Deps{
		Config: cfg,
		Editor: doc,
		AI:     coord,
		Store:  storage.NewMemStore(),
	})
	sb := statusbar.New(time.Minute)
	mh := New(Config{Dispatcher: d, InputProcessor: input.NewInputProcessor(), StatusBar: sb})
	return &fixture{mh: mh, doc: doc, sb: sb}
}

func (f *fixture) key(k tcell.Key) bool {
	return f.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func (f *fixture) ctrl(k tcell.Key) bool {
	return f.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, tcell.ModCtrl))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (f *fixture) text() string { return string(f.doc.GetBuffer().Bytes()) }

func (f *fixture) message() string {
	msg, _, _ := f.sb.Message()
	return msg
}

func TestTypingEditsText(t *testing.T) {
	f := newFixture(t, "abc")
	f.typeText("xy")
	assert.Equal(t, "xyc", f.text(), "overwrite mode")

	f.key(tcell.KeyInsert)
	assert.Equal(t, "Insert mode", f.message())
	f.typeText("z")
	assert.Equal(t, "xyzc", f.text())

	f.key(tcell.KeyEnd)
	f.key(tcell.KeyEnter)
	assert.Equal(t, "xyzc\n", f.text())

	f.ctrl(tcell.KeyCtrlZ)
	assert.Equal(t, "xyzc", f.text())
	assert.False(t, f.key(tcell.KeyF12), "unbound keys need no redraw")
}

func TestCommandLineExecutes(t *testing.T) {
	f := newFixture(t, "one\ntwo\nthree")

	f.key(tcell.KeyEscape)
	require.Equal(t, ModeCommand, f.mh.GetCurrentMode())
	f.typeText("goto 3")
	assert.Equal(t, "goto 3", f.mh.GetCommandBuffer())
	assert.Equal(t, "one\ntwo\nthree", f.text(), "typing on the command line leaves the text alone")

	f.key(tcell.KeyEnter)
	assert.Equal(t, types.Position{Line: 2}, f.doc.GetCursor())
	assert.Equal(t, "Jumped to line 3", f.message())
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode(), "goto hands focus back to the text")
	assert.Empty(t, f.mh.GetCommandBuffer())
}

func TestCommandLineErrorsStayFocused(t *testing.T) {
	f := newFixture(t, "one")
	f.key(tcell.KeyEscape)
	f.typeText("goto 9")
	f.key(tcell.KeyEnter)

	msg, isErr, ok := f.sb.Message()
	require.True(t, ok)
	assert.True(t, isErr)
	assert.Contains(t, msg, "out of range")
	assert.Equal(t, ModeCommand, f.mh.GetCurrentMode())
}

func TestCommandRecall(t *testing.T) {
	f := newFixture(t, "one")
	f.key(tcell.KeyEscape)
	f.typeText("lnum")
	f.key(tcell.KeyEnter)
	f.typeText("undo")
	f.key(tcell.KeyEnter)

	f.typeText("dra")
	f.key(tcell.KeyUp)
	assert.Equal(t, "undo", f.mh.GetCommandBuffer())
	f.key(tcell.KeyUp)
	assert.Equal(t, "lnum", f.mh.GetCommandBuffer())
	f.key(tcell.KeyUp)
	assert.Equal(t, "lnum", f.mh.GetCommandBuffer(), "recall stops at the oldest entry")
	f.key(tcell.KeyDown)
	f.key(tcell.KeyDown)
	assert.Equal(t, "dra", f.mh.GetCommandBuffer(), "the draft comes back")

	f.key(tcell.KeyBackspace2)
	f.key(tcell.KeyBackspace2)
	f.key(tcell.KeyBackspace2)
	f.key(tcell.KeyBackspace2)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode(), "backspace on an empty line leaves it")
}

func TestQuitTwiceDiscards(t *testing.T) {
	f := newFixture(t, "abc")
	f.ctrl(tcell.KeyCtrlQ)
	assert.True(t, f.mh.QuitRequested())

	f = newFixture(t, "abc")
	f.typeText("x")
	f.ctrl(tcell.KeyCtrlQ)
	assert.False(t, f.mh.QuitRequested())
	_, isErr, _ := f.sb.Message()
	assert.True(t, isErr)

	f.ctrl(tcell.KeyCtrlQ)
	assert.True(t, f.mh.QuitRequested())
}

func TestQuitPendingResetByOtherKeys(t *testing.T) {
	f := newFixture(t, "abc")
	f.typeText("x")
	f.ctrl(tcell.KeyCtrlQ)
	f.key(tcell.KeyLeft)
	f.ctrl(tcell.KeyCtrlQ)
	assert.False(t, f.mh.QuitRequested())
}

func TestFillPrompt(t *testing.T) {
	f := newFixture(t, "abc\ndef")

	f.ctrl(tcell.KeyCtrlF)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode(), "nothing to fill")
	_, isErr, _ := f.sb.Message()
	assert.True(t, isErr)

	f.ctrl(tcell.KeyCtrlL)
	f.ctrl(tcell.KeyCtrlF)
	require.Equal(t, ModeFill, f.mh.GetCurrentMode())
	assert.Equal(t, "Fill with: ", f.mh.Prompt())
	f.typeText("#")
	assert.Equal(t, "###\ndef", f.text())
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())

	f.ctrl(tcell.KeyCtrlL)
	f.ctrl(tcell.KeyCtrlF)
	f.key(tcell.KeyEscape)
	assert.Equal(t, "Fill cancelled", f.message())
	assert.Equal(t, "###\ndef", f.text())
}

func TestBlockKeys(t *testing.T) {
	f := newFixture(t, "abcd\nefgh")
	f.key(tcell.KeyRight)
	f.ctrl(tcell.KeyCtrlB)
	f.key(tcell.KeyDown)
	f.ctrl(tcell.KeyCtrlB)
	f.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyF8, 0, tcell.ModShift))
	assert.Equal(t, "a bd\ne fh", f.text(), "the column moved onto is dropped")

	f.ctrl(tcell.KeyCtrlU)
	_, ok := f.doc.Selection().Region()
	assert.False(t, ok)
}

// newReviewFixture has one fake model replying with reply and AI edits held
// for review.
func newReviewFixture(t *testing.T, content, reply string) (*fixture, *command.Dispatcher, *ai.Coordinator) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.AI.Models = []config.ModelConfig{{ID: "test", Provider: "fake", TimeoutMs: 2000}}
	cfg.AI.DefaultModel = "test"
	cfg.AI.ReviewEdits = true
	coord := ai.NewCoordinator(cfg.AI, nil, ai.WithProviderFactory(func(config.ModelConfig) (ai.Provider, error) {
		return ai.ProviderFunc(func(ctx context.Context, call ai.Call) (string, error) { return reply, nil }), nil
	}))
	t.Cleanup(coord.Close)

	doc := core.NewEditor(buffer.NewSliceBuffer(), core.OptionsFrom(cfg))
	doc.LoadContent("doc.txt", []byte(content))
	d := command.NewDispatcher(command.Deps{Config: cfg, Editor: doc, AI: coord, Store: storage.NewMemStore()})
	sb := statusbar.New(time.Minute)
	mh := New(Config{Dispatcher: d, InputProcessor: input.NewInputProcessor(), StatusBar: sb})
	return &fixture{mh: mh, doc: doc, sb: sb}, d, coord
}

func (f *fixture) deliverNext(t *testing.T, d *command.Dispatcher, coord *ai.Coordinator) {
	t.Helper()
	select {
	case res := <-coord.Results():
		f.mh.Report(d.Dispatch(command.AIResult{Result: res}))
	case <-time.After(3 * time.Second):
		t.Fatal("no AI result received")
	}
}

func TestReviewKeys(t *testing.T) {
	f, d, coord := newReviewFixture(t, "a\nb\nc", "A\nb\nC")
	f.key(tcell.KeyEscape)
	f.typeText(`prompt "upper"`)
	f.key(tcell.KeyEnter)
	f.deliverNext(t, d, coord)

	require.Equal(t, ModeReview, f.mh.GetCurrentMode())
	assert.Contains(t, f.mh.Prompt(), "Hunk 1/2 rejected")
	assert.Empty(t, f.mh.GetCommandBuffer())

	assert.False(t, f.key(tcell.KeyCtrlS), "other keys are ignored")
	f.typeText("x")
	assert.Equal(t, "a\nb\nc", f.text())

	f.typeText("a")
	assert.Contains(t, f.mh.Prompt(), "Hunk 2/2 rejected")
	f.typeText("p")
	assert.Contains(t, f.mh.Prompt(), "Hunk 1/2 accepted")
	f.typeText("nr")
	f.typeText("q")

	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, "A\nb\nc", f.text())
	assert.Equal(t, "AI applied 1 of 2 change(s)", f.message())
}

func TestReviewEscapeDiscards(t *testing.T) {
	f, d, coord := newReviewFixture(t, "a\nb", "A\nB")
	f.key(tcell.KeyEscape)
	f.typeText(`prompt "upper"`)
	f.key(tcell.KeyEnter)
	f.deliverNext(t, d, coord)

	f.typeText("A")
	assert.Contains(t, f.mh.Prompt(), "All 1 hunks accepted")
	f.key(tcell.KeyEscape)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, "AI changes discarded.", f.message())
	assert.Equal(t, "a\nb", f.text())
}
