// internal/modehandler/modehandler.go
package modehandler

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/vedit/internal/command"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/input"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/statusbar"
)

// InputMode defines where keystrokes go.
type InputMode int

const (
	ModeNormal  InputMode = iota // keys edit the text
	ModeCommand                  // keys edit the command line
	ModeFill                     // the next rune fills the selection
	ModeReview                   // keys accept or reject AI edit hunks
)

func (m InputMode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeFill:
		return "FILL"
	case ModeReview:
		return "REVIEW"
	default:
		return "NORMAL"
	}
}

// ModeHandler manages input modes and turns keys into editor calls and
// commands. It runs on the owner goroutine.
type ModeHandler struct {
	dispatcher     *command.Dispatcher
	inputProcessor *input.InputProcessor
	statusBar      *statusbar.StatusBar

	currentMode      InputMode
	cmdBuffer        []rune
	forceQuitPending bool
	quitRequested    bool
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Dispatcher     *command.Dispatcher
	InputProcessor *input.InputProcessor
	StatusBar      *statusbar.StatusBar
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Dispatcher == nil || cfg.InputProcessor == nil || cfg.StatusBar == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	return &ModeHandler{
		dispatcher:     cfg.Dispatcher,
		inputProcessor: cfg.InputProcessor,
		statusBar:      cfg.StatusBar,
		currentMode:    ModeNormal,
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	logger.DebugTagf("input", "%s key %q -> %s", mh.currentMode, ev.Name(), actionEvent.Action)

	switch mh.GetCurrentMode() {
	case ModeReview:
		return mh.handleActionReview(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	case ModeFill:
		return mh.handleActionFill(actionEvent)
	default:
		return mh.handleActionNormal(actionEvent)
	}
}

// Report shows the outcome of a command on the status bar and applies
// its effect on the handler: quitting or returning focus to the text.
func (mh *ModeHandler) Report(res command.Result, err error) {
	if err != nil {
		logger.DebugTagf("command", "command failed: %v", err)
		mh.statusBar.SetError(errs.Message(err))
		return
	}
	if res.Message != "" {
		mh.statusBar.SetTemporaryMessage("%s", res.Message)
	}
	if res.ShowHelp || res.FocusText {
		mh.currentMode = ModeNormal
	}
	if res.Quit {
		mh.quitRequested = true
	}
}

// run dispatches cmd and reports the outcome.
func (mh *ModeHandler) run(cmd command.Command) {
	mh.Report(mh.dispatcher.Dispatch(cmd))
}

// QuitRequested reports whether a quit command succeeded.
func (mh *ModeHandler) QuitRequested() bool {
	return mh.quitRequested
}

// GetCurrentMode returns the current input mode. An AI edit under review
// takes the keys whatever mode was active before.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	if mh.dispatcher.Review() != nil {
		return ModeReview
	}
	return mh.currentMode
}

// GetCommandBuffer returns the command line being typed.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.GetCurrentMode() == ModeReview {
		return ""
	}
	return string(mh.cmdBuffer)
}

// Prompt is the label drawn before the command line.
func (mh *ModeHandler) Prompt() string {
	switch mh.GetCurrentMode() {
	case ModeReview:
		return mh.dispatcher.Review().Status()
	case ModeFill:
		return "Fill with: "
	case ModeCommand:
		return "> "
	default:
		return "  "
	}
}
