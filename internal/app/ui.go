package app

import (
	"time"

	"github.com/bethropolis/vedit/internal/modehandler"
	"github.com/bethropolis/vedit/internal/statusbar"
	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/tui"
)

// drawEditor clears screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	currentTheme := a.themeManager.Current()
	a.tuiManager.SetStyle(currentTheme.GetStyle(theme.StyleDefault))

	editor := a.dispatcher.Editor()
	display := a.dispatcher.Display()
	width, height := a.tuiManager.Size()
	lay := tui.ComputeLayout(width, height, editor.GetBuffer().LineCount(), display.LineNumbers, display.LineNumberSide)
	editor.SetViewSize(lay.TextWidth, lay.TextHeight)

	a.tuiManager.Clear()
	tui.DrawBuffer(a.tuiManager, editor, currentTheme, lay)
	if height > lay.StatusY {
		a.statusBar.Draw(a.tuiManager.GetScreen(), lay.StatusY, width, currentTheme)
	}
	var cmdX int
	if height > lay.CommandY {
		cmdX = statusbar.DrawCommandLine(a.tuiManager.GetScreen(), lay.CommandY, width,
			a.modeHandler.Prompt(), a.modeHandler.GetCommandBuffer(), currentTheme)
	}

	if mode := a.modeHandler.GetCurrentMode(); mode == modehandler.ModeNormal || mode == modehandler.ModeReview {
		tui.DrawCursor(a.tuiManager, editor, lay)
	} else {
		tui.ShowCursorAt(a.tuiManager, cmdX, lay.CommandY)
	}
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	editor := a.dispatcher.Editor()
	path := editor.FilePath()
	switch {
	case a.dispatcher.Review() != nil:
		path = "[review]"
	case a.dispatcher.InView():
		path = "[view]"
	}
	a.statusBar.SetFileInfo(path, editor.IsModified(), editor.GetBuffer().LineCount())
	a.statusBar.SetCursorInfo(editor.GetCursor())
	mode := "INS"
	if editor.IsOverwrite() {
		mode = "OVR"
	}
	a.statusBar.SetEditorMode(mode, editor.IsReadOnly())
	a.statusBar.SetSelection(editor.Selection().Mode().String())

	active := a.coordinator.Active()
	since := time.Time{}
	if len(active) > 0 {
		since = active[0].Issued
	}
	a.statusBar.SetAIActivity(len(active), since)
}
