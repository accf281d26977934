// internal/core/editor.go
package core

import (
	"sync"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core/edit"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

// Options are the editor settings taken from the configuration.
type Options struct {
	TabWidth     int
	ScrollOff    int
	HistoryLimit int
	Overwrite    bool
}

// OptionsFrom extracts editor options from cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		TabWidth:     cfg.TabWidth,
		ScrollOff:    cfg.ScrollOff,
		HistoryLimit: cfg.HistoryLimit,
		Overwrite:    cfg.Overwrite,
	}
}

// Editor is one open document: its buffer, cursor, selection, history
// and search state. Everything except the syntax highlight cache is owned
// by the goroutine running the application loop.
type Editor struct {
	buffer     buffer.Buffer
	Cursor     types.Position
	ViewportY  int // Top visible line index (0-based)
	ViewportX  int // Leftmost visible display column
	viewWidth  int
	viewHeight int
	ScrollOff  int

	selection    *selection.Manager
	engine       *edit.Engine
	finder       *find.Manager
	eventManager *event.Manager

	filePath         string
	readOnly         bool
	overwrite        bool
	tabWidth         int
	modified         bool
	savedFingerprint uint64

	searchMatches []find.Match

	syntaxHighlights types.HighlightResult
	highlightMutex   sync.RWMutex
}

// NewEditor creates a new Editor instance with a given buffer.
func NewEditor(buf buffer.Buffer, opts Options) *Editor {
	if opts.TabWidth <= 0 {
		opts.TabWidth = config.DefaultTabWidth
	}
	e := &Editor{
		buffer:           buf,
		ScrollOff:        opts.ScrollOff,
		selection:        selection.NewManager(),
		finder:           find.NewManager(),
		overwrite:        opts.Overwrite,
		tabWidth:         opts.TabWidth,
		syntaxHighlights: make(types.HighlightResult),
	}
	e.engine = edit.NewEngine(e, opts.HistoryLimit)
	e.savedFingerprint = buffer.ContentFingerprint(buf)
	return e
}

// SetEventManager sets the event manager for dispatching events
func (e *Editor) SetEventManager(mgr *event.Manager) {
	e.eventManager = mgr
}

func (e *Editor) GetEventManager() *event.Manager { return e.eventManager }

// GetBuffer returns the editor's buffer.
func (e *Editor) GetBuffer() buffer.Buffer { return e.buffer }

// GetCursor returns the current cursor position.
func (e *Editor) GetCursor() types.Position { return e.Cursor }

// SetCursor moves the cursor to pos, clamped to the document.
func (e *Editor) SetCursor(pos types.Position) {
	e.Cursor = pos
	e.MoveCursor(0, 0)
}

func (e *Editor) Selection() *selection.Manager { return e.selection }

func (e *Editor) FilePath() string { return e.filePath }

func (e *Editor) SetFilePath(path string) { e.filePath = path }

func (e *Editor) TabWidth() int { return e.tabWidth }

// IsReadOnly reports whether edits are refused, as for the help view.
func (e *Editor) IsReadOnly() bool { return e.readOnly }

func (e *Editor) SetReadOnly(ro bool) { e.readOnly = ro }

// IsOverwrite reports whether typing replaces the rune under the cursor.
func (e *Editor) IsOverwrite() bool { return e.overwrite }

// ToggleOverwrite switches between overwrite and insert typing.
func (e *Editor) ToggleOverwrite() bool {
	e.overwrite = !e.overwrite
	logger.DebugTagf("core", "overwrite=%v", e.overwrite)
	return e.overwrite
}

// IsModified reports unsaved changes.
func (e *Editor) IsModified() bool { return e.modified }

// ContentChanged updates the modified flag after an edit. Undo and redo
// compare against the saved content so returning to it clears the flag.
func (e *Editor) ContentChanged(fromHistory bool) {
	if fromHistory {
		e.modified = buffer.ContentFingerprint(e.buffer) != e.savedFingerprint
	} else {
		e.modified = true
	}
	e.searchMatches = nil
}

// LoadContent replaces the document, resetting history, selection and
// search state.
func (e *Editor) LoadContent(path string, data []byte) {
	e.buffer.SetContent(data)
	e.filePath = path
	e.Cursor = types.Position{}
	e.ViewportX, e.ViewportY = 0, 0
	e.selection.Clear()
	e.engine.History().Clear()
	e.finder.Reset()
	e.searchMatches = nil
	e.savedFingerprint = buffer.ContentFingerprint(e.buffer)
	e.modified = false
	e.ClearSyntaxHighlights()
	e.eventManager.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: path})
}

// MarkSaved records the current content as the saved state.
func (e *Editor) MarkSaved() {
	e.savedFingerprint = buffer.ContentFingerprint(e.buffer)
	e.modified = false
	e.eventManager.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: e.filePath})
}

// CellCursor returns the cursor with Col converted to a display column,
// the coordinate system selections use.
func (e *Editor) CellCursor() types.Position {
	line, err := e.buffer.Line(e.Cursor.Line)
	if err != nil {
		return e.Cursor
	}
	return types.Position{Line: e.Cursor.Line, Col: buffer.DisplayCol(line, e.Cursor.Col)}
}

// SetViewSize updates the text area dimensions. Called on resize or before drawing.
func (e *Editor) SetViewSize(width, height int) {
	e.viewWidth = width
	e.viewHeight = max(height, 0)
	e.ScrollToCursor()
}

func (e *Editor) GetViewport() (int, int) {
	return e.ViewportY, e.ViewportX
}

// SearchMatches returns the matches highlighted by the last find.
func (e *Editor) SearchMatches() []find.Match { return e.searchMatches }

// ClearSearchMatches removes search highlighting.
func (e *Editor) ClearSearchMatches() { e.searchMatches = nil }

// GetSyntaxHighlightsForLine returns the computed syntax styles for a given line number.
func (e *Editor) GetSyntaxHighlightsForLine(lineNum int) []types.StyledRange {
	e.highlightMutex.RLock()
	defer e.highlightMutex.RUnlock()
	return e.syntaxHighlights[lineNum]
}

// UpdateSyntaxHighlights swaps in a new highlight result. It may be
// called from the highlighter goroutine.
func (e *Editor) UpdateSyntaxHighlights(res types.HighlightResult) {
	e.highlightMutex.Lock()
	defer e.highlightMutex.Unlock()
	e.syntaxHighlights = res
}

// ClearSyntaxHighlights drops cached highlights.
func (e *Editor) ClearSyntaxHighlights() {
	e.UpdateSyntaxHighlights(make(types.HighlightResult))
}
