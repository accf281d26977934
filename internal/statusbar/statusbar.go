// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation

	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/types"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	mu             sync.RWMutex // Protect access to text fields
	messageTimeout time.Duration
	now            func() time.Time

	filePath   string
	isModified bool
	lineCount  int
	cursorPos  types.Position
	editorMode string // INS or OVR
	selection  string
	model      string
	readOnly   bool

	aiActive int
	aiSince  time.Time
	spinner  int

	tempMessage     string
	tempIsError     bool
	tempMessageTime time.Time
}

// New creates a status bar whose temporary messages last timeout.
func New(timeout time.Duration) *StatusBar {
	return &StatusBar{messageTimeout: timeout, now: time.Now}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool, lineCount int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
	sb.lineCount = lineCount
}

// SetCursorInfo updates the cursor position shown.
func (sb *StatusBar) SetCursorInfo(pos types.Position) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.cursorPos = pos
}

// SetEditorMode updates the displayed typing mode.
func (sb *StatusBar) SetEditorMode(mode string, readOnly bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
	sb.readOnly = readOnly
}

// SetSelection shows the selection mode, or nothing when empty.
func (sb *StatusBar) SetSelection(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selection = mode
}

// SetModel names the default AI model.
func (sb *StatusBar) SetModel(name string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.model = name
}

// SetAIActivity records how many requests are running and since when the
// oldest one was issued.
func (sb *StatusBar) SetAIActivity(active int, since time.Time) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if active == 0 {
		sb.spinner = 0
	}
	sb.aiActive = active
	sb.aiSince = since
}

// Tick advances the spinner. It reports whether a redraw is useful.
func (sb *StatusBar) Tick() bool {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.aiActive == 0 {
		return false
	}
	sb.spinner = (sb.spinner + 1) % len(spinnerFrames)
	return true
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempIsError = false
	sb.tempMessageTime = sb.now()
}

// SetError displays msg in the error style.
func (sb *StatusBar) SetError(msg string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = msg
	sb.tempIsError = true
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempIsError = false
	sb.tempMessageTime = time.Time{}
}

// Message returns the active temporary message, if any.
func (sb *StatusBar) Message() (msg string, isError bool, ok bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.messageActive() {
		return "", false, false
	}
	return sb.tempMessage, sb.tempIsError, true
}

// messageActive expires an old message. Callers hold the write lock.
func (sb *StatusBar) messageActive() bool {
	if sb.tempMessageTime.IsZero() {
		return false
	}
	if sb.now().Sub(sb.tempMessageTime) > sb.messageTimeout {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
		return false
	}
	return true
}

// segment is a run of status text drawn in one style.
type segment struct {
	text  string
	style string
}

// segments builds the default status line. Callers hold the lock.
func (sb *StatusBar) segments() []segment {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	segs := []segment{{" " + fPath, theme.StyleStatusBar}}
	if sb.isModified {
		segs = append(segs, segment{" [Modified]", theme.StyleStatusModified})
	}
	if sb.readOnly {
		segs = append(segs, segment{" [RO]", theme.StyleStatusModified})
	}

	var info []string
	info = append(info, fmt.Sprintf("L:%d C:%d", sb.cursorPos.Line+1, sb.cursorPos.Col+1))
	if sb.lineCount > 0 {
		info = append(info, fmt.Sprintf("S:%d lines", sb.lineCount))
	}
	if sb.editorMode != "" {
		info = append(info, sb.editorMode)
	}
	if sb.selection != "" {
		info = append(info, sb.selection)
	}
	if sb.model != "" {
		info = append(info, "Model: "+sb.model)
	}
	segs = append(segs, segment{" | " + strings.Join(info, " | ") + " ", theme.StyleStatusBar})

	if sb.aiActive > 0 {
		elapsed := int(sb.now().Sub(sb.aiSince).Seconds())
		text := fmt.Sprintf(" [%c AI Running... %ds] ", spinnerFrames[sb.spinner], elapsed)
		if sb.aiActive > 1 {
			text = fmt.Sprintf(" [%c AI Running (%d)... %ds] ", spinnerFrames[sb.spinner], sb.aiActive, elapsed)
		}
		segs = append(segs, segment{text, theme.StyleStatusAI})
	}
	return segs
}

// Text returns the status line as plain text.
func (sb *StatusBar) Text() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.messageActive() {
		return sb.tempMessage
	}
	var b strings.Builder
	for _, s := range sb.segments() {
		b.WriteString(s.text)
	}
	return b.String()
}

// Draw renders the status bar on row y using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, y, width int, th *theme.Theme) {
	if width <= 0 {
		return
	}

	sb.mu.Lock()
	var segs []segment
	if sb.messageActive() {
		style := theme.StyleStatusMessage
		if sb.tempIsError {
			style = theme.StyleStatusError
		}
		segs = []segment{{sb.tempMessage, style}}
	} else {
		segs = sb.segments()
	}
	sb.mu.Unlock()

	base := th.GetStyle(segs[0].style)
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, base)
	}
	x := 0
	for _, s := range segs {
		x = DrawText(screen, x, y, width, s.text, th.GetStyle(s.style))
	}
}

// DrawText draws text from column x, stopping at width, and returns the
// column after the last drawn cluster.
func DrawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if clusterWidth < 1 {
			clusterWidth = 1
		}
		if x+clusterWidth > width {
			break // Stop if cluster doesn't fit
		}
		runes := gr.Runes()
		if runes[0] == '\n' || runes[0] == '\t' {
			runes = []rune{' '}
		}
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += clusterWidth
	}
	return x
}
