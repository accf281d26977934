// internal/event/events.go
package event

import (
	"github.com/bethropolis/vedit/internal/types"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	TypeBufferModified // content changed through an edit, undo or redo
	TypeBufferLoaded   // a file replaced the buffer content
	TypeBufferSaved    // the buffer was written out
	TypeCursorMoved
	TypeSelectionChanged

	TypeAIRequestChanged // an AI request moved to a new state

	TypeThemeChanged
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeBufferSaved:
		return "BufferSaved"
	case TypeCursorMoved:
		return "CursorMoved"
	case TypeSelectionChanged:
		return "SelectionChanged"
	case TypeAIRequestChanged:
		return "AIRequestChanged"
	case TypeThemeChanged:
		return "ThemeChanged"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// BufferModifiedData carries the edits in the order they were applied.
type BufferModifiedData struct {
	Edits []types.EditInfo
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// CursorMovedData contains the new cursor position.
type CursorMovedData struct {
	NewPosition types.Position
}

// AIRequestChangedData reports a request transition.
type AIRequestChangedData struct {
	ID     string
	State  string
	Active int // requests still queued or in flight
}

// ThemeChangedData names the newly active theme.
type ThemeChangedData struct {
	Name string
}
