package app

import (
	"github.com/bethropolis/vedit/internal/event"
	"github.com/bethropolis/vedit/internal/logger"
)

// subscribe wires the app's reactions to the event bus.
func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeBufferModified, a.handleBufferModifiedForHighlighting)
	a.eventManager.Subscribe(event.TypeBufferLoaded, a.handleBufferLoaded)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
	a.eventManager.Subscribe(event.TypeAIRequestChanged, a.handleAIRequestChanged)
}

// handleBufferModifiedForHighlighting schedules a debounced re-highlight
// of a snapshot of the document.
func (a *App) handleBufferModifiedForHighlighting(e event.Event) bool {
	if data, ok := e.Data.(event.BufferModifiedData); ok {
		logger.DebugTagf("highlight", "buffer modified (%d edit(s)), scheduling highlight", len(data.Edits))
	}
	a.highlightingManager.Schedule(a.editor.FilePath(), a.editor.GetBuffer().Bytes())
	return false // Allow other handlers for BufferModified to run
}

// handleBufferLoaded highlights a freshly loaded document right away.
func (a *App) handleBufferLoaded(e event.Event) bool {
	a.highlightingManager.Now(a.editor.FilePath(), a.editor.GetBuffer().Bytes())
	return false
}

// handleBufferSaved re-checks the language, as saving under a new name
// may change it.
func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		logger.DebugTagf("app", "saved %s", data.FilePath)
		a.highlightingManager.Now(data.FilePath, a.editor.GetBuffer().Bytes())
	}
	return false
}

// handleAIRequestChanged runs on whichever goroutine moved the request,
// so it only logs and asks for a redraw.
func (a *App) handleAIRequestChanged(e event.Event) bool {
	if data, ok := e.Data.(event.AIRequestChangedData); ok {
		logger.DebugTagf("ai", "request %s is %s (%d active)", data.ID, data.State, data.Active)
	}
	a.requestRedraw()
	return false
}
