// Package errs defines the error kinds shared by the editor core.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange        = errors.New("position out of range")
	ErrNoSelection       = errors.New("no selection")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCommand    = errors.New("invalid command")
	ErrAIRequestFailed   = errors.New("AI request failed")
	ErrAIRequestTimedOut = errors.New("AI request timed out")
	ErrAIStaleResponse   = errors.New("AI response is stale")
	ErrUnsavedChanges    = errors.New("unsaved changes")
)

// Kind classifies an error for uniform handling by the dispatcher and UI.
type Kind int

const (
	KindUnknown Kind = iota
	KindOutOfRange
	KindNoSelection
	KindNothingToUndo
	KindNothingToRedo
	KindNotFound
	KindInvalidCommand
	KindAIRequestFailed
	KindAIRequestTimedOut
	KindAIStaleResponse
	KindUnsavedChanges
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrOutOfRange, KindOutOfRange},
	{ErrNoSelection, KindNoSelection},
	{ErrNothingToUndo, KindNothingToUndo},
	{ErrNothingToRedo, KindNothingToRedo},
	{ErrNotFound, KindNotFound},
	{ErrInvalidCommand, KindInvalidCommand},
	{ErrAIRequestFailed, KindAIRequestFailed},
	{ErrAIRequestTimedOut, KindAIRequestTimedOut},
	{ErrAIStaleResponse, KindAIStaleResponse},
	{ErrUnsavedChanges, KindUnsavedChanges},
}

// KindOf reports the kind of err, or KindUnknown for nil and foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindOutOfRange:
		return "OutOfRange"
	case KindNoSelection:
		return "NoSelection"
	case KindNothingToUndo:
		return "NothingToUndo"
	case KindNothingToRedo:
		return "NothingToRedo"
	case KindNotFound:
		return "NotFound"
	case KindInvalidCommand:
		return "InvalidCommand"
	case KindAIRequestFailed:
		return "AIRequestFailed"
	case KindAIRequestTimedOut:
		return "AIRequestTimedOut"
	case KindAIStaleResponse:
		return "AIStaleResponse"
	case KindUnsavedChanges:
		return "UnsavedChanges"
	default:
		return "Unknown"
	}
}

// AIFailure wraps ErrAIRequestFailed with the provider's reason.
func AIFailure(reason string) error {
	return fmt.Errorf("%w: %s", ErrAIRequestFailed, reason)
}

// Invalid wraps ErrInvalidCommand with detail for the status line.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

// Message renders err for the status bar.
func Message(err error) string {
	switch KindOf(err) {
	case KindUnsavedChanges:
		return "Changes have been made. Use quit! to discard them"
	case KindNotFound:
		return "Not found"
	case KindAIStaleResponse:
		return "AI response discarded: document changed"
	}
	return "Error: " + err.Error()
}
