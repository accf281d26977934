// Package ai runs AI requests in the background and reports their results
// to the goroutine that owns the document.
package ai

import (
	"context"
	"time"

	"github.com/bethropolis/vedit/internal/config"
)

// Kind says what the response will be used for.
type Kind int

const (
	// KindEdit responses replace the target rows.
	KindEdit Kind = iota
	// KindAsk responses are only shown to the user.
	KindAsk
)

func (k Kind) String() string {
	if k == KindAsk {
		return "ask"
	}
	return "edit"
}

// State is the lifecycle of a request.
type State int

const (
	StateQueued State = iota
	StateInFlight
	StateCompleted
	StateFailed
	StateTimedOut
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateInFlight:
		return "in flight"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed out"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool { return s >= StateCompleted }

// Prompt is either literal text or the name of a prompt file.
type Prompt struct {
	Text string
	Name string
}

// Named reports whether the prompt refers to a prompt file.
func (p Prompt) Named() bool { return p.Name != "" }

func (p Prompt) String() string {
	if p.Named() {
		return "@" + p.Name
	}
	return p.Text
}

// Target is the document region a request was issued against.
type Target struct {
	FirstLine   int
	LastLine    int
	Text        string
	Fingerprint uint64
}

// Spec is what the dispatcher hands to Submit.
type Spec struct {
	Kind    Kind
	Prompt  Prompt
	ModelID string // empty selects the default model
	Target  Target
}

// Request is a submitted spec with its resolved model and state.
type Request struct {
	ID      string
	Kind    Kind
	Prompt  Prompt
	Model   config.ModelConfig
	Timeout time.Duration
	State   State
	Target  Target
	Issued  time.Time

	cancel context.CancelFunc
}

// Result travels from a worker to the owner loop.
type Result struct {
	ID       string
	Kind     Kind
	Model    string
	Target   Target
	Response string
	Err      error
	Elapsed  time.Duration
}
