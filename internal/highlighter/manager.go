// internal/highlighter/manager.go
package highlighter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
	"github.com/bethropolis/vedit/internal/utils"
)

// DebounceDuration is how long the manager waits for typing to pause.
const DebounceDuration = 65 * time.Millisecond

// Target receives finished highlights. UpdateSyntaxHighlights must be safe
// to call from any goroutine.
type Target interface {
	UpdateSyntaxHighlights(types.HighlightResult)
	ClearSyntaxHighlights()
}

// Manager runs debounced background highlighting for one document.
type Manager struct {
	target      Target
	highlighter *Highlighter
	detector    *Detector
	redraw      func()
	debouncer   utils.Debouncer

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewManager creates a manager. redraw is called, from a worker
// goroutine, after new highlights were stored.
func NewManager(target Target, h *Highlighter, d *Detector, redraw func()) *Manager {
	if redraw == nil {
		redraw = func() {}
	}
	return &Manager{target: target, highlighter: h, detector: d, redraw: redraw}
}

// Schedule highlights a snapshot of the document after the debounce delay.
// src must not be modified afterwards. Only the newest snapshot's result is
// stored.
func (m *Manager) Schedule(path string, src []byte) {
	lang := m.detector.ForFile(path)
	if lang == nil {
		m.debouncer.Stop()
		m.target.ClearSyntaxHighlights()
		return
	}

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.debouncer.Debounce(DebounceDuration, func() { m.run(gen, lang, src) })
}

// Now highlights immediately, without debouncing. Used for freshly loaded
// documents.
func (m *Manager) Now(path string, src []byte) {
	lang := m.detector.ForFile(path)
	if lang == nil {
		m.target.ClearSyntaxHighlights()
		return
	}
	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()
	go m.run(gen, lang, src)
}

func (m *Manager) run(gen uint64, lang *Language, src []byte) {
	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		cancel()
		return
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = cancel
	m.mu.Unlock()
	defer cancel()

	result, err := m.highlighter.Highlight(ctx, src, lang)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		logger.DebugTagf("highlight", "dropping outdated highlights (gen %d, now %d)", gen, m.gen)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warnf("Background highlighting failed: %v", err)
			m.target.ClearSyntaxHighlights()
			m.redraw()
		}
		return
	}
	m.target.UpdateSyntaxHighlights(result)
	m.redraw()
}

// Shutdown stops pending work. Results of a running task are discarded.
func (m *Manager) Shutdown() {
	m.debouncer.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
