// Package clipboard copies yanked text to the system clipboard, keeping an
// internal copy for when no system clipboard is available.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/vedit/internal/logger"
)

// Clipboard holds the last yanked text.
type Clipboard struct {
	mu        sync.Mutex
	useSystem bool
	internal  string
}

// New creates a clipboard. useSystem is ignored on platforms without a
// supported clipboard tool.
func New(useSystem bool) *Clipboard {
	if useSystem && clipboard.Unsupported {
		logger.Warnf("Clipboard: no system clipboard available, using internal clipboard")
		useSystem = false
	}
	return &Clipboard{useSystem: useSystem}
}

// Copy stores text. A failing system clipboard is logged, not returned;
// the internal copy always succeeds.
func (c *Clipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.internal = text
	if !c.useSystem {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("Clipboard: system write failed, keeping internal copy: %v", err)
	}
	return nil
}

// Paste returns the system clipboard content, or the internal copy.
func (c *Clipboard) Paste() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.useSystem {
		if s, err := clipboard.ReadAll(); err == nil {
			return s, nil
		}
	}
	return c.internal, nil
}
