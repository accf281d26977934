package command

import "strings"

// History is the bounded command recall list. Prev walks to older entries
// and stops at the oldest; Next walks back and stops at the line that was
// being typed when recall started.
type History struct {
	entries []string // oldest first
	limit   int
	pos     int // len(entries) while editing the draft
	draft   string
}

// NewHistory creates a recall list holding at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 100
	}
	return &History{limit: limit}
}

// Add records a submitted command and resets recall. Blank commands and
// repeats of the most recent entry are not stored.
func (h *History) Add(cmd string) {
	defer h.Reset()
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Prev returns the next older entry. current is remembered as the draft
// when recall starts. ok is false when there is nothing older.
func (h *History) Prev(current string) (line string, ok bool) {
	if len(h.entries) == 0 {
		return current, false
	}
	if h.pos >= len(h.entries) {
		h.pos = len(h.entries)
		h.draft = current
	}
	if h.pos == 0 {
		return h.entries[0], false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next returns the next newer entry, or the draft after the newest.
func (h *History) Next() (line string, ok bool) {
	if h.pos >= len(h.entries) {
		return h.draft, false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// Reset leaves recall and forgets the draft.
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// Entries returns the stored commands, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[len(out)-1-i] = e
	}
	return out
}
