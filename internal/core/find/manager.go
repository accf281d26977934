// Package find implements literal, wrap-around search over a buffer.
package find

import (
	"unicode"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/errs"
	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
)

// Match is one occurrence. Len is measured in runes.
type Match struct {
	Start types.Position
	Len   int
}

// End returns the position just past the match.
func (m Match) End() types.Position {
	return types.Position{Line: m.Start.Line, Col: m.Start.Col + m.Len}
}

// Query is a pattern plus its case mode.
type Query struct {
	Pattern         string
	CaseInsensitive bool
}

// Manager remembers the last query and match so a search can be repeated.
type Manager struct {
	last      *Query
	lastMatch types.Position
}

// NewManager creates a find manager.
func NewManager() *Manager {
	return &Manager{}
}

// Find searches forward from start (inclusive), wrapping once around the
// document. The query becomes the one RepeatLast reuses.
func (m *Manager) Find(buf buffer.Buffer, q Query, start types.Position) (types.Position, error) {
	if q.Pattern == "" {
		return types.Position{}, errs.Invalid("empty search pattern")
	}
	m.last = &q
	pos, ok := Search(buf, q, start)
	if !ok {
		logger.DebugTagf("find", "%q not found", q.Pattern)
		return types.Position{}, errs.ErrNotFound
	}
	m.lastMatch = pos
	logger.DebugTagf("find", "%q found at %v", q.Pattern, pos)
	return pos, nil
}

// RepeatLast repeats the previous query starting one column past the
// previous match.
func (m *Manager) RepeatLast(buf buffer.Buffer) (types.Position, error) {
	if m.last == nil {
		return types.Position{}, errs.Invalid("no previous search")
	}
	start := m.lastMatch
	start.Col++
	return m.Find(buf, *m.last, start)
}

// Last returns the previous query, if any.
func (m *Manager) Last() (Query, bool) {
	if m.last == nil {
		return Query{}, false
	}
	return *m.last, true
}

// Reset forgets the previous query.
func (m *Manager) Reset() {
	m.last = nil
	m.lastMatch = types.Position{}
}

func fold(rs []rune, ci bool) []rune {
	if !ci {
		return rs
	}
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// indexFrom returns the first rune index >= from where pat occurs in line,
// limited to starts below until.
func indexFrom(line, pat []rune, from, until int) int {
	for i := from; i < until && i+len(pat) <= len(line); i++ {
		j := 0
		for j < len(pat) && line[i+j] == pat[j] {
			j++
		}
		if j == len(pat) {
			return i
		}
	}
	return -1
}

// Search is the stateless form of Find: it scans from start to the end of
// the document, then from the top back to start.
func Search(buf buffer.Buffer, q Query, start types.Position) (types.Position, bool) {
	n := buf.LineCount()
	if q.Pattern == "" || n == 0 {
		return types.Position{}, false
	}
	if start.Line < 0 {
		start = types.Position{}
	}
	if start.Line >= n {
		start = types.Position{Line: n - 1, Col: buf.RuneCount(n - 1)}
	}
	if start.Col < 0 {
		start.Col = 0
	}
	pat := fold([]rune(q.Pattern), q.CaseInsensitive)

	lineRunes := func(i int) []rune {
		b, _ := buf.Line(i)
		return fold([]rune(string(b)), q.CaseInsensitive)
	}

	// Forward pass, then the wrapped pass; the start line is visited twice,
	// covering columns on each side of start.Col.
	for k := 0; k <= n; k++ {
		li := (start.Line + k) % n
		line := lineRunes(li)
		from, until := 0, len(line)
		switch k {
		case 0:
			from = start.Col
		case n:
			until = start.Col
		}
		if col := indexFrom(line, pat, from, until); col >= 0 {
			return types.Position{Line: li, Col: col}, true
		}
	}
	return types.Position{}, false
}

// Matches returns every non-overlapping occurrence in document order.
func Matches(buf buffer.Buffer, q Query) []Match {
	if q.Pattern == "" {
		return nil
	}
	pat := fold([]rune(q.Pattern), q.CaseInsensitive)
	var out []Match
	for li := 0; li < buf.LineCount(); li++ {
		b, _ := buf.Line(li)
		line := fold([]rune(string(b)), q.CaseInsensitive)
		for col := 0; ; {
			col = indexFrom(line, pat, col, len(line))
			if col < 0 {
				break
			}
			out = append(out, Match{Start: types.Position{Line: li, Col: col}, Len: len(pat)})
			col += len(pat)
		}
	}
	return out
}
