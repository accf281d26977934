package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/config"
	"github.com/bethropolis/vedit/internal/core"
	"github.com/bethropolis/vedit/internal/theme"
	"github.com/bethropolis/vedit/internal/types"
)

// reviewContext is how many unchanged rows are shown around a hunk.
const reviewContext = 3

// ReviewAction is a key decision taken while reviewing an AI edit.
type ReviewAction int

const (
	ReviewAccept    ReviewAction = iota // accept the current hunk and move on
	ReviewReject                        // reject the current hunk and move on
	ReviewAcceptAll                     // accept every hunk
	ReviewRejectAll                     // reject every hunk
	ReviewNext
	ReviewPrev
	ReviewApply   // apply the accepted hunks and finish
	ReviewDiscard // drop the whole edit
)

var reviewActionNames = map[ReviewAction]string{
	ReviewAccept:    "accept",
	ReviewReject:    "reject",
	ReviewAcceptAll: "accept all",
	ReviewRejectAll: "reject all",
	ReviewNext:      "next",
	ReviewPrev:      "prev",
	ReviewApply:     "apply",
	ReviewDiscard:   "discard",
}

func (a ReviewAction) String() string {
	if s, ok := reviewActionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("ReviewAction(%d)", int(a))
}

// Review holds an AI edit whose hunks are accepted or rejected one by one
// before any of them reaches the document.
type Review struct {
	RequestID string
	Target    ai.Target
	Hunks     []ai.Hunk
	Accepted  []bool
	Current   int
	Elapsed   time.Duration

	preview *core.Editor
}

func newReview(id string, target ai.Target, hunks []ai.Hunk, elapsed time.Duration) *Review {
	return &Review{
		RequestID: id,
		Target:    target,
		Hunks:     hunks,
		Accepted:  make([]bool, len(hunks)),
		Elapsed:   elapsed,
	}
}

// Next moves to the following hunk. It reports false on the last one.
func (r *Review) Next() bool {
	if r.Current+1 >= len(r.Hunks) {
		return false
	}
	r.Current++
	r.preview = nil
	return true
}

// Prev moves to the previous hunk. It reports false on the first one.
func (r *Review) Prev() bool {
	if r.Current == 0 {
		return false
	}
	r.Current--
	r.preview = nil
	return true
}

// Mark accepts or rejects the current hunk.
func (r *Review) Mark(accept bool) {
	r.Accepted[r.Current] = accept
	r.preview = nil
}

// MarkAll accepts or rejects every hunk.
func (r *Review) MarkAll(accept bool) {
	for i := range r.Accepted {
		r.Accepted[i] = accept
	}
	r.preview = nil
}

// AllAccepted reports whether every hunk has been accepted.
func (r *Review) AllAccepted() bool {
	for _, ok := range r.Accepted {
		if !ok {
			return false
		}
	}
	return true
}

// AcceptedHunks returns the accepted hunks in document order.
func (r *Review) AcceptedHunks() []ai.Hunk {
	var out []ai.Hunk
	for i, h := range r.Hunks {
		if r.Accepted[i] {
			out = append(out, h)
		}
	}
	return out
}

// Stats counts added and removed rows over all hunks.
func (r *Review) Stats() (added, removed int) {
	for _, h := range r.Hunks {
		added += len(h.NewLines)
		removed += len(h.OldLines)
	}
	return added, removed
}

// Status is the key help shown on the command line during a review.
func (r *Review) Status() string {
	added, removed := r.Stats()
	if r.AllAccepted() {
		return fmt.Sprintf("All %d hunks accepted (+%d -%d)   [q] apply  [Esc] discard", len(r.Hunks), added, removed)
	}
	state := "rejected"
	if r.Accepted[r.Current] {
		state = "accepted"
	}
	return fmt.Sprintf("Hunk %d/%d %s (+%d -%d)   [a]ccept [r]eject [n]ext [p]rev [A]ccept all [R]eject all [q] apply [Esc] discard",
		r.Current+1, len(r.Hunks), state, added, removed)
}

// view returns a read-only editor showing the current hunk of doc with
// some unchanged rows around it. Removed rows start with "-", added rows
// with "+".
func (r *Review) view(doc buffer.Buffer, cfg config.Config) *core.Editor {
	if r.preview != nil {
		return r.preview
	}
	h := r.Hunks[r.Current]
	start := r.Target.FirstLine + h.OldStart
	end := start + len(h.OldLines)

	var rows []string
	hl := make(types.HighlightResult)
	add := func(prefix, text, style string) {
		if style != "" {
			hl[len(rows)] = []types.StyledRange{{StartCol: 0, EndCol: len([]rune(text)) + len(prefix), StyleName: style}}
		}
		rows = append(rows, prefix+text)
	}
	docLine := func(i int) string {
		b, _ := doc.Line(i)
		return string(b)
	}

	for i := max(0, start-reviewContext); i < start; i++ {
		add("  ", docLine(i), "")
	}
	focus := len(rows)
	for _, l := range h.OldLines {
		add("- ", l, theme.StyleDiffRemoved)
	}
	for _, l := range h.NewLines {
		add("+ ", l, theme.StyleDiffAdded)
	}
	for i := end; i < min(doc.LineCount(), end+reviewContext); i++ {
		add("  ", docLine(i), "")
	}

	v := core.NewEditor(buffer.NewSliceBufferFromString(strings.Join(rows, "\n")), core.OptionsFrom(cfg))
	v.SetReadOnly(true)
	v.UpdateSyntaxHighlights(hl)
	v.SetCursor(types.Position{Line: focus})
	r.preview = v
	return v
}
