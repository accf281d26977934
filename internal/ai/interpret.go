package ai

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/types"
)

// NewTarget captures rows first..last of buf for a request.
func NewTarget(buf buffer.Buffer, first, last int) Target {
	text, _ := buf.Text(types.Position{Line: first}, types.Position{Line: last, Col: buf.RuneCount(last)})
	return Target{
		FirstLine:   first,
		LastLine:    last,
		Text:        string(text),
		Fingerprint: buffer.Fingerprint(buf, first, last),
	}
}

// Matches reports whether buf still holds the content t was taken from,
// with the same number of lines.
func (t Target) Matches(buf buffer.Buffer) bool {
	return buffer.Fingerprint(buf, t.FirstLine, t.LastLine) == t.Fingerprint
}

// Hunk is a run of changed lines. OldStart counts from the first line of
// the target.
type Hunk struct {
	OldStart int
	OldLines []string
	NewLines []string
}

// StripFences removes a Markdown code fence wrapped around the whole reply
// and the final newline.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	t := strings.TrimSpace(s)
	if len(t) >= 6 && strings.HasPrefix(t, "```") && strings.HasSuffix(t, "```") {
		body := strings.TrimSuffix(t, "```")
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			body = body[i+1:]
		} else {
			body = body[3:]
		}
		return strings.TrimSuffix(body, "\n")
	}
	return strings.TrimSuffix(s, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// DiffLines compares two texts line by line.
func DiffLines(oldText, newText string) []Hunk {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText+"\n", newText+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var hunks []Hunk
	var cur *Hunk
	row := 0
	for _, d := range diffs {
		ls := splitLines(d.Text)
		if d.Type == diffmatchpatch.DiffEqual {
			if cur != nil {
				hunks = append(hunks, *cur)
				cur = nil
			}
			row += len(ls)
			continue
		}
		if cur == nil {
			cur = &Hunk{OldStart: row}
		}
		if d.Type == diffmatchpatch.DiffDelete {
			cur.OldLines = append(cur.OldLines, ls...)
			row += len(ls)
		} else {
			cur.NewLines = append(cur.NewLines, ls...)
		}
	}
	if cur != nil {
		hunks = append(hunks, *cur)
	}
	return hunks
}

// ReplyHunks compares a reply with the target text. A reply that ends
// without blank lines keeps the ones the target ends with.
func ReplyHunks(target Target, response string) []Hunk {
	return DiffLines(target.Text, withTrailingBlanks(target.Text, StripFences(response)))
}

func withTrailingBlanks(target, reply string) string {
	if strings.HasSuffix(reply, "\n") {
		return reply
	}
	body := strings.TrimRight(target, "\n")
	return reply + target[len(body):]
}

// HunkOps turns hunks of target into operations on buf, one per hunk,
// ordered bottom-up so each operation's positions stay valid. Any subset of
// the hunks of one reply may be passed. buf must still match target.
func HunkOps(buf buffer.Buffer, target Target, hunks []Hunk) []history.Operation {
	ops := make([]history.Operation, 0, len(hunks))
	for i := len(hunks) - 1; i >= 0; i-- {
		ops = append(ops, hunkOp(buf, target.FirstLine+hunks[i].OldStart, hunks[i]))
	}
	return ops
}

func hunkOp(buf buffer.Buffer, row int, h Hunk) history.Operation {
	n := len(h.OldLines)
	count := buf.LineCount()
	text := []byte(strings.Join(h.NewLines, "\n"))
	eol := func(line int) types.Position {
		return types.Position{Line: line, Col: buf.RuneCount(line)}
	}

	switch {
	case n > 0 && len(h.NewLines) > 0:
		return history.Replace(types.Position{Line: row}, eol(row+n-1), text)

	case n > 0:
		// Deletion: take a line terminator along with the rows.
		if row+n < count {
			return history.Delete(types.Position{Line: row}, types.Position{Line: row + n})
		}
		if row > 0 {
			return history.Delete(eol(row-1), eol(row+n-1))
		}
		return history.Delete(types.Position{}, eol(n-1))

	default:
		// Insertion before row, or after the last line.
		if row < count {
			return history.Insert(types.Position{Line: row}, append(text, '\n'))
		}
		return history.Insert(eol(count-1), append([]byte{'\n'}, text...))
	}
}
