package edit

import (
	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/find"
	"github.com/bethropolis/vedit/internal/core/history"
	"github.com/bethropolis/vedit/internal/errs"
)

// ReplaceAllOps builds replacements for every match of q, last match
// first so earlier positions stay valid while applying.
func ReplaceAllOps(buf buffer.Buffer, q find.Query, with string) ([]history.Operation, error) {
	if q.Pattern == "" {
		return nil, errs.Invalid("empty search pattern")
	}
	matches := find.Matches(buf, q)
	if len(matches) == 0 {
		return nil, errs.ErrNotFound
	}
	ops := make([]history.Operation, 0, len(matches))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		ops = append(ops, history.Replace(m.Start, m.End(), []byte(with)))
	}
	return ops, nil
}

// ReplaceAll replaces every match as a single undoable change and reports
// how many were replaced.
func (e *Engine) ReplaceAll(q find.Query, with string) (int, error) {
	ops, err := ReplaceAllOps(e.editor.GetBuffer(), q, with)
	if err != nil {
		return 0, err
	}
	err = e.Apply(Edit{
		Label:       "replace",
		Ops:         ops,
		Effect:      history.ClearSelection,
		CursorAfter: e.editor.GetCursor(),
	})
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}
