// Package history provides undo/redo functionality via a change history stack.
package history

import (
	"fmt"

	"github.com/bethropolis/vedit/internal/buffer"
	"github.com/bethropolis/vedit/internal/core/selection"
	"github.com/bethropolis/vedit/internal/types"
)

// OpKind names an edit primitive.
type OpKind int

const (
	OpInsert OpKind = iota
	OpDelete
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "replace"
	}
}

// Operation is one primitive edit. End is in pre-edit coordinates and
// unused for inserts. OldText is filled in by Apply.
type Operation struct {
	Kind    OpKind
	Start   types.Position
	End     types.Position
	OldText []byte
	NewText []byte
}

// Insert builds an insertion of text at pos.
func Insert(pos types.Position, text []byte) Operation {
	return Operation{Kind: OpInsert, Start: pos, End: pos, NewText: text}
}

// Delete builds a deletion of [start, end).
func Delete(start, end types.Position) Operation {
	start, end = types.Ordered(start, end)
	return Operation{Kind: OpDelete, Start: start, End: end}
}

// Replace builds a replacement of [start, end) by text.
func Replace(start, end types.Position, text []byte) Operation {
	start, end = types.Ordered(start, end)
	return Operation{Kind: OpReplace, Start: start, End: end, NewText: text}
}

// Inverse returns the operation that undoes op. op must have been
// returned by Apply so its positions and OldText are exact.
func (op Operation) Inverse() Operation {
	switch op.Kind {
	case OpInsert:
		return Operation{Kind: OpDelete, Start: op.Start, End: types.Advance(op.Start, op.NewText), OldText: op.NewText}
	case OpDelete:
		return Operation{Kind: OpInsert, Start: op.Start, End: op.Start, NewText: op.OldText}
	default:
		return Operation{Kind: OpReplace, Start: op.Start, End: types.Advance(op.Start, op.NewText), OldText: op.NewText, NewText: op.OldText}
	}
}

// Apply performs op on buf and returns it normalized to what the buffer
// actually did, ready for Inverse.
func (op Operation) Apply(buf buffer.Buffer) (Operation, types.EditInfo, error) {
	var info types.EditInfo
	var err error
	switch op.Kind {
	case OpInsert:
		info, err = buf.Insert(op.Start, op.NewText)
	case OpDelete:
		info, err = buf.Delete(op.Start, op.End)
	case OpReplace:
		info, err = buf.Replace(op.Start, op.End, op.NewText)
	default:
		return op, info, fmt.Errorf("unknown operation kind %d", op.Kind)
	}
	if err != nil {
		return op, info, fmt.Errorf("%s at %v: %w", op.Kind, op.Start, err)
	}
	applied := Operation{Kind: op.Kind, Start: info.Start, End: info.OldEnd, OldText: info.Removed, NewText: op.NewText}
	return applied, info, nil
}

// SelectionEffect states what an edit does to the selection.
type SelectionEffect int

const (
	KeepSelection SelectionEffect = iota
	ClearSelection
	SetSelection
)

// Change is one undoable user action made of one or more operations.
type Change struct {
	Label           string
	Ops             []Operation
	Effect          SelectionEffect
	CursorBefore    types.Position
	CursorAfter     types.Position
	SelectionBefore selection.State
	SelectionAfter  selection.State
}
