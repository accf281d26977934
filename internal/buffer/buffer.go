// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/vedit/internal/types"

// Buffer is the line store behind a document. Lines are UTF-8 without
// their terminators; columns are rune indices.
//
// Mutations fail with errs.ErrOutOfRange when a line index is outside
// [0, LineCount); columns past the end of a line are clamped.
type Buffer interface {
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	RuneCount(index int) int

	Insert(pos types.Position, text []byte) (types.EditInfo, error)
	Delete(start, end types.Position) (types.EditInfo, error)
	Replace(start, end types.Position, text []byte) (types.EditInfo, error)

	Text(start, end types.Position) ([]byte, error)
	Bytes() []byte
	SetContent(data []byte)
}
