package types

// EditInfo describes a mutation the buffer actually performed, after
// clamping. OldEnd is in pre-edit coordinates, NewEnd in post-edit ones.
type EditInfo struct {
	Start   Position
	OldEnd  Position
	NewEnd  Position
	Removed []byte
}

// StyledRange is a styled span produced by the syntax highlighter.
// Columns are rune indices, EndCol exclusive.
type StyledRange struct {
	StartCol  int
	EndCol    int
	StyleName string
}

// HighlightResult maps line numbers to their styled ranges.
type HighlightResult map[int][]StyledRange
