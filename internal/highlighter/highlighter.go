// Package highlighter computes syntax highlights with tree-sitter.
package highlighter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/vedit/internal/logger"
	"github.com/bethropolis/vedit/internal/types"
	"github.com/bethropolis/vedit/internal/utils"
)

// Highlighter parses source text and runs highlight queries. A parser is
// not safe for concurrent use, so calls are serialized.
type Highlighter struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

func NewHighlighter() *Highlighter {
	return &Highlighter{parser: sitter.NewParser()}
}

// Highlight parses src as lang and returns styled ranges per line. A
// capture spanning lines is split into one range per line. Ranges are in
// query order, so later, more specific captures are drawn over earlier ones.
func (h *Highlighter) Highlight(ctx context.Context, src []byte, lang *Language) (types.HighlightResult, error) {
	if lang == nil {
		return nil, errors.New("no language provided for highlighting")
	}
	query, err := lang.Query()
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.parser.SetLanguage(lang.Grammar)
	tree, err := h.parser.ParseCtx(ctx, nil, src)
	h.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	lines := bytes.Split(src, []byte("\n"))
	result := make(types.HighlightResult)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, src)
		for _, c := range match.Captures {
			style := CaptureStyle(query.CaptureNameForId(c.Index))
			addCapture(result, lines, c.Node.StartPoint(), c.Node.EndPoint(), style)
		}
	}
	logger.DebugTagf("highlight", "%s: highlights on %d lines", lang.Name, len(result))
	return result, nil
}

func addCapture(result types.HighlightResult, lines [][]byte, start, end sitter.Point, style string) {
	first, last := int(start.Row), int(end.Row)
	for row := first; row <= last && row < len(lines); row++ {
		line := lines[row]
		startCol := 0
		if row == first {
			startCol = utils.ByteOffsetToRuneIndex(line, int(start.Column))
		}
		endCol := utils.ByteOffsetToRuneIndex(line, len(line))
		if row == last {
			endCol = utils.ByteOffsetToRuneIndex(line, int(end.Column))
		}
		if endCol <= startCol {
			continue
		}
		result[row] = append(result[row], types.StyledRange{StartCol: startCol, EndCol: endCol, StyleName: style})
	}
}

// CaptureStyle maps a capture name to a theme style name.
func CaptureStyle(capture string) string {
	return strings.TrimPrefix(capture, "@")
}

// Close releases the parser.
func (h *Highlighter) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parser.Close()
}
