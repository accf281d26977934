package highlighter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/vedit/internal/types"
)

func hasStyle(ranges []types.StyledRange, start, end int, style string) bool {
	for _, r := range ranges {
		if r.StartCol == start && r.EndCol == end && r.StyleName == style {
			return true
		}
	}
	return false
}

func TestDetector(t *testing.T) {
	d := NewDetector(map[string]string{".txt": "Go", "js": "none"})
	require.NotNil(t, d.ForFile("main.go"))
	assert.Equal(t, "go", d.ForFile("MAIN.GO").Name)
	assert.Equal(t, "rust", d.ForFile("lib.rs").Name)
	assert.Equal(t, "go", d.ForFile("notes.txt").Name)
	assert.Nil(t, d.ForFile("app.js"), "mapping to an unknown language disables highlighting")
	assert.Nil(t, d.ForFile("Makefile"))
	assert.Nil(t, d.ForFile("readme.md"))
}

func TestHighlightGo(t *testing.T) {
	src := []byte("package main\n\n// héllo\nfunc add(a int) int {\n\treturn a + 1\n}")
	h := NewHighlighter()
	defer h.Close()

	res, err := h.Highlight(context.Background(), src, languages["go"])
	require.NoError(t, err)

	assert.True(t, hasStyle(res[0], 0, 7, "keyword"), "package: %v", res[0])
	assert.True(t, hasStyle(res[2], 0, 8, "comment"), "rune columns: %v", res[2])
	assert.True(t, hasStyle(res[3], 0, 4, "keyword"), "func: %v", res[3])
	assert.True(t, hasStyle(res[3], 5, 8, "function"), "add: %v", res[3])
	assert.True(t, hasStyle(res[4], 1, 7, "keyword"), "return: %v", res[4])
	assert.True(t, hasStyle(res[4], 12, 13, "number"), "1: %v", res[4])
}

func TestHighlightSplitsMultilineCaptures(t *testing.T) {
	src := []byte("package p\n\nvar s = `one\ntwo\nthree`")
	h := NewHighlighter()
	defer h.Close()

	res, err := h.Highlight(context.Background(), src, languages["go"])
	require.NoError(t, err)
	assert.True(t, hasStyle(res[2], 8, 12, "string"), "%v", res[2])
	assert.True(t, hasStyle(res[3], 0, 3, "string"), "%v", res[3])
	assert.True(t, hasStyle(res[4], 0, 6, "string"), "%v", res[4])
}

func TestEmbeddedQueriesCompile(t *testing.T) {
	for name, lang := range languages {
		_, err := lang.Query()
		assert.NoError(t, err, name)
	}
}

type fakeTarget struct {
	mu      sync.Mutex
	updates []types.HighlightResult
	cleared int
}

func (f *fakeTarget) UpdateSyntaxHighlights(res types.HighlightResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, res)
}

func (f *fakeTarget) ClearSyntaxHighlights() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
}

func (f *fakeTarget) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func TestManagerDebounces(t *testing.T) {
	target := &fakeTarget{}
	redraws := make(chan struct{}, 10)
	m := NewManager(target, NewHighlighter(), NewDetector(nil), func() { redraws <- struct{}{} })
	defer m.Shutdown()

	m.Schedule("a.go", []byte("package a"))
	m.Schedule("a.go", []byte("package b"))
	m.Schedule("a.go", []byte("package c\n\nfunc f() {}"))

	select {
	case <-redraws:
	case <-time.After(3 * time.Second):
		t.Fatal("no redraw")
	}
	time.Sleep(2 * DebounceDuration)
	require.Equal(t, 1, target.count(), "rapid edits produce one highlight run")
	assert.Contains(t, target.updates[0], 2)
}

func TestManagerClearsUnknownFiles(t *testing.T) {
	target := &fakeTarget{}
	m := NewManager(target, NewHighlighter(), NewDetector(nil), nil)
	m.Schedule("notes.txt", []byte("plain"))
	assert.Equal(t, 1, target.cleared)
	assert.Zero(t, target.count())
}
