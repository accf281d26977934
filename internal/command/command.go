// Package command parses command lines and runs them against the document,
// the AI coordinator and the display state.
package command

import (
	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/core/edit"
)

// Command is one parsed command. The set of implementations is closed.
type Command interface {
	Name() string
	command()
}

type (
	// Quit leaves the editor, or the help view. Force discards changes.
	Quit struct{ Force bool }
	// Save writes the document, optionally to a new Path.
	Save struct{ Path string }
	// ToggleLineNumbers shows or hides the line-number margin.
	ToggleLineNumbers struct{}
	// Goto moves to a 1-based line.
	Goto struct{ Line int }
	// Find searches forward from the cursor.
	Find struct {
		Pattern         string
		CaseInsensitive bool
	}
	// FindNext repeats the last search.
	FindNext struct{}
	// Replace replaces every occurrence of Find.
	Replace struct {
		Find            string
		With            string
		CaseInsensitive bool
	}
	// Prompt asks a model to rewrite the selected rows or the document.
	Prompt struct{ Source ai.Prompt }
	// Ask asks a model about the selected rows or the document.
	Ask struct{ Source ai.Prompt }
	// Cancel cancels the AI request whose id starts with ID, or all.
	Cancel struct{ ID string }
	Undo   struct{}
	Redo   struct{}
	// Help shows the read-only help view.
	Help              struct{}
	SelectLine        struct{}
	SelectBlock       struct{}
	ClearSelection    struct{}
	Fill              struct{ Char rune }
	MoveBlock         struct{ Dir edit.Direction }
	Yank              struct{}
	Theme             struct{ Theme string }
	// AIResult delivers a finished request from the coordinator.
	AIResult struct{ Result ai.Result }
	// ReviewHunk acts on the AI edit under review.
	ReviewHunk struct{ Action ReviewAction }
)

func (Quit) Name() string              { return "quit" }
func (Save) Name() string              { return "save" }
func (ToggleLineNumbers) Name() string { return "lnum" }
func (Goto) Name() string              { return "goto" }
func (Find) Name() string              { return "find" }
func (FindNext) Name() string          { return "next" }
func (Replace) Name() string           { return "replace" }
func (Prompt) Name() string            { return "prompt" }
func (Ask) Name() string               { return "ask" }
func (Cancel) Name() string            { return "cancel" }
func (Undo) Name() string              { return "undo" }
func (Redo) Name() string              { return "redo" }
func (Help) Name() string              { return "help" }
func (SelectLine) Name() string        { return "select line" }
func (SelectBlock) Name() string       { return "select block" }
func (ClearSelection) Name() string    { return "select clear" }
func (Fill) Name() string              { return "fill" }
func (MoveBlock) Name() string         { return "move" }
func (Yank) Name() string              { return "yank" }
func (Theme) Name() string             { return "theme" }
func (AIResult) Name() string          { return "ai result" }
func (ReviewHunk) Name() string        { return "review" }

func (Quit) command()              {}
func (Save) command()              {}
func (ToggleLineNumbers) command() {}
func (Goto) command()              {}
func (Find) command()              {}
func (FindNext) command()          {}
func (Replace) command()           {}
func (Prompt) command()            {}
func (Ask) command()               {}
func (Cancel) command()            {}
func (Undo) command()              {}
func (Redo) command()              {}
func (Help) command()              {}
func (SelectLine) command()        {}
func (SelectBlock) command()       {}
func (ClearSelection) command()    {}
func (Fill) command()              {}
func (MoveBlock) command()         {}
func (Yank) command()              {}
func (Theme) command()             {}
func (AIResult) command()          {}
func (ReviewHunk) command()        {}

// Result is what a successful command reports back to the UI.
type Result struct {
	Message  string
	Quit     bool
	ShowHelp bool
	// FocusText hands focus back to the text after a jump.
	FocusText bool
}
