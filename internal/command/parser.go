package command

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bethropolis/vedit/internal/ai"
	"github.com/bethropolis/vedit/internal/core/edit"
	"github.com/bethropolis/vedit/internal/errs"
)

type token struct {
	text   string
	quoted bool
}

// tokenize splits a command line on whitespace. Text between matching
// single or double quotes is one token, kept verbatim.
func tokenize(line string) ([]token, error) {
	var toks []token
	rs := []rune(line)
	for i := 0; i < len(rs); {
		if unicode.IsSpace(rs[i]) {
			i++
			continue
		}
		if q := rs[i]; q == '"' || q == '\'' {
			j := i + 1
			for j < len(rs) && rs[j] != q {
				j++
			}
			if j == len(rs) {
				return nil, errs.Invalid("unterminated %c quote", q)
			}
			toks = append(toks, token{text: string(rs[i+1 : j]), quoted: true})
			i = j + 1
			continue
		}
		j := i
		for j < len(rs) && !unicode.IsSpace(rs[j]) {
			j++
		}
		toks = append(toks, token{text: string(rs[i:j])})
		i = j
	}
	return toks, nil
}

// insFlag consumes an optional trailing "ins" (case-insensitive) flag.
func insFlag(name string, rest []token) (bool, error) {
	switch {
	case len(rest) == 0:
		return false, nil
	case len(rest) == 1 && !rest[0].quoted && rest[0].text == "ins":
		return true, nil
	}
	return false, errs.Invalid("%s: unexpected %q", name, rest[0].text)
}

func promptSource(name string, args []token) (ai.Prompt, error) {
	if len(args) != 1 {
		return ai.Prompt{}, errs.Invalid("%s requires quoted text or a prompt name", name)
	}
	if args[0].quoted {
		if strings.TrimSpace(args[0].text) == "" {
			return ai.Prompt{}, errs.Invalid("%s: empty prompt", name)
		}
		return ai.Prompt{Text: args[0].text}, nil
	}
	if !ai.ValidPromptName(args[0].text) {
		return ai.Prompt{}, errs.Invalid("%s: bad prompt name %q", name, args[0].text)
	}
	return ai.Prompt{Name: args[0].text}, nil
}

func noArgs(c Command, args []token) (Command, error) {
	if len(args) > 0 {
		return nil, errs.Invalid("%s takes no arguments", c.Name())
	}
	return c, nil
}

// Parse turns a command line into a Command.
func Parse(line string) (Command, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, errs.Invalid("empty command")
	}
	if toks[0].quoted {
		return nil, errs.Invalid("unknown command %q", toks[0].text)
	}
	name, args := toks[0].text, toks[1:]

	switch name {
	case "q", "quit":
		return noArgs(Quit{}, args)
	case "q!", "quit!":
		return noArgs(Quit{Force: true}, args)
	case "s", "save":
		switch len(args) {
		case 0:
			return Save{}, nil
		case 1:
			return Save{Path: args[0].text}, nil
		}
		return nil, errs.Invalid("save takes at most one file name")
	case "lnum":
		return noArgs(ToggleLineNumbers{}, args)
	case "goto":
		if len(args) != 1 {
			return nil, errs.Invalid("goto requires a line number")
		}
		n, err := strconv.Atoi(args[0].text)
		if err != nil {
			return nil, errs.Invalid("invalid line number %q", args[0].text)
		}
		return Goto{Line: n}, nil
	case "find":
		if len(args) == 0 || !args[0].quoted || args[0].text == "" {
			return nil, errs.Invalid("usage: find \"text\" [ins]")
		}
		ci, err := insFlag(name, args[1:])
		if err != nil {
			return nil, err
		}
		return Find{Pattern: args[0].text, CaseInsensitive: ci}, nil
	case "next":
		return noArgs(FindNext{}, args)
	case "replace":
		if len(args) < 2 || !args[0].quoted || !args[1].quoted || args[0].text == "" {
			return nil, errs.Invalid("usage: replace \"find\" \"with\" [ins]")
		}
		ci, err := insFlag(name, args[2:])
		if err != nil {
			return nil, err
		}
		return Replace{Find: args[0].text, With: args[1].text, CaseInsensitive: ci}, nil
	case "prompt":
		src, err := promptSource(name, args)
		if err != nil {
			return nil, err
		}
		return Prompt{Source: src}, nil
	case "ask":
		src, err := promptSource(name, args)
		if err != nil {
			return nil, err
		}
		return Ask{Source: src}, nil
	case "cancel":
		switch len(args) {
		case 0:
			return Cancel{}, nil
		case 1:
			return Cancel{ID: args[0].text}, nil
		}
		return nil, errs.Invalid("cancel takes at most one request id")
	case "undo":
		return noArgs(Undo{}, args)
	case "redo":
		return noArgs(Redo{}, args)
	case "help":
		return noArgs(Help{}, args)
	case "select":
		if len(args) == 1 {
			switch args[0].text {
			case "line":
				return SelectLine{}, nil
			case "block":
				return SelectBlock{}, nil
			case "clear", "none":
				return ClearSelection{}, nil
			}
		}
		return nil, errs.Invalid("usage: select line|block|clear")
	case "fill":
		if len(args) != 1 || utf8.RuneCountInString(args[0].text) != 1 {
			return nil, errs.Invalid("fill requires a single character")
		}
		r, _ := utf8.DecodeRuneInString(args[0].text)
		return Fill{Char: r}, nil
	case "move":
		if len(args) == 1 {
			switch args[0].text {
			case "left":
				return MoveBlock{Dir: edit.Left}, nil
			case "right":
				return MoveBlock{Dir: edit.Right}, nil
			}
		}
		return nil, errs.Invalid("usage: move left|right")
	case "yank", "y":
		return noArgs(Yank{}, args)
	case "theme":
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = a.text
		}
		return Theme{Theme: strings.Join(names, " ")}, nil
	}
	return nil, errs.Invalid("unknown command: %s", name)
}
