// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/vedit/internal/logger"
)

// Style names used by the renderer. Syntax captures use their tree-sitter
// capture names ("keyword", "string.escape", ...).
const (
	StyleDefault           = "Default"
	StyleSelection         = "Selection"
	StyleBlockPending      = "BlockPending"
	StyleSearchHighlight   = "SearchHighlight"
	StyleLineNumber        = "LineNumber"
	StyleLineNumberCurrent = "LineNumberCurrent"
	StyleStatusBar         = "StatusBar"
	StyleStatusModified    = "StatusBarModified"
	StyleStatusMessage     = "StatusBarMessage"
	StyleStatusError       = "StatusBarError"
	StyleStatusAI          = "StatusBarAI"
	StyleCommandLine       = "CommandLine"
	StyleCommandPrompt     = "CommandPrompt"
	StyleDiffAdded         = "DiffAdded"
	StyleDiffRemoved       = "DiffRemoved"
)

type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves name, falling back to the part before the first dot
// and then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if dot := strings.Index(name, "."); dot != -1 {
		if style, ok := t.Styles[name[:dot]]; ok {
			return style
		}
	}
	if def, ok := t.Styles[StyleDefault]; ok {
		return def
	}
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

type palette struct {
	bar, fg, comment, orange, yellow, green, cyan, blue, magenta, red tcell.Color
	base                                                             tcell.Style
}

func (p palette) styles() map[string]tcell.Style {
	base := p.base
	bar := tcell.StyleDefault.Background(p.bar).Foreground(p.fg)
	return map[string]tcell.Style{
		StyleDefault:           base,
		StyleSelection:         base.Reverse(true),
		StyleBlockPending:      base.Underline(true),
		StyleSearchHighlight:   tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
		StyleLineNumber:        base.Foreground(p.comment),
		StyleLineNumberCurrent: base.Foreground(p.yellow),
		StyleStatusBar:         bar,
		StyleStatusModified:    bar.Foreground(p.yellow),
		StyleStatusMessage:     bar.Bold(true),
		StyleStatusError:       bar.Foreground(p.red).Bold(true),
		StyleStatusAI:          bar.Foreground(p.magenta),
		StyleCommandLine:       base,
		StyleCommandPrompt:     base.Foreground(p.green).Bold(true),
		StyleDiffAdded:         base.Foreground(p.green),
		StyleDiffRemoved:       base.Foreground(p.red),

		"keyword":     base.Foreground(p.blue).Bold(true),
		"string":      base.Foreground(p.green),
		"comment":     base.Foreground(p.comment).Italic(true),
		"number":      base.Foreground(p.orange),
		"type":        base.Foreground(p.cyan),
		"function":    base.Foreground(p.yellow),
		"constant":    base.Foreground(p.orange),
		"variable":    base.Foreground(p.fg),
		"operator":    base.Foreground(p.fg),
		"namespace":   base.Foreground(p.cyan),
		"label":       base.Foreground(p.fg),
		"punctuation": base.Foreground(p.comment),
		"attribute":   base.Foreground(p.magenta),
		"boolean":     base.Foreground(p.orange),
		"module":      base.Foreground(p.green),
		"constructor": base.Foreground(p.yellow).Bold(true),
		"property":    base.Foreground(p.fg),
		"tag":         base.Foreground(p.blue),
		"escape":      base.Foreground(p.magenta),

		"string.escape":      base.Foreground(p.magenta),
		"string.special":     base.Foreground(p.magenta),
		"type.builtin":       base.Foreground(p.cyan).Bold(true),
		"function.builtin":   base.Foreground(p.cyan).Italic(true),
		"variable.builtin":   base.Foreground(p.cyan),
		"variable.parameter": base.Foreground(p.fg).Italic(true),
		"keyword.directive":  base.Foreground(p.magenta).Bold(true),
		"text.title":         base.Foreground(p.blue).Bold(true),
		"text.literal":       base.Foreground(p.green),
		"text.uri":           base.Foreground(p.cyan).Underline(true),
	}
}

var devComfortDark = Theme{
	Name:   "devcomfort-dark",
	IsDark: true,
	Styles: palette{
		bar:     tcell.NewHexColor(0x2a2f38),
		fg:      tcell.NewHexColor(0xc5cdd9),
		comment: tcell.NewHexColor(0x5c6370),
		orange:  tcell.NewHexColor(0xd19a66),
		yellow:  tcell.NewHexColor(0xe5c07b),
		green:   tcell.NewHexColor(0x98c379),
		cyan:    tcell.NewHexColor(0x56b6c2),
		blue:    tcell.NewHexColor(0x61afef),
		magenta: tcell.NewHexColor(0xc678dd),
		red:     tcell.NewHexColor(0xe06c75),
		base:    tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.NewHexColor(0xc5cdd9)),
	}.styles(),
}

var devComfortLight = Theme{
	Name: "devcomfort-light",
	Styles: palette{
		bar:     tcell.NewHexColor(0xe5e9f0),
		fg:      tcell.NewHexColor(0x383a42),
		comment: tcell.NewHexColor(0xa0a1a7),
		orange:  tcell.NewHexColor(0x986801),
		yellow:  tcell.NewHexColor(0xc18401),
		green:   tcell.NewHexColor(0x50a14f),
		cyan:    tcell.NewHexColor(0x0184bc),
		blue:    tcell.NewHexColor(0x4078f2),
		magenta: tcell.NewHexColor(0xa626a4),
		red:     tcell.NewHexColor(0xe45649),
		base:    tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.NewHexColor(0x383a42)),
	}.styles(),
}

// Builtin returns the themes compiled into the binary.
func Builtin() []*Theme {
	return []*Theme{&devComfortDark, &devComfortLight}
}
