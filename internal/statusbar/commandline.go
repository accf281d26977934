package statusbar

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/vedit/internal/theme"
)

// DrawCommandLine draws the command line row: prompt followed by input,
// scrolled so the end of the input stays visible. It returns the column
// just after the input, where the cursor belongs.
func DrawCommandLine(screen tcell.Screen, y, width int, prompt, input string, th *theme.Theme) int {
	style := th.GetStyle(theme.StyleCommandLine)
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	x := DrawText(screen, 0, y, width, prompt, th.GetStyle(theme.StyleCommandPrompt))

	room := width - x - 1
	for room > 0 && uniseg.StringWidth(input) > room {
		_, rest, _, _ := uniseg.FirstGraphemeClusterInString(input, -1)
		input = rest
	}
	return DrawText(screen, x, y, width, input, style)
}
