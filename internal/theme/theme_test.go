package theme

import (
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want tcell.Color
	}{
		{"#ff0000", tcell.NewRGBColor(255, 0, 0)},
		{" #0F0 ", tcell.NewRGBColor(0, 255, 0)},
		{"reset", tcell.ColorReset},
		{"Default", tcell.ColorDefault},
		{"red", tcell.ColorRed},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"#12", "#gggggg", "not-a-color", ""} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestGetStyleFallback(t *testing.T) {
	def := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	kw := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	th := &Theme{Name: "t", Styles: map[string]tcell.Style{StyleDefault: def, "keyword": kw}}

	assert.Equal(t, kw, th.GetStyle("keyword"))
	assert.Equal(t, kw, th.GetStyle("keyword.control.return"))
	assert.Equal(t, def, th.GetStyle("string"))
}

func TestBuiltinThemesDefineUIStyles(t *testing.T) {
	for _, th := range Builtin() {
		for _, name := range []string{StyleDefault, StyleSelection, StyleStatusBar, StyleStatusError, StyleLineNumber, StyleCommandPrompt} {
			_, ok := th.Styles[name]
			assert.True(t, ok, "%s lacks %s", th.Name, name)
		}
	}
}

const tomlTheme = `
name = "Ocean"
is_dark = true

[styles.Default]
fg = "#c0c0c0"
bg = "#000010"

[styles.keyword]
fg = "#5080ff"
bold = true

[styles.broken]
fg = "nope"
`

const yamlTheme = `
styles:
  Default:
    fg: "#101010"
  comment:
    italic: true
`

func TestManagerLoadsDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/cfg/vedit/themes"
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "ocean.toml"), []byte(tomlTheme), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "paper.yaml"), []byte(yamlTheme), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "bad.toml"), []byte("name = ["), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	m := NewManager(fs, dir, "ocean")
	assert.Equal(t, "Ocean", m.CurrentName())
	assert.Equal(t, []string{"Ocean", "devcomfort-dark", "devcomfort-light", "paper"}, m.ThemeNames())

	ocean := m.Current()
	assert.True(t, ocean.IsDark)
	_, broken := ocean.Styles["broken"]
	assert.False(t, broken, "styles with bad colors are skipped")

	fg, bg, attrs := ocean.GetStyle("keyword").Decompose()
	assert.Equal(t, tcell.NewRGBColor(0x50, 0x80, 0xff), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0x10), bg, "styles inherit the Default background")
	assert.NotZero(t, attrs&tcell.AttrBold)

	require.NoError(t, m.SetTheme("PAPER"))
	_, _, attrs = m.Current().GetStyle("comment").Decompose()
	assert.NotZero(t, attrs&tcell.AttrItalic)
}

func TestManagerDefaults(t *testing.T) {
	m := NewManager(afero.NewMemMapFs(), "/missing", "no-such-theme")
	assert.Equal(t, "devcomfort-dark", m.CurrentName())

	require.NoError(t, m.SetTheme("DevComfort Light"))
	assert.Equal(t, "devcomfort-light", m.CurrentName())
	assert.Error(t, m.SetTheme("neon"))
	assert.Equal(t, "devcomfort-light", m.CurrentName())
}
