// internal/theme/loader.go
package theme

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/vedit/internal/logger"
)

// StyleDef is one style in a theme file. Unset fields inherit from the
// theme's Default style.
type StyleDef struct {
	Fg        *string `toml:"fg" yaml:"fg"`
	Bg        *string `toml:"bg" yaml:"bg"`
	Bold      *bool   `toml:"bold" yaml:"bold"`
	Italic    *bool   `toml:"italic" yaml:"italic"`
	Underline *bool   `toml:"underline" yaml:"underline"`
	Reverse   *bool   `toml:"reverse" yaml:"reverse"`
}

// File is the on-disk layout of a theme.
type File struct {
	Name   string              `toml:"name" yaml:"name"`
	IsDark bool                `toml:"is_dark" yaml:"is_dark"`
	Styles map[string]StyleDef `toml:"styles" yaml:"styles"`
}

// IsThemeFile reports whether path has an extension LoadFile understands.
func IsThemeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile parses a TOML or YAML theme file.
func LoadFile(fs afero.Fs, path string) (*Theme, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", path, err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML theme file '%s': %w", path, err)
		}
	default:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", path, err)
		}
		if len(md.Undecoded()) > 0 {
			logger.Warnf("Theme '%s': Unrecognized keys in file '%s': %v", f.Name, path, md.Undecoded())
		}
	}

	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", path, f.Name)
	}
	t, err := f.Theme()
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", path, err)
	}
	logger.Debugf("Successfully loaded theme '%s' from '%s'", t.Name, path)
	return t, nil
}

// Theme converts f. A bad Default style is an error; other bad styles are
// skipped with a warning.
func (f File) Theme() (*Theme, error) {
	t := &Theme{Name: f.Name, IsDark: f.IsDark, Styles: make(map[string]tcell.Style)}

	base := tcell.StyleDefault
	if def, ok := f.Styles[StyleDefault]; ok {
		var err error
		if base, err = def.Apply(tcell.StyleDefault); err != nil {
			return nil, fmt.Errorf("style 'Default': %w", err)
		}
	}
	t.Styles[StyleDefault] = base

	for name, def := range f.Styles {
		if name == StyleDefault {
			continue
		}
		style, err := def.Apply(base)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse style '%s', skipping: %v", t.Name, name, err)
			continue
		}
		t.Styles[name] = style
	}
	return t, nil
}

// Apply layers d over base.
func (d StyleDef) Apply(base tcell.Style) (tcell.Style, error) {
	style := base
	if d.Fg != nil {
		c, err := ParseColor(*d.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *d.Fg, err)
		}
		style = style.Foreground(c)
	}
	if d.Bg != nil {
		c, err := ParseColor(*d.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *d.Bg, err)
		}
		style = style.Background(c)
	}
	if d.Bold != nil {
		style = style.Bold(*d.Bold)
	}
	if d.Italic != nil {
		style = style.Italic(*d.Italic)
	}
	if d.Underline != nil {
		style = style.Underline(*d.Underline)
	}
	if d.Reverse != nil {
		style = style.Reverse(*d.Reverse)
	}
	return style, nil
}

// ParseColor accepts #rgb and #rrggbb hex codes, terminal color names such
// as "red" or "darkcyan", and the keywords "reset" and "default".
func ParseColor(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s', must be #RGB or #RRGGBB", s)
		}
		r, g, b := c.RGB255()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
