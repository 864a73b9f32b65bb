package theme

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/notedown/internal/renderer/core"
)

// fileTheme is the TOML shape of a user theme file.
type fileTheme struct {
	Name       string               `toml:"name"`
	Foreground string               `toml:"foreground"`
	Background string               `toml:"background"`
	Styles     map[string]fileStyle `toml:"styles"`
}

type fileStyle struct {
	Foreground    string `toml:"foreground"`
	Background    string `toml:"background"`
	Bold          bool   `toml:"bold"`
	Italic        bool   `toml:"italic"`
	Underline     bool   `toml:"underline"`
	Strikethrough bool   `toml:"strikethrough"`
	Mono          bool   `toml:"mono"`
	Scale         uint16 `toml:"scale"`
}

// Load reads a theme from a TOML file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing theme file %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes TOML theme data. Unknown role keys are an error so a
// typo in a theme file does not silently drop a style.
func Parse(data []byte) (*Theme, error) {
	var ft fileTheme
	if err := toml.Unmarshal(data, &ft); err != nil {
		return nil, err
	}

	if ft.Name == "" {
		return nil, fmt.Errorf("theme has no name")
	}

	fg, err := parseColor(ft.Foreground, core.ColorFromRGB(212, 212, 212))
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := parseColor(ft.Background, core.ColorFromRGB(30, 30, 30))
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	t := &Theme{
		Name:       ft.Name,
		Foreground: fg,
		Background: bg,
		Styles:     make(map[Role]core.Style, len(ft.Styles)),
	}

	for key, fs := range ft.Styles {
		role, ok := RoleFromString(key)
		if !ok {
			return nil, fmt.Errorf("unknown style role %q", key)
		}
		st, err := fs.toStyle()
		if err != nil {
			return nil, fmt.Errorf("style %q: %w", key, err)
		}
		t.Styles[role] = st
	}

	return t, nil
}

func (fs fileStyle) toStyle() (core.Style, error) {
	st := core.DefaultStyle()

	if fs.Foreground != "" {
		c, err := core.ColorFromHex(fs.Foreground)
		if err != nil {
			return st, err
		}
		st = st.WithForeground(c)
	}
	if fs.Background != "" {
		c, err := core.ColorFromHex(fs.Background)
		if err != nil {
			return st, err
		}
		st = st.WithBackground(c)
	}
	if fs.Bold {
		st = st.Bold()
	}
	if fs.Italic {
		st = st.Italic()
	}
	if fs.Underline {
		st = st.Underline()
	}
	if fs.Strikethrough {
		st = st.Strikethrough()
	}
	if fs.Mono {
		st = st.WithFamily(core.FamilyMono)
	}
	if fs.Scale != 0 {
		st = st.WithScale(fs.Scale)
	}
	return st, nil
}

func parseColor(hex string, fallback core.Color) (core.Color, error) {
	if hex == "" {
		return fallback, nil
	}
	return core.ColorFromHex(hex)
}
