package theme

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/notedown/internal/renderer/core"
)

// mutedBlend is how far syntax markers fade toward the background.
const mutedBlend = 0.55

// Theme maps semantic roles to concrete styles. Foreground and
// Background anchor the palette; roles without an explicit entry fall
// back to a style derived from the anchors.
type Theme struct {
	Name       string
	Foreground core.Color
	Background core.Color
	Styles     map[Role]core.Style
}

// StyleFor returns the style for a role. Unknown roles get the body
// style; a missing muted entry is derived by blending the foreground
// toward the background in Lab space.
func (t *Theme) StyleFor(role Role) core.Style {
	if st, ok := t.Styles[role]; ok {
		return st
	}
	if role == RoleMutedSyntax {
		return t.derivedMuted()
	}
	return core.NewStyle(t.Foreground)
}

// SetStyle installs or replaces the style for a role.
func (t *Theme) SetStyle(role Role, st core.Style) {
	if t.Styles == nil {
		t.Styles = make(map[Role]core.Style)
	}
	t.Styles[role] = st
}

func (t *Theme) derivedMuted() core.Style {
	fg := toColorful(t.Foreground)
	bg := toColorful(t.Background)
	blended := fg.BlendLab(bg, mutedBlend).Clamped()
	r, g, b := blended.RGB255()
	return core.NewStyle(core.ColorFromRGB(r, g, b))
}

func toColorful(c core.Color) colorful.Color {
	if c.Default || c.Indexed {
		// No RGB identity to blend; treat as mid gray.
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Clone returns an independent copy, so hooks can adjust a built-in
// theme without mutating the registry's original.
func (t *Theme) Clone() *Theme {
	c := &Theme{
		Name:       t.Name,
		Foreground: t.Foreground,
		Background: t.Background,
		Styles:     make(map[Role]core.Style, len(t.Styles)),
	}
	for role, st := range t.Styles {
		c.Styles[role] = st
	}
	return c
}
