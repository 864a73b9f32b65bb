package theme

import (
	"github.com/dshills/notedown/internal/renderer/core"
)

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:       "Default Dark",
		Background: core.ColorFromRGB(30, 30, 30),
		Foreground: core.ColorFromRGB(212, 212, 212),
		Styles:     defaultDarkStyles(),
	}
}

// LightTheme returns a light theme.
func LightTheme() *Theme {
	return &Theme{
		Name:       "Light",
		Background: core.ColorFromRGB(255, 255, 255),
		Foreground: core.ColorFromRGB(36, 36, 36),
		Styles:     lightStyles(),
	}
}

// DraculaTheme returns a Dracula-inspired theme.
func DraculaTheme() *Theme {
	return &Theme{
		Name:       "Dracula",
		Background: core.ColorFromRGB(40, 42, 54),
		Foreground: core.ColorFromRGB(248, 248, 242),
		Styles:     draculaStyles(),
	}
}

func headingStyles(accent core.Color) map[Role]core.Style {
	return map[Role]core.Style{
		RoleHeading1: core.NewStyle(accent).Bold().WithScale(170),
		RoleHeading2: core.NewStyle(accent).Bold().WithScale(150),
		RoleHeading3: core.NewStyle(accent).Bold().WithScale(135),
		RoleHeading4: core.NewStyle(accent).Bold().WithScale(120),
		RoleHeading5: core.NewStyle(accent).Bold().WithScale(110),
		RoleHeading6: core.NewStyle(accent).Bold().WithScale(105),
	}
}

func defaultDarkStyles() map[Role]core.Style {
	accent := core.ColorFromRGB(86, 156, 214)  // Blue
	codeFg := core.ColorFromRGB(206, 145, 120) // Orange
	codeBg := core.ColorFromRGB(42, 42, 42)
	link := core.ColorFromRGB(78, 201, 176) // Teal
	quote := core.ColorFromRGB(106, 153, 85)
	muted := core.ColorFromRGB(110, 110, 110)

	styles := headingStyles(accent)
	styles[RoleStrong] = core.DefaultStyle().Bold()
	styles[RoleEmphasis] = core.DefaultStyle().Italic()
	styles[RoleCode] = core.NewStyle(codeFg).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleCodeBlock] = core.NewStyle(codeFg).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleLink] = core.NewStyle(link).Underline()
	styles[RoleQuote] = core.NewStyle(quote).Italic()
	styles[RoleListMarker] = core.NewStyle(accent).Bold()
	styles[RoleMutedSyntax] = core.NewStyle(muted)
	return styles
}

func lightStyles() map[Role]core.Style {
	accent := core.ColorFromRGB(0, 90, 158) // Blue
	codeFg := core.ColorFromRGB(163, 21, 21)
	codeBg := core.ColorFromRGB(243, 243, 243)
	link := core.ColorFromRGB(0, 102, 204)
	quote := core.ColorFromRGB(0, 128, 0)
	muted := core.ColorFromRGB(160, 160, 160)

	styles := headingStyles(accent)
	styles[RoleStrong] = core.DefaultStyle().Bold()
	styles[RoleEmphasis] = core.DefaultStyle().Italic()
	styles[RoleCode] = core.NewStyle(codeFg).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleCodeBlock] = core.NewStyle(codeFg).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleLink] = core.NewStyle(link).Underline()
	styles[RoleQuote] = core.NewStyle(quote).Italic()
	styles[RoleListMarker] = core.NewStyle(accent).Bold()
	styles[RoleMutedSyntax] = core.NewStyle(muted)
	return styles
}

func draculaStyles() map[Role]core.Style {
	purple := core.ColorFromRGB(189, 147, 249)
	yellow := core.ColorFromRGB(241, 250, 140)
	codeBg := core.ColorFromRGB(52, 55, 70)
	cyan := core.ColorFromRGB(139, 233, 253)
	comment := core.ColorFromRGB(98, 114, 164)

	styles := headingStyles(purple)
	styles[RoleStrong] = core.DefaultStyle().Bold()
	styles[RoleEmphasis] = core.DefaultStyle().Italic()
	styles[RoleCode] = core.NewStyle(yellow).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleCodeBlock] = core.NewStyle(yellow).WithBackground(codeBg).WithFamily(core.FamilyMono)
	styles[RoleLink] = core.NewStyle(cyan).Underline()
	styles[RoleQuote] = core.NewStyle(comment).Italic()
	styles[RoleListMarker] = core.NewStyle(purple).Bold()
	styles[RoleMutedSyntax] = core.NewStyle(comment)
	return styles
}
