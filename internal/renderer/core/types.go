// Package core provides shared presentation types for the renderer
// subsystem. This package breaks import cycles between renderer and
// backend.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrStrikethrough           // Strikethrough text
	AttrHidden                  // Hidden/invisible text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// FontFamily selects the typeface class for a styled run.
type FontFamily uint8

const (
	// FamilyDefault is the host's body text face.
	FamilyDefault FontFamily = iota
	// FamilyMono is the monospace face used for code.
	FamilyMono
)

// String returns the family name.
func (f FontFamily) String() string {
	switch f {
	case FamilyMono:
		return "mono"
	default:
		return "default"
	}
}

// ScaleNormal is the body-text size scale, in percent.
const ScaleNormal uint16 = 100

// ScaleMinimal is the smallest renderable scale, used by hidden-syntax
// styling to void marker glyphs without removing characters.
const ScaleMinimal uint16 = 1

// Color represents a color value. Supports true color (RGB) and
// terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the host's default color.
	Default bool
}

// ColorDefault represents the host's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex creates a color from a hex string like "#ff8040" or
// "#fff".
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	expand := hex
	if len(hex) == 3 {
		expand = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(expand) != 6 {
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	v, err := strconv.ParseUint(expand, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}

	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the "#rrggbb" form of an RGB color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are identical.
func (c Color) Equals(other Color) bool {
	return c == other
}

// Style represents the visual treatment of a text run: colors,
// attribute flags, typeface family and size scale. The zero value is
// not the default style; use DefaultStyle.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
	Family     FontFamily
	Scale      uint16 // percent of body size; 0 means ScaleNormal
}

// DefaultStyle returns the unstyled body-text style.
func DefaultStyle() Style {
	return Style{
		Foreground: ColorDefault,
		Background: ColorDefault,
		Scale:      ScaleNormal,
	}
}

// NewStyle creates a style with the given foreground color.
func NewStyle(fg Color) Style {
	return Style{
		Foreground: fg,
		Background: ColorDefault,
		Scale:      ScaleNormal,
	}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithFamily returns a new style with the given font family.
func (s Style) WithFamily(f FontFamily) Style {
	s.Family = f
	return s
}

// WithScale returns a new style with the given size scale in percent.
func (s Style) WithScale(scale uint16) Style {
	s.Scale = scale
	return s
}

// Bold returns a new style with bold attribute added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns a new style with dim attribute added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Italic returns a new style with italic attribute added.
func (s Style) Italic() Style {
	s.Attributes |= AttrItalic
	return s
}

// Underline returns a new style with underline attribute added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Strikethrough returns a new style with strikethrough attribute added.
func (s Style) Strikethrough() Style {
	s.Attributes |= AttrStrikethrough
	return s
}

// Hidden returns a new style with the hidden attribute added.
func (s Style) Hidden() Style {
	s.Attributes |= AttrHidden
	return s
}

// EffectiveScale returns the scale, treating zero as ScaleNormal.
func (s Style) EffectiveScale() uint16 {
	if s.Scale == 0 {
		return ScaleNormal
	}
	return s.Scale
}

// Merge combines two styles. The other style takes precedence for
// non-default values; attributes are OR'd together.
func (s Style) Merge(other Style) Style {
	result := s

	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	if other.Family != FamilyDefault {
		result.Family = other.Family
	}
	if other.EffectiveScale() != ScaleNormal {
		result.Scale = other.EffectiveScale()
	}
	result.Attributes |= other.Attributes

	return result
}

// Equals returns true if two styles are identical.
func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes &&
		s.Family == other.Family &&
		s.EffectiveScale() == other.EffectiveScale()
}

// IsDefault returns true if this is the default style.
func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() &&
		s.Background.IsDefault() &&
		s.Attributes == AttrNone &&
		s.Family == FamilyDefault &&
		s.EffectiveScale() == ScaleNormal
}
