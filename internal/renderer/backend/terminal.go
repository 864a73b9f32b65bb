// Package backend paints styled note text to a terminal with tcell.
// It renders the text buffer and attribute layer as produced by the
// formatting engine; hidden-syntax runs are painted foreground on
// matching background so markers occupy their cells invisibly.
package backend

import (
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/notedown/internal/engine/buffer"
	"github.com/dshills/notedown/internal/renderer"
	"github.com/dshills/notedown/internal/renderer/core"
)

// Terminal is a tcell-backed paint surface.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	bg     core.Color
}

// NewTerminal creates a terminal surface. Init must be called before
// drawing.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen, bg: core.ColorDefault}, nil
}

// NewTerminalWithScreen wraps an existing screen, used by tests with
// tcell's simulation screen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen, bg: core.ColorDefault}
}

// Init prepares the screen for drawing.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the screen dimensions in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetBackground sets the background color used for clearing and for
// voiding hidden runs.
func (t *Terminal) SetBackground(bg core.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bg = bg
}

// Clear erases the screen with the background color.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := tcell.StyleDefault
	if !t.bg.IsDefault() {
		st = st.Background(toTcellColor(t.bg))
	}
	t.screen.Fill(' ', st)
}

// Show flushes pending drawing to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// ShowCursor places the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// PollEvent blocks for the next input event.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Wake posts an interrupt event so a blocked PollEvent loop can
// redraw or shut down.
func (t *Terminal) Wake() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// DrawText paints note text starting at the given cell, wrapping on
// newlines. Styles come from the attribute layer; offsets advance in
// UTF-16 code units per grapheme cluster, matching the layer's
// indexing. Returns the number of rows used.
func (t *Terminal) DrawText(x, y int, text string, attrs *renderer.AttrBuffer) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()

	col, row := x, y
	var off buffer.Offset

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		clusterLen := utf16Units(runes)

		if len(runes) == 1 && runes[0] == '\n' {
			col = x
			row++
			off += clusterLen
			continue
		}
		if row >= height {
			break
		}

		st := attrs.StyleAt(off)
		cellWidth := g.Width()
		if col+cellWidth <= width {
			t.screen.SetContent(col, row, runes[0], runes[1:], t.toTcellStyle(st))
		}
		col += cellWidth
		off += clusterLen
	}

	return row - y + 1
}

// CursorCell maps a UTF-16 offset into the cell grid used by
// DrawText, so the hardware cursor lands where the glyph at that
// offset is painted.
func CursorCell(text string, off buffer.Offset) (int, int) {
	col, row := 0, 0
	var at buffer.Offset

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if at >= off {
			break
		}
		runes := g.Runes()
		if len(runes) == 1 && runes[0] == '\n' {
			col = 0
			row++
		} else {
			col += g.Width()
		}
		at += utf16Units(runes)
	}
	return col, row
}

func utf16Units(runes []rune) buffer.Offset {
	var n buffer.Offset
	for _, r := range runes {
		if r > 0xFFFF && utf8.ValidRune(r) {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// toTcellStyle converts an engine style, resolving the hidden
// attribute to foreground-on-background.
func (t *Terminal) toTcellStyle(s core.Style) tcell.Style {
	st := tcell.StyleDefault

	fg := s.Foreground
	if s.Attributes.Has(core.AttrHidden) {
		fg = t.bg
	}
	if !fg.IsDefault() {
		st = st.Foreground(toTcellColor(fg))
	}

	bg := s.Background
	if bg.IsDefault() && s.Attributes.Has(core.AttrHidden) {
		bg = t.bg
	}
	if !bg.IsDefault() {
		st = st.Background(toTcellColor(bg))
	}

	if s.Attributes.Has(core.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		st = st.StrikeThrough(true)
	}

	return st
}

func toTcellColor(c core.Color) tcell.Color {
	if c.Indexed {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
