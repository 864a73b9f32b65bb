package cursor

import (
	"github.com/dshills/notedown/internal/engine/buffer"
)

// DebugLogger receives diagnostic messages from the guard.
type DebugLogger interface {
	Debug(msg string, args ...any)
}

// Guard preserves the cursor position across attribute application.
type Guard struct {
	log DebugLogger
}

// NewGuard creates a guard. The logger may be nil.
func NewGuard(log DebugLogger) *Guard {
	return &Guard{log: log}
}

// WithCursorPreserved captures the cursor before action runs and returns
// the cursor to restore afterward, clamped to [0, buf.Len()].
//
// A length drift between capture and restore indicates a defect in the
// caller (attribute application must never change character count); it
// is logged and absorbed, never surfaced to the user.
func (g *Guard) WithCursorPreserved(buf *buffer.TextBuffer, cur Cursor, action func()) Cursor {
	before := buf.Len()

	action()

	after := buf.Len()
	if after != before && g.log != nil {
		g.log.Debug("buffer length drifted during render pass", "before", before, "after", after)
	}

	return cur.Clamp(after)
}
