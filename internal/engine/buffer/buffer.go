package buffer

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf16"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Offset is a position in the buffer, counted in UTF-16 code units.
type Offset int

// TextBuffer holds note text indexed in UTF-16 code units.
// All methods are thread-safe, though by design only the interactive
// context ever writes to it.
type TextBuffer struct {
	mu       sync.RWMutex
	content  []uint16
	cached   string
	hasCache bool
	revision uint64

	normalizeNewlines bool
}

// Option configures a TextBuffer.
type Option func(*TextBuffer)

// WithNormalizeNewlines controls CRLF/CR to LF normalization on input.
// Enabled by default.
func WithNormalizeNewlines(enabled bool) Option {
	return func(b *TextBuffer) {
		b.normalizeNewlines = enabled
	}
}

// New creates an empty buffer.
func New(opts ...Option) *TextBuffer {
	b := &TextBuffer{
		normalizeNewlines: true,
		cached:            "",
		hasCache:          true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string, opts ...Option) *TextBuffer {
	b := New(opts...)
	s = b.normalize(s)
	b.content = utf16.Encode([]rune(s))
	b.cached = s
	b.hasCache = true
	return b
}

// normalize converts line endings to LF when normalization is enabled.
func (b *TextBuffer) normalize(s string) string {
	if !b.normalizeNewlines {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content.
func (b *TextBuffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.textLocked()
}

func (b *TextBuffer) textLocked() string {
	if !b.hasCache {
		b.cached = string(utf16.Decode(b.content))
		b.hasCache = true
	}
	return b.cached
}

// Len returns the buffer length in UTF-16 code units.
func (b *TextBuffer) Len() Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Offset(len(b.content))
}

// Revision returns a counter incremented on every content change.
func (b *TextBuffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// IsEmpty returns true if the buffer holds no text.
func (b *TextBuffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// Insert inserts text at the given offset and returns the offset just
// past the inserted text.
func (b *TextBuffer) Insert(offset Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > Offset(len(b.content)) {
		return 0, ErrOffsetOutOfRange
	}

	units := utf16.Encode([]rune(b.normalize(text)))
	updated := make([]uint16, 0, len(b.content)+len(units))
	updated = append(updated, b.content[:offset]...)
	updated = append(updated, units...)
	updated = append(updated, b.content[offset:]...)
	b.content = updated
	b.invalidateLocked()

	return offset + Offset(len(units)), nil
}

// Delete removes the half-open range [start, end).
func (b *TextBuffer) Delete(start, end Offset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > Offset(len(b.content)) {
		return ErrRangeInvalid
	}

	updated := make([]uint16, 0, len(b.content)-int(end-start))
	updated = append(updated, b.content[:start]...)
	updated = append(updated, b.content[end:]...)
	b.content = updated
	b.invalidateLocked()

	return nil
}

// Replace replaces the half-open range [start, end) with new text and
// returns the offset just past the replacement.
func (b *TextBuffer) Replace(start, end Offset, text string) (Offset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > Offset(len(b.content)) {
		return 0, ErrRangeInvalid
	}

	units := utf16.Encode([]rune(b.normalize(text)))
	updated := make([]uint16, 0, len(b.content)-int(end-start)+len(units))
	updated = append(updated, b.content[:start]...)
	updated = append(updated, units...)
	updated = append(updated, b.content[end:]...)
	b.content = updated
	b.invalidateLocked()

	return start + Offset(len(units)), nil
}

// Slice returns the text in the half-open range [start, end).
// Out-of-range offsets are clamped.
func (b *TextBuffer) Slice(start, end Offset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := Offset(len(b.content))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return string(utf16.Decode(b.content[start:end]))
}

// invalidateLocked marks the string cache stale and bumps the revision.
func (b *TextBuffer) invalidateLocked() {
	b.hasCache = false
	b.revision++
}

// Snapshot captures an immutable view of the buffer for background work.
type Snapshot struct {
	Text     string
	Length   Offset
	Revision uint64
}

// Snapshot returns a read-only copy of the current buffer state.
// Safe to hand to other goroutines.
func (b *TextBuffer) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Text:     b.textLocked(),
		Length:   Offset(len(b.content)),
		Revision: b.revision,
	}
}
