package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Span is a half-open range [Start, Start+Length) over buffer offsets,
// measured in UTF-16 code units.
type Span struct {
	Start  Offset
	Length Offset
}

// NewSpan creates a span from start and length.
func NewSpan(start, length Offset) Span {
	return Span{Start: start, Length: length}
}

// End returns the exclusive end offset.
func (s Span) End() Offset {
	return s.Start + s.Length
}

// IsEmpty returns true for a zero-length span.
func (s Span) IsEmpty() bool {
	return s.Length <= 0
}

// Contains returns true if the offset falls inside the span.
func (s Span) Contains(off Offset) bool {
	return off >= s.Start && off < s.End()
}

// InBounds reports whether the span fits a buffer of the given length.
// Spans must be re-checked at apply time since the buffer may have
// changed after analysis.
func (s Span) InBounds(length Offset) bool {
	return s.Start >= 0 && s.Length >= 0 && s.End() <= length
}

// String returns a debug representation.
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// UTF16Len counts the UTF-16 code units in a string.
func UTF16Len(s string) Offset {
	var n Offset
	for _, r := range s {
		if r >= 0x10000 {
			n += 2 // surrogate pair
		} else {
			n++
		}
	}
	return n
}

// OffsetMap converts byte offsets in a string to UTF-16 code unit
// offsets. The map is built in one pass and is only valid for byte
// offsets at rune boundaries of the source string.
type OffsetMap struct {
	// toUTF16[b] holds the UTF-16 offset for byte offset b.
	toUTF16 []Offset
}

// NewOffsetMap builds an offset map for the given text.
func NewOffsetMap(text string) *OffsetMap {
	m := &OffsetMap{toUTF16: make([]Offset, len(text)+1)}
	var u16 Offset
	for b, r := range text {
		m.toUTF16[b] = u16
		size := utf8.RuneLen(r)
		for i := 1; i < size; i++ {
			m.toUTF16[b+i] = u16
		}
		if r >= 0x10000 {
			u16 += 2
		} else {
			u16++
		}
	}
	m.toUTF16[len(text)] = u16
	return m
}

// ToUTF16 converts a byte offset to a UTF-16 offset.
func (m *OffsetMap) ToUTF16(byteOff int) Offset {
	if byteOff < 0 {
		return 0
	}
	if byteOff >= len(m.toUTF16) {
		return m.toUTF16[len(m.toUTF16)-1]
	}
	return m.toUTF16[byteOff]
}

// SpanFromBytes converts a byte-offset half-open range to a UTF-16 span.
func (m *OffsetMap) SpanFromBytes(start, end int) Span {
	s := m.ToUTF16(start)
	e := m.ToUTF16(end)
	return Span{Start: s, Length: e - s}
}
