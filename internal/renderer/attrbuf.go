package renderer

import (
	"sort"
	"sync"

	"github.com/dshills/notedown/internal/engine/buffer"
	"github.com/dshills/notedown/internal/renderer/core"
)

// StyleRun is a styled range of the presentation layer.
type StyleRun struct {
	Span  buffer.Span
	Style core.Style
}

// AttrBuffer is the attribute layer over the text buffer: a sorted,
// non-overlapping set of style runs plus the length they decorate. It
// holds no characters, so attribute application cannot corrupt content
// by construction.
type AttrBuffer struct {
	mu     sync.RWMutex
	length buffer.Offset
	runs   []StyleRun
}

// NewAttrBuffer creates an attribute layer for a text of the given
// length.
func NewAttrBuffer(length buffer.Offset) *AttrBuffer {
	if length < 0 {
		length = 0
	}
	return &AttrBuffer{length: length}
}

// Length returns the decorated text length in UTF-16 code units.
func (b *AttrBuffer) Length() buffer.Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.length
}

// SetLength resizes the layer after a text change. Existing runs are
// clipped; they are stale until the next render pass repaints them.
func (b *AttrBuffer) SetLength(length buffer.Offset) {
	if length < 0 {
		length = 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.length = length
	kept := b.runs[:0]
	for _, r := range b.runs {
		if r.Span.Start >= length {
			continue
		}
		if r.Span.End() > length {
			r.Span.Length = length - r.Span.Start
		}
		kept = append(kept, r)
	}
	b.runs = kept
}

// ClearRuns removes all style runs, leaving the length untouched.
func (b *AttrBuffer) ClearRuns() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = nil
}

// MergeStyle merges a style over the given span. Overlapped portions
// of existing runs keep their style with the new one merged on top;
// uncovered portions get the new style alone. The span is clipped to
// the layer's bounds.
func (b *AttrBuffer) MergeStyle(sp buffer.Span, st core.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, end := sp.Start, sp.End()
	if start < 0 {
		start = 0
	}
	if end > b.length {
		end = b.length
	}
	if start >= end {
		return
	}

	out := make([]StyleRun, 0, len(b.runs)+3)
	cursor := start
	for _, r := range b.runs {
		rs, re := r.Span.Start, r.Span.End()
		if re <= start || rs >= end {
			out = append(out, r)
			continue
		}
		if rs < start {
			out = append(out, StyleRun{spanOf(rs, start), r.Style})
			rs = start
		}
		if rs > cursor {
			out = append(out, StyleRun{spanOf(cursor, rs), st})
		}
		mid := re
		if mid > end {
			mid = end
		}
		out = append(out, StyleRun{spanOf(rs, mid), r.Style.Merge(st)})
		cursor = mid
		if re > end {
			out = append(out, StyleRun{spanOf(end, re), r.Style})
		}
	}
	if cursor < end {
		out = append(out, StyleRun{spanOf(cursor, end), st})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	b.runs = coalesceRuns(out)
}

// StyleAt returns the effective style at an offset.
func (b *AttrBuffer) StyleAt(off buffer.Offset) core.Style {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := sort.Search(len(b.runs), func(i int) bool {
		return b.runs[i].Span.End() > off
	})
	if i < len(b.runs) && b.runs[i].Span.Contains(off) {
		return b.runs[i].Style
	}
	return core.DefaultStyle()
}

// Runs returns a copy of the style runs in offset order.
func (b *AttrBuffer) Runs() []StyleRun {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]StyleRun, len(b.runs))
	copy(out, b.runs)
	return out
}

// Equal reports whether two layers decorate identically.
func (b *AttrBuffer) Equal(other *AttrBuffer) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if b.length != other.length || len(b.runs) != len(other.runs) {
		return false
	}
	for i, r := range b.runs {
		o := other.runs[i]
		if r.Span != o.Span || !r.Style.Equals(o.Style) {
			return false
		}
	}
	return true
}

func spanOf(start, end buffer.Offset) buffer.Span {
	return buffer.Span{Start: start, Length: end - start}
}

// coalesceRuns drops empty runs and joins adjacent runs with equal
// styles so that equal decorations always have one canonical form.
func coalesceRuns(runs []StyleRun) []StyleRun {
	out := runs[:0]
	for _, r := range runs {
		if r.Span.IsEmpty() || r.Style.IsDefault() {
			continue
		}
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Span.End() == r.Span.Start && prev.Style.Equals(r.Style) {
				prev.Span.Length += r.Span.Length
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
