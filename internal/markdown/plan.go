package markdown

import (
	"github.com/dshills/notedown/internal/engine/buffer"
)

// RenderRequest pairs a full-text snapshot with the generation counter
// that identifies it. The generation is how a stale plan (computed from
// text that has since changed) is detected and discarded.
type RenderRequest struct {
	Text       string
	Generation uint64
}

// RenderPlan is an immutable ordered collection of matches produced
// from one full-text snapshot. It is created by Analyze, consumed
// exactly once by the renderer, then discarded.
type RenderPlan struct {
	matches    []Match
	generation uint64
	sourceLen  buffer.Offset
}

// Matches returns the matches in plan order. The returned slice is a
// copy; the plan itself is never mutated.
func (p *RenderPlan) Matches() []Match {
	out := make([]Match, len(p.matches))
	copy(out, p.matches)
	return out
}

// Len returns the number of matches.
func (p *RenderPlan) Len() int {
	return len(p.matches)
}

// IsEmpty returns true if the plan holds no matches.
func (p *RenderPlan) IsEmpty() bool {
	return len(p.matches) == 0
}

// Generation returns the generation of the text the plan was computed
// from.
func (p *RenderPlan) Generation() uint64 {
	return p.generation
}

// SourceLen returns the length, in UTF-16 code units, of the text the
// plan was computed from.
func (p *RenderPlan) SourceLen() buffer.Offset {
	return p.sourceLen
}
