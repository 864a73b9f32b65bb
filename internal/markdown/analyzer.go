package markdown

import (
	"sort"

	"github.com/dshills/notedown/internal/engine/buffer"
)

// Analyze runs the pattern library over one full-text snapshot and
// produces the render plan for it. Fenced-code regions are located
// first; every other construct class scans only the complement, so
// emphasis and friends never match across a fence.
func Analyze(req RenderRequest) *RenderPlan {
	text := req.Text
	plan := &RenderPlan{
		generation: req.Generation,
		sourceLen:  buffer.UTF16Len(text),
	}
	if text == "" {
		return plan
	}

	om := buffer.NewOffsetMap(text)

	fences := scanFencedCode(text)
	matches := make([]Match, 0, len(fences)+8)
	for _, f := range fences {
		matches = append(matches, f.toMatch(om, 0))
	}

	for _, seg := range complementSegments(text, fences) {
		segText := text[seg.start:seg.end]
		for _, scan := range inlineScanners {
			for _, bm := range scan(segText) {
				matches = append(matches, bm.toMatch(om, seg.start))
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].Start(), matches[j].Start()
		if si != sj {
			return si < sj
		}
		// Defensive layering order for coincident starts; these rarely
		// overlap in practice.
		return constructPriority(matches[i].Kind) < constructPriority(matches[j].Kind)
	})

	plan.matches = matches
	return plan
}

// AnalyzeText is a convenience wrapper for callers that do not track
// generations.
func AnalyzeText(text string) *RenderPlan {
	return Analyze(RenderRequest{Text: text})
}

// inlineScanners are the construct scanners run over the complement of
// fenced-code regions.
var inlineScanners = []func(string) []byteMatch{
	scanInlineCode,
	scanLinks,
	scanBold,
	scanItalic,
	scanHeaders,
	scanListItems,
	scanBlockquotes,
}

// constructPriority orders coincident matches: fenced code above inline
// code above links above emphasis above line constructs.
func constructPriority(k Kind) int {
	switch k {
	case KindFencedCode:
		return 0
	case KindInlineCode:
		return 1
	case KindLink:
		return 2
	case KindBold, KindItalic:
		return 3
	case KindHeader, KindListItem, KindBlockquote:
		return 4
	default:
		return 5
	}
}

// complementSegments returns the byte ranges of text not covered by a
// fence match. Fences begin and end at line boundaries, so every
// segment starts at a line start and line-anchored scanners stay
// correct on segment text.
func complementSegments(text string, fences []byteMatch) []byteRange {
	if len(fences) == 0 {
		return []byteRange{{0, len(text)}}
	}

	var segs []byteRange
	pos := 0
	for _, f := range fences {
		ext := fenceExtent(f, len(text))
		if ext.start > pos {
			segs = append(segs, byteRange{pos, ext.start})
		}
		pos = ext.end
	}
	if pos < len(text) {
		segs = append(segs, byteRange{pos, len(text)})
	}
	return segs
}

// fenceExtent is the full byte range a fence occupies, from the opening
// marker through the closing marker (or end of text when unterminated),
// including the trailing newline after the closer.
func fenceExtent(f byteMatch, textLen int) byteRange {
	start := f.markers[0].start
	end := textLen
	if len(f.markers) > 1 {
		end = f.markers[1].end
		if end < textLen {
			end++ // consume the newline after the closing fence
		}
	}
	return byteRange{start, end}
}
