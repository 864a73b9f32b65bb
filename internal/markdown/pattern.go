package markdown

import (
	"strings"

	"github.com/dshills/notedown/internal/engine/buffer"
)

// The pattern library scans text with byte offsets internally and
// converts to UTF-16 spans at the boundary. Each exported Find function
// is pure and safe to call concurrently; each scans for exactly one
// construct class over the whole input. Fenced-code exclusion is the
// analyzer's job, not the individual scanners'.

// byteRange is a half-open byte range within the scanned text.
type byteRange struct {
	start, end int
}

// byteMatch mirrors Match with byte-offset ranges.
type byteMatch struct {
	kind    Kind
	level   int
	lang    string
	content byteRange
	markers []byteRange
	target  byteRange
}

// FindHeaders returns header matches: a line-start run of '#' followed
// by whitespace. Level is the run length capped at 6.
func FindHeaders(text string) []Match {
	return convertAll(text, scanHeaders(text))
}

// FindBold returns strong-emphasis matches delimited by ** or __.
func FindBold(text string) []Match {
	return convertAll(text, scanBold(text))
}

// FindItalic returns emphasis matches delimited by a single * or _.
func FindItalic(text string) []Match {
	return convertAll(text, scanItalic(text))
}

// FindInlineCode returns single-backtick code span matches.
func FindInlineCode(text string) []Match {
	return convertAll(text, scanInlineCode(text))
}

// FindFencedCode returns fenced code block matches, including an
// unterminated fence extending to end of text.
func FindFencedCode(text string) []Match {
	return convertAll(text, scanFencedCode(text))
}

// FindLinks returns inline link matches. Links with empty display text
// produce no match.
func FindLinks(text string) []Match {
	return convertAll(text, scanLinks(text))
}

// FindListItems returns list-item matches (bullet and ordered markers),
// recognized only at line start.
func FindListItems(text string) []Match {
	return convertAll(text, scanListItems(text))
}

// FindBlockquotes returns blockquote matches, recognized only at line
// start.
func FindBlockquotes(text string) []Match {
	return convertAll(text, scanBlockquotes(text))
}

// convertAll converts byte matches to UTF-16 matches using an offset
// map over the scanned text.
func convertAll(text string, bms []byteMatch) []Match {
	if len(bms) == 0 {
		return nil
	}
	om := buffer.NewOffsetMap(text)
	out := make([]Match, 0, len(bms))
	for _, bm := range bms {
		out = append(out, bm.toMatch(om, 0))
	}
	return out
}

// toMatch converts a byte match to a UTF-16 Match, shifting byte
// offsets by base first (used when the scan ran on a sub-segment).
func (bm byteMatch) toMatch(om *buffer.OffsetMap, base int) Match {
	m := Match{
		Kind:     bm.kind,
		Level:    bm.level,
		Language: bm.lang,
		Content:  om.SpanFromBytes(base+bm.content.start, base+bm.content.end),
	}
	if len(bm.markers) > 0 {
		m.Markers = make([]buffer.Span, 0, len(bm.markers))
		for _, r := range bm.markers {
			m.Markers = append(m.Markers, om.SpanFromBytes(base+r.start, base+r.end))
		}
	}
	if bm.kind == KindLink {
		m.Target = om.SpanFromBytes(base+bm.target.start, base+bm.target.end)
	}
	return m
}

// forEachLine calls fn with the byte range of every line, end excluding
// the newline.
func forEachLine(text string, fn func(start, end int)) {
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			fn(start, i)
			start = i + 1
		}
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func scanHeaders(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		n := 0
		for start+n < end && text[start+n] == '#' {
			n++
		}
		if n == 0 {
			return
		}
		pos := start + n
		if pos >= end || !isBlank(text[pos]) {
			return
		}
		for pos < end && isBlank(text[pos]) {
			pos++
		}
		level := n
		if level > 6 {
			level = 6
		}
		out = append(out, byteMatch{
			kind:    KindHeader,
			level:   level,
			content: byteRange{pos, end},
			markers: []byteRange{{start, pos}},
		})
	})
	return out
}

func scanListItems(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		i := start
		for i < end && isBlank(text[i]) {
			i++
		}
		if i >= end {
			return
		}
		markerEnd := 0
		switch c := text[i]; {
		case c == '-' || c == '*' || c == '+':
			if i+1 < end && text[i+1] == ' ' {
				markerEnd = i + 2
			}
		case c >= '0' && c <= '9':
			j := i
			for j < end && text[j] >= '0' && text[j] <= '9' {
				j++
			}
			if j+1 < end && text[j] == '.' && text[j+1] == ' ' {
				markerEnd = j + 2
			}
		}
		if markerEnd == 0 {
			return
		}
		out = append(out, byteMatch{
			kind:    KindListItem,
			content: byteRange{markerEnd, end},
			markers: []byteRange{{i, markerEnd}},
		})
	})
	return out
}

func scanBlockquotes(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		i := start
		for i < end && isBlank(text[i]) {
			i++
		}
		if i >= end || text[i] != '>' {
			return
		}
		j := i
		for j < end && text[j] == '>' {
			j++
		}
		if j < end && text[j] == ' ' {
			j++
		}
		out = append(out, byteMatch{
			kind:    KindBlockquote,
			content: byteRange{j, end},
			markers: []byteRange{{i, j}},
		})
	})
	return out
}

func scanInlineCode(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		k := start
		for k < end {
			if text[k] != '`' {
				k++
				continue
			}
			run := 1
			for k+run < end && text[k+run] == '`' {
				run++
			}
			if run > 1 {
				// Multi-backtick runs are left plain; fences are the
				// fenced-code scanner's business.
				k += run
				continue
			}
			c := k + 1
			for c < end && text[c] != '`' {
				c++
			}
			if c >= end {
				// Unmatched opener stays plain text.
				break
			}
			if c > k+1 {
				out = append(out, byteMatch{
					kind:    KindInlineCode,
					content: byteRange{k + 1, c},
					markers: []byteRange{{k, k + 1}, {c, c + 1}},
				})
			}
			k = c + 1
		}
	})
	return out
}

func scanBold(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		k := start
		for k+1 < end {
			c := text[k]
			if (c != '*' && c != '_') || text[k+1] != c {
				k++
				continue
			}
			// Opening pair must be followed by a non-blank character.
			if k+2 >= end || isBlank(text[k+2]) {
				k += 2
				continue
			}
			// Search for a closing pair preceded by a non-blank.
			closed := false
			for j := k + 3; j+1 < end; j++ {
				if text[j] == c && text[j+1] == c && !isBlank(text[j-1]) {
					out = append(out, byteMatch{
						kind:    KindBold,
						content: byteRange{k + 2, j},
						markers: []byteRange{{k, k + 2}, {j, j + 2}},
					})
					k = j + 2
					closed = true
					break
				}
			}
			if !closed {
				k += 2
			}
		}
	})
	return out
}

func scanItalic(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		k := start
		for k < end {
			c := text[k]
			if c != '*' && c != '_' {
				k++
				continue
			}
			// Skip characters that belong to a double-marker run; those
			// are the bold scanner's territory.
			if (k+1 < end && text[k+1] == c) || (k > start && text[k-1] == c) {
				k++
				continue
			}
			prevOK := k == start || isBlank(text[k-1])
			nextOK := k+1 < end && !isBlank(text[k+1]) && text[k+1] != c
			if !prevOK || !nextOK {
				k++
				continue
			}
			closed := false
			for j := k + 2; j < end; j++ {
				if text[j] != c || isBlank(text[j-1]) {
					continue
				}
				if j+1 < end && text[j+1] == c {
					continue
				}
				out = append(out, byteMatch{
					kind:    KindItalic,
					content: byteRange{k + 1, j},
					markers: []byteRange{{k, k + 1}, {j, j + 1}},
				})
				k = j + 1
				closed = true
				break
			}
			if !closed {
				k++
			}
		}
	})
	return out
}

func scanLinks(text string) []byteMatch {
	var out []byteMatch
	forEachLine(text, func(start, end int) {
		k := start
		for k < end {
			if text[k] != '[' {
				k++
				continue
			}
			j := k + 1
			for j < end && text[j] != ']' && text[j] != '[' {
				j++
			}
			if j >= end {
				break
			}
			if text[j] == '[' {
				k = j
				continue
			}
			if j+1 >= end || text[j+1] != '(' {
				k = j + 1
				continue
			}
			p := j + 2
			for p < end && text[p] != ')' {
				p++
			}
			if p >= end {
				k = j + 1
				continue
			}
			// Empty display text renders nothing visible; skip rather
			// than emit a zero-width span.
			if j > k+1 {
				out = append(out, byteMatch{
					kind:    KindLink,
					content: byteRange{k + 1, j},
					target:  byteRange{j + 2, p},
					markers: []byteRange{{k, k + 1}, {j, j + 2}, {p, p + 1}},
				})
			}
			k = p + 1
		}
	})
	return out
}

// scanFencedCode handles multi-line fences itself rather than using the
// line callback, since a fence consumes lines until its closer.
func scanFencedCode(text string) []byteMatch {
	var out []byteMatch
	i := 0
	for i <= len(text) {
		lineEnd := strings.IndexByte(text[i:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += i
		}
		line := text[i:lineEnd]

		run := fenceRun(line)
		if run == 0 {
			if lineEnd >= len(text) {
				break
			}
			i = lineEnd + 1
			continue
		}

		lang := ""
		if fields := strings.Fields(line[run:]); len(fields) > 0 {
			lang = fields[0]
		}
		openMarker := byteRange{i, lineEnd}

		contentStart := lineEnd + 1
		if contentStart > len(text) {
			contentStart = len(text)
		}

		// Walk forward to a closing fence line.
		j := contentStart
		closeStart, closeEnd := -1, -1
		for j <= len(text) {
			e := strings.IndexByte(text[j:], '\n')
			if e < 0 {
				e = len(text)
			} else {
				e += j
			}
			if isClosingFence(text[j:e]) {
				closeStart, closeEnd = j, e
				break
			}
			if e >= len(text) {
				break
			}
			j = e + 1
		}

		if closeStart >= 0 {
			contentEnd := closeStart
			if contentEnd > contentStart && text[contentEnd-1] == '\n' {
				contentEnd--
			}
			out = append(out, byteMatch{
				kind:    KindFencedCode,
				lang:    lang,
				content: byteRange{contentStart, contentEnd},
				markers: []byteRange{openMarker, {closeStart, closeEnd}},
			})
			if closeEnd >= len(text) {
				break
			}
			i = closeEnd + 1
			continue
		}

		// Unterminated fence: the rest of the document is code.
		out = append(out, byteMatch{
			kind:    KindFencedCode,
			lang:    lang,
			content: byteRange{contentStart, len(text)},
			markers: []byteRange{openMarker},
		})
		break
	}
	return out
}

// fenceRun returns the length of a line-start backtick run of at least
// three, or zero.
func fenceRun(line string) int {
	n := 0
	for n < len(line) && line[n] == '`' {
		n++
	}
	if n < 3 {
		return 0
	}
	return n
}

// isClosingFence reports whether a line is nothing but a backtick run
// of at least three (trailing blanks allowed).
func isClosingFence(line string) bool {
	line = strings.TrimRight(line, " \t")
	if len(line) < 3 {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != '`' {
			return false
		}
	}
	return true
}
