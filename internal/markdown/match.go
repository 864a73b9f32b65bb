package markdown

import (
	"github.com/dshills/notedown/internal/engine/buffer"
)

// Kind identifies a markdown construct class. The set is closed;
// renderers switch exhaustively over it.
type Kind uint8

// Construct classes.
const (
	KindHeader Kind = iota
	KindBold
	KindItalic
	KindInlineCode
	KindFencedCode
	KindLink
	KindListItem
	KindBlockquote
)

// String returns the construct class name.
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindInlineCode:
		return "inline-code"
	case KindFencedCode:
		return "fenced-code"
	case KindLink:
		return "link"
	case KindListItem:
		return "list-item"
	case KindBlockquote:
		return "blockquote"
	default:
		return "unknown"
	}
}

// Match is one detected construct. It is a tagged variant: Kind selects
// which fields carry meaning.
//
//   - KindHeader: Level 1..6, Content, Markers (hash run + whitespace)
//   - KindBold, KindItalic: Content, Markers (opening and closing run)
//   - KindInlineCode: Content, Markers (the two backticks)
//   - KindFencedCode: Language (may be empty), Content, Markers
//     (opening fence line, closing fence line when terminated)
//   - KindLink: Content (display text), Target, Markers (brackets)
//   - KindListItem, KindBlockquote: Content, Markers (line marker)
type Match struct {
	Kind     Kind
	Level    int
	Language string
	Content  buffer.Span
	Markers  []buffer.Span
	Target   buffer.Span
}

// Start returns the smallest offset covered by the match, used for
// plan ordering.
func (m Match) Start() buffer.Offset {
	start := m.Content.Start
	for _, mk := range m.Markers {
		if mk.Start < start {
			start = mk.Start
		}
	}
	return start
}

// End returns the largest offset covered by the match.
func (m Match) End() buffer.Offset {
	end := m.Content.End()
	for _, mk := range m.Markers {
		if mk.End() > end {
			end = mk.End()
		}
	}
	if m.Kind == KindLink && m.Target.End() > end {
		end = m.Target.End()
	}
	return end
}
