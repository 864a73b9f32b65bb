package renderer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/notedown/internal/engine/buffer"
	"github.com/dshills/notedown/internal/markdown"
	"github.com/dshills/notedown/internal/renderer/core"
	"github.com/dshills/notedown/internal/theme"
)

// Mode selects how syntax markers are treated.
type Mode uint8

const (
	// ModeInlineEmphasis keeps markers visible, styled muted.
	ModeInlineEmphasis Mode = iota
	// ModeHiddenSyntax voids markers via the hidden attribute and a
	// minimal scale. The characters stay in the text.
	ModeHiddenSyntax
)

func (m Mode) String() string {
	switch m {
	case ModeInlineEmphasis:
		return "inline"
	case ModeHiddenSyntax:
		return "hidden"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode resolves a mode from its config key.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "inline", "inline-emphasis", "":
		return ModeInlineEmphasis, nil
	case "hidden", "hidden-syntax":
		return ModeHiddenSyntax, nil
	default:
		return ModeInlineEmphasis, fmt.Errorf("unknown render mode %q", name)
	}
}

// StyleSource resolves a semantic role to a concrete style. Themes
// satisfy this.
type StyleSource interface {
	StyleFor(role theme.Role) core.Style
}

// DebugLogger receives diagnostics for skipped spans.
type DebugLogger interface {
	Debug(msg string, args ...any)
}

// Renderer turns an analysis plan into attribute runs. It never
// touches text content; styling is carried entirely by the attribute
// layer, so applying a plan can never shift offsets. Style source and
// mode may be swapped between passes.
type Renderer struct {
	mu     sync.RWMutex
	styles StyleSource
	mode   Mode
	log    DebugLogger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMode sets the marker treatment mode.
func WithMode(mode Mode) Option {
	return func(r *Renderer) {
		r.mode = mode
	}
}

// WithLogger sets a logger for skipped-span diagnostics.
func WithLogger(log DebugLogger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// New creates a Renderer drawing styles from the given source.
func New(styles StyleSource, opts ...Option) *Renderer {
	r := &Renderer{
		styles: styles,
		mode:   ModeInlineEmphasis,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the active marker treatment.
func (r *Renderer) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetMode changes the marker treatment for subsequent passes.
func (r *Renderer) SetMode(mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
}

// SetStyles swaps the style source, used on theme change. Takes
// effect on the next pass.
func (r *Renderer) SetStyles(styles StyleSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles = styles
}

// Apply replaces the attribute layer's runs with the plan's styling.
// Previous runs are cleared first, so applying the same plan twice
// yields an identical layer. Spans that no longer fit the layer
// (the text shrank since analysis) are skipped per span.
func (r *Renderer) Apply(plan *markdown.RenderPlan, attrs *AttrBuffer) {
	r.mu.RLock()
	p := pass{
		styles: r.styles,
		marker: r.markerStyleLocked(),
		attrs:  attrs,
		length: attrs.Length(),
		log:    r.log,
	}
	r.mu.RUnlock()

	attrs.ClearRuns()
	for _, m := range plan.Matches() {
		p.applyMatch(m)
	}
}

func (r *Renderer) markerStyleLocked() core.Style {
	if r.mode == ModeHiddenSyntax {
		return core.DefaultStyle().Hidden().WithScale(core.ScaleMinimal)
	}
	return r.styles.StyleFor(theme.RoleMutedSyntax)
}

// pass holds one application's snapshot of style source and marker
// treatment, so a mid-pass theme or mode change cannot mix styles.
type pass struct {
	styles StyleSource
	marker core.Style
	attrs  *AttrBuffer
	length buffer.Offset
	log    DebugLogger
}

func (p pass) applyMatch(m markdown.Match) {
	switch m.Kind {
	case markdown.KindHeader:
		p.style(m.Content, theme.HeadingRole(m.Level))
		p.markers(m.Markers)
	case markdown.KindBold:
		p.style(m.Content, theme.RoleStrong)
		p.markers(m.Markers)
	case markdown.KindItalic:
		p.style(m.Content, theme.RoleEmphasis)
		p.markers(m.Markers)
	case markdown.KindInlineCode:
		p.style(m.Content, theme.RoleCode)
		p.markers(m.Markers)
	case markdown.KindFencedCode:
		p.style(m.Content, theme.RoleCodeBlock)
		p.markers(m.Markers)
	case markdown.KindLink:
		p.style(m.Content, theme.RoleLink)
		p.markers(m.Markers)
		p.mute(m.Target)
	case markdown.KindListItem:
		// Only the marker is styled; item text stays body-styled.
		for _, mk := range m.Markers {
			p.style(mk, theme.RoleListMarker)
		}
	case markdown.KindBlockquote:
		p.style(m.Content, theme.RoleQuote)
		p.markers(m.Markers)
	}
}

// style merges the role's style over a span, skipping spans that fall
// outside the layer.
func (p pass) style(sp buffer.Span, role theme.Role) {
	if sp.IsEmpty() {
		return
	}
	if !sp.InBounds(p.length) {
		p.debug("skipping stale span", "role", role.String(), "start", sp.Start, "length", sp.Length, "buffer", p.length)
		return
	}
	p.attrs.MergeStyle(sp, p.styles.StyleFor(role))
}

func (p pass) markers(spans []buffer.Span) {
	for _, sp := range spans {
		p.mute(sp)
	}
}

func (p pass) mute(sp buffer.Span) {
	if sp.IsEmpty() {
		return
	}
	if !sp.InBounds(p.length) {
		p.debug("skipping stale marker", "start", sp.Start, "length", sp.Length, "buffer", p.length)
		return
	}
	p.attrs.MergeStyle(sp, p.marker)
}

func (p pass) debug(msg string, args ...any) {
	if p.log != nil {
		p.log.Debug(msg, args...)
	}
}
