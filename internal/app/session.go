package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/notedown/internal/engine/buffer"
	"github.com/dshills/notedown/internal/engine/cursor"
	"github.com/dshills/notedown/internal/event"
	"github.com/dshills/notedown/internal/markdown"
	"github.com/dshills/notedown/internal/renderer"
	"github.com/dshills/notedown/internal/scheduler"
)

// Session is one open note: the text buffer, its cursor, the
// attribute layer and the background formatting pipeline. Text edits
// go through the session so every change reaches the scheduler.
type Session struct {
	id    uuid.UUID
	log   *Logger
	bus   *event.Bus
	guard *cursor.Guard
	rend  *renderer.Renderer

	mu    sync.Mutex
	buf   *buffer.TextBuffer
	cur   cursor.Cursor
	attrs *renderer.AttrBuffer

	sched *scheduler.Scheduler
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	text              string
	debounce          time.Duration
	dispatch          scheduler.DispatchFunc
	bus               *event.Bus
	log               *Logger
	normalizeNewlines bool
}

// WithInitialText seeds the buffer.
func WithInitialText(text string) SessionOption {
	return func(c *sessionConfig) {
		c.text = text
	}
}

// WithDebounce sets the idle delay before analysis.
func WithDebounce(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.debounce = d
	}
}

// WithDispatch routes plan application through the host's interactive
// context instead of the analysis goroutine.
func WithDispatch(d scheduler.DispatchFunc) SessionOption {
	return func(c *sessionConfig) {
		c.dispatch = d
	}
}

// WithBus publishes session events on the given bus.
func WithBus(bus *event.Bus) SessionOption {
	return func(c *sessionConfig) {
		c.bus = bus
	}
}

// WithSessionLogger sets the session's logger.
func WithSessionLogger(log *Logger) SessionOption {
	return func(c *sessionConfig) {
		c.log = log
	}
}

// WithNormalizeNewlines controls CRLF normalization in the buffer.
func WithNormalizeNewlines(enabled bool) SessionOption {
	return func(c *sessionConfig) {
		c.normalizeNewlines = enabled
	}
}

// NewSession creates a session rendering through the given renderer.
func NewSession(rend *renderer.Renderer, opts ...SessionOption) *Session {
	cfg := sessionConfig{
		debounce:          scheduler.DefaultDebounce,
		log:               NullLogger,
		normalizeNewlines: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session{
		id:   uuid.New(),
		log:  cfg.log.WithComponent("session"),
		bus:  cfg.bus,
		rend: rend,
		buf:  buffer.NewFromString(cfg.text, buffer.WithNormalizeNewlines(cfg.normalizeNewlines)),
	}
	s.guard = cursor.NewGuard(s.log)
	s.attrs = renderer.NewAttrBuffer(s.buf.Len())

	schedOpts := []scheduler.Option{
		scheduler.WithDebounce(cfg.debounce),
		scheduler.WithLogger(s.log),
	}
	if cfg.dispatch != nil {
		schedOpts = append(schedOpts, scheduler.WithDispatch(cfg.dispatch))
	}
	s.sched = scheduler.New(s.analyze, s.applyPlan, schedOpts...)

	if cfg.text != "" {
		s.sched.OnTextChanged(s.buf.Text())
		s.sched.RequestRenderNow()
	}

	return s
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Text returns the current buffer content.
func (s *Session) Text() string {
	return s.buf.Text()
}

// Cursor returns the current cursor.
func (s *Session) Cursor() cursor.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// SetCursor moves the cursor, clamped to the buffer.
func (s *Session) SetCursor(offset buffer.Offset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = s.cur.MoveTo(offset).Clamp(s.buf.Len())
}

// Attributes returns the session's attribute layer.
func (s *Session) Attributes() *renderer.AttrBuffer {
	return s.attrs
}

// Insert inserts text at the cursor and advances it past the
// insertion.
func (s *Session) Insert(text string) error {
	s.mu.Lock()
	end, err := s.buf.Insert(s.cur.Offset(), text)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cur = s.cur.MoveTo(end)
	s.attrs.SetLength(s.buf.Len())
	snapshot := s.buf.Text()
	s.mu.Unlock()

	s.sched.OnTextChanged(snapshot)
	return nil
}

// Delete removes [start, end) and pulls the cursor out of the removed
// range.
func (s *Session) Delete(start, end buffer.Offset) error {
	s.mu.Lock()
	if err := s.buf.Delete(start, end); err != nil {
		s.mu.Unlock()
		return err
	}
	switch {
	case s.cur.Offset() >= end:
		s.cur = s.cur.MoveBy(start - end)
	case s.cur.Offset() > start:
		s.cur = s.cur.MoveTo(start)
	}
	s.attrs.SetLength(s.buf.Len())
	snapshot := s.buf.Text()
	s.mu.Unlock()

	s.sched.OnTextChanged(snapshot)
	return nil
}

// Replace substitutes [start, end) with text and places the cursor at
// the end of the replacement.
func (s *Session) Replace(start, end buffer.Offset, text string) error {
	s.mu.Lock()
	newEnd, err := s.buf.Replace(start, end, text)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.cur = s.cur.MoveTo(newEnd)
	s.attrs.SetLength(s.buf.Len())
	snapshot := s.buf.Text()
	s.mu.Unlock()

	s.sched.OnTextChanged(snapshot)
	return nil
}

// Flush skips the remaining debounce delay, used on save or blur.
func (s *Session) Flush() {
	s.sched.RequestRenderNow()
}

// IsRendering reports whether analysis is in flight.
func (s *Session) IsRendering() bool {
	return s.sched.IsRendering()
}

// SetMode changes marker treatment and repaints.
func (s *Session) SetMode(mode renderer.Mode) {
	s.rend.SetMode(mode)
	s.sched.OnTextChanged(s.buf.Text())
	s.sched.RequestRenderNow()
}

// Refresh forces reanalysis of the current text, used after a theme
// change.
func (s *Session) Refresh() {
	s.sched.OnTextChanged(s.buf.Text())
	s.sched.RequestRenderNow()
}

// Close stops the background pipeline. In-flight results are dropped.
func (s *Session) Close() {
	s.sched.Close()
}

func (s *Session) analyze(req markdown.RenderRequest) *markdown.RenderPlan {
	s.publish(event.TopicRenderingState, event.RenderingState{Session: s.id, Busy: true})
	return markdown.Analyze(req)
}

// applyPlan lands a finished plan in the attribute layer. Runs on the
// scheduler's dispatch context.
func (s *Session) applyPlan(plan *markdown.RenderPlan) {
	s.mu.Lock()
	s.cur = s.guard.WithCursorPreserved(s.buf, s.cur, func() {
		s.rend.Apply(plan, s.attrs)
	})
	s.mu.Unlock()

	s.publish(event.TopicRenderingState, event.RenderingState{Session: s.id, Busy: false})
	s.publish(event.TopicAttributesApplied, event.AttributesApplied{
		Session:    s.id,
		Generation: plan.Generation(),
		Matches:    plan.Len(),
	})
	s.log.Debug("plan applied", "generation", plan.Generation(), "matches", plan.Len())
}

func (s *Session) publish(topic event.Topic, ev any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(topic, ev); err != nil {
		s.log.Debug("event dropped", "topic", string(topic), "error", err)
	}
}
