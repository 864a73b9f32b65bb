package scheduler

import (
	"sync"
	"time"

	"github.com/dshills/notedown/internal/markdown"
)

// DefaultDebounce is the pause after the last keystroke before an
// analysis run starts. Chosen around the threshold at which continuous
// typing reads as "paused".
const DefaultDebounce = 120 * time.Millisecond

// AnalyzeFunc computes a render plan from a text snapshot. It must be
// pure; it runs on a background goroutine.
type AnalyzeFunc func(markdown.RenderRequest) *markdown.RenderPlan

// ApplyFunc consumes a fresh plan. It is always invoked via the
// scheduler's dispatch function, i.e. on the interactive context.
type ApplyFunc func(*markdown.RenderPlan)

// DispatchFunc posts a closure to the interactive context. The host
// supplies one; the default runs the closure inline on the calling
// goroutine, which is only acceptable in tests.
type DispatchFunc func(func())

// DebugLogger receives diagnostic messages.
type DebugLogger interface {
	Debug(msg string, args ...any)
}

// Scheduler debounces text changes and drives analysis runs. The
// busy/pending pair lives under one mutex so the "at most one run in
// flight" invariant holds by construction.
type Scheduler struct {
	mu       sync.Mutex
	busy     bool
	pending  *markdown.RenderRequest
	latest   string
	gen      uint64
	timer    *time.Timer
	closed   bool
	debounce time.Duration

	analyze  AnalyzeFunc
	apply    ApplyFunc
	dispatch DispatchFunc
	log      DebugLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDebounce sets the debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithDispatch sets the function used to hand results back to the
// interactive context.
func WithDispatch(d DispatchFunc) Option {
	return func(s *Scheduler) {
		if d != nil {
			s.dispatch = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log DebugLogger) Option {
	return func(s *Scheduler) {
		s.log = log
	}
}

// New creates a scheduler that feeds analyze results into apply.
func New(analyze AnalyzeFunc, apply ApplyFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		debounce: DefaultDebounce,
		analyze:  analyze,
		apply:    apply,
		dispatch: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnTextChanged records the newest text and restarts the debounce
// timer. N changes inside the debounce window collapse into one run
// over the final text.
func (s *Scheduler) OnTextChanged(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.gen++
	s.latest = text

	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() {
		s.fireIfCurrent(gen)
	})
}

// RequestRenderNow skips the remaining debounce delay and fires
// immediately for the latest recorded text.
func (s *Scheduler) RequestRenderNow() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.fire()
}

// IsRendering reports whether an analysis run is in flight. Informational
// only; not required for correctness.
func (s *Scheduler) IsRendering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Close tears the scheduler down. An in-flight run completes but its
// result is dropped silently; no further runs start.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fireIfCurrent fires only when no newer change superseded the timer
// that scheduled it. A Stop that loses the race with an expiring timer
// must not produce an early run over the new text.
func (s *Scheduler) fireIfCurrent(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		return
	}
	s.fireLocked()
}

// fire starts a run for the latest text, or records it as pending when
// a run is already in flight. Older pending requests are superseded,
// never queued, which bounds worst-case latency to two passes.
func (s *Scheduler) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.fireLocked()
}

func (s *Scheduler) fireLocked() {
	req := markdown.RenderRequest{Text: s.latest, Generation: s.gen}
	if s.busy {
		s.pending = &req
		return
	}

	s.busy = true
	go s.run(req)
}

// run executes one analysis pass on a background goroutine and hands
// the result to the interactive context.
func (s *Scheduler) run(req markdown.RenderRequest) {
	plan := s.analyze(req)
	s.dispatch(func() {
		s.complete(req, plan)
	})
}

// complete runs on the interactive context. It applies the plan unless
// it is stale, then either starts the coalesced follow-up run or goes
// idle.
func (s *Scheduler) complete(req markdown.RenderRequest, plan *markdown.RenderPlan) {
	s.mu.Lock()

	if s.closed {
		s.busy = false
		s.mu.Unlock()
		return
	}

	latest := s.gen
	stale := req.Generation != latest
	next := s.pending
	s.pending = nil
	if next == nil {
		s.busy = false
	}

	s.mu.Unlock()

	if stale {
		if s.log != nil {
			s.log.Debug("discarding stale plan", "generation", req.Generation, "latest", latest)
		}
	} else {
		s.apply(plan)
	}

	if next != nil {
		// Stay busy: exactly one follow-up for however many changes
		// arrived during the run.
		go s.run(*next)
	}
}
