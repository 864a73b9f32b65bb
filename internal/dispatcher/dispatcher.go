// Package dispatcher provides a serial execution context. A Loop runs
// queued closures in order on a single goroutine, which is how render
// results are handed back to the interactive side of the editor
// without racing against input handling.
package dispatcher

import "sync"

// DefaultQueueSize is the task channel capacity. Apply passes are
// cheap, so a short queue is enough headroom for bursts.
const DefaultQueueSize = 64

// PanicFunc is called when a dispatched closure panics. The loop keeps
// running afterwards.
type PanicFunc func(recovered any)

// Loop executes closures one at a time on its own goroutine. Dispatch
// is safe from any goroutine; closures run in submission order.
type Loop struct {
	mu      sync.Mutex
	tasks   chan func()
	done    chan struct{}
	onPanic PanicFunc
	started bool
	stopped bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithPanicFunc sets the handler for panics escaping dispatched
// closures. Without one, panics are swallowed.
func WithPanicFunc(fn PanicFunc) Option {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// NewLoop creates a stopped loop. Call Start before dispatching.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		tasks: make(chan func(), DefaultQueueSize),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches the loop goroutine. Starting twice is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started || l.stopped {
		return
	}
	l.started = true
	go l.run()
}

// Stop drains tasks already queued, then shuts the loop down. It
// blocks until the loop goroutine has exited. Stopping twice, or
// stopping a loop that never started, is safe.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	started := l.started
	close(l.tasks)
	l.mu.Unlock()

	if started {
		<-l.done
	}
}

// Dispatch queues fn for execution on the loop goroutine. It reports
// false when the loop is stopped, not yet started, or the queue is
// full; the closure is dropped in those cases.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped || !l.started {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	default:
		return false
	}
}

// Post adapts Dispatch to a plain func(func()) callback, dropping the
// result. Hosts that hand closures off without caring about delivery
// use this form.
func (l *Loop) Post(fn func()) {
	l.Dispatch(fn)
}

func (l *Loop) run() {
	defer close(l.done)
	for fn := range l.tasks {
		l.invoke(fn)
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil && l.onPanic != nil {
			l.onPanic(r)
		}
	}()
	fn()
}
