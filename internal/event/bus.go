package event

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrBusClosed indicates publish or subscribe after Close.
var ErrBusClosed = errors.New("event bus closed")

// Topic names an event stream.
type Topic string

// Topics published by the formatting engine.
const (
	// TopicAttributesApplied fires after a render plan lands in the
	// attribute layer.
	TopicAttributesApplied Topic = "render.applied"

	// TopicRenderingState fires when background analysis starts or
	// stops.
	TopicRenderingState Topic = "render.state"

	// TopicConfigReloaded fires after a settings file reload.
	TopicConfigReloaded Topic = "config.reloaded"
)

// HandlerFunc receives published events.
type HandlerFunc func(event any)

// PanicFunc receives recovered handler panics.
type PanicFunc func(topic Topic, recovered any)

// Subscription identifies a registered handler.
type Subscription struct {
	topic Topic
	id    uint64
}

// Bus is a topic-keyed synchronous event bus.
type Bus struct {
	mu      sync.RWMutex
	subs    map[Topic]map[uint64]HandlerFunc
	nextID  atomic.Uint64
	onPanic PanicFunc
	closed  bool

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicFunc sets the handler panic callback.
func WithPanicFunc(fn PanicFunc) BusOption {
	return func(b *Bus) {
		b.onPanic = fn
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs: make(map[Topic]map[uint64]HandlerFunc),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, fn HandlerFunc) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return Subscription{}, ErrBusClosed
	}

	id := b.nextID.Add(1)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]HandlerFunc)
	}
	b.subs[topic][id] = fn

	return Subscription{topic: topic, id: id}, nil
}

// Unsubscribe removes a handler. Unknown subscriptions are a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.subs[sub.topic]; ok {
		delete(handlers, sub.id)
		if len(handlers) == 0 {
			delete(b.subs, sub.topic)
		}
	}
}

// Publish delivers an event to every subscriber of the topic, on the
// caller's goroutine. A panicking handler is recovered and reported;
// remaining handlers still run.
func (b *Bus) Publish(topic Topic, event any) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := make([]HandlerFunc, 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	b.published.Add(1)
	for _, fn := range handlers {
		b.deliver(topic, event, fn)
	}
	return nil
}

func (b *Bus) deliver(topic Topic, event any, fn HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.onPanic != nil {
				b.onPanic(topic, r)
			}
		}
	}()
	fn(event)
	b.delivered.Add(1)
}

// Close drops all subscriptions and rejects further use.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[Topic]map[uint64]HandlerFunc)
}

// Stats reports delivery counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Panics    uint64
}

// Stats returns a snapshot of the delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Panics:    b.panics.Load(),
	}
}
