package event

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := NewBus()

	var got []any
	if _, err := b.Subscribe(TopicAttributesApplied, func(ev any) {
		got = append(got, ev)
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	ev := AttributesApplied{Session: uuid.New(), Generation: 3, Matches: 2}
	if err := b.Publish(TopicAttributesApplied, ev); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	if applied, ok := got[0].(AttributesApplied); !ok || applied.Generation != 3 {
		t.Errorf("delivered event = %#v", got[0])
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	b := NewBus()

	called := false
	if _, err := b.Subscribe(TopicRenderingState, func(any) { called = true }); err != nil {
		t.Fatal(err)
	}

	if err := b.Publish(TopicAttributesApplied, AttributesApplied{}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("handler should not receive events from other topics")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()

	count := 0
	sub, err := b.Subscribe(TopicRenderingState, func(any) { count++ })
	if err != nil {
		t.Fatal(err)
	}

	b.Publish(TopicRenderingState, RenderingState{Busy: true})
	b.Unsubscribe(sub)
	b.Publish(TopicRenderingState, RenderingState{Busy: false})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestPanickingHandlerIsContained(t *testing.T) {
	var panicked any
	b := NewBus(WithPanicFunc(func(topic Topic, recovered any) {
		panicked = recovered
	}))

	survived := false
	b.Subscribe(TopicRenderingState, func(any) { panic("boom") })
	b.Subscribe(TopicRenderingState, func(any) { survived = true })

	if err := b.Publish(TopicRenderingState, RenderingState{}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if panicked == nil {
		t.Error("panic callback should have fired")
	}
	if !survived {
		t.Error("remaining handlers should run after a panic")
	}
	if got := b.Stats().Panics; got != 1 {
		t.Errorf("panic count = %d, want 1", got)
	}
}

func TestClosedBusRejectsUse(t *testing.T) {
	b := NewBus()
	b.Close()

	if _, err := b.Subscribe(TopicRenderingState, func(any) {}); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Subscribe after Close = %v, want ErrBusClosed", err)
	}
	if err := b.Publish(TopicRenderingState, RenderingState{}); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v, want ErrBusClosed", err)
	}
}

func TestStatsCountDeliveries(t *testing.T) {
	b := NewBus()
	b.Subscribe(TopicConfigReloaded, func(any) {})
	b.Subscribe(TopicConfigReloaded, func(any) {})

	b.Publish(TopicConfigReloaded, ConfigReloaded{Path: "x"})

	stats := b.Stats()
	if stats.Published != 1 {
		t.Errorf("published = %d, want 1", stats.Published)
	}
	if stats.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", stats.Delivered)
	}
}
