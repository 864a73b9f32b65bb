package scheduler

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/notedown/internal/markdown"
)

func TestDebounceCoalescing(t *testing.T) {
	var runs atomic.Int32
	var mu sync.Mutex
	var lastText string

	applied := make(chan *markdown.RenderPlan, 4)
	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		runs.Add(1)
		mu.Lock()
		lastText = req.Text
		mu.Unlock()
		return markdown.Analyze(req)
	}

	s := New(analyze, func(p *markdown.RenderPlan) { applied <- p },
		WithDebounce(40*time.Millisecond))
	defer s.Close()

	// Rapid single-character insertions, far faster than the debounce
	// window.
	var text strings.Builder
	for i := 0; i < 50; i++ {
		text.WriteByte('a')
		s.OnTextChanged(text.String())
	}

	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for apply")
	}

	if got := runs.Load(); got != 1 {
		t.Errorf("analyzer ran %d times, want exactly 1", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if lastText != text.String() {
		t.Errorf("analyzed %q, want the final text of length %d", lastText, text.Len())
	}
}

func TestSchedulerExclusivity(t *testing.T) {
	release := make(chan struct{}, 4)
	started := make(chan string, 4)

	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		started <- req.Text
		<-release
		return markdown.Analyze(req)
	}

	applied := make(chan *markdown.RenderPlan, 4)
	s := New(analyze, func(p *markdown.RenderPlan) { applied <- p },
		WithDebounce(10*time.Millisecond))
	defer s.Close()

	s.OnTextChanged("one")

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}

	// Two change events while the analyzer is blocked. They must
	// coalesce into exactly one follow-up run over the latest text.
	s.OnTextChanged("two")
	s.OnTextChanged("three")
	time.Sleep(50 * time.Millisecond) // let the debounce timer mark pending

	release <- struct{}{}

	var second string
	select {
	case second = <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("follow-up run never started")
	}
	if second != "three" {
		t.Errorf("follow-up analyzed %q, want the superseding text %q", second, "three")
	}

	release <- struct{}{}

	select {
	case p := <-applied:
		// The stale first plan must have been discarded; only the
		// follow-up plan arrives.
		if p.Generation() != 3 {
			t.Errorf("applied plan generation %d, want 3", p.Generation())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for apply")
	}

	select {
	case text := <-started:
		t.Errorf("unexpected third run over %q", text)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStalePlanDiscarded(t *testing.T) {
	release := make(chan struct{}, 2)
	started := make(chan struct{}, 2)

	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		started <- struct{}{}
		<-release
		return markdown.Analyze(req)
	}

	var appliedGens []uint64
	var mu sync.Mutex
	done := make(chan struct{}, 2)
	s := New(analyze, func(p *markdown.RenderPlan) {
		mu.Lock()
		appliedGens = append(appliedGens, p.Generation())
		mu.Unlock()
		done <- struct{}{}
	}, WithDebounce(5*time.Millisecond))
	defer s.Close()

	s.OnTextChanged("old")
	<-started

	s.OnTextChanged("new")
	time.Sleep(30 * time.Millisecond)

	release <- struct{}{}
	release <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(appliedGens) != 1 || appliedGens[0] != 2 {
		t.Errorf("applied generations %v, want only generation 2", appliedGens)
	}
}

func TestRequestRenderNow(t *testing.T) {
	applied := make(chan *markdown.RenderPlan, 1)
	s := New(markdown.Analyze, func(p *markdown.RenderPlan) { applied <- p },
		WithDebounce(time.Hour))
	defer s.Close()

	s.OnTextChanged("# now")
	s.RequestRenderNow()

	select {
	case p := <-applied:
		if p.Len() != 1 {
			t.Errorf("plan has %d matches, want 1", p.Len())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RequestRenderNow did not bypass the debounce window")
	}
}

func TestCloseDropsInFlightResult(t *testing.T) {
	release := make(chan struct{}, 1)
	started := make(chan struct{}, 1)

	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		started <- struct{}{}
		<-release
		return markdown.Analyze(req)
	}

	applied := make(chan *markdown.RenderPlan, 1)
	s := New(analyze, func(p *markdown.RenderPlan) { applied <- p },
		WithDebounce(5*time.Millisecond))

	s.OnTextChanged("doomed")
	<-started

	s.Close()
	release <- struct{}{}

	select {
	case <-applied:
		t.Error("result applied after Close")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIsRendering(t *testing.T) {
	release := make(chan struct{}, 1)
	started := make(chan struct{}, 1)

	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		started <- struct{}{}
		<-release
		return markdown.Analyze(req)
	}

	done := make(chan struct{}, 1)
	s := New(analyze, func(*markdown.RenderPlan) { done <- struct{}{} },
		WithDebounce(5*time.Millisecond))
	defer s.Close()

	if s.IsRendering() {
		t.Error("IsRendering true before any run")
	}

	s.OnTextChanged("x")
	<-started
	if !s.IsRendering() {
		t.Error("IsRendering false during a run")
	}

	release <- struct{}{}
	<-done
	if s.IsRendering() {
		t.Error("IsRendering true after the run completed")
	}
}

func TestChangesAfterCloseIgnored(t *testing.T) {
	var runs atomic.Int32
	analyze := func(req markdown.RenderRequest) *markdown.RenderPlan {
		runs.Add(1)
		return markdown.Analyze(req)
	}

	s := New(analyze, func(*markdown.RenderPlan) {}, WithDebounce(5*time.Millisecond))
	s.Close()

	s.OnTextChanged("ignored")
	s.RequestRenderNow()
	time.Sleep(50 * time.Millisecond)

	if runs.Load() != 0 {
		t.Errorf("analyzer ran %d times after Close, want 0", runs.Load())
	}
}
