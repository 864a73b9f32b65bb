package dispatcher

import (
	"sync"
	"testing"
	"time"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		i := i
		ok := loop.Dispatch(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 4 {
				close(done)
			}
		})
		if !ok {
			t.Fatalf("Dispatch(%d) returned false", i)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for tasks")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("task order = %v, want ascending", got)
		}
	}
}

func TestLoopStopDrainsQueuedTasks(t *testing.T) {
	loop := NewLoop()
	loop.Start()

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		loop.Dispatch(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}

	loop.Stop()

	mu.Lock()
	defer mu.Unlock()
	if ran != 10 {
		t.Fatalf("ran = %d tasks before Stop returned, want 10", ran)
	}
}

func TestLoopDispatchAfterStop(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	loop.Stop()

	if loop.Dispatch(func() { t.Error("task ran after Stop") }) {
		t.Fatal("Dispatch returned true after Stop")
	}
}

func TestLoopDispatchBeforeStart(t *testing.T) {
	loop := NewLoop()
	defer loop.Stop()

	if loop.Dispatch(func() {}) {
		t.Fatal("Dispatch returned true before Start")
	}
}

func TestLoopPanicRecovery(t *testing.T) {
	var mu sync.Mutex
	var recovered any

	loop := NewLoop(WithPanicFunc(func(r any) {
		mu.Lock()
		recovered = r
		mu.Unlock()
	}))
	loop.Start()
	defer loop.Stop()

	loop.Dispatch(func() { panic("boom") })

	survived := make(chan struct{})
	loop.Dispatch(func() { close(survived) })

	select {
	case <-survived:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not survive panic")
	}

	mu.Lock()
	defer mu.Unlock()
	if recovered != "boom" {
		t.Fatalf("recovered = %v, want boom", recovered)
	}
}

func TestLoopStopIdempotent(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	loop.Stop()
	loop.Stop()

	unstarted := NewLoop()
	unstarted.Stop()
}

func TestLoopQueueFullDrops(t *testing.T) {
	loop := NewLoop(WithQueueSize(1))
	loop.Start()
	defer loop.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	loop.Dispatch(func() {
		close(started)
		<-release
	})
	<-started

	// One slot fills, the next must report a drop.
	loop.Dispatch(func() {})
	dropped := !loop.Dispatch(func() {})
	close(release)

	if !dropped {
		t.Fatal("Dispatch succeeded on a full queue")
	}
}
